package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// ErrStatus is returned when the endpoint answers with a non-2xx status
var ErrStatus = errors.New("unexpected status")

const maxResponseBytes = 8 << 20

// HTTPSource searches a remote endpoint with GET <URL>?<Param>=<query>
type HTTPSource struct {
	URL         string
	Param       string // defaults to "q"
	ResultsPath string // gjson path to the array, empty for a top-level array
	Client      *http.Client
	Logger      *zap.Logger
}

// NewHTTPSource creates a source for endpoint with a bounded client timeout
func NewHTTPSource(endpoint string, timeout time.Duration, logger *zap.Logger) *HTTPSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPSource{
		URL:    endpoint,
		Param:  "q",
		Client: &http.Client{Timeout: timeout},
		Logger: logger.Named("http"),
	}
}

// Search fetches records matching query. It honors ctx cancellation, so a
// superseded search stops its request.
func (s *HTTPSource) Search(ctx context.Context, query string) ([]Record, error) {
	u, err := url.Parse(s.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid remote url: %w", err)
	}
	param := s.Param
	if param == "" {
		param = "q"
	}
	q := u.Query()
	q.Set(param, query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	records, err := ParseRecords(body, s.ResultsPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("remote search done",
		zap.String("query", query),
		zap.Int("records", len(records)),
		zap.Duration("took", time.Since(start)))
	return records, nil
}
