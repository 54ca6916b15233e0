package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSearchSendsQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		assert.Equal(t, "yes", r.URL.Query().Get("keep"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {"users": [{"login": "alice"}, {"login": "alfred"}]}}`))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/search?keep=yes", time.Second, nil)
	src.ResultsPath = "data.users"

	records, err := src.Search(context.Background(), "al fr")
	require.NoError(t, err)
	assert.Equal(t, "al fr", gotQuery)
	require.Len(t, records, 2)
	assert.Equal(t, "alfred", records[1].Get("login").String())
}

func TestHTTPSearchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, time.Second, nil).Search(context.Background(), "al")
	require.ErrorIs(t, err, ErrStatus)
	assert.Contains(t, err.Error(), "502")
}

func TestHTTPSearchNotArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": "bad"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, time.Second, nil).Search(context.Background(), "al")
	assert.ErrorIs(t, err, ErrNotArray)
}

func TestHTTPSearchHonorsCancellation(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := NewHTTPSource(srv.URL, 5*time.Second, nil).Search(ctx, "al")
		errc <- err
	}()

	cancel()
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("search did not stop after cancellation")
	}
}
