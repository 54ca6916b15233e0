package remote

import (
	"context"
	"time"

	"typeahead/internal/domain"
)

// Defaults for the coordinator
const (
	DefaultDebounce        = 300 * time.Millisecond
	DefaultMinSearchLength = 2
	GenericErrorMessage    = "search failed"
)

// SearchFunc fetches raw options for query. The context is cancelled when the
// search is superseded, cleared or the coordinator is closed.
type SearchFunc[T any] func(ctx context.Context, query string) ([]T, error)

// Timer is the handle returned by a Scheduler
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d
type Scheduler func(d time.Duration, f func()) Timer

// RealScheduler schedules on the runtime timer
func RealScheduler(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Settings configures a Coordinator
type Settings struct {
	Debounce        time.Duration
	MinSearchLength int
}

// State is a snapshot of the remote layer
type State[T any] struct {
	Query     string
	Results   []domain.Option[T]
	Searching bool
	Error     string
}
