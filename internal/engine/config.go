package engine

import (
	"time"

	"go.uber.org/zap"

	"typeahead/internal/domain"
	"typeahead/internal/eventbus"
	"typeahead/internal/services/remote"
	"typeahead/internal/services/selection"
)

// InputSource says who owns the input text
type InputSource interface {
	inputSource()
}

// ControlledInput means the caller owns the text and feeds accepted changes
// back with SyncInputValue.
type ControlledInput struct {
	Value string
}

// UncontrolledInput means the engine owns the text, starting from Default
type UncontrolledInput struct {
	Default string
}

func (ControlledInput) inputSource()   {}
func (UncontrolledInput) inputSource() {}

// Config configures a SearchSelect. Zero values pick the defaults noted on
// each field.
type Config[T any] struct {
	Mode      domain.Mode
	Projector domain.Projector[T] // Label and Value are required

	// Value selects controlled or uncontrolled selection; nil is
	// uncontrolled and empty. OnChange receives every proposed value; in
	// single mode the slice holds at most one element.
	Value    selection.ValueSource[T]
	OnChange func(next []T)

	// Options is the static list searched locally
	Options []T

	// OnSearch enables remote search when non-nil
	OnSearch        remote.SearchFunc[T]
	Debounce        time.Duration // 0 means 300ms, negative means none
	MinSearchLength int           // 0 means 2, negative means 1

	DisableFuzzyMatch bool
	DisableHighlight  bool
	DisableLoop       bool

	MaxSelections  int // 0 means unlimited
	AllowSelectAll bool
	AllowClearAll  bool

	Input         InputSource // nil is uncontrolled and empty
	OnInputChange func(string)
	OnOpenChange  func(bool)

	// OnStateChange is called after asynchronous changes (remote search
	// started or settled) so a renderer can repaint.
	OnStateChange func()

	Logger    *zap.Logger
	Bus       eventbus.EventBus
	Scheduler remote.Scheduler
}

func (c Config[T]) remoteSettings() remote.Settings {
	s := remote.Settings{
		Debounce:        c.Debounce,
		MinSearchLength: c.MinSearchLength,
	}
	switch {
	case s.Debounce == 0:
		s.Debounce = remote.DefaultDebounce
	case s.Debounce < 0:
		s.Debounce = 0
	}
	switch {
	case s.MinSearchLength == 0:
		s.MinSearchLength = remote.DefaultMinSearchLength
	case s.MinSearchLength < 0:
		s.MinSearchLength = 1
	}
	return s
}

// Snapshot is every piece of read state at one instant
type Snapshot[T any] struct {
	Input         string
	Open          bool
	Results       []domain.Option[T]
	Selected      []domain.Option[T]
	Value         []T
	ActiveIndex   int
	Searching     bool
	Error         string
	CanSelectMore bool
}
