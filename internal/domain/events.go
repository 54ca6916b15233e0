package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSearchStarted    EventType = "SearchStarted"
	EventSearchCompleted  EventType = "SearchCompleted"
	EventSearchFailed     EventType = "SearchFailed"
	EventSelectionChanged EventType = "SelectionChanged"
	EventOpenChanged      EventType = "OpenChanged"
	EventOptionsReloaded  EventType = "OptionsReloaded"
	EventError            EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SearchStartedEvent is emitted when a debounced remote search fires
type SearchStartedEvent struct {
	Query string
}

func (e SearchStartedEvent) Type() EventType { return EventSearchStarted }

// SearchCompletedEvent is emitted when a remote search result is applied
type SearchCompletedEvent struct {
	Query       string
	ResultCount int
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// SearchFailedEvent is emitted when the remote search function returns an error
type SearchFailedEvent struct {
	Query   string
	Message string
}

func (e SearchFailedEvent) Type() EventType { return EventSearchFailed }

// SelectionChangedEvent is emitted whenever a next selection value is proposed
type SelectionChangedEvent struct {
	Values     []string // identity keys, in selection order
	Controlled bool
}

func (e SelectionChangedEvent) Type() EventType { return EventSelectionChanged }

// OpenChangedEvent is emitted when the dropdown opens or closes
type OpenChangedEvent struct {
	Open bool
}

func (e OpenChangedEvent) Type() EventType { return EventOpenChanged }

// OptionsReloadedEvent is emitted when the static option list is replaced
type OptionsReloadedEvent struct {
	Source string
	Count  int
}

func (e OptionsReloadedEvent) Type() EventType { return EventOptionsReloaded }

// ErrorEvent is emitted when a background operation fails
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
