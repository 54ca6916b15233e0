package selection

import "typeahead/internal/domain"

// Settings constrains what can be selected
type Settings struct {
	Mode           domain.Mode
	MaxSelections  int // 0 means unlimited; multiple mode only
	AllowSelectAll bool
	AllowClearAll  bool
}

// ValueSource says who owns the selection value
type ValueSource[T any] interface {
	valueSource()
}

// Controlled means the caller owns the value and feeds accepted changes
// back with Controller.Sync.
type Controlled[T any] struct {
	Value []T
}

// Uncontrolled means the controller owns the value, starting from Default
type Uncontrolled[T any] struct {
	Default []T
}

func (Controlled[T]) valueSource()   {}
func (Uncontrolled[T]) valueSource() {}

// Transition is the outcome of a selection operation. The caller applies the
// UI effects and emits Next through its change callback when Changed is set.
type Transition[T any] struct {
	Changed  bool
	Next     []T
	Close    bool   // close the dropdown
	SetInput bool   // replace the input text with Input
	Input    string
}
