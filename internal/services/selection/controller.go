package selection

import (
	"go.uber.org/zap"

	"typeahead/internal/domain"
)

// Controller turns option commits into the caller-visible value
type Controller[T any] struct {
	settings   Settings
	projector  domain.Projector[T]
	controlled bool
	value      []T
	logger     *zap.Logger
}

// NewController creates a controller. A nil source is uncontrolled and empty.
func NewController[T any](settings Settings, projector domain.Projector[T], source ValueSource[T], logger *zap.Logger) *Controller[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller[T]{
		settings:  settings,
		projector: projector,
		logger:    logger.Named("selection"),
	}
	switch src := source.(type) {
	case Controlled[T]:
		c.controlled = true
		c.value = c.normalize(src.Value)
	case Uncontrolled[T]:
		c.value = c.normalize(src.Default)
	}
	return c
}

// Settings returns the active settings
func (c *Controller[T]) Settings() Settings {
	return c.settings
}

// Controlled reports whether the caller owns the value
func (c *Controller[T]) Controlled() bool {
	return c.controlled
}

// Value returns the current selection in selection order. In single mode it
// holds at most one element.
func (c *Controller[T]) Value() []T {
	out := make([]T, len(c.value))
	copy(out, c.value)
	return out
}

// Count returns the number of selected items
func (c *Controller[T]) Count() int {
	return len(c.value)
}

// IsSelected reports whether the option with identity value is selected
func (c *Controller[T]) IsSelected(value string) bool {
	return c.indexOf(value) >= 0
}

// CanSelectMore reports whether another option could be added
func (c *Controller[T]) CanSelectMore() bool {
	if c.settings.Mode == domain.ModeSingle {
		return len(c.value) == 0
	}
	return c.settings.MaxSelections <= 0 || len(c.value) < c.settings.MaxSelections
}

// Sync stores a value fed back by the owner of a controlled selection
func (c *Controller[T]) Sync(value []T) {
	if !c.controlled {
		c.logger.Debug("ignoring sync of uncontrolled selection")
		return
	}
	c.value = c.normalize(value)
}

// Select commits opt
func (c *Controller[T]) Select(opt domain.Option[T]) Transition[T] {
	if opt.Disabled {
		return Transition[T]{}
	}

	if c.settings.Mode == domain.ModeSingle {
		if c.IsSelected(opt.Value) {
			return Transition[T]{Close: true}
		}
		t := c.propose([]T{opt.Raw})
		t.Close = true
		t.SetInput = true
		t.Input = opt.Label
		return t
	}

	if c.IsSelected(opt.Value) {
		return c.propose(c.without(opt.Value))
	}
	if !c.CanSelectMore() {
		return Transition[T]{}
	}
	next := append(c.Value(), opt.Raw)
	t := c.propose(next)
	t.SetInput = true
	t.Input = ""
	return t
}

// Remove drops the item with identity value
func (c *Controller[T]) Remove(value string) Transition[T] {
	if !c.IsSelected(value) {
		return Transition[T]{}
	}
	return c.propose(c.without(value))
}

// Clear empties the selection and the input text
func (c *Controller[T]) Clear() Transition[T] {
	var next []T
	if c.settings.Mode == domain.ModeMultiple {
		next = []T{}
	}
	t := c.propose(next)
	t.SetInput = true
	t.Input = ""
	return t
}

// SelectAll appends every visible, enabled, unselected option until the cap
func (c *Controller[T]) SelectAll(visible []domain.Option[T]) Transition[T] {
	if c.settings.Mode != domain.ModeMultiple || !c.settings.AllowSelectAll {
		return Transition[T]{}
	}

	next := c.Value()
	seen := make(map[string]bool, len(next))
	for _, raw := range next {
		seen[c.projector.ValueOf(raw)] = true
	}
	added := 0
	for _, opt := range visible {
		if c.settings.MaxSelections > 0 && len(next) >= c.settings.MaxSelections {
			break
		}
		if opt.Disabled || seen[opt.Value] {
			continue
		}
		seen[opt.Value] = true
		next = append(next, opt.Raw)
		added++
	}
	if added == 0 {
		return Transition[T]{}
	}
	return c.propose(next)
}

// ClearAll empties a multiple selection; single mode falls back to Clear
func (c *Controller[T]) ClearAll() Transition[T] {
	if c.settings.Mode != domain.ModeMultiple {
		return c.Clear()
	}
	if !c.settings.AllowClearAll {
		return Transition[T]{}
	}
	return c.propose([]T{})
}

// SetSelection replaces the selection programmatically. Duplicates are
// dropped and the list is truncated to what the mode and cap allow.
func (c *Controller[T]) SetSelection(items []T) Transition[T] {
	return c.propose(c.normalize(items))
}

func (c *Controller[T]) propose(next []T) Transition[T] {
	if !c.controlled {
		c.value = next
	}
	return Transition[T]{Changed: true, Next: next}
}

func (c *Controller[T]) normalize(items []T) []T {
	seen := make(map[string]bool, len(items))
	out := make([]T, 0, len(items))
	for _, raw := range items {
		key := c.projector.ValueOf(raw)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, raw)
	}

	limit := 0
	switch {
	case c.settings.Mode == domain.ModeSingle:
		limit = 1
	case c.settings.MaxSelections > 0:
		limit = c.settings.MaxSelections
	}
	if limit > 0 && len(out) > limit {
		c.logger.Warn("selection truncated",
			zap.Int("requested", len(out)),
			zap.Int("limit", limit),
			zap.String("mode", c.settings.Mode.String()))
		out = out[:limit]
	}

	if c.settings.Mode == domain.ModeSingle && len(out) == 0 {
		return nil
	}
	return out
}

func (c *Controller[T]) indexOf(value string) int {
	for i, raw := range c.value {
		if c.projector.ValueOf(raw) == value {
			return i
		}
	}
	return -1
}

func (c *Controller[T]) without(value string) []T {
	next := make([]T, 0, len(c.value))
	for _, raw := range c.value {
		if c.projector.ValueOf(raw) != value {
			next = append(next, raw)
		}
	}
	if c.settings.Mode == domain.ModeSingle && len(next) == 0 {
		return nil
	}
	return next
}
