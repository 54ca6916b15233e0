package engine

import (
	"sync"

	"go.uber.org/zap"

	"typeahead/internal/domain"
	"typeahead/internal/eventbus"
	"typeahead/internal/logic"
	"typeahead/internal/services/navigation"
	"typeahead/internal/services/remote"
	"typeahead/internal/services/search"
	"typeahead/internal/services/selection"
)

// SearchSelect is a type-ahead search/select engine. Input flows into the
// local index (synchronously) and the remote coordinator (debounced); their
// merged results feed the keyboard navigator, and commits go through the
// selection controller to the caller-visible value.
//
// All methods are safe for concurrent use. Callbacks run after the engine's
// lock is released, so they may call back into the engine.
type SearchSelect[T any] struct {
	mu sync.Mutex

	cfg       Config[T]
	logger    *zap.Logger
	bus       eventbus.EventBus
	index     *search.Index[T]
	remote    *remote.Coordinator[T]
	selection *selection.Controller[T]
	nav       *navigation.Navigator

	input           string
	inputControlled bool
	open            bool
	results         []domain.Option[T]
	closed          bool

	// effects collected by navigator callbacks during HandleKey
	keyEffects *effects[T]
}

// effects are the callbacks and events owed once the lock is released
type effects[T any] struct {
	changed      bool
	next         []T
	inputChanged bool
	input        string
	openChanged  bool
	open         bool
}

// New creates an engine and indexes cfg.Options
func New[T any](cfg Config[T]) *SearchSelect[T] {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	bus := cfg.Bus
	if bus == nil {
		bus = eventbus.NullBus{}
	}

	e := &SearchSelect[T]{
		cfg:    cfg,
		logger: logger.Named("engine"),
		bus:    bus,
	}

	e.index = search.NewIndex(cfg.Projector, search.Settings{
		Fuzzy:     !cfg.DisableFuzzyMatch,
		Highlight: !cfg.DisableHighlight,
	}, logger)

	remoteOpts := []remote.Option{
		remote.WithLogger(logger),
		remote.WithBus(bus),
		remote.WithNotify(e.onRemoteChange),
	}
	if cfg.Scheduler != nil {
		remoteOpts = append(remoteOpts, remote.WithScheduler(cfg.Scheduler))
	}
	e.remote = remote.New(cfg.OnSearch, cfg.Projector, cfg.remoteSettings(), remoteOpts...)

	e.selection = selection.NewController(selection.Settings{
		Mode:           cfg.Mode,
		MaxSelections:  cfg.MaxSelections,
		AllowSelectAll: cfg.AllowSelectAll,
		AllowClearAll:  cfg.AllowClearAll,
	}, cfg.Projector, cfg.Value, logger)

	e.nav = navigation.NewNavigator(
		navigation.Settings{Loop: !cfg.DisableLoop},
		e.selectIndexFromKey,
		e.escapeFromKey,
	)
	e.nav.SetEnabled(false)

	switch src := cfg.Input.(type) {
	case ControlledInput:
		e.inputControlled = true
		e.input = src.Value
	case UncontrolledInput:
		e.input = src.Default
	}

	e.index.SetOptions(cfg.Options)
	e.index.Search(e.input)
	e.recomputeLocked()

	return e
}

// SetInputValue applies typed text: filters locally, schedules a remote
// search and opens the dropdown.
func (e *SearchSelect[T]) SetInputValue(text string) {
	e.do(func(fx *effects[T]) {
		e.applyInputLocked(text, true, fx)
		e.setOpenLocked(true, fx)
	})
}

// SyncInputValue stores text accepted by the owner of a controlled input
func (e *SearchSelect[T]) SyncInputValue(text string) {
	e.do(func(fx *effects[T]) {
		if !e.inputControlled {
			return
		}
		e.input = text
		if text != e.index.Query() {
			e.index.Search(text)
			e.remote.Search(text)
			e.recomputeLocked()
		}
	})
}

// HandleOptionSelect commits opt according to the selection mode
func (e *SearchSelect[T]) HandleOptionSelect(opt domain.Option[T]) {
	e.do(func(fx *effects[T]) {
		e.applyLocked(e.selection.Select(opt), fx)
	})
}

// HandleSelectIndex commits the result at index, if any
func (e *SearchSelect[T]) HandleSelectIndex(index int) {
	e.do(func(fx *effects[T]) {
		e.selectIndexLocked(index, fx)
	})
}

// HandleRemoveOption removes the selected item with identity value
func (e *SearchSelect[T]) HandleRemoveOption(value string) {
	e.do(func(fx *effects[T]) {
		e.applyLocked(e.selection.Remove(value), fx)
	})
}

// HandleClearSelection empties the selection and the input text
func (e *SearchSelect[T]) HandleClearSelection() {
	e.do(func(fx *effects[T]) {
		e.applyLocked(e.selection.Clear(), fx)
	})
}

// HandleSelectAll selects every visible enabled result up to the cap
func (e *SearchSelect[T]) HandleSelectAll() {
	e.do(func(fx *effects[T]) {
		e.applyLocked(e.selection.SelectAll(e.results), fx)
	})
}

// HandleClearAll empties a multiple selection
func (e *SearchSelect[T]) HandleClearAll() {
	e.do(func(fx *effects[T]) {
		e.applyLocked(e.selection.ClearAll(), fx)
	})
}

// SetSelection replaces the selection programmatically. Lists longer than
// the mode or MaxSelections allow are truncated.
func (e *SearchSelect[T]) SetSelection(items []T) {
	e.do(func(fx *effects[T]) {
		e.applyLocked(e.selection.SetSelection(items), fx)
	})
}

// SyncValue stores a value accepted by the owner of a controlled selection
func (e *SearchSelect[T]) SyncValue(items []T) {
	e.do(func(fx *effects[T]) {
		e.selection.Sync(items)
	})
}

// SetOptions replaces the static options and re-applies the current query
func (e *SearchSelect[T]) SetOptions(options []T) {
	e.do(func(fx *effects[T]) {
		e.cfg.Options = options
		e.index.SetOptions(options)
		e.recomputeLocked()
		e.logger.Debug("static options replaced", zap.Int("count", len(options)))
	})
}

// SetOpen opens or closes the dropdown
func (e *SearchSelect[T]) SetOpen(open bool) {
	e.do(func(fx *effects[T]) {
		e.setOpenLocked(open, fx)
	})
}

// ClearResults drops remote results, the error and any pending search
func (e *SearchSelect[T]) ClearResults() {
	e.do(func(fx *effects[T]) {
		e.remote.Clear()
		e.recomputeLocked()
	})
}

// RefreshResults re-issues the current remote search without debouncing
func (e *SearchSelect[T]) RefreshResults() {
	e.do(func(fx *effects[T]) {
		e.remote.Refresh()
	})
}

// SetActiveIndex highlights the result at index, e.g. on mouse hover
func (e *SearchSelect[T]) SetActiveIndex(index int) {
	e.do(func(fx *effects[T]) {
		e.nav.SetActiveIndex(index)
	})
}

// ResetActiveIndex clears the keyboard highlight
func (e *SearchSelect[T]) ResetActiveIndex() {
	e.do(func(fx *effects[T]) {
		e.nav.Reset()
	})
}

// HandleKey routes a key press through the navigator and reports whether it
// was handled. Arrow keys open a closed dropdown first.
func (e *SearchSelect[T]) HandleKey(ev navigation.KeyEvent) bool {
	var handled bool
	e.do(func(fx *effects[T]) {
		if !e.open && (ev.Key() == navigation.KeyArrowDown || ev.Key() == navigation.KeyArrowUp) {
			e.setOpenLocked(true, fx)
		}
		e.keyEffects = fx
		handled = e.nav.HandleKey(ev)
		e.keyEffects = nil
	})
	return handled
}

// Close tears the engine down; no state changes happen afterwards
func (e *SearchSelect[T]) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.remote.Close()
	e.nav.SetEnabled(false)
}

// Wait blocks until every started remote fetch has returned
func (e *SearchSelect[T]) Wait() {
	e.remote.Wait()
}

// IsSelected reports whether the option with identity value is selected
func (e *SearchSelect[T]) IsSelected(value string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection.IsSelected(value)
}

// Results returns the merged result list
func (e *SearchSelect[T]) Results() []domain.Option[T] {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.results
}

// SelectedOptions returns the selection projected into options
func (e *SearchSelect[T]) SelectedOptions() []domain.Option[T] {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selectedOptionsLocked()
}

// Value returns the selection in selection order
func (e *SearchSelect[T]) Value() []T {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection.Value()
}

// IsSearching reports whether a remote fetch is in flight
func (e *SearchSelect[T]) IsSearching() bool {
	return e.remote.Snapshot().Searching
}

// Error returns the last remote search failure, if any
func (e *SearchSelect[T]) Error() string {
	return e.remote.Snapshot().Error
}

// CanSelectMore reports whether another option could be selected
func (e *SearchSelect[T]) CanSelectMore() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection.CanSelectMore()
}

// IsOpen reports whether the dropdown is open
func (e *SearchSelect[T]) IsOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.open
}

// ActiveIndex returns the highlighted result index, or -1
func (e *SearchSelect[T]) ActiveIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.nav.ActiveIndex()
}

// InputValue returns the current input text
func (e *SearchSelect[T]) InputValue() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.input
}

// Mode returns the selection mode
func (e *SearchSelect[T]) Mode() domain.Mode {
	return e.cfg.Mode
}

// Snapshot returns all read state at once
func (e *SearchSelect[T]) Snapshot() Snapshot[T] {
	e.mu.Lock()
	defer e.mu.Unlock()
	rs := e.remote.Snapshot()
	return Snapshot[T]{
		Input:         e.input,
		Open:          e.open,
		Results:       e.results,
		Selected:      e.selectedOptionsLocked(),
		Value:         e.selection.Value(),
		ActiveIndex:   e.nav.ActiveIndex(),
		Searching:     rs.Searching,
		Error:         rs.Error,
		CanSelectMore: e.selection.CanSelectMore(),
	}
}

// do runs fn under the lock, then fires the collected callbacks
func (e *SearchSelect[T]) do(fn func(fx *effects[T])) {
	var fx effects[T]
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	fn(&fx)
	e.mu.Unlock()

	e.flush(fx)
}

func (e *SearchSelect[T]) flush(fx effects[T]) {
	if fx.changed {
		if e.cfg.OnChange != nil {
			e.cfg.OnChange(fx.next)
		}
		values := make([]string, len(fx.next))
		for i, raw := range fx.next {
			values[i] = e.cfg.Projector.ValueOf(raw)
		}
		e.bus.Publish(domain.SelectionChangedEvent{Values: values, Controlled: e.selection.Controlled()})
	}
	if fx.inputChanged && e.cfg.OnInputChange != nil {
		e.cfg.OnInputChange(fx.input)
	}
	if fx.openChanged {
		if e.cfg.OnOpenChange != nil {
			e.cfg.OnOpenChange(fx.open)
		}
		e.bus.Publish(domain.OpenChangedEvent{Open: fx.open})
	}
}

// applyInputLocked filters for text. Typed text also drives the remote
// search; programmatic text (a committed label) drops remote results instead.
// A controlled input only proposes text; SyncInputValue applies it.
func (e *SearchSelect[T]) applyInputLocked(text string, typed bool, fx *effects[T]) {
	if text != e.input {
		fx.inputChanged = true
		fx.input = text
	}
	if e.inputControlled {
		return
	}
	e.input = text

	e.index.Search(text)
	if typed {
		e.remote.Search(text)
	} else {
		e.remote.Search("")
	}
	e.recomputeLocked()
}

func (e *SearchSelect[T]) applyLocked(t selection.Transition[T], fx *effects[T]) {
	if t.Changed {
		fx.changed = true
		fx.next = t.Next
	}
	if t.SetInput {
		e.applyInputLocked(t.Input, false, fx)
	}
	if t.Close {
		e.setOpenLocked(false, fx)
	}
}

func (e *SearchSelect[T]) setOpenLocked(open bool, fx *effects[T]) {
	if e.open == open {
		return
	}
	e.open = open
	e.nav.SetEnabled(open)
	if !open {
		e.nav.Reset()
	}
	fx.openChanged = true
	fx.open = open
}

func (e *SearchSelect[T]) selectIndexLocked(index int, fx *effects[T]) {
	if index < 0 || index >= len(e.results) {
		return
	}
	e.applyLocked(e.selection.Select(e.results[index]), fx)
}

// selectIndexFromKey and escapeFromKey run inside HandleKey, under the lock
func (e *SearchSelect[T]) selectIndexFromKey(index int) {
	e.selectIndexLocked(index, e.keyEffects)
}

func (e *SearchSelect[T]) escapeFromKey() {
	e.setOpenLocked(false, e.keyEffects)
}

// recomputeLocked merges local and remote results. The highlight survives
// only when the list of values is unchanged.
func (e *SearchSelect[T]) recomputeLocked() {
	merged := logic.Merge(e.index.Results(), e.remote.Snapshot().Results)
	if !sameValues(e.results, merged) {
		e.nav.SetOptionCount(len(merged))
		e.nav.Reset()
	}
	e.results = merged
}

func (e *SearchSelect[T]) onRemoteChange() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.recomputeLocked()
	e.mu.Unlock()

	if e.cfg.OnStateChange != nil {
		e.cfg.OnStateChange()
	}
}

func (e *SearchSelect[T]) selectedOptionsLocked() []domain.Option[T] {
	value := e.selection.Value()
	out := make([]domain.Option[T], 0, len(value))
	for _, raw := range value {
		if opt, ok := e.index.Lookup(e.cfg.Projector.ValueOf(raw)); ok {
			opt.Raw = raw
			out = append(out, opt)
			continue
		}
		out = append(out, e.cfg.Projector.Project(raw, domain.OriginRemote))
	}
	return out
}

func sameValues[T any](a, b []domain.Option[T]) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Value != b[i].Value {
			return false
		}
	}
	return true
}
