package navigation

// Navigator tracks the highlighted index over a result list and maps key
// events to navigation, selection and escape actions.
type Navigator struct {
	state    State
	settings Settings
	enabled  bool
	onSelect func(index int)
	onEscape func()
}

// NewNavigator creates a navigator with nothing highlighted
func NewNavigator(settings Settings, onSelect func(int), onEscape func()) *Navigator {
	return &Navigator{
		state:    State{ActiveIndex: -1},
		settings: settings,
		enabled:  true,
		onSelect: onSelect,
		onEscape: onEscape,
	}
}

// ActiveIndex returns the highlighted index, or -1
func (n *Navigator) ActiveIndex() int {
	return n.state.ActiveIndex
}

// SetEnabled turns key handling on or off
func (n *Navigator) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// Enabled reports whether keys are processed
func (n *Navigator) Enabled() bool {
	return n.enabled
}

// SetOptionCount updates the list length, clamping the active index
func (n *Navigator) SetOptionCount(count int) {
	if count < 0 {
		count = 0
	}
	n.state.OptionCount = count
	if n.state.ActiveIndex >= count {
		n.state.ActiveIndex = count - 1
	}
}

// SetActiveIndex highlights index when it is in range
func (n *Navigator) SetActiveIndex(index int) {
	if index < -1 || index >= n.state.OptionCount {
		return
	}
	n.state.ActiveIndex = index
}

// Reset clears the highlight
func (n *Navigator) Reset() {
	n.state.ActiveIndex = -1
}

// HandleKey processes ev and reports whether it was recognized
func (n *Navigator) HandleKey(ev KeyEvent) bool {
	if !n.enabled {
		return false
	}

	switch ev.Key() {
	case KeyArrowDown:
		ev.PreventDefault()
		n.moveDown()
	case KeyArrowUp:
		ev.PreventDefault()
		n.moveUp()
	case KeyEnter:
		ev.PreventDefault()
		if n.state.ActiveIndex >= 0 && n.state.ActiveIndex < n.state.OptionCount && n.onSelect != nil {
			n.onSelect(n.state.ActiveIndex)
		}
	case KeyEscape:
		ev.PreventDefault()
		if n.onEscape != nil {
			n.onEscape()
		}
		n.Reset()
	default:
		return false
	}
	return true
}

func (n *Navigator) moveDown() {
	last := n.state.OptionCount - 1
	if n.state.ActiveIndex < last {
		n.state.ActiveIndex++
		return
	}
	if n.settings.Loop && n.state.OptionCount > 0 {
		n.state.ActiveIndex = 0
	}
}

func (n *Navigator) moveUp() {
	if n.state.ActiveIndex > 0 {
		n.state.ActiveIndex--
		return
	}
	if n.settings.Loop && n.state.OptionCount > 0 {
		n.state.ActiveIndex = n.state.OptionCount - 1
		return
	}
	n.state.ActiveIndex = -1
}
