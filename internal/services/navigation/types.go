package navigation

// Key is a navigation key recognized by the navigator
type Key string

const (
	KeyArrowUp   Key = "ArrowUp"
	KeyArrowDown Key = "ArrowDown"
	KeyEnter     Key = "Enter"
	KeyEscape    Key = "Escape"
)

// KeyEvent is a key press delivered by the renderer
type KeyEvent interface {
	Key() Key
	PreventDefault()
}

// State holds navigation state
type State struct {
	ActiveIndex int // -1 means nothing highlighted
	OptionCount int
}

// Settings configures the navigator
type Settings struct {
	Loop bool
}

// DefaultSettings wraps around at both ends
func DefaultSettings() Settings {
	return Settings{Loop: true}
}
