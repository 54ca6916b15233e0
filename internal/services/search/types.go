package search

// Settings controls how the index matches queries
type Settings struct {
	Fuzzy     bool // approximate matching via sahilm/fuzzy; substring otherwise
	Highlight bool // compute label highlight ranges for fuzzy matches
}

// DefaultSettings enables fuzzy matching with highlights
func DefaultSettings() Settings {
	return Settings{Fuzzy: true, Highlight: true}
}

// State holds search state
type State struct {
	Query   string
	Matches []int // indices into the static option list, in ranked order
}
