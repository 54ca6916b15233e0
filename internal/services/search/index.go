package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"

	"typeahead/internal/domain"
)

// Index filters a static option list against a query
type Index[T any] struct {
	projector domain.Projector[T]
	settings  Settings
	logger    *zap.Logger

	options    []domain.Option[T]
	byValue    map[string]int
	labels     []string
	descs      []string
	searchable []string

	state   State
	results []domain.Option[T]
}

// NewIndex creates an empty index
func NewIndex[T any](projector domain.Projector[T], settings Settings, logger *zap.Logger) *Index[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Index[T]{
		projector: projector,
		settings:  settings,
		logger:    logger.Named("search"),
	}
}

// SetOptions rebuilds the index from raws and re-applies the current query
func (ix *Index[T]) SetOptions(raws []T) []domain.Option[T] {
	ix.options = ix.projector.ProjectAll(raws, domain.OriginStatic)
	ix.labels = make([]string, len(ix.options))
	ix.descs = make([]string, len(ix.options))
	ix.searchable = make([]string, len(ix.options))
	ix.byValue = make(map[string]int, len(ix.options))
	for i, opt := range ix.options {
		if _, dup := ix.byValue[opt.Value]; !dup {
			ix.byValue[opt.Value] = i
		}
		ix.labels[i] = opt.Label
		ix.descs[i] = opt.Description
		ix.searchable[i] = opt.Searchable()
	}
	ix.logger.Debug("index rebuilt", zap.Int("options", len(ix.options)))
	return ix.Search(ix.state.Query)
}

// Search filters the static options against query and stores the result
func (ix *Index[T]) Search(query string) []domain.Option[T] {
	ix.state.Query = query
	q := strings.TrimSpace(query)

	switch {
	case q == "":
		ix.state.Matches = make([]int, len(ix.options))
		for i := range ix.options {
			ix.state.Matches[i] = i
		}
		ix.results = ix.collect(ix.state.Matches, nil)
	case ix.settings.Fuzzy:
		ix.fuzzySearch(q)
	default:
		ix.substringSearch(q)
	}

	return ix.results
}

// Results returns the options matching the current query
func (ix *Index[T]) Results() []domain.Option[T] {
	return ix.results
}

// Query returns the last query applied
func (ix *Index[T]) Query() string {
	return ix.state.Query
}

// Options returns every static option in original order
func (ix *Index[T]) Options() []domain.Option[T] {
	return ix.options
}

// Lookup returns the first static option with identity value
func (ix *Index[T]) Lookup(value string) (domain.Option[T], bool) {
	i, ok := ix.byValue[value]
	if !ok {
		return domain.Option[T]{}, false
	}
	return ix.options[i], true
}

// Len returns the number of static options
func (ix *Index[T]) Len() int {
	return len(ix.options)
}

func (ix *Index[T]) substringSearch(q string) {
	lower := strings.ToLower(q)
	ix.state.Matches = ix.state.Matches[:0]
	for i, s := range ix.searchable {
		if strings.Contains(strings.ToLower(s), lower) {
			ix.state.Matches = append(ix.state.Matches, i)
		}
	}
	ix.results = ix.collect(ix.state.Matches, nil)
}

func (ix *Index[T]) fuzzySearch(q string) {
	best := make(map[int]int)
	labelHits := make(map[int][]int)

	record := func(matches fuzzy.Matches, isLabel bool) {
		for _, m := range matches {
			if score, ok := best[m.Index]; !ok || m.Score > score {
				best[m.Index] = m.Score
			}
			if isLabel {
				labelHits[m.Index] = m.MatchedIndexes
			}
		}
	}
	record(fuzzy.Find(q, ix.labels), true)
	record(fuzzy.Find(q, ix.descs), false)
	record(fuzzy.Find(q, ix.searchable), false)

	ix.state.Matches = ix.state.Matches[:0]
	for i := range best {
		ix.state.Matches = append(ix.state.Matches, i)
	}
	// higher score first, original order on ties
	sort.Slice(ix.state.Matches, func(a, b int) bool {
		ia, ib := ix.state.Matches[a], ix.state.Matches[b]
		if best[ia] != best[ib] {
			return best[ia] > best[ib]
		}
		return ia < ib
	})

	var highlights map[int][]domain.HighlightRange
	if ix.settings.Highlight {
		highlights = make(map[int][]domain.HighlightRange, len(labelHits))
		for i, idx := range labelHits {
			highlights[i] = Ranges(ix.labels[i], idx)
		}
	}
	ix.results = ix.collect(ix.state.Matches, highlights)
}

func (ix *Index[T]) collect(matches []int, highlights map[int][]domain.HighlightRange) []domain.Option[T] {
	out := make([]domain.Option[T], 0, len(matches))
	for _, i := range matches {
		opt := ix.options[i]
		opt.Meta.HighlightRanges = highlights[i]
		out = append(out, opt)
	}
	return out
}

// Ranges turns matched byte offsets within label into inclusive rune spans,
// merging adjacent positions.
func Ranges(label string, byteOffsets []int) []domain.HighlightRange {
	if len(byteOffsets) == 0 {
		return nil
	}
	runes := make([]int, 0, len(byteOffsets))
	for _, off := range byteOffsets {
		if off < 0 || off > len(label) {
			continue
		}
		runes = append(runes, utf8.RuneCountInString(label[:off]))
	}
	sort.Ints(runes)

	var ranges []domain.HighlightRange
	for _, r := range runes {
		if n := len(ranges); n > 0 {
			last := &ranges[n-1]
			if r <= last.End {
				continue
			}
			if r == last.End+1 {
				last.End = r
				continue
			}
		}
		ranges = append(ranges, domain.HighlightRange{Start: r, End: r})
	}
	return ranges
}
