package domain

// Mode selects between single and multiple selection
type Mode int

const (
	ModeSingle Mode = iota
	ModeMultiple
)

func (m Mode) String() string {
	switch m {
	case ModeMultiple:
		return "multiple"
	default:
		return "single"
	}
}

// Origin records where an option came from
type Origin string

const (
	OriginStatic Origin = "static"
	OriginRemote Origin = "remote"
)

// HighlightRange is an inclusive rune span into an option label
type HighlightRange struct {
	Start int
	End   int
}

// OptionMeta carries engine-computed metadata
type OptionMeta struct {
	Origin          Origin
	HighlightRanges []HighlightRange // never caller-supplied
}

// Option wraps a caller-supplied raw value with its projections.
// The engine never mutates Raw.
type Option[T any] struct {
	Raw         T
	Label       string
	Value       string // selection identity, unique within a result set
	Description string
	Disabled    bool
	Meta        OptionMeta
}

// Searchable returns the combined text used for plain substring matching
func (o Option[T]) Searchable() string {
	return o.Label + " " + o.Description
}

// Projector derives display and identity fields from raw values
type Projector[T any] struct {
	Label       func(T) string
	Value       func(T) string
	Description func(T) string // optional
	Disabled    func(T) bool   // optional
}

// Project builds an option for raw tagged with the given origin
func (p Projector[T]) Project(raw T, origin Origin) Option[T] {
	opt := Option[T]{
		Raw:  raw,
		Meta: OptionMeta{Origin: origin},
	}
	if p.Label != nil {
		opt.Label = p.Label(raw)
	}
	if p.Value != nil {
		opt.Value = p.Value(raw)
	} else {
		opt.Value = opt.Label
	}
	if p.Description != nil {
		opt.Description = p.Description(raw)
	}
	if p.Disabled != nil {
		opt.Disabled = p.Disabled(raw)
	}
	return opt
}

// ProjectAll projects every raw value in order
func (p Projector[T]) ProjectAll(raws []T, origin Origin) []Option[T] {
	opts := make([]Option[T], 0, len(raws))
	for _, raw := range raws {
		opts = append(opts, p.Project(raw, origin))
	}
	return opts
}

// ValueOf returns the identity key of raw
func (p Projector[T]) ValueOf(raw T) string {
	if p.Value != nil {
		return p.Value(raw)
	}
	if p.Label != nil {
		return p.Label(raw)
	}
	return ""
}
