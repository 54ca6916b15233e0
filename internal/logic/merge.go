package logic

import "typeahead/internal/domain"

// Merge combines local (static) results with remote results. Local entries
// come first and keep their ranking; a remote entry whose value already
// appeared is dropped. The first occurrence of a value always wins.
func Merge[T any](local, remote []domain.Option[T]) []domain.Option[T] {
	merged := make([]domain.Option[T], 0, len(local)+len(remote))
	seen := make(map[string]bool, len(local)+len(remote))

	add := func(opts []domain.Option[T]) {
		for _, opt := range opts {
			if seen[opt.Value] {
				continue
			}
			seen[opt.Value] = true
			merged = append(merged, opt)
		}
	}
	add(local)
	add(remote)

	return merged
}
