package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typeahead/internal/domain"
)

func option(value, label string, origin domain.Origin) domain.Option[string] {
	return domain.Option[string]{
		Raw:   label,
		Label: label,
		Value: value,
		Meta:  domain.OptionMeta{Origin: origin},
	}
}

func TestMergeWithoutRemoteKeepsLocalOrder(t *testing.T) {
	local := []domain.Option[string]{
		option("3", "Carol", domain.OriginStatic),
		option("1", "Alice", domain.OriginStatic),
	}
	assert.Equal(t, local, Merge(local, nil))
	assert.Equal(t, local, Merge(local, []domain.Option[string]{}))
}

func TestMergeStaticWinsOnDuplicateValue(t *testing.T) {
	local := []domain.Option[string]{option("1", "Alice", domain.OriginStatic)}
	remote := []domain.Option[string]{
		option("2", "Alan", domain.OriginRemote),
		option("1", "Alice (remote)", domain.OriginRemote),
	}

	merged := Merge(local, remote)
	require.Len(t, merged, 2)
	assert.Equal(t, "Alice", merged[0].Label)
	assert.Equal(t, domain.OriginStatic, merged[0].Meta.Origin)
	assert.Equal(t, "Alan", merged[1].Label)
}

func TestMergeValuesAreUnique(t *testing.T) {
	local := []domain.Option[string]{
		option("1", "Alice", domain.OriginStatic),
		option("1", "Alice again", domain.OriginStatic),
	}
	remote := []domain.Option[string]{
		option("2", "Bob", domain.OriginRemote),
		option("2", "Bobby", domain.OriginRemote),
		option("1", "Remote Alice", domain.OriginRemote),
	}

	merged := Merge(local, remote)
	seen := map[string]int{}
	for _, o := range merged {
		seen[o.Value]++
	}
	for v, n := range seen {
		assert.Equal(t, 1, n, "value %s", v)
	}
	assert.Equal(t, []string{"Alice", "Bob"}, []string{merged[0].Label, merged[1].Label})
}
