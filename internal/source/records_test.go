package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typeahead/internal/domain"
)

const people = `[
  {"id": 1, "name": {"first": "Alice", "last": "Liddell"}, "role": "explorer"},
  {"id": 2, "name": {"first": "Bob", "last": "Builder"}, "role": "builder", "inactive": true},
  null
]`

func TestParseRecordsAndProject(t *testing.T) {
	records, err := ParseRecords([]byte(people), "")
	require.NoError(t, err)
	require.Len(t, records, 2, "null entries are skipped")

	proj := Paths{Label: "name.first", Value: "id", Description: "role", Disabled: "inactive"}.Projector()
	opts := proj.ProjectAll(records, domain.OriginStatic)

	assert.Equal(t, "Alice", opts[0].Label)
	assert.Equal(t, "1", opts[0].Value)
	assert.Equal(t, "explorer", opts[0].Description)
	assert.False(t, opts[0].Disabled)
	assert.True(t, opts[1].Disabled)
}

func TestValueFallsBackToLabel(t *testing.T) {
	records, err := ParseRecords([]byte(`[{"name": "Carol"}]`), "")
	require.NoError(t, err)

	proj := Paths{Label: "name"}.Projector()
	assert.Equal(t, "Carol", proj.ValueOf(records[0]))
	assert.Equal(t, "Carol", proj.Project(records[0], domain.OriginStatic).Value)
}

func TestMissingValuePathFallsBackToLabel(t *testing.T) {
	records, err := ParseRecords([]byte(`[{"name": "Dan"}, {"name": "Eve", "id": 5}]`), "")
	require.NoError(t, err)

	opts := Paths{Label: "name", Value: "id"}.Projector().ProjectAll(records, domain.OriginStatic)
	assert.Equal(t, "Dan", opts[0].Value)
	assert.Equal(t, "5", opts[1].Value)
}

func TestScalarRecordsLabelThemselves(t *testing.T) {
	records, err := ParseRecords([]byte(`["red", "green", 7]`), "")
	require.NoError(t, err)

	proj := Paths{Label: "label", Value: "value"}.Projector()
	opts := proj.ProjectAll(records, domain.OriginStatic)
	assert.Equal(t, "red", opts[0].Label)
	assert.Equal(t, "red", opts[0].Value)
	assert.Equal(t, "7", opts[2].Label)
}

func TestParseRecordsRejectsNonArrays(t *testing.T) {
	_, err := ParseRecords([]byte(`{"items": []}`), "")
	assert.ErrorIs(t, err, ErrNotArray)

	_, err = ParseRecords([]byte(`[not json`), "")
	assert.ErrorIs(t, err, ErrNotArray)

	records, err := ParseRecords([]byte(`{"items": [{"a": 1}]}`), "items")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.json")
	require.NoError(t, os.WriteFile(path, []byte(people), 0644))

	records, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, []string{
		`{"id": 1, "name": {"first": "Alice", "last": "Liddell"}, "role": "explorer"}`,
		`{"id": 2, "name": {"first": "Bob", "last": "Builder"}, "role": "builder", "inactive": true}`,
	}, Raws(records))
	assert.Contains(t, records[0].Pretty(), "\n  \"role\": \"explorer\"")

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
