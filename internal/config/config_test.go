package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typeahead/internal/domain"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	svc := NewConfigServiceAt(filepath.Join(t.TempDir(), "nope.toml"), nil)

	cfg, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = svc.LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	svc := NewConfigServiceAt(path, nil)

	cfg := DefaultConfig()
	cfg.Selection.Mode = "multiple"
	cfg.Selection.MaxSelections = 3
	cfg.Search.Debounce = Duration{150 * time.Millisecond}
	cfg.Source.File = "people.json"
	require.NoError(t, svc.Save(cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "150ms")

	loaded, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[selection]
mode = "multi"
allow_select_all = true

[source]
label = "name.first"
`), 0644))

	cfg, err := NewConfigServiceAt(path, nil).Load()
	require.NoError(t, err)

	mode, err := cfg.SelectionMode()
	require.NoError(t, err)
	assert.Equal(t, domain.ModeMultiple, mode)
	assert.True(t, cfg.Selection.AllowSelectAll)
	assert.Equal(t, "name.first", cfg.Source.Label)
	assert.Empty(t, cfg.Source.Value, "identity defaults to the label")
	assert.Equal(t, 300*time.Millisecond, cfg.Search.Debounce.Duration)
	assert.Equal(t, 2, cfg.Search.MinSearchLength)
}

func TestInvalidConfigIsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[selection]\nmode = \"some\"\n"), 0644))

	_, err := NewConfigServiceAt(path, nil).Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMode)

	require.NoError(t, os.WriteFile(path, []byte("[search]\ndebounce = \"soon\"\n"), 0644))
	_, err = NewConfigServiceAt(path, nil).Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Selection.MaxSelections = -1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Source.Label = ""
	assert.Error(t, cfg.Validate())
}
