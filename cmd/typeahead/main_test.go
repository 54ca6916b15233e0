package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typeahead/internal/config"
	"typeahead/internal/domain"
	"typeahead/internal/engine"
	"typeahead/internal/source"
)

func TestApplyFlagsOverridesOnlyChangedValues(t *testing.T) {
	var f runFlags
	cmd := &cobra.Command{}
	cmd.Flags().StringVar(&f.label, "label", "", "")
	cmd.Flags().BoolVarP(&f.multi, "multi", "m", false, "")
	cmd.Flags().IntVar(&f.max, "max", 0, "")
	cmd.Flags().DurationVar(&f.debounce, "debounce", 0, "")
	cmd.Flags().BoolVar(&f.exact, "exact", false, "")
	cmd.Flags().StringVar(&f.resultsPath, "results-path", "", "")
	require.NoError(t, cmd.Flags().Parse([]string{"--label", "name", "-m", "--debounce", "50ms", "--exact", "--results-path", "data.items"}))

	cfg := config.DefaultConfig()
	cfg.Selection.MaxSelections = 4
	applyFlags(cmd, &f, cfg)

	assert.Equal(t, "name", cfg.Source.Label)
	assert.Equal(t, "multiple", cfg.Selection.Mode)
	assert.Equal(t, 4, cfg.Selection.MaxSelections, "unchanged flags keep the file value")
	assert.Equal(t, 50*time.Millisecond, cfg.Search.Debounce.Duration)
	assert.False(t, cfg.Search.Fuzzy)
	assert.Equal(t, "data.items", cfg.Source.ResultsPath)
}

func TestLabelOnlyKeepsEveryRecord(t *testing.T) {
	records, err := source.ParseRecords([]byte(`[{"name":"Alice"},{"name":"Bob"},{"name":"Carol"}]`), "")
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.Source.Label = "name"
	e := engine.New(engineConfig(cfg, domain.ModeSingle, records))
	defer e.Close()

	results := e.Results()
	require.Len(t, results, 3)
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, []string{results[0].Value, results[1].Value, results[2].Value})
}

func TestEngineConfigMapsZeroToNone(t *testing.T) {
	cfg := config.DefaultConfig()
	ec := engineConfig(cfg, domain.ModeSingle, nil)
	assert.Equal(t, 300*time.Millisecond, ec.Debounce)
	assert.Equal(t, 2, ec.MinSearchLength)
	assert.False(t, ec.DisableFuzzyMatch)

	cfg.Search.Debounce = config.Duration{}
	cfg.Search.MinSearchLength = 0
	cfg.Search.Loop = false
	ec = engineConfig(cfg, domain.ModeMultiple, nil)
	assert.Negative(t, int64(ec.Debounce))
	assert.Negative(t, ec.MinSearchLength)
	assert.True(t, ec.DisableLoop)
	assert.Equal(t, domain.ModeMultiple, ec.Mode)
}

func TestLoadRecordsFromStdin(t *testing.T) {
	records, err := loadRecords("-", strings.NewReader(`[{"label": "a"}, {"label": "b"}]`))
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = loadRecords("", nil)
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = loadRecords("-", strings.NewReader(`{}`))
	assert.ErrorIs(t, err, source.ErrNotArray)
}

func TestFormatSelection(t *testing.T) {
	records, err := source.ParseRecords([]byte(`[{"id":1},{"id":2}]`), "")
	require.NoError(t, err)

	single := formatSelection(records[:1], domain.ModeSingle)
	assert.JSONEq(t, `{"id":1}`, single)

	multiple := formatSelection(records, domain.ModeMultiple)
	assert.JSONEq(t, `[{"id":1},{"id":2}]`, multiple)

	assert.JSONEq(t, `[]`, formatSelection(nil, domain.ModeMultiple))
	assert.Empty(t, formatSelection(nil, domain.ModeSingle))
}

func TestConfigInitWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typeahead.toml")
	t.Cleanup(func() {
		flags = runFlags{}
		forceInit = false
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"config", "init", "--config", path})
	require.NoError(t, rootCmd.Execute())

	cfg, err := config.NewConfigServiceAt(path, nil).Load()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	rootCmd.SetArgs([]string{"config", "init", "--config", path})
	assert.Error(t, rootCmd.Execute(), "refuses to overwrite without --force")

	out.Reset()
	rootCmd.SetArgs([]string{"config", "show", "--config", path})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "min_search_length = 2")

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
