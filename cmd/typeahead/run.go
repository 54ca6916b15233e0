package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"

	"typeahead/internal/config"
	"typeahead/internal/domain"
	"typeahead/internal/engine"
	"typeahead/internal/eventbus"
	"typeahead/internal/source"
	"typeahead/internal/ui"
)

// runFlags are the command line values; they override the config file only
// when set explicitly.
type runFlags struct {
	file        string
	label       string
	value       string
	description string
	disabled    string
	multi       bool
	max         int
	remote      string
	resultsPath string
	debounce    time.Duration
	minLength   int
	exact       bool
	watch       bool
	title       string
	height      int

	configPath string
	verbose    bool
	logFile    string
}

func runPicker(cmd *cobra.Command, args []string) error {
	if len(args) == 1 && !cmd.Flags().Changed("options") {
		flags.file = args[0]
	}

	logger, err := newLogger(flags.logFile, flags.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig(flags.configPath, logger)
	if err != nil {
		return err
	}
	applyFlags(cmd, &flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	mode, _ := cfg.SelectionMode()

	fromStdin := cfg.Source.File == "-"
	records, err := loadRecords(cfg.Source.File, os.Stdin)
	if err != nil {
		return err
	}
	if len(records) == 0 && cfg.Source.RemoteURL == "" {
		return fmt.Errorf("no options: pass a JSON file, pipe records on stdin or set --remote")
	}
	logger.Info("starting picker",
		zap.Int("options", len(records)),
		zap.String("mode", mode.String()),
		zap.Bool("remote", cfg.Source.RemoteURL != ""))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := eventbus.New(logger)
	defer bus.Close()
	subscribeLogging(bus, logger)

	notifier := &ui.Notifier{}
	ecfg := engineConfig(cfg, mode, records)
	ecfg.Logger = logger
	ecfg.Bus = bus
	ecfg.OnStateChange = notifier.Notify
	if cfg.Source.RemoteURL != "" {
		remote := source.NewHTTPSource(cfg.Source.RemoteURL, cfg.Source.Timeout.Duration, logger)
		remote.ResultsPath = cfg.Source.ResultsPath
		ecfg.OnSearch = remote.Search
	}

	e := engine.New(ecfg)
	defer func() {
		e.Close()
		e.Wait()
	}()

	if cfg.Source.Watch && cfg.Source.File != "" && !fromStdin {
		w, err := source.Watch(cfg.Source.File, func(records []source.Record) {
			e.SetOptions(records)
			notifier.Notify()
		}, source.WithWatchLogger(logger), source.WithWatchBus(bus))
		if err != nil {
			logger.Warn("could not watch options file", zap.Error(err))
		} else {
			defer w.Close()
		}
	}

	model := ui.NewModel(e, ui.Options[source.Record]{
		Title:       cfg.UI.Title,
		Placeholder: cfg.UI.Placeholder,
		Height:      cfg.UI.Height,
		Preview:     source.Record.Pretty,
		ReadyMarker: os.Getenv("TYPEAHEAD_E2E_TEST") == "1",
		Logger:      logger,
	})

	// the picker draws on stderr so stdout stays clean for the result
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(os.Stderr)}
	if fromStdin {
		opts = append(opts, tea.WithInputTTY())
	}
	p := tea.NewProgram(model, opts...)
	notifier.Attach(p)

	if _, err := p.Run(); err != nil {
		logger.Error("program failed", zap.Error(err))
		return fmt.Errorf("error running program: %w", err)
	}

	selected, ok := model.Result()
	if !ok {
		logger.Info("picker cancelled")
		return errCancelled
	}
	logger.Info("picker confirmed", zap.Int("selected", len(selected)))
	_, err = fmt.Fprint(cmd.OutOrStdout(), formatSelection(selected, mode))
	return err
}

func newLogger(path string, verbose bool) (*zap.Logger, error) {
	if path == "" {
		path = filepath.Join(os.TempDir(), "typeahead.log")
	}
	zc := zap.NewProductionConfig()
	zc.OutputPaths = []string{path}
	zc.ErrorOutputPaths = []string{path}
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return logger, nil
}

// loadConfig reads the file at path, or the user config when path is empty
func loadConfig(path string, logger *zap.Logger) (*config.Config, error) {
	if path != "" {
		return config.NewConfigServiceAt(path, logger).LoadFromPath(path)
	}
	return config.NewConfigService(logger).Load()
}

func applyFlags(cmd *cobra.Command, f *runFlags, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("options") || f.file != "" {
		cfg.Source.File = f.file
	}
	if changed("label") {
		cfg.Source.Label = f.label
	}
	if changed("value") {
		cfg.Source.Value = f.value
	}
	if changed("desc") {
		cfg.Source.Description = f.description
	}
	if changed("disabled") {
		cfg.Source.Disabled = f.disabled
	}
	if changed("multi") {
		cfg.Selection.Mode = "single"
		if f.multi {
			cfg.Selection.Mode = "multiple"
		}
	}
	if changed("max") {
		cfg.Selection.MaxSelections = f.max
	}
	if changed("remote") {
		cfg.Source.RemoteURL = f.remote
	}
	if changed("results-path") {
		cfg.Source.ResultsPath = f.resultsPath
	}
	if changed("debounce") {
		cfg.Search.Debounce = config.Duration{Duration: f.debounce}
	}
	if changed("min-length") {
		cfg.Search.MinSearchLength = f.minLength
	}
	if changed("exact") {
		cfg.Search.Fuzzy = !f.exact
	}
	if changed("watch") {
		cfg.Source.Watch = f.watch
	}
	if changed("title") {
		cfg.UI.Title = f.title
	}
	if changed("height") {
		cfg.UI.Height = f.height
	}
}

func loadRecords(path string, stdin io.Reader) ([]source.Record, error) {
	switch path {
	case "":
		return nil, nil
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		records, err := source.ParseRecords(data, "")
		if err != nil {
			return nil, fmt.Errorf("failed to parse stdin: %w", err)
		}
		return records, nil
	}
	return source.LoadFile(path)
}

// engineConfig maps the file config onto the engine. A zero debounce or
// minimum length in the file means none, not the engine default.
func engineConfig(cfg *config.Config, mode domain.Mode, records []source.Record) engine.Config[source.Record] {
	paths := source.Paths{
		Label:       cfg.Source.Label,
		Value:       cfg.Source.Value,
		Description: cfg.Source.Description,
		Disabled:    cfg.Source.Disabled,
	}

	ec := engine.Config[source.Record]{
		Mode:              mode,
		Projector:         paths.Projector(),
		Options:           records,
		Debounce:          cfg.Search.Debounce.Duration,
		MinSearchLength:   cfg.Search.MinSearchLength,
		DisableFuzzyMatch: !cfg.Search.Fuzzy,
		DisableHighlight:  !cfg.Search.Highlight,
		DisableLoop:       !cfg.Search.Loop,
		MaxSelections:     cfg.Selection.MaxSelections,
		AllowSelectAll:    cfg.Selection.AllowSelectAll,
		AllowClearAll:     cfg.Selection.AllowClearAll,
	}
	if ec.Debounce == 0 {
		ec.Debounce = -1
	}
	if ec.MinSearchLength == 0 {
		ec.MinSearchLength = -1
	}
	return ec
}

// formatSelection prints a single choice as its record and a multiple one as
// an array of records.
func formatSelection(selected []source.Record, mode domain.Mode) string {
	var doc string
	if mode == domain.ModeSingle {
		if len(selected) == 0 {
			return ""
		}
		doc = selected[0].Raw
	} else {
		doc = "[" + strings.Join(source.Raws(selected), ",") + "]"
	}
	return string(pretty.Pretty([]byte(doc)))
}

func subscribeLogging(bus eventbus.EventBus, logger *zap.Logger) {
	bus.Subscribe(eventbus.EventSearchFailed, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.SearchFailedEvent); ok {
			logger.Warn("remote search failed", zap.String("query", ev.Query), zap.String("error", ev.Message))
		}
	})
	bus.Subscribe(eventbus.EventSearchCompleted, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.SearchCompletedEvent); ok {
			logger.Debug("remote search completed", zap.String("query", ev.Query), zap.Int("results", ev.ResultCount))
		}
	})
	bus.Subscribe(eventbus.EventSelectionChanged, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.SelectionChangedEvent); ok {
			logger.Debug("selection changed", zap.Strings("values", ev.Values))
		}
	})
	bus.Subscribe(eventbus.EventOptionsReloaded, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.OptionsReloadedEvent); ok {
			logger.Info("options reloaded", zap.String("source", ev.Source), zap.Int("count", ev.Count))
		}
	})
	bus.Subscribe(eventbus.EventError, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.ErrorEvent); ok {
			logger.Error(ev.Message, zap.Error(ev.Err))
		}
	})
}
