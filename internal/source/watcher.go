package source

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"typeahead/internal/domain"
	"typeahead/internal/eventbus"
)

// DefaultSettle is how long the watcher waits for writes to stop before
// reloading; editors often save in several steps.
const DefaultSettle = 100 * time.Millisecond

// WatchOption configures a Watcher
type WatchOption func(*Watcher)

// WithWatchLogger sets the logger
func WithWatchLogger(l *zap.Logger) WatchOption {
	return func(w *Watcher) { w.logger = l }
}

// WithWatchBus publishes reloads and reload failures on bus
func WithWatchBus(b eventbus.EventBus) WatchOption {
	return func(w *Watcher) { w.bus = b }
}

// WithSettle replaces DefaultSettle
func WithSettle(d time.Duration) WatchOption {
	return func(w *Watcher) { w.settle = d }
}

// Watcher reloads an options file whenever it changes on disk. A file that
// fails to parse leaves the previous options in place.
type Watcher struct {
	path     string
	onReload func([]Record)
	logger   *zap.Logger
	bus      eventbus.EventBus
	settle   time.Duration

	fsw       *fsnotify.Watcher
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// Watch starts watching path. The parent directory is watched so atomic
// renames over the file are seen as well.
func Watch(path string, onReload func([]Record), opts ...WatchOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	w := &Watcher{
		path:     abs,
		onReload: onReload,
		settle:   DefaultSettle,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	w.logger = w.logger.Named("watcher")
	if w.bus == nil {
		w.bus = eventbus.NullBus{}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", abs, err)
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.loop()

	w.logger.Info("watching options file", zap.String("path", abs))
	return w, nil
}

// Close stops watching and waits for the loop to exit
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var settle *time.Timer
	var settleC <-chan time.Time
	defer func() {
		if settle != nil {
			settle.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("options file changed", zap.String("op", event.Op.String()))
			if settle == nil {
				settle = time.NewTimer(w.settle)
			} else {
				settle.Reset(w.settle)
			}
			settleC = settle.C
		case <-settleC:
			settleC = nil
			w.reload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

func (w *Watcher) reload() {
	records, err := LoadFile(w.path)
	if err != nil {
		w.logger.Warn("options reload failed, keeping previous options", zap.Error(err))
		w.bus.Publish(domain.ErrorEvent{Message: "options reload failed", Err: err})
		return
	}

	w.logger.Info("options reloaded", zap.Int("count", len(records)))
	if w.onReload != nil {
		w.onReload(records)
	}
	w.bus.Publish(domain.OptionsReloadedEvent{Source: w.path, Count: len(records)})
}
