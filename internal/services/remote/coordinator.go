package remote

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"typeahead/internal/domain"
	"typeahead/internal/eventbus"
)

// Option configures a Coordinator
type Option func(*options)

type options struct {
	schedule Scheduler
	logger   *zap.Logger
	bus      eventbus.EventBus
	notify   func()
}

// WithScheduler replaces the debounce scheduler
func WithScheduler(s Scheduler) Option {
	return func(o *options) { o.schedule = s }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithBus publishes search lifecycle events on bus
func WithBus(b eventbus.EventBus) Option {
	return func(o *options) { o.bus = b }
}

// WithNotify registers a callback invoked after every asynchronous state
// change (search started, result applied, error captured). It is never called
// while the coordinator's lock is held, nor from the synchronous methods.
func WithNotify(fn func()) Option {
	return func(o *options) { o.notify = fn }
}

// Coordinator wraps a caller-supplied search function with debouncing,
// cancellation and error capture.
type Coordinator[T any] struct {
	search    SearchFunc[T]
	projector domain.Projector[T]
	settings  Settings
	opts      options

	mu         sync.Mutex
	root       context.Context
	rootCancel context.CancelFunc
	closed     bool
	gen        uint64
	pending    *pendingSearch
	state      State[T]
	wg         sync.WaitGroup
}

// New creates a coordinator. A nil search function yields a coordinator that
// never fetches.
func New[T any](search SearchFunc[T], projector domain.Projector[T], settings Settings, opts ...Option) *Coordinator[T] {
	o := options{schedule: RealScheduler}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	o.logger = o.logger.Named("remote")
	if o.bus == nil {
		o.bus = eventbus.NullBus{}
	}
	if settings.Debounce < 0 {
		settings.Debounce = 0
	}
	if settings.MinSearchLength < 0 {
		settings.MinSearchLength = 0
	}

	root, cancel := context.WithCancel(context.Background())
	return &Coordinator[T]{
		search:     search,
		projector:  projector,
		settings:   settings,
		opts:       o,
		root:       root,
		rootCancel: cancel,
	}
}

// Enabled reports whether a search function is configured
func (c *Coordinator[T]) Enabled() bool {
	return c.search != nil
}

// Search records query and, when it qualifies, schedules a debounced fetch.
// Any previous timer or in-flight fetch is released first. Queries shorter
// than MinSearchLength clear the remote results without fetching.
func (c *Coordinator[T]) Search(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.releaseLocked()
	c.state.Query = query

	if c.search == nil {
		return
	}

	q := strings.TrimSpace(query)
	if !c.qualifies(q) {
		c.state.Results = nil
		c.state.Error = ""
		return
	}

	p := c.newPendingLocked(q)
	p.timer = c.opts.schedule(c.settings.Debounce, func() { c.fire(p) })
	c.logger().Debug("search scheduled", zap.String("query", q), zap.Duration("debounce", c.settings.Debounce))
}

// Refresh re-issues the current query immediately, skipping the debounce
func (c *Coordinator[T]) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.search == nil {
		return
	}
	q := strings.TrimSpace(c.state.Query)
	if !c.qualifies(q) {
		return
	}

	c.releaseLocked()
	p := c.newPendingLocked(q)
	c.startLocked(p)
	c.logger().Debug("search refreshed", zap.String("query", q))
}

// Clear drops remote results and errors and releases any pending search
func (c *Coordinator[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.releaseLocked()
	c.state.Results = nil
	c.state.Error = ""
}

// Snapshot returns the current remote state
func (c *Coordinator[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close tears the coordinator down. After Close returns no pending timer or
// fetch can change state. Fetches that ignore their context keep running
// until they return; use Wait to block on them.
func (c *Coordinator[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.releaseLocked()
	c.rootCancel()
}

// Wait blocks until every started fetch has returned
func (c *Coordinator[T]) Wait() {
	c.wg.Wait()
}

func (c *Coordinator[T]) qualifies(q string) bool {
	return q != "" && utf8.RuneCountInString(q) >= c.settings.MinSearchLength
}

func (c *Coordinator[T]) newPendingLocked(q string) *pendingSearch {
	c.gen++
	p := newPendingSearch(c.root, c.gen, q)
	c.pending = p
	return p
}

func (c *Coordinator[T]) releaseLocked() {
	c.pending.release()
	c.pending = nil
	c.state.Searching = false
}

// current reports whether p may still write state
func (c *Coordinator[T]) current(p *pendingSearch) bool {
	return !c.closed && c.pending == p && p.live()
}

func (c *Coordinator[T]) fire(p *pendingSearch) {
	c.mu.Lock()
	if !c.current(p) {
		c.mu.Unlock()
		return
	}
	c.startLocked(p)
	c.mu.Unlock()

	c.changed()
}

func (c *Coordinator[T]) startLocked(p *pendingSearch) {
	c.state.Searching = true
	c.wg.Add(1)
	go c.run(p)
	c.opts.bus.Publish(domain.SearchStartedEvent{Query: p.query})
}

func (c *Coordinator[T]) run(p *pendingSearch) {
	defer c.wg.Done()

	items, err := c.search(p.ctx, p.query)
	c.commit(p, items, err)
}

func (c *Coordinator[T]) commit(p *pendingSearch, items []T, err error) {
	c.mu.Lock()
	if !c.current(p) {
		c.mu.Unlock()
		c.logger().Debug("discarding stale search result", zap.String("query", p.query), zap.Uint64("gen", p.gen))
		return
	}

	c.state.Searching = false
	c.pending = nil
	p.cancel()

	var event domain.DomainEvent
	if err != nil {
		c.state.Error = errorMessage(err)
		event = domain.SearchFailedEvent{Query: p.query, Message: c.state.Error}
		c.logger().Warn("search failed", zap.String("query", p.query), zap.Error(err))
	} else {
		c.state.Results = c.projector.ProjectAll(items, domain.OriginRemote)
		c.state.Error = ""
		event = domain.SearchCompletedEvent{Query: p.query, ResultCount: len(items)}
		c.logger().Debug("search completed", zap.String("query", p.query), zap.Int("results", len(items)))
	}
	c.mu.Unlock()

	c.opts.bus.Publish(event)
	c.changed()
}

func (c *Coordinator[T]) changed() {
	if c.opts.notify != nil {
		c.opts.notify()
	}
}

func (c *Coordinator[T]) logger() *zap.Logger {
	return c.opts.logger
}

func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return GenericErrorMessage
}
