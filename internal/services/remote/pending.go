package remote

import "context"

// pendingSearch pairs the debounce timer with the cancellation of the fetch
// it eventually starts. At most one is live per coordinator.
type pendingSearch struct {
	gen    uint64
	query  string
	timer  Timer
	ctx    context.Context
	cancel context.CancelFunc
}

func newPendingSearch(parent context.Context, gen uint64, query string) *pendingSearch {
	ctx, cancel := context.WithCancel(parent)
	return &pendingSearch{
		gen:    gen,
		query:  query,
		ctx:    ctx,
		cancel: cancel,
	}
}

// release stops the timer and cancels the fetch
func (p *pendingSearch) release() {
	if p == nil {
		return
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	p.cancel()
}

// live reports whether the fetch may still commit
func (p *pendingSearch) live() bool {
	return p.ctx.Err() == nil
}
