// Package poller drives the periodic session poll. Ticks never overlap: a
// tick is skipped while the previous one is still in flight, so a slow
// server cannot pile up requests.
package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const DefaultInterval = 2 * time.Second

// Poller invokes tick on a fixed interval with a single-flight guard.
type Poller struct {
	interval time.Duration
	tick     func(ctx context.Context)

	mu       sync.Mutex
	stopCh   chan struct{}
	doneCh   chan struct{}
	inFlight atomic.Bool
	wg       sync.WaitGroup
}

func New(interval time.Duration, tick func(ctx context.Context)) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{interval: interval, tick: tick}
}

// Start launches the loop. It is a no-op when the loop already runs.
// The first tick fires immediately, later ones on the interval.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopCh != nil {
		return
	}

	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})

	go p.loop(ctx, p.stopCh, p.doneCh)
}

func (p *Poller) loop(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.fire(ctx)

	for {
		select {
		case <-ticker.C:
			p.fire(ctx)
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// fire runs a tick unless one is already outstanding.
func (p *Poller) fire(ctx context.Context) {
	if !p.inFlight.CompareAndSwap(false, true) {
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.inFlight.Store(false)
		p.tick(ctx)
	}()
}

// Stop halts the ticker. An in-flight tick is left to finish; its result
// still lands wherever the tick function delivers it.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopCh == nil {
		return
	}

	close(p.stopCh)
	<-p.doneCh
	p.stopCh = nil
	p.doneCh = nil
}

// Running reports whether the loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.stopCh != nil
}

// Wait blocks until any in-flight tick completes. Intended for tests.
func (p *Poller) Wait() {
	p.wg.Wait()
}
