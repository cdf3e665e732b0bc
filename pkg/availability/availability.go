// Package availability tracks whether the backend is reachable. A single
// probe runs in a background goroutine at a fixed interval; consecutive
// failure/success thresholds damp flapping, so one dropped packet does not
// flip the UI to offline and one lucky response does not flip it back.
package availability

import (
	"context"
	"sync/atomic"
	"time"
)

// ProbeFunc checks the backend once. It should return nil when the backend
// answered and an error otherwise.
type ProbeFunc func(ctx context.Context) error

// Config controls probe timing and damping.
type Config struct {
	// Interval between probes. Defaults to 30s.
	Interval time.Duration
	// Timeout per probe. Defaults to 5s.
	Timeout time.Duration
	// FailureThreshold is how many consecutive failures mark the backend
	// offline. Defaults to 2.
	FailureThreshold int
	// SuccessThreshold is how many consecutive successes mark it online
	// again. Defaults to 1.
	SuccessThreshold int
}

func (c *Config) defaults() {
	if c.Interval <= 0 {
		c.Interval = 30 * time.Second
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = 2
	}
	if c.SuccessThreshold <= 0 {
		c.SuccessThreshold = 1
	}
}

// Prober runs the probe loop.
//
// Concurrency model: run() executes from exactly one goroutine, so the
// consecutive counters need no synchronization. The online flag and last
// error are read from arbitrary goroutines and use atomics.
type Prober struct {
	cfg   Config
	probe ProbeFunc

	online  atomic.Bool
	lastErr atomic.Pointer[error]

	consecutiveFails int
	consecutiveOK    int

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a Prober. The backend is assumed online until proven
// otherwise, so the UI does not flash offline at startup.
func New(cfg Config, probe ProbeFunc) *Prober {
	cfg.defaults()
	p := &Prober{cfg: cfg, probe: probe}
	p.online.Store(true)
	return p
}

// Online reports the current damped reachability verdict.
func (p *Prober) Online() bool {
	return p.online.Load()
}

// LastError returns the most recent probe error, or nil.
func (p *Prober) LastError() error {
	if e := p.lastErr.Load(); e != nil {
		return *e
	}
	return nil
}

// Start launches the probe loop. It probes once immediately, then at every
// interval until ctx is cancelled or Stop is called.
func (p *Prober) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)

		p.run(ctx)
		ticker := time.NewTicker(p.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.run(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the probe loop and waits for it to exit.
func (p *Prober) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
}

// run executes one probe and updates thresholds. Called from the single
// loop goroutine only.
func (p *Prober) run(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	err := p.probe(probeCtx)
	p.lastErr.Store(&err)

	if err != nil {
		p.consecutiveOK = 0
		p.consecutiveFails++
		if p.consecutiveFails >= p.cfg.FailureThreshold {
			p.online.Store(false)
		}
		return
	}
	p.consecutiveFails = 0
	p.consecutiveOK++
	if p.consecutiveOK >= p.cfg.SuccessThreshold {
		p.online.Store(true)
	}
}
