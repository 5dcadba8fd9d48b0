package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"sangkumfund/monitoring"
)

const DefaultRefreshInterval = 30 * time.Second

// Refresher is the part of the Aggregator the Poller drives.
type Refresher interface {
	Refresh(ctx context.Context, trigger string) (*Snapshot, error)
}

// Poller refreshes the dashboard once on Start and then on every tick
// until Stop. A tick that fires while the previous refresh is still
// running is skipped.
type Poller struct {
	refresher Refresher
	interval  time.Duration
	monitor   *monitoring.Monitor

	inFlight atomic.Bool
	wg       sync.WaitGroup

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller(refresher Refresher, interval time.Duration, monitor *monitoring.Monitor) *Poller {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Poller{
		refresher: refresher,
		interval:  interval,
		monitor:   monitor,
	}
}

// Start launches the polling loop. Calling Start on a running poller is a
// no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.loop(ctx, p.done)
}

// Stop cancels the loop and any in-flight refresh and waits for both to
// return. Results of a cancelled refresh are never published.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	p.wg.Wait()
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	p.tick(ctx, "start")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx, "timer")
		}
	}
}

// tick starts a refresh unless one is already running.
func (p *Poller) tick(ctx context.Context, trigger string) bool {
	if !p.inFlight.CompareAndSwap(false, true) {
		slog.Debug("dashboard refresh still running, skipping tick", "trigger", trigger)
		p.monitor.TrackRefresh(trigger, "skipped", 0)
		return false
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.inFlight.Store(false)

		if _, err := p.refresher.Refresh(ctx, trigger); err != nil && ctx.Err() == nil {
			slog.Error("dashboard refresh failed", "trigger", trigger, "error", err)
		}
	}()
	return true
}
