package dashboard

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type blockingRefresher struct {
	calls    atomic.Int32
	triggers sync.Map
	release  chan struct{}
}

func (r *blockingRefresher) Refresh(ctx context.Context, trigger string) (*Snapshot, error) {
	n := r.calls.Add(1)
	r.triggers.Store(n, trigger)
	if r.release == nil {
		return &Snapshot{Seq: uint64(n)}, nil
	}
	select {
	case <-r.release:
		return &Snapshot{Seq: uint64(n)}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestPoller_RefreshesOnStartAndOnTicks(t *testing.T) {
	r := &blockingRefresher{}
	p := NewPoller(r, 10*time.Millisecond, nil)

	p.Start(context.Background())
	defer p.Stop()

	assert.Eventually(t, func() bool { return r.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	first, _ := r.triggers.Load(int32(1))
	assert.Equal(t, "start", first)
	second, _ := r.triggers.Load(int32(2))
	assert.Equal(t, "timer", second)
}

func TestPoller_SkipsTickWhileRefreshRunning(t *testing.T) {
	r := &blockingRefresher{release: make(chan struct{})}
	p := NewPoller(r, 5*time.Millisecond, nil)

	p.Start(context.Background())
	defer p.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), r.calls.Load(), "ticks during a running refresh must be skipped")

	close(r.release)
	assert.Eventually(t, func() bool { return r.calls.Load() > 1 }, time.Second, 5*time.Millisecond)
}

func TestPoller_StopCancelsInFlightRefresh(t *testing.T) {
	r := &blockingRefresher{release: make(chan struct{})}
	p := NewPoller(r, time.Hour, nil)

	p.Start(context.Background())
	assert.Eventually(t, func() bool { return r.calls.Load() == 1 }, time.Second, time.Millisecond)

	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
	assert.False(t, p.inFlight.Load())

	// Stop is idempotent and the poller can be restarted.
	p.Stop()
	r.release = nil
	p.Start(context.Background())
	assert.Eventually(t, func() bool { return r.calls.Load() == 2 }, time.Second, time.Millisecond)
	p.Stop()
}

func TestPoller_StopDiscardsLateResults(t *testing.T) {
	gate := make(chan struct{})
	reader := &fakeReader{block: func(ctx context.Context, _ string) error {
		select {
		case <-gate:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}}
	agg := NewAggregator(reader)
	p := NewPoller(agg, time.Hour, nil)

	p.Start(context.Background())
	time.Sleep(10 * time.Millisecond)
	p.Stop()
	close(gate)

	_, err := agg.Current()
	assert.Error(t, err)
}

func TestNewPoller_DefaultInterval(t *testing.T) {
	p := NewPoller(&blockingRefresher{}, 0, nil)
	assert.Equal(t, DefaultRefreshInterval, p.interval)
}
