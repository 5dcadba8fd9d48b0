// Package dashboard builds the admin overview: it reads every backend
// source in parallel, degrades failed sources to empty collections and
// publishes the result as one immutable Snapshot.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"sangkumfund/internal/status"
	"sangkumfund/models"
	"sangkumfund/monitoring"
	"sangkumfund/utils"

	"golang.org/x/sync/errgroup"
)

const (
	SourceEvents        = "events"
	SourceDonations     = "donations"
	SourceUsers         = "users"
	SourceNotifications = "notifications"
	SourceArticles      = "articles"
	SourceStats         = "stats"
)

var allSources = []string{SourceEvents, SourceDonations, SourceUsers, SourceNotifications, SourceArticles, SourceStats}

// Sink receives every snapshot that becomes current.
type Sink interface {
	Publish(ctx context.Context, snap *Snapshot) error
}

type Option func(*Aggregator)

func WithMonitor(m *monitoring.Monitor) Option {
	return func(a *Aggregator) { a.monitor = m }
}

func WithSinks(sinks ...Sink) Option {
	return func(a *Aggregator) { a.sinks = append(a.sinks, sinks...) }
}

// WithBreakerSettings replaces the per-source circuit breaker settings.
func WithBreakerSettings(s utils.BreakerSettings) Option {
	return func(a *Aggregator) { a.breakerSettings = s }
}

type Aggregator struct {
	reader          Reader
	monitor         *monitoring.Monitor
	sinks           []Sink
	breakerSettings utils.BreakerSettings
	breakers        map[string]*utils.CircuitBreaker
	now             func() time.Time

	seq     atomic.Uint64
	current atomic.Pointer[Snapshot]

	mu          sync.Mutex
	subscribers []chan *Snapshot
}

func NewAggregator(reader Reader, opts ...Option) *Aggregator {
	a := &Aggregator{
		reader:          reader,
		breakerSettings: utils.DefaultBreakerSettings(),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.breakers = make(map[string]*utils.CircuitBreaker, len(allSources))
	for _, name := range allSources {
		a.breakers[name] = utils.NewCircuitBreaker("dashboard:"+name, a.breakerSettings)
	}
	return a
}

// Current returns the latest published snapshot or ErrNoSnapshot.
func (a *Aggregator) Current() (*Snapshot, error) {
	snap := a.current.Load()
	if snap == nil {
		return nil, status.ErrNoSnapshot
	}
	return snap, nil
}

type sources struct {
	events        []models.Event
	donations     []models.Donation
	users         []models.User
	notifications []models.Notification
	articles      []models.Article
	stats         *models.DashboardStats
	degraded      []string
}

// Refresh runs one full batch and returns the snapshot that is current
// afterwards. A batch that started before the current snapshot's batch
// is dropped, and a batch whose context ended is discarded with the
// context error.
func (a *Aggregator) Refresh(ctx context.Context, trigger string) (*Snapshot, error) {
	seq := a.seq.Add(1)
	start := a.now()

	var src sources
	failed := make([]bool, len(allSources))

	var g errgroup.Group
	g.Go(func() error {
		src.events, failed[0] = guard(ctx, a, SourceEvents, a.reader.Events)
		return nil
	})
	g.Go(func() error {
		src.donations, failed[1] = guard(ctx, a, SourceDonations, a.reader.Donations)
		return nil
	})
	g.Go(func() error {
		src.users, failed[2] = guard(ctx, a, SourceUsers, a.reader.Users)
		return nil
	})
	g.Go(func() error {
		src.notifications, failed[3] = guard(ctx, a, SourceNotifications, a.reader.Notifications)
		return nil
	})
	g.Go(func() error {
		src.articles, failed[4] = guard(ctx, a, SourceArticles, a.reader.Articles)
		return nil
	})
	g.Go(func() error {
		src.stats, failed[5] = guard(ctx, a, SourceStats, a.reader.Stats)
		return nil
	})
	g.Wait()

	took := a.now().Sub(start)
	if err := ctx.Err(); err != nil {
		a.monitor.TrackRefresh(trigger, "discarded", took)
		return nil, fmt.Errorf("dashboard refresh: %w", err)
	}

	for i, f := range failed {
		if f {
			src.degraded = append(src.degraded, allSources[i])
		}
	}

	snap := buildSnapshot(seq, a.now(), src)
	if !a.publish(snap) {
		a.monitor.TrackRefresh(trigger, "stale", took)
		slog.Debug("dashboard batch superseded", "seq", seq, "trigger", trigger)
		return a.current.Load(), nil
	}

	result := "success"
	if len(src.degraded) > 0 {
		result = "degraded"
	}
	a.monitor.TrackRefresh(trigger, result, took)
	a.exportStats(snap.Stats)
	a.notify(ctx, snap)

	slog.Info("dashboard refreshed",
		"seq", seq,
		"trigger", trigger,
		"duration", took,
		"degraded", src.degraded,
	)
	return snap, nil
}

// guard runs one source behind its circuit breaker. Any failure yields
// the zero value and failed=true.
func guard[T any](ctx context.Context, a *Aggregator, source string, fetch func(context.Context) (T, error)) (T, bool) {
	var out T
	err := a.breakers[source].Execute(ctx, func(ctx context.Context) error {
		v, err := fetch(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		if ctx.Err() == nil {
			slog.Warn("dashboard source failed, using empty fallback", "source", source, "error", err)
			a.monitor.TrackSourceFailure(source)
		}
		return zero, true
	}
	return out, false
}

// publish swaps snap in unless a newer batch is already current.
func (a *Aggregator) publish(snap *Snapshot) bool {
	for {
		old := a.current.Load()
		if old != nil && old.Seq > snap.Seq {
			return false
		}
		if a.current.CompareAndSwap(old, snap) {
			return true
		}
	}
}

// Restore installs a previously cached snapshot when nothing has been
// published yet. Any later refresh replaces it.
func (a *Aggregator) Restore(snap *Snapshot) bool {
	if snap == nil {
		return false
	}
	restored := *snap
	restored.Seq = 0
	return a.current.CompareAndSwap(nil, &restored)
}

// Subscribe returns a channel receiving each newly published snapshot.
// Slow readers miss intermediate snapshots.
func (a *Aggregator) Subscribe() <-chan *Snapshot {
	ch := make(chan *Snapshot, 1)
	a.mu.Lock()
	a.subscribers = append(a.subscribers, ch)
	a.mu.Unlock()
	return ch
}

func (a *Aggregator) Unsubscribe(sub <-chan *Snapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, ch := range a.subscribers {
		if ch == sub {
			a.subscribers = append(a.subscribers[:i], a.subscribers[i+1:]...)
			close(ch)
			return
		}
	}
}

func (a *Aggregator) notify(ctx context.Context, snap *Snapshot) {
	a.mu.Lock()
	for _, ch := range a.subscribers {
		select {
		case ch <- snap:
		default:
		}
	}
	a.mu.Unlock()

	for _, sink := range a.sinks {
		if err := sink.Publish(ctx, snap); err != nil {
			slog.Error("dashboard sink failed", "sink", fmt.Sprintf("%T", sink), "seq", snap.Seq, "error", err)
		}
	}
}

func (a *Aggregator) exportStats(st Stats) {
	amount, _ := st.TotalAmount.Float64()
	a.monitor.SetSnapshotStat("total_amount", amount)
	a.monitor.SetSnapshotStat("total_events", float64(st.TotalEvents))
	a.monitor.SetSnapshotStat("total_donations", float64(st.TotalDonations))
	a.monitor.SetSnapshotStat("total_users", float64(st.TotalUsers))
	a.monitor.SetSnapshotStat("pending_events", float64(st.PendingEvents))
	a.monitor.SetSnapshotStat("active_users", float64(st.ActiveUsers))
	a.monitor.SetSnapshotStat("unread_notifications", float64(st.UnreadNotifications))
}
