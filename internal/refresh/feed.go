// Package refresh runs the periodic feed refresh loops and owns the page
// state they render into.
package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/facebookgo/clock"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/pizza-watch/internal/fetcher"
	"github.com/sells-group/pizza-watch/internal/notify"
)

// State is a feed's position in its refresh cycle.
type State string

const (
	StateIdle     State = "idle"
	StateFetching State = "fetching"
	StateRendered State = "rendered"
	StateError    State = "error"
)

// Outcome is the result of a single refresh.
type Outcome string

const (
	OutcomeRendered  Outcome = "rendered"
	OutcomeEmpty     Outcome = "empty"
	OutcomeFailed    Outcome = "failed"
	OutcomeFallback  Outcome = "fallback"
	OutcomeCancelled Outcome = "cancelled"
)

// FailureMessage is shown to the user whenever a refresh fails.
const FailureMessage = "Data update failed. Retrying on next refresh."

// DefaultNotificationTTL is how long a failure notification stays visible.
const DefaultNotificationTTL = 5 * time.Second

// Stats counts refresh results for one feed.
type Stats struct {
	Fetches      int64     `json:"fetches"`
	Renders      int64     `json:"renders"`
	Empty        int64     `json:"empty"`
	Failures     int64     `json:"failures"`
	LastRendered time.Time `json:"last_rendered,omitempty"`
	LastFailed   time.Time `json:"last_failed,omitempty"`
}

// TransitionFunc observes state changes. It is called with the feed lock
// held and must not call back into the feed.
type TransitionFunc func(feed string, from, to State)

// FeedConfig configures a Feed.
type FeedConfig[T any] struct {
	Name            string
	Fetch           func(ctx context.Context) ([]T, error)
	Render          func(ctx context.Context, items []T) error
	Notifier        notify.Notifier
	Clock           clock.Clock
	NotificationTTL time.Duration
	OnTransition    TransitionFunc
}

// Feed is one independently refreshed list. Overlapping refreshes are
// allowed; renders are serialized, so the response that resolves last
// determines what is shown.
type Feed[T any] struct {
	name         string
	fetch        func(ctx context.Context) ([]T, error)
	render       func(ctx context.Context, items []T) error
	notifier     notify.Notifier
	clock        clock.Clock
	ttl          time.Duration
	onTransition TransitionFunc
	log          *zap.Logger

	renderMu sync.Mutex

	mu      sync.Mutex
	state   State
	stats   Stats
	lastErr error
}

// NewFeed creates an idle feed.
func NewFeed[T any](cfg FeedConfig[T]) (*Feed[T], error) {
	if cfg.Name == "" {
		return nil, eris.New("refresh: feed name is required")
	}
	if cfg.Fetch == nil || cfg.Render == nil {
		return nil, eris.Errorf("refresh: feed %s needs fetch and render funcs", cfg.Name)
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.NotificationTTL <= 0 {
		cfg.NotificationTTL = DefaultNotificationTTL
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notify.Multi{}
	}
	return &Feed[T]{
		name:         cfg.Name,
		fetch:        cfg.Fetch,
		render:       cfg.Render,
		notifier:     cfg.Notifier,
		clock:        cfg.Clock,
		ttl:          cfg.NotificationTTL,
		onTransition: cfg.OnTransition,
		log:          zap.L().With(zap.String("component", "refresh"), zap.String("feed", cfg.Name)),
		state:        StateIdle,
	}, nil
}

// Name returns the feed name.
func (f *Feed[T]) Name() string {
	return f.name
}

// State returns the current state.
func (f *Feed[T]) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Stats returns a snapshot of the counters.
func (f *Feed[T]) Stats() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats
}

// LastError returns the most recent failure, if any.
func (f *Feed[T]) LastError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// setState must be called with f.mu held.
func (f *Feed[T]) setState(to State) {
	from := f.state
	f.state = to
	if f.onTransition != nil {
		f.onTransition(f.name, from, to)
	}
}

func (f *Feed[T]) begin() {
	f.mu.Lock()
	f.stats.Fetches++
	f.setState(StateFetching)
	f.mu.Unlock()
}

// Refresh runs one fetch/render cycle:
//   - non-empty payload: destructive re-render, state rendered
//   - empty payload: nothing rendered, state idle
//   - failure: state error, one notification, then idle
func (f *Feed[T]) Refresh(ctx context.Context) Outcome {
	f.begin()

	items, err := f.fetch(ctx)
	if err != nil {
		return f.fail(ctx, err)
	}
	return f.apply(ctx, items)
}

// RefreshWithFallback behaves like Refresh, except that a failed fetch
// renders fallback() instead of raising a failure notification.
func (f *Feed[T]) RefreshWithFallback(ctx context.Context, fallback func() []T) Outcome {
	f.begin()

	items, err := f.fetch(ctx)
	if err == nil {
		return f.apply(ctx, items)
	}
	if ctx.Err() != nil {
		return f.cancelled()
	}

	f.log.Warn("refresh: fetch failed, using built-in data",
		zap.String("kind", failureKind(err)),
		zap.Error(err),
	)
	if out := f.apply(ctx, fallback()); out != OutcomeRendered {
		return out
	}
	f.notifier.Notify(ctx, notify.New(notify.LevelInfo, f.name,
		"Live data unavailable. Showing built-in data.", f.ttl, f.clock.Now()))
	return OutcomeFallback
}

func (f *Feed[T]) apply(ctx context.Context, items []T) Outcome {
	if len(items) == 0 {
		f.mu.Lock()
		f.stats.Empty++
		f.setState(StateIdle)
		f.mu.Unlock()
		f.log.Debug("refresh: empty payload, keeping current content")
		return OutcomeEmpty
	}

	f.renderMu.Lock()
	err := f.render(ctx, items)
	f.renderMu.Unlock()
	if err != nil {
		return f.fail(ctx, eris.Wrapf(err, "refresh: render %s", f.name))
	}

	f.mu.Lock()
	f.stats.Renders++
	f.stats.LastRendered = f.clock.Now()
	f.setState(StateRendered)
	f.mu.Unlock()

	f.log.Debug("refresh: rendered", zap.Int("items", len(items)))
	return OutcomeRendered
}

func (f *Feed[T]) fail(ctx context.Context, err error) Outcome {
	if ctx.Err() != nil {
		return f.cancelled()
	}

	f.mu.Lock()
	f.stats.Failures++
	f.stats.LastFailed = f.clock.Now()
	f.lastErr = err
	f.setState(StateError)
	f.mu.Unlock()

	f.log.Warn("refresh: update failed",
		zap.String("kind", failureKind(err)),
		zap.Error(err),
	)
	f.notifier.Notify(ctx, notify.New(notify.LevelWarning, f.name, FailureMessage, f.ttl, f.clock.Now()))

	f.mu.Lock()
	f.setState(StateIdle)
	f.mu.Unlock()
	return OutcomeFailed
}

func (f *Feed[T]) cancelled() Outcome {
	f.mu.Lock()
	f.setState(StateIdle)
	f.mu.Unlock()
	return OutcomeCancelled
}

func failureKind(err error) string {
	switch {
	case fetcher.IsMalformed(err):
		return string(fetcher.KindMalformed)
	case fetcher.IsNetwork(err):
		return string(fetcher.KindNetwork)
	default:
		return "other"
	}
}

// Task refreshes a feed on every tick of its ticker.
type Task struct {
	name    string
	period  time.Duration
	ticker  *clock.Ticker
	refresh func(ctx context.Context)
}

// Schedule creates the feed's ticker immediately, so ticks are counted from
// the moment of the call, and returns a task that consumes them.
func (f *Feed[T]) Schedule(clk clock.Clock, period time.Duration) *Task {
	return &Task{
		name:    f.name,
		period:  period,
		ticker:  clk.Ticker(period),
		refresh: func(ctx context.Context) { f.Refresh(ctx) },
	}
}

// Run refreshes on every tick until ctx is done. It never returns an error
// for a failed refresh.
func (t *Task) Run(ctx context.Context) error {
	defer t.ticker.Stop()

	log := zap.L().With(zap.String("component", "refresh"), zap.String("feed", t.name))
	log.Info("refresh: loop started", zap.Duration("period", t.period))

	for {
		select {
		case <-ctx.Done():
			log.Info("refresh: loop stopped")
			return nil
		case <-t.ticker.C:
			t.refresh(ctx)
		}
	}
}
