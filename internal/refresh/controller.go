package refresh

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/facebookgo/clock"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/pizza-watch/internal/geo"
	"github.com/sells-group/pizza-watch/internal/mapview"
	"github.com/sells-group/pizza-watch/internal/model"
	"github.com/sells-group/pizza-watch/internal/notify"
)

// Feed names.
const (
	FeedWatch   = "watch"
	FeedNews    = "news"
	FeedOutlets = "outlets"
)

// Default refresh periods.
const (
	DefaultWatchInterval   = 5 * time.Minute
	DefaultNewsInterval    = 10 * time.Minute
	DefaultOutletsInterval = 5 * time.Minute
)

// Source supplies full snapshots of the three feeds.
type Source interface {
	PizzaData(ctx context.Context) ([]model.WatchItem, error)
	NewsFeed(ctx context.Context) ([]model.NewsItem, error)
	Outlets(ctx context.Context) ([]model.Outlet, error)
}

// Renderer displays feed content. Each call replaces everything previously
// rendered for that feed.
type Renderer interface {
	RenderOutlets(ctx context.Context, markers []mapview.Marker) error
	RenderWatchItems(ctx context.Context, items []model.WatchItem) error
	RenderNews(ctx context.Context, items []model.NewsItem) error
}

// Intervals holds the per-feed refresh periods.
type Intervals struct {
	Watch   time.Duration
	News    time.Duration
	Outlets time.Duration
}

// Options configures a Controller.
type Options struct {
	Source          Source
	Renderer        Renderer
	Notifier        notify.Notifier
	Clock           clock.Clock
	View            *mapview.View
	Intervals       Intervals
	NotificationTTL time.Duration
	OnTransition    TransitionFunc
}

// Controller owns the page state and the three refresh loops.
type Controller struct {
	clock     clock.Clock
	view      *mapview.View
	renderer  Renderer
	intervals Intervals

	watch   *Feed[model.WatchItem]
	news    *Feed[model.NewsItem]
	outlets *Feed[model.Outlet]

	initOnce     sync.Once
	initOutcome  Outcome
	mu           sync.Mutex
	usedFallback bool
}

// New creates a Controller. Zero intervals take the defaults.
func New(opts Options) (*Controller, error) {
	if opts.Source == nil {
		return nil, eris.New("refresh: source is required")
	}
	if opts.Renderer == nil {
		return nil, eris.New("refresh: renderer is required")
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.View == nil {
		opts.View = mapview.NewView(geo.Landmark)
	}
	if opts.Intervals.Watch <= 0 {
		opts.Intervals.Watch = DefaultWatchInterval
	}
	if opts.Intervals.News <= 0 {
		opts.Intervals.News = DefaultNewsInterval
	}
	if opts.Intervals.Outlets <= 0 {
		opts.Intervals.Outlets = DefaultOutletsInterval
	}

	c := &Controller{
		clock:     opts.Clock,
		view:      opts.View,
		renderer:  opts.Renderer,
		intervals: opts.Intervals,
	}

	var err error
	c.watch, err = NewFeed(FeedConfig[model.WatchItem]{
		Name:            FeedWatch,
		Fetch:           opts.Source.PizzaData,
		Render:          opts.Renderer.RenderWatchItems,
		Notifier:        opts.Notifier,
		Clock:           opts.Clock,
		NotificationTTL: opts.NotificationTTL,
		OnTransition:    opts.OnTransition,
	})
	if err != nil {
		return nil, err
	}
	c.news, err = NewFeed(FeedConfig[model.NewsItem]{
		Name:            FeedNews,
		Fetch:           opts.Source.NewsFeed,
		Render:          opts.Renderer.RenderNews,
		Notifier:        opts.Notifier,
		Clock:           opts.Clock,
		NotificationTTL: opts.NotificationTTL,
		OnTransition:    opts.OnTransition,
	})
	if err != nil {
		return nil, err
	}
	c.outlets, err = NewFeed(FeedConfig[model.Outlet]{
		Name:            FeedOutlets,
		Fetch:           opts.Source.Outlets,
		Render:          c.renderOutlets,
		Notifier:        opts.Notifier,
		Clock:           opts.Clock,
		NotificationTTL: opts.NotificationTTL,
		OnTransition:    opts.OnTransition,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Controller) renderOutlets(ctx context.Context, outlets []model.Outlet) error {
	markers := c.view.Replace(outlets, c.clock.Now())
	return c.renderer.RenderOutlets(ctx, markers)
}

// View returns the page context.
func (c *Controller) View() *mapview.View {
	return c.view
}

// Init loads the outlet markers once. If that first fetch fails the
// built-in outlets are shown instead; later failures never fall back.
// Subsequent calls return the first outcome.
func (c *Controller) Init(ctx context.Context) Outcome {
	c.initOnce.Do(func() {
		out := c.outlets.RefreshWithFallback(ctx, model.FallbackOutlets)
		if out == OutcomeFallback {
			c.mu.Lock()
			c.usedFallback = true
			c.mu.Unlock()
		}
		c.initOutcome = out
	})
	return c.initOutcome
}

// UsedFallback reports whether Init substituted the built-in outlets.
func (c *Controller) UsedFallback() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usedFallback
}

// Start creates the three tickers before returning, then runs the loops in
// the background. The returned func blocks until ctx is done.
func (c *Controller) Start(ctx context.Context) (wait func() error) {
	tasks := []*Task{
		c.watch.Schedule(c.clock, c.intervals.Watch),
		c.news.Schedule(c.clock, c.intervals.News),
		c.outlets.Schedule(c.clock, c.intervals.Outlets),
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range tasks {
		g.Go(func() error { return t.Run(gctx) })
	}
	return g.Wait
}

// Run starts the loops and blocks until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	return c.Start(ctx)()
}

// RefreshAll forces the watch and news feeds to refresh now, regardless of
// their timer phase, and waits for both.
func (c *Controller) RefreshAll(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error {
		c.watch.Refresh(ctx)
		return nil
	})
	g.Go(func() error {
		c.news.Refresh(ctx)
		return nil
	})
	_ = g.Wait()
}

// HandleKeys reads one command per line from r: "r" refreshes both feeds,
// "q" stops reading and reports quit. Anything else is ignored. Refreshes
// started here may overlap; HandleKeys waits for them before returning.
func (c *Controller) HandleKeys(ctx context.Context, r io.Reader) (quit bool, err error) {
	var g errgroup.Group
	defer func() { _ = g.Wait() }()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return false, nil
		}
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "r":
			zap.L().Info("refresh: manual refresh requested")
			g.Go(func() error {
				c.RefreshAll(ctx)
				return nil
			})
		case "q":
			return true, nil
		}
	}
	return false, eris.Wrap(scanner.Err(), "refresh: read keys")
}

// FeedStatus describes one feed.
type FeedStatus struct {
	Name      string `json:"name"`
	State     State  `json:"state"`
	Stats     Stats  `json:"stats"`
	LastError string `json:"last_error,omitempty"`
}

// Status is a snapshot of the controller.
type Status struct {
	Feeds        []FeedStatus `json:"feeds"`
	UsedFallback bool         `json:"used_fallback"`
	Markers      int          `json:"markers"`
	UpdatedAt    time.Time    `json:"updated_at,omitempty"`
}

// Status returns the state of every feed and the marker layer.
func (c *Controller) Status() Status {
	return Status{
		Feeds: []FeedStatus{
			feedStatus(c.watch),
			feedStatus(c.news),
			feedStatus(c.outlets),
		},
		UsedFallback: c.UsedFallback(),
		Markers:      len(c.view.Markers()),
		UpdatedAt:    c.view.UpdatedAt(),
	}
}

func feedStatus[T any](f *Feed[T]) FeedStatus {
	fs := FeedStatus{Name: f.Name(), State: f.State(), Stats: f.Stats()}
	if err := f.LastError(); err != nil {
		fs.LastError = err.Error()
	}
	return fs
}
