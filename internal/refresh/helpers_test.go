package refresh

import (
	"context"
	"errors"
	"sync"

	"github.com/sells-group/pizza-watch/internal/fetcher"
	"github.com/sells-group/pizza-watch/internal/mapview"
	"github.com/sells-group/pizza-watch/internal/model"
	"github.com/sells-group/pizza-watch/internal/notify"
)

type recordingNotifier struct {
	mu  sync.Mutex
	got []notify.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
}

func (r *recordingNotifier) all() []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Notification(nil), r.got...)
}

type transitionLog struct {
	mu   sync.Mutex
	seen map[string][]State
}

func newTransitionLog() *transitionLog {
	return &transitionLog{seen: make(map[string][]State)}
}

func (l *transitionLog) record(feed string, _, to State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen[feed] = append(l.seen[feed], to)
}

func (l *transitionLog) states(feed string) []State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]State(nil), l.seen[feed]...)
}

// fakeSource returns scripted results and counts calls.
type fakeSource struct {
	mu          sync.Mutex
	watch       []model.WatchItem
	watchErr    error
	news        []model.NewsItem
	newsErr     error
	outlets     []model.Outlet
	outletsErr  error
	watchCalls  int
	newsCalls   int
	outletCalls int
}

func (s *fakeSource) PizzaData(context.Context) ([]model.WatchItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchCalls++
	return s.watch, s.watchErr
}

func (s *fakeSource) NewsFeed(context.Context) ([]model.NewsItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newsCalls++
	return s.news, s.newsErr
}

func (s *fakeSource) Outlets(context.Context) ([]model.Outlet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outletCalls++
	return s.outlets, s.outletsErr
}

func (s *fakeSource) setOutlets(outlets []model.Outlet, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outlets, s.outletsErr = outlets, err
}

func (s *fakeSource) calls() (watch, news, outlets int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watchCalls, s.newsCalls, s.outletCalls
}

// fakeRenderer keeps whatever was rendered last, like a page would.
type fakeRenderer struct {
	mu      sync.Mutex
	markers []mapview.Marker
	watch   []model.WatchItem
	news    []model.NewsItem
	err     error
}

func (r *fakeRenderer) RenderOutlets(_ context.Context, markers []mapview.Marker) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.markers = markers
	return nil
}

func (r *fakeRenderer) RenderWatchItems(_ context.Context, items []model.WatchItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.watch = items
	return nil
}

func (r *fakeRenderer) RenderNews(_ context.Context, items []model.NewsItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.news = items
	return nil
}

func (r *fakeRenderer) markerNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.markers))
	for _, m := range r.markers {
		names = append(names, m.Outlet.Name)
	}
	return names
}

func (r *fakeRenderer) watchItems() []model.WatchItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.watch
}

func networkErr() error {
	return &fetcher.Error{Kind: fetcher.KindNetwork, Path: fetcher.OutletsPath, Status: 503, Err: errors.New("service unavailable")}
}

func malformedErr() error {
	return &fetcher.Error{Kind: fetcher.KindMalformed, Path: fetcher.PizzaDataPath, Err: errors.New("expected JSON array")}
}
