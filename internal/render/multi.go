package render

import (
	"context"

	"github.com/sells-group/pizza-watch/internal/mapview"
	"github.com/sells-group/pizza-watch/internal/model"
	"github.com/sells-group/pizza-watch/internal/refresh"
)

// Multi fans every render out to each renderer in order. All renderers run;
// the first error is returned.
type Multi []refresh.Renderer

var _ refresh.Renderer = Multi(nil)

func (m Multi) RenderOutlets(ctx context.Context, markers []mapview.Marker) error {
	return m.each(func(r refresh.Renderer) error { return r.RenderOutlets(ctx, markers) })
}

func (m Multi) RenderWatchItems(ctx context.Context, items []model.WatchItem) error {
	return m.each(func(r refresh.Renderer) error { return r.RenderWatchItems(ctx, items) })
}

func (m Multi) RenderNews(ctx context.Context, items []model.NewsItem) error {
	return m.each(func(r refresh.Renderer) error { return r.RenderNews(ctx, items) })
}

func (m Multi) each(fn func(refresh.Renderer) error) error {
	var first error
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := fn(r); err != nil && first == nil {
			first = err
		}
	}
	return first
}
