package render

import (
	"context"

	"github.com/facebookgo/clock"
	"go.uber.org/zap"

	"github.com/sells-group/pizza-watch/internal/mapview"
	"github.com/sells-group/pizza-watch/internal/model"
	"github.com/sells-group/pizza-watch/internal/store"
)

// Journal records every outlet render in a store. Store errors are logged
// and never fail the render.
type Journal struct {
	store store.Store
	clock clock.Clock
	log   *zap.Logger
}

// NewJournal returns a Journal writing to st.
func NewJournal(st store.Store, clk clock.Clock) *Journal {
	if clk == nil {
		clk = clock.New()
	}
	return &Journal{
		store: st,
		clock: clk,
		log:   zap.L().With(zap.String("component", "journal")),
	}
}

// RenderOutlets journals one reading per marker.
func (j *Journal) RenderOutlets(ctx context.Context, markers []mapview.Marker) error {
	if len(markers) == 0 {
		return nil
	}
	readings := Readings(markers, j.clock)
	if err := j.store.RecordReadings(ctx, readings); err != nil {
		j.log.Warn("journal: record readings failed", zap.Int("readings", len(readings)), zap.Error(err))
		return nil
	}
	j.log.Debug("journal: recorded readings", zap.Int("readings", len(readings)))
	return nil
}

// RenderWatchItems is a no-op.
func (j *Journal) RenderWatchItems(context.Context, []model.WatchItem) error { return nil }

// RenderNews is a no-op.
func (j *Journal) RenderNews(context.Context, []model.NewsItem) error { return nil }

// Readings converts markers to journal rows. A reading without its own
// timestamp is stamped with the clock.
func Readings(markers []mapview.Marker, clk clock.Clock) []store.Reading {
	now := clk.Now().UTC()
	out := make([]store.Reading, 0, len(markers))
	for _, m := range markers {
		observed := now
		if ts := m.Outlet.LatestActivity.Timestamp; ts != nil && !ts.IsZero() {
			observed = ts.UTC()
		}
		out = append(out, store.Reading{
			Outlet:     m.Outlet.Name,
			Address:    m.Outlet.Address,
			BusyLevel:  m.BusyLevel,
			Score:      m.Outlet.LatestActivity.ActivityScore,
			Tier:       m.Tier,
			DistanceKm: m.DistanceKm,
			ObservedAt: observed,
		})
	}
	return out
}
