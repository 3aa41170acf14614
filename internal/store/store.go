// Package store journals the activity readings the watcher renders.
package store

import (
	"context"
	"time"

	"github.com/sells-group/pizza-watch/internal/geo"
)

// DefaultLimit is used when a Filter has no positive Limit.
const DefaultLimit = 20

// Reading is one journaled outlet observation.
type Reading struct {
	ID         string           `json:"id"`
	Outlet     string           `json:"outlet"`
	Address    string           `json:"address,omitempty"`
	BusyLevel  string           `json:"busy_level"`
	Score      *float64         `json:"activity_score,omitempty"`
	Tier       geo.ActivityTier `json:"tier"`
	DistanceKm float64          `json:"distance_km"`
	ObservedAt time.Time        `json:"observed_at"`
}

// Filter narrows RecentReadings.
type Filter struct {
	Outlet string `json:"outlet,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

func (f Filter) limit() int {
	if f.Limit <= 0 {
		return DefaultLimit
	}
	return f.Limit
}

// Store persists readings.
type Store interface {
	// RecordReadings appends readings, assigning IDs to any without one.
	RecordReadings(ctx context.Context, readings []Reading) error
	// RecentReadings returns the newest readings first.
	RecentReadings(ctx context.Context, filter Filter) ([]Reading, error)

	Migrate(ctx context.Context) error
	Close() error
}
