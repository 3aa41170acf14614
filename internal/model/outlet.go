// Package model defines the payload shapes served by the pizza index
// endpoints.
package model

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/pizza-watch/internal/geo"
)

// timestampLayouts are tried in order. The upstream service emits ISO-8601
// without a zone offset.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Timestamp is a time that tolerates zone-less ISO-8601 input.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON accepts RFC 3339 and zone-less ISO-8601 strings. Zone-less
// values are read as UTC. Anything else leaves the time zero, which readers
// show as unknown; one odd timestamp never rejects the whole payload.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		zap.L().Debug("model: ignoring non-string timestamp", zap.ByteString("raw", data))
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	zap.L().Debug("model: unrecognized timestamp", zap.String("raw", s))
	return nil
}

// MarshalJSON writes RFC 3339.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// ActivityReading is the latest activity observation for an outlet.
type ActivityReading struct {
	BusyLevel     string     `json:"busy_level" yaml:"busy_level"`
	ActivityScore *float64   `json:"activity_score" yaml:"activity_score"`
	Timestamp     *Timestamp `json:"timestamp" yaml:"-"`
}

// Tier classifies the reading's score.
func (r ActivityReading) Tier() geo.ActivityTier {
	return geo.ClassifyActivity(r.ActivityScore)
}

// Outlet is a point of interest near the landmark, as served by /api/outlets.
type Outlet struct {
	ID             int             `json:"id,omitempty" yaml:"id"`
	Name           string          `json:"name" yaml:"name"`
	Address        string          `json:"address" yaml:"address"`
	Latitude       float64         `json:"latitude" yaml:"latitude"`
	Longitude      float64         `json:"longitude" yaml:"longitude"`
	Rating         *float64        `json:"rating,omitempty" yaml:"rating"`
	LatestActivity ActivityReading `json:"latest_activity" yaml:"latest_activity"`
}

// Coordinate returns the outlet position.
func (o Outlet) Coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: o.Latitude, Lon: o.Longitude}
}
