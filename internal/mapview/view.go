// Package mapview holds the page state for the outlet map: the landmark,
// the outlets currently shown, and the markers derived from them.
package mapview

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sells-group/pizza-watch/internal/geo"
	"github.com/sells-group/pizza-watch/internal/model"
)

// Marker is an outlet decorated with its display values.
type Marker struct {
	Outlet     model.Outlet     `json:"outlet"`
	DistanceKm float64          `json:"distance_km"`
	Tier       geo.ActivityTier `json:"tier"`
	Color      string           `json:"color"`
	BusyLevel  string           `json:"busy_level"`
}

// Score returns the reading score, or 0 when absent.
func (m Marker) Score() float64 {
	if m.Outlet.LatestActivity.ActivityScore == nil {
		return 0
	}
	return *m.Outlet.LatestActivity.ActivityScore
}

// BuildMarkers derives one marker per outlet, in input order.
func BuildMarkers(landmark geo.Coordinate, outlets []model.Outlet) []Marker {
	markers := make([]Marker, 0, len(outlets))
	for _, o := range outlets {
		reading := o.LatestActivity
		tier := reading.Tier()

		busy := strings.TrimSpace(reading.BusyLevel)
		if busy == "" {
			if reading.ActivityScore != nil {
				busy = geo.DescribeScore(*reading.ActivityScore)
			} else {
				busy = geo.UnknownBusyLevel
			}
		}

		markers = append(markers, Marker{
			Outlet:     o,
			DistanceKm: geo.DistanceKm(landmark, o.Coordinate()),
			Tier:       tier,
			Color:      tier.Color(),
			BusyLevel:  busy,
		})
	}
	return markers
}

// SortByDistance orders markers nearest first. Ties keep input order.
func SortByDistance(markers []Marker) {
	sort.SliceStable(markers, func(i, j int) bool {
		return markers[i].DistanceKm < markers[j].DistanceKm
	})
}

// View is the explicit page context shared by the map renderers. Every
// Replace discards the previous outlets and markers.
type View struct {
	landmark geo.Coordinate

	mu        sync.RWMutex
	outlets   []model.Outlet
	markers   []Marker
	updatedAt time.Time
}

// NewView creates an empty view centred on landmark.
func NewView(landmark geo.Coordinate) *View {
	return &View{landmark: landmark}
}

// Landmark returns the view centre.
func (v *View) Landmark() geo.Coordinate {
	return v.landmark
}

// Replace swaps in outlets and returns the freshly derived markers.
func (v *View) Replace(outlets []model.Outlet, now time.Time) []Marker {
	markers := BuildMarkers(v.landmark, outlets)

	v.mu.Lock()
	v.outlets = append([]model.Outlet(nil), outlets...)
	v.markers = markers
	v.updatedAt = now
	v.mu.Unlock()

	return append([]Marker(nil), markers...)
}

// Outlets returns a copy of the current outlet list.
func (v *View) Outlets() []model.Outlet {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]model.Outlet(nil), v.outlets...)
}

// Markers returns a copy of the current markers.
func (v *View) Markers() []Marker {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]Marker(nil), v.markers...)
}

// UpdatedAt returns when the markers were last replaced.
func (v *View) UpdatedAt() time.Time {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.updatedAt
}

// maxStars caps the star bar; ratings are on a five point scale.
const maxStars = 5

// Popup renders the marker's info text. landmarkName labels the distance line.
func Popup(m Marker, landmarkName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", m.Outlet.Name)
	fmt.Fprintf(&b, "Address: %s\n", m.Outlet.Address)
	fmt.Fprintf(&b, "Distance from %s: %.1f km\n", landmarkName, m.DistanceKm)
	fmt.Fprintf(&b, "Current Status: %s\n", m.BusyLevel)
	fmt.Fprintf(&b, "Activity Score: %s/100\n", formatScore(m.Score()))
	if r := m.Outlet.Rating; r != nil && !math.IsNaN(*r) && !math.IsInf(*r, 0) {
		stars := math.Max(0, math.Min(maxStars, math.Floor(*r)))
		fmt.Fprintf(&b, "Rating: %s (%s)\n", strings.Repeat("*", int(stars)), formatScore(*r))
	}
	updated := "Unknown"
	if ts := m.Outlet.LatestActivity.Timestamp; ts != nil && !ts.IsZero() {
		updated = ts.Format("Jan 2, 2006 3:04 PM")
	}
	fmt.Fprintf(&b, "Last updated: %s", updated)
	return b.String()
}

func formatScore(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
