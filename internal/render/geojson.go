package render

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/pizza-watch/internal/geo"
	"github.com/sells-group/pizza-watch/internal/mapview"
	"github.com/sells-group/pizza-watch/internal/model"
)

// GeoJSON keeps the latest marker layer as a FeatureCollection. The first
// feature is always the landmark.
type GeoJSON struct {
	landmark     geo.Coordinate
	landmarkName string

	mu   sync.RWMutex
	data []byte
}

// NewGeoJSON returns a layer holding only the landmark.
func NewGeoJSON(landmark geo.Coordinate, name string) *GeoJSON {
	g := &GeoJSON{landmark: landmark, landmarkName: name}
	data, err := g.encode(nil)
	if err == nil {
		g.data = data
	}
	return g
}

// RenderOutlets replaces the layer.
func (g *GeoJSON) RenderOutlets(_ context.Context, markers []mapview.Marker) error {
	data, err := g.encode(markers)
	if err != nil {
		return err
	}
	g.mu.Lock()
	g.data = data
	g.mu.Unlock()
	return nil
}

// RenderWatchItems is a no-op; the layer only shows outlets.
func (g *GeoJSON) RenderWatchItems(context.Context, []model.WatchItem) error { return nil }

// RenderNews is a no-op; the layer only shows outlets.
func (g *GeoJSON) RenderNews(context.Context, []model.NewsItem) error { return nil }

// Bytes returns the current FeatureCollection.
func (g *GeoJSON) Bytes() []byte {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]byte(nil), g.data...)
}

func (g *GeoJSON) encode(markers []mapview.Marker) ([]byte, error) {
	fc := geojson.FeatureCollection{
		Features: make([]*geojson.Feature, 0, len(markers)+1),
	}
	fc.Features = append(fc.Features, &geojson.Feature{
		ID:       "landmark",
		Geometry: g.landmark.Point(),
		Properties: map[string]interface{}{
			"kind": "landmark",
			"name": g.landmarkName,
		},
	})

	for i, m := range markers {
		id := strconv.Itoa(m.Outlet.ID)
		if m.Outlet.ID == 0 {
			id = "outlet-" + strconv.Itoa(i+1)
		}
		props := map[string]interface{}{
			"kind":        "outlet",
			"name":        m.Outlet.Name,
			"address":     m.Outlet.Address,
			"tier":        string(m.Tier),
			"color":       m.Color,
			"busy_level":  m.BusyLevel,
			"distance_km": m.DistanceKm,
			"popup":       mapview.Popup(m, g.landmarkName),
		}
		if s := m.Outlet.LatestActivity.ActivityScore; s != nil {
			props["activity_score"] = *s
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         id,
			Geometry:   m.Outlet.Coordinate().Point(),
			Properties: props,
		})
	}

	data, err := json.Marshal(&fc)
	if err != nil {
		return nil, eris.Wrap(err, "render: encode geojson")
	}
	return data, nil
}
