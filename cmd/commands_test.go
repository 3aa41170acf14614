package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/pizza-watch/internal/geo"
	"github.com/sells-group/pizza-watch/internal/model"
	"github.com/sells-group/pizza-watch/internal/store"
)

func TestRunDistance_ToLandmark(t *testing.T) {
	var buf bytes.Buffer
	err := runDistance(&buf, []string{"38.8800", "-77.0500"}, geo.Landmark, geo.LandmarkName, nil)
	require.NoError(t, err)
	assert.Equal(t, "1.05 km to The Pentagon\n", buf.String())
}

func TestRunDistance_TwoPoints(t *testing.T) {
	var buf bytes.Buffer
	err := runDistance(&buf, []string{"51.5074", "-0.1278", "48.8566", "2.3522"}, geo.Landmark, geo.LandmarkName, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), "343."), buf.String())
	assert.Contains(t, buf.String(), "48.8566,2.3522")
}

func TestRunDistance_Score(t *testing.T) {
	var buf bytes.Buffer
	score := 85.0
	err := runDistance(&buf, []string{"38.8719", "-77.0563"}, geo.Landmark, geo.LandmarkName, &score)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "0.00 km")
	assert.Contains(t, buf.String(), "score 85: Very Busy (#dc3545)")
}

func TestRunDistance_BadInput(t *testing.T) {
	var buf bytes.Buffer
	err := runDistance(&buf, []string{"north", "-77"}, geo.Landmark, geo.LandmarkName, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `parse "north"`)

	err = runDistance(&buf, []string{"1", "2", "3"}, geo.Landmark, geo.LandmarkName, nil)
	assert.Error(t, err)
}

func TestWriteOutlets_Fallback(t *testing.T) {
	var buf bytes.Buffer
	err := writeOutlets(context.Background(), &buf, geo.Landmark, geo.LandmarkName, model.FallbackOutlets(), false)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "== Outlets (6) ==")
	for _, o := range model.FallbackOutlets() {
		assert.Contains(t, out, o.Name)
	}
}

func TestWriteOutlets_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeOutlets(context.Background(), &buf, geo.Landmark, geo.LandmarkName, nil, false))
	assert.Equal(t, "No outlets.\n", buf.String())
}

func TestWriteOutlets_GeoJSON(t *testing.T) {
	var buf bytes.Buffer
	err := writeOutlets(context.Background(), &buf, geo.Landmark, geo.LandmarkName, model.FallbackOutlets(), true)
	require.NoError(t, err)

	var fc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Len(t, fc.Features, 7)
}

func TestWriteHistory(t *testing.T) {
	score := 75.0
	readings := []store.Reading{
		{Outlet: "Extreme Pizza", BusyLevel: "Busier than usual", Score: &score, Tier: geo.TierBusy,
			DistanceKm: 3.21, ObservedAt: time.Date(2025, 8, 30, 18, 5, 0, 0, time.UTC)},
		{Outlet: "District Pizza Palace", BusyLevel: "unknown", Tier: geo.TierUnknown,
			DistanceKm: 4.8, ObservedAt: time.Date(2025, 8, 30, 18, 0, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	require.NoError(t, writeHistory(&buf, readings))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "OBSERVED")
	assert.Contains(t, lines[1], "2025-08-30 18:05")
	assert.Contains(t, lines[1], "Busy")
	assert.Contains(t, lines[1], "75")
	assert.Contains(t, lines[1], "3.2 km")
	assert.Contains(t, lines[2], "Unknown")
	assert.Contains(t, lines[2], " - ")
}

func TestWriteHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeHistory(&buf, nil))
	assert.Equal(t, "No readings.\n", buf.String())
}
