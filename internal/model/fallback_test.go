package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackOutlets(t *testing.T) {
	outlets := FallbackOutlets()
	require.Len(t, outlets, 6)

	names := make([]string, len(outlets))
	for i, o := range outlets {
		names[i] = o.Name
		assert.NotEmpty(t, o.Address)
		assert.NotZero(t, o.Latitude)
		assert.NotZero(t, o.Longitude)
		require.NotNil(t, o.LatestActivity.ActivityScore, o.Name)
		assert.NotEmpty(t, o.LatestActivity.BusyLevel)
	}

	assert.Equal(t, []string{
		"Extreme Pizza",
		"We, The Pizza",
		"District Pizza Palace",
		"California Pizza Kitchen",
		"Domino's Pizza - S Ball St",
		"Domino's Pizza - K St NW",
	}, names)
	assert.InDelta(t, 75.0, *outlets[0].LatestActivity.ActivityScore, 1e-9)
}

func TestFallbackOutlets_ReturnsCopies(t *testing.T) {
	first := FallbackOutlets()
	*first[0].LatestActivity.ActivityScore = 1
	first[0].Name = "mutated"

	second := FallbackOutlets()
	assert.Equal(t, "Extreme Pizza", second[0].Name)
	assert.InDelta(t, 75.0, *second[0].LatestActivity.ActivityScore, 1e-9)
}
