package fetcher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/pizza-watch/internal/model"
)

type testRecord struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestDecodeArray(t *testing.T) {
	input := `[{"id":1,"name":"alpha"},{"id":2,"name":"beta"},{"id":3,"name":"gamma"}]`

	records, err := DecodeArray[testRecord](strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, testRecord{ID: 1, Name: "alpha"}, records[0])
	assert.Equal(t, testRecord{ID: 3, Name: "gamma"}, records[2])
}

func TestDecodeArray_Empty(t *testing.T) {
	records, err := DecodeArray[testRecord](strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestDecodeArray_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"null", `null`},
		{"object", `{"error":"Failed to fetch pizza data"}`},
		{"scalar", `42`},
		{"empty body", ``},
		{"whitespace body", "  \n"},
		{"truncated", `[{"id":1,"name":"alpha"}`},
		{"bad element", `[{"id":"one"}]`},
		{"html", `<html>oops</html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := DecodeArray[testRecord](strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Nil(t, records)
		})
	}
}

func TestDecodeArray_OutletWithOddTimestamp(t *testing.T) {
	input := `[
		{"id":1,"name":"A","latitude":38.86,"longitude":-77.06,"latest_activity":{"timestamp":"2025-08-30T12:00:00Z","activity_score":50}},
		{"id":2,"name":"B","latitude":38.87,"longitude":-77.05,"latest_activity":{"timestamp":"2025-08-30T12:00:00+0000","activity_score":90}}
	]`

	outlets, err := DecodeArray[model.Outlet](strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, outlets, 2)
	assert.False(t, outlets[0].LatestActivity.Timestamp.IsZero())
	assert.True(t, outlets[1].LatestActivity.Timestamp.IsZero())
}
