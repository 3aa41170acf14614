package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func score(v float64) *float64 { return &v }

func TestClassifyActivity(t *testing.T) {
	tests := []struct {
		name     string
		score    *float64
		expected ActivityTier
	}{
		{name: "absent", score: nil, expected: TierUnknown},
		{name: "zero means no activity", score: score(0), expected: TierUnknown},
		{name: "negative", score: score(-5), expected: TierUnknown},
		{name: "NaN", score: score(math.NaN()), expected: TierUnknown},
		{name: "low: just above zero", score: score(0.1), expected: TierLow},
		{name: "low: below moderate threshold", score: score(39.9), expected: TierLow},
		{name: "moderate: at threshold", score: score(40.0), expected: TierModerate},
		{name: "moderate: below busy threshold", score: score(59.9), expected: TierModerate},
		{name: "busy: at threshold", score: score(60.0), expected: TierBusy},
		{name: "busy: below very busy threshold", score: score(79.9), expected: TierBusy},
		{name: "very_busy: at threshold", score: score(80.0), expected: TierVeryBusy},
		{name: "very_busy: max", score: score(100), expected: TierVeryBusy},
		{name: "very_busy: above range clamps", score: score(140), expected: TierVeryBusy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyActivity(tt.score))
		})
	}
}

func TestClassifyActivity_Deterministic(t *testing.T) {
	for s := 0.0; s <= 100.0; s += 0.5 {
		first := ClassifyActivity(score(s))
		for range 3 {
			assert.Equal(t, first, ClassifyActivity(score(s)), "score %v", s)
		}
	}
}

func TestClassifyActivity_MonotonicOverRange(t *testing.T) {
	prev := ClassifyActivity(score(0.01)).Rank()
	for s := 0.01; s <= 100.0; s += 0.01 {
		rank := ClassifyActivity(score(s)).Rank()
		assert.GreaterOrEqual(t, rank, prev, "score %v", s)
		prev = rank
	}
}

func TestActivityTier_Color(t *testing.T) {
	tiers := []ActivityTier{TierUnknown, TierLow, TierModerate, TierBusy, TierVeryBusy}
	seen := make(map[string]ActivityTier)
	for _, tier := range tiers {
		c := tier.Color()
		assert.NotEmpty(t, c)
		_, dup := seen[c]
		assert.False(t, dup, "color %s reused", c)
		seen[c] = tier
	}

	assert.Equal(t, "#dc3545", TierVeryBusy.Color())
	assert.Equal(t, "#28a745", TierLow.Color())
	assert.Equal(t, TierUnknown.Color(), ActivityTier("bogus").Color())
}

func TestActivityTier_Label(t *testing.T) {
	assert.Equal(t, "very busy", TierVeryBusy.Label())
	assert.Equal(t, "moderate", TierModerate.Label())
}

func TestDescribeScore(t *testing.T) {
	assert.Equal(t, BusierThanUsual, DescribeScore(85))
	assert.Equal(t, BusierThanUsual, DescribeScore(80))
	assert.Equal(t, BitBusierThanUsual, DescribeScore(75))
	assert.Equal(t, LessBusyThanUsual, DescribeScore(40))
	assert.Equal(t, NotBusy, DescribeScore(39.9))
	assert.Equal(t, NotBusy, DescribeScore(0))
}
