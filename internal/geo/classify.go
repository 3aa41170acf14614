// Package geo provides the distance and activity classification rules used
// to place outlets around the landmark.
package geo

import (
	"math"
	"strings"
)

// ActivityTier is a discrete activity bucket derived from a 0-100 score.
type ActivityTier string

// Activity tiers, lowest to highest.
const (
	TierUnknown  ActivityTier = "unknown"
	TierLow      ActivityTier = "low"
	TierModerate ActivityTier = "moderate"
	TierBusy     ActivityTier = "busy"
	TierVeryBusy ActivityTier = "very_busy"
)

// Score thresholds. A score equal to a threshold belongs to the upper tier.
const (
	moderateThreshold = 40.0
	busyThreshold     = 60.0
	veryBusyThreshold = 80.0
)

var tierColors = map[ActivityTier]string{
	TierUnknown:  "#6c757d",
	TierLow:      "#28a745",
	TierModerate: "#ffc107",
	TierBusy:     "#fd7e14",
	TierVeryBusy: "#dc3545",
}

var tierRanks = map[ActivityTier]int{
	TierUnknown:  0,
	TierLow:      1,
	TierModerate: 2,
	TierBusy:     3,
	TierVeryBusy: 4,
}

// ClassifyActivity returns the tier for score. Rules:
//   - unknown: nil, NaN, or <= 0
//   - low: (0, 40)
//   - moderate: [40, 60)
//   - busy: [60, 80)
//   - very_busy: >= 80
func ClassifyActivity(score *float64) ActivityTier {
	if score == nil || math.IsNaN(*score) || *score <= 0 {
		return TierUnknown
	}
	s := *score
	switch {
	case s >= veryBusyThreshold:
		return TierVeryBusy
	case s >= busyThreshold:
		return TierBusy
	case s >= moderateThreshold:
		return TierModerate
	default:
		return TierLow
	}
}

// Color returns the marker color for the tier.
func (t ActivityTier) Color() string {
	if c, ok := tierColors[t]; ok {
		return c
	}
	return tierColors[TierUnknown]
}

// Rank orders tiers from unknown (0) to very_busy (4).
func (t ActivityTier) Rank() int {
	return tierRanks[t]
}

// Label returns the tier in plain words, e.g. "very busy".
func (t ActivityTier) Label() string {
	return strings.ReplaceAll(string(t), "_", " ")
}

// Busy-level wording used when a reading carries a score but no label.
const (
	BusierThanUsual    = "busier than usual"
	BitBusierThanUsual = "a bit busier than usual"
	LessBusyThanUsual  = "less busy than usual"
	NotBusy            = "not busy"
	UnknownBusyLevel   = "unknown"
)

// DescribeScore maps a score to the busy-level wording of the activity feed.
func DescribeScore(score float64) string {
	switch {
	case score >= veryBusyThreshold:
		return BusierThanUsual
	case score >= busyThreshold:
		return BitBusierThanUsual
	case score >= moderateThreshold:
		return LessBusyThanUsual
	default:
		return NotBusy
	}
}
