// Package newsrank scores and categorizes news headlines by keyword.
package newsrank

import (
	"sort"
	"strings"

	"github.com/sells-group/pizza-watch/internal/model"
)

// Event types.
const (
	EventMilitary   = "military"
	EventDiplomatic = "diplomatic"
	EventConflict   = "conflict"
	EventGeneral    = "general"
)

const (
	baseSignificance   = 50.0
	highImpactWeight   = 20.0
	mediumImpactWeight = 10.0
	maxSignificance    = 100.0
)

var (
	highImpactKeywords   = []string{"war", "attack", "strike", "military", "pentagon", "nuclear"}
	mediumImpactKeywords = []string{"conflict", "tension", "sanctions", "diplomatic"}
)

// categories are checked in order; the first family with a hit wins.
var categories = []struct {
	eventType string
	keywords  []string
}{
	{EventMilitary, []string{"war", "attack", "strike", "military"}},
	{EventDiplomatic, []string{"diplomatic", "negotiations", "talks"}},
	{EventConflict, []string{"conflict", "tension", "crisis"}},
}

// Significance scores a headline from 50 to 100. Keywords match as
// substrings, so "warning" counts as "war".
func Significance(title string) float64 {
	lower := strings.ToLower(title)
	score := baseSignificance
	for _, kw := range highImpactKeywords {
		if strings.Contains(lower, kw) {
			score += highImpactWeight
		}
	}
	for _, kw := range mediumImpactKeywords {
		if strings.Contains(lower, kw) {
			score += mediumImpactWeight
		}
	}
	if score > maxSignificance {
		return maxSignificance
	}
	return score
}

// Categorize returns the event type for a headline.
func Categorize(title string) string {
	lower := strings.ToLower(title)
	for _, c := range categories {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.eventType
			}
		}
	}
	return EventGeneral
}

// Enrich returns a copy of items with missing significance scores and event
// types filled in from the titles.
func Enrich(items []model.NewsItem) []model.NewsItem {
	out := make([]model.NewsItem, len(items))
	for i, item := range items {
		if item.SignificanceScore == nil {
			s := Significance(item.Title)
			item.SignificanceScore = &s
		}
		if item.EventType == "" {
			item.EventType = Categorize(item.Title)
		}
		out[i] = item
	}
	return out
}

// SortBySignificance orders items most significant first. Items without a
// score sort last; ties keep feed order.
func SortBySignificance(items []model.NewsItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].SignificanceScore, items[j].SignificanceScore
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a > *b
		}
	})
}
