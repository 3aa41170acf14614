// Package render turns feed snapshots into output: terminal text, a GeoJSON
// marker layer, and journal rows.
package render

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/pizza-watch/internal/geo"
	"github.com/sells-group/pizza-watch/internal/mapview"
	"github.com/sells-group/pizza-watch/internal/model"
	"github.com/sells-group/pizza-watch/internal/newsrank"
)

// Text writes each render as a plain-text section.
type Text struct {
	mu sync.Mutex
	w  io.Writer
}

// NewText returns a Text renderer writing to w.
func NewText(w io.Writer) *Text {
	return &Text{w: w}
}

// RenderWatchItems prints the activity watch list.
func (t *Text) RenderWatchItems(_ context.Context, items []model.WatchItem) error {
	var b strings.Builder
	fmt.Fprintf(&b, "== Activity watch (%d) ==\n", len(items))
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", it.Outlet, it.Address, it.BusyLevel, it.Timestamp)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return t.write(b.String())
}

// RenderNews prints the news feed, most significant first.
func (t *Text) RenderNews(_ context.Context, items []model.NewsItem) error {
	ranked := newsrank.Enrich(items)
	newsrank.SortBySignificance(ranked)

	var b strings.Builder
	fmt.Fprintf(&b, "== News (%d) ==\n", len(ranked))
	for _, it := range ranked {
		fmt.Fprintf(&b, "[%3.0f] %-10s %s\n", *it.SignificanceScore, it.EventType, it.Title)
		meta := strings.Trim(strings.Join([]string{it.Source, it.PublishedDate}, ", "), ", ")
		if meta != "" {
			fmt.Fprintf(&b, "      %s\n", meta)
		}
		if it.URL != "" {
			fmt.Fprintf(&b, "      %s\n", it.URL)
		}
	}
	return t.write(b.String())
}

// RenderOutlets prints the outlet table, nearest first.
func (t *Text) RenderOutlets(_ context.Context, markers []mapview.Marker) error {
	sorted := append([]mapview.Marker(nil), markers...)
	mapview.SortByDistance(sorted)

	var b strings.Builder
	fmt.Fprintf(&b, "== Outlets (%d) ==\n", len(sorted))
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DISTANCE\tOUTLET\tACTIVITY\tCOLOR\tSCORE\tSTATUS")
	for _, m := range sorted {
		score := "-"
		if m.Outlet.LatestActivity.ActivityScore != nil {
			score = fmt.Sprintf("%.0f", m.Score())
		}
		fmt.Fprintf(tw, "%.1f km\t%s\t%s\t%s\t%s\t%s\n",
			m.DistanceKm, m.Outlet.Name, TierLabel(m.Tier), m.Color, score, m.BusyLevel)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return t.write(b.String())
}

// TierLabel returns the tier in title case, e.g. "Very Busy".
func TierLabel(tier geo.ActivityTier) string {
	return cases.Title(language.English).String(tier.Label())
}

func (t *Text) write(s string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := io.WriteString(t.w, s+"\n")
	return err
}
