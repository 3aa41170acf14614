package model

// WatchItem is one row of /api/pizza-data.
type WatchItem struct {
	Outlet        string   `json:"outlet"`
	Address       string   `json:"address"`
	BusyLevel     string   `json:"busy_level"`
	Timestamp     string   `json:"timestamp"`
	ActivityScore *float64 `json:"activity_score,omitempty"`
}

// NewsItem is one article of /api/news-feed. PublishedDate is display text
// (e.g. "8/30/2025"), not a parsed time.
type NewsItem struct {
	Source            string   `json:"source"`
	Title             string   `json:"title"`
	PublishedDate     string   `json:"published_date"`
	Description       string   `json:"description"`
	URL               string   `json:"url"`
	SignificanceScore *float64 `json:"significance_score,omitempty"`
	EventType         string   `json:"event_type,omitempty"`
}
