package types

import "time"

// Trend is the direction of change in a competitor's visibility between the
// current and previous scan for the same brand.
type Trend string

// Trend values.
const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
	TrendNew    Trend = "new"
)

// CompetitorTrackingRecord is the only entity that persists and evolves
// across scans. Keyed by (brand_domain, competitor_name); the pipeline
// updates it on every scan and never deletes it. Rank is set only for the
// top 3 competitors by mention count within a scan.
type CompetitorTrackingRecord struct {
	BrandDomain      string    `json:"brand_domain"`
	CompetitorName   string    `json:"competitor_name"`
	Rank             *int      `json:"rank,omitempty"`
	LastMentionCount int       `json:"last_mention_count"`
	LastAvgPosition  *float64  `json:"last_avg_position,omitempty"`
	Trend            Trend     `json:"trend"`
	UpdatedAt        time.Time `json:"updated_at"`
}
