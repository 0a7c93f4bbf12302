package types

// ProviderScore is one provider's aggregate visibility for a scan.
// MentionsCount never exceeds TotalQueries, and TotalQueries counts only
// calls that actually returned a response body. SentimentAvg is the mean
// of {recommended: +1, neutral: 0, negative: -1} over mentions.
type ProviderScore struct {
	Provider         string   `json:"provider"`
	CompositeScore   float64  `json:"composite_score"`
	MentionRate      float64  `json:"mention_rate"`
	AvgPosition      *float64 `json:"avg_position,omitempty"`
	SentimentAvg     float64  `json:"sentiment_avg"`
	CategoryCoverage float64  `json:"category_coverage"`
	MentionsCount    int      `json:"mentions_count"`
	TotalQueries     int      `json:"total_queries"`
}

// ScanScore is the final derived score for a scan, immutable once computed.
type ScanScore struct {
	FinalScore       float64                  `json:"final_score"`
	MentionRate      float64                  `json:"mention_rate"`
	CategoryCoverage float64                  `json:"category_coverage"`
	ModelConsistency float64                  `json:"model_consistency"`
	ByModel          map[string]ProviderScore `json:"by_model"`
}

// ScanResult bundles everything downstream reporting needs from one scan.
type ScanResult struct {
	ScanID     string            `json:"scan_id"`
	Input      ScanInput         `json:"input"`
	Profile    BrandProfile      `json:"profile"`
	Score      ScanScore         `json:"score"`
	QueryCount int               `json:"query_count"`
	Analyses   []MentionAnalysis `json:"analyses"`
	Partial    bool              `json:"partial,omitempty"`
}
