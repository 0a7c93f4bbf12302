package types

import "time"

// ProviderResponse records one attempted (query, provider) call. A failed
// call keeps its error text and an empty body; callers treat failure as
// data, never as a scan-level fault.
type ProviderResponse struct {
	Query    Query         `json:"query"`
	Provider string        `json:"provider"`
	Text     string        `json:"text,omitempty"`
	Latency  time.Duration `json:"latency"`
	Error    string        `json:"error,omitempty"`
}

// OK reports whether the call produced a usable response body.
func (r *ProviderResponse) OK() bool {
	return r.Error == "" && r.Text != ""
}

// MentionPosition buckets where the brand appeared in a response.
type MentionPosition string

// Mention position buckets.
const (
	PositionTop3      MentionPosition = "top_3"
	PositionMentioned MentionPosition = "mentioned_not_top"
	PositionNotFound  MentionPosition = "not_found"
)

// Sentiment describes how a mentioned brand was portrayed.
type Sentiment string

// Sentiment values. Empty means the detector could not judge sentiment.
const (
	SentimentRecommended Sentiment = "recommended"
	SentimentNeutral     Sentiment = "neutral"
	SentimentNegative    Sentiment = "negative"
)

// Confidence grades how sure the detector is about a result.
type Confidence string

// Detection confidence levels.
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// QualityIssue names the dominant problem with a low-value response.
type QualityIssue string

// Response quality issue types.
const (
	IssueNone            QualityIssue = "none"
	IssueDeflection      QualityIssue = "deflection"
	IssueKnowledgeCutoff QualityIssue = "knowledge_cutoff"
	IssueRefusal         QualityIssue = "refusal"
	IssueGeneric         QualityIssue = "generic"
	IssueOffTopic        QualityIssue = "off_topic"
)

// ResponseQuality scores how useful a provider response is, independent of
// whether the brand was mentioned. Used to flag low-value queries in
// reporting; it never gates scoring.
type ResponseQuality struct {
	Score             int          `json:"score"`
	IsDeflection      bool         `json:"is_deflection"`
	IsGeneric         bool         `json:"is_generic"`
	IsOffTopic        bool         `json:"is_off_topic"`
	HasSpecificBrands bool         `json:"has_specific_brands"`
	IssueType         QualityIssue `json:"issue_type"`
}

// CompetitorMention is one competitor surfaced in a provider response.
type CompetitorMention struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
	Context  string `json:"context"` // recommended | compared | listed | discussed
}

// MentionAnalysis is the detector's verdict for exactly one ProviderResponse.
type MentionAnalysis struct {
	Provider      string              `json:"provider"`
	Query         Query               `json:"query"`
	Mentioned     bool                `json:"mentioned"`
	Position      MentionPosition     `json:"position"`
	ExactPosition *int                `json:"exact_position,omitempty"`
	Sentiment     Sentiment           `json:"sentiment,omitempty"`
	Evidence      string              `json:"evidence,omitempty"`
	Portrayal     string              `json:"portrayal,omitempty"`
	Confidence    Confidence          `json:"confidence"`
	Quality       ResponseQuality     `json:"quality"`
	Competitors   []CompetitorMention `json:"competitors,omitempty"`
}
