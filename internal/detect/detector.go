package detect

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/visiblyai/scanner/internal/llm"
	"github.com/visiblyai/scanner/internal/prompts"
	intschemas "github.com/visiblyai/scanner/internal/schemas"
	"github.com/visiblyai/scanner/internal/types"
	"github.com/visiblyai/scanner/schemas"
)

// minPortrayalLength is the evidence threshold for trusting an LLM-only
// positive. A bare "mentioned: true" with no portrayal is too easy to
// hallucinate; a concrete sentence about how the brand appeared is not.
const minPortrayalLength = 20

// Detector analyzes provider responses for brand mentions. The regex pass
// and the judge model check each other: deterministic matches are ground
// truth for presence, the judge is trusted for position and sentiment.
type Detector struct {
	judge llm.Provider
	log   *logrus.Entry
}

// NewDetector builds a detector. A nil judge degrades to the deterministic
// pass alone, which is also the path taken when the judge call fails.
func NewDetector(judge llm.Provider) *Detector {
	return &Detector{
		judge: judge,
		log:   logrus.WithField("component", "detect"),
	}
}

// judgeVerdict mirrors the judge-mention prompt's output contract.
type judgeVerdict struct {
	Mentioned            bool     `json:"mentioned"`
	Position             string   `json:"position"`
	ExactPosition        *int     `json:"exact_position"`
	Sentiment            *string  `json:"sentiment"`
	Portrayal            string   `json:"portrayal"`
	CompetitorsMentioned []string `json:"competitors_mentioned"`
	TopCompetitors       []string `json:"top_competitors"`
	OtherBrands          []string `json:"other_brands"`
}

// Analyze produces the verdict for one provider response. It never returns
// an error: every failure mode degrades to the deterministic result, which
// is always available.
func (d *Detector) Analyze(ctx context.Context, resp types.ProviderResponse, prof types.BrandProfile) types.MentionAnalysis {
	text := StripMarkdown(resp.Text)
	fast := FastScan(text, prof)

	analysis := types.MentionAnalysis{
		Provider: resp.Provider,
		Query:    resp.Query,
		Quality:  AssessQuality(text, resp.Query.Text),
	}

	// No alias and no known competitor anywhere in the response: the
	// expensive path has nothing to verify. The token scan still runs so
	// unknown competitors surface.
	if !fast.BrandHit && len(fast.CompetitorHits) == 0 {
		analysis.Position = types.PositionNotFound
		analysis.Confidence = types.ConfidenceHigh
		analysis.Competitors = ExtractCompetitors(text, prof)
		return analysis
	}

	verdict, err := d.askJudge(ctx, text, prof)
	if err != nil {
		if d.judge != nil {
			d.log.WithError(err).WithField("provider", resp.Provider).Warn("mention judge unavailable, using deterministic result")
		}
		return d.fromFastScan(analysis, fast, text, prof)
	}

	return d.reconcile(analysis, fast, verdict, text, prof)
}

// fromFastScan fills the analysis from the deterministic pass alone.
func (d *Detector) fromFastScan(analysis types.MentionAnalysis, fast FastResult, text string, prof types.BrandProfile) types.MentionAnalysis {
	analysis.Competitors = ExtractCompetitors(text, prof)
	if !fast.BrandHit {
		analysis.Position = types.PositionNotFound
		analysis.Confidence = types.ConfidenceMedium
		return analysis
	}
	analysis.Mentioned = true
	analysis.Position, analysis.ExactPosition = positionFromRank(fast.ListRank)
	analysis.Sentiment = types.SentimentNeutral
	analysis.Evidence = fast.Evidence
	analysis.Confidence = types.ConfidenceMedium
	return analysis
}

// reconcile merges the two passes under the asymmetric trust rules.
func (d *Detector) reconcile(analysis types.MentionAnalysis, fast FastResult, verdict judgeVerdict, text string, prof types.BrandProfile) types.MentionAnalysis {
	switch {
	case verdict.Mentioned && fast.BrandHit:
		// Both agree. The judge owns position and sentiment.
		analysis.Mentioned = true
		analysis.Position = parsePosition(verdict.Position, types.PositionMentioned)
		analysis.ExactPosition = verdict.ExactPosition
		analysis.Sentiment = parseSentiment(verdict.Sentiment)
		analysis.Evidence = fast.Evidence
		analysis.Portrayal = verdict.Portrayal
		analysis.Confidence = types.ConfidenceHigh

	case verdict.Mentioned && len(strings.TrimSpace(verdict.Portrayal)) >= minPortrayalLength:
		// Judge-only positive with substantive evidence: the matcher
		// misses paraphrased references ("the open-source Calendly
		// alternative"), the judge doesn't.
		analysis.Mentioned = true
		analysis.Position = parsePosition(verdict.Position, types.PositionMentioned)
		analysis.ExactPosition = verdict.ExactPosition
		analysis.Sentiment = parseSentiment(verdict.Sentiment)
		analysis.Portrayal = verdict.Portrayal
		analysis.Evidence = verdict.Portrayal
		analysis.Confidence = types.ConfidenceMedium

	case fast.BrandHit:
		// The judge says no but the alias is literally in the text.
		// Deterministic presence wins; judge position is untrusted here.
		analysis.Mentioned = true
		analysis.Position, analysis.ExactPosition = positionFromRank(fast.ListRank)
		analysis.Sentiment = types.SentimentNeutral
		analysis.Evidence = fast.Evidence
		analysis.Confidence = types.ConfidenceMedium

	default:
		analysis.Position = types.PositionNotFound
		analysis.Confidence = types.ConfidenceHigh
	}

	analysis.Competitors = mergeCompetitorVerdicts(text, prof, verdict)
	return analysis
}

// askJudge runs the judge-mention prompt and fail-closed validates the
// output before parsing.
func (d *Detector) askJudge(ctx context.Context, text string, prof types.BrandProfile) (judgeVerdict, error) {
	if d.judge == nil {
		return judgeVerdict{}, llm.ErrNoProvider
	}
	template := prompts.MustGet("detect.json", "judge-mention")
	prompt := prompts.Format(template, map[string]string{
		"BrandName":    prof.BrandName,
		"Aliases":      strings.Join(prof.Aliases, ", "),
		"Competitors":  strings.Join(prof.Competitors, ", "),
		"ResponseText": text,
	})

	raw, err := llm.GenerateJSON(ctx, d.judge, prompt)
	if err != nil {
		return judgeVerdict{}, err
	}
	if err := intschemas.ValidateJSONString(schemas.MustRead(schemas.MentionAnalysis), raw); err != nil {
		return judgeVerdict{}, err
	}
	var verdict judgeVerdict
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		return judgeVerdict{}, err
	}
	return verdict, nil
}

// mergeCompetitorVerdicts combines the deterministic competitor scan with
// the judge's lists, deduplicating on normalized name.
func mergeCompetitorVerdicts(text string, prof types.BrandProfile, verdict judgeVerdict) []types.CompetitorMention {
	out := ExtractCompetitors(text, prof)
	seen := map[string]bool{}
	for _, m := range out {
		seen[normKey(m.Name)] = true
	}
	for _, name := range prof.AllNames() {
		seen[normKey(name)] = true
	}

	top := map[string]bool{}
	for _, name := range verdict.TopCompetitors {
		top[normKey(name)] = true
	}

	add := func(name string) {
		name = strings.TrimSpace(name)
		key := normKey(name)
		if name == "" || seen[key] {
			return
		}
		seen[key] = true
		m := competitorMention(text, name)
		if top[key] && m.Position == 0 {
			m.Position = 1
		}
		out = append(out, m)
	}
	for _, name := range verdict.CompetitorsMentioned {
		add(name)
	}
	for _, name := range verdict.OtherBrands {
		add(name)
	}
	return out
}

func parsePosition(s string, fallback types.MentionPosition) types.MentionPosition {
	switch types.MentionPosition(s) {
	case types.PositionTop3, types.PositionMentioned, types.PositionNotFound:
		return types.MentionPosition(s)
	}
	return fallback
}

func parseSentiment(s *string) types.Sentiment {
	if s == nil {
		return types.SentimentNeutral
	}
	switch types.Sentiment(*s) {
	case types.SentimentRecommended, types.SentimentNeutral, types.SentimentNegative:
		return types.Sentiment(*s)
	}
	return types.SentimentNeutral
}
