package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visiblyai/scanner/internal/types"
)

func analysis(provider string, intent types.IntentCategory, mentioned bool, pos types.MentionPosition, exact *int, sent types.Sentiment) types.MentionAnalysis {
	return types.MentionAnalysis{
		Provider:      provider,
		Query:         types.Query{Text: string(intent) + " query", Intent: intent},
		Mentioned:     mentioned,
		Position:      pos,
		ExactPosition: exact,
		Sentiment:     sent,
	}
}

func intPtr(n int) *int { return &n }

// panel builds n analyses for a provider with the first mentions of them
// mentioned, cycling through the generated intent categories.
func panel(provider string, n, mentions int) []types.MentionAnalysis {
	intents := types.GeneratedIntents()
	out := make([]types.MentionAnalysis, 0, n)
	for i := 0; i < n; i++ {
		intent := intents[i%len(intents)]
		if i < mentions {
			out = append(out, analysis(provider, intent, true, types.PositionMentioned, nil, types.SentimentNeutral))
		} else {
			out = append(out, analysis(provider, intent, false, types.PositionNotFound, nil, ""))
		}
	}
	return out
}

func TestProviderScoreBasics(t *testing.T) {
	e := NewEngine(DefaultWeights())
	group := []types.MentionAnalysis{
		analysis("openai", types.IntentBestInClass, true, types.PositionTop3, intPtr(1), types.SentimentRecommended),
		analysis("openai", types.IntentComparison, true, types.PositionTop3, intPtr(3), types.SentimentNeutral),
		analysis("openai", types.IntentAlternatives, false, types.PositionNotFound, nil, ""),
		analysis("openai", types.IntentBudgetBased, false, types.PositionNotFound, nil, ""),
	}

	got := e.ProviderScores(group)["openai"]
	assert.Equal(t, 4, got.TotalQueries)
	assert.Equal(t, 2, got.MentionsCount)
	assert.InDelta(t, 0.5, got.MentionRate, 1e-9)
	assert.InDelta(t, 0.5, got.CategoryCoverage, 1e-9)
	require.NotNil(t, got.AvgPosition)
	assert.InDelta(t, 2.0, *got.AvgPosition, 1e-9)
	// One recommended (+1), one neutral (0).
	assert.InDelta(t, 0.5, got.SentimentAvg, 1e-9)
	assert.Greater(t, got.CompositeScore, 0.0)
}

func TestSentimentAvgScale(t *testing.T) {
	e := NewEngine(DefaultWeights())

	neutral := e.ProviderScores([]types.MentionAnalysis{
		analysis("openai", types.IntentBuying, true, types.PositionMentioned, nil, types.SentimentNeutral),
		analysis("openai", types.IntentComparison, true, types.PositionMentioned, nil, types.SentimentNeutral),
	})["openai"]
	assert.Zero(t, neutral.SentimentAvg, "all-neutral averages 0, not the midpoint")

	negative := e.ProviderScores([]types.MentionAnalysis{
		analysis("openai", types.IntentBuying, true, types.PositionMentioned, nil, types.SentimentNegative),
		analysis("openai", types.IntentComparison, true, types.PositionMentioned, nil, types.SentimentNeutral),
	})["openai"]
	assert.InDelta(t, -0.5, negative.SentimentAvg, 1e-9, "negatives pull below zero")
	assert.Less(t, negative.CompositeScore, neutral.CompositeScore)
}

func TestHigherMentionRateScoresHigher(t *testing.T) {
	e := NewEngine(DefaultWeights())

	a := e.ProviderScores(panel("a", 8, 6))["a"]
	b := e.ProviderScores(panel("b", 8, 4))["b"]

	assert.InDelta(t, 0.75, a.MentionRate, 1e-9)
	assert.InDelta(t, 0.5, b.MentionRate, 1e-9)
	assert.Greater(t, a.CompositeScore, b.CompositeScore)
}

func TestWeightOrdering(t *testing.T) {
	w := DefaultWeights()
	assert.Greater(t, w.MentionRate, w.CategoryCoverage)
	assert.Greater(t, w.CategoryCoverage, w.Position)
	assert.Greater(t, w.Position, w.Sentiment)
}

func TestMentionRateOverAttemptedOnly(t *testing.T) {
	// Scan cancelled after 3 of 8 calls: the denominator is 3.
	e := NewEngine(DefaultWeights())
	got := e.ProviderScores(panel("openai", 3, 2))["openai"]
	assert.Equal(t, 3, got.TotalQueries)
	assert.InDelta(t, 2.0/3.0, got.MentionRate, 1e-9)
}

func TestScoreExcludesAbsentProviders(t *testing.T) {
	// Only openai returned anything; anthropic failed every call and has
	// no analyses. It must not appear as a zero that drags the average.
	e := NewEngine(DefaultWeights())
	score := e.Score(panel("openai", 8, 6))

	require.Len(t, score.ByModel, 1)
	assert.Contains(t, score.ByModel, "openai")
	assert.Equal(t, 1.0, score.ModelConsistency)
	assert.Greater(t, score.FinalScore, 0.0)
}

func TestScoreConsistencyPenalty(t *testing.T) {
	e := NewEngine(DefaultWeights())

	agree := append(panel("a", 8, 6), panel("b", 8, 6)...)
	disagree := append(panel("a", 8, 8), panel("b", 8, 4)...)

	agreeScore := e.Score(agree)
	disagreeScore := e.Score(disagree)

	assert.Equal(t, 1.0, agreeScore.ModelConsistency)
	assert.Less(t, disagreeScore.ModelConsistency, 1.0)

	// Same mean mention rate (0.75), but disagreement costs points.
	assert.InDelta(t, agreeScore.MentionRate, disagreeScore.MentionRate, 1e-9)
	assert.Less(t, disagreeScore.FinalScore, agreeScore.FinalScore)
}

func TestScoreEmpty(t *testing.T) {
	e := NewEngine(DefaultWeights())
	score := e.Score(nil)
	assert.Zero(t, score.FinalScore)
	assert.Empty(t, score.ByModel)
}

func TestRankedProviders(t *testing.T) {
	e := NewEngine(DefaultWeights())
	score := e.Score(append(panel("a", 8, 2), panel("b", 8, 6)...))
	assert.Equal(t, []string{"b", "a"}, RankedProviders(score.ByModel))
}

func TestConsistencyBounds(t *testing.T) {
	assert.Equal(t, 1.0, consistency([]float64{0.5}))
	assert.Equal(t, 1.0, consistency([]float64{0.5, 0.5, 0.5}))
	assert.Equal(t, 0.0, consistency([]float64{0, 1}))
}
