// Package scoring turns per-response mention analyses into provider scores
// and the final scan score. All inputs are successful responses only;
// failed provider calls never reach this package.
package scoring

import (
	"math"
	"sort"

	"github.com/visiblyai/scanner/internal/types"
)

// Weights control the composite formula. Mention rate dominates, category
// coverage outweighs position, position outweighs sentiment; changing the
// values is fine as long as that ordering holds.
type Weights struct {
	MentionRate      float64
	CategoryCoverage float64
	Position         float64
	Sentiment        float64
}

// DefaultWeights is the production weighting.
func DefaultWeights() Weights {
	return Weights{
		MentionRate:      0.50,
		CategoryCoverage: 0.25,
		Position:         0.15,
		Sentiment:        0.10,
	}
}

// consistencyFloor bounds how much cross-provider disagreement can drag the
// final score: a brand invisible on one model out of three still has a
// visibility problem, but not a zero.
const consistencyFloor = 0.85

// Engine computes scores under a fixed weighting.
type Engine struct {
	weights Weights
}

func NewEngine(w Weights) *Engine {
	return &Engine{weights: w}
}

// Score computes the full scan score from the analyses of every successful
// provider response. Providers with no successful responses simply don't
// appear in ByModel.
func (e *Engine) Score(analyses []types.MentionAnalysis) types.ScanScore {
	byModel := e.ProviderScores(analyses)

	score := types.ScanScore{ByModel: byModel}
	if len(byModel) == 0 {
		return score
	}

	mentions, attempted := 0, 0
	var composites, rates []float64
	for _, ps := range byModel {
		composites = append(composites, ps.CompositeScore)
		rates = append(rates, ps.MentionRate)
		mentions += ps.MentionsCount
		attempted += ps.TotalQueries
	}
	if attempted > 0 {
		score.MentionRate = float64(mentions) / float64(attempted)
	}
	score.CategoryCoverage = overallCoverage(analyses)
	score.ModelConsistency = consistency(rates)

	base := mean(composites)
	score.FinalScore = round1(base * (consistencyFloor + (1-consistencyFloor)*score.ModelConsistency))
	return score
}

// ProviderScores aggregates analyses per provider.
func (e *Engine) ProviderScores(analyses []types.MentionAnalysis) map[string]types.ProviderScore {
	grouped := map[string][]types.MentionAnalysis{}
	for _, a := range analyses {
		grouped[a.Provider] = append(grouped[a.Provider], a)
	}

	out := make(map[string]types.ProviderScore, len(grouped))
	for provider, group := range grouped {
		out[provider] = e.providerScore(provider, group)
	}
	return out
}

func (e *Engine) providerScore(provider string, group []types.MentionAnalysis) types.ProviderScore {
	ps := types.ProviderScore{
		Provider:     provider,
		TotalQueries: len(group),
	}

	attempted := map[types.IntentCategory]bool{}
	covered := map[types.IntentCategory]bool{}
	var posSum, sentSum float64
	var exactSum, exactN float64

	for _, a := range group {
		attempted[a.Query.Intent] = true
		if !a.Mentioned {
			continue
		}
		ps.MentionsCount++
		covered[a.Query.Intent] = true
		posSum += positionValue(a)
		sentSum += sentimentValue(a.Sentiment)
		if a.ExactPosition != nil {
			exactSum += float64(*a.ExactPosition)
			exactN++
		}
	}

	// Denominator is what was attempted against this provider, not the
	// requested panel: a scan cancelled halfway scores over what it saw.
	ps.MentionRate = float64(ps.MentionsCount) / float64(len(group))
	if len(attempted) > 0 {
		ps.CategoryCoverage = float64(len(covered)) / float64(len(attempted))
	}

	posScore := 0.0
	sentScore := 0.0
	if ps.MentionsCount > 0 {
		posScore = posSum / float64(ps.MentionsCount)
		ps.SentimentAvg = sentSum / float64(ps.MentionsCount)
		// SentimentAvg is reported on [-1,1]; the composite term wants
		// [0,1] so negatives subtract instead of just zeroing out.
		sentScore = (ps.SentimentAvg + 1) / 2
	}
	if exactN > 0 {
		avg := exactSum / exactN
		ps.AvgPosition = &avg
	}

	ps.CompositeScore = round1(100 * (e.weights.MentionRate*ps.MentionRate +
		e.weights.CategoryCoverage*ps.CategoryCoverage +
		e.weights.Position*posScore +
		e.weights.Sentiment*sentScore))
	return ps
}

// positionValue maps a mention's placement onto [0,1]. Rank 1 in a top-3
// list is the best outcome an answer can give a brand.
func positionValue(a types.MentionAnalysis) float64 {
	switch a.Position {
	case types.PositionTop3:
		if a.ExactPosition != nil {
			switch *a.ExactPosition {
			case 1:
				return 1.0
			case 2:
				return 0.9
			case 3:
				return 0.8
			}
		}
		return 0.85
	case types.PositionMentioned:
		return 0.4
	}
	return 0
}

// sentimentValue maps sentiment onto the reported [-1,1] scale: an
// all-neutral provider averages 0, and negatives pull below it.
func sentimentValue(s types.Sentiment) float64 {
	switch s {
	case types.SentimentRecommended:
		return 1
	case types.SentimentNegative:
		return -1
	default:
		return 0
	}
}

// overallCoverage is distinct categories with a mention anywhere over
// distinct categories attempted anywhere.
func overallCoverage(analyses []types.MentionAnalysis) float64 {
	attempted := map[types.IntentCategory]bool{}
	covered := map[types.IntentCategory]bool{}
	for _, a := range analyses {
		attempted[a.Query.Intent] = true
		if a.Mentioned {
			covered[a.Query.Intent] = true
		}
	}
	if len(attempted) == 0 {
		return 0
	}
	return float64(len(covered)) / float64(len(attempted))
}

// consistency maps the spread of per-provider mention rates onto [0,1]:
// identical rates give 1, maximal disagreement gives 0.
func consistency(rates []float64) float64 {
	if len(rates) <= 1 {
		return 1
	}
	m := mean(rates)
	var variance float64
	for _, r := range rates {
		variance += (r - m) * (r - m)
	}
	variance /= float64(len(rates))
	// stddev of values in [0,1] maxes out at 0.5.
	c := 1 - math.Sqrt(variance)/0.5
	if c < 0 {
		return 0
	}
	return c
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// RankedProviders returns provider names ordered best-first, for reporting.
func RankedProviders(byModel map[string]types.ProviderScore) []string {
	names := make([]string, 0, len(byModel))
	for name := range byModel {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		si, sj := byModel[names[i]], byModel[names[j]]
		if si.CompositeScore != sj.CompositeScore {
			return si.CompositeScore > sj.CompositeScore
		}
		return names[i] < names[j]
	})
	return names
}
