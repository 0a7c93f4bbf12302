// Package competitors maintains the per-brand competitor tracking records,
// the one piece of scan output that evolves across scans instead of being
// recomputed from scratch.
package competitors

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/visiblyai/scanner/internal/types"
)

// Store is the slice of persistence the tracker needs. GetRecord returns
// (nil, nil) when no record exists for the key.
type Store interface {
	GetCompetitorRecord(ctx context.Context, brandDomain, competitorName string) (*types.CompetitorTrackingRecord, error)
	UpsertCompetitorRecord(ctx context.Context, rec types.CompetitorTrackingRecord) error
}

// topRankCount is how many competitors per scan get a rank; everyone else
// carries a nil rank.
const topRankCount = 3

var trackerNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Tracker aggregates competitor mentions from a scan's analyses and folds
// them into the persistent records.
type Tracker struct {
	store Store
	log   *logrus.Entry
	now   func() time.Time
}

func NewTracker(store Store) *Tracker {
	return &Tracker{
		store: store,
		log:   logrus.WithField("component", "competitors"),
		now:   time.Now,
	}
}

// aggregate is one competitor's totals within a single scan.
type aggregate struct {
	name     string
	mentions int
	posSum   float64
	posCount int
}

// Update recomputes this scan's competitor standings and upserts one record
// per competitor. Persistence failures are logged and skipped; tracking is
// advisory and must never fail a scan. The returned slice is rank order
// first, then mention count.
func (t *Tracker) Update(ctx context.Context, brandDomain string, analyses []types.MentionAnalysis) []types.CompetitorTrackingRecord {
	aggs := aggregateMentions(analyses)
	if len(aggs) == 0 {
		return nil
	}

	sort.SliceStable(aggs, func(i, j int) bool {
		if aggs[i].mentions != aggs[j].mentions {
			return aggs[i].mentions > aggs[j].mentions
		}
		return aggs[i].name < aggs[j].name
	})

	records := make([]types.CompetitorTrackingRecord, 0, len(aggs))
	for i, agg := range aggs {
		rec := types.CompetitorTrackingRecord{
			BrandDomain:      brandDomain,
			CompetitorName:   agg.name,
			LastMentionCount: agg.mentions,
			UpdatedAt:        t.now(),
		}
		if i < topRankCount {
			rank := i + 1
			rec.Rank = &rank
		}
		if agg.posCount > 0 {
			avg := agg.posSum / float64(agg.posCount)
			rec.LastAvgPosition = &avg
		}

		rec.Trend = t.trendFor(ctx, brandDomain, agg)

		if err := t.store.UpsertCompetitorRecord(ctx, rec); err != nil {
			t.log.WithError(err).WithFields(logrus.Fields{
				"brand_domain": brandDomain,
				"competitor":   agg.name,
			}).Warn("competitor record upsert failed")
		}
		records = append(records, rec)
	}
	return records
}

// trendFor compares this scan's standing with the stored record: more
// mentions is up, fewer is down, and on equal mentions a better (lower)
// average position breaks the tie. A lookup error is treated as no prior:
// "new" is the safe answer when history is unreadable.
func (t *Tracker) trendFor(ctx context.Context, brandDomain string, agg aggregate) types.Trend {
	prior, err := t.store.GetCompetitorRecord(ctx, brandDomain, agg.name)
	if err != nil {
		t.log.WithError(err).WithField("competitor", agg.name).Warn("competitor record lookup failed")
		return types.TrendNew
	}
	if prior == nil {
		return types.TrendNew
	}
	switch {
	case agg.mentions > prior.LastMentionCount:
		return types.TrendUp
	case agg.mentions < prior.LastMentionCount:
		return types.TrendDown
	}
	if agg.posCount > 0 && prior.LastAvgPosition != nil {
		avg := agg.posSum / float64(agg.posCount)
		switch {
		case avg < *prior.LastAvgPosition:
			return types.TrendUp
		case avg > *prior.LastAvgPosition:
			return types.TrendDown
		}
	}
	return types.TrendStable
}

// aggregateMentions collapses every CompetitorMention across the scan's
// analyses into per-competitor totals, deduplicating on normalized name but
// keeping the first-seen display form.
func aggregateMentions(analyses []types.MentionAnalysis) []aggregate {
	byKey := map[string]*aggregate{}
	var order []string

	for _, a := range analyses {
		for _, m := range a.Competitors {
			key := trackerNonAlnum.ReplaceAllString(strings.ToLower(m.Name), "")
			if key == "" {
				continue
			}
			agg, ok := byKey[key]
			if !ok {
				agg = &aggregate{name: m.Name}
				byKey[key] = agg
				order = append(order, key)
			}
			agg.mentions++
			if m.Position > 0 {
				agg.posSum += float64(m.Position)
				agg.posCount++
			}
		}
	}

	out := make([]aggregate, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	return out
}
