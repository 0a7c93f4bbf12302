package competitors

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visiblyai/scanner/internal/types"
)

type fakeStore struct {
	records map[string]types.CompetitorTrackingRecord
	getErr  error
	putErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]types.CompetitorTrackingRecord{}}
}

func (f *fakeStore) key(domain, name string) string { return domain + "|" + name }

func (f *fakeStore) GetCompetitorRecord(_ context.Context, domain, name string) (*types.CompetitorTrackingRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	rec, ok := f.records[f.key(domain, name)]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeStore) UpsertCompetitorRecord(_ context.Context, rec types.CompetitorTrackingRecord) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.records[f.key(rec.BrandDomain, rec.CompetitorName)] = rec
	return nil
}

func analysisWith(comps ...types.CompetitorMention) types.MentionAnalysis {
	return types.MentionAnalysis{Provider: "openai", Competitors: comps}
}

func mention(name string, pos int) types.CompetitorMention {
	return types.CompetitorMention{Name: name, Position: pos, Context: "listed"}
}

func TestUpdateNewCompetitors(t *testing.T) {
	store := newFakeStore()
	tr := NewTracker(store)

	got := tr.Update(context.Background(), "cal.com", []types.MentionAnalysis{
		analysisWith(mention("Calendly", 1), mention("SavvyCal", 3)),
		analysisWith(mention("Calendly", 2)),
	})

	require.Len(t, got, 2)
	assert.Equal(t, "Calendly", got[0].CompetitorName)
	assert.Equal(t, 2, got[0].LastMentionCount)
	assert.Equal(t, types.TrendNew, got[0].Trend)
	require.NotNil(t, got[0].Rank)
	assert.Equal(t, 1, *got[0].Rank)
	require.NotNil(t, got[0].LastAvgPosition)
	assert.InDelta(t, 1.5, *got[0].LastAvgPosition, 1e-9)

	assert.Equal(t, "SavvyCal", got[1].CompetitorName)
	assert.Equal(t, types.TrendNew, got[1].Trend)

	assert.Len(t, store.records, 2)
}

func TestUpdateTrendDirections(t *testing.T) {
	store := newFakeStore()
	store.records[store.key("cal.com", "Calendly")] = types.CompetitorTrackingRecord{
		BrandDomain: "cal.com", CompetitorName: "Calendly", LastMentionCount: 2,
	}
	store.records[store.key("cal.com", "Doodle")] = types.CompetitorTrackingRecord{
		BrandDomain: "cal.com", CompetitorName: "Doodle", LastMentionCount: 4,
	}
	store.records[store.key("cal.com", "SavvyCal")] = types.CompetitorTrackingRecord{
		BrandDomain: "cal.com", CompetitorName: "SavvyCal", LastMentionCount: 1,
	}
	tr := NewTracker(store)

	var analyses []types.MentionAnalysis
	for i := 0; i < 5; i++ {
		analyses = append(analyses, analysisWith(mention("Calendly", 0)))
	}
	analyses = append(analyses,
		analysisWith(mention("Doodle", 0)),
		analysisWith(mention("SavvyCal", 0)),
	)

	got := tr.Update(context.Background(), "cal.com", analyses)
	byName := map[string]types.CompetitorTrackingRecord{}
	for _, rec := range got {
		byName[rec.CompetitorName] = rec
	}

	assert.Equal(t, types.TrendUp, byName["Calendly"].Trend, "2 -> 5 mentions")
	assert.Equal(t, types.TrendDown, byName["Doodle"].Trend, "4 -> 1 mentions")
	assert.Equal(t, types.TrendStable, byName["SavvyCal"].Trend, "1 -> 1 mentions")
}

func TestUpdateTrendPositionTiebreak(t *testing.T) {
	prevAvg := func(v float64) *float64 { return &v }
	tests := []struct {
		name     string
		prior    types.CompetitorTrackingRecord
		position int
		want     types.Trend
	}{
		{
			name:     "same mentions, better position",
			prior:    types.CompetitorTrackingRecord{LastMentionCount: 1, LastAvgPosition: prevAvg(3)},
			position: 1,
			want:     types.TrendUp,
		},
		{
			name:     "same mentions, worse position",
			prior:    types.CompetitorTrackingRecord{LastMentionCount: 1, LastAvgPosition: prevAvg(1)},
			position: 3,
			want:     types.TrendDown,
		},
		{
			name:     "same mentions, same position",
			prior:    types.CompetitorTrackingRecord{LastMentionCount: 1, LastAvgPosition: prevAvg(2)},
			position: 2,
			want:     types.TrendStable,
		},
		{
			name:     "same mentions, no prior position",
			prior:    types.CompetitorTrackingRecord{LastMentionCount: 1},
			position: 1,
			want:     types.TrendStable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			tt.prior.BrandDomain = "cal.com"
			tt.prior.CompetitorName = "Calendly"
			store.records[store.key("cal.com", "Calendly")] = tt.prior
			tr := NewTracker(store)

			got := tr.Update(context.Background(), "cal.com", []types.MentionAnalysis{
				analysisWith(mention("Calendly", tt.position)),
			})
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Trend)
		})
	}
}

func TestUpdateRankOnlyTopThree(t *testing.T) {
	store := newFakeStore()
	tr := NewTracker(store)

	got := tr.Update(context.Background(), "cal.com", []types.MentionAnalysis{
		analysisWith(mention("A", 0), mention("B", 0), mention("C", 0), mention("D", 0)),
		analysisWith(mention("A", 0), mention("B", 0), mention("C", 0)),
		analysisWith(mention("A", 0), mention("B", 0)),
		analysisWith(mention("A", 0)),
	})

	require.Len(t, got, 4)
	for i := 0; i < 3; i++ {
		require.NotNil(t, got[i].Rank)
		assert.Equal(t, i+1, *got[i].Rank)
	}
	assert.Nil(t, got[3].Rank, "fourth competitor carries no rank")
}

func TestUpdateDeduplicatesNameForms(t *testing.T) {
	store := newFakeStore()
	tr := NewTracker(store)

	got := tr.Update(context.Background(), "cal.com", []types.MentionAnalysis{
		analysisWith(mention("Cal.com", 0)),
		analysisWith(mention("calcom", 0)),
	})

	require.Len(t, got, 1)
	assert.Equal(t, "Cal.com", got[0].CompetitorName)
	assert.Equal(t, 2, got[0].LastMentionCount)
}

func TestUpdatePersistFailureIsNonFatal(t *testing.T) {
	store := newFakeStore()
	store.putErr = errors.New("db down")
	tr := NewTracker(store)

	got := tr.Update(context.Background(), "cal.com", []types.MentionAnalysis{
		analysisWith(mention("Calendly", 0)),
	})
	require.Len(t, got, 1, "records are still returned when persistence fails")
}

func TestUpdateLookupFailureReadsAsNew(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("db down")
	tr := NewTracker(store)

	got := tr.Update(context.Background(), "cal.com", []types.MentionAnalysis{
		analysisWith(mention("Calendly", 0)),
	})
	require.Len(t, got, 1)
	assert.Equal(t, types.TrendNew, got[0].Trend)
}

func TestUpdateEmpty(t *testing.T) {
	tr := NewTracker(newFakeStore())
	assert.Nil(t, tr.Update(context.Background(), "cal.com", nil))
}

func TestUpdateSetsTimestamp(t *testing.T) {
	store := newFakeStore()
	tr := NewTracker(store)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return fixed }

	got := tr.Update(context.Background(), "cal.com", []types.MentionAnalysis{
		analysisWith(mention("Calendly", 0)),
	})
	require.Len(t, got, 1)
	assert.Equal(t, fixed, got[0].UpdatedAt)
}
