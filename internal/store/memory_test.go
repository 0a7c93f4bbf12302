package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visiblyai/scanner/internal/types"
)

func newRecord(domain string) *ScanRecord {
	return &ScanRecord{
		ID:          uuid.New(),
		UserID:      "user-1",
		BrandDomain: domain,
		Input:       types.ScanInput{WebsiteURL: "https://" + domain, PlanTier: types.TierFree},
		Stage:       types.StagePending,
	}
}

func TestMemoryScanLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	rec := newRecord("cal.com")

	require.NoError(t, m.CreateScan(ctx, rec))
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := m.GetScan(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, types.StagePending, got.Stage)

	require.NoError(t, m.SaveStage(ctx, rec.ID, types.StageQuerying))
	got, err = m.GetScan(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StageQuerying, got.Stage)

	rec.Stage = types.StageComplete
	rec.Score = &types.ScanScore{FinalScore: 61.5}
	require.NoError(t, m.UpdateScan(ctx, rec))
	got, err = m.GetScan(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StageComplete, got.Stage)
	require.NotNil(t, got.Score)
	assert.Equal(t, 61.5, got.Score.FinalScore)
}

func TestMemoryGetScanMissing(t *testing.T) {
	got, err := NewMemory().GetScan(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryListRecentScans(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for i := 0; i < 3; i++ {
		rec := newRecord("cal.com")
		require.NoError(t, m.CreateScan(ctx, rec))
		// CreatedAt is the sort key; keep insertions distinguishable.
		rec.CreatedAt = rec.CreatedAt.Add(time.Duration(i) * time.Second)
		m.scans[rec.ID] = *rec
	}
	require.NoError(t, m.CreateScan(ctx, newRecord("other.com")))

	got, err := m.ListRecentScans(ctx, "cal.com", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].CreatedAt.After(got[1].CreatedAt))
	for _, rec := range got {
		assert.Equal(t, "cal.com", rec.BrandDomain)
	}
}

func TestMemoryCompetitorRecords(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	got, err := m.GetCompetitorRecord(ctx, "cal.com", "Calendly")
	require.NoError(t, err)
	assert.Nil(t, got, "missing record reads as nil, nil")

	rank := 1
	rec := types.CompetitorTrackingRecord{
		BrandDomain: "cal.com", CompetitorName: "Calendly",
		Rank: &rank, LastMentionCount: 4, Trend: types.TrendNew,
	}
	require.NoError(t, m.UpsertCompetitorRecord(ctx, rec))

	got, err = m.GetCompetitorRecord(ctx, "cal.com", "Calendly")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 4, got.LastMentionCount)

	rec.LastMentionCount = 6
	rec.Trend = types.TrendUp
	require.NoError(t, m.UpsertCompetitorRecord(ctx, rec))
	got, err = m.GetCompetitorRecord(ctx, "cal.com", "Calendly")
	require.NoError(t, err)
	assert.Equal(t, 6, got.LastMentionCount)
	assert.Equal(t, types.TrendUp, got.Trend)
}
