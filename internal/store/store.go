// Package store persists scans and competitor tracking records.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/visiblyai/scanner/internal/types"
)

// ScanRecord is a scan as persisted: the immutable input plus everything
// the pipeline has produced so far. Pointer fields are nil until the stage
// that produces them completes.
type ScanRecord struct {
	ID          uuid.UUID               `json:"id"`
	UserID      string                  `json:"user_id"`
	BrandDomain string                  `json:"brand_domain"`
	Input       types.ScanInput         `json:"input"`
	Stage       types.ScanStage         `json:"stage"`
	Profile     *types.BrandProfile     `json:"profile,omitempty"`
	Score       *types.ScanScore        `json:"score,omitempty"`
	Analyses    []types.MentionAnalysis `json:"analyses,omitempty"`
	QueryCount  int                     `json:"query_count"`
	Partial     bool                    `json:"partial"`
	Error       string                  `json:"error,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// Repository is the persistence contract the pipeline runs against.
// Lookups return (nil, nil) for a missing row.
type Repository interface {
	CreateScan(ctx context.Context, rec *ScanRecord) error
	UpdateScan(ctx context.Context, rec *ScanRecord) error
	GetScan(ctx context.Context, id uuid.UUID) (*ScanRecord, error)
	// SaveStage writes only the stage column; the pipeline calls it on
	// every transition, so it must stay cheap.
	SaveStage(ctx context.Context, id uuid.UUID, stage types.ScanStage) error
	ListRecentScans(ctx context.Context, brandDomain string, limit int) ([]ScanRecord, error)

	GetCompetitorRecord(ctx context.Context, brandDomain, competitorName string) (*types.CompetitorTrackingRecord, error)
	UpsertCompetitorRecord(ctx context.Context, rec types.CompetitorTrackingRecord) error
}
