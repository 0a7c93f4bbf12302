package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/visiblyai/scanner/internal/types"
)

// Memory is an in-process Repository for tests and local runs. Safe for
// concurrent use.
type Memory struct {
	mu          sync.RWMutex
	scans       map[uuid.UUID]ScanRecord
	competitors map[string]types.CompetitorTrackingRecord
}

func NewMemory() *Memory {
	return &Memory{
		scans:       map[uuid.UUID]ScanRecord{},
		competitors: map[string]types.CompetitorTrackingRecord{},
	}
}

func (m *Memory) CreateScan(_ context.Context, rec *ScanRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	m.scans[rec.ID] = *rec
	return nil
}

func (m *Memory) UpdateScan(_ context.Context, rec *ScanRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.scans[rec.ID]
	if ok {
		rec.CreatedAt = stored.CreatedAt
	}
	rec.UpdatedAt = time.Now()
	m.scans[rec.ID] = *rec
	return nil
}

func (m *Memory) GetScan(_ context.Context, id uuid.UUID) (*ScanRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.scans[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *Memory) SaveStage(_ context.Context, id uuid.UUID, stage types.ScanStage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.scans[id]
	if !ok {
		return nil
	}
	rec.Stage = stage
	rec.UpdatedAt = time.Now()
	m.scans[id] = rec
	return nil
}

func (m *Memory) ListRecentScans(_ context.Context, brandDomain string, limit int) ([]ScanRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ScanRecord
	for _, rec := range m.scans {
		if rec.BrandDomain == brandDomain {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) GetCompetitorRecord(_ context.Context, brandDomain, competitorName string) (*types.CompetitorTrackingRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.competitors[brandDomain+"|"+competitorName]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *Memory) UpsertCompetitorRecord(_ context.Context, rec types.CompetitorTrackingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.competitors[rec.BrandDomain+"|"+rec.CompetitorName] = rec
	return nil
}
