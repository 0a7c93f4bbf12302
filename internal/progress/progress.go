// Package progress publishes scan stage transitions. Reporting is
// fire-and-forget: a sink that fails must never slow down or fail a scan.
package progress

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/visiblyai/scanner/internal/types"
)

// Reporter receives stage transitions.
type Reporter interface {
	Report(ctx context.Context, scanID uuid.UUID, stage types.ScanStage)
}

// Nop discards all reports.
type Nop struct{}

func (Nop) Report(context.Context, uuid.UUID, types.ScanStage) {}

// Log writes transitions to the structured log.
type Log struct{}

func (Log) Report(_ context.Context, scanID uuid.UUID, stage types.ScanStage) {
	logrus.WithFields(logrus.Fields{
		"scan_id": scanID,
		"stage":   stage,
		"percent": stage.Percent(),
	}).Info("scan progress")
}

// stageStore is the slice of persistence progress needs.
type stageStore interface {
	SaveStage(ctx context.Context, id uuid.UUID, stage types.ScanStage) error
}

// Store persists transitions so a dashboard can poll them.
type Store struct {
	repo stageStore
}

func NewStore(repo stageStore) *Store {
	return &Store{repo: repo}
}

func (s *Store) Report(ctx context.Context, scanID uuid.UUID, stage types.ScanStage) {
	if err := s.repo.SaveStage(ctx, scanID, stage); err != nil {
		logrus.WithError(err).WithField("scan_id", scanID).Warn("progress write failed")
	}
}

// Multi fans a report out to several sinks.
type Multi []Reporter

func (m Multi) Report(ctx context.Context, scanID uuid.UUID, stage types.ScanStage) {
	for _, r := range m {
		r.Report(ctx, scanID, stage)
	}
}
