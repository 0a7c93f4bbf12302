package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/visiblyai/scanner/internal/types"
)

//go:embed schema.sql
var schemaSQL string

// Postgres implements Repository on a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool and verifies it.
func Connect(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// Migrate applies the schema. Statements are idempotent.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (p *Postgres) CreateScan(ctx context.Context, rec *ScanRecord) error {
	input, profile, score, analyses, err := marshalScanJSON(rec)
	if err != nil {
		return err
	}
	err = p.pool.QueryRow(ctx,
		`INSERT INTO scans (id, user_id, brand_domain, input, stage, profile, score, analyses, query_count, partial, error)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING created_at, updated_at`,
		rec.ID, rec.UserID, rec.BrandDomain, input, rec.Stage, profile, score, analyses,
		rec.QueryCount, rec.Partial, rec.Error,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create scan: %w", err)
	}
	return nil
}

func (p *Postgres) UpdateScan(ctx context.Context, rec *ScanRecord) error {
	input, profile, score, analyses, err := marshalScanJSON(rec)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx,
		`UPDATE scans
		 SET input = $2, stage = $3, profile = $4, score = $5, analyses = $6,
		     query_count = $7, partial = $8, error = $9, updated_at = NOW()
		 WHERE id = $1`,
		rec.ID, input, rec.Stage, profile, score, analyses,
		rec.QueryCount, rec.Partial, rec.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to update scan %s: %w", rec.ID, err)
	}
	return nil
}

func (p *Postgres) GetScan(ctx context.Context, id uuid.UUID) (*ScanRecord, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT id, user_id, brand_domain, input, stage, profile, score, analyses,
		        query_count, partial, error, created_at, updated_at
		 FROM scans WHERE id = $1`,
		id,
	)
	rec, err := scanRow(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get scan: %w", err)
	}
	return rec, nil
}

func (p *Postgres) SaveStage(ctx context.Context, id uuid.UUID, stage types.ScanStage) error {
	_, err := p.pool.Exec(ctx,
		`UPDATE scans SET stage = $1, updated_at = NOW() WHERE id = $2`,
		stage, id,
	)
	if err != nil {
		return fmt.Errorf("failed to save stage: %w", err)
	}
	return nil
}

func (p *Postgres) ListRecentScans(ctx context.Context, brandDomain string, limit int) ([]ScanRecord, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, user_id, brand_domain, input, stage, profile, score, analyses,
		        query_count, partial, error, created_at, updated_at
		 FROM scans WHERE brand_domain = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		brandDomain, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	var out []ScanRecord
	for rows.Next() {
		rec, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read scan row: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (p *Postgres) GetCompetitorRecord(ctx context.Context, brandDomain, competitorName string) (*types.CompetitorTrackingRecord, error) {
	var rec types.CompetitorTrackingRecord
	err := p.pool.QueryRow(ctx,
		`SELECT brand_domain, competitor_name, rank, last_mention_count, last_avg_position, trend, updated_at
		 FROM competitor_tracking
		 WHERE brand_domain = $1 AND competitor_name = $2`,
		brandDomain, competitorName,
	).Scan(&rec.BrandDomain, &rec.CompetitorName, &rec.Rank, &rec.LastMentionCount,
		&rec.LastAvgPosition, &rec.Trend, &rec.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get competitor record: %w", err)
	}
	return &rec, nil
}

func (p *Postgres) UpsertCompetitorRecord(ctx context.Context, rec types.CompetitorTrackingRecord) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO competitor_tracking (brand_domain, competitor_name, rank, last_mention_count, last_avg_position, trend, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (brand_domain, competitor_name)
		 DO UPDATE SET rank = $3, last_mention_count = $4, last_avg_position = $5, trend = $6, updated_at = $7`,
		rec.BrandDomain, rec.CompetitorName, rec.Rank, rec.LastMentionCount,
		rec.LastAvgPosition, rec.Trend, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert competitor record: %w", err)
	}
	return nil
}

// marshalScanJSON serializes the JSONB columns.
func marshalScanJSON(rec *ScanRecord) (input, profile, score, analyses []byte, err error) {
	if input, err = json.Marshal(rec.Input); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to marshal scan input: %w", err)
	}
	if rec.Profile != nil {
		if profile, err = json.Marshal(rec.Profile); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("failed to marshal profile: %w", err)
		}
	}
	if rec.Score != nil {
		if score, err = json.Marshal(rec.Score); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("failed to marshal score: %w", err)
		}
	}
	if rec.Analyses != nil {
		if analyses, err = json.Marshal(rec.Analyses); err != nil {
			return nil, nil, nil, nil, fmt.Errorf("failed to marshal analyses: %w", err)
		}
	}
	return input, profile, score, analyses, nil
}

func scanRow(row pgx.Row) (*ScanRecord, error) {
	var rec ScanRecord
	var input, profile, score, analyses []byte
	err := row.Scan(&rec.ID, &rec.UserID, &rec.BrandDomain, &input, &rec.Stage,
		&profile, &score, &analyses, &rec.QueryCount, &rec.Partial, &rec.Error,
		&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(input, &rec.Input); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scan input: %w", err)
	}
	if len(profile) > 0 {
		rec.Profile = &types.BrandProfile{}
		if err := json.Unmarshal(profile, rec.Profile); err != nil {
			return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
		}
	}
	if len(score) > 0 {
		rec.Score = &types.ScanScore{}
		if err := json.Unmarshal(score, rec.Score); err != nil {
			return nil, fmt.Errorf("failed to unmarshal score: %w", err)
		}
	}
	if len(analyses) > 0 {
		if err := json.Unmarshal(analyses, &rec.Analyses); err != nil {
			return nil, fmt.Errorf("failed to unmarshal analyses: %w", err)
		}
	}
	return &rec, nil
}
