// Package scan orchestrates the full visibility pipeline: profile the
// brand, build the query panel, fan the panel out across providers,
// analyze every response, and score the result.
package scan

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/visiblyai/scanner/internal/competitors"
	"github.com/visiblyai/scanner/internal/detect"
	"github.com/visiblyai/scanner/internal/llm"
	"github.com/visiblyai/scanner/internal/plans"
	"github.com/visiblyai/scanner/internal/profile"
	"github.com/visiblyai/scanner/internal/progress"
	"github.com/visiblyai/scanner/internal/queries"
	"github.com/visiblyai/scanner/internal/scoring"
	"github.com/visiblyai/scanner/internal/scrape"
	"github.com/visiblyai/scanner/internal/store"
	"github.com/visiblyai/scanner/internal/types"
)

// Options wires a Runner. Providers is the pool of configured adapters;
// the plan's allowlist decides which of them a given scan uses. Judge is
// the provider used for structured calls (profiling, query synthesis,
// mention judging) and may be one of Providers.
type Options struct {
	Providers []llm.Provider
	Judge     llm.Provider
	Scraper   scrape.Scraper
	Repo      store.Repository
	Resolver  plans.Resolver
	Progress  progress.Reporter
	Weights   scoring.Weights
}

// analyzeConcurrency caps the analysis fan-out. The plan's querying bound
// applies here too; this only keeps high tiers from stampeding the judge.
const analyzeConcurrency = 4

// Runner executes scans. Safe for concurrent use; each Run is independent.
type Runner struct {
	providers map[string]llm.Provider
	judge     llm.Provider
	scraper   scrape.Scraper
	repo      store.Repository
	resolver  plans.Resolver
	progress  progress.Reporter
	extractor *profile.Extractor
	generator *queries.Generator
	detector  *detect.Detector
	engine    *scoring.Engine
	tracker   *competitors.Tracker
	log       *logrus.Entry
}

func NewRunner(opts Options) *Runner {
	providers := make(map[string]llm.Provider, len(opts.Providers))
	for _, p := range opts.Providers {
		providers[p.Name()] = p
	}
	if opts.Progress == nil {
		opts.Progress = progress.Nop{}
	}
	if opts.Resolver == nil {
		opts.Resolver = plans.StaticResolver{}
	}
	if (opts.Weights == scoring.Weights{}) {
		opts.Weights = scoring.DefaultWeights()
	}
	return &Runner{
		providers: providers,
		judge:     opts.Judge,
		scraper:   opts.Scraper,
		repo:      opts.Repo,
		resolver:  opts.Resolver,
		progress:  opts.Progress,
		extractor: profile.NewExtractor(opts.Judge),
		generator: queries.NewGenerator(opts.Judge),
		detector:  detect.NewDetector(opts.Judge),
		engine:    scoring.NewEngine(opts.Weights),
		tracker:   competitors.NewTracker(opts.Repo),
		log:       logrus.WithField("component", "scan"),
	}
}

// Run executes one scan end to end. Cancellation mid-flight is not a total
// loss: everything collected so far is analyzed, scored, persisted, and
// returned as a partial result. Only a scan with zero collected responses
// fails.
func (r *Runner) Run(ctx context.Context, userID string, input types.ScanInput) (*types.ScanResult, error) {
	if input.PlanTier == "" {
		input.PlanTier = plans.ResolveTier(ctx, r.resolver, userID)
	}
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	limits := plans.ForTier(input.PlanTier)
	scanProviders := r.selectProviders(limits)
	if len(scanProviders) == 0 {
		return nil, fmt.Errorf("%w: no providers configured for tier %s", ErrConfig, input.PlanTier)
	}

	rec := &store.ScanRecord{
		ID:          uuid.New(),
		UserID:      userID,
		BrandDomain: profile.BrandDomain(input.WebsiteURL),
		Input:       input,
		Stage:       types.StagePending,
	}
	// Persistence is best effort throughout: a broken store degrades the
	// dashboard, not the scan.
	if err := r.repo.CreateScan(ctx, rec); err != nil {
		r.log.WithError(err).Warn("scan record create failed")
	}
	log := r.log.WithFields(logrus.Fields{"scan_id": rec.ID, "brand": input.BrandName, "tier": input.PlanTier})

	r.setStage(ctx, rec, types.StageProfiling)
	scraped := r.scraper.Fetch(ctx, input.WebsiteURL)
	prof := r.extractor.Extract(ctx, scraped, input)
	rec.Profile = &prof

	r.setStage(ctx, rec, types.StageGeneratingQueries)
	panel := r.generator.Generate(ctx, prof, input, limits.QueryBudget)
	rec.QueryCount = len(panel)
	r.saveRecord(ctx, rec)

	r.setStage(ctx, rec, types.StageQuerying)
	responses := r.fanOut(ctx, panel, scanProviders, limits.Concurrency)

	successes := 0
	for _, resp := range responses {
		if resp.OK() {
			successes++
		}
	}
	log.WithFields(logrus.Fields{
		"queries":   len(panel),
		"providers": len(scanProviders),
		"attempted": len(responses),
		"collected": successes,
	}).Info("query fan-out finished")

	if successes == 0 {
		err := ErrNoResults
		if len(responses) > 0 && ctx.Err() == nil {
			err = ErrAllProvidersFailed
		}
		rec.Stage = types.StageFailed
		rec.Error = err.Error()
		r.saveRecord(context.WithoutCancel(ctx), rec)
		r.progress.Report(context.WithoutCancel(ctx), rec.ID, types.StageFailed)
		return nil, err
	}

	r.setStage(ctx, rec, types.StageAnalyzing)
	analyses := r.analyze(ctx, responses, prof, limits.Concurrency)

	r.setStage(ctx, rec, types.StageScoring)
	score := r.engine.Score(analyses)
	r.tracker.Update(context.WithoutCancel(ctx), rec.BrandDomain, analyses)

	partial := ctx.Err() != nil || successes < len(panel)*len(scanProviders)

	rec.Stage = types.StageComplete
	rec.Score = &score
	rec.Analyses = analyses
	rec.Partial = partial
	flush := context.WithoutCancel(ctx)
	r.saveRecord(flush, rec)
	r.progress.Report(flush, rec.ID, types.StageComplete)

	log.WithFields(logrus.Fields{"final_score": score.FinalScore, "partial": partial}).Info("scan complete")

	return &types.ScanResult{
		ScanID:     rec.ID.String(),
		Input:      input,
		Profile:    prof,
		Score:      score,
		QueryCount: len(panel),
		Analyses:   analyses,
		Partial:    partial,
	}, nil
}

// selectProviders applies the plan allowlist to the configured adapters.
func (r *Runner) selectProviders(limits plans.Limits) []llm.Provider {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	allowed := limits.FilterProviders(names)

	out := make([]llm.Provider, 0, len(allowed))
	for _, name := range allowed {
		if p, ok := r.providers[name]; ok {
			out = append(out, p)
		}
	}
	return out
}

// fanOut sends every query to every selected provider under the plan's
// concurrency cap. Call failures become responses with Error set; a
// cancelled context stops scheduling but keeps what already came back.
func (r *Runner) fanOut(ctx context.Context, panel []types.Query, scanProviders []llm.Provider, concurrency int) []types.ProviderResponse {
	if concurrency < 1 {
		concurrency = 1
	}

	var mu sync.Mutex
	var responses []types.ProviderResponse

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, provider := range scanProviders {
		if gctx.Err() != nil {
			break
		}
		for _, query := range panel {
			if gctx.Err() != nil {
				break
			}
			provider, query := provider, query
			g.Go(func() error {
				resp := askProvider(gctx, provider, query)
				mu.Lock()
				responses = append(responses, resp)
				mu.Unlock()
				return nil
			})
		}
	}
	_ = g.Wait()
	return responses
}

// analyze runs the detector over every successful response. Failed calls
// are excluded entirely; they are not evidence of invisibility. The judge
// fan-out never exceeds the plan's querying bound: the analysis stage
// spends provider calls too, and the same rate limits apply.
func (r *Runner) analyze(ctx context.Context, responses []types.ProviderResponse, prof types.BrandProfile, concurrency int) []types.MentionAnalysis {
	var mu sync.Mutex
	var analyses []types.MentionAnalysis

	limit := concurrency
	if limit > analyzeConcurrency {
		limit = analyzeConcurrency
	}
	if limit < 1 {
		limit = 1
	}

	g := new(errgroup.Group)
	g.SetLimit(limit)

	for _, resp := range responses {
		if !resp.OK() {
			continue
		}
		resp := resp
		g.Go(func() error {
			// A cancelled ctx fails the judge call fast and the
			// detector falls back to its deterministic pass, so a
			// cancelled scan still gets analyzed without extra
			// token spend.
			a := r.detector.Analyze(ctx, resp, prof)
			mu.Lock()
			analyses = append(analyses, a)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return analyses
}

func (r *Runner) setStage(ctx context.Context, rec *store.ScanRecord, stage types.ScanStage) {
	rec.Stage = stage
	if err := r.repo.SaveStage(ctx, rec.ID, stage); err != nil {
		r.log.WithError(err).WithField("scan_id", rec.ID).Warn("stage write failed")
	}
	r.progress.Report(ctx, rec.ID, stage)
}

func (r *Runner) saveRecord(ctx context.Context, rec *store.ScanRecord) {
	if err := r.repo.UpdateScan(ctx, rec); err != nil {
		r.log.WithError(err).WithField("scan_id", rec.ID).Warn("scan record update failed")
	}
}

// Get returns a persisted scan by ID.
func (r *Runner) Get(ctx context.Context, id uuid.UUID) (*store.ScanRecord, error) {
	return r.repo.GetScan(ctx, id)
}

// History returns the most recent scans for a brand domain, newest first.
func (r *Runner) History(ctx context.Context, brandDomain string, limit int) ([]store.ScanRecord, error) {
	return r.repo.ListRecentScans(ctx, brandDomain, limit)
}

func askProvider(ctx context.Context, provider llm.Provider, query types.Query) types.ProviderResponse {
	resp := types.ProviderResponse{
		Provider: provider.Name(),
		Query:    query,
	}
	start := time.Now()
	text, err := provider.Generate(ctx, query.Text, llm.RoleAnswer)
	resp.Latency = time.Since(start)
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	resp.Text = text
	return resp
}
