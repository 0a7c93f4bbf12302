package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/visiblyai/scanner/internal/config"
	"github.com/visiblyai/scanner/internal/llm"
	"github.com/visiblyai/scanner/internal/observability"
	"github.com/visiblyai/scanner/internal/plans"
	"github.com/visiblyai/scanner/internal/progress"
	"github.com/visiblyai/scanner/internal/scan"
	"github.com/visiblyai/scanner/internal/scrape"
	"github.com/visiblyai/scanner/internal/store"
	"github.com/visiblyai/scanner/internal/types"
)

var scanCommand = &cobra.Command{
	Use:   "scan",
	Short: "Run a full visibility scan for a brand",
	Long: `Profiles the brand from its homepage, builds a buyer-query panel, asks every
configured AI provider, and scores how visible the brand is in the answers.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runScanCmd,
}

var (
	scanConfigPath      string
	scanBrand           string
	scanURL             string
	scanCoreProblem     string
	scanTargetBuyer     string
	scanDifferentiators string
	scanCompetitors     []string
	scanQuestions       []string
	scanTier            string
	scanUseBrowser      bool
	scanVerbose         bool
	scanDatabaseURL     string
)

func init() {
	scanCommand.Flags().StringVar(&scanConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	scanCommand.Flags().StringVarP(&scanBrand, "brand", "b", "", "Brand name (required)")
	scanCommand.Flags().StringVarP(&scanURL, "url", "u", "", "Brand website URL (required)")
	scanCommand.Flags().StringVar(&scanCoreProblem, "problem", "", "Core problem the product solves (required)")
	scanCommand.Flags().StringVar(&scanTargetBuyer, "buyer", "", "Target buyer description (required)")
	scanCommand.Flags().StringVar(&scanDifferentiators, "differentiators", "", "What sets the product apart")
	scanCommand.Flags().StringSliceVar(&scanCompetitors, "competitor", nil, "Known competitor (repeatable, max 5)")
	scanCommand.Flags().StringSliceVar(&scanQuestions, "question", nil, "Buyer question to include in the panel (repeatable, max 10)")
	scanCommand.Flags().StringVar(&scanTier, "tier", "", "Plan tier: free, starter, or pro")
	scanCommand.Flags().BoolVar(&scanUseBrowser, "use-browser", false, "Use headless browser for JS-rendered sites (requires Chrome)")
	scanCommand.Flags().BoolVarP(&scanVerbose, "verbose", "v", false, "Print detailed progress and results")
	scanCommand.Flags().StringVar(&scanDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(scanCommand)
}

func runScanCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(scanConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = scanUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = scanVerbose
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = scanDatabaseURL
	}
	if cfg.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	input := types.ScanInput{
		BrandName:       scanBrand,
		WebsiteURL:      scanURL,
		CoreProblem:     scanCoreProblem,
		TargetBuyer:     scanTargetBuyer,
		Differentiators: scanDifferentiators,
		Competitors:     scanCompetitors,
		BuyerQuestions:  scanQuestions,
		PlanTier:        types.ParsePlanTier(firstNonEmpty(scanTier, cfg.DefaultTier)),
	}

	providers, judge, cleanup, err := buildProviders(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	if len(providers) == 0 {
		return fmt.Errorf("no provider API keys configured; set at least OPENAI_API_KEY or ANTHROPIC_API_KEY")
	}

	repo, closeRepo, err := buildRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	var scraperOpts []scrape.Option
	if cfg.UseBrowser {
		scraperOpts = append(scraperOpts, scrape.WithBrowserFallback())
	}

	runner := scan.NewRunner(scan.Options{
		Providers: providers,
		Judge:     judge,
		Scraper:   scrape.NewHTTPScraper(scraperOpts...),
		Repo:      repo,
		Progress:  progress.Multi{progress.Log{}, progress.NewStore(repo)},
	})

	result, err := runner.Run(ctx, os.Getenv("SCANNER_USER_ID"), input)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintScanResult(result)
	if cfg.Verbose {
		printer.PrintAnalyses(result.Analyses)
	}
	return nil
}

// buildProviders constructs one adapter per configured credential. The
// judge (structured calls) prefers OpenAI, then Anthropic, then Gemini.
func buildProviders(ctx context.Context, cfg *config.Config) ([]llm.Provider, llm.Provider, func(), error) {
	var providers []llm.Provider
	byName := map[string]llm.Provider{}
	cleanup := func() {}

	if cfg.OpenAIAPIKey != "" {
		p, err := llm.NewOpenAIProvider(cfg.OpenAIAPIKey)
		if err != nil {
			return nil, nil, cleanup, fmt.Errorf("openai init failed: %w", err)
		}
		providers = append(providers, p)
		byName[p.Name()] = p
	}
	if cfg.AnthropicAPIKey != "" {
		p, err := llm.NewAnthropicProvider(cfg.AnthropicAPIKey)
		if err != nil {
			return nil, nil, cleanup, fmt.Errorf("anthropic init failed: %w", err)
		}
		providers = append(providers, p)
		byName[p.Name()] = p
	}
	if cfg.GeminiAPIKey != "" {
		p, err := llm.NewGeminiProvider(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, nil, cleanup, fmt.Errorf("gemini init failed: %w", err)
		}
		providers = append(providers, p)
		byName[p.Name()] = p
		cleanup = func() { _ = p.Close() }
	}

	var judge llm.Provider
	for _, name := range []string{plans.ProviderOpenAI, plans.ProviderAnthropic, plans.ProviderGemini} {
		if p, ok := byName[name]; ok {
			judge = p
			break
		}
	}
	return providers, judge, cleanup, nil
}

// buildRepository connects to Postgres when configured, otherwise falls
// back to in-memory persistence so a scan still runs locally.
func buildRepository(ctx context.Context, cfg *config.Config) (store.Repository, func(), error) {
	if cfg.DatabaseURL == "" {
		logrus.Debug("no database configured, results are not persisted")
		return store.NewMemory(), func() {}, nil
	}
	pg, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := pg.Migrate(ctx); err != nil {
		pg.Close()
		return nil, nil, err
	}
	return pg, pg.Close, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
