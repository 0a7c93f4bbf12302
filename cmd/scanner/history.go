package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/visiblyai/scanner/internal/config"
	"github.com/visiblyai/scanner/internal/observability"
	"github.com/visiblyai/scanner/internal/profile"
)

var historyCommand = &cobra.Command{
	Use:   "history",
	Short: "Show recent scans for a brand",
	Long:  "Lists the most recent persisted scans for a brand domain, newest first, with their final scores.",
	RunE:  runHistoryCmd,
}

var (
	historyConfigPath string
	historyURL        string
	historyLimit      int
)

func init() {
	historyCommand.Flags().StringVar(&historyConfigPath, "config", "", "Path to config.json file")
	historyCommand.Flags().StringVarP(&historyURL, "url", "u", "", "Brand website URL (required)")
	historyCommand.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Maximum scans to list")
	_ = historyCommand.MarkFlagRequired("url")

	rootCmd.AddCommand(historyCommand)
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(historyConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("history requires a database; set DATABASE_URL or database_url in the config")
	}

	repo, closeRepo, err := buildRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	domain := profile.BrandDomain(historyURL)
	scans, err := repo.ListRecentScans(ctx, domain, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list scans: %w", err)
	}
	if len(scans) == 0 {
		fmt.Printf("No scans recorded for %s\n", domain)
		return nil
	}

	observability.NewPrinter(os.Stdout).PrintScanHistory(domain, scans)
	return nil
}
