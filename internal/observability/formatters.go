// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/visiblyai/scanner/internal/scoring"
	"github.com/visiblyai/scanner/internal/store"
	"github.com/visiblyai/scanner/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 64
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintScanResult outputs the final score summary for a completed scan.
func (p *Printer) PrintScanResult(result *types.ScanResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Brand:       %s\n", result.Profile.BrandName))
	sb.WriteString(fmt.Sprintf("Queries:     %d\n", result.QueryCount))
	sb.WriteString(fmt.Sprintf("Final score: %.1f / 100\n", result.Score.FinalScore))
	sb.WriteString(fmt.Sprintf("Mention rate: %.0f%%   Coverage: %.0f%%   Consistency: %.0f%%\n",
		result.Score.MentionRate*100, result.Score.CategoryCoverage*100, result.Score.ModelConsistency*100))
	if result.Partial {
		sb.WriteString("Partial result: not every provider call completed\n")
	}

	sb.WriteString("\nBy provider:\n")
	for _, name := range scoring.RankedProviders(result.Score.ByModel) {
		ps := result.Score.ByModel[name]
		sb.WriteString(fmt.Sprintf("  %-10s %5.1f  (%d/%d mentioned)\n",
			name, ps.CompositeScore, ps.MentionsCount, ps.TotalQueries))
	}

	title := fmt.Sprintf("Visibility Scan %s", result.ScanID)
	p.printBox(title, strings.TrimRight(sb.String(), "\n"))
}

// PrintAnalyses outputs a per-query breakdown for verbose mode.
func (p *Printer) PrintAnalyses(analyses []types.MentionAnalysis) {
	var sb strings.Builder
	for _, a := range analyses {
		marker := " "
		if a.Mentioned {
			marker = "*"
		}
		sb.WriteString(fmt.Sprintf("%s [%s] %s\n", marker, a.Provider, a.Query.Text))
		if a.Mentioned {
			sb.WriteString(fmt.Sprintf("    position=%s sentiment=%s confidence=%s\n",
				a.Position, a.Sentiment, a.Confidence))
		}
		if a.Quality.IssueType != types.IssueNone {
			sb.WriteString(fmt.Sprintf("    quality issue: %s (score %d)\n", a.Quality.IssueType, a.Quality.Score))
		}
		if len(a.Competitors) > 0 {
			names := make([]string, 0, len(a.Competitors))
			for i, c := range a.Competitors {
				if i >= maxItemsToShow {
					names = append(names, "...")
					break
				}
				names = append(names, c.Name)
			}
			sb.WriteString(fmt.Sprintf("    competitors: %s\n", strings.Join(names, ", ")))
		}
	}
	p.printBox("Query Breakdown", strings.TrimRight(sb.String(), "\n"))
}

// PrintScanHistory outputs recent scans for a brand domain, newest first.
func (p *Printer) PrintScanHistory(domain string, scans []store.ScanRecord) {
	var sb strings.Builder
	for _, rec := range scans {
		score := "  -"
		if rec.Score != nil {
			score = fmt.Sprintf("%5.1f", rec.Score.FinalScore)
		}
		flag := ""
		if rec.Partial {
			flag = " (partial)"
		}
		sb.WriteString(fmt.Sprintf("%s  %s  %s%s\n",
			rec.CreatedAt.Format("2006-01-02 15:04"), score, rec.Stage, flag))
	}
	p.printBox(fmt.Sprintf("Scan History: %s", domain), strings.TrimRight(sb.String(), "\n"))
}
