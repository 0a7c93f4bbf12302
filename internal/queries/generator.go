package queries

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/visiblyai/scanner/internal/llm"
	"github.com/visiblyai/scanner/internal/prompts"
	intschemas "github.com/visiblyai/scanner/internal/schemas"
	"github.com/visiblyai/scanner/internal/types"
	"github.com/visiblyai/scanner/schemas"
)

// minUserQuestionLength filters out junk user questions.
const minUserQuestionLength = 10

// maxUserQuestions caps how many user-provided questions enter the panel.
const maxUserQuestions = 10

// Generator assembles the query panel: user questions first, then template
// expansion per intent category, then LLM-authored fill up to the budget.
// Query generation must never be a single point of scan failure; every LLM
// problem degrades to the template floor.
type Generator struct {
	provider llm.Provider
}

// NewGenerator creates a generator. A nil provider disables the LLM fill.
func NewGenerator(provider llm.Provider) *Generator {
	return &Generator{provider: provider}
}

// Generate builds the panel for a scan, bounded by the plan's query budget.
// The returned set is deduplicated case-insensitively with normalized
// whitespace, and fixed before fan-out begins.
func (g *Generator) Generate(ctx context.Context, profile types.BrandProfile, input types.ScanInput, budget int) []types.Query {
	if budget <= 0 {
		return nil
	}

	var panel []types.Query
	seen := map[string]bool{}

	add := func(q types.Query) bool {
		if len(panel) >= budget {
			return false
		}
		key := dedupeKey(q.Text)
		if key == "" || seen[key] {
			return true
		}
		seen[key] = true
		panel = append(panel, q)
		return true
	}

	// User questions go in first and verbatim.
	for _, q := range userQuestions(input.BuyerQuestions) {
		if !add(q) {
			return panel
		}
	}

	// Deterministic template floor, one per intent category.
	for _, intent := range types.GeneratedIntents() {
		text := templateFor(intent, profile.Category, input.CoreProblem, input.TargetBuyer)
		if text == "" {
			continue
		}
		if !add(types.Query{Text: text, Intent: intent, Provenance: types.ProvenanceGenerated}) {
			return panel
		}
	}

	// LLM fill for whatever budget remains.
	if remaining := budget - len(panel); remaining > 0 && g.provider != nil {
		for _, q := range g.llmQueries(ctx, profile, input, panel, remaining) {
			if !add(q) {
				break
			}
		}
	}

	return panel
}

// userQuestions validates, caps, and tags user-provided buyer questions.
func userQuestions(raw []string) []types.Query {
	var out []types.Query
	for _, text := range raw {
		text = normalizeWhitespace(text)
		if len(text) < minUserQuestionLength {
			continue
		}
		out = append(out, types.Query{
			Text:       text,
			Intent:     types.IntentUserProvided,
			Provenance: types.ProvenanceUserProvided,
		})
		if len(out) >= maxUserQuestions {
			break
		}
	}
	return out
}

// generatedPanel is the strict parse target for the LLM fill call.
type generatedPanel struct {
	Queries []struct {
		Text   string `json:"text"`
		Intent string `json:"intent"`
	} `json:"queries"`
}

// llmQueries asks the provider for additional panel queries. Any failure
// returns nil; the caller already has the template floor.
func (g *Generator) llmQueries(ctx context.Context, profile types.BrandProfile, input types.ScanInput, existing []types.Query, count int) []types.Query {
	var existingLines []string
	for _, q := range existing {
		existingLines = append(existingLines, "- "+q.Text)
	}

	template := prompts.MustGet("queries.json", "generate-buyer-queries")
	prompt := prompts.Format(template, map[string]string{
		"Category":    profile.Category,
		"CoreProblem": input.CoreProblem,
		"TargetBuyer": input.TargetBuyer,
		"Existing":    strings.Join(existingLines, "\n"),
		"Count":       strconv.Itoa(count),
	})

	raw, err := llm.GenerateJSON(ctx, g.provider, prompt)
	if err != nil {
		logrus.WithError(err).Warn("queries: LLM fill failed, panel stays on templates")
		return nil
	}

	if err := intschemas.ValidateJSONString(schemas.MustRead(schemas.QueryPanel), raw); err != nil {
		logrus.WithError(err).Warn("queries: LLM fill output failed schema validation")
		return nil
	}

	var panel generatedPanel
	if err := json.Unmarshal([]byte(raw), &panel); err != nil {
		logrus.WithError(err).Warn("queries: LLM fill output is not valid JSON")
		return nil
	}

	var out []types.Query
	for _, q := range panel.Queries {
		out = append(out, types.Query{
			Text:       normalizeWhitespace(q.Text),
			Intent:     parseIntent(q.Intent),
			Provenance: types.ProvenanceGenerated,
		})
	}
	return out
}

// parseIntent maps an LLM-declared intent to the fixed enumeration,
// defaulting to recommendation for anything unrecognized.
func parseIntent(s string) types.IntentCategory {
	for _, intent := range types.GeneratedIntents() {
		if string(intent) == s {
			return intent
		}
	}
	return types.IntentRecommendation
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// normalizeWhitespace collapses runs of whitespace to single spaces.
func normalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// dedupeKey is the case-insensitive, whitespace-normalized identity of a
// query text.
func dedupeKey(s string) string {
	return strings.ToLower(normalizeWhitespace(s))
}
