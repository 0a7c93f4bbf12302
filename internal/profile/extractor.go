package profile

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/visiblyai/scanner/internal/llm"
	intschemas "github.com/visiblyai/scanner/internal/schemas"
	"github.com/visiblyai/scanner/internal/types"
	"github.com/visiblyai/scanner/schemas"
)

// Extractor builds a BrandProfile from scraped homepage text plus the user's
// scan input. User-supplied fields always take precedence over extracted
// values; extraction only fills gaps.
type Extractor struct {
	provider llm.Provider
}

// NewExtractor creates an extractor. The provider may be nil, in which case
// extraction degrades to user-supplied fields and deterministic aliasing.
func NewExtractor(provider llm.Provider) *Extractor {
	return &Extractor{provider: provider}
}

// extractedProfile is the strict parse target for the LLM extraction call.
type extractedProfile struct {
	BrandName   string   `json:"brand_name"`
	Category    string   `json:"category"`
	Tagline     string   `json:"tagline"`
	Competitors []string `json:"competitors"`
}

// Extract builds the scan's brand profile. It never fails: on any LLM or
// parse error the profile falls back to the user's fields.
func (e *Extractor) Extract(ctx context.Context, scrapedText string, input types.ScanInput) types.BrandProfile {
	p := types.BrandProfile{
		BrandName: input.BrandName,
		Category:  input.CoreProblem,
	}

	if e.provider != nil && strings.TrimSpace(scrapedText) != "" {
		if ext := e.extractFromText(ctx, scrapedText); ext != nil {
			if p.Category == "" {
				p.Category = ext.Category
			}
			p.Tagline = ext.Tagline
			p.Competitors = ext.Competitors
		}
	}

	p.Aliases = GenerateAliases(p.BrandName, input.WebsiteURL)
	p.Competitors = mergeCompetitors(input.Competitors, p.Competitors, p.BrandName)

	return p
}

// extractFromText runs the LLM extraction with a strict JSON contract and
// fails closed on any schema mismatch.
func (e *Extractor) extractFromText(ctx context.Context, text string) *extractedProfile {
	prompt := llm.BuildExtractionPrompt(llm.BrandProfileSchema(), text)

	raw, err := llm.GenerateJSON(ctx, e.provider, prompt)
	if err != nil {
		logrus.WithError(err).Warn("profile: extraction call failed, using user-supplied fields only")
		return nil
	}

	if err := intschemas.ValidateJSONString(schemas.MustRead(schemas.BrandProfile), raw); err != nil {
		logrus.WithError(err).Warn("profile: extraction output failed schema validation")
		return nil
	}

	var ext extractedProfile
	if err := json.Unmarshal([]byte(raw), &ext); err != nil {
		logrus.WithError(err).Warn("profile: extraction output is not valid JSON")
		return nil
	}
	return &ext
}

// mergeCompetitors combines user-supplied competitors (which come first and
// are never dropped) with extracted ones, deduplicated case-insensitively.
// The brand itself is excluded.
func mergeCompetitors(userProvided, extracted []string, brandName string) []string {
	seen := map[string]bool{strings.ToLower(strings.TrimSpace(brandName)): true}
	var merged []string

	for _, list := range [][]string{userProvided, extracted} {
		for _, name := range list {
			name = strings.TrimSpace(name)
			key := strings.ToLower(name)
			if name == "" || seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, name)
		}
	}
	return merged
}
