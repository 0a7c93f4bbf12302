package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/visiblyai/scanner/internal/llm"
	"github.com/visiblyai/scanner/internal/types"
)

// fakeProvider returns a canned response for every Generate call.
type fakeProvider struct {
	response string
	err      error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Generate(_ context.Context, _ string, _ llm.Role) (string, error) {
	return f.response, f.err
}

func scanInput() types.ScanInput {
	return types.ScanInput{
		BrandName:   "Cal.com",
		WebsiteURL:  "https://cal.com",
		CoreProblem: "scheduling meetings",
		TargetBuyer: "founders",
		Competitors: []string{"Calendly"},
		PlanTier:    types.TierFree,
	}
}

func TestExtract_UserFieldsTakePrecedence(t *testing.T) {
	provider := &fakeProvider{response: `{
		"brand_name": "Cal",
		"category": "calendar tools",
		"tagline": "Scheduling for everyone",
		"competitors": ["Calendly", "SavvyCal"]
	}`}

	e := NewExtractor(provider)
	p := e.Extract(context.Background(), "Cal.com is scheduling infrastructure.", scanInput())

	// Extracted brand_name never overrides the user's.
	assert.Equal(t, "Cal.com", p.BrandName)
	// CoreProblem wins over extracted category.
	assert.Equal(t, "scheduling meetings", p.Category)
	assert.Equal(t, "Scheduling for everyone", p.Tagline)
}

func TestExtract_MergesCompetitorsWithoutDuplicates(t *testing.T) {
	provider := &fakeProvider{response: `{
		"brand_name": "Cal.com",
		"category": "scheduling",
		"competitors": ["calendly", "SavvyCal", "Cal.com"]
	}`}

	e := NewExtractor(provider)
	p := e.Extract(context.Background(), "some text", scanInput())

	assert.Equal(t, []string{"Calendly", "SavvyCal"}, p.Competitors)
}

func TestExtract_LLMFailureFallsBackToUserFields(t *testing.T) {
	e := NewExtractor(&fakeProvider{err: errors.New("timeout")})
	p := e.Extract(context.Background(), "some text", scanInput())

	assert.Equal(t, "Cal.com", p.BrandName)
	assert.Equal(t, "scheduling meetings", p.Category)
	assert.Equal(t, []string{"Calendly"}, p.Competitors)
	assert.NotEmpty(t, p.Aliases)
}

func TestExtract_SchemaMismatchFailsClosed(t *testing.T) {
	// Missing required category field.
	e := NewExtractor(&fakeProvider{response: `{"tagline": "hello"}`})
	p := e.Extract(context.Background(), "some text", scanInput())

	assert.Equal(t, "scheduling meetings", p.Category)
	assert.Empty(t, p.Tagline)
}

func TestExtract_EmptyScrapeSkipsLLM(t *testing.T) {
	provider := &fakeProvider{response: `{"brand_name": "X", "category": "Y"}`}
	e := NewExtractor(provider)
	p := e.Extract(context.Background(), "   ", scanInput())

	assert.Equal(t, "scheduling meetings", p.Category)
	assert.Contains(t, p.Aliases, "Cal")
}
