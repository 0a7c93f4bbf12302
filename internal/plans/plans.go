// Package plans maps billing plan tiers to scan resource policy: query
// panel size, provider allowlist, and fan-out concurrency.
package plans

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/visiblyai/scanner/internal/types"
)

// Limits is the resource policy for one plan tier. It is resolved once at
// scan start and applied uniformly for the whole scan.
type Limits struct {
	Tier        types.PlanTier
	QueryBudget int
	Concurrency int
	Providers   []string
}

// Provider name constants shared with the llm package adapters.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// minimalProviders is the fail-open fallback set used when allowlist
// resolution fails, so a billing misconfiguration never blocks a scan.
var minimalProviders = []string{ProviderOpenAI, ProviderAnthropic}

// ForTier returns the resource limits for a plan tier.
func ForTier(tier types.PlanTier) Limits {
	switch tier {
	case types.TierPro:
		return Limits{
			Tier:        tier,
			QueryBudget: 12,
			Concurrency: 6,
			Providers:   []string{ProviderOpenAI, ProviderAnthropic, ProviderGemini},
		}
	case types.TierStarter:
		return Limits{
			Tier:        tier,
			QueryBudget: 12,
			Concurrency: 4,
			Providers:   []string{ProviderOpenAI, ProviderAnthropic, ProviderGemini},
		}
	default:
		return Limits{
			Tier:        types.TierFree,
			QueryBudget: 8,
			Concurrency: 2,
			Providers:   []string{ProviderOpenAI, ProviderAnthropic},
		}
	}
}

// FilterProviders intersects the requested provider names with the tier's
// allowlist, preserving request order. An empty intersection falls back to
// the minimal provider set.
func (l Limits) FilterProviders(requested []string) []string {
	allowed := make(map[string]bool, len(l.Providers))
	for _, p := range l.Providers {
		allowed[p] = true
	}

	var filtered []string
	for _, p := range requested {
		if allowed[p] {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) == 0 {
		logrus.WithField("tier", l.Tier).Warn("provider allowlist resolution left no providers, using minimal set")
		return append([]string(nil), minimalProviders...)
	}
	return filtered
}

// Resolver resolves a user's plan tier from the billing/entitlement
// service. The pipeline consults it once at scan start.
type Resolver interface {
	Resolve(ctx context.Context, userID string) (types.PlanTier, error)
}

// StaticResolver always returns a fixed tier. Used by the CLI and tests.
type StaticResolver struct {
	Tier types.PlanTier
}

// Resolve returns the configured tier.
func (r StaticResolver) Resolve(_ context.Context, _ string) (types.PlanTier, error) {
	return r.Tier, nil
}

// ResolveTier asks the resolver for the user's tier and defaults to the
// most restrictive tier if resolution fails.
func ResolveTier(ctx context.Context, r Resolver, userID string) types.PlanTier {
	if r == nil {
		return types.TierFree
	}
	tier, err := r.Resolve(ctx, userID)
	if err != nil {
		logrus.WithError(err).Warn("entitlement resolution failed, defaulting to free tier")
		return types.TierFree
	}
	return types.ParsePlanTier(string(tier))
}
