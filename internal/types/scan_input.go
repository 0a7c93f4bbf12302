// Package types defines the shared data model for the visibility scan pipeline.
package types

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// PlanTier is the billing-derived configuration key that gates query panel
// size, provider set, and fan-out concurrency.
type PlanTier string

// Supported plan tiers.
const (
	TierFree    PlanTier = "free"
	TierStarter PlanTier = "starter"
	TierPro     PlanTier = "pro"
)

// ParsePlanTier normalizes a tier string. Unknown values resolve to the most
// restrictive tier so a billing misconfiguration never widens limits.
func ParsePlanTier(s string) PlanTier {
	switch PlanTier(strings.ToLower(strings.TrimSpace(s))) {
	case TierStarter:
		return TierStarter
	case TierPro:
		return TierPro
	default:
		return TierFree
	}
}

// ScanInput is the immutable request for a single visibility scan.
type ScanInput struct {
	BrandName       string   `json:"brand_name" validate:"required,min=1,max=200"`
	WebsiteURL      string   `json:"website_url" validate:"required,url"`
	CoreProblem     string   `json:"core_problem" validate:"required,min=3"`
	TargetBuyer     string   `json:"target_buyer" validate:"required,min=3"`
	Differentiators string   `json:"differentiators,omitempty"`
	Competitors     []string `json:"competitors,omitempty" validate:"max=5,dive,min=1"`
	BuyerQuestions  []string `json:"buyer_questions,omitempty" validate:"max=10"`
	PlanTier        PlanTier `json:"plan_tier" validate:"required,oneof=free starter pro"`
}

var inputValidator = validator.New()

// Validate checks the scan input against its declared constraints.
func (in *ScanInput) Validate() error {
	if err := inputValidator.Struct(in); err != nil {
		return fmt.Errorf("invalid scan input: %w", err)
	}
	return nil
}
