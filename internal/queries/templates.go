// Package queries builds the bounded, deduplicated panel of buyer queries
// for a scan.
package queries

import (
	"fmt"

	"github.com/visiblyai/scanner/internal/types"
)

// templateFor expands one deterministic query per intent category,
// parameterized by the brand's category, core problem, and target buyer.
// These are the floor the panel can always fall back to when the LLM step
// fails.
func templateFor(intent types.IntentCategory, category, coreProblem, targetBuyer string) string {
	switch intent {
	case types.IntentBuying:
		return fmt.Sprintf("What should I buy for %s?", coreProblem)
	case types.IntentComparison:
		return fmt.Sprintf("How do the top tools for %s compare?", coreProblem)
	case types.IntentBestInClass:
		return fmt.Sprintf("What is the best %s right now?", category)
	case types.IntentProblemSolving:
		return fmt.Sprintf("I'm struggling with %s, what tools can help?", coreProblem)
	case types.IntentRecommendation:
		return fmt.Sprintf("Can you recommend a %s for %s?", category, targetBuyer)
	case types.IntentAlternatives:
		return fmt.Sprintf("What are good alternatives for %s tools?", category)
	case types.IntentFeatureBased:
		return fmt.Sprintf("Which %s has the best integrations and features?", category)
	case types.IntentBudgetBased:
		return fmt.Sprintf("What's a good affordable option for %s?", coreProblem)
	default:
		return ""
	}
}
