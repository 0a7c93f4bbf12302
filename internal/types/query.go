package types

// IntentCategory classifies why a buyer would ask a query.
type IntentCategory string

// The fixed intent category enumeration. user_provided marks queries the
// brand owner supplied verbatim.
const (
	IntentBuying         IntentCategory = "buying_intent"
	IntentComparison     IntentCategory = "comparison"
	IntentBestInClass    IntentCategory = "best_in_class"
	IntentProblemSolving IntentCategory = "problem_solving"
	IntentRecommendation IntentCategory = "recommendation"
	IntentAlternatives   IntentCategory = "alternatives"
	IntentFeatureBased   IntentCategory = "feature_based"
	IntentBudgetBased    IntentCategory = "budget_based"
	IntentUserProvided   IntentCategory = "user_provided"
)

// GeneratedIntents lists the categories the query generator expands
// templates for, in panel fill order.
func GeneratedIntents() []IntentCategory {
	return []IntentCategory{
		IntentBuying,
		IntentComparison,
		IntentBestInClass,
		IntentProblemSolving,
		IntentRecommendation,
		IntentAlternatives,
		IntentFeatureBased,
		IntentBudgetBased,
	}
}

// QueryProvenance records where a panel query came from.
type QueryProvenance string

// Query provenance values.
const (
	ProvenanceGenerated    QueryProvenance = "generated"
	ProvenanceUserProvided QueryProvenance = "user_provided"
)

// Query is a single buyer question in the panel for one scan. The panel is
// fixed before provider fan-out begins.
type Query struct {
	Text       string          `json:"text"`
	Intent     IntentCategory  `json:"intent"`
	Provenance QueryProvenance `json:"provenance"`
}
