package detect

import (
	"regexp"
	"strings"

	"github.com/visiblyai/scanner/internal/types"
)

// Phrase lists for the quality rules. Matching is case-insensitive over the
// markdown-stripped response.
var (
	deflectionPhrases = []string{
		"i don't have access to real-time",
		"i don't have access to current",
		"i cannot browse",
		"i am unable to browse",
		"i can't access the internet",
		"i don't have the ability to search",
		"check the latest reviews",
		"i recommend checking recent",
	}
	cutoffPhrases = []string{
		"knowledge cutoff",
		"as of my last update",
		"as of my training",
		"my training data",
		"may have changed since",
	}
	refusalPhrases = []string{
		"i can't recommend",
		"i cannot recommend",
		"i'm not able to recommend",
		"i won't be able to provide",
		"i cannot provide specific recommendations",
	}
	genericPhrases = []string{
		"it depends on your needs",
		"it depends on your specific",
		"depends on your requirements",
		"consider factors such as",
		"there are many options",
		"do your own research",
		"evaluate your options",
	}
)

var capitalizedToken = regexp.MustCompile(`\b[A-Z][a-zA-Z0-9]{2,}(?:\.[a-z]{2,4})?\b`)

// commonWords are capitalized tokens that are not brand names: sentence
// starters, pronouns, and generic tech vocabulary.
var commonWords = map[string]bool{
	"The": true, "This": true, "That": true, "These": true, "Those": true,
	"There": true, "They": true, "Here": true, "However": true, "While": true,
	"When": true, "What": true, "Which": true, "Where": true, "Some": true,
	"Many": true, "Most": true, "Both": true, "Each": true, "Every": true,
	"For": true, "If": true, "It's": true, "You": true, "Your": true,
	"Consider": true, "Overall": true, "Additionally": true, "Finally": true,
	"First": true, "Second": true, "Third": true, "Based": true, "Depending": true,
	"Pros": true, "Cons": true, "Features": true, "Pricing": true, "Best": true,
	"Free": true, "Pro": true, "API": true, "AI": true, "SaaS": true,
}

var queryStopwords = map[string]bool{
	"what": true, "which": true, "best": true, "good": true, "should": true,
	"recommend": true, "tool": true, "tools": true, "software": true,
	"with": true, "that": true, "this": true, "have": true, "does": true,
	"how": true, "can": true, "use": true, "for": true, "the": true,
	"are": true, "there": true, "any": true, "most": true,
}

const (
	deflectionPenalty = 40
	refusalPenalty    = 35
	offTopicPenalty   = 30
	cutoffPenalty     = 25
	genericPenalty    = 20
	noBrandsPenalty   = 20

	minBrandTokens  = 2
	minTopicOverlap = 0.2
)

// AssessQuality scores how useful a response is for visibility analysis.
// A deflection ("I can't browse the web") tells us nothing about what the
// model would recommend, so it crushes the score even though the model
// technically answered.
func AssessQuality(text, queryText string) types.ResponseQuality {
	lower := strings.ToLower(text)

	q := types.ResponseQuality{Score: 100}

	hasCutoff := containsAny(lower, cutoffPhrases)
	hasRefusal := containsAny(lower, refusalPhrases)
	q.IsDeflection = containsAny(lower, deflectionPhrases)
	q.IsGeneric = containsAny(lower, genericPhrases)
	q.HasSpecificBrands = countBrandTokens(text) >= minBrandTokens
	q.IsOffTopic = topicOverlap(lower, queryText) < minTopicOverlap

	if q.IsDeflection {
		q.Score -= deflectionPenalty
	}
	if hasRefusal {
		q.Score -= refusalPenalty
	}
	if hasCutoff {
		q.Score -= cutoffPenalty
	}
	if q.IsOffTopic {
		q.Score -= offTopicPenalty
	}
	if q.IsGeneric {
		q.Score -= genericPenalty
	}
	if !q.HasSpecificBrands {
		q.Score -= noBrandsPenalty
	}
	if q.Score < 0 {
		q.Score = 0
	}

	switch {
	case q.IsDeflection:
		q.IssueType = types.IssueDeflection
	case hasRefusal:
		q.IssueType = types.IssueRefusal
	case hasCutoff:
		q.IssueType = types.IssueKnowledgeCutoff
	case q.IsOffTopic:
		q.IssueType = types.IssueOffTopic
	case q.IsGeneric && !q.HasSpecificBrands:
		q.IssueType = types.IssueGeneric
	default:
		q.IssueType = types.IssueNone
	}

	return q
}

func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// countBrandTokens counts distinct capitalized tokens that look like product
// names. A response naming concrete products reads very differently from one
// full of hedged generalities.
func countBrandTokens(text string) int {
	seen := map[string]bool{}
	for _, tok := range capitalizedToken.FindAllString(text, -1) {
		if commonWords[tok] {
			continue
		}
		seen[tok] = true
	}
	return len(seen)
}

// topicOverlap measures how many of the query's content words the response
// echoes. Near-zero overlap means the model answered a different question.
func topicOverlap(lowerResponse, queryText string) float64 {
	terms := 0
	hits := 0
	for _, word := range strings.Fields(strings.ToLower(queryText)) {
		word = strings.Trim(word, ".,?!\"'")
		if len(word) <= 3 || queryStopwords[word] {
			continue
		}
		terms++
		if strings.Contains(lowerResponse, word) {
			hits++
		}
	}
	if terms == 0 {
		return 1
	}
	return float64(hits) / float64(terms)
}
