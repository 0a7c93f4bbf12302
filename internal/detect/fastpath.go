// Package detect decides whether a brand (and its competitors) appear in an
// LLM response, layering cheap deterministic matching under an LLM judge
// with mutual verification.
package detect

import (
	"regexp"
	"strings"

	"github.com/visiblyai/scanner/internal/types"
)

// minNormalizedAliasLength guards the punctuation-stripped matcher against
// short fragments: "cal" would otherwise match inside "calcium".
const minNormalizedAliasLength = 4

var (
	mdLink     = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdEmphasis = regexp.MustCompile("[*_`~]+")
	mdHeader   = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	nonAlnum   = regexp.MustCompile(`[^a-z0-9]+`)
	listItem   = regexp.MustCompile(`(?m)^\s*(?:\d+[.)]|[-*•])\s+(.*)$`)
)

// StripMarkdown removes the formatting LLM answers typically carry so
// matching runs over plain prose.
func StripMarkdown(text string) string {
	text = mdLink.ReplaceAllString(text, "$1")
	text = mdHeader.ReplaceAllString(text, "")
	text = mdEmphasis.ReplaceAllString(text, "")
	return text
}

// IsExactBrandMatch reports whether the brand appears in the text as a
// standalone token. Substrings inside larger words never match: "Cal" does
// not match "calcium".
func IsExactBrandMatch(text, brand string) bool {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return false
	}
	pattern := `(?i)(^|[^a-zA-Z0-9])` + regexp.QuoteMeta(brand) + `([^a-zA-Z0-9]|$)`
	matched, err := regexp.MatchString(pattern, text)
	return err == nil && matched
}

// normalizedMatch strips punctuation from both sides so "Cal.com" matches
// "calcom". Only aliases whose normalized form is long enough participate.
func normalizedMatch(text, alias string) bool {
	normAlias := nonAlnum.ReplaceAllString(strings.ToLower(alias), "")
	if len(normAlias) < minNormalizedAliasLength {
		return false
	}
	normText := nonAlnum.ReplaceAllString(strings.ToLower(text), "")
	return strings.Contains(normText, normAlias)
}

// FastResult is the outcome of the deterministic matching pass.
type FastResult struct {
	BrandHit     bool
	MatchedAlias string
	Evidence     string
	// ListRank is the 1-based ordinal of the list item containing the
	// brand, 0 when the brand does not appear in a list.
	ListRank       int
	CompetitorHits []string
}

// FastScan runs the full deterministic pass: the brand name and every alias
// through exact, normalized, and word-boundary matching, plus the known
// competitor list. This path alone decides whether the LLM judge runs at
// all.
func FastScan(text string, prof types.BrandProfile) FastResult {
	res := FastResult{}

	for _, name := range prof.AllNames() {
		if IsExactBrandMatch(text, name) || normalizedMatch(text, name) {
			res.BrandHit = true
			res.MatchedAlias = name
			res.Evidence = evidenceSnippet(text, name)
			res.ListRank = listRank(text, name)
			break
		}
	}

	for _, comp := range prof.Competitors {
		if IsExactBrandMatch(text, comp) || normalizedMatch(text, comp) {
			res.CompetitorHits = append(res.CompetitorHits, comp)
		}
	}

	return res
}

// evidenceSnippet returns the line containing the first match, trimmed to a
// reasonable quote length.
func evidenceSnippet(text, name string) string {
	for _, line := range strings.Split(text, "\n") {
		if IsExactBrandMatch(line, name) || normalizedMatch(line, name) {
			line = strings.TrimSpace(line)
			if len(line) > 200 {
				line = line[:200]
			}
			return line
		}
	}
	return ""
}

// listRank finds the 1-based position of the list item mentioning the name.
// Responses to "what should I use" queries are usually ranked lists, so the
// item ordinal is a cheap position estimate.
func listRank(text, name string) int {
	items := listItem.FindAllStringSubmatch(text, -1)
	for i, item := range items {
		if IsExactBrandMatch(item[1], name) || normalizedMatch(item[1], name) {
			return i + 1
		}
	}
	return 0
}

// positionFromRank converts a list ordinal into the position bucket.
func positionFromRank(rank int) (types.MentionPosition, *int) {
	if rank == 0 {
		return types.PositionMentioned, nil
	}
	r := rank
	if rank <= 3 {
		return types.PositionTop3, &r
	}
	return types.PositionMentioned, &r
}
