package detect

import (
	"sort"
	"strings"

	"github.com/visiblyai/scanner/internal/types"
)

// maxUnknownCompetitors caps the generic token scan so one listicle response
// doesn't flood the analysis with every product it names once.
const maxUnknownCompetitors = 5

var recommendCues = []string{"recommend", "best choice", "top pick", "go with", "great option", "my pick"}
var compareCues = []string{" vs ", " vs.", "compared to", "comparison", "versus", "alternative to"}

// ExtractCompetitors builds the competitor mention list for one response:
// the profile's known competitors via the same matching the brand gets, plus
// a scan for brand-shaped tokens the profile doesn't know about yet.
func ExtractCompetitors(text string, prof types.BrandProfile) []types.CompetitorMention {
	var out []types.CompetitorMention
	seen := map[string]bool{}
	for _, name := range prof.AllNames() {
		seen[normKey(name)] = true
	}

	for _, comp := range prof.Competitors {
		key := normKey(comp)
		if seen[key] {
			continue
		}
		if IsExactBrandMatch(text, comp) || normalizedMatch(text, comp) {
			seen[key] = true
			out = append(out, competitorMention(text, comp))
		}
	}

	for _, name := range unknownBrandTokens(text) {
		if len(out) >= len(prof.Competitors)+maxUnknownCompetitors {
			break
		}
		key := normKey(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, competitorMention(text, name))
	}

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Position, out[j].Position
		if pi == 0 {
			pi = 99
		}
		if pj == 0 {
			pj = 99
		}
		return pi < pj
	})
	return out
}

func competitorMention(text, name string) types.CompetitorMention {
	return types.CompetitorMention{
		Name:     name,
		Position: listRank(text, name),
		Context:  classifyContext(text, name),
	}
}

// classifyContext inspects the sentence around the mention for intent cues.
func classifyContext(text, name string) string {
	line := strings.ToLower(evidenceSnippet(text, name))
	if line == "" {
		return "discussed"
	}
	for _, cue := range recommendCues {
		if strings.Contains(line, cue) {
			return "recommended"
		}
	}
	for _, cue := range compareCues {
		if strings.Contains(line, cue) {
			return "compared"
		}
	}
	if listRank(text, name) > 0 {
		return "listed"
	}
	return "discussed"
}

// unknownBrandTokens finds capitalized tokens that appear at least twice and
// look like product names. Repetition is the filter: a brand the model is
// actually recommending gets named more than once.
func unknownBrandTokens(text string) []string {
	counts := map[string]int{}
	order := []string{}
	for _, tok := range capitalizedToken.FindAllString(text, -1) {
		if commonWords[tok] {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}
	var out []string
	for _, tok := range order {
		if counts[tok] >= 2 {
			out = append(out, tok)
		}
	}
	return out
}

func normKey(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(s), "")
}
