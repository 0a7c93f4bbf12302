// Package profile builds the structured brand profile for a scan from
// scraped site text and user-supplied hints.
package profile

import (
	"net/url"
	"regexp"
	"strings"
)

// knownTLDs are suffixes stripped from brand names styled as domains
// ("Cal.com", "fly.io"). Order matters only for readability.
var knownTLDs = []string{".com", ".ai", ".io", ".app", ".dev", ".co", ".net", ".org", ".so", ".xyz"}

var camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// GenerateAliases derives the deterministic alias set for a brand name.
// These feed the mention detector's fast-path matching: camel-case splits,
// TLD-stripped forms, hyphen/space variants, and the website's domain label.
func GenerateAliases(brandName, websiteURL string) []string {
	seen := map[string]bool{normKey(brandName): true}
	var aliases []string

	add := func(candidate string) {
		candidate = strings.TrimSpace(candidate)
		if len(candidate) < 2 {
			return
		}
		key := normKey(candidate)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		aliases = append(aliases, candidate)
	}

	expandVariants(brandName, add)

	// "Cal.com" also matches as "Cal" and "calcom".
	for _, tld := range knownTLDs {
		if strings.HasSuffix(strings.ToLower(brandName), tld) {
			stripped := brandName[:len(brandName)-len(tld)]
			add(stripped)
			add(strings.ReplaceAll(brandName, ".", ""))
			expandVariants(stripped, add)
			break
		}
	}

	if label := domainLabel(websiteURL); label != "" {
		add(label)
		expandVariants(label, add)
	}

	return aliases
}

// expandVariants adds camel-case splits and hyphen/space permutations of a
// single name.
func expandVariants(name string, add func(string)) {
	// SendGrid -> "Send Grid"
	if split := camelBoundary.ReplaceAllString(name, "$1 $2"); split != name {
		add(split)
	}

	switch {
	case strings.Contains(name, " "):
		add(strings.ReplaceAll(name, " ", "-"))
		add(strings.ReplaceAll(name, " ", ""))
	case strings.Contains(name, "-"):
		add(strings.ReplaceAll(name, "-", " "))
		add(strings.ReplaceAll(name, "-", ""))
	}
}

// domainLabel extracts the registrable label from a website URL:
// "https://www.cal.com/pricing" -> "cal".
func domainLabel(websiteURL string) string {
	if websiteURL == "" {
		return ""
	}
	parsed, err := url.Parse(websiteURL)
	if err != nil || parsed.Host == "" {
		return ""
	}

	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	parts := strings.Split(host, ".")
	if len(parts) < 2 {
		return ""
	}
	return parts[0]
}

// normKey lowercases and strips everything non-alphanumeric so variant
// spellings dedupe against each other.
func normKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// BrandDomain returns the canonical key for cross-scan competitor tracking:
// the website host with any www prefix removed, lowercased.
func BrandDomain(websiteURL string) string {
	if websiteURL == "" {
		return ""
	}
	parsed, err := url.Parse(websiteURL)
	if err != nil || parsed.Host == "" {
		return strings.ToLower(websiteURL)
	}
	return strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
}
