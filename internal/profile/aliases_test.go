package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAliases_DomainStyledName(t *testing.T) {
	aliases := GenerateAliases("Cal.com", "https://cal.com")

	assert.Contains(t, aliases, "Cal")
	assert.Contains(t, aliases, "Calcom")
	// The canonical name itself is not an alias.
	assert.NotContains(t, aliases, "Cal.com")
}

func TestGenerateAliases_CamelCase(t *testing.T) {
	aliases := GenerateAliases("SendGrid", "https://sendgrid.com")

	assert.Contains(t, aliases, "Send Grid")
	assert.Contains(t, aliases, "sendgrid")
}

func TestGenerateAliases_SpacedName(t *testing.T) {
	aliases := GenerateAliases("Notion Calendar", "https://notion.so")

	assert.Contains(t, aliases, "Notion-Calendar")
	assert.Contains(t, aliases, "NotionCalendar")
	assert.Contains(t, aliases, "notion")
}

func TestGenerateAliases_HyphenatedName(t *testing.T) {
	aliases := GenerateAliases("mail-chimp", "")

	assert.Contains(t, aliases, "mail chimp")
	assert.Contains(t, aliases, "mailchimp")
}

func TestGenerateAliases_NoDuplicatesAcrossVariants(t *testing.T) {
	aliases := GenerateAliases("Cal.com", "https://www.cal.com/pricing")

	seen := map[string]int{}
	for _, a := range aliases {
		seen[normKey(a)]++
	}
	for key, count := range seen {
		assert.Equal(t, 1, count, "alias %q appears %d times", key, count)
	}
}

func TestGenerateAliases_ShortFragmentsDropped(t *testing.T) {
	aliases := GenerateAliases("X", "")
	assert.Empty(t, aliases)
}

func TestBrandDomain(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.cal.com/pricing", "cal.com"},
		{"https://cal.com", "cal.com"},
		{"http://SendGrid.com", "sendgrid.com"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BrandDomain(tt.url), "url=%s", tt.url)
	}
}
