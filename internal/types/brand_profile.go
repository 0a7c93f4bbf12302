package types

// BrandProfile is the structured description of a brand built once per scan
// by the profile extractor and read-only afterwards. Aliases feed the mention
// detector's fast-path matching, not just display.
type BrandProfile struct {
	BrandName   string   `json:"brand_name"`
	Aliases     []string `json:"aliases"`
	Category    string   `json:"category"`
	Tagline     string   `json:"tagline,omitempty"`
	Competitors []string `json:"competitors,omitempty"`
}

// AllNames returns the brand name plus every alias, in matching priority
// order with the canonical name first.
func (p *BrandProfile) AllNames() []string {
	names := make([]string, 0, len(p.Aliases)+1)
	names = append(names, p.BrandName)
	for _, a := range p.Aliases {
		if a != p.BrandName {
			names = append(names, a)
		}
	}
	return names
}
