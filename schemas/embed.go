// Package schemas embeds the JSON Schemas used to validate structured LLM
// output before any field is trusted past the parse boundary.
package schemas

import (
	"embed"
	"fmt"
)

//go:embed *.schema.json
var schemaFiles embed.FS

// Schema file names.
const (
	BrandProfile    = "brand_profile.schema.json"
	MentionAnalysis = "mention_analysis.schema.json"
	QueryPanel      = "query_panel.schema.json"
)

// MustRead returns the raw schema content, panicking on a missing name.
// Schemas are compile-time assets; a miss is a programming error.
func MustRead(name string) string {
	data, err := schemaFiles.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("schema %s not embedded: %v", name, err))
	}
	return string(data)
}
