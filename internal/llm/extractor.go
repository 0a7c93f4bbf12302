// Package llm - extractor.go provides generic LLM-based structured extraction.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
// It provides a reusable way to define what information to extract from text.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "BrandProfile")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[]string"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent or summarize.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// BrandProfileSchema returns the extraction schema for brand homepages.
// Extracts name, category, tagline, and competitors named in the source.
func BrandProfileSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "BrandProfile",
		Description: `You are an expert brand analyst. Your task is to extract a structured brand profile from a company's website text.
Identify what the company sells, the product category it competes in, and any competitor products the text names or compares against.`,
		Fields: []SchemaField{
			{
				Name:        "brand_name",
				Type:        "\"string\"",
				Description: "The product or company name as the site presents it",
				Required:    true,
			},
			{
				Name:        "category",
				Type:        "\"string\"",
				Description: "Product category (e.g., 'scheduling software', 'CRM for startups')",
				Required:    true,
			},
			{
				Name:        "tagline",
				Type:        "\"string\"",
				Description: "One-line positioning statement or tagline",
				Required:    false,
			},
			{
				Name:        "competitors",
				Type:        "[\"string\"]",
				Description: "Competitor product names mentioned or compared against in the text",
				Required:    false,
			},
		},
	}
}
