package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

var allSchemas = []string{BrandProfile, MentionAnalysis, QueryPanel}

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, name := range allSchemas {
		t.Run(name, func(t *testing.T) {
			var v interface{}
			err := json.Unmarshal([]byte(MustRead(name)), &v)
			assert.NoError(t, err, "schema file should be valid JSON: %s", name)
		})
	}
}

func TestAllSchemaFiles_ValidJSONSchema(t *testing.T) {
	for _, name := range allSchemas {
		t.Run(name, func(t *testing.T) {
			loader := gojsonschema.NewStringLoader(MustRead(name))
			_, err := gojsonschema.NewSchema(loader)
			assert.NoError(t, err, "schema file should compile: %s", name)
		})
	}
}

func TestMentionAnalysisSchema_AcceptsJudgeOutput(t *testing.T) {
	doc := `{
		"mentioned": true,
		"position": "top_3",
		"exact_position": 1,
		"sentiment": "recommended",
		"portrayal": "Presented as the best open-source option.",
		"competitors_mentioned": ["Calendly"],
		"top_competitors": ["Calendly"],
		"other_brands": []
	}`

	schema := gojsonschema.NewStringLoader(MustRead(MentionAnalysis))
	result, err := gojsonschema.Validate(schema, gojsonschema.NewStringLoader(doc))
	require.NoError(t, err)
	assert.True(t, result.Valid(), "errors: %v", result.Errors())
}

func TestMentionAnalysisSchema_RejectsBadPosition(t *testing.T) {
	doc := `{"mentioned": true, "position": "somewhere"}`

	schema := gojsonschema.NewStringLoader(MustRead(MentionAnalysis))
	result, err := gojsonschema.Validate(schema, gojsonschema.NewStringLoader(doc))
	require.NoError(t, err)
	assert.False(t, result.Valid())
}
