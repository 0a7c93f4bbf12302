package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock_PlainJSON(t *testing.T) {
	input := `{"mentioned": true}`
	assert.Equal(t, `{"mentioned": true}`, CleanJSONBlock(input))
}

func TestCleanJSONBlock_JSONFence(t *testing.T) {
	input := "```json\n{\"mentioned\": true}\n```"
	assert.Equal(t, `{"mentioned": true}`, CleanJSONBlock(input))
}

func TestCleanJSONBlock_GenericFence(t *testing.T) {
	input := "```\n{\"score\": 80}\n```"
	assert.Equal(t, `{"score": 80}`, CleanJSONBlock(input))
}

func TestCleanJSONBlock_FenceWithLanguage(t *testing.T) {
	input := "```javascript\n{\"score\": 80}\n```"
	assert.Equal(t, `{"score": 80}`, CleanJSONBlock(input))
}

func TestCleanJSONBlock_SurroundingProse(t *testing.T) {
	input := "Here is the analysis you asked for:\n{\"mentioned\": false}\nLet me know if you need more."
	assert.Equal(t, `{"mentioned": false}`, CleanJSONBlock(input))
}

func TestCleanJSONBlock_Whitespace(t *testing.T) {
	input := "  \n\t{\"a\": 1}  \n"
	assert.Equal(t, `{"a": 1}`, CleanJSONBlock(input))
}

func TestBuildExtractionPrompt_IncludesFieldsAndText(t *testing.T) {
	schema := BrandProfileSchema()
	prompt := BuildExtractionPrompt(schema, "Cal.com is scheduling infrastructure for everyone.")

	assert.Contains(t, prompt, "\"brand_name\"")
	assert.Contains(t, prompt, "\"category\"")
	assert.Contains(t, prompt, "(required)")
	assert.Contains(t, prompt, "Cal.com is scheduling infrastructure")
	assert.Contains(t, prompt, "Return ONLY valid JSON")
}
