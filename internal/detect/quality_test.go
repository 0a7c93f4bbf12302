package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/visiblyai/scanner/internal/types"
)

const queryText = "What is the best scheduling tool for small teams?"

func TestAssessQualityUsefulAnswer(t *testing.T) {
	text := "For scheduling in small teams I would recommend Calendly for its polish, " +
		"Cal.com if you want open source, and SavvyCal for its scheduling etiquette. " +
		"All three handle team scheduling well."
	q := AssessQuality(text, queryText)

	assert.GreaterOrEqual(t, q.Score, 80)
	assert.True(t, q.HasSpecificBrands)
	assert.False(t, q.IsDeflection)
	assert.False(t, q.IsOffTopic)
	assert.Equal(t, types.IssueNone, q.IssueType)
}

func TestAssessQualityDeflection(t *testing.T) {
	text := "I don't have access to real-time information about scheduling tools. " +
		"I recommend checking recent reviews for scheduling software for your teams."
	q := AssessQuality(text, queryText)

	assert.True(t, q.IsDeflection)
	assert.Equal(t, types.IssueDeflection, q.IssueType)
	assert.Less(t, q.Score, 50)
}

func TestAssessQualityGenericNoBrands(t *testing.T) {
	text := "It depends on your needs. There are many options for scheduling, and the " +
		"best tool for your teams will vary. Consider factors such as price and integrations."
	q := AssessQuality(text, queryText)

	assert.True(t, q.IsGeneric)
	assert.False(t, q.HasSpecificBrands)
	assert.Equal(t, types.IssueGeneric, q.IssueType)
	assert.LessOrEqual(t, q.Score, 60)
}

func TestAssessQualityOffTopic(t *testing.T) {
	text := "Regular exercise and a balanced diet are important. Aim for eight hours " +
		"of sleep and drink plenty of water every day."
	q := AssessQuality(text, queryText)

	assert.True(t, q.IsOffTopic)
	assert.Equal(t, types.IssueOffTopic, q.IssueType)
}

func TestAssessQualityKnowledgeCutoff(t *testing.T) {
	text := "As of my last update, Calendly and Cal.com were the leading scheduling " +
		"tools for teams, but the market may have changed since."
	q := AssessQuality(text, queryText)

	assert.Equal(t, types.IssueKnowledgeCutoff, q.IssueType)
	assert.True(t, q.HasSpecificBrands)
}

func TestAssessQualityScoreFloor(t *testing.T) {
	text := "I don't have access to real-time data. As of my last update, it depends " +
		"on your needs and there are many options. I cannot recommend one."
	q := AssessQuality(text, "best crm for startups")

	assert.Equal(t, 0, q.Score)
}

func TestCountBrandTokens(t *testing.T) {
	assert.GreaterOrEqual(t, countBrandTokens("Calendly and Cal.com beat Doodle"), 3)
	// Sentence starters and generic vocabulary don't count.
	assert.Equal(t, 0, countBrandTokens("The best. However, consider Features and Pricing."))
}

func TestTopicOverlap(t *testing.T) {
	assert.Equal(t, 1.0, topicOverlap("anything at all", "what is the best"))
	assert.Greater(t, topicOverlap("great scheduling options for small teams", queryText), 0.5)
	assert.Less(t, topicOverlap("drink water and sleep well", queryText), minTopicOverlap)
}
