package generation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meera/leitbox/internal/generation"
	"github.com/meera/leitbox/internal/models"
)

func TestBuildPromptIncludesParameters(t *testing.T) {
	prompt, err := generation.BuildPrompt(models.GenerationParams{
		Topic:      "photosynthesis",
		Subject:    "biology",
		ClassName:  "grade 10",
		Count:      8,
		Difficulty: "expert",
		Language:   "hindi",
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "exactly 8 flashcards")
	assert.Contains(t, prompt, `"photosynthesis"`)
	assert.Contains(t, prompt, `"biology"`)
	assert.Contains(t, prompt, "grade 10")
	assert.Contains(t, prompt, "Difficulty: expert")
	assert.Contains(t, prompt, "Language: hindi")
}

func TestBuildPromptDefaults(t *testing.T) {
	prompt, err := generation.BuildPrompt(models.GenerationParams{Topic: "rivers", Count: 3})
	require.NoError(t, err)
	assert.Contains(t, prompt, "Difficulty: intermediate")
	assert.Contains(t, prompt, "Language: english")
	assert.NotContains(t, prompt, "subject")
}

func TestParseCards(t *testing.T) {
	raw := `[{"question":"q1","answer":"a1","options":["a1","b","c","d"]}]`
	cards, err := generation.ParseCards(raw)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "q1", cards[0].Question)
}

func TestParseCardsStripsMarkdownFences(t *testing.T) {
	raw := "```json\n[{\"question\":\"q\",\"answer\":\"a\"}]\n```"
	cards, err := generation.ParseCards(raw)
	require.NoError(t, err)
	require.Len(t, cards, 1)
}

func TestParseCardsRejectsGarbage(t *testing.T) {
	_, err := generation.ParseCards("the model rambled instead of emitting JSON")
	assert.ErrorIs(t, err, generation.ErrInvalidResponse)
}

func TestValidateCardsFiltersAndTrims(t *testing.T) {
	cards, err := generation.ValidateCards([]models.GeneratedCard{
		{Question: "q1", Answer: "a1"},
		{Question: "", Answer: "missing question"},
		{Question: "q2", Answer: "a2", Options: []string{"x", "y", "z"}},
		{Question: "q3", Answer: "a3"},
	}, 2)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "q1", cards[0].Question)
	assert.Contains(t, cards[1].Options, "a2", "the answer is appended when options omit it")
}

func TestValidateCardsAllUnusable(t *testing.T) {
	_, err := generation.ValidateCards([]models.GeneratedCard{{Question: "", Answer: ""}}, 5)
	assert.ErrorIs(t, err, generation.ErrInvalidResponse)
}

func TestMockGeneratorDeterministic(t *testing.T) {
	ctx := context.Background()
	gen := generation.NewMockGenerator()

	first, err := gen.GenerateCards(ctx, models.GenerationParams{Topic: "history", Count: 6})
	require.NoError(t, err)
	second, err := gen.GenerateCards(ctx, models.GenerationParams{Topic: "history", Count: 6})
	require.NoError(t, err)

	require.Len(t, first, 6, "the set cycles to satisfy the requested count")
	assert.Equal(t, first, second)
	assert.Contains(t, first[0].Question, "history")
	require.Len(t, first[0].Options, 4)
	assert.Contains(t, first[0].Options, first[0].Answer)
}

func TestMockGeneratorKnownTopic(t *testing.T) {
	cards, err := generation.NewMockGenerator().GenerateCards(context.Background(), models.GenerationParams{Topic: "JavaScript", Count: 2})
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Contains(t, cards[0].Question, "closure")
}

func TestNewGeminiGeneratorRequiresConfig(t *testing.T) {
	_, err := generation.NewGeminiGenerator(context.Background(), "", "gemini-2.0-flash")
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = generation.NewGeminiGenerator(context.Background(), "key", "")
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}
