package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/meera/leitbox/internal/logger"
	"github.com/meera/leitbox/internal/models"
)

// MockGenerator produces deterministic topic-templated cards. It is the
// offline fallback used when no API key is configured, and the fixture
// generator for tests.
type MockGenerator struct{}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

func (m *MockGenerator) GenerateCards(ctx context.Context, params models.GenerationParams) ([]models.GeneratedCard, error) {
	logger.FromContext(ctx).Info("generating %d mock cards for topic %q", params.Count, params.Topic)

	set := mockCardSet(params.Topic)
	count := params.Count
	if count <= 0 {
		count = len(set)
	}

	// Cycle through the set when more cards are requested than it holds.
	cards := make([]models.GeneratedCard, 0, count)
	for i := 0; i < count; i++ {
		cards = append(cards, set[i%len(set)])
	}
	return cards, nil
}

func mockCardSet(topic string) []models.GeneratedCard {
	switch strings.ToLower(strings.TrimSpace(topic)) {
	case "javascript":
		return []models.GeneratedCard{
			{
				Question: "What is a closure in JavaScript?",
				Answer:   "A function that retains access to its lexical scope even when executed outside that scope",
				Hint:     "Think function plus scope retention",
				Options: []string{
					"A function that retains access to its lexical scope even when executed outside that scope",
					"A way to close browser windows using JavaScript",
					"A method to terminate event propagation",
					"A design pattern for hiding implementation details",
				},
			},
			{
				Question: "Which operator performs type coercion in JavaScript?",
				Answer:   "== (loose equality)",
				Hint:     "Double equals, not triple",
				Options: []string{
					"== (loose equality)",
					"=== (strict equality)",
					"= (assignment)",
					"=> (arrow function)",
				},
			},
			{
				Question: "How do you stop event bubbling in the DOM?",
				Answer:   "Call event.stopPropagation()",
				Hint:     "Stop the upward flow",
				Options: []string{
					"Call event.stopPropagation()",
					"Return false from the event handler",
					"Use event.preventDefault()",
					"Set event.bubbles = false",
				},
			},
		}
	default:
		return []models.GeneratedCard{
			{
				Question: fmt.Sprintf("What is the primary focus of %s?", topic),
				Answer:   fmt.Sprintf("The systematic study and application of %s-specific principles and methodologies", topic),
				Hint:     "Core purpose and scope",
				Options: []string{
					fmt.Sprintf("The systematic study and application of %s-specific principles and methodologies", topic),
					fmt.Sprintf("The historical development of theories related to %s", topic),
					fmt.Sprintf("The commercial exploitation of %s-related technologies", topic),
					fmt.Sprintf("The philosophical implications of %s in modern society", topic),
				},
			},
			{
				Question: fmt.Sprintf("Which methodology is NOT typically associated with %s?", topic),
				Answer:   "Retroactive inference modeling",
				Hint:     "Look for the fabricated term",
				Options: []string{
					"Retroactive inference modeling",
					"Quantitative analysis",
					"Qualitative assessment",
					"Comparative evaluation",
				},
			},
			{
				Question: fmt.Sprintf("In professional settings, %s is most valuable for:", topic),
				Answer:   "Solving complex problems through systematic approaches",
				Hint:     "Practical application value",
				Options: []string{
					"Solving complex problems through systematic approaches",
					"Creating entertaining content for social media",
					"Reducing operational costs in all scenarios",
					"Replacing human decision-making entirely",
				},
			},
			{
				Question: fmt.Sprintf("The biggest challenge facing %s today is:", topic),
				Answer:   "Integration with rapidly evolving technologies",
				Hint:     "Keeping pace with change",
				Options: []string{
					"Integration with rapidly evolving technologies",
					"Declining public interest",
					"Excessive government regulation",
					"Lack of historical precedent",
				},
			},
		}
	}
}
