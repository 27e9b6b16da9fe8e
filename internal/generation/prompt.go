package generation

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/meera/leitbox/internal/models"
)

//go:embed prompt.tmpl
var promptTemplateText string

var promptTemplate = template.Must(template.New("flashcards").Parse(promptTemplateText))

type promptData struct {
	Topic      string
	Subject    string
	ClassName  string
	Count      int
	Difficulty string
	Language   string
}

// BuildPrompt renders the generation prompt for the given parameters.
// Defaults are applied here so the template never sees empty fields.
func BuildPrompt(params models.GenerationParams) (string, error) {
	data := promptData{
		Topic:      params.Topic,
		Subject:    params.Subject,
		ClassName:  params.ClassName,
		Count:      params.Count,
		Difficulty: params.Difficulty,
		Language:   params.Language,
	}
	if data.Difficulty == "" {
		data.Difficulty = "intermediate"
	}
	if data.Language == "" {
		data.Language = "english"
	}

	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}
