package models

// GenerationParams describes a request to the AI card generator.
type GenerationParams struct {
	Topic      string `json:"topic" validate:"required,max=200"`
	Subject    string `json:"subject,omitempty" validate:"max=200"`
	ClassName  string `json:"className,omitempty" validate:"max=200"`
	Count      int    `json:"count" validate:"required,min=1,max=30"`
	Difficulty string `json:"difficulty,omitempty" validate:"omitempty,oneof=beginner intermediate expert"`
	Language   string `json:"language,omitempty" validate:"omitempty,oneof=english hindi mixed"`
}

// GeneratedCard is one generator result. Options, when present, hold exactly
// four choices with the correct answer first.
type GeneratedCard struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Hint     string   `json:"hint,omitempty"`
	Options  []string `json:"options,omitempty"`
}

// Fields converts a generated card into the shape AddCards accepts.
func (g GeneratedCard) Fields() CardFields {
	return CardFields{
		Question: g.Question,
		Answer:   g.Answer,
		Hint:     g.Hint,
		Options:  g.Options,
	}
}
