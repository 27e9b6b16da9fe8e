package kv

// Persisted storage layout: one namespace of string keys. Everything the
// application writes lives under the "flashcards-" prefix so the guardian can
// measure and wipe it without touching unrelated data.
const (
	Namespace = "flashcards-"

	DecksKey = Namespace + "decks"
	StatsKey = Namespace + "stats"
	ThemeKey = Namespace + "theme"
)
