package domain

import "context"

// RecipeAPI looks recipes up. Implementations can be the Spoonacular web
// API or the built-in offline catalog.
type RecipeAPI interface {
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
	Detail(ctx context.Context, id RecipeID) (*RecipeDetail, error)
}

// Utterance is one piece of text submitted for narration.
type Utterance struct {
	ID     string
	Text   string
	Locale string  // e.g. "en-US"
	Rate   float64 // 1 = normal speed
	Volume float64 // 0..1
}

// Speaker reads text aloud. At most one utterance plays at a time.
//
// Speak must not block until playback ends. The returned channel is closed
// once the utterance stops, whether it ran to completion or was cancelled.
// Cancel is a no-op for an unknown or finished ID.
type Speaker interface {
	Speak(ctx context.Context, u Utterance) (<-chan struct{}, error)
	Cancel(id string)
}

// IntentParser converts raw user input into structured intents.
type IntentParser interface {
	Parse(ctx context.Context, input string) (*Intent, error)
}
