// Package domain defines the core types and interfaces for the recipe browser.
// All other packages depend on domain; domain depends on nothing.
package domain

import "strconv"

// RecipeID identifies a recipe at the recipe service. Treat it as opaque.
type RecipeID int64

// String returns the decimal form used in URLs and on screen.
func (id RecipeID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseRecipeID parses a decimal recipe ID, with or without a leading '#'.
func ParseRecipeID(s string) (RecipeID, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return RecipeID(n), nil
}

// MaxResults is the page size of a search. Results beyond it are dropped.
const MaxResults = 10

// SearchResult is one entry of a search result list.
type SearchResult struct {
	ID       RecipeID
	Title    string
	ImageURL string
}

// Ingredient is a single ingredient line as the service phrases it
// ("2 cups of flour").
type Ingredient struct {
	ID       int64
	Original string
}

// RecipeDetail is the full view of one recipe.
type RecipeDetail struct {
	ID          RecipeID
	Title       string
	Ingredients []Ingredient
	// InstructionsHTML may contain markup and must be sanitized before
	// it is rendered.
	InstructionsHTML string

	// Optional fields; zero when the service omits them.
	Servings       int
	ReadyInMinutes int
	SourceURL      string
	ImageURL       string
}
