// Package recipe provides the offline recipe catalog: a small built-in set
// of recipes served through the same port as the web API, for use without
// network access or an API key.
package recipe

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/fridgechef/internal/domain"
	"github.com/hammamikhairi/fridgechef/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeAPI = (*MemorySource)(nil)

// MemorySource holds recipes in memory. Safe for concurrent use.
type MemorySource struct {
	mu      sync.RWMutex
	recipes map[domain.RecipeID]*domain.RecipeDetail
	log     *logger.Logger
}

// NewMemorySource creates a recipe source preloaded with built-in recipes.
func NewMemorySource(log *logger.Logger) *MemorySource {
	src := &MemorySource{
		recipes: make(map[domain.RecipeID]*domain.RecipeDetail),
		log:     log,
	}
	src.seed()
	return src
}

// Search returns up to limit recipes whose title contains every word of
// query, ordered by id.
func (s *MemorySource) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	words := strings.Fields(strings.ToLower(query))
	s.log.Debug("offline search for %q", query)

	var out []domain.SearchResult
	for _, r := range s.recipes {
		if matches(r, words) {
			out = append(out, domain.SearchResult{ID: r.ID, Title: r.Title, ImageURL: r.ImageURL})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Detail returns a copy of one recipe.
func (s *MemorySource) Detail(ctx context.Context, id domain.RecipeID) (*domain.RecipeDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		s.log.Debug("recipe not found: %s", id)
		return nil, fmt.Errorf("recipe %s: %w", id, domain.ErrNotFound)
	}
	cp := *r
	cp.Ingredients = append([]domain.Ingredient(nil), r.Ingredients...)
	return &cp, nil
}

// Add stores r, replacing any recipe with the same id.
func (s *MemorySource) Add(r *domain.RecipeDetail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes[r.ID] = r
}

// Len returns the number of recipes in the catalog.
func (s *MemorySource) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recipes)
}

func matches(r *domain.RecipeDetail, words []string) bool {
	title := strings.ToLower(r.Title)
	for _, w := range words {
		if !strings.Contains(title, w) {
			return false
		}
	}
	return len(words) > 0
}

// ── YAML catalog files ───────────────────────────────────────────

type catalogFile struct {
	Recipes []catalogRecipe `yaml:"recipes"`
}

type catalogRecipe struct {
	ID             int64    `yaml:"id"`
	Title          string   `yaml:"title"`
	Servings       int      `yaml:"servings"`
	ReadyInMinutes int      `yaml:"ready_in_minutes"`
	SourceURL      string   `yaml:"source_url"`
	Ingredients    []string `yaml:"ingredients"`
	Instructions   string   `yaml:"instructions"`
}

// Load reads extra recipes from a YAML catalog and adds them. It returns
// how many were added.
func (s *MemorySource) Load(r io.Reader) (int, error) {
	var f catalogFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, fmt.Errorf("decoding catalog: %w", err)
	}

	for i, cr := range f.Recipes {
		if cr.ID <= 0 || strings.TrimSpace(cr.Title) == "" {
			return i, fmt.Errorf("catalog entry %d: id and title are required", i+1)
		}
		d := &domain.RecipeDetail{
			ID:               domain.RecipeID(cr.ID),
			Title:            cr.Title,
			Servings:         cr.Servings,
			ReadyInMinutes:   cr.ReadyInMinutes,
			SourceURL:        cr.SourceURL,
			InstructionsHTML: cr.Instructions,
		}
		for j, ing := range cr.Ingredients {
			d.Ingredients = append(d.Ingredients, domain.Ingredient{ID: int64(j + 1), Original: ing})
		}
		s.Add(d)
	}
	s.log.Info("loaded %d recipe(s) from catalog", len(f.Recipes))
	return len(f.Recipes), nil
}

// LoadFile is Load for a file path.
func (s *MemorySource) LoadFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return s.Load(f)
}

// ── seed data ────────────────────────────────────────────────────

// seed populates the source with built-in recipes.
func (s *MemorySource) seed() {
	recipes := []*domain.RecipeDetail{
		chickenAlfredo(),
		vegetableStirFry(),
		tomatoSoup(),
		pastaAglioOlio(),
		bananaPancakes(),
		shakshuka(),
	}
	for _, r := range recipes {
		s.recipes[r.ID] = r
	}
	s.log.Debug("seeded %d recipes", len(recipes))
}

func ingredients(lines ...string) []domain.Ingredient {
	out := make([]domain.Ingredient, len(lines))
	for i, l := range lines {
		out[i] = domain.Ingredient{ID: int64(i + 1), Original: l}
	}
	return out
}

func chickenAlfredo() *domain.RecipeDetail {
	return &domain.RecipeDetail{
		ID:             1001,
		Title:          "Chicken Alfredo Pasta",
		Servings:       2,
		ReadyInMinutes: 30,
		Ingredients: ingredients(
			"250 g spaghetti",
			"2 medium chicken breasts",
			"2 tbsp butter",
			"3 cloves garlic, minced",
			"250 ml heavy cream",
			"60 g parmesan, grated",
			"salt and black pepper",
		),
		InstructionsHTML: `<ol>
<li>Bring a large pot of salted water to a boil and cook the spaghetti until al dente. Reserve a cup of pasta water.</li>
<li>Season the chicken and sear it in a hot pan for 6 minutes per side. Rest, then slice.</li>
<li>Melt the butter in the same pan, add the garlic and cook for 30 seconds.</li>
<li>Pour in the cream, simmer for 3 minutes, then stir in the parmesan.</li>
<li>Toss the pasta in the sauce, loosen with pasta water and top with the chicken.</li>
</ol>`,
	}
}

func vegetableStirFry() *domain.RecipeDetail {
	return &domain.RecipeDetail{
		ID:             1002,
		Title:          "Vegetable Stir Fry",
		Servings:       2,
		ReadyInMinutes: 20,
		Ingredients: ingredients(
			"1 red bell pepper, sliced",
			"1 head broccoli, cut into florets",
			"2 carrots, julienned",
			"2 tbsp soy sauce",
			"1 tbsp sesame oil",
			"1 thumb ginger, grated",
		),
		InstructionsHTML: `<p>Heat the sesame oil in a wok over high heat.</p>
<p>Add the carrots and broccoli and stir fry for <b>3 minutes</b>.</p>
<p>Add the pepper and ginger, cook 2 more minutes, then splash in the soy sauce and serve.</p>`,
	}
}

func tomatoSoup() *domain.RecipeDetail {
	return &domain.RecipeDetail{
		ID:             1003,
		Title:          "Roasted Tomato Soup",
		Servings:       4,
		ReadyInMinutes: 50,
		Ingredients: ingredients(
			"1 kg ripe tomatoes, halved",
			"1 onion, quartered",
			"4 cloves garlic",
			"2 tbsp olive oil",
			"500 ml vegetable stock",
			"a handful of basil",
		),
		InstructionsHTML: `<ol>
<li>Roast the tomatoes, onion and garlic with the olive oil at 200 C for 35 minutes.</li>
<li>Transfer to a pot with the stock and simmer for 10 minutes.</li>
<li>Blend until smooth, season and finish with torn basil.</li>
</ol>`,
	}
}

func pastaAglioOlio() *domain.RecipeDetail {
	return &domain.RecipeDetail{
		ID:             1004,
		Title:          "Pasta Aglio e Olio",
		Servings:       2,
		ReadyInMinutes: 15,
		Ingredients: ingredients(
			"200 g spaghetti",
			"6 cloves garlic, thinly sliced",
			"80 ml olive oil",
			"1 tsp chili flakes",
			"a bunch of parsley, chopped",
		),
		InstructionsHTML: `Cook the spaghetti in salted water.
Meanwhile warm the oil with the garlic over low heat until golden.
Add the chili flakes, then toss in the drained pasta with a splash of cooking water and the parsley.`,
	}
}

func bananaPancakes() *domain.RecipeDetail {
	return &domain.RecipeDetail{
		ID:             1005,
		Title:          "Banana Pancakes",
		Servings:       2,
		ReadyInMinutes: 20,
		Ingredients: ingredients(
			"2 ripe bananas",
			"2 eggs",
			"120 g flour",
			"1 tsp baking powder",
			"150 ml milk",
			"butter for the pan",
		),
		InstructionsHTML: `<ol>
<li>Mash the bananas and whisk in the eggs and milk.</li>
<li>Fold in the flour and baking powder until just combined.</li>
<li>Cook ladlefuls in a buttered pan for 2 minutes per side.</li>
</ol>`,
	}
}

func shakshuka() *domain.RecipeDetail {
	return &domain.RecipeDetail{
		ID:             1006,
		Title:          "Shakshuka",
		Servings:       3,
		ReadyInMinutes: 35,
		Ingredients: ingredients(
			"1 onion, diced",
			"1 red pepper, diced",
			"2 cloves garlic",
			"1 tsp cumin",
			"1 tsp paprika",
			"800 g canned tomatoes",
			"5 eggs",
		),
		InstructionsHTML: `<p>Soften the onion and pepper in olive oil, then add the garlic and spices.</p>
<p>Pour in the tomatoes and simmer for 10 minutes.</p>
<p>Make wells in the sauce, crack in the eggs, cover and cook until the whites set.</p>`,
	}
}
