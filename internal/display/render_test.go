package display

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/fridgechef/internal/domain"
)

func sampleDetail() *domain.RecipeDetail {
	return &domain.RecipeDetail{
		ID:             716429,
		Title:          "Pasta with Garlic",
		Servings:       2,
		ReadyInMinutes: 45,
		SourceURL:      "https://example.org/pasta",
		Ingredients: []domain.Ingredient{
			{ID: 1, Original: "1 tbsp butter"},
			{ID: 2, Original: "2 cloves garlic"},
		},
		InstructionsHTML: `<ol><li>Boil water.</li><li>Cook pasta.</li></ol><script>alert(1)</script>`,
	}
}

func TestDetailMarkdown(t *testing.T) {
	md := DetailMarkdown(sampleDetail())

	assert.True(t, strings.HasPrefix(md, "# Pasta with Garlic\n"))
	assert.Contains(t, md, "_Serves 2 · Ready in 45 min_")
	assert.Contains(t, md, "- 1 tbsp butter\n- 2 cloves garlic\n")
	assert.Contains(t, md, "1. Boil water.\n2. Cook pasta.")
	assert.Contains(t, md, "Source: https://example.org/pasta")
	assert.NotContains(t, md, "alert")
}

func TestDetailMarkdownEmptySections(t *testing.T) {
	md := DetailMarkdown(&domain.RecipeDetail{ID: 1, Title: "Water"})

	assert.Contains(t, md, "_None listed._")
	assert.Contains(t, md, "_No instructions provided._")
	assert.NotContains(t, md, "Serves")
	assert.NotContains(t, md, "Source:")
}

func TestDetailMarkdownEscapesTitleAndIngredients(t *testing.T) {
	md := DetailMarkdown(&domain.RecipeDetail{
		ID:          2,
		Title:       "#1 *Best* Mac_and_Cheese",
		Ingredients: []domain.Ingredient{{ID: 1, Original: "2 cups *sharp* cheddar"}},
	})

	assert.True(t, strings.HasPrefix(md, `# \#1 \*Best\* Mac\_and\_Cheese`+"\n"))
	assert.Contains(t, md, `- 2 cups \*sharp\* cheddar`+"\n")
}

func TestDetailMarkdownImage(t *testing.T) {
	d := sampleDetail()
	d.ImageURL = "https://img.example.org/716429.jpg"

	assert.Contains(t, DetailMarkdown(d), "Image: https://img.example.org/716429.jpg")
	assert.NotContains(t, DetailMarkdown(sampleDetail()), "Image:")
}

func TestRendererDetail(t *testing.T) {
	r, err := NewRenderer(WithStyle("notty"), WithWidth(80))
	require.NoError(t, err)

	out, err := r.Detail(sampleDetail())

	require.NoError(t, err)
	assert.Contains(t, out, "Pasta with Garlic")
	assert.Contains(t, out, "Boil water.")
	assert.Contains(t, out, "1 tbsp butter")
}

func TestRendererResults(t *testing.T) {
	r, err := NewRenderer(WithStyle("notty"))
	require.NoError(t, err)

	out := r.Results("pasta", []domain.SearchResult{
		{ID: 1, Title: "Carbonara"},
		{ID: 2, Title: "Bolognese"},
	})

	assert.Contains(t, out, "Carbonara")
	assert.Less(t, strings.Index(out, "Carbonara"), strings.Index(out, "Bolognese"))
	assert.Contains(t, out, " 2.")
}

func TestRendererResultsShowImages(t *testing.T) {
	r, err := NewRenderer(WithStyle("notty"))
	require.NoError(t, err)

	out := r.Results("soup", []domain.SearchResult{
		{ID: 1, Title: "Tomato Soup", ImageURL: "https://img.example.org/1.jpg"},
		{ID: 2, Title: "Miso Soup"},
	})

	img := strings.Index(out, "https://img.example.org/1.jpg")
	require.GreaterOrEqual(t, img, 0)
	assert.Less(t, strings.Index(out, "Tomato Soup"), img)
	assert.Less(t, img, strings.Index(out, "Miso Soup"))
}

func TestBannerCentresNotesWithArt(t *testing.T) {
	notes := StartupNotes(true)
	out := Banner(120, notes...)

	for _, n := range notes {
		assert.Contains(t, out, n)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	for _, l := range lines {
		assert.LessOrEqual(t, lipgloss.Width(l), 120)
	}
	assert.True(t, strings.HasPrefix(lines[0], strings.Repeat(" ", 20)), "art is not centred: %q", lines[0])
}

func TestBannerNarrowTerminal(t *testing.T) {
	out := Banner(10)

	assert.Contains(t, out, "/___/")
	assert.False(t, strings.HasPrefix(out, strings.Repeat(" ", 10)))
}

func TestStartupNotes(t *testing.T) {
	assert.Len(t, StartupNotes(false), 1)

	offline := StartupNotes(true)
	require.Len(t, offline, 2)
	assert.Contains(t, offline[0], "Offline")
}

func TestStatusOf(t *testing.T) {
	detail := &domain.RecipeDetail{ID: 7, Title: "Soup"}

	tests := []struct {
		name  string
		snap  domain.Snapshot
		want  string
		busy  bool
		title string
	}{
		{"idle", domain.Snapshot{}, "", false, "FridgeChef"},
		{
			"searching",
			domain.Snapshot{Query: "soup", Search: domain.Loading[[]domain.SearchResult]()},
			` searching "soup"`, true, "FridgeChef",
		},
		{
			"results",
			domain.Snapshot{Query: "soup", Search: domain.Succeeded([]domain.SearchResult{{ID: 7}})},
			`1 result(s) for "soup"`, false, "FridgeChef",
		},
		{
			"speaking",
			domain.Snapshot{
				Detail:     domain.Succeeded(detail),
				DetailOpen: true,
				Narration:  domain.NarrationState{Speaking: true, UtteranceID: "utt-1"},
			},
			"Soup | ♪ reading aloud", false, "FridgeChef · Soup",
		},
		{
			"detail failed",
			domain.Snapshot{Detail: domain.Failed[*domain.RecipeDetail]("Error: 404 Not Found")},
			"recipe: Error: 404 Not Found", false, "FridgeChef",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := StatusOf(tt.snap)
			assert.Equal(t, tt.want, st.String())
			assert.Equal(t, tt.busy, st.Busy())
			assert.Equal(t, tt.title, st.Title())
		})
	}
}
