package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/hammamikhairi/fridgechef/internal/domain"
	"github.com/hammamikhairi/fridgechef/internal/markup"
)

// Renderer turns results and recipes into terminal output.
type Renderer struct {
	style string
	width int
	md    *glamour.TermRenderer
}

// RendererOption configures the Renderer.
type RendererOption func(*Renderer)

// WithStyle selects a glamour standard style ("dark", "light", "notty").
func WithStyle(style string) RendererOption {
	return func(r *Renderer) { r.style = style }
}

// WithWidth sets the word-wrap width. It is clamped to 20..120.
func WithWidth(w int) RendererOption {
	return func(r *Renderer) { r.width = w }
}

// NewRenderer creates a renderer. The default style is "dark" and the
// default width follows the terminal.
func NewRenderer(opts ...RendererOption) (*Renderer, error) {
	r := &Renderer{style: "dark", width: termWidth() - 4}
	for _, opt := range opts {
		opt(r)
	}
	r.width = min(max(r.width, 20), 120)

	md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.style),
		glamour.WithWordWrap(r.width),
	)
	if err != nil {
		return nil, fmt.Errorf("display: markdown renderer: %w", err)
	}
	r.md = md
	return r, nil
}

// Results renders a numbered result list.
func (r *Renderer) Results(query string, results []domain.SearchResult) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render(fmt.Sprintf("  Results for %q", query)))
	b.WriteByte('\n')
	for i, res := range results {
		fmt.Fprintf(&b, "  %s %s %s\n",
			promptStyle.Render(fmt.Sprintf("%2d.", i+1)),
			primaryStyle.Render(res.Title),
			secondaryStyle.Render("#"+res.ID.String()))
		if res.ImageURL != "" {
			b.WriteString("      " + secondaryStyle.Render(res.ImageURL) + "\n")
		}
	}
	b.WriteString(secondaryStyle.Render("  Type a number to open a recipe."))
	return b.String()
}

// Detail renders one recipe.
func (r *Renderer) Detail(d *domain.RecipeDetail) (string, error) {
	out, err := r.md.Render(DetailMarkdown(d))
	if err != nil {
		return "", fmt.Errorf("display: rendering %s: %w", d.ID, err)
	}
	return out, nil
}

// DetailMarkdown builds the markdown document for a recipe. The
// instructions markup is sanitized on the way.
func DetailMarkdown(d *domain.RecipeDetail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", markup.Escape(d.Title))

	var meta []string
	if d.Servings > 0 {
		meta = append(meta, fmt.Sprintf("Serves %d", d.Servings))
	}
	if d.ReadyInMinutes > 0 {
		meta = append(meta, fmt.Sprintf("Ready in %d min", d.ReadyInMinutes))
	}
	if len(meta) > 0 {
		fmt.Fprintf(&b, "_%s_\n\n", strings.Join(meta, " · "))
	}

	b.WriteString("## Ingredients\n\n")
	if len(d.Ingredients) == 0 {
		b.WriteString("_None listed._\n")
	}
	for _, ing := range d.Ingredients {
		fmt.Fprintf(&b, "- %s\n", markup.Escape(ing.Original))
	}

	b.WriteString("\n## Instructions\n\n")
	if instr := markup.ToMarkdown(d.InstructionsHTML); instr != "" {
		b.WriteString(instr)
		b.WriteByte('\n')
	} else {
		b.WriteString("_No instructions provided._\n")
	}

	if d.SourceURL != "" {
		fmt.Fprintf(&b, "\nSource: %s\n", d.SourceURL)
	}
	if d.ImageURL != "" {
		fmt.Fprintf(&b, "\nImage: %s\n", d.ImageURL)
	}
	return b.String()
}

// Help lists the prompt commands.
func Help() string {
	rows := [][2]string{
		{"<dish>, search <dish>", "search recipes"},
		{"1..10, open <n>, #<id>", "open a result or a recipe id"},
		{"speak", "read the instructions aloud (again to stop)"},
		{"stop", "stop reading"},
		{"close, back, Esc", "close the recipe"},
		{"results", "show the last results again"},
		{"show", "show the open recipe again"},
		{"help", "this list"},
		{"quit", "exit"},
	}
	var b strings.Builder
	b.WriteString(headingStyle.Render("  Commands"))
	for _, row := range rows {
		fmt.Fprintf(&b, "\n  %s %s", primaryStyle.Render(fmt.Sprintf("%-24s", row[0])), secondaryStyle.Render(row[1]))
	}
	return b.String()
}
