package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeDropsActiveContent(t *testing.T) {
	got := Sanitize(`<p onclick="x()">Boil <a href="javascript:evil()">water</a>.</p><script>alert(1)</script><img src=x onerror=y>`)

	assert.Equal(t, `<p>Boil water.</p>`, got)
}

func TestToMarkdownOrderedList(t *testing.T) {
	src := "<ol>\n<li>Boil <b>water</b>.</li>\n<li>Cook pasta for 8 minutes.</li>\n</ol>"

	assert.Equal(t, "1. Boil **water**.\n2. Cook pasta for 8 minutes.", ToMarkdown(src))
}

func TestToMarkdownParagraphsAndBullets(t *testing.T) {
	src := `<p>Prep first.</p><ul><li>Chop onions</li><li>Mince garlic</li></ul><p>Then cook.</p>`

	assert.Equal(t, "Prep first.\n\n- Chop onions\n- Mince garlic\n\nThen cook.", ToMarkdown(src))
}

func TestToMarkdownPlainInput(t *testing.T) {
	src := "Preheat the oven.\n\n  Bake for 20 minutes. \n"

	assert.Equal(t, "Preheat the oven.\n\nBake for 20 minutes.", ToMarkdown(src))
}

func TestToMarkdownEscapes(t *testing.T) {
	assert.Equal(t, `Use 2\*3 \_cups\_`, ToMarkdown("<p>Use 2*3 _cups_</p>"))
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"list", "<ol><li>Boil water</li><li>Cook pasta.</li></ol>", "Boil water. Cook pasta."},
		{"entities", "<p>Salt &amp; pepper</p>", "Salt & pepper."},
		{"script", "<p>Stir.</p><script>speak('hacked')</script>", "Stir."},
		{"plain", "Mix well\nServe warm!", "Mix well. Serve warm!"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.src))
		})
	}
}

func TestEscape(t *testing.T) {
	assert.Equal(t, `\#1 \*Best\* Mac\_and\_Cheese`, Escape("  #1 *Best*   Mac_and_Cheese "))
	assert.Equal(t, "1 cup rice", Escape("1 cup rice"))
}
