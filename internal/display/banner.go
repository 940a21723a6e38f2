package display

import (
	_ "embed"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

//go:embed banner.txt
var bannerRaw string

// StartupNotes are the hint lines shown under the banner.
func StartupNotes(offline bool) []string {
	notes := []string{"Type a dish to search, 'help' for commands, 'quit' to exit."}
	if offline {
		notes = append([]string{"Offline catalog. Try 'pasta' or 'soup'."}, notes...)
	}
	return notes
}

// RenderBanner lays out the FridgeChef art with the given notes beneath it,
// centred as one block for the current terminal width.
func RenderBanner(notes ...string) string {
	return Banner(termWidth(), notes...)
}

// Banner is RenderBanner for a fixed width. The art is never scaled; a
// terminal narrower than the art gets it flush left.
func Banner(width int, notes ...string) string {
	art := BannerStyle.Render(strings.TrimRight(bannerRaw, "\n"))

	parts := []string{art}
	if len(notes) > 0 {
		styled := make([]string, len(notes))
		for i, n := range notes {
			styled[i] = secondaryStyle.Render(n)
		}
		parts = append(parts, "", lipgloss.JoinVertical(lipgloss.Center, styled...))
	}

	block := lipgloss.JoinVertical(lipgloss.Center, parts...)
	if width > lipgloss.Width(block) {
		block = lipgloss.PlaceHorizontal(width, lipgloss.Center, block)
	}
	return block + "\n"
}

// termWidth returns the stdout column count, or 80 when it is not a terminal.
func termWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 80
}
