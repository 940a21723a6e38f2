// Package markup turns the instructions markup returned by the recipe
// service into something safe to show and to read aloud.
//
// Source markup is untrusted. Everything goes through Sanitize first, which
// keeps a small set of formatting tags and drops the rest (scripts, styles,
// links, images, attributes).
package markup

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"p", "br", "div", "span",
		"ol", "ul", "li",
		"b", "strong", "i", "em",
		"h1", "h2", "h3", "h4", "h5", "h6",
	)
	return p
}

// Sanitize returns src with every tag outside the formatting allow-list
// removed. Text content of removed tags is kept, except for script and
// style bodies.
func Sanitize(src string) string {
	return policy.Sanitize(src)
}

var (
	blankLines = regexp.MustCompile(`\n{3,}`)
	mdSpecial  = strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "#", `\#`)
)

type list struct {
	ordered bool
	n       int
}

// ToMarkdown converts instructions markup into markdown suitable for a
// terminal renderer. Plain text input (no tags) keeps its line breaks as
// paragraphs.
func ToMarkdown(src string) string {
	if !strings.Contains(src, "<") {
		var paras []string
		for _, line := range strings.Split(src, "\n") {
			if line = squash(line); line != "" {
				paras = append(paras, mdSpecial.Replace(line))
			}
		}
		return strings.Join(paras, "\n\n")
	}

	var (
		b     strings.Builder
		lists []list
	)
	z := html.NewTokenizer(strings.NewReader(Sanitize(src)))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return tidy(b.String())

		case html.TextToken:
			writeText(&b, mdSpecial.Replace(collapse(string(z.Text()))))

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch a := atom.Lookup(name); a {
			case atom.P, atom.Div:
				b.WriteString("\n\n")
			case atom.Br:
				b.WriteString("\n")
			case atom.Ol, atom.Ul:
				if len(lists) == 0 {
					b.WriteString("\n\n")
				}
				lists = append(lists, list{ordered: a == atom.Ol})
			case atom.Li:
				b.WriteString("\n")
				if len(lists) == 0 {
					b.WriteString("- ")
					break
				}
				top := &lists[len(lists)-1]
				b.WriteString(strings.Repeat("   ", len(lists)-1))
				if top.ordered {
					top.n++
					fmt.Fprintf(&b, "%d. ", top.n)
				} else {
					b.WriteString("- ")
				}
			case atom.B, atom.Strong:
				b.WriteString("**")
			case atom.I, atom.Em:
				b.WriteString("_")
			case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
				b.WriteString("\n\n### ")
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.P, atom.Div:
				b.WriteString("\n\n")
			case atom.Ol, atom.Ul:
				if len(lists) > 0 {
					lists = lists[:len(lists)-1]
				}
				if len(lists) == 0 {
					b.WriteString("\n\n")
				}
			case atom.B, atom.Strong:
				b.WriteString("**")
			case atom.I, atom.Em:
				b.WriteString("_")
			case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
				b.WriteString("\n\n")
			}
		}
	}
}

// Escape makes one line of plain text safe to place inside markdown.
func Escape(s string) string {
	return mdSpecial.Replace(squash(s))
}

// PlainText flattens instructions markup into a single run of sentences
// for narration. Every block (paragraph, list item, line break) becomes a
// sentence of its own.
func PlainText(src string) string {
	var lines []string
	if !strings.Contains(src, "<") {
		lines = strings.Split(src, "\n")
	} else {
		var b strings.Builder
		z := html.NewTokenizer(strings.NewReader(Sanitize(src)))
	loop:
		for {
			switch z.Next() {
			case html.ErrorToken:
				break loop
			case html.TextToken:
				writeText(&b, collapse(string(z.Text())))
			case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
				name, _ := z.TagName()
				if isBlock(atom.Lookup(name)) {
					b.WriteString("\n")
				}
			}
		}
		lines = strings.Split(b.String(), "\n")
	}

	var out []string
	for _, line := range lines {
		line = squash(line)
		if line == "" {
			continue
		}
		if !strings.ContainsAny(line[len(line)-1:], ".!?:;") {
			line += "."
		}
		out = append(out, line)
	}
	return strings.Join(out, " ")
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Br, atom.Li, atom.Ol, atom.Ul,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// collapse folds runs of whitespace into single spaces, keeping one
// leading and one trailing space when src had them.
func collapse(src string) string {
	fields := strings.Fields(src)
	if len(fields) == 0 {
		if src != "" {
			return " "
		}
		return ""
	}
	out := strings.Join(fields, " ")
	if strings.TrimLeft(src, " \t\r\n") != src {
		out = " " + out
	}
	if strings.TrimRight(src, " \t\r\n") != src {
		out += " "
	}
	return out
}

// writeText appends t, dropping leading spaces at the start of a line.
func writeText(b *strings.Builder, t string) {
	if t == "" {
		return
	}
	s := b.String()
	if s == "" || strings.HasSuffix(s, "\n") || strings.HasSuffix(s, " ") {
		t = strings.TrimLeft(t, " ")
	}
	b.WriteString(t)
}

func tidy(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	s = strings.Join(lines, "\n")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
