package goquery

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// breaks is the number of line breaks a block element forces around itself.
// Paragraph-like blocks get a blank line, other blocks a single newline.
var breaks = map[atom.Atom]int{
	atom.P:          2,
	atom.H1:         2,
	atom.H2:         2,
	atom.H3:         2,
	atom.H4:         2,
	atom.H5:         2,
	atom.H6:         2,
	atom.Pre:        2,
	atom.Blockquote: 2,
	atom.Table:      2,
	atom.Ul:         2,
	atom.Ol:         2,
	atom.Dl:         2,
	atom.Figure:     2,
	atom.Hr:         2,
	atom.Div:        1,
	atom.Section:    1,
	atom.Article:    1,
	atom.Main:       1,
	atom.Header:     1,
	atom.Footer:     1,
	atom.Aside:      1,
	atom.Nav:        1,
	atom.Li:         1,
	atom.Dt:         1,
	atom.Dd:         1,
	atom.Tr:         1,
	atom.Figcaption: 1,
	atom.Details:    1,
	atom.Summary:    1,
	atom.Address:    1,
}

// textWriter builds normalized text. Whitespace inside a line collapses to
// single spaces. Pending breaks and list bullets are emitted lazily, only
// once text follows them, so empty items and blank edges leave no trace.
type textWriter struct {
	b       strings.Builder
	pending int
	space   bool
	bullet  string
}

func (w *textWriter) lineBreak(n int) {
	if n > w.pending {
		w.pending = n
	}
	w.space = false
}

func (w *textWriter) flush() {
	if w.b.Len() > 0 && w.pending > 0 {
		w.b.WriteString(strings.Repeat("\n", w.pending))
	}
	w.pending = 0
}

func (w *textWriter) text(s string) {
	leading := len(s) > 0 && isSpace(s[0])
	trailing := len(s) > 0 && isSpace(s[len(s)-1])
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if leading {
			w.space = true
		}
		return
	}
	if w.pending > 0 {
		w.flush()
	} else if (w.space || leading) && !w.atBoundary() {
		w.b.WriteByte(' ')
	}
	w.writeBullet()
	w.b.WriteString(strings.Join(fields, " "))
	w.space = trailing
}

func (w *textWriter) raw(s string) {
	s = strings.Trim(s, "\n")
	if strings.TrimSpace(s) == "" {
		return
	}
	w.flush()
	w.writeBullet()
	w.b.WriteString(s)
	w.space = false
}

func (w *textWriter) writeBullet() {
	if w.bullet != "" {
		w.b.WriteString(w.bullet)
		w.bullet = ""
	}
}

// atBoundary reports whether the output is empty or ends in whitespace.
func (w *textWriter) atBoundary() bool {
	str := w.b.String()
	return str == "" || isSpace(str[len(str)-1])
}

func (w *textWriter) String() string {
	return strings.TrimSpace(w.b.String())
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// serialize renders n as plain text. Headings and paragraphs end up on
// their own lines, list items get a "- " prefix and preformatted text keeps
// its layout. With skipBoiler set, boilerplate subtrees are left out.
func serialize(n *html.Node, chrome cascadia.Matcher, skipBoiler bool) string {
	w := &textWriter{}
	writeNode(w, n, chrome, skipBoiler)
	return w.String()
}

func writeNode(w *textWriter, n *html.Node, chrome cascadia.Matcher, skipBoiler bool) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data)
		return
	case html.ElementNode:
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeNode(w, c, chrome, skipBoiler)
		}
		return
	default:
		return
	}

	if skipBoiler && isBoilerplate(n, chrome) {
		return
	}

	switch n.DataAtom {
	case atom.Br:
		w.lineBreak(1)
		return
	case atom.Pre:
		w.lineBreak(2)
		w.raw(rawText(n))
		w.lineBreak(2)
		return
	case atom.Td, atom.Th:
		w.space = true
	}

	gap := breaks[n.DataAtom]
	if gap > 0 {
		w.lineBreak(gap)
	}
	if n.DataAtom == atom.Li {
		w.bullet = "- "
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNode(w, c, chrome, skipBoiler)
	}
	if n.DataAtom == atom.Li {
		w.bullet = ""
	}
	if gap > 0 {
		w.lineBreak(gap)
	}
}

// rawText returns the text under n without whitespace normalization.
func rawText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Br {
			b.WriteByte('\n')
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
