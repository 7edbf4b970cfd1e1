// Package goquery implements readthis.Extractor with a deterministic text
// density heuristic over a goquery-parsed document.
package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/readthis"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Default scoring weights. They are tuning constants, not contract.
const (
	// DefaultNavPenalty is subtracted per boilerplate descendant.
	DefaultNavPenalty = 25

	// DefaultLinkRunPenalty is subtracted per link-only text run.
	DefaultLinkRunPenalty = 5

	// DefaultContentBonus is added to a detected framework's content region.
	DefaultContentBonus = 50
)

// Ensure Extractor implements readthis.Extractor at compile time.
var _ readthis.Extractor = (*Extractor)(nil)

// Extractor selects the main content region of a page by scoring every
// block container: visible text minus text inside boilerplate, minus a
// penalty per boilerplate descendant and per link-only text run. The
// highest score wins and ties go to the earliest container in document
// order, so identical markup always yields identical output.
type Extractor struct {
	navPenalty     int
	linkRunPenalty int
	contentBonus   int
	detector       *Detector
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithNavPenalty sets the penalty per boilerplate descendant.
func WithNavPenalty(n int) Option {
	return func(e *Extractor) {
		e.navPenalty = n
	}
}

// WithLinkRunPenalty sets the penalty per link-only text run.
func WithLinkRunPenalty(n int) Option {
	return func(e *Extractor) {
		e.linkRunPenalty = n
	}
}

// WithContentBonus sets the bonus for a documentation framework's content
// region. A zero bonus disables framework detection.
func WithContentBonus(n int) Option {
	return func(e *Extractor) {
		e.contentBonus = n
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		navPenalty:     DefaultNavPenalty,
		linkRunPenalty: DefaultLinkRunPenalty,
		contentBonus:   DefaultContentBonus,
		detector:       NewDetector(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// discarded elements never contribute to scoring or output.
const discarded = "script, style, noscript, template"

// containers are the block-level grouping elements eligible as main content.
var containers = map[atom.Atom]bool{
	atom.Body:       true,
	atom.Main:       true,
	atom.Article:    true,
	atom.Section:    true,
	atom.Div:        true,
	atom.Td:         true,
	atom.Blockquote: true,
}

// page is the per-call scoring state.
type page struct {
	chrome  cascadia.Matcher
	content cascadia.Matcher
}

// tally accumulates counts for a subtree.
type tally struct {
	text        int
	boilerText  int
	boilerCount int
	linkRuns    int
}

func (t *tally) add(o tally) {
	t.text += o.text
	t.boilerText += o.boilerText
	t.boilerCount += o.boilerCount
	t.linkRuns += o.linkRuns
}

type candidate struct {
	node  *html.Node
	score int
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*readthis.ExtractedContent, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, readthis.Errorf(readthis.EEMPTYDOCUMENT, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, readthis.Errorf(readthis.EINVALID, "failed to parse HTML: %v", err)
	}

	doc.Find(discarded).Remove()
	removeComments(doc.Selection.Nodes[0])

	root := doc.Selection.Nodes[0]
	if body := doc.Find("body").First(); body.Length() > 0 {
		root = body.Nodes[0]
	}
	if visibleLen(root) == 0 {
		return nil, readthis.Errorf(readthis.EEMPTYDOCUMENT, "document has no text content")
	}

	p := e.pageFor(doc)
	best := e.selectMain(root, p)
	if best == nil {
		return nil, readthis.Errorf(readthis.ENOCONTENT, "no main content found")
	}

	result := &readthis.ExtractedContent{Title: findTitle(doc)}
	target := best
	result.Text = serialize(best, p.chrome, true)
	if result.Text == "" {
		target = root
		result.Fallback = true
		result.Text = serialize(root, nil, false)
		if result.Text == "" {
			return nil, readthis.Errorf(readthis.ENOCONTENT, "no main content found")
		}
	} else {
		pruneBoilerplate(target, p.chrome)
	}

	contentHTML, err := goquery.OuterHtml(doc.FindNodes(target))
	if err != nil {
		return nil, err
	}
	result.ContentHTML = contentHTML

	return result, nil
}

// pageFor returns the framework profile matchers for doc, if any.
func (e *Extractor) pageFor(doc *goquery.Document) page {
	if e.contentBonus == 0 {
		return page{}
	}
	prof, ok := profiles[e.detector.DetectDocument(doc)]
	if !ok {
		return page{}
	}
	return page{chrome: prof.chrome, content: prof.content}
}

// selectMain scores every container under root and returns the best one,
// or nil if no container scores above zero.
func (e *Extractor) selectMain(root *html.Node, p page) *html.Node {
	var candidates []candidate

	var walk func(n *html.Node, inBoiler bool) tally
	walk = func(n *html.Node, inBoiler bool) tally {
		var t tally
		switch n.Type {
		case html.TextNode:
			t.text = textLen(n.Data)
			return t
		case html.ElementNode, html.DocumentNode:
		default:
			return t
		}

		self := isBoilerplate(n, p.chrome)
		idx := -1
		if !inBoiler && !self && n.Type == html.ElementNode && containers[n.DataAtom] {
			idx = len(candidates)
			candidates = append(candidates, candidate{node: n})
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			t.add(walk(c, inBoiler || self))
		}

		if self {
			t.boilerCount = 1
			t.boilerText = t.text
		} else if !inBoiler && isLinkRun(n) {
			t.linkRuns++
		}

		if idx >= 0 {
			own := t.text - t.boilerText
			score := own - e.navPenalty*t.boilerCount - e.linkRunPenalty*t.linkRuns
			// The bonus needs text of the region's own.
			if own > 0 && p.content != nil && p.content.Match(n) {
				score += e.contentBonus
			}
			candidates[idx].score = score
		}
		return t
	}
	walk(root, false)

	var best *candidate
	for i := range candidates {
		if best == nil || candidates[i].score > best.score {
			best = &candidates[i]
		}
	}
	if best == nil || best.score <= 0 {
		return nil
	}
	return best.node
}

// isLinkRun reports whether n is an anchor that makes up its parent's whole
// text run, as in navigation lists: <li><a>Home</a></li>.
func isLinkRun(n *html.Node) bool {
	if n.Type != html.ElementNode || n.DataAtom != atom.A || n.Parent == nil {
		return false
	}
	if visibleLen(n) == 0 {
		return false
	}
	for s := n.Parent.FirstChild; s != nil; s = s.NextSibling {
		switch {
		case s == n:
		case s.Type == html.TextNode:
			if strings.TrimSpace(s.Data) != "" {
				return false
			}
		case s.Type == html.ElementNode:
			if s.DataAtom != atom.A && s.DataAtom != atom.Br && visibleLen(s) > 0 {
				return false
			}
		}
	}
	return true
}

// textLen counts visible characters in s with whitespace runs collapsed.
func textLen(s string) int {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0
	}
	n := len(fields) - 1
	for _, f := range fields {
		n += utf8.RuneCountInString(f)
	}
	return n
}

// visibleLen counts visible characters under n.
func visibleLen(n *html.Node) int {
	if n.Type == html.TextNode {
		return textLen(n.Data)
	}
	total := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		total += visibleLen(c)
	}
	return total
}

func removeComments(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.CommentNode {
			n.RemoveChild(c)
		} else {
			removeComments(c)
		}
		c = next
	}
}

// pruneBoilerplate removes boilerplate descendants of n.
func pruneBoilerplate(n *html.Node, chrome cascadia.Matcher) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if isBoilerplate(c, chrome) {
			n.RemoveChild(c)
		} else {
			pruneBoilerplate(c, chrome)
		}
		c = next
	}
}

// findTitle returns the page title from <title>, og:title or the first h1.
func findTitle(doc *goquery.Document) string {
	if title := collapse(doc.Find("head title").First().Text()); title != "" {
		return title
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if title := collapse(og); title != "" {
			return title
		}
	}
	return collapse(doc.Find("h1").First().Text())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
