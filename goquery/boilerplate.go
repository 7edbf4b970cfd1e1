package goquery

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// landmarks are boilerplate wherever they appear in the document.
var landmarks = cascadia.MustCompile(`nav, aside, menu, ` +
	`[role="navigation"], [role="banner"], [role="contentinfo"], ` +
	`[role="complementary"], [role="menu"], [role="menubar"], [role="search"]`)

// markers are id and class name parts that identify page chrome.
var markers = map[string]bool{
	"sidebar":       true,
	"navbar":        true,
	"nav":           true,
	"navigation":    true,
	"menu":          true,
	"breadcrumb":    true,
	"breadcrumbs":   true,
	"toc":           true,
	"header":        true,
	"footer":        true,
	"masthead":      true,
	"ad":            true,
	"ads":           true,
	"advert":        true,
	"advertisement": true,
	"sponsor":       true,
	"cookie":        true,
	"consent":       true,
	"share":         true,
	"social":        true,
}

// pageLevel markers only count outside sectioning content, mirroring the
// implicit banner/contentinfo roles of header and footer.
var pageLevel = map[string]bool{
	"header":   true,
	"footer":   true,
	"masthead": true,
}

// isBoilerplate reports whether n is navigation, page header or footer,
// a side panel or similar chrome. chrome adds framework-specific matches
// and may be nil.
func isBoilerplate(n *html.Node, chrome cascadia.Matcher) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Html, atom.Body, atom.Main, atom.Article:
		return false
	case atom.Header, atom.Footer:
		if !inSection(n) {
			return true
		}
	}
	if landmarks.Match(n) {
		return true
	}
	if chrome != nil && chrome.Match(n) {
		return true
	}
	marker := findMarker(n)
	if marker == "" {
		return false
	}
	if pageLevel[marker] {
		return !inSection(n)
	}
	return true
}

// inSection reports whether n has a sectioning ancestor.
func inSection(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		switch p.DataAtom {
		case atom.Article, atom.Aside, atom.Main, atom.Nav, atom.Section:
			return true
		}
	}
	return false
}

// findMarker returns the first marker found in the id or class attribute.
// Tokens are split on '-' and '_' so "site-nav" and "left_sidebar" match.
// Modifier tokens such as "has-sidebar" describe layout, not chrome.
func findMarker(n *html.Node) string {
	for _, attr := range n.Attr {
		if attr.Key != "id" && attr.Key != "class" {
			continue
		}
		for _, token := range strings.Fields(strings.ToLower(attr.Val)) {
			if strings.HasPrefix(token, "has-") || strings.HasPrefix(token, "with-") || strings.HasPrefix(token, "no-") {
				continue
			}
			for _, part := range strings.FieldsFunc(token, isSeparator) {
				if markers[part] {
					return part
				}
			}
		}
	}
	return ""
}

func isSeparator(r rune) bool {
	return r == '-' || r == '_'
}
