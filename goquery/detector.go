package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Detector identifies documentation frameworks from HTML content.
// It checks for framework-specific CSS classes, data attributes, meta tags,
// and structural markers that are unique to each documentation generator.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect parses html and returns the identified framework.
// Returns FrameworkUnknown if the framework cannot be determined.
func (d *Detector) Detect(html string) Framework {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return FrameworkUnknown
	}
	return d.DetectDocument(doc)
}

// DetectDocument identifies the framework of an already parsed document.
func (d *Detector) DetectDocument(doc *goquery.Document) Framework {
	// Meta generator tags are the most reliable signal when present
	if framework := d.detectFromMetaGenerator(doc); framework != FrameworkUnknown {
		return framework
	}

	// __docusaurus_skipToContent_fallback is highly specific
	if d.hasSelector(doc, "#__docusaurus_skipToContent_fallback") ||
		d.hasSelector(doc, ".theme-doc-sidebar-container") ||
		d.hasSelector(doc, "[data-rh]") && d.hasSelector(doc, "[data-theme]") {
		return FrameworkDocusaurus
	}

	// data-md-* attributes are unique to MkDocs Material
	if d.hasSelector(doc, "[data-md-color-scheme]") ||
		d.hasSelector(doc, "[data-md-component]") ||
		d.hasSelector(doc, ".md-nav--primary") {
		return FrameworkMkDocs
	}

	// Sphinx, including the ReadTheDocs theme
	if d.hasSelector(doc, ".toctree-wrapper") ||
		d.hasSelector(doc, ".wy-nav-side") ||
		d.hasSelector(doc, ".wy-menu-vertical") ||
		d.hasSelector(doc, ".sphinxsidebar") {
		return FrameworkSphinx
	}

	// VitePress before VuePress since VitePress is a VuePress successor
	if d.hasSelector(doc, "#VPContent") ||
		d.hasSelector(doc, ".VPDoc") ||
		d.hasSelector(doc, ".VPDocAsideOutline") {
		return FrameworkVitePress
	}

	if d.hasSelector(doc, ".theme-default-content") ||
		d.hasSelector(doc, ".sidebar-links") ||
		d.hasSelector(doc, ".vuepress-navbar") {
		return FrameworkVuePress
	}

	if d.hasSelector(doc, "[data-testid='space.sidebar']") ||
		d.hasSelector(doc, "[data-testid='page.desktopTableOfContents']") ||
		d.hasGitBookClasses(doc) {
		return FrameworkGitBook
	}

	if d.hasSelector(doc, ".nextra-navbar") ||
		d.hasSelector(doc, ".nextra-sidebar") ||
		d.hasSelector(doc, ".nextra-toc") {
		return FrameworkNextra
	}

	return FrameworkUnknown
}

// detectFromMetaGenerator checks the meta generator tag for framework identification.
func (d *Detector) detectFromMetaGenerator(doc *goquery.Document) Framework {
	generator := ""
	doc.Find("meta[name='generator']").Each(func(_ int, s *goquery.Selection) {
		if content, exists := s.Attr("content"); exists {
			generator = strings.ToLower(content)
		}
	})

	if generator == "" {
		return FrameworkUnknown
	}

	switch {
	case strings.Contains(generator, "sphinx"):
		return FrameworkSphinx
	case strings.Contains(generator, "gitbook"):
		return FrameworkGitBook
	case strings.Contains(generator, "docusaurus"):
		return FrameworkDocusaurus
	case strings.Contains(generator, "mkdocs"):
		return FrameworkMkDocs
	case strings.Contains(generator, "vitepress"):
		return FrameworkVitePress
	case strings.Contains(generator, "vuepress"):
		return FrameworkVuePress
	case strings.Contains(generator, "nextra"):
		return FrameworkNextra
	}

	return FrameworkUnknown
}

func (d *Detector) hasSelector(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}

// hasGitBookClasses requires at least two of GitBook's distinctive classes
// on the html element: circular-corners, theme-clean, tint.
func (d *Detector) hasGitBookClasses(doc *goquery.Document) bool {
	htmlClass, _ := doc.Find("html").Attr("class")
	if htmlClass == "" {
		return false
	}

	count := 0
	for _, class := range []string{"circular-corners", "theme-clean", "tint"} {
		if strings.Contains(htmlClass, class) {
			count++
		}
	}
	return count >= 2
}
