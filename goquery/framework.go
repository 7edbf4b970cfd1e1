package goquery

import "github.com/andybalholm/cascadia"

// Framework identifies a documentation framework.
type Framework string

// Supported documentation frameworks.
const (
	FrameworkUnknown    Framework = ""
	FrameworkDocusaurus Framework = "docusaurus"
	FrameworkMkDocs     Framework = "mkdocs"
	FrameworkSphinx     Framework = "sphinx"
	FrameworkVuePress   Framework = "vuepress"
	FrameworkVitePress  Framework = "vitepress"
	FrameworkGitBook    Framework = "gitbook"
	FrameworkNextra     Framework = "nextra"
)

// profile describes where a framework puts its content and its chrome.
type profile struct {
	// content matches the framework's main content container.
	content cascadia.Matcher
	// chrome matches framework-specific navigation that generic markers miss.
	chrome  cascadia.Matcher
}

var profiles = map[Framework]profile{
	FrameworkDocusaurus: {
		content: cascadia.MustCompile(`.theme-doc-markdown`),
		chrome:  cascadia.MustCompile(`.theme-doc-sidebar-container, .table-of-contents, .pagination-nav, .theme-doc-toc-desktop, .theme-doc-toc-mobile, .theme-doc-breadcrumbs, .theme-doc-footer`),
	},
	FrameworkMkDocs: {
		content: cascadia.MustCompile(`.md-content__inner`),
		chrome:  cascadia.MustCompile(`.md-sidebar, .md-header, .md-footer, .md-tabs, .md-source-file`),
	},
	FrameworkSphinx: {
		content: cascadia.MustCompile(`.rst-content [role="main"], .document .body, .rst-content`),
		chrome:  cascadia.MustCompile(`.sphinxsidebar, .wy-nav-side, .wy-menu-vertical, .related, .rst-footer-buttons, .wy-breadcrumbs, .headerlink`),
	},
	FrameworkVitePress: {
		content: cascadia.MustCompile(`.vp-doc`),
		chrome:  cascadia.MustCompile(`.VPSidebar, .VPNav, .VPLocalNav, .VPDocAsideOutline, .VPDocFooter`),
	},
	FrameworkVuePress: {
		content: cascadia.MustCompile(`.theme-default-content`),
		chrome:  cascadia.MustCompile(`.sidebar-links, .vuepress-navbar, .page-nav, .page-edit`),
	},
	FrameworkGitBook: {
		content: cascadia.MustCompile(`[data-testid="page.contentEditor"]`),
		chrome:  cascadia.MustCompile(`[data-testid="space.sidebar"], [data-testid="space.header"], [data-testid="page.desktopTableOfContents"]`),
	},
	FrameworkNextra: {
		content: cascadia.MustCompile(`.nextra-content`),
		chrome:  cascadia.MustCompile(`.nextra-navbar, .nextra-sidebar-container, .nextra-sidebar, .nextra-toc, .nextra-breadcrumb`),
	},
}
