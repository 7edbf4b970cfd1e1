package goquery_test

import (
	"testing"

	"github.com/fwojciec/readthis/goquery"
	"github.com/stretchr/testify/assert"
)

func TestDetector_Detect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want goquery.Framework
	}{
		{
			name: "Docusaurus from skip link",
			html: `<html><body><a id="__docusaurus_skipToContent_fallback" href="#x">Skip</a></body></html>`,
			want: goquery.FrameworkDocusaurus,
		},
		{
			name: "Docusaurus from sidebar container",
			html: `<html><body><div class="theme-doc-sidebar-container"><nav class="menu"></nav></div></body></html>`,
			want: goquery.FrameworkDocusaurus,
		},
		{
			name: "MkDocs from data-md-color-scheme",
			html: `<html><body data-md-color-scheme="default"><nav class="md-nav md-nav--primary"></nav></body></html>`,
			want: goquery.FrameworkMkDocs,
		},
		{
			name: "Sphinx from ReadTheDocs theme",
			html: `<html><body><nav class="wy-nav-side"></nav></body></html>`,
			want: goquery.FrameworkSphinx,
		},
		{
			name: "VitePress from VPContent",
			html: `<html><body><div id="VPContent"></div></body></html>`,
			want: goquery.FrameworkVitePress,
		},
		{
			name: "VuePress from default theme content",
			html: `<html><body><div class="theme-default-content"></div></body></html>`,
			want: goquery.FrameworkVuePress,
		},
		{
			name: "GitBook from html classes",
			html: `<html class="circular-corners theme-clean tint"><body></body></html>`,
			want: goquery.FrameworkGitBook,
		},
		{
			name: "Nextra from navbar",
			html: `<html><body><div class="nextra-navbar"></div></body></html>`,
			want: goquery.FrameworkNextra,
		},
		{
			name: "meta generator wins over structure",
			html: `<html><head><meta name="generator" content="Sphinx 7.2.6"></head><body><div id="VPContent"></div></body></html>`,
			want: goquery.FrameworkSphinx,
		},
		{
			name: "single GitBook class is not enough",
			html: `<html class="tint"><body></body></html>`,
			want: goquery.FrameworkUnknown,
		},
		{
			name: "plain page",
			html: `<html><body><p>Hello</p></body></html>`,
			want: goquery.FrameworkUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := goquery.NewDetector()

			assert.Equal(t, tt.want, d.Detect(tt.html))
		})
	}
}
