package server

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

// Summaries are written with single newlines between sentences, so breaks are hard.
var md = goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps()))

var policy = bluemonday.UGCPolicy()

// renderMarkdown converts upstream summary text into sanitized HTML.
func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes())) //nolint: gosec
}
