package service

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))
	htmlSanitizer    = bluemonday.UGCPolicy()
)

// RenderMarkdown converts a markdown post body to sanitized HTML.
func RenderMarkdown(source string) string {
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(source), &buf); err != nil {
		return ""
	}
	return htmlSanitizer.Sanitize(buf.String())
}
