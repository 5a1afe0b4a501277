package service

import (
	"strings"
	"testing"
)

func TestRenderMarkdownProducesHTML(t *testing.T) {
	html := RenderMarkdown("# Title\n\nSome **bold** text.")
	if !strings.Contains(html, "<h1>") {
		t.Fatalf("expected heading in output, got %q", html)
	}
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Fatalf("expected bold text in output, got %q", html)
	}
}

func TestRenderMarkdownStripsScripts(t *testing.T) {
	html := RenderMarkdown("hello <script>alert(1)</script> world")
	if strings.Contains(html, "<script>") {
		t.Fatalf("expected script tags removed, got %q", html)
	}
}
