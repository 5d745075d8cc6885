package tui

import (
	"strings"
	"testing"
)

func TestMarkdownRendererCachesPerWidth(t *testing.T) {
	r := &markdownRenderer{style: "notty"}
	if got := r.render("   ", 40); got != "" {
		t.Fatalf("render(blank) = %q, want empty", got)
	}

	out := r.render("**kickoff** notes", 40)
	if !strings.Contains(out, "kickoff") || strings.HasPrefix(out, "\n") {
		t.Fatalf("render() = %q", out)
	}
	_ = r.render("again", 40)
	_ = r.render("narrow", 10)
	if len(r.renderers) != 2 {
		t.Fatalf("expected renderers for widths 40 and the minimum, got %d", len(r.renderers))
	}
	if _, ok := r.renderers[minPreviewWidth]; !ok {
		t.Fatalf("expected narrow widths clamped to %d", minPreviewWidth)
	}
}
