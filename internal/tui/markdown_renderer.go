package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Description previews never wrap narrower than this.
const minPreviewWidth = 24

// markdownRenderer renders task descriptions through glamour, one renderer per wrap width.
type markdownRenderer struct {
	style     string
	renderers map[int]*glamour.TermRenderer
}

func (r *markdownRenderer) termRenderer(width int) (*glamour.TermRenderer, error) {
	if tr, ok := r.renderers[width]; ok {
		return tr, nil
	}
	style := strings.TrimSpace(r.style)
	if style == "" {
		style = "dark"
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return nil, err
	}
	if r.renderers == nil {
		r.renderers = map[int]*glamour.TermRenderer{}
	}
	r.renderers[width] = tr
	return tr, nil
}

// render returns the styled description, or the trimmed source when glamour fails.
func (r *markdownRenderer) render(markdown string, width int) string {
	source := strings.TrimSpace(markdown)
	if source == "" {
		return ""
	}
	tr, err := r.termRenderer(max(width, minPreviewWidth))
	if err != nil {
		return source
	}
	out, err := tr.Render(source)
	if err != nil {
		return source
	}
	// glamour pads the document with blank lines on both ends.
	return strings.Trim(out, "\n")
}
