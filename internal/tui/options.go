package tui

import (
	"strings"

	"github.com/atotto/clipboard"

	"github.com/hylla/weekplan/internal/app"
)

// KeyConfig holds user-overridable key bindings.
type KeyConfig struct {
	MultiSelect string
	ActivityLog string
	FolderPane  string
}

// ClipboardWriter copies text to the system clipboard.
type ClipboardWriter func(string) error

type Option func(*Model)

// WithActivityReader enables the activity log overlay.
func WithActivityReader(r app.ActivityReader) Option {
	return func(m *Model) {
		m.activity = r
	}
}

// WithActivityRows caps the rows loaded into the activity overlay.
func WithActivityRows(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.activityRows = n
		}
	}
}

// WithPreviewStyle sets the glamour style used for description previews.
func WithPreviewStyle(style string) Option {
	return func(m *Model) {
		if style = strings.TrimSpace(strings.ToLower(style)); style != "" {
			m.markdown.style = style
			m.markdown.renderers = nil
		}
	}
}

func WithShowFolder(show bool) Option {
	return func(m *Model) {
		m.showFolder = show
	}
}

func WithKeyConfig(cfg KeyConfig) Option {
	return func(m *Model) {
		m.keys.applyKeyConfig(cfg)
	}
}

// WithClipboardWriter replaces the system clipboard writer.
func WithClipboardWriter(w ClipboardWriter) Option {
	return func(m *Model) {
		if w != nil {
			m.writeClipboard = w
		}
	}
}

func defaultClipboardWriter(text string) error {
	return clipboard.WriteAll(text)
}
