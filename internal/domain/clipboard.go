package domain

// ClipboardMode selects paste semantics.
type ClipboardMode string

// ClipboardMode values.
const (
	// ClipboardCopy pastes fresh duplicates and keeps the clipboard for repeated pastes.
	ClipboardCopy ClipboardMode = "copy"
	// ClipboardCut moves the original tasks once, then empties the clipboard.
	ClipboardCut ClipboardMode = "cut"
)
