package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
)

// keyMap represents key map data used by this package.
type keyMap struct {
	quit          key.Binding
	toggleHelp    key.Binding
	moveLeft      key.Binding
	moveRight     key.Binding
	moveUp        key.Binding
	moveDown      key.Binding
	selectTask    key.Binding
	multiSelect   key.Binding
	copyTasks     key.Binding
	cutTasks      key.Binding
	paste         key.Binding
	addToFolder   key.Binding
	removeFolder  key.Binding
	beginDrag     key.Binding
	drop          key.Binding
	cancel        key.Binding
	editTask      key.Binding
	taskInfo      key.Binding
	yank          key.Binding
	activityLog   key.Binding
	toggleFolder  key.Binding
	nextField     key.Binding
	prevField     key.Binding
	commitEdit    key.Binding
	closeActivity key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		toggleHelp:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		moveLeft:      key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "day left")),
		moveRight:     key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "day right")),
		moveUp:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "task up")),
		moveDown:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "task down")),
		selectTask:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "select")),
		multiSelect:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "toggle in selection")),
		copyTasks:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
		cutTasks:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cut")),
		paste:         key.NewBinding(key.WithKeys("v", "p"), key.WithHelp("v/p", "paste into day")),
		addToFolder:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "add to folder")),
		removeFolder:  key.NewBinding(key.WithKeys("delete", "backspace"), key.WithHelp("del", "remove from folder")),
		beginDrag:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "drag")),
		drop:          key.NewBinding(key.WithKeys("enter", "d"), key.WithHelp("enter", "drop here")),
		cancel:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		editTask:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit task")),
		taskInfo:      key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "task info")),
		yank:          key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yank to clipboard")),
		activityLog:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "activity log")),
		toggleFolder:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "toggle folder pane")),
		nextField:     key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		prevField:     key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
		commitEdit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		closeActivity: key.NewBinding(key.WithKeys("esc", "g", "q"), key.WithHelp("esc", "close")),
	}
}

// applyKeyConfig overrides configurable bindings. Blank entries keep defaults.
func (k *keyMap) applyKeyConfig(cfg KeyConfig) {
	configureBinding(&k.multiSelect, cfg.MultiSelect, "m", "toggle in selection")
	configureBinding(&k.activityLog, cfg.ActivityLog, "g", "activity log")
	configureBinding(&k.toggleFolder, cfg.FolderPane, "b", "toggle folder pane")
	k.closeActivity.SetKeys(append([]string{"esc", "q"}, k.activityLog.Keys()...)...)
}

// configureBinding rebinds b to raw, falling back when raw is blank.
func configureBinding(b *key.Binding, raw, fallback, desc string) {
	keys, helpKey := parseBindingKeys(raw, fallback)
	b.SetKeys(keys...)
	b.SetHelp(helpKey, desc)
}

// parseBindingKeys expands one configured key into matcher keys and help text.
func parseBindingKeys(raw, fallback string) ([]string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = fallback
	}
	if strings.EqualFold(raw, "space") || raw == " " {
		return []string{" ", "space"}, "space"
	}
	if utf8.RuneCountInString(raw) == 1 {
		r, _ := utf8.DecodeRuneInString(raw)
		if unicode.IsUpper(r) {
			return []string{raw, "shift+" + string(unicode.ToLower(r))}, raw
		}
		return []string{raw}, raw
	}
	return []string{strings.ToLower(raw)}, raw
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.selectTask, k.multiSelect, k.copyTasks, k.cutTasks, k.paste, k.beginDrag, k.editTask, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.moveLeft, k.moveRight, k.moveUp, k.moveDown},
		{k.selectTask, k.multiSelect, k.copyTasks, k.cutTasks, k.paste},
		{k.addToFolder, k.removeFolder, k.toggleFolder},
		{k.beginDrag, k.drop, k.cancel},
		{k.editTask, k.taskInfo, k.yank, k.activityLog, k.toggleHelp, k.quit},
	}
}
