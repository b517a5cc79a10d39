package models

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/darc-project/darc/internal/analysis"
)

// LanguageItem wraps a Language for display in the language picker
// Implements list.DefaultItem
type LanguageItem struct {
	Language analysis.Language
	Current  bool
}

func (i LanguageItem) Title() string {
	return i.Language.Label()
}

func (i LanguageItem) Description() string {
	if i.Current {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("#56FF4E")).
			Render("[Selected]")
	}
	return string(i.Language)
}

func (i LanguageItem) FilterValue() string {
	return string(i.Language)
}

// LanguageItems lists every language, marking current.
func LanguageItems(current analysis.Language) []LanguageItem {
	var items []LanguageItem
	for _, l := range analysis.Languages() {
		items = append(items, LanguageItem{Language: l, Current: l == current})
	}
	return items
}
