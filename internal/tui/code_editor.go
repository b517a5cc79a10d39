package tui

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// editorRows matches the height of the code box on the web dashboard
const editorRows = 10

// CodeEditor wraps the textarea holding the code to analyze.
type CodeEditor struct {
	textarea textarea.Model
}

func NewCodeEditor() CodeEditor {
	ta := textarea.New()
	ta.Placeholder = "Enter your code here"
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.SetHeight(editorRows)
	ta.SetWidth(80)
	ta.Focus()

	return CodeEditor{textarea: ta}
}

func (e CodeEditor) Init() tea.Cmd {
	return textarea.Blink
}

func (e CodeEditor) Update(msg tea.Msg) (CodeEditor, tea.Cmd) {
	var cmd tea.Cmd
	e.textarea, cmd = e.textarea.Update(msg)
	return e, cmd
}

func (e *CodeEditor) Focus() tea.Cmd {
	return e.textarea.Focus()
}

func (e *CodeEditor) Blur() {
	e.textarea.Blur()
}

// Code returns the current contents of the editor.
func (e CodeEditor) Code() string {
	return e.textarea.Value()
}

func (e *CodeEditor) SetCode(code string) {
	e.textarea.SetValue(code)
}

func (e *CodeEditor) SetWidth(w int) {
	e.textarea.SetWidth(w)
}

func (e CodeEditor) View() string {
	return e.textarea.View()
}
