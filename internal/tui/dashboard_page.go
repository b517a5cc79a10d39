package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/darc-project/darc/internal/analysis"
	"github.com/darc-project/darc/internal/form"
	"github.com/darc-project/darc/internal/logger"
	"github.com/darc-project/darc/internal/render"
	"github.com/darc-project/darc/internal/tui/models"
	"go.uber.org/zap"
)

// Analyzer runs one dashboard action against the backend
type Analyzer interface {
	Submit(ctx context.Context, action analysis.Action, sub analysis.Submission) (*analysis.Result, error)
}

type dashboardFocus int

const (
	focusEditor dashboardFocus = iota
	focusActions
)

// height of everything on the dashboard except the results viewport
const dashboardChrome = editorRows + 14

type dashboardKeyMap struct {
	switchFocus key.Binding
	language    key.Binding
	nextLang    key.Binding
	prevLang    key.Binding
	left        key.Binding
	right       key.Binding
	press       key.Binding
	back        key.Binding
	quit        key.Binding
	shortcuts   map[analysis.Action]key.Binding
}

func newDashboardKeyMap() *dashboardKeyMap {
	return &dashboardKeyMap{
		switchFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Editor/actions"),
		),
		language: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "Language"),
		),
		nextLang: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "Next language"),
		),
		prevLang: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "Previous language"),
		),
		left: key.NewBinding(
			key.WithKeys("left", "shift+tab"),
			key.WithHelp("←", "Previous action"),
		),
		right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "Next action"),
		),
		press: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "Run action"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "Quit"),
		),
		shortcuts: map[analysis.Action]key.Binding{
			analysis.ActionAnalyze:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "Analyze")),
			analysis.ActionComplexity: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "Complexity")),
			analysis.ActionReview:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "Review")),
			analysis.ActionOptimize:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "Optimize")),
			analysis.ActionProfile:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "Profile")),
		},
	}
}

func (k dashboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.switchFocus, k.language, k.press, k.back, k.quit}
}

func (k dashboardKeyMap) FullHelp() [][]key.Binding {
	actions := make([]key.Binding, 0, len(k.shortcuts))
	for _, spec := range analysis.Specs() {
		actions = append(actions, k.shortcuts[spec.Action])
	}
	return [][]key.Binding{
		{k.switchFocus, k.language, k.nextLang, k.prevLang},
		{k.left, k.right, k.press},
		actions,
		{k.back, k.quit},
	}
}

// DashboardPage is the code editor, the action buttons and the result panels.
type DashboardPage struct {
	analyzer  Analyzer
	state     form.State
	editor    CodeEditor
	languages list.Model
	picking   bool
	focus     dashboardFocus
	selected  int
	inFlight  int
	status    string
	keys      *dashboardKeyMap
	help      help.Model
	results   viewport.Model
	width     int
	height    int
}

func NewDashboardPage(analyzer Analyzer) DashboardPage {
	state := form.New()

	languages := list.New(languageListItems(state.Language), list.NewDefaultDelegate(), 30, 14)
	languages.Title = "Select language"
	languages.SetShowStatusBar(false)
	languages.SetFilteringEnabled(false)
	languages.SetShowHelp(false)
	languages.KeyMap.Quit.SetEnabled(false)
	languages.Styles.Title = titleStyle

	m := DashboardPage{
		analyzer:  analyzer,
		state:     state,
		editor:    NewCodeEditor(),
		languages: languages,
		focus:     focusEditor,
		keys:      newDashboardKeyMap(),
		help:      help.New(),
		results:   viewport.New(80, 10),
	}
	m.refreshResults()
	return m
}

func languageListItems(current analysis.Language) []list.Item {
	var items []list.Item
	for _, item := range models.LanguageItems(current) {
		items = append(items, item)
	}
	return items
}

func (m DashboardPage) Init() tea.Cmd {
	return m.editor.Init()
}

// press fires action with the input as it is right now. The response is
// applied whenever it arrives, even if the input changed meanwhile.
func (m *DashboardPage) press(action analysis.Action) tea.Cmd {
	spec := analysis.MustLookup(action)
	m.state.Code = m.editor.Code()
	sub := m.state.Submission()
	analyzer := m.analyzer

	m.inFlight++
	m.status = statusMessageStyle(fmt.Sprintf("Running %s (%s)...", spec.Button, sub.Language.Label()))

	return func() tea.Msg {
		result, err := analyzer.Submit(context.Background(), action, sub)
		return resultMsg{action: action, result: result, err: err}
	}
}

func (m *DashboardPage) setLanguage(l analysis.Language) {
	m.state.Language = l
	m.languages.SetItems(languageListItems(l))
}

func (m *DashboardPage) setFocus(f dashboardFocus) tea.Cmd {
	m.focus = f
	if f == focusEditor {
		return m.editor.Focus()
	}
	m.editor.Blur()
	return nil
}

func (m *DashboardPage) refreshResults() {
	m.results.SetContent(m.renderPanels())
}

func (m DashboardPage) renderPanels() string {
	panels := m.state.Panels()
	if len(panels) == 0 {
		return mutedStyle.Render("Results appear here after running an action.")
	}

	var sb strings.Builder
	for i, p := range panels {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(sectionStyle.Render(p.Spec.Title))
		sb.WriteString("\n")
		sb.WriteString(render.Slot(p.Spec.Kind, p.Slot.Value))
	}
	return sb.String()
}

func (m DashboardPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		m.inFlight--
		spec := analysis.MustLookup(msg.action)
		if msg.err != nil {
			logger.Error("Analysis failed", zap.String("action", string(msg.action)), zap.Error(msg.err))
			m.status = errorMessageStyle(fmt.Sprintf("%s failed: %v", spec.Button, msg.err))
			return m, nil
		}
		m.state = m.state.Apply(msg.result)
		m.status = completeMessageStyle(spec.Title + " updated")
		m.refreshResults()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := docStyle.GetFrameSize()
		width := max(20, msg.Width-h)
		m.editor.SetWidth(width)
		m.help.Width = width
		m.results.Width = width
		m.results.Height = max(3, msg.Height-v-dashboardChrome)
		m.languages.SetSize(width, max(8, msg.Height-v))
		return m, nil

	case tea.KeyMsg:
		if m.picking {
			return m.updatePicker(msg)
		}
		if key.Matches(msg, m.keys.language) {
			m.picking = true
			m.languages.Select(languageIndex(m.state.Language))
			return m, nil
		}
		if key.Matches(msg, m.keys.switchFocus) {
			if m.focus == focusEditor {
				return m, m.setFocus(focusActions)
			}
			return m, m.setFocus(focusEditor)
		}
		if m.focus == focusActions {
			return m.updateActions(msg)
		}
		if key.Matches(msg, m.keys.back) {
			return m, m.setFocus(focusActions)
		}
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	m.state.Code = m.editor.Code()
	return m, cmd
}

func (m DashboardPage) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.picking = false
		return m, nil
	case "enter":
		if item, ok := m.languages.SelectedItem().(models.LanguageItem); ok {
			m.setLanguage(item.Language)
		}
		m.picking = false
		return m, nil
	}

	var cmd tea.Cmd
	m.languages, cmd = m.languages.Update(msg)
	return m, cmd
}

func (m DashboardPage) updateActions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	specs := analysis.Specs()

	for _, spec := range specs {
		if key.Matches(msg, m.keys.shortcuts[spec.Action]) {
			return m, m.press(spec.Action)
		}
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		return m, navigate(PageLanding)
	case key.Matches(msg, m.keys.left):
		m.selected = (m.selected + len(specs) - 1) % len(specs)
		return m, nil
	case key.Matches(msg, m.keys.right):
		m.selected = (m.selected + 1) % len(specs)
		return m, nil
	case key.Matches(msg, m.keys.press):
		return m, m.press(specs[m.selected].Action)
	case key.Matches(msg, m.keys.nextLang):
		m.setLanguage(m.state.Language.Next())
		return m, nil
	case key.Matches(msg, m.keys.prevLang):
		m.setLanguage(m.state.Language.Prev())
		return m, nil
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func languageIndex(l analysis.Language) int {
	for i, candidate := range analysis.Languages() {
		if candidate == l {
			return i
		}
	}
	return 0
}

func (m DashboardPage) languageLine() string {
	var parts []string
	for _, l := range analysis.Languages() {
		if l == m.state.Language {
			parts = append(parts, selectedLanguageStyle.Render(l.Label()))
		} else {
			parts = append(parts, mutedStyle.Render(l.Label()))
		}
	}
	return "Language: " + strings.Join(parts, "  ")
}

func (m DashboardPage) buttonRow() string {
	var buttons []string
	for i, spec := range analysis.Specs() {
		label := fmt.Sprintf("%s (%s)", spec.Button, m.keys.shortcuts[spec.Action].Help().Key)
		if m.focus == focusActions && i == m.selected {
			buttons = append(buttons, activeButtonStyle.Render(label))
		} else {
			buttons = append(buttons, buttonStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}

func (m DashboardPage) View() string {
	if m.picking {
		return docStyle.Render(m.languages.View())
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Code Analysis Dashboard"))
	sb.WriteString("\n\n")
	sb.WriteString(m.languageLine())
	sb.WriteString("\n\n")
	sb.WriteString(m.editor.View())
	sb.WriteString("\n\n")
	sb.WriteString(m.buttonRow())
	sb.WriteString("\n")

	status := m.status
	if m.inFlight > 0 && status == "" {
		status = statusMessageStyle("Waiting for the backend...")
	}
	sb.WriteString(status)
	sb.WriteString("\n\n")
	sb.WriteString(m.results.View())
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))

	return docStyle.Render(sb.String())
}
