package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/darc-project/darc/internal/tui/models"
)

const (
	landingTitle   = "Welcome to the School Project By Fazin"
	landingSummary = "DARC reviews your code: static analysis, complexity, review comments,\n" +
		"optimization and performance profiling."
)

type landingKeyMap struct {
	quit key.Binding
}

func newLandingKeyMap() *landingKeyMap {
	return &landingKeyMap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "Quit"),
		),
	}
}

// LandingPage is the static home page linking to login and signup
type LandingPage struct {
	menu   list.Model
	keys   *landingKeyMap
	width  int
	height int
}

func landingMenu() []list.Item {
	return []list.Item{
		models.MenuItem{Label: "Login", Hint: "Sign in with an existing account", Target: string(PageLogin)},
		models.MenuItem{Label: "Sign Up", Hint: "Create a new account", Target: string(PageSignup)},
	}
}

// NewLandingPage creates the landing page
func NewLandingPage() LandingPage {
	delegateKeys := newDelegateKeyMap()
	menu := list.New(landingMenu(), newMenuDelegate(delegateKeys), 40, 8)
	menu.Title = "DARC"
	menu.Styles.Title = titleStyle
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	menu.SetShowPagination(false)
	menu.SetShowHelp(false)
	menu.KeyMap.Quit.SetEnabled(false)

	return LandingPage{
		menu: menu,
		keys: newLandingKeyMap(),
	}
}

func (m LandingPage) Init() tea.Cmd {
	return nil
}

func (m LandingPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := docStyle.GetFrameSize()
		m.menu.SetSize(msg.Width-h, max(3, min(10, msg.Height-v-6)))
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m LandingPage) View() string {
	width := m.width - 4
	if width <= 0 {
		width = len(landingTitle)
	}

	headline := lipgloss.NewStyle().
		Bold(true).
		Width(width).
		Align(lipgloss.Center).
		Render(landingTitle)

	summary := lipgloss.NewStyle().
		Padding(1, 0).
		Width(width).
		Align(lipgloss.Center).
		Foreground(lipgloss.AdaptiveColor{Light: "#626262", Dark: "#A49FA5"}).
		Render(landingSummary)

	help := mutedStyle.Render("enter: open • q: quit")

	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		headline,
		summary,
		m.menu.View(),
		"",
		help,
	))
}
