package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// AppModel is the main application model that manages page switching
type AppModel struct {
	landing   LandingPage
	signup    CredentialsPage
	login     CredentialsPage
	dashboard DashboardPage
	page      Page
}

// NewAppModel creates the app with every page, showing start first
func NewAppModel(analyzer Analyzer, accounts Accounts, start Page) AppModel {
	if start == "" {
		start = PageLanding
	}
	return AppModel{
		landing:   NewLandingPage(),
		signup:    NewSignupPage(accounts),
		login:     NewLoginPage(accounts),
		dashboard: NewDashboardPage(analyzer),
		page:      start,
	}
}

// Page returns the page currently shown
func (m AppModel) Page() Page {
	return m.page
}

// Init initializes the AppModel
func (m AppModel) Init() tea.Cmd {
	return m.initPage(m.page)
}

func (m AppModel) initPage(p Page) tea.Cmd {
	switch p {
	case PageSignup:
		return m.signup.Init()
	case PageLogin:
		return m.login.Init()
	case PageDashboard:
		return m.dashboard.Init()
	default:
		return m.landing.Init()
	}
}

// Update handles app-level messages and delegates to the appropriate page model
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case NavigateMsg:
		m.page = msg.Page
		return m, m.initPage(m.page)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		// Update all pages with the window size
		for _, p := range []Page{PageLanding, PageSignup, PageLogin, PageDashboard} {
			var cmd tea.Cmd
			m, cmd = m.updatePage(p, msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	// Responses belong to the page that issued them, whichever page is shown now.
	case authDoneMsg:
		return m.updatePage(msg.source, msg)

	case resultMsg:
		return m.updatePage(PageDashboard, msg)
	}

	return m.updatePage(m.page, msg)
}

func (m AppModel) updatePage(p Page, msg tea.Msg) (AppModel, tea.Cmd) {
	var cmd tea.Cmd
	var tempModel tea.Model

	switch p {
	case PageSignup:
		tempModel, cmd = m.signup.Update(msg)
		m.signup = tempModel.(CredentialsPage)
	case PageLogin:
		tempModel, cmd = m.login.Update(msg)
		m.login = tempModel.(CredentialsPage)
	case PageDashboard:
		tempModel, cmd = m.dashboard.Update(msg)
		m.dashboard = tempModel.(DashboardPage)
	default:
		tempModel, cmd = m.landing.Update(msg)
		m.landing = tempModel.(LandingPage)
	}
	return m, cmd
}

// View renders the active page
func (m AppModel) View() string {
	switch m.page {
	case PageSignup:
		return m.signup.View()
	case PageLogin:
		return m.login.View()
	case PageDashboard:
		return m.dashboard.View()
	default:
		return m.landing.View()
	}
}
