package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/darc-project/darc/internal/analysis"
)

// Page identifies one screen of the app
type Page string

const (
	PageLanding   Page = "landing"
	PageSignup    Page = "signup"
	PageLogin     Page = "login"
	PageDashboard Page = "dashboard"
)

// NavigateMsg switches the active page
type NavigateMsg struct {
	Page Page
}

func navigate(p Page) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Page: p} }
}

// resultMsg carries one finished analysis request back to the dashboard
type resultMsg struct {
	action analysis.Action
	result *analysis.Result
	err    error
}

// authDoneMsg reports a finished signup or login request
type authDoneMsg struct {
	source Page
	token  string
	err    error
}
