package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/darc-project/darc/internal/auth"
	"github.com/darc-project/darc/internal/logger"
	"go.uber.org/zap"
)

// Accounts signs users up and in against the account service
type Accounts interface {
	Signup(ctx context.Context, req auth.SignupRequest) (string, error)
	Login(ctx context.Context, req auth.LoginRequest) (string, error)
}

type credentialsKeyMap struct {
	next   key.Binding
	prev   key.Binding
	submit key.Binding
	back   key.Binding
}

func newCredentialsKeyMap() *credentialsKeyMap {
	return &credentialsKeyMap{
		next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Submit"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),
	}
}

type field struct {
	name  string
	input textinput.Model
}

func newField(name, placeholder string, secret bool) field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Width = 40
	ti.Prompt = "> "
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return field{name: name, input: ti}
}

// CredentialsPage is a small form posting credentials to the account service.
// Signup and login are both instances of it.
type CredentialsPage struct {
	page    Page
	title   string
	fields  []field
	focus   int
	keys    *credentialsKeyMap
	submit  func(values map[string]string) tea.Cmd
	success Page
	width   int
	height  int
}

// NewSignupPage creates the signup form. On success the token is stored by
// the account client and the login page opens; failures are only logged.
func NewSignupPage(accounts Accounts) CredentialsPage {
	p := CredentialsPage{
		page:  PageSignup,
		title: "Sign Up",
		fields: []field{
			newField("username", "Username", false),
			newField("password", "Password", true),
			newField("email", "Email", false),
		},
		keys:    newCredentialsKeyMap(),
		success: PageLogin,
	}
	p.submit = func(values map[string]string) tea.Cmd {
		req := auth.SignupRequest{
			Username: values["username"],
			Email:    values["email"],
			Password: values["password"],
		}
		return func() tea.Msg {
			token, err := accounts.Signup(context.Background(), req)
			return authDoneMsg{source: PageSignup, token: token, err: err}
		}
	}
	p.focusField(0)
	return p
}

// NewLoginPage creates the login form; success opens the dashboard
func NewLoginPage(accounts Accounts) CredentialsPage {
	p := CredentialsPage{
		page:  PageLogin,
		title: "Login",
		fields: []field{
			newField("username", "Username", false),
			newField("password", "Password", true),
		},
		keys:    newCredentialsKeyMap(),
		success: PageDashboard,
	}
	p.submit = func(values map[string]string) tea.Cmd {
		req := auth.LoginRequest{
			Username: values["username"],
			Password: values["password"],
		}
		return func() tea.Msg {
			token, err := accounts.Login(context.Background(), req)
			return authDoneMsg{source: PageLogin, token: token, err: err}
		}
	}
	p.focusField(0)
	return p
}

func (m *CredentialsPage) focusField(i int) tea.Cmd {
	n := len(m.fields)
	m.focus = ((i % n) + n) % n
	var cmd tea.Cmd
	for idx := range m.fields {
		if idx == m.focus {
			cmd = m.fields[idx].input.Focus()
		} else {
			m.fields[idx].input.Blur()
		}
	}
	return cmd
}

// Values returns the current field contents keyed by field name
func (m CredentialsPage) Values() map[string]string {
	values := make(map[string]string, len(m.fields))
	for _, f := range m.fields {
		values[f.name] = f.input.Value()
	}
	return values
}

func (m *CredentialsPage) reset() {
	for idx := range m.fields {
		m.fields[idx].input.Reset()
	}
	m.focusField(0)
}

func (m CredentialsPage) Init() tea.Cmd {
	return textinput.Blink
}

func (m CredentialsPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		if msg.source != m.page {
			return m, nil
		}
		if msg.err != nil {
			// The form stays as it is; the account client already logged the cause.
			logger.Debug("credentials rejected", zap.String("page", string(m.page)), zap.Error(msg.err))
			return m, nil
		}
		m.reset()
		return m, navigate(m.success)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.back):
			return m, navigate(PageLanding)
		case key.Matches(msg, m.keys.next):
			return m, m.focusField(m.focus + 1)
		case key.Matches(msg, m.keys.prev):
			return m, m.focusField(m.focus - 1)
		case key.Matches(msg, m.keys.submit):
			if m.focus < len(m.fields)-1 {
				return m, m.focusField(m.focus + 1)
			}
			return m, m.submit(m.Values())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	var cmd tea.Cmd
	m.fields[m.focus].input, cmd = m.fields[m.focus].input.Update(msg)
	return m, cmd
}

func (m CredentialsPage) View() string {
	var sb strings.Builder

	verticalPadding := (m.height - (len(m.fields)*2 + 6)) / 2
	for i := 0; i < verticalPadding; i++ {
		sb.WriteString("\n")
	}

	sb.WriteString(centerText(titleStyle.Render(m.title), m.width))
	sb.WriteString("\n\n")

	for _, f := range m.fields {
		sb.WriteString(centerText(f.input.View(), m.width))
		sb.WriteString("\n\n")
	}

	sb.WriteString(centerText(mutedStyle.Render("(tab) Next field | (enter) "+m.title+" | (esc) Back"), m.width))
	return sb.String()
}

// centerText pads text to the middle of width
func centerText(text string, width int) string {
	textWidth := lipgloss.Width(text)
	if width <= textWidth {
		return text
	}
	return strings.Repeat(" ", (width-textWidth)/2) + text
}
