package login

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskflow/internal/theme"
)

// SubmitMsg is dispatched when the user submits the login form. The
// parent installs the candidate credentials and probes /auth/me/.
type SubmitMsg struct {
	Username string
	Password string
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	username string
	password string
}

// Model is the login screen: an Idle form that transitions to Submitting
// on submit and back to Idle on failure. Success is handled by the parent,
// which navigates away.
type Model struct {
	form       *huh.Form
	fb         *formBindings
	submitting bool
	errMsg     string
	width      int
	height     int
}

// New creates a new login model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes a fresh login form with empty fields.
func (m *Model) Start() tea.Cmd {
	m.submitting = false
	m.errMsg = ""
	m.fb.username = ""
	m.fb.password = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Fail returns the form to the Idle state after a rejected probe. Only
// the generic message is shown; the backend's rejection reason is never
// surfaced.
func (m *Model) Fail() tea.Cmd {
	m.submitting = false
	m.errMsg = "Invalid username or password"
	m.fb.password = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the login form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.submitting {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.submitting = true
		m.errMsg = ""
		username := strings.TrimSpace(m.fb.username)
		password := m.fb.password
		return m, func() tea.Msg {
			return SubmitMsg{Username: username, Password: password}
		}
	}
	if m.form.State == huh.StateAborted {
		// There is nowhere to go back to from login; restart the form.
		return m, m.Start()
	}

	return m, cmd
}

// View renders the login screen.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	var sections []string
	sections = append(sections, titleStyle.Render("Sign in to TaskFlow"))

	if m.errMsg != "" {
		sections = append(sections, theme.ErrorBannerStyle.Render(m.errMsg))
		sections = append(sections, "")
	}

	if m.submitting {
		sections = append(sections, theme.HelpStyle.Render("Signing in..."))
	} else if m.form != nil {
		sections = append(sections, m.form.View())
	}

	sections = append(sections, "")
	sections = append(sections, theme.HelpStyle.Render(
		"Default admin: admin / admin123",
	))

	panel := theme.PanelStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(panel)
}

// SetSize updates the login screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Placeholder("Enter your username").
				Value(&m.fb.username).
				Validate(validateRequired("Username")),
			huh.NewInput().
				Title("Password").
				Placeholder("Enter your password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validateRequired("Password")),
		),
	).WithWidth(m.formWidth())
}

func (m Model) formWidth() int {
	w := m.width - 12
	if w < 36 {
		w = 36
	}
	if w > 60 {
		w = 60
	}
	return w
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
