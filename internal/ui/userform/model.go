package userform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/internal/theme"
)

// SubmitMsg is dispatched when the form is submitted.
type SubmitMsg struct {
	User model.NewUser
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	username  string
	email     string
	firstName string
	lastName  string
	password  string
	role      string
}

// Model is the create-user form. The password is write-only: it is sent
// on create and never displayed afterwards.
type Model struct {
	form      *huh.Form
	fb        *formBindings
	errMsg    string
	submitted bool
	width     int
	height    int
}

// New creates a new user form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{role: model.RoleMember},
		width:  width,
		height: height,
	}
}

// Start initializes the form with empty fields.
func (m *Model) Start() tea.Cmd {
	m.errMsg = ""
	m.submitted = false
	m.fb.username = ""
	m.fb.email = ""
	m.fb.firstName = ""
	m.fb.lastName = ""
	m.fb.password = ""
	m.fb.role = model.RoleMember
	m.form = m.buildForm()
	return m.form.Init()
}

// Reopen rebuilds the form after a rejected create, keeping the entered
// values and showing the flattened field errors.
func (m *Model) Reopen(errMsg string) tea.Cmd {
	m.errMsg = errMsg
	m.submitted = false
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the user form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.submitted {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.submitted = true
		user := model.NewUser{
			Username:  strings.TrimSpace(m.fb.username),
			Email:     strings.TrimSpace(m.fb.email),
			FirstName: strings.TrimSpace(m.fb.firstName),
			LastName:  strings.TrimSpace(m.fb.lastName),
			Password:  m.fb.password,
			Role:      m.fb.role,
		}
		return m, func() tea.Msg { return SubmitMsg{User: user} }
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the user form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	var sections []string
	sections = append(sections, titleStyle.Render("Add New User"))
	if m.errMsg != "" {
		sections = append(sections, theme.ErrorBannerStyle.Render(m.errMsg))
		sections = append(sections, "")
	}
	sections = append(sections, m.form.View())

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("First Name").
				Placeholder("John").
				Value(&m.fb.firstName),
			huh.NewInput().
				Title("Last Name").
				Placeholder("Doe").
				Value(&m.fb.lastName),
			huh.NewInput().
				Title("Username").
				Placeholder("johndoe").
				Value(&m.fb.username).
				Validate(validateRequired("Username")),
			huh.NewInput().
				Title("Email").
				Placeholder("john@example.com").
				Value(&m.fb.email),
			huh.NewInput().
				Title("Password").
				Placeholder("Min 6 characters").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validatePassword),
			huh.NewSelect[string]().
				Title("Role").
				Options(
					huh.NewOption("Admin", model.RoleAdmin),
					huh.NewOption("Manager", model.RoleManager),
					huh.NewOption("Member", model.RoleMember),
				).
				Value(&m.fb.role),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validatePassword(s string) error {
	if len(s) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	return nil
}
