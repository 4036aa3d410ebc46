package userlist

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskflow/internal/api"
	"github.com/nhle/taskflow/internal/authz"
	"github.com/nhle/taskflow/internal/keys"
	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/internal/theme"
)

// LoadedMsg is sent when the user list has been fetched.
type LoadedMsg struct {
	Users []model.User
	Err   error
}

// CreateRequestMsg asks the parent to open the user form.
type CreateRequestMsg struct{}

// DeletedMsg is sent when a delete request has completed.
type DeletedMsg struct {
	Err error
}

// DeleteBlockedMsg is sent when a delete is rejected client-side before
// any request is issued.
type DeleteBlockedMsg struct {
	Reason string
}

// Model is the user management table.
type Model struct {
	users   []model.User
	cursor  int
	client  *api.Client
	keys    *keys.KeyMap
	user    *model.User
	loading bool
	width   int
	height  int
}

// New creates a new user list model.
func New(client *api.Client, k *keys.KeyMap, width, height int) Model {
	return Model{
		client: client,
		keys:   k,
		width:  width,
		height: height,
	}
}

// SetUser sets the current user profile used for capability checks.
func (m *Model) SetUser(user *model.User) {
	m.user = user
}

// Reload returns a command that fetches the user list.
func (m *Model) Reload() tea.Cmd {
	m.loading = true
	client := m.client
	return func() tea.Msg {
		users, err := client.ListUsers(context.Background())
		return LoadedMsg{Users: users, Err: err}
	}
}

// Update handles messages for the user list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			return m, nil
		}
		m.users = msg.Users
		if m.cursor >= len(m.users) {
			m.cursor = max(0, len(m.users)-1)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.users)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		if authz.CanManageUsers(m.user) {
			return m, func() tea.Msg { return CreateRequestMsg{} }
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if !authz.CanManageUsers(m.user) || len(m.users) == 0 {
			return m, nil
		}
		target := m.users[m.cursor]
		// Self-delete never reaches the backend.
		if !authz.CanDeleteUser(m.user, target) {
			return m, func() tea.Msg {
				return DeleteBlockedMsg{
					Reason: "You cannot delete your own account",
				}
			}
		}
		return m, m.deleteUser(target.ID)
	}

	return m, nil
}

// deleteUser returns a command that deletes the given account.
func (m Model) deleteUser(id int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.DeleteUser(context.Background(), id)
		return DeletedMsg{Err: err}
	}
}

// View renders the user table.
func (m Model) View() string {
	if m.loading && len(m.users) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Loading users...")
	}

	if len(m.users) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No users found.\n\nPress n to add your first team member.")
	}

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorGray)

	rows := []string{
		headerStyle.Render(fmt.Sprintf(
			"  %-5s %-16s %-26s %-22s %s",
			"ID", "USERNAME", "EMAIL", "FULL NAME", "ROLE",
		)),
	}

	for i, u := range m.users {
		email := u.Email
		if email == "" {
			email = "—"
		}
		fullName := u.FullName()
		if fullName == "" {
			fullName = "—"
		}

		line := fmt.Sprintf(
			"#%-4d %-16s %-26s %-22s %s",
			u.ID, u.Username, email, fullName,
			theme.RoleStyle(u.Role).Render(u.Role),
		)

		if i == m.cursor {
			line = theme.SelectedItemStyle.Render(line)
		} else {
			line = theme.ListItemStyle.Render(line)
		}
		rows = append(rows, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// SetSize updates the table dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
