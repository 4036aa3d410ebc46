package dashboard

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskflow/internal/api"
	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/internal/theme"
)

// recentLimit caps how many tasks the overview table shows.
const recentLimit = 5

// LoadedMsg is sent when the dashboard data has been fetched.
type LoadedMsg struct {
	User *model.User
	Page *api.TaskPage
	Err  error
}

// stats holds the counters shown in the overview cards. Total comes from
// the backend count; the per-status numbers are computed from the fetched
// first page.
type stats struct {
	total      int
	todo       int
	inProgress int
	done       int
}

// Model is the dashboard overview: greeting, status counters, and the
// most recent tasks.
type Model struct {
	client  *api.Client
	user    *model.User
	recent  []model.Task
	stats   stats
	loading bool
	width   int
	height  int
}

// New creates a new dashboard model.
func New(client *api.Client, width, height int) Model {
	return Model{
		client: client,
		width:  width,
		height: height,
	}
}

// Reload returns a command that fetches the profile and the first task
// page in one round.
func (m *Model) Reload() tea.Cmd {
	m.loading = true
	client := m.client
	return func() tea.Msg {
		ctx := context.Background()

		user, err := client.Me(ctx)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		page, err := client.ListTasks(ctx, api.TaskQuery{Page: 1})
		if err != nil {
			return LoadedMsg{User: user, Err: err}
		}
		return LoadedMsg{User: user, Page: page}
	}
}

// Update handles messages for the dashboard view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			return m, nil
		}
		m.user = msg.User
		m.recent = msg.Page.Results
		if len(m.recent) > recentLimit {
			m.recent = m.recent[:recentLimit]
		}

		m.stats = stats{total: msg.Page.Count}
		for _, t := range msg.Page.Results {
			switch t.Status {
			case model.StatusTodo:
				m.stats.todo++
			case model.StatusInProgress:
				m.stats.inProgress++
			case model.StatusDone:
				m.stats.done++
			}
		}
		return m, nil
	}

	return m, nil
}

// View renders the dashboard overview.
func (m Model) View() string {
	if m.loading {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Loading dashboard...")
	}

	var sections []string

	greeting := "Welcome back"
	if m.user != nil {
		greeting = fmt.Sprintf("Welcome back, %s", m.user.DisplayName())
	}
	sections = append(sections, lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		Render(greeting))
	sections = append(sections, theme.HelpStyle.Render(
		"Here's an overview of your tasks and activity",
	))
	sections = append(sections, "")

	sections = append(sections, m.renderStats())
	sections = append(sections, "")

	sections = append(sections, lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		Render("Recent Tasks"))
	sections = append(sections, m.renderRecent())

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// renderStats draws the four counter cards side by side.
func (m Model) renderStats() string {
	cards := []string{
		m.statCard("Total Tasks", m.stats.total, theme.ColorMagenta),
		m.statCard("To Do", m.stats.todo, theme.ColorBlue),
		m.statCard("In Progress", m.stats.inProgress, theme.ColorOrange),
		m.statCard("Completed", m.stats.done, theme.ColorGreen),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m Model) statCard(label string, value int, color lipgloss.AdaptiveColor) string {
	valueStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(color)
	labelStyle := lipgloss.NewStyle().
		Foreground(theme.ColorGray)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		valueStyle.Render(fmt.Sprintf("%d", value)),
		labelStyle.Render(label),
	)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.ColorBorder).
		Padding(0, 2).
		MarginRight(1).
		Render(content)
}

// renderRecent draws the recent tasks table.
func (m Model) renderRecent() string {
	if len(m.recent) == 0 {
		return theme.HelpStyle.Render(
			"No tasks yet. Press t to open the task list.",
		)
	}

	var rows []string
	for _, t := range m.recent {
		assignee := "—"
		if t.AssignedToDetail != nil {
			assignee = t.AssignedToDetail.Username
		}
		dueDate := "—"
		if t.DueDate != nil {
			dueDate = *t.DueDate
		}

		row := fmt.Sprintf(
			"%s %s %-40s %-14s %s",
			theme.StatusStyle(t.Status).Render(model.StatusLabel(t.Status)),
			theme.PriorityStyle(t.Priority).Render(model.PriorityLabel(t.Priority)),
			truncate(t.Title, 40),
			assignee,
			dueDate,
		)
		rows = append(rows, theme.ListItemStyle.Render(row))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// truncate shortens s to at most n runes, appending an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

// SetSize updates the dashboard dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
