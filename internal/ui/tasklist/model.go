package tasklist

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskflow/internal/api"
	"github.com/nhle/taskflow/internal/authz"
	"github.com/nhle/taskflow/internal/keys"
	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/internal/theme"
)

// LoadedMsg is sent when a page of tasks has been fetched. Seq identifies
// the fetch generation; responses from superseded fetches are discarded.
type LoadedMsg struct {
	Seq  int
	Page *api.TaskPage
	Err  error
}

// CreateRequestMsg asks the parent to open the task form in create mode.
type CreateRequestMsg struct{}

// EditRequestMsg asks the parent to open the task form for the given task.
type EditRequestMsg struct {
	Task model.Task
}

// DeletedMsg is sent when a delete request has completed.
type DeletedMsg struct {
	Err error
}

// statusCycle and priorityCycle define the filter values cycled by the
// filter keys; the empty string means "no filter".
var (
	statusCycle   = []string{"", model.StatusTodo, model.StatusInProgress, model.StatusDone}
	priorityCycle = []string{"", model.PriorityHigh, model.PriorityMedium, model.PriorityLow}
)

// Model is the paginated task list view. Each fetch replaces the list
// wholesale; paging controls follow the backend's next/previous pointers.
type Model struct {
	list           list.Model
	client         *api.Client
	keys           *keys.KeyMap
	user           *model.User
	page           int
	count          int
	hasNext        bool
	hasPrev        bool
	statusFilter   string
	priorityFilter string
	fetchSeq       int
	loading        bool
	width          int
	height         int
}

// New creates a new task list model.
func New(client *api.Client, k *keys.KeyMap, width, height int) Model {
	delegate := TaskDelegate{}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.Title = "Tasks"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		client: client,
		keys:   k,
		page:   1,
		width:  width,
		height: height,
	}
}

// SetUser sets the current user profile used for capability checks.
func (m *Model) SetUser(user *model.User) {
	m.user = user
}

// Reload starts a new fetch generation for the current page and filters.
func (m *Model) Reload() tea.Cmd {
	m.loading = true
	m.fetchSeq++

	seq := m.fetchSeq
	client := m.client
	query := api.TaskQuery{
		Page:     m.page,
		Status:   m.statusFilter,
		Priority: m.priorityFilter,
	}
	return func() tea.Msg {
		page, err := client.ListTasks(context.Background(), query)
		return LoadedMsg{Seq: seq, Page: page, Err: err}
	}
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		// A newer fetch is already in flight; this response is stale.
		if msg.Seq != m.fetchSeq {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			return m, nil
		}
		m.count = msg.Page.Count
		m.hasNext = msg.Page.HasNext()
		m.hasPrev = msg.Page.HasPrevious()
		items := make([]list.Item, len(msg.Page.Results))
		for i, task := range msg.Page.Results {
			items[i] = TaskItem{Task: task}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	// Delegate to list model for other messages
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleKeys processes key input for paging, filtering, and item actions.
// Action keys without the matching capability are ignored, mirroring the
// hidden buttons of the original surface.
func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.New):
		if m.user != nil && authz.CanCreateTask(m.user.Role) {
			return m, func() tea.Msg { return CreateRequestMsg{} }
		}
		return m, nil

	case key.Matches(msg, m.keys.Select), key.Matches(msg, m.keys.Edit):
		item, ok := m.list.SelectedItem().(TaskItem)
		if !ok || !authz.CanEditTask(m.user, item.Task) {
			return m, nil
		}
		task := item.Task
		return m, func() tea.Msg { return EditRequestMsg{Task: task} }

	case key.Matches(msg, m.keys.Delete):
		item, ok := m.list.SelectedItem().(TaskItem)
		if !ok || !authz.CanDeleteTask(m.user, item.Task) {
			return m, nil
		}
		return m, m.deleteTask(item.Task.ID)

	case key.Matches(msg, m.keys.NextPage):
		if m.hasNext {
			m.page++
			return m, m.Reload()
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		if m.hasPrev {
			m.page--
			return m, m.Reload()
		}
		return m, nil

	case key.Matches(msg, m.keys.CycleStatus):
		m.statusFilter = cycleNext(statusCycle, m.statusFilter)
		m.page = 1
		return m, m.Reload()

	case key.Matches(msg, m.keys.CyclePriority):
		m.priorityFilter = cycleNext(priorityCycle, m.priorityFilter)
		m.page = 1
		return m, m.Reload()

	case key.Matches(msg, m.keys.ClearFilters):
		if m.statusFilter == "" && m.priorityFilter == "" {
			return m, nil
		}
		m.statusFilter = ""
		m.priorityFilter = ""
		m.page = 1
		return m, m.Reload()
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// deleteTask returns a command that deletes the given task.
func (m Model) deleteTask(id int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.DeleteTask(context.Background(), id)
		return DeletedMsg{Err: err}
	}
}

// cycleNext returns the value after current in the cycle, wrapping around.
func cycleNext(cycle []string, current string) string {
	for i, v := range cycle {
		if v == current {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

// View renders the task list with a pagination footer.
func (m Model) View() string {
	if m.loading && len(m.list.Items()) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Loading tasks...")
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.list.View(),
		m.renderFooter(),
	)
}

// renderEmptyState shows guidance text when no tasks are available.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.statusFilter != "" || m.priorityFilter != "" {
		return style.Render("No matching tasks.\nTry adjusting your filters.")
	}

	if m.user != nil && authz.CanCreateTask(m.user.Role) {
		return style.Render("No tasks found.\n\nPress n to create your first task.")
	}
	return style.Render("No tasks have been assigned to you yet.")
}

// renderFooter shows the page position and count with paging indicators
// driven by the backend's next/previous pointers.
func (m Model) renderFooter() string {
	prev := "  "
	if m.hasPrev {
		prev = "← "
	}
	next := "  "
	if m.hasNext {
		next = " →"
	}

	label := fmt.Sprintf(
		"%sPage %d%s  •  %d task%s",
		prev, m.page, next, m.count, plural(m.count),
	)
	return theme.HelpStyle.Render(label)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// FilterSummary returns a short description of the active filters for the
// status bar, or "" when no filter is active.
func (m Model) FilterSummary() string {
	switch {
	case m.statusFilter != "" && m.priorityFilter != "":
		return fmt.Sprintf(
			"filter: %s, %s",
			model.StatusLabel(m.statusFilter),
			model.PriorityLabel(m.priorityFilter),
		)
	case m.statusFilter != "":
		return "filter: " + model.StatusLabel(m.statusFilter)
	case m.priorityFilter != "":
		return "filter: " + model.PriorityLabel(m.priorityFilter)
	default:
		return ""
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
