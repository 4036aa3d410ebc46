package taskform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskflow/internal/api"
	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/internal/theme"
)

// SubmitMsg is dispatched when the form is submitted. EditID is zero for
// a create and the task ID for an update.
type SubmitMsg struct {
	Payload api.TaskPayload
	EditID  int
}

// CancelMsg is dispatched when the user cancels the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	status      string
	priority    string
	assignedTo  int
	dueDate     string
}

// Model is the task create/edit form. A rejected save reopens the form
// with the backend's field errors; field values are preserved.
type Model struct {
	form      *huh.Form
	fb        *formBindings
	editMode  bool
	editID    int
	users     []model.User
	errMsg    string
	submitted bool
	width     int
	height    int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb: &formBindings{
			status:   model.StatusTodo,
			priority: model.PriorityMedium,
		},
		width:  width,
		height: height,
	}
}

// SetUsers sets the accounts offered by the assignee selector.
func (m *Model) SetUsers(users []model.User) {
	m.users = users
}

// StartCreate initializes the form for creating a new task.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.editID = 0
	m.errMsg = ""
	m.submitted = false
	m.fb.title = ""
	m.fb.description = ""
	m.fb.status = model.StatusTodo
	m.fb.priority = model.PriorityMedium
	m.fb.assignedTo = 0
	m.fb.dueDate = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing task.
func (m *Model) StartEdit(task model.Task) tea.Cmd {
	m.editMode = true
	m.editID = task.ID
	m.errMsg = ""
	m.submitted = false
	m.fb.title = task.Title
	m.fb.description = task.Description
	m.fb.status = task.Status
	m.fb.priority = task.Priority
	if task.AssignedTo != nil {
		m.fb.assignedTo = *task.AssignedTo
	} else {
		m.fb.assignedTo = 0
	}
	if task.DueDate != nil {
		m.fb.dueDate = *task.DueDate
	} else {
		m.fb.dueDate = ""
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Reopen rebuilds the form after a rejected save, keeping the entered
// values and showing the flattened field errors above the fields.
func (m *Model) Reopen(errMsg string) tea.Cmd {
	m.errMsg = errMsg
	m.submitted = false
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the task form.
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
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "Create New Task"
	if m.editMode {
		titleText = "Edit Task"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	var sections []string
	sections = append(sections, titleStyle.Render(titleText))
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
				Title("Title").
				Placeholder("Enter task title").
				Value(&m.fb.title).
				Validate(validateRequired("Title")),
			huh.NewText().
				Title("Description").
				Placeholder("Enter task description").
				Value(&m.fb.description),
			huh.NewSelect[string]().
				Title("Status").
				Options(
					huh.NewOption("To Do", model.StatusTodo),
					huh.NewOption("In Progress", model.StatusInProgress),
					huh.NewOption("Done", model.StatusDone),
				).
				Value(&m.fb.status),
			huh.NewSelect[string]().
				Title("Priority").
				Options(
					huh.NewOption("Low", model.PriorityLow),
					huh.NewOption("Medium", model.PriorityMedium),
					huh.NewOption("High", model.PriorityHigh),
				).
				Value(&m.fb.priority),
			m.assigneeField(),
			huh.NewInput().
				Title("Due Date").
				Placeholder("YYYY-MM-DD (optional)").
				Value(&m.fb.dueDate).
				Validate(validateOptionalDate),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) assigneeField() huh.Field {
	opts := []huh.Option[int]{
		huh.NewOption("Unassigned", 0),
	}
	for _, u := range m.users {
		label := fmt.Sprintf("%s (%s)", u.Username, u.Role)
		opts = append(opts, huh.NewOption(label, u.ID))
	}
	return huh.NewSelect[int]().
		Title("Assign To").
		Options(opts...).
		Value(&m.fb.assignedTo)
}

// handleSubmit builds the request payload. Blank assignee and due date
// serialize as null, which is how the backend models "unset".
func (m Model) handleSubmit() tea.Cmd {
	payload := api.TaskPayload{
		Title:       strings.TrimSpace(m.fb.title),
		Description: m.fb.description,
		Status:      m.fb.status,
		Priority:    m.fb.priority,
	}

	if m.fb.assignedTo != 0 {
		assignedTo := m.fb.assignedTo
		payload.AssignedTo = &assignedTo
	}
	if d := strings.TrimSpace(m.fb.dueDate); d != "" {
		payload.DueDate = &d
	}

	editID := 0
	if m.editMode {
		editID = m.editID
	}
	return func() tea.Msg {
		return SubmitMsg{Payload: payload, EditID: editID}
	}
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

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	_, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
