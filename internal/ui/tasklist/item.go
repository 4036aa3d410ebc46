package tasklist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Title }

// Title returns the task title for the list.
func (i TaskItem) Title() string { return i.Task.Title }

// Description returns a short summary line for the list.
func (i TaskItem) Description() string {
	parts := []string{
		model.StatusLabel(i.Task.Status),
		model.PriorityLabel(i.Task.Priority),
	}
	if i.Task.AssignedToDetail != nil {
		parts = append(parts, i.Task.AssignedToDetail.Username)
	}
	return strings.Join(parts, " | ")
}

// TaskDelegate implements list.ItemDelegate for rendering task rows.
type TaskDelegate struct{}

// Height returns the number of lines each item takes.
func (d TaskDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d TaskDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d TaskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task row.
func (d TaskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	taskItem, ok := item.(TaskItem)
	if !ok {
		return
	}

	task := taskItem.Task
	isSelected := index == m.Index()

	statusBadge := theme.StatusStyle(task.Status).
		Render(model.StatusLabel(task.Status))

	priBadge := theme.PriorityStyle(task.Priority).
		Render(model.PriorityLabel(task.Priority))

	assignee := ""
	if task.AssignedToDetail != nil {
		assignee = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(" @" + task.AssignedToDetail.Username)
	}

	dueDate := ""
	if task.DueDate != nil {
		dueDate = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(" due " + *task.DueDate)
	}

	line := fmt.Sprintf(
		"%s %s %s%s%s",
		statusBadge, priBadge, task.Title, assignee, dueDate,
	)

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}
