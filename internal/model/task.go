package model

// Task status constants.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// Task priority constants.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task is a work item owned by the backend. The client round-trips it
// through forms without interpreting it beyond display and capability
// checks.
type Task struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`

	// AssignedTo is the assignee's user ID, nil when unassigned.
	AssignedTo *int `json:"assigned_to"`

	// AssignedToDetail is the expanded assignee record, nil when unassigned.
	AssignedToDetail *User `json:"assigned_to_detail"`

	// DueDate is a YYYY-MM-DD date, nil when no due date is set.
	DueDate *string `json:"due_date"`

	// CreatedBy is the user ID of the task's creator.
	CreatedBy int `json:"created_by"`
}

// StatusLabel returns the human-readable label for a task status.
func StatusLabel(status string) string {
	switch status {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	default:
		return status
	}
}

// PriorityLabel returns the human-readable label for a task priority.
func PriorityLabel(priority string) string {
	switch priority {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	default:
		return priority
	}
}
