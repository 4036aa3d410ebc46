package api

import (
	"net/url"
	"strconv"

	"github.com/nhle/taskflow/internal/model"
)

// TaskQuery controls pagination and filtering for ListTasks. The zero
// value of Status/Priority means "no filter"; Page values below 1 are
// treated as 1.
type TaskQuery struct {
	Page     int
	Status   string
	Priority string
}

// encode renders the query as URL parameters, always including page.
func (q TaskQuery) encode() string {
	page := q.Page
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if q.Priority != "" {
		params.Set("priority", q.Priority)
	}
	return params.Encode()
}

// TaskPage is one page of task results as returned by GET /tasks/.
// Next and Previous are opaque pointers to the adjacent pages; their
// presence, not a locally computed page count, decides whether paging
// controls are enabled.
type TaskPage struct {
	Count    int          `json:"count"`
	Next     *string      `json:"next"`
	Previous *string      `json:"previous"`
	Results  []model.Task `json:"results"`
}

// HasNext reports whether the backend exposes a following page.
func (p TaskPage) HasNext() bool { return p.Next != nil }

// HasPrevious reports whether the backend exposes a preceding page.
func (p TaskPage) HasPrevious() bool { return p.Previous != nil }

// TaskPayload is the request body for creating or updating a task.
// AssignedTo and DueDate serialize as null when unset, matching what the
// backend expects for "unassigned" and "no due date".
type TaskPayload struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	AssignedTo  *int    `json:"assigned_to"`
	DueDate     *string `json:"due_date"`
}
