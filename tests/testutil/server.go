// Package testutil provides a fake TaskFlow backend for tests: an
// in-memory task and user store behind the same REST surface the real
// backend exposes, with request recording for assertions.
package testutil

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"sync"

	"github.com/nhle/taskflow/internal/model"
)

// DefaultPageSize matches the backend's task pagination.
const DefaultPageSize = 10

// RecordedRequest captures one request for later assertions.
type RecordedRequest struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	RequestID     string
	Body          []byte
}

// Server is an in-memory fake of the TaskFlow backend.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	username   string
	password   string
	me         model.User
	users      []model.User
	tasks      []model.Task
	nextTaskID int
	nextUserID int
	pageSize   int
	requests   []RecordedRequest
}

var (
	taskPathRe = regexp.MustCompile(`^/api/tasks/(\d+)/$`)
	userPathRe = regexp.MustCompile(`^/api/users/(\d+)/$`)
)

// NewServer starts a fake backend that accepts the given credentials and
// reports the given profile from /auth/me/. The profile is also seeded
// into the user directory.
func NewServer(username, password string, me model.User) *Server {
	s := &Server{
		username:   username,
		password:   password,
		me:         me,
		users:      []model.User{me},
		nextTaskID: 1,
		nextUserID: me.ID + 1,
		pageSize:   DefaultPageSize,
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// SeedTask adds a task and returns it with its assigned ID.
func (s *Server) SeedTask(task model.Task) model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	task.ID = s.nextTaskID
	s.nextTaskID++
	s.tasks = append(s.tasks, task)
	return task
}

// SeedUser adds an account to the directory and returns it with its ID.
func (s *Server) SeedUser(user model.User) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = s.nextUserID
	s.nextUserID++
	s.users = append(s.users, user)
	return user
}

// SetPageSize overrides the task pagination size.
func (s *Server) SetPageSize(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageSize = n
}

// Requests returns a copy of every recorded request so far.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestCount returns how many requests hit the given method and path.
func (s *Server) RequestCount(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Tasks returns a copy of the current task store.
func (s *Server) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Users returns a copy of the current user directory.
func (s *Server) Users() []model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, len(s.users))
	copy(out, s.users)
	return out
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	body, _ := io.ReadAll(r.Body)
	s.requests = append(s.requests, RecordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Query:         r.URL.RawQuery,
		Authorization: r.Header.Get("Authorization"),
		RequestID:     r.Header.Get("X-Request-ID"),
		Body:          body,
	})

	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"detail": "Invalid username/password.",
		})
		return
	}

	switch {
	case r.URL.Path == "/api/auth/me/" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, s.me)

	case r.URL.Path == "/api/tasks/" && r.Method == http.MethodGet:
		s.listTasks(w, r)

	case r.URL.Path == "/api/tasks/" && r.Method == http.MethodPost:
		s.createTask(w, body)

	case taskPathRe.MatchString(r.URL.Path):
		id := pathID(taskPathRe, r.URL.Path)
		s.taskDetail(w, r, id, body)

	case r.URL.Path == "/api/users/" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, s.users)

	case r.URL.Path == "/api/users/" && r.Method == http.MethodPost:
		s.createUser(w, body)

	case userPathRe.MatchString(r.URL.Path) && r.Method == http.MethodDelete:
		id := pathID(userPathRe, r.URL.Path)
		s.deleteUser(w, id)

	default:
		writeJSON(w, http.StatusNotFound, map[string]string{
			"detail": "Not found.",
		})
	}
}

func (s *Server) authorized(r *http.Request) bool {
	want := "Basic " + base64.StdEncoding.EncodeToString(
		[]byte(s.username+":"+s.password),
	)
	return r.Header.Get("Authorization") == want
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	priority := r.URL.Query().Get("priority")
	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}

	var filtered []model.Task
	for _, t := range s.tasks {
		if status != "" && t.Status != status {
			continue
		}
		if priority != "" && t.Priority != priority {
			continue
		}
		filtered = append(filtered, t)
	}

	start := (page - 1) * s.pageSize
	end := start + s.pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	var next, prev *string
	if end < len(filtered) {
		u := fmt.Sprintf("%s/api/tasks/?page=%d", s.URL, page+1)
		next = &u
	}
	if page > 1 {
		u := fmt.Sprintf("%s/api/tasks/?page=%d", s.URL, page-1)
		prev = &u
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(filtered),
		"next":     next,
		"previous": prev,
		"results":  filtered[start:end],
	})
}

func (s *Server) createTask(w http.ResponseWriter, body []byte) {
	var task model.Task
	if err := json.Unmarshal(body, &task); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"detail": "Malformed request.",
		})
		return
	}
	if task.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"title": {"This field may not be blank."},
		})
		return
	}

	task.ID = s.nextTaskID
	s.nextTaskID++
	task.CreatedBy = s.me.ID
	s.resolveAssignee(&task)
	s.tasks = append(s.tasks, task)
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) taskDetail(w http.ResponseWriter, r *http.Request, id int, body []byte) {
	idx := -1
	for i, t := range s.tasks {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"detail": "Not found.",
		})
		return
	}

	switch r.Method {
	case http.MethodPut:
		var task model.Task
		if err := json.Unmarshal(body, &task); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"detail": "Malformed request.",
			})
			return
		}
		if task.Title == "" {
			writeJSON(w, http.StatusBadRequest, map[string][]string{
				"title": {"This field may not be blank."},
			})
			return
		}
		task.ID = id
		task.CreatedBy = s.tasks[idx].CreatedBy
		s.resolveAssignee(&task)
		s.tasks[idx] = task
		writeJSON(w, http.StatusOK, task)

	case http.MethodDelete:
		s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
		w.WriteHeader(http.StatusNoContent)

	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
			"detail": "Method not allowed.",
		})
	}
}

func (s *Server) createUser(w http.ResponseWriter, body []byte) {
	var payload model.NewUser
	if err := json.Unmarshal(body, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"detail": "Malformed request.",
		})
		return
	}
	if payload.Username == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"username": {"This field may not be blank."},
		})
		return
	}
	for _, u := range s.users {
		if u.Username == payload.Username {
			writeJSON(w, http.StatusBadRequest, map[string][]string{
				"username": {"A user with that username already exists."},
			})
			return
		}
	}

	user := model.User{
		ID:        s.nextUserID,
		Username:  payload.Username,
		Email:     payload.Email,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Role:      payload.Role,
	}
	s.nextUserID++
	s.users = append(s.users, user)
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) deleteUser(w http.ResponseWriter, id int) {
	for i, u := range s.users {
		if u.ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{
		"detail": "Not found.",
	})
}

// resolveAssignee fills in the nested assignee detail the way the real
// backend serializes it.
func (s *Server) resolveAssignee(task *model.Task) {
	task.AssignedToDetail = nil
	if task.AssignedTo == nil {
		return
	}
	for i := range s.users {
		if s.users[i].ID == *task.AssignedTo {
			u := s.users[i]
			task.AssignedToDetail = &u
			return
		}
	}
}

func pathID(re *regexp.Regexp, path string) int {
	m := re.FindStringSubmatch(path)
	id, _ := strconv.Atoi(m[1])
	return id
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
