package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/taskflow/internal/model"
)

// Client is a thin HTTP client for the TaskFlow REST backend. It attaches
// the installed Basic credentials to every request, handles JSON
// marshaling, and maps backend failures onto the error taxonomy in
// errors.go. One Client is shared by all views.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new TaskFlow HTTP client. The baseURL should be the
// root URL of the backend (e.g., http://localhost:8000); the /api prefix
// is appended here. No credentials are installed until SetCredential is
// called.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetCredential installs a Basic authorization token computed from the
// given pair as the default header for all subsequent requests.
func (c *Client) SetCredential(username, password string) {
	c.token = BasicToken(username, password)
}

// ClearCredential removes the installed authorization token.
func (c *Client) ClearCredential() {
	c.token = ""
}

// HasCredential reports whether an authorization token is installed.
func (c *Client) HasCredential() bool {
	return c.token != ""
}

// Me fetches the current user profile. A 401 response surfaces as an
// *AuthError, which callers treat as "not authenticated".
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, "/auth/me/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListTasks fetches one page of tasks with the given filters. Each call
// returns a full replacement page, never an increment.
func (c *Client) ListTasks(ctx context.Context, query TaskQuery) (*TaskPage, error) {
	var page TaskPage
	path := "/tasks/?" + query.encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreateTask creates a new task.
func (c *Client) CreateTask(ctx context.Context, payload TaskPayload) (*model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodPost, "/tasks/", payload, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask replaces the task with the given ID.
func (c *Client) UpdateTask(ctx context.Context, id int, payload TaskPayload) (*model.Task, error) {
	var task model.Task
	path := fmt.Sprintf("/tasks/%d/", id)
	if err := c.do(ctx, http.MethodPut, path, payload, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask deletes the task with the given ID.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	path := fmt.Sprintf("/tasks/%d/", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// ListUsers fetches all users. The backend returns either a bare array
// or a paginated {results: [...]} envelope; both shapes are accepted.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/users/", nil, &raw); err != nil {
		return nil, err
	}

	var users []model.User
	if err := json.Unmarshal(raw, &users); err == nil {
		return users, nil
	}

	var envelope struct {
		Results []model.User `json:"results"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("unmarshaling users response: %w", err)
	}
	return envelope.Results, nil
}

// CreateUser creates a new account.
func (c *Client) CreateUser(ctx context.Context, payload model.NewUser) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPost, "/users/", payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser deletes the account with the given ID.
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	path := fmt.Sprintf("/users/%d/", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do is the core HTTP method that builds the request, attaches auth and a
// request ID, and handles JSON (de)serialization. Each call is a single
// attempt; retry policy is left to the user action that triggered it.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	result interface{},
) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Basic "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("reading response body: %w", readErr)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return &AuthError{
			Message: fmt.Sprintf(
				"credentials rejected by %s", c.baseURL,
			),
		}
	}

	if resp.StatusCode == http.StatusBadRequest {
		if valErr := parseValidationError(respBody); valErr != nil {
			return valErr
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf(
			"unexpected status %d on %s %s: %s",
			resp.StatusCode, method, path, string(respBody),
		)
	}

	// No content to parse (e.g. 204 from DELETE).
	if result == nil || resp.StatusCode == http.StatusNoContent ||
		len(respBody) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf(
			"unmarshaling response from %s %s: %w", method, path, err,
		)
	}

	return nil
}
