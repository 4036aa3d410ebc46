package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nhle/taskflow/internal/api"
	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/tests/testutil"
)

func newAdmin() model.User {
	return model.User{
		ID:       1,
		Username: "admin",
		Role:     model.RoleAdmin,
	}
}

func TestClientAttachesBasicHeader(t *testing.T) {
	srv := testutil.NewServer("admin", "admin123", newAdmin())
	defer srv.Close()

	client := api.NewClient(srv.URL, time.Second)
	client.SetCredential("admin", "admin123")

	user, err := client.Me(context.Background())
	if err != nil {
		t.Fatalf("Me() error: %v", err)
	}
	if user.Username != "admin" {
		t.Errorf("Me().Username = %q, want admin", user.Username)
	}

	reqs := srv.Requests()
	if len(reqs) != 1 {
		t.Fatalf("recorded %d requests, want 1", len(reqs))
	}
	want := "Basic " + api.BasicToken("admin", "admin123")
	if reqs[0].Authorization != want {
		t.Errorf("Authorization = %q, want %q", reqs[0].Authorization, want)
	}
	if reqs[0].RequestID == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestClientClearCredential(t *testing.T) {
	srv := testutil.NewServer("admin", "admin123", newAdmin())
	defer srv.Close()

	client := api.NewClient(srv.URL, time.Second)
	client.SetCredential("admin", "admin123")
	client.ClearCredential()

	if client.HasCredential() {
		t.Error("HasCredential() = true after ClearCredential")
	}

	_, err := client.Me(context.Background())
	if !api.IsAuthError(err) {
		t.Fatalf("Me() without credential: got %v, want auth error", err)
	}

	reqs := srv.Requests()
	if len(reqs) != 1 || reqs[0].Authorization != "" {
		t.Errorf("expected one request with no Authorization header, got %+v", reqs)
	}
}

func TestClientRejectedCredentialIsAuthError(t *testing.T) {
	srv := testutil.NewServer("admin", "admin123", newAdmin())
	defer srv.Close()

	client := api.NewClient(srv.URL, time.Second)
	client.SetCredential("admin", "wrong")

	_, err := client.Me(context.Background())
	if !api.IsAuthError(err) {
		t.Fatalf("got %v, want auth error", err)
	}
}

func TestListTasksQueryParams(t *testing.T) {
	srv := testutil.NewServer("admin", "admin123", newAdmin())
	defer srv.Close()

	client := api.NewClient(srv.URL, time.Second)
	client.SetCredential("admin", "admin123")

	_, err := client.ListTasks(context.Background(), api.TaskQuery{
		Page:     2,
		Status:   model.StatusTodo,
		Priority: model.PriorityHigh,
	})
	if err != nil {
		t.Fatalf("ListTasks() error: %v", err)
	}

	reqs := srv.Requests()
	if len(reqs) != 1 {
		t.Fatalf("recorded %d requests, want 1", len(reqs))
	}
	if got, want := reqs[0].Query, "page=2&priority=high&status=todo"; got != want {
		t.Errorf("query = %q, want %q", got, want)
	}
}

func TestListTasksDefaultsPageToOne(t *testing.T) {
	srv := testutil.NewServer("admin", "admin123", newAdmin())
	defer srv.Close()

	client := api.NewClient(srv.URL, time.Second)
	client.SetCredential("admin", "admin123")

	if _, err := client.ListTasks(context.Background(), api.TaskQuery{}); err != nil {
		t.Fatalf("ListTasks() error: %v", err)
	}

	if got := srv.Requests()[0].Query; got != "page=1" {
		t.Errorf("query = %q, want page=1", got)
	}
}

func TestListTasksPagination(t *testing.T) {
	srv := testutil.NewServer("admin", "admin123", newAdmin())
	defer srv.Close()
	srv.SetPageSize(2)
	for i := 0; i < 5; i++ {
		srv.SeedTask(model.Task{
			Title:    "task",
			Status:   model.StatusTodo,
			Priority: model.PriorityLow,
		})
	}

	client := api.NewClient(srv.URL, time.Second)
	client.SetCredential("admin", "admin123")

	page, err := client.ListTasks(context.Background(), api.TaskQuery{Page: 2})
	if err != nil {
		t.Fatalf("ListTasks() error: %v", err)
	}
	if page.Count != 5 {
		t.Errorf("Count = %d, want 5", page.Count)
	}
	if len(page.Results) != 2 {
		t.Errorf("len(Results) = %d, want 2", len(page.Results))
	}
	if !page.HasNext() {
		t.Error("HasNext() = false on middle page")
	}
	if !page.HasPrevious() {
		t.Error("HasPrevious() = false on middle page")
	}
}

func TestCreateTaskValidationError(t *testing.T) {
	srv := testutil.NewServer("admin", "admin123", newAdmin())
	defer srv.Close()

	client := api.NewClient(srv.URL, time.Second)
	client.SetCredential("admin", "admin123")

	_, err := client.CreateTask(context.Background(), api.TaskPayload{
		Status:   model.StatusTodo,
		Priority: model.PriorityLow,
	})
	if !api.IsValidationError(err) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestDeleteTaskNoContent(t *testing.T) {
	srv := testutil.NewServer("admin", "admin123", newAdmin())
	defer srv.Close()
	task := srv.SeedTask(model.Task{Title: "doomed"})

	client := api.NewClient(srv.URL, time.Second)
	client.SetCredential("admin", "admin123")

	if err := client.DeleteTask(context.Background(), task.ID); err != nil {
		t.Fatalf("DeleteTask() error: %v", err)
	}
	if n := len(srv.Tasks()); n != 0 {
		t.Errorf("%d tasks remain after delete", n)
	}
}

func TestListUsersBareArray(t *testing.T) {
	srv := testutil.NewServer("admin", "admin123", newAdmin())
	defer srv.Close()
	srv.SeedUser(model.User{Username: "bob", Role: model.RoleMember})

	client := api.NewClient(srv.URL, time.Second)
	client.SetCredential("admin", "admin123")

	users, err := client.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers() error: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("len(users) = %d, want 2", len(users))
	}
}

func TestListUsersEnvelope(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(
				`{"count": 1, "next": null, "previous": null,` +
					` "results": [{"id": 7, "username": "carol", "role": "manager"}]}`,
			))
		},
	))
	defer backend.Close()

	client := api.NewClient(backend.URL, time.Second)
	users, err := client.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers() error: %v", err)
	}
	if len(users) != 1 || users[0].Username != "carol" {
		t.Errorf("users = %+v, want single carol entry", users)
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	srv := testutil.NewServer("admin", "admin123", newAdmin())
	defer srv.Close()

	client := api.NewClient(srv.URL, time.Second)
	client.SetCredential("admin", "admin123")

	_, err := client.CreateUser(context.Background(), model.NewUser{
		Username: "admin",
		Password: "secret1",
		Role:     model.RoleMember,
	})
	if !api.IsValidationError(err) {
		t.Fatalf("got %v, want validation error", err)
	}
}
