package userlist

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskflow/internal/api"
	"github.com/nhle/taskflow/internal/keys"
	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/tests/testutil"
)

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestModel(t *testing.T) (Model, *testutil.Server, *model.User) {
	t.Helper()
	admin := model.User{ID: 1, Username: "admin", Role: model.RoleAdmin}
	srv := testutil.NewServer("admin", "admin123", admin)
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, time.Second)
	client.SetCredential("admin", "admin123")

	m := New(client, keys.DefaultKeyMap(), 80, 24)
	m.SetUser(&admin)
	return m, srv, &admin
}

func TestSelfDeleteBlockedWithoutRequest(t *testing.T) {
	m, srv, admin := newTestModel(t)

	m, _ = m.Update(LoadedMsg{Users: []model.User{
		*admin,
		{ID: 2, Username: "bob", Role: model.RoleMember},
	}})

	before := len(srv.Requests())

	// Cursor starts on the admin's own row.
	_, cmd := m.Update(keyPress('x'))
	if cmd == nil {
		t.Fatal("self-delete produced no message")
	}
	msg, ok := cmd().(DeleteBlockedMsg)
	if !ok {
		t.Fatalf("got %T, want DeleteBlockedMsg", cmd())
	}
	if msg.Reason != "You cannot delete your own account" {
		t.Errorf("Reason = %q", msg.Reason)
	}

	if len(srv.Requests()) != before {
		t.Error("self-delete reached the backend")
	}
	if len(srv.Users()) != 1 {
		t.Error("user directory changed")
	}
}

func TestDeleteOtherAccount(t *testing.T) {
	m, srv, admin := newTestModel(t)
	bob := srv.SeedUser(model.User{Username: "bob", Role: model.RoleMember})

	m, _ = m.Update(LoadedMsg{Users: []model.User{*admin, bob}})
	m, _ = m.Update(keyPress('j'))

	_, cmd := m.Update(keyPress('x'))
	if cmd == nil {
		t.Fatal("delete produced no command")
	}
	if msg, ok := cmd().(DeletedMsg); !ok || msg.Err != nil {
		t.Fatalf("delete result = %+v", msg)
	}

	users := srv.Users()
	if len(users) != 1 || users[0].Username != "admin" {
		t.Errorf("directory after delete = %+v", users)
	}
}

func TestDeleteRequiresManageCapability(t *testing.T) {
	m, srv, admin := newTestModel(t)
	bob := srv.SeedUser(model.User{Username: "bob", Role: model.RoleMember})

	m, _ = m.Update(LoadedMsg{Users: []model.User{*admin, bob}})
	m.SetUser(&bob)
	m, _ = m.Update(keyPress('j'))

	_, cmd := m.Update(keyPress('x'))
	if cmd != nil {
		t.Error("non-admin's x key produced a command")
	}
}

func TestNewKeyRequiresManageCapability(t *testing.T) {
	m, _, _ := newTestModel(t)

	_, cmd := m.Update(keyPress('n'))
	if cmd == nil {
		t.Fatal("admin's n key produced no command")
	}
	if _, ok := cmd().(CreateRequestMsg); !ok {
		t.Error("admin's n key did not request the user form")
	}

	m.SetUser(&model.User{ID: 5, Role: model.RoleManager})
	_, cmd = m.Update(keyPress('n'))
	if cmd != nil {
		t.Error("manager's n key produced a command")
	}
}

func TestCursorStaysInBounds(t *testing.T) {
	m, _, admin := newTestModel(t)

	m, _ = m.Update(LoadedMsg{Users: []model.User{
		*admin,
		{ID: 2, Username: "bob", Role: model.RoleMember},
	}})

	m, _ = m.Update(keyPress('j'))
	m, _ = m.Update(keyPress('j'))
	if m.cursor != 1 {
		t.Errorf("cursor = %d after overscroll, want 1", m.cursor)
	}

	// Shrinking the list pulls the cursor back in range.
	m, _ = m.Update(LoadedMsg{Users: []model.User{*admin}})
	if m.cursor != 0 {
		t.Errorf("cursor = %d after shrink, want 0", m.cursor)
	}
}

func TestViewPlaceholders(t *testing.T) {
	m, _, admin := newTestModel(t)

	m, _ = m.Update(LoadedMsg{Users: []model.User{*admin}})
	view := m.View()
	if !strings.Contains(view, "admin") {
		t.Error("view missing username")
	}
	// Empty email and full name render as placeholders, not blanks.
	if !strings.Contains(view, "—") {
		t.Error("view missing placeholder for empty fields")
	}
}
