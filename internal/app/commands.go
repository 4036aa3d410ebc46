package app

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskflow/internal/api"
	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/internal/session"
	"github.com/nhle/taskflow/internal/ui/taskform"
)

// successBannerTTL is how long a success banner stays visible.
const successBannerTTL = 3 * time.Second

type probeResultMsg struct {
	cred session.Credential
	user *model.User
	err  error
}

type taskSavedMsg struct {
	created bool
	err     error
}

type userCreatedMsg struct {
	err error
}

type usersLoadedMsg struct {
	users []model.User
	err   error
}

type meLoadedMsg struct {
	user *model.User
	err  error
}

type clearSuccessMsg struct {
	seq int
}

// probe validates the speculatively installed credential by fetching the
// caller's own profile. Any error means the credential is rejected.
func (m Model) probe(cred session.Credential) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		user, err := client.Me(context.Background())
		return probeResultMsg{cred: cred, user: user, err: err}
	}
}

// saveTask creates or fully replaces a task depending on the form mode.
func (m Model) saveTask(msg taskform.SubmitMsg) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx := context.Background()
		if msg.EditID == 0 {
			_, err := client.CreateTask(ctx, msg.Payload)
			return taskSavedMsg{created: true, err: err}
		}
		_, err := client.UpdateTask(ctx, msg.EditID, msg.Payload)
		return taskSavedMsg{created: false, err: err}
	}
}

// createUser submits a new account.
func (m Model) createUser(user model.NewUser) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		_, err := client.CreateUser(context.Background(), user)
		return userCreatedMsg{err: err}
	}
}

// fetchUsers loads the user directory used for assignee options.
func (m Model) fetchUsers() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		users, err := client.ListUsers(context.Background())
		return usersLoadedMsg{users: users, err: err}
	}
}

// fetchMe refreshes the current profile so capability flags track the
// backend's view of the account.
func (m Model) fetchMe() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		user, err := client.Me(context.Background())
		return meLoadedMsg{user: user, err: err}
	}
}

// scheduleSuccessClear clears the success banner after its TTL, unless a
// newer banner has replaced it in the meantime.
func (m Model) scheduleSuccessClear(seq int) tea.Cmd {
	return tea.Tick(successBannerTTL, func(time.Time) tea.Msg {
		return clearSuccessMsg{seq: seq}
	})
}

func asValidationError(err error) (*api.ValidationError, bool) {
	var valErr *api.ValidationError
	if errors.As(err, &valErr) {
		return valErr, true
	}
	return nil, false
}
