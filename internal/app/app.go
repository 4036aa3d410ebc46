package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskflow/internal/api"
	"github.com/nhle/taskflow/internal/keys"
	"github.com/nhle/taskflow/internal/model"
	"github.com/nhle/taskflow/internal/session"
	"github.com/nhle/taskflow/internal/ui"
	"github.com/nhle/taskflow/internal/ui/dashboard"
	helpview "github.com/nhle/taskflow/internal/ui/help"
	"github.com/nhle/taskflow/internal/ui/login"
	"github.com/nhle/taskflow/internal/ui/taskform"
	"github.com/nhle/taskflow/internal/ui/tasklist"
	"github.com/nhle/taskflow/internal/ui/userform"
	"github.com/nhle/taskflow/internal/ui/userlist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewDashboard
	ViewTasks
	ViewUsers
	ViewTaskForm
	ViewUserForm
	ViewHelp
)

// Model is the root Bubble Tea model. It owns the session and acts as the
// route guard: the unauthenticated shell only reaches the login view, and
// the authenticated shell redirects login attempts to the dashboard.
// Session presence is re-read from the store on every view transition,
// never cached in view state.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	client       *api.Client
	sessions     *session.Store
	keys         *keys.KeyMap
	currentUser  *model.User
	users        []model.User

	loginView     login.Model
	dashboardView dashboard.Model
	taskList      tasklist.Model
	taskFormView  taskform.Model
	userList      userlist.Model
	userFormView  userform.Model
	helpView      helpview.Model

	// Transient banners. successSeq sequences the auto-clear timers so
	// an old timer never clears a newer message.
	errMsg     string
	successMsg string
	successSeq int

	initCmd tea.Cmd
	ready   bool
}

// New creates the root application model with the given shared client and
// session store.
func New(client *api.Client, sessions *session.Store) Model {
	k := keys.DefaultKeyMap()

	m := Model{
		currentView:   ViewLogin,
		client:        client,
		sessions:      sessions,
		keys:          k,
		loginView:     login.New(80, 24),
		dashboardView: dashboard.New(client, 80, 24),
		taskList:      tasklist.New(client, k, 80, 24),
		taskFormView:  taskform.New(80, 24),
		userList:      userlist.New(client, k, 80, 24),
		userFormView:  userform.New(80, 24),
		helpView:      helpview.New(k, 80, 24),
	}

	// Route the initial view here rather than in Init so the view setup
	// survives Bubble Tea's value-copy of the model.
	if m.sessionPresent() {
		m.currentView = ViewDashboard
		m.initCmd = tea.Batch(m.dashboardView.Reload(), m.fetchUsers())
	} else {
		m.initCmd = m.loginView.Start()
	}
	return m
}

// sessionPresent re-reads the session store. This is the guard predicate;
// it is intentionally not cached.
func (m Model) sessionPresent() bool {
	_, err := m.sessions.Load()
	return err == nil
}

// Init returns the command prepared during construction.
func (m Model) Init() tea.Cmd {
	return m.initCmd
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.loginView.SetSize(contentWidth, contentHeight)
		m.dashboardView.SetSize(contentWidth, contentHeight)
		m.taskList.SetSize(contentWidth, contentHeight)
		m.taskFormView.SetSize(contentWidth, contentHeight)
		m.userList.SetSize(contentWidth, contentHeight)
		m.userFormView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		// Forward to the active view so huh forms can lay themselves out.
		return m.updateActiveView(msg)

	// --- Login flow ---

	case login.SubmitMsg:
		// Install the candidate header speculatively, then probe.
		m.client.SetCredential(msg.Username, msg.Password)
		return m, m.probe(session.Credential{
			Username: msg.Username,
			Password: msg.Password,
		})

	case probeResultMsg:
		if msg.err != nil {
			// Probe rejected: discard the speculative header and show
			// the generic message only.
			m.client.ClearCredential()
			return m, m.loginView.Fail()
		}
		if err := m.sessions.Save(msg.cred, msg.user); err != nil {
			m.client.ClearCredential()
			m.errMsg = "Failed to save session"
			return m, m.loginView.Fail()
		}
		m.setUser(msg.user)
		return m.gotoDashboard()

	// --- Dashboard ---

	case dashboard.LoadedMsg:
		if msg.Err != nil {
			m.errMsg = "Failed to load dashboard"
		} else {
			m.setUser(msg.User)
		}
		var cmd tea.Cmd
		m.dashboardView, cmd = m.dashboardView.Update(msg)
		return m, cmd

	// --- Task list ---

	case tasklist.LoadedMsg:
		if msg.Err != nil {
			m.errMsg = "Failed to load tasks"
		}
		var cmd tea.Cmd
		m.taskList, cmd = m.taskList.Update(msg)
		return m, cmd

	case tasklist.CreateRequestMsg:
		m.previousView = m.currentView
		m.currentView = ViewTaskForm
		m.taskFormView.SetUsers(m.users)
		return m, m.taskFormView.StartCreate()

	case tasklist.EditRequestMsg:
		m.previousView = m.currentView
		m.currentView = ViewTaskForm
		m.taskFormView.SetUsers(m.users)
		return m, m.taskFormView.StartEdit(msg.Task)

	case tasklist.DeletedMsg:
		if msg.Err != nil {
			m.errMsg = "Failed to delete task"
			return m, nil
		}
		cmd := m.setSuccess("Task deleted successfully!")
		return m, tea.Batch(cmd, m.taskList.Reload())

	// --- Task form ---

	case taskform.SubmitMsg:
		m.errMsg = ""
		return m, m.saveTask(msg)

	case taskform.CancelMsg:
		m.currentView = ViewTasks
		return m, nil

	case taskSavedMsg:
		if msg.err != nil {
			// A rejected save keeps the form open with the backend's
			// field errors concatenated into one line.
			if valErr, ok := asValidationError(msg.err); ok {
				return m, m.taskFormView.Reopen(valErr.Flatten())
			}
			return m, m.taskFormView.Reopen("Failed to save task")
		}
		m.currentView = ViewTasks
		label := "Task updated successfully!"
		if msg.created {
			label = "Task created successfully!"
		}
		cmd := m.setSuccess(label)
		return m, tea.Batch(cmd, m.taskList.Reload())

	// --- User list ---

	case userlist.LoadedMsg:
		if msg.Err != nil {
			m.errMsg = "Failed to load users"
		} else {
			m.users = msg.Users
		}
		var cmd tea.Cmd
		m.userList, cmd = m.userList.Update(msg)
		return m, cmd

	case userlist.CreateRequestMsg:
		m.previousView = m.currentView
		m.currentView = ViewUserForm
		return m, m.userFormView.Start()

	case userlist.DeleteBlockedMsg:
		// Rejected client-side; no request was issued.
		m.errMsg = msg.Reason
		return m, nil

	case userlist.DeletedMsg:
		if msg.Err != nil {
			m.errMsg = "Failed to delete user"
			return m, nil
		}
		cmd := m.setSuccess("User deleted successfully!")
		return m, tea.Batch(cmd, m.userList.Reload())

	// --- User form ---

	case userform.SubmitMsg:
		m.errMsg = ""
		return m, m.createUser(msg.User)

	case userform.CancelMsg:
		m.currentView = ViewUsers
		return m, nil

	case userCreatedMsg:
		if msg.err != nil {
			if valErr, ok := asValidationError(msg.err); ok {
				return m, m.userFormView.Reopen(valErr.Flatten())
			}
			return m, m.userFormView.Reopen("Failed to create user")
		}
		m.currentView = ViewUsers
		cmd := m.setSuccess("User created successfully!")
		return m, tea.Batch(cmd, m.userList.Reload())

	// --- Shared ---

	case usersLoadedMsg:
		if msg.err == nil {
			m.users = msg.users
		}
		return m, nil

	case meLoadedMsg:
		if msg.err == nil {
			m.setUser(msg.user)
		}
		return m, nil

	case clearSuccessMsg:
		if msg.seq == m.successSeq {
			m.successMsg = ""
		}
		return m, nil

	case tea.KeyMsg:
		if handled, mdl, cmd := m.handleGlobalKeys(msg); handled {
			return mdl, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that work regardless of the focused
// view. Text-entry views only receive ctrl+c so typing is not intercepted.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return true, m, tea.Quit
	}

	// Forms and the login screen own the rest of the keyboard.
	if m.currentView == ViewLogin || m.currentView == ViewTaskForm ||
		m.currentView == ViewUserForm {
		return false, m, nil
	}

	switch msg.String() {
	case "q":
		if m.currentView == ViewDashboard || m.currentView == ViewTasks ||
			m.currentView == ViewUsers {
			return true, m, tea.Quit
		}

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return true, m, nil

	case "esc":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}

	case "ctrl+x":
		m.errMsg = ""
		m.successMsg = ""
		return true, m, nil

	case "d":
		mdl, cmd := m.gotoDashboard()
		return true, mdl, cmd

	case "t":
		mdl, cmd := m.gotoTasks()
		return true, mdl, cmd

	case "u":
		mdl, cmd := m.gotoUsers()
		return true, mdl, cmd

	case "L":
		mdl, cmd := m.logout()
		return true, mdl, cmd

	case "r":
		cmd := m.refreshActiveView()
		return true, m, cmd
	}

	return false, m, nil
}

// guard re-evaluates session presence before entering an authenticated
// view. Returns false after switching to the login view.
func (m *Model) guard() bool {
	if m.sessionPresent() {
		return true
	}
	m.currentView = ViewLogin
	m.currentUser = nil
	m.client.ClearCredential()
	return false
}

func (m Model) gotoDashboard() (tea.Model, tea.Cmd) {
	if !m.guard() {
		return m, m.loginView.Start()
	}
	m.errMsg = ""
	m.currentView = ViewDashboard
	return m, tea.Batch(m.dashboardView.Reload(), m.fetchUsers())
}

func (m Model) gotoTasks() (tea.Model, tea.Cmd) {
	if !m.guard() {
		return m, m.loginView.Start()
	}
	m.errMsg = ""
	m.currentView = ViewTasks
	return m, tea.Batch(m.fetchMe(), m.fetchUsers(), m.taskList.Reload())
}

func (m Model) gotoUsers() (tea.Model, tea.Cmd) {
	if !m.guard() {
		return m, m.loginView.Start()
	}
	// The users view is admin-only; others keep their current view.
	if m.currentUser == nil || m.currentUser.Role != model.RoleAdmin {
		return m, nil
	}
	m.errMsg = ""
	m.currentView = ViewUsers
	return m, tea.Batch(m.fetchMe(), m.userList.Reload())
}

// logout clears both storage entries and the installed header, then
// returns to the login view.
func (m Model) logout() (tea.Model, tea.Cmd) {
	if err := m.sessions.Clear(); err != nil {
		m.errMsg = "Failed to clear session"
		return m, nil
	}
	m.client.ClearCredential()
	m.currentUser = nil
	m.users = nil
	m.errMsg = ""
	m.successMsg = ""
	m.currentView = ViewLogin
	return m, m.loginView.Start()
}

// refreshActiveView re-fetches data for the current view.
func (m *Model) refreshActiveView() tea.Cmd {
	switch m.currentView {
	case ViewDashboard:
		return m.dashboardView.Reload()
	case ViewTasks:
		return tea.Batch(m.fetchMe(), m.taskList.Reload())
	case ViewUsers:
		return tea.Batch(m.fetchMe(), m.userList.Reload())
	default:
		return nil
	}
}

// setUser records the freshly fetched profile and propagates it to the
// views that derive capability flags from it.
func (m *Model) setUser(user *model.User) {
	m.currentUser = user
	m.taskList.SetUser(user)
	m.userList.SetUser(user)
}

// setSuccess installs a success banner and schedules its auto-clear.
func (m *Model) setSuccess(msg string) tea.Cmd {
	m.errMsg = ""
	m.successMsg = msg
	m.successSeq++
	return m.scheduleSuccessClear(m.successSeq)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewDashboard:
		m.dashboardView, cmd = m.dashboardView.Update(msg)
	case ViewTasks:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewTaskForm:
		m.taskFormView, cmd = m.taskFormView.Update(msg)
	case ViewUsers:
		m.userList, cmd = m.userList.Update(msg)
	case ViewUserForm:
		m.userFormView, cmd = m.userFormView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.currentView == ViewLogin {
		// The unauthenticated shell has no header or nav.
		return m.loginView.View()
	}

	header := m.layout.RenderHeader("TaskFlow", m.userLabel())
	banner := m.renderBanner()
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, banner, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewTasks:
		return m.taskList.View()
	case ViewTaskForm:
		return m.taskFormView.View()
	case ViewUsers:
		return m.userList.View()
	case ViewUserForm:
		return m.userFormView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// renderBanner renders the transient message line, error taking
// precedence over success.
func (m Model) renderBanner() string {
	if m.errMsg != "" {
		return m.layout.RenderBanner(m.errMsg, true)
	}
	return m.layout.RenderBanner(m.successMsg, false)
}

// userLabel returns the header's right-aligned user summary.
func (m Model) userLabel() string {
	if m.currentUser == nil {
		return ""
	}
	return m.currentUser.DisplayName() + " · " + m.currentUser.Role
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help"
	case ViewTaskForm, ViewUserForm:
		return "enter submit | esc cancel"
	case ViewUsers:
		return "q quit | ? help | n new | x delete | d dashboard | t tasks | L log out"
	case ViewTasks:
		hints := "q quit | ? help | n new | e edit | x delete | h/l page | 1/2/3 filters"
		if summary := m.taskList.FilterSummary(); summary != "" {
			return summary + " | " + hints
		}
		return hints
	default:
		hints := "q quit | ? help | t tasks | L log out"
		if m.currentUser != nil && m.currentUser.Role == model.RoleAdmin {
			hints = "q quit | ? help | t tasks | u users | L log out"
		}
		return hints
	}
}
