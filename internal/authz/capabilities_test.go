package authz

import (
	"testing"

	"github.com/nhle/taskflow/internal/model"
)

func intPtr(n int) *int { return &n }

func TestCanCreateTask(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{model.RoleAdmin, true},
		{model.RoleManager, true},
		{model.RoleMember, false},
		{"", false},
		{"superuser", false},
	}

	for _, tt := range tests {
		if got := CanCreateTask(tt.role); got != tt.want {
			t.Errorf("CanCreateTask(%q) = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestCanEditTask(t *testing.T) {
	admin := &model.User{ID: 1, Role: model.RoleAdmin}
	manager := &model.User{ID: 2, Role: model.RoleManager}
	member := &model.User{ID: 3, Role: model.RoleMember}

	tests := []struct {
		name string
		user *model.User
		task model.Task
		want bool
	}{
		{
			name: "admin edits anything",
			user: admin,
			task: model.Task{CreatedBy: 99, AssignedTo: intPtr(98)},
			want: true,
		},
		{
			name: "manager edits own task",
			user: manager,
			task: model.Task{CreatedBy: 2},
			want: true,
		},
		{
			name: "manager cannot edit others' tasks",
			user: manager,
			task: model.Task{CreatedBy: 1, AssignedTo: intPtr(2)},
			want: false,
		},
		{
			name: "member edits assigned task",
			user: member,
			task: model.Task{CreatedBy: 1, AssignedTo: intPtr(3)},
			want: true,
		},
		{
			name: "member cannot edit unassigned task",
			user: member,
			task: model.Task{CreatedBy: 3},
			want: false,
		},
		{
			name: "member cannot edit task assigned elsewhere",
			user: member,
			task: model.Task{CreatedBy: 1, AssignedTo: intPtr(2)},
			want: false,
		},
		{
			name: "nil user",
			user: nil,
			task: model.Task{CreatedBy: 1},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanEditTask(tt.user, tt.task); got != tt.want {
				t.Errorf("CanEditTask() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanDeleteTask(t *testing.T) {
	admin := &model.User{ID: 1, Role: model.RoleAdmin}
	manager := &model.User{ID: 2, Role: model.RoleManager}
	member := &model.User{ID: 3, Role: model.RoleMember}

	tests := []struct {
		name string
		user *model.User
		task model.Task
		want bool
	}{
		{"admin deletes anything", admin, model.Task{CreatedBy: 99}, true},
		{"manager deletes own task", manager, model.Task{CreatedBy: 2}, true},
		{"manager cannot delete others' tasks", manager, model.Task{CreatedBy: 1}, false},
		{
			// Assignment grants edit, never delete.
			"member cannot delete assigned task",
			member,
			model.Task{CreatedBy: 1, AssignedTo: intPtr(3)},
			false,
		},
		{"nil user", nil, model.Task{CreatedBy: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanDeleteTask(tt.user, tt.task); got != tt.want {
				t.Errorf("CanDeleteTask() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanManageUsers(t *testing.T) {
	if !CanManageUsers(&model.User{ID: 1, Role: model.RoleAdmin}) {
		t.Error("admin should manage users")
	}
	if CanManageUsers(&model.User{ID: 2, Role: model.RoleManager}) {
		t.Error("manager should not manage users")
	}
	if CanManageUsers(&model.User{ID: 3, Role: model.RoleMember}) {
		t.Error("member should not manage users")
	}
	if CanManageUsers(nil) {
		t.Error("nil user should not manage users")
	}
}

func TestCanDeleteUser(t *testing.T) {
	admin := &model.User{ID: 1, Role: model.RoleAdmin}

	if !CanDeleteUser(admin, model.User{ID: 2, Role: model.RoleMember}) {
		t.Error("admin should delete other accounts")
	}
	if CanDeleteUser(admin, model.User{ID: 1, Role: model.RoleAdmin}) {
		t.Error("self-delete must be blocked")
	}
	if CanDeleteUser(
		&model.User{ID: 2, Role: model.RoleManager},
		model.User{ID: 3, Role: model.RoleMember},
	) {
		t.Error("manager should not delete accounts")
	}
	if CanDeleteUser(nil, model.User{ID: 2}) {
		t.Error("nil user should not delete accounts")
	}
}
