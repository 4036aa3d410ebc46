// Package authz derives UI capability flags from the current user profile.
// The flags gate affordances only; the authoritative checks live on the
// backend. Every function is a pure function of (role, ownership,
// assignment) and is recomputed on each render, never cached.
package authz

import "github.com/nhle/taskflow/internal/model"

// CanCreateTask reports whether a user with the given role may create tasks.
func CanCreateTask(role string) bool {
	return role == model.RoleAdmin || role == model.RoleManager
}

// CanEditTask reports whether the user may edit the given task: admins
// always, managers for tasks they created, members for tasks assigned to
// them.
func CanEditTask(user *model.User, task model.Task) bool {
	if user == nil {
		return false
	}
	switch user.Role {
	case model.RoleAdmin:
		return true
	case model.RoleManager:
		return task.CreatedBy == user.ID
	case model.RoleMember:
		return task.AssignedTo != nil && *task.AssignedTo == user.ID
	default:
		return false
	}
}

// CanDeleteTask reports whether the user may delete the given task:
// admins always, managers for tasks they created.
func CanDeleteTask(user *model.User, task model.Task) bool {
	if user == nil {
		return false
	}
	switch user.Role {
	case model.RoleAdmin:
		return true
	case model.RoleManager:
		return task.CreatedBy == user.ID
	default:
		return false
	}
}

// CanManageUsers reports whether the user may create or delete accounts.
func CanManageUsers(user *model.User) bool {
	return user != nil && user.Role == model.RoleAdmin
}

// CanDeleteUser reports whether current may delete target. Self-delete is
// always blocked, regardless of role and of what the backend would allow.
func CanDeleteUser(current *model.User, target model.User) bool {
	if !CanManageUsers(current) {
		return false
	}
	return target.ID != current.ID
}
