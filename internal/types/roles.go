package types

// Role identifies what a user is allowed to do across the API.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// Actor is the identity a request acts as, resolved from the bearer token.
type Actor struct {
	ID   uint
	Role Role
}

// Project statuses.
const (
	ProjectOngoing   = "ONGOING"
	ProjectCompleted = "COMPLETED"
)

// Task statuses.
const (
	TaskTodo       = "TODO"
	TaskInProgress = "IN_PROGRESS"
	TaskCompleted  = "COMPLETED"
)
