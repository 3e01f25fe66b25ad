package domain

import "time"

// Permission is a grant level on a target.
type Permission string

const (
	PermRead    Permission = "READ"
	PermWrite   Permission = "WRITE"
	PermDelete  Permission = "DELETE"
	PermExecute Permission = "EXECUTE"
	PermGrant   Permission = "GRANT"
)

// Valid reports whether p is a known permission level.
func (p Permission) Valid() bool {
	switch p {
	case PermRead, PermWrite, PermDelete, PermExecute, PermGrant:
		return true
	}
	return false
}

// Belong is the membership edge from a user to a group.
type Belong struct {
	ID          string
	UserID      string
	GroupID     string
	Description string
	Creator     string
	CreatedAt   time.Time
}

// Validate checks that the membership edge is well-formed for persistence.
// Endpoint existence is checked by the manager, not here.
func (b *Belong) Validate() error {
	if b.UserID == "" {
		return ErrValidation("belong user id is required")
	}
	if b.GroupID == "" {
		return ErrValidation("belong group id is required")
	}
	return nil
}

// Access is the grant edge from a group to a target, carrying a permission
// level.
type Access struct {
	ID          string
	GroupID     string
	TargetID    string
	Permission  Permission
	Description string
	Creator     string
	CreatedAt   time.Time
}

// Validate checks that the grant edge is well-formed for persistence.
// Endpoint existence is checked by the manager, not here.
func (a *Access) Validate() error {
	if a.GroupID == "" {
		return ErrValidation("access group id is required")
	}
	if a.TargetID == "" {
		return ErrValidation("access target id is required")
	}
	if !a.Permission.Valid() {
		return ErrValidation("access permission %q is not valid", a.Permission)
	}
	return nil
}
