package domain

import "time"

// User is an identity that can authenticate and hold permissions through
// group membership. PasswordHash is an opaque, pre-computed hash; this
// package never computes hashes itself.
type User struct {
	ID           string
	Name         string
	PasswordHash string
	Creator      string
	CreatedAt    time.Time
}

// Validate checks that the user is well-formed for persistence.
func (u *User) Validate() error {
	if u.Name == "" {
		return ErrValidation("user name is required")
	}
	if u.PasswordHash == "" {
		return ErrValidation("user password hash is required")
	}
	return nil
}

// Group is a named container for membership. Users gain permissions only
// through the groups they belong to.
type Group struct {
	ID        string
	Name      string
	Creator   string
	CreatedAt time.Time
}

// Validate checks that the group is well-formed for persistence.
func (g *Group) Validate() error {
	if g.Name == "" {
		return ErrValidation("group name is required")
	}
	return nil
}
