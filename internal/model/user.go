package model

import "slices"

type UserState int

const (
	UserNotConfirmed UserState = 0
	UserActive       UserState = 1
	UserBlocked      UserState = 2
	UserDeleted      UserState = 3
)

func (s UserState) String() string {
	switch s {
	case UserNotConfirmed:
		return "NOT_CONFIRMED"
	case UserActive:
		return "ACTIVE"
	case UserBlocked:
		return "BLOCKED"
	case UserDeleted:
		return "DELETED"
	}
	return "UNKNOWN"
}

// CurrentUser is the caller of an operation. It is built from the bearer
// token on every request and never stored by this service.
type CurrentUser struct {
	ID          string       `json:"id"`
	Permissions []Permission `json:"permissions"`
	State       UserState    `json:"state"`
}

func (u *CurrentUser) HasPermission(p Permission) bool {
	return slices.Contains(u.Permissions, p)
}
