package service

import (
	"hr_recruit_backend/internal/model"
	"hr_recruit_backend/internal/util"
)

// Precondition is one requirement the caller must meet.
type Precondition func(user *model.CurrentUser) error

func HasPermission(p model.Permission) Precondition {
	return func(user *model.CurrentUser) error {
		if !user.HasPermission(p) {
			return util.Forbiddenf("permission %s required", p)
		}
		return nil
	}
}

func InState(s model.UserState) Precondition {
	return func(user *model.CurrentUser) error {
		if user.State != s {
			return util.InvalidStatef("user state must be %s, got %s", s, user.State)
		}
		return nil
	}
}

// Check runs the preconditions in order and returns the first failure.
// It must run before any repository access.
func Check(user *model.CurrentUser, preconditions ...Precondition) error {
	if user == nil {
		return util.Forbiddenf("authentication required")
	}
	for _, p := range preconditions {
		if err := p(user); err != nil {
			return err
		}
	}
	return nil
}

// activeWith is the common guard: the permission, then an ACTIVE account.
func activeWith(user *model.CurrentUser, p model.Permission) error {
	return Check(user, HasPermission(p), InState(model.UserActive))
}
