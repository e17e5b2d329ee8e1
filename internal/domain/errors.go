package domain

import "errors"

// Sentinel errors shared by services and repositories. Controllers map them to HTTP
// statuses with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidDate       = errors.New("date must use the format YYYY-MM-DDTHH:MM")
	ErrAlreadyMember     = errors.New("user is already a member of the group")
	ErrAlreadyInvited    = errors.New("user already has a pending invitation to the group")
	ErrInvalidTransition = errors.New("invitation is no longer pending")
)
