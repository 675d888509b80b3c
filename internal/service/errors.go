package service

import "errors"

// Domain errors returned by the services. Handlers map these to HTTP
// responses and flash messages; raw storage errors are never surfaced.
var (
	// ErrNotFound is returned when the requested row does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials covers every login failure: unknown username,
	// wrong password, or an account without the admin flag. Callers get no
	// more detail than that.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUsernameTaken is returned when creating or renaming an account to
	// a username already in use
	ErrUsernameTaken = errors.New("username already taken")

	// ErrSelfDelete is returned when an administrator tries to delete their
	// own account
	ErrSelfDelete = errors.New("cannot delete own account")

	// ErrLastAdmin is returned when an operation would leave the system
	// without any administrator
	ErrLastAdmin = errors.New("cannot remove the last administrator")
)
