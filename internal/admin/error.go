package admin

import "errors"

var (
	ErrInvalidInput       = errors.New("name, email and password are required")
	ErrAdminExists        = errors.New("email or name already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrInviteRequired     = errors.New("a valid invite code is required")
)
