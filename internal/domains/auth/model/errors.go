package model

import "errors"

var (
	ErrInvalidCredentials = errors.New("No active account found with the given credentials")
	ErrUsernameTaken      = errors.New("A user with that username already exists.")
	ErrEmailTaken         = errors.New("A user with that email already exists.")
	ErrUserNotFound       = errors.New("user not found")
	ErrBadToken           = errors.New("Token is invalid or expired")
	ErrWrongOldPassword   = errors.New("Old password is not correct.")
)
