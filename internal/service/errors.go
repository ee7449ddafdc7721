package service

import "errors"

var (
	ErrUsernameTaken   = errors.New("username has already been used")
	ErrUserNotFound    = errors.New("user not found")
	ErrUnknownUsername = errors.New("no user with this username")
	ErrInvalidPassword = errors.New("password is wrong")
	ErrForbidden       = errors.New("forbidden: user does not have permission for this action")
	ErrBlogNotFound    = errors.New("blog not found")
)
