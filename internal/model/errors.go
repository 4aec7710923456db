package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Session related errors. An invalid token is never surfaced to the
	// client as a distinct error; it collapses to redirect/401 behavior.
	ErrTokenInvalid = errors.New("token invalid")

	// Content related errors
	ErrPostNotFound     = errors.New("post not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrMediaNotFound    = errors.New("media not found")
	ErrDuplicateSlug    = errors.New("slug already exists")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
