package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidInput   = errors.New("invalid input")

	// ErrPostLocked and ErrNotAuthor both satisfy errors.Is(err, ErrForbidden).
	ErrPostLocked = fmt.Errorf("%w: post is locked", ErrForbidden)
	ErrNotAuthor  = fmt.Errorf("%w: only the author can lock a post", ErrForbidden)
)
