package views

import "errors"

var (
	ErrViewExists      = errors.New("view already exists")
	ErrViewNotFound    = errors.New("view not found")
	ErrInvalidSelector = errors.New("invalid selector")
	ErrTooManyViews    = errors.New("too many views")
)
