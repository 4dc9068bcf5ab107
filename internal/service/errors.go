// Package service implements BookShare's business logic over the storage layer.
package service

import "errors"

var (
	// ErrForbidden is returned when a user acts on a resource they do not own.
	ErrForbidden = errors.New("you do not have access to this resource")

	// ErrValidation is wrapped around input validation failures.
	ErrValidation = errors.New("invalid input")
)
