package service

import (
	"errors"

	"github.com/stevenscomputer/site/internal/repository"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrUnavailable means the gateway has not finished initializing.
	ErrUnavailable = repository.ErrNotReady

	// ErrBusy means the gateway's pending queue is full.
	ErrBusy = repository.ErrBusy

	// ErrStorage matches statement failures (*repository.StorageError).
	ErrStorage = repository.ErrStorage
)

// ValidationError is a client mistake. Reason is safe to return to the caller.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Public reasons returned in 400 responses.
const (
	ReasonRequired    = "Name and email are required"
	ReasonInvalidJSON = "Invalid JSON body"
	ReasonInvalidForm = "Invalid form body"
	ReasonTooLong     = "Field too long"
	ReasonEncoding    = "Fields must be valid UTF-8"
)
