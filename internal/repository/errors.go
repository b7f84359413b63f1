package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady is returned by the Gateway before a store has been attached.
	ErrNotReady = errors.New("database not available")

	// ErrBusy is returned when the Gateway's pending queue is full.
	ErrBusy = errors.New("database busy")

	// ErrStorage matches every *StorageError via errors.Is.
	ErrStorage = errors.New("storage error")
)

// StorageError reports a failed statement. Err is the driver error and is
// meant for logs only; Code is the driver's error code when one is known.
type StorageError struct {
	Op   string
	Code string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (code %s)", e.Op, e.Err, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrStorage) true for any StorageError.
func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// wrapStorage wraps err as a *StorageError unless it already is one.
func wrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
