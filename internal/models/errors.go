package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidDate        = fmt.Errorf("%w: date", ErrInvalidInput)
	ErrInvalidCategory    = fmt.Errorf("%w: category", ErrInvalidInput)
	ErrInvalidAmount      = fmt.Errorf("%w: amount", ErrInvalidInput)
	ErrNotFound           = errors.New("not found")
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrStorage            = errors.New("storage failure")
)

// NotFoundError reports an expense id that is absent or belongs to another owner.
type NotFoundError struct {
	ID    int64
	Owner string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("expense %d not found for user %s", e.ID, e.Owner)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// StorageError wraps a driver failure during a persistence operation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorage, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }
