// Package service holds the booking use case: authorization, request
// validation, the conflict pre-check and the transactional insert, plus
// the read-side queries around reservations.
package service

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means the caller presented no valid session.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrMissingField matches every *MissingFieldError.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidDate means a date is not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
	// ErrInvalidRange means start_date is not strictly before end_date.
	ErrInvalidRange = errors.New("start_date must be before end_date")
	// ErrInvalidRoomID means room_id is present but not a positive integer.
	ErrInvalidRoomID = errors.New("room_id must be a positive integer")
	// ErrConflict means the room is already booked for part of the range.
	ErrConflict = errors.New("room is already booked for the selected dates")
	// ErrRoomNotFound means the booked room does not exist.
	ErrRoomNotFound = errors.New("room not found")
)

// MissingFieldError names the first required field that was absent or blank.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

// StorageError wraps an unexpected failure of the reservation store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }
