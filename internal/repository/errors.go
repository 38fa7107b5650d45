// Package repository defines the data access layer and the sentinel errors
// shared across repositories. Higher layers such as the booking service
// translate these values into their own error taxonomy; handlers never see
// driver errors directly.
package repository

import "errors"

// ErrConflict is returned when a reservation would overlap an existing
// reservation of the same room. It is detected inside the booking
// transaction, after the room row has been locked.
var ErrConflict = errors.New("conflict")

// ErrRoomNotFound is returned when a room lookup fails, including the room
// lock taken at the start of a booking transaction.
var ErrRoomNotFound = errors.New("room not found")

// ErrNotFound is returned by lookups of users, authors and reservations
// that match no row.
var ErrNotFound = errors.New("not found")
