// Package queue defines message payloads exchanged over the message broker
// together with the publisher and the log consumer.
package queue

import (
	"time"

	"github.com/olimp/hotel-booking/internal/model"
)

// ReservationCreatedQueue is the default queue for ReservationCreatedEvent.
const ReservationCreatedQueue = "reservation.created"

// ReservationCreatedEvent is published after a reservation has been
// committed. It carries enough for downstream consumers to log or notify
// without querying the primary database.
type ReservationCreatedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	RoomID        uint64 `json:"room_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Nights        int    `json:"nights"`
	GuestName     string `json:"guest_name"`
	GuestEmail    string `json:"guest_email"`
	BookedBy      uint64 `json:"booked_by"`
	CreatedAt     string `json:"created_at"`
}

// NewReservationCreated builds the event for a persisted reservation.
func NewReservationCreated(res model.Reservation, at time.Time) ReservationCreatedEvent {
	return ReservationCreatedEvent{
		ReservationID: res.ID,
		RoomID:        res.RoomID,
		StartDate:     res.StartDate.String(),
		EndDate:       res.EndDate.String(),
		Nights:        res.Nights(),
		GuestName:     res.GuestName,
		GuestEmail:    res.GuestEmail,
		BookedBy:      res.BookedBy,
		CreatedAt:     at.UTC().Format(time.RFC3339),
	}
}
