package service

import (
	"strconv"
	"strings"

	"github.com/olimp/hotel-booking/internal/model"
)

// BookingRequest is the raw booking payload. Every field is kept as text so
// that absence, blanks and malformed values can be told apart.
type BookingRequest struct {
	RoomID     string
	StartDate  string
	EndDate    string
	GuestName  string
	GuestEmail string
}

// ValidatedBooking is a BookingRequest whose fields have been checked and
// parsed.
type ValidatedBooking struct {
	RoomID     uint64
	StartDate  model.Date
	EndDate    model.Date
	GuestName  string
	GuestEmail string
}

// Validate checks required fields in declaration order, then the dates. It
// does not consult the store.
func Validate(req BookingRequest) (ValidatedBooking, error) {
	roomID := strings.TrimSpace(req.RoomID)
	fields := []struct{ name, value string }{
		{"room_id", roomID},
		{"start_date", strings.TrimSpace(req.StartDate)},
		{"end_date", strings.TrimSpace(req.EndDate)},
		{"guest_name", strings.TrimSpace(req.GuestName)},
		{"guest_email", strings.TrimSpace(req.GuestEmail)},
	}
	for _, f := range fields {
		if f.value == "" || (f.name == "room_id" && f.value == "0") {
			return ValidatedBooking{}, &MissingFieldError{Field: f.name}
		}
	}

	id, err := strconv.ParseUint(roomID, 10, 64)
	if err != nil || id == 0 {
		return ValidatedBooking{}, ErrInvalidRoomID
	}
	start, err := model.ParseDate(fields[1].value)
	if err != nil {
		return ValidatedBooking{}, ErrInvalidDate
	}
	end, err := model.ParseDate(fields[2].value)
	if err != nil {
		return ValidatedBooking{}, ErrInvalidDate
	}
	if !start.Before(end) {
		return ValidatedBooking{}, ErrInvalidRange
	}
	return ValidatedBooking{
		RoomID:     id,
		StartDate:  start,
		EndDate:    end,
		GuestName:  fields[3].value,
		GuestEmail: fields[4].value,
	}, nil
}
