package model

// Reservation is a stay booked for one room over the half-open range
// [StartDate, EndDate). EndDate is the checkout day, so a stay ending on
// the 5th does not collide with one starting on the 5th.
//
// Fields:
//  ID         – primary key assigned by the store.
//  RoomID     – booked room.
//  StartDate  – check-in day.
//  EndDate    – checkout day, strictly after StartDate.
//  GuestName  – name the stay is booked under.
//  GuestEmail – contact address of the guest.
//  BookedBy   – user whose session created the reservation.
type Reservation struct {
	ID         uint64 `json:"id"`          // reservations.id
	RoomID     uint64 `json:"room_id"`     // reservations.room_id
	StartDate  Date   `json:"start_date"`  // reservations.start_date
	EndDate    Date   `json:"end_date"`    // reservations.end_date
	GuestName  string `json:"guest_name"`  // reservations.guest_name
	GuestEmail string `json:"guest_email"` // reservations.guest_email
	BookedBy   uint64 `json:"booked_by"`   // reservations.booked_by
}

// Nights returns the length of the stay.
func (r Reservation) Nights() int {
	return r.StartDate.NightsUntil(r.EndDate)
}

// Overlaps reports whether two half-open ranges share at least one night.
func Overlaps(aStart, aEnd, bStart, bEnd Date) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
