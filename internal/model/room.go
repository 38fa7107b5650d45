package model

// Room is a bookable hotel room. The booking core only needs its ID; the
// remaining columns are reference data shown to guests.
type Room struct {
	ID                 uint64  `json:"id"`                    // rooms.id
	Name               string  `json:"name"`                  // rooms.name
	Capacity           uint32  `json:"capacity"`              // rooms.capacity
	PricePerNightCents uint32  `json:"price_per_night_cents"` // rooms.price_per_night_cents
	Description        *string `json:"description,omitempty"` // rooms.description (nullable)
}
