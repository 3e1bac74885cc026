// model/booking.go
package model

import "time"

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingCancelled  BookingStatus = "cancelled"
	BookingCheckedIn  BookingStatus = "checked_in"
	BookingCheckedOut BookingStatus = "checked_out"
)

// Blocks reports whether a booking in this status counts against
// availability. Cancelled and checked-out stays never block new reservations.
func (s BookingStatus) Blocks() bool {
	return s == BookingPending || s == BookingConfirmed
}

type Booking struct {
	ID           int64         `json:"id"`
	UserID       int64         `json:"user_id"`
	HotelID      int64         `json:"hotel_id"`
	Status       BookingStatus `json:"status"`
	TotalPrice   float64       `json:"total_price"`
	CheckinDate  time.Time     `json:"checkin_date"`
	CheckoutDate time.Time     `json:"checkout_date"`
	Lines        []BookingLine `json:"lines,omitempty"`
}

// BookingLine is the per-room-type quantity/price record attached to a
// booking. PricePerRoom is the per-night unit price actually charged.
type BookingLine struct {
	ID           int64   `json:"id"`
	BookingID    int64   `json:"booking_id"`
	RoomTypeID   int64   `json:"room_type_id"`
	Quantity     int     `json:"quantity"`
	PricePerRoom float64 `json:"price_per_room"`
}
