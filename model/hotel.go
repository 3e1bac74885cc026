// model/hotel.go
package model

import "time"

type Hotel struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Location string  `json:"location"`
	Rating   float64 `json:"rating"`
}

// RoomType is one class of room within a hotel. TotalCount is the number of
// physical rooms of this type the hotel owns; it is the capacity ceiling for
// aggregate availability accounting.
type RoomType struct {
	ID         int64   `json:"id"`
	HotelID    int64   `json:"hotel_id"`
	Name       string  `json:"name"`
	BasePrice  float64 `json:"base_price"`
	Capacity   int     `json:"capacity"`
	TotalCount int     `json:"total_count"`
}

// InventoryDay is an optional per-date override row for a room type. Absence
// of a row for a date means availability is derived from aggregate booking
// totals against RoomType.TotalCount instead.
type InventoryDay struct {
	ID             int64     `json:"id"`
	RoomTypeID     int64     `json:"room_type_id"`
	Date           time.Time `json:"date"`
	AvailableCount int       `json:"available_count"`
	PriceOverride  *float64  `json:"price_override,omitempty"`
}
