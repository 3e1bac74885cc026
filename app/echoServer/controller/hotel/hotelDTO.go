package hotel

type CreateHotelReq struct {
	Name     string  `json:"name" validate:"required"`
	Location string  `json:"location"`
	Rating   float64 `json:"rating" validate:"gte=0,lte=5"`
}

type CreateRoomTypeReq struct {
	Name       string  `json:"name" validate:"required"`
	BasePrice  float64 `json:"base_price" validate:"gte=0"`
	Capacity   int     `json:"capacity" validate:"gt=0"`
	TotalCount int     `json:"total_count" validate:"gte=0"`
}

type SetInventoryReq struct {
	Date           string   `json:"date" validate:"required,datetime=2006-01-02"`
	AvailableCount int      `json:"available_count" validate:"gte=0"`
	PriceOverride  *float64 `json:"price_override,omitempty" validate:"omitempty,gte=0"`
}
