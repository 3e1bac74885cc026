package booking

type CreateBookingReq struct {
	HotelID      int64  `json:"hotel_id" validate:"required,gt=0"`
	RoomTypeID   int64  `json:"room_type_id" validate:"required,gt=0"`
	Quantity     int    `json:"quantity" validate:"required,gt=0"`
	CheckinDate  string `json:"checkin_date" validate:"required,datetime=2006-01-02"`
	CheckoutDate string `json:"checkout_date" validate:"required,datetime=2006-01-02"`

	// Accepted opaquely; the engine never evaluates them.
	PaymentRef string `json:"payment_ref,omitempty"`
	CouponCode string `json:"coupon_code,omitempty"`
}
