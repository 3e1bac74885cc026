package booking

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/letscodesatish/Hotel-reservation-system/model"
	bs "github.com/letscodesatish/Hotel-reservation-system/service/booking"
)

type Controller struct {
	Svc bs.Service
	V   *validator.Validate
	Log *slog.Logger
}

func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == string(model.RoleAdmin)
}

// POST /v1/bookings
// @Summary      Create booking
// @Description  Reserve a quantity of one room type across [checkin, checkout)
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        payload  body  CreateBookingReq  true  "Booking payload"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any "bad dates/quantity"
// @Failure      404  {object}  map[string]any "unknown room type"
// @Failure      409  {object}  map[string]any "not enough availability"
// @Router       /v1/bookings [post]
func (h *Controller) Create(c echo.Context) error {
	var req CreateBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	checkin, err := time.Parse("2006-01-02", req.CheckinDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid checkin_date"})
	}
	checkout, err := time.Parse("2006-01-02", req.CheckoutDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid checkout_date"})
	}
	uid, _ := c.Get("user_id").(int64)

	// Bookings taken over the public API enter as pending; confirmation is a
	// separate lifecycle step.
	out, err := h.Svc.Reserve(c.Request().Context(), bs.ReserveInput{
		UserID:      uid,
		HotelID:     req.HotelID,
		RoomTypeID:  req.RoomTypeID,
		Range:       model.DateRange{Checkin: checkin, Checkout: checkout},
		Quantity:    req.Quantity,
		EntryStatus: model.BookingPending,
		PaymentRef:  req.PaymentRef,
		CouponCode:  req.CouponCode,
	})
	if err != nil {
		switch bs.Code(err) {
		case bs.ErrInvalidDateRange:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "checkout must be after checkin"})
		case bs.ErrInvalidQuantity:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "quantity must be positive"})
		case bs.ErrRoomTypeNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "room type not found"})
		case bs.ErrNoAvailability:
			var availErr *bs.AvailabilityError
			resp := echo.Map{"message": "not enough availability"}
			if errors.As(err, &availErr) {
				if !availErr.Date.IsZero() {
					resp["date"] = availErr.Date.Format("2006-01-02")
				}
				resp["available"] = availErr.Available
			}
			return c.JSON(http.StatusConflict, resp)
		default:
			h.Log.Error("booking create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "booked",
		"booking": out,
	})
}

// GET /v1/room-types/:id/availability?checkin=YYYY-MM-DD&checkout=YYYY-MM-DD
func (h *Controller) Availability(c echo.Context) error {
	roomTypeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || roomTypeID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	checkin, err1 := time.Parse("2006-01-02", c.QueryParam("checkin"))
	checkout, err2 := time.Parse("2006-01-02", c.QueryParam("checkout"))
	if err1 != nil || err2 != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "checkin/checkout must be YYYY-MM-DD"})
	}

	report, err := h.Svc.Availability(c.Request().Context(), roomTypeID,
		model.DateRange{Checkin: checkin, Checkout: checkout})
	if err != nil {
		switch bs.Code(err) {
		case bs.ErrInvalidDateRange:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "checkout must be after checkin"})
		case bs.ErrRoomTypeNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "room type not found"})
		default:
			h.Log.Error("availability", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, report)
}

// POST /v1/bookings/:id/cancel
func (h *Controller) Cancel(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("user_id").(int64)

	if err := h.Svc.Cancel(c.Request().Context(), uid, id); err != nil {
		switch bs.Code(err) {
		case bs.ErrNotOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		case bs.ErrNotCancelable:
			return c.JSON(http.StatusConflict, echo.Map{"message": "booking not cancelable"})
		case bs.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
		default:
			h.Log.Error("booking cancel", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "cancelled"})
}

// GET /v1/bookings/my
func (h *Controller) MyBookings(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.MyBookings(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("booking history", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/bookings/export  (admin) full booking history dump.
func (h *Controller) Export(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	all, err := h.Svc.AllBookings(c.Request().Context())
	if err != nil {
		h.Log.Error("booking export", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="bookings_export.json"`)
	return c.JSON(http.StatusOK, all)
}
