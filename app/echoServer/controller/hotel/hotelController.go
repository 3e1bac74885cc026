package hotel

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/letscodesatish/Hotel-reservation-system/model"
	hotelsvc "github.com/letscodesatish/Hotel-reservation-system/service/hotel"
)

type Controller struct {
	Svc hotelsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == string(model.RoleAdmin)
}

func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// POST /v1/hotels  (admin)
func (h *Controller) Create(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	var req CreateHotelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	created, err := h.Svc.CreateHotel(c.Request().Context(), req.Name, req.Location, req.Rating)
	if err != nil {
		if errors.Is(err, hotelsvc.ErrBadPayload) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid payload"})
		}
		h.Log.Error("hotel create error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"hotel": created})
}

// GET /v1/hotels
func (h *Controller) List(c echo.Context) error {
	hotels, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("hotel list error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": hotels})
}

// GET /v1/hotels/:id
func (h *Controller) Detail(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	hotel, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "hotel not found"})
		}
		h.Log.Error("hotel detail error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"hotel": hotel})
}

// POST /v1/hotels/:id/room-types  (admin)
func (h *Controller) CreateRoomType(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	hotelID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req CreateRoomTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	created, err := h.Svc.CreateRoomType(c.Request().Context(), model.RoomType{
		HotelID:    hotelID,
		Name:       req.Name,
		BasePrice:  req.BasePrice,
		Capacity:   req.Capacity,
		TotalCount: req.TotalCount,
	})
	if err != nil {
		if errors.Is(err, hotelsvc.ErrBadPayload) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid payload"})
		}
		h.Log.Error("room type create error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"room_type": created})
}

// GET /v1/hotels/:id/room-types
func (h *Controller) RoomTypes(c echo.Context) error {
	hotelID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	rts, err := h.Svc.RoomTypes(c.Request().Context(), hotelID)
	if err != nil {
		h.Log.Error("room type list error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rts})
}

// PUT /v1/room-types/:id/inventory  (admin)
func (h *Controller) SetInventory(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	roomTypeID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req SetInventoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid date"})
	}

	inv, err := h.Svc.SetInventoryDay(c.Request().Context(), model.InventoryDay{
		RoomTypeID:     roomTypeID,
		Date:           date,
		AvailableCount: req.AvailableCount,
		PriceOverride:  req.PriceOverride,
	})
	if err != nil {
		switch {
		case errors.Is(err, hotelsvc.ErrBadPayload), errors.Is(err, hotelsvc.ErrBadInventory):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		case errors.Is(err, pgx.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "room type not found"})
		default:
			h.Log.Error("inventory upsert error", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"inventory": inv})
}

// GET /v1/room-types/:id/inventory?from=YYYY-MM-DD&to=YYYY-MM-DD  (admin)
func (h *Controller) Inventory(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	roomTypeID, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	from, err1 := time.Parse("2006-01-02", c.QueryParam("from"))
	to, err2 := time.Parse("2006-01-02", c.QueryParam("to"))
	if err1 != nil || err2 != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "from/to must be YYYY-MM-DD"})
	}
	invs, err := h.Svc.InventoryDays(c.Request().Context(), roomTypeID, model.DateRange{Checkin: from, Checkout: to})
	if err != nil {
		h.Log.Error("inventory list error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": invs})
}
