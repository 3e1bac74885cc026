package hotelsvc

import (
	"context"
	"errors"

	"github.com/letscodesatish/Hotel-reservation-system/model"
	repo "github.com/letscodesatish/Hotel-reservation-system/repository/hotel"
)

var (
	ErrBadPayload   = errors.New("invalid payload")
	ErrBadInventory = errors.New("available_count must be within [0, total_count]")
)

type Repo interface {
	CreateHotel(ctx context.Context, h *model.Hotel) error
	List(ctx context.Context) ([]model.Hotel, error)
	Detail(ctx context.Context, id int64) (*model.Hotel, error)

	CreateRoomType(ctx context.Context, rt *model.RoomType) error
	RoomTypesByHotel(ctx context.Context, hotelID int64) ([]model.RoomType, error)
	RoomTypeByID(ctx context.Context, id int64) (*model.RoomType, error)

	UpsertInventoryDay(ctx context.Context, inv *model.InventoryDay) error
	ListInventoryDays(ctx context.Context, roomTypeID int64, rng model.DateRange) ([]model.InventoryDay, error)
}

var _ Repo = (repo.Repo)(nil)

type Service interface {
	CreateHotel(ctx context.Context, name, location string, rating float64) (*model.Hotel, error)
	List(ctx context.Context) ([]model.Hotel, error)
	Detail(ctx context.Context, id int64) (*model.Hotel, error)

	CreateRoomType(ctx context.Context, rt model.RoomType) (*model.RoomType, error)
	RoomTypes(ctx context.Context, hotelID int64) ([]model.RoomType, error)

	// SetInventoryDay creates or updates the per-day override row for a room
	// type, enforcing 0 <= available_count <= total_count.
	SetInventoryDay(ctx context.Context, inv model.InventoryDay) (*model.InventoryDay, error)
	InventoryDays(ctx context.Context, roomTypeID int64, rng model.DateRange) ([]model.InventoryDay, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) CreateHotel(ctx context.Context, name, location string, rating float64) (*model.Hotel, error) {
	if name == "" || rating < 0 {
		return nil, ErrBadPayload
	}
	h := &model.Hotel{Name: name, Location: location, Rating: rating}
	if err := s.r.CreateHotel(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *service) List(ctx context.Context) ([]model.Hotel, error) { return s.r.List(ctx) }

func (s *service) Detail(ctx context.Context, id int64) (*model.Hotel, error) {
	return s.r.Detail(ctx, id)
}

func (s *service) CreateRoomType(ctx context.Context, rt model.RoomType) (*model.RoomType, error) {
	if rt.HotelID <= 0 || rt.Name == "" || rt.BasePrice < 0 || rt.Capacity <= 0 || rt.TotalCount < 0 {
		return nil, ErrBadPayload
	}
	if err := s.r.CreateRoomType(ctx, &rt); err != nil {
		return nil, err
	}
	return &rt, nil
}

func (s *service) RoomTypes(ctx context.Context, hotelID int64) ([]model.RoomType, error) {
	return s.r.RoomTypesByHotel(ctx, hotelID)
}

func (s *service) SetInventoryDay(ctx context.Context, inv model.InventoryDay) (*model.InventoryDay, error) {
	if inv.RoomTypeID <= 0 || inv.Date.IsZero() {
		return nil, ErrBadPayload
	}
	if inv.PriceOverride != nil && *inv.PriceOverride < 0 {
		return nil, ErrBadPayload
	}

	rt, err := s.r.RoomTypeByID(ctx, inv.RoomTypeID)
	if err != nil {
		return nil, err
	}
	if inv.AvailableCount < 0 || inv.AvailableCount > rt.TotalCount {
		return nil, ErrBadInventory
	}

	inv.Date = model.Date(inv.Date)
	if err := s.r.UpsertInventoryDay(ctx, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *service) InventoryDays(ctx context.Context, roomTypeID int64, rng model.DateRange) ([]model.InventoryDay, error) {
	return s.r.ListInventoryDays(ctx, roomTypeID, rng)
}
