package hotelrepo

import (
	"context"

	"github.com/letscodesatish/Hotel-reservation-system/model"
	"github.com/letscodesatish/Hotel-reservation-system/util/database"
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

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) CreateHotel(ctx context.Context, h *model.Hotel) error {
	const q = `
		INSERT INTO hotels (name, location, rating)
		VALUES ($1,$2,$3)
		RETURNING id`
	return r.db.Pool.QueryRow(ctx, q, h.Name, h.Location, h.Rating).Scan(&h.ID)
}

func (r *repo) List(ctx context.Context) ([]model.Hotel, error) {
	const q = `
		SELECT id, name, location, rating
		FROM hotels
		ORDER BY id`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Hotel
	for rows.Next() {
		var h model.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.Location, &h.Rating); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *repo) Detail(ctx context.Context, id int64) (*model.Hotel, error) {
	const q = `
		SELECT id, name, location, rating
		FROM hotels
		WHERE id = $1`
	var h model.Hotel
	if err := r.db.Pool.QueryRow(ctx, q, id).Scan(&h.ID, &h.Name, &h.Location, &h.Rating); err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *repo) CreateRoomType(ctx context.Context, rt *model.RoomType) error {
	const q = `
		INSERT INTO room_types (hotel_id, name, base_price, capacity, total_count)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id`
	return r.db.Pool.QueryRow(ctx, q,
		rt.HotelID, rt.Name, rt.BasePrice, rt.Capacity, rt.TotalCount,
	).Scan(&rt.ID)
}

func (r *repo) RoomTypesByHotel(ctx context.Context, hotelID int64) ([]model.RoomType, error) {
	const q = `
		SELECT id, hotel_id, name, base_price, capacity, total_count
		FROM room_types
		WHERE hotel_id = $1
		ORDER BY id`
	rows, err := r.db.Pool.Query(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RoomType
	for rows.Next() {
		var rt model.RoomType
		if err := rows.Scan(&rt.ID, &rt.HotelID, &rt.Name, &rt.BasePrice, &rt.Capacity, &rt.TotalCount); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

func (r *repo) RoomTypeByID(ctx context.Context, id int64) (*model.RoomType, error) {
	const q = `
		SELECT id, hotel_id, name, base_price, capacity, total_count
		FROM room_types
		WHERE id = $1`
	var rt model.RoomType
	err := r.db.Pool.QueryRow(ctx, q, id).
		Scan(&rt.ID, &rt.HotelID, &rt.Name, &rt.BasePrice, &rt.Capacity, &rt.TotalCount)
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *repo) UpsertInventoryDay(ctx context.Context, inv *model.InventoryDay) error {
	const q = `
		INSERT INTO room_inventory (room_type_id, date, available_count, price_override)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (room_type_id, date)
		DO UPDATE SET available_count = EXCLUDED.available_count,
		              price_override  = EXCLUDED.price_override
		RETURNING id`
	return r.db.Pool.QueryRow(ctx, q,
		inv.RoomTypeID, inv.Date, inv.AvailableCount, inv.PriceOverride,
	).Scan(&inv.ID)
}

func (r *repo) ListInventoryDays(ctx context.Context, roomTypeID int64, rng model.DateRange) ([]model.InventoryDay, error) {
	const q = `
		SELECT id, room_type_id, date, available_count, price_override
		FROM room_inventory
		WHERE room_type_id = $1
		  AND date >= $2
		  AND date <  $3
		ORDER BY date`
	rows, err := r.db.Pool.Query(ctx, q, roomTypeID, rng.Checkin, rng.Checkout)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.InventoryDay
	for rows.Next() {
		var inv model.InventoryDay
		if err := rows.Scan(&inv.ID, &inv.RoomTypeID, &inv.Date, &inv.AvailableCount, &inv.PriceOverride); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}
