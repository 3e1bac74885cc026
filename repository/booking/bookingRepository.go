package bookingrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/letscodesatish/Hotel-reservation-system/model"
	"github.com/letscodesatish/Hotel-reservation-system/util/database"
)

// BookingRow is the flattened shape returned by history listings: one row per
// booking line, joined with the hotel name.
type BookingRow struct {
	BookingID    int64     `json:"booking_id"`
	HotelID      int64     `json:"hotel_id"`
	HotelName    string    `json:"hotel_name"`
	RoomTypeID   int64     `json:"room_type_id"`
	Quantity     int       `json:"quantity"`
	PricePerRoom float64   `json:"price_per_room"`
	Status       string    `json:"status"`
	TotalPrice   float64   `json:"total_price"`
	CheckinDate  time.Time `json:"checkin_date"`
	CheckoutDate time.Time `json:"checkout_date"`
}

// overlapPred is the canonical half-open interval test against a bookings row
// aliased b, with $2 = checkin and $3 = checkout. It must stay the mirror
// image of model.DateRange.Overlaps.
const overlapPred = `NOT (b.checkout_date <= $2 OR b.checkin_date >= $3)`

type Repo interface {
	// Transaction-scoped engine contract. Every method runs on the caller's
	// tx; locks are held until the caller commits or rolls back.
	RoomTypeByID(ctx context.Context, tx pgx.Tx, id int64) (*model.RoomType, error)
	LockRoomType(ctx context.Context, tx pgx.Tx, id int64) (*model.RoomType, error)
	LockInventoryDays(ctx context.Context, tx pgx.Tx, roomTypeID int64, rng model.DateRange) ([]model.InventoryDay, error)
	SumOverlappingQuantity(ctx context.Context, tx pgx.Tx, roomTypeID int64, rng model.DateRange) (int, error)
	InsertBooking(ctx context.Context, tx pgx.Tx, b *model.Booking) error
	InsertBookingLine(ctx context.Context, tx pgx.Tx, line *model.BookingLine) error
	DecrementInventoryDay(ctx context.Context, tx pgx.Tx, invID int64, qty int) error

	// Cancellation.
	LockBooking(ctx context.Context, tx pgx.Tx, bookingID int64) (*model.Booking, error)
	LinesByBooking(ctx context.Context, tx pgx.Tx, bookingID int64) ([]model.BookingLine, error)
	UpdateBookingStatus(ctx context.Context, tx pgx.Tx, bookingID int64, status model.BookingStatus) error
	RestoreInventoryDays(ctx context.Context, tx pgx.Tx, roomTypeID int64, rng model.DateRange, qty int) error

	// Read-only, pool-scoped.
	GetRoomType(ctx context.Context, id int64) (*model.RoomType, error)
	GetInventoryDays(ctx context.Context, roomTypeID int64, rng model.DateRange) ([]model.InventoryDay, error)
	SumOverlapping(ctx context.Context, roomTypeID int64, rng model.DateRange) (int, error)
	ListByUser(ctx context.Context, userID int64) ([]BookingRow, error)
	ListAll(ctx context.Context) ([]model.Booking, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

const roomTypeCols = `id, hotel_id, name, base_price, capacity, total_count`

func scanRoomType(row pgx.Row) (*model.RoomType, error) {
	var rt model.RoomType
	err := row.Scan(&rt.ID, &rt.HotelID, &rt.Name, &rt.BasePrice, &rt.Capacity, &rt.TotalCount)
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *repo) RoomTypeByID(ctx context.Context, tx pgx.Tx, id int64) (*model.RoomType, error) {
	const q = `
		SELECT ` + roomTypeCols + `
		FROM room_types
		WHERE id = $1`
	return scanRoomType(tx.QueryRow(ctx, q, id))
}

func (r *repo) LockRoomType(ctx context.Context, tx pgx.Tx, id int64) (*model.RoomType, error) {
	// Blocking exclusive lock on the aggregate row; availability is computed
	// from values re-read after the lock is granted.
	const q = `
		SELECT ` + roomTypeCols + `
		FROM room_types
		WHERE id = $1
		FOR UPDATE`
	return scanRoomType(tx.QueryRow(ctx, q, id))
}

func (r *repo) LockInventoryDays(ctx context.Context, tx pgx.Tx, roomTypeID int64, rng model.DateRange) ([]model.InventoryDay, error) {
	// No NOWAIT: contenders queue on the row locks instead of failing fast.
	const q = `
		SELECT id, room_type_id, date, available_count, price_override
		FROM room_inventory
		WHERE room_type_id = $1
		  AND date >= $2
		  AND date <  $3
		ORDER BY date
		FOR UPDATE`
	rows, err := tx.Query(ctx, q, roomTypeID, rng.Checkin, rng.Checkout)
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

const sumOverlappingQ = `
		SELECT COALESCE(SUM(bi.quantity), 0)
		FROM booking_items bi
		JOIN bookings b ON b.id = bi.booking_id
		WHERE bi.room_type_id = $1
		  AND b.status IN ('pending','confirmed')
		  AND ` + overlapPred

func (r *repo) SumOverlappingQuantity(ctx context.Context, tx pgx.Tx, roomTypeID int64, rng model.DateRange) (int, error) {
	var qty int
	err := tx.QueryRow(ctx, sumOverlappingQ, roomTypeID, rng.Checkin, rng.Checkout).Scan(&qty)
	return qty, err
}

func (r *repo) InsertBooking(ctx context.Context, tx pgx.Tx, b *model.Booking) error {
	const q = `
		INSERT INTO bookings (user_id, hotel_id, status, total_price, checkin_date, checkout_date)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id`
	return tx.QueryRow(ctx, q,
		b.UserID, b.HotelID, b.Status, b.TotalPrice, b.CheckinDate, b.CheckoutDate,
	).Scan(&b.ID)
}

func (r *repo) InsertBookingLine(ctx context.Context, tx pgx.Tx, line *model.BookingLine) error {
	const q = `
		INSERT INTO booking_items (booking_id, room_type_id, quantity, price_per_room)
		VALUES ($1,$2,$3,$4)
		RETURNING id`
	return tx.QueryRow(ctx, q,
		line.BookingID, line.RoomTypeID, line.Quantity, line.PricePerRoom,
	).Scan(&line.ID)
}

func (r *repo) DecrementInventoryDay(ctx context.Context, tx pgx.Tx, invID int64, qty int) error {
	// Guard: only decrement while enough rooms remain. The engine has already
	// verified the count under lock, so zero rows affected means a bug.
	const q = `
		UPDATE room_inventory
		SET available_count = available_count - $2
		WHERE id = $1
		  AND available_count >= $2`
	res, err := tx.Exec(ctx, q, invID, qty)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errors.New("inventory decrement would go negative")
	}
	return nil
}

func (r *repo) LockBooking(ctx context.Context, tx pgx.Tx, bookingID int64) (*model.Booking, error) {
	const q = `
		SELECT id, user_id, hotel_id, status, total_price, checkin_date, checkout_date
		FROM bookings
		WHERE id = $1
		FOR UPDATE`
	var b model.Booking
	err := tx.QueryRow(ctx, q, bookingID).
		Scan(&b.ID, &b.UserID, &b.HotelID, &b.Status, &b.TotalPrice, &b.CheckinDate, &b.CheckoutDate)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) LinesByBooking(ctx context.Context, tx pgx.Tx, bookingID int64) ([]model.BookingLine, error) {
	const q = `
		SELECT id, booking_id, room_type_id, quantity, price_per_room
		FROM booking_items
		WHERE booking_id = $1
		ORDER BY id`
	rows, err := tx.Query(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BookingLine
	for rows.Next() {
		var l model.BookingLine
		if err := rows.Scan(&l.ID, &l.BookingID, &l.RoomTypeID, &l.Quantity, &l.PricePerRoom); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *repo) UpdateBookingStatus(ctx context.Context, tx pgx.Tx, bookingID int64, status model.BookingStatus) error {
	const q = `
		UPDATE bookings
		SET status = $2
		WHERE id = $1`
	_, err := tx.Exec(ctx, q, bookingID, status)
	return err
}

func (r *repo) RestoreInventoryDays(ctx context.Context, tx pgx.Tx, roomTypeID int64, rng model.DateRange, qty int) error {
	// Inverse of the reservation decrement. Only rows that exist are touched;
	// aggregate-mode dates have no row and nothing to restore. LEAST keeps
	// available_count within the room type's physical count.
	const q = `
		UPDATE room_inventory ri
		SET available_count = LEAST(ri.available_count + $4, rt.total_count)
		FROM room_types rt
		WHERE rt.id = ri.room_type_id
		  AND ri.room_type_id = $1
		  AND ri.date >= $2
		  AND ri.date <  $3`
	_, err := tx.Exec(ctx, q, roomTypeID, rng.Checkin, rng.Checkout, qty)
	return err
}

func (r *repo) GetRoomType(ctx context.Context, id int64) (*model.RoomType, error) {
	const q = `
		SELECT ` + roomTypeCols + `
		FROM room_types
		WHERE id = $1`
	return scanRoomType(r.db.Pool.QueryRow(ctx, q, id))
}

func (r *repo) GetInventoryDays(ctx context.Context, roomTypeID int64, rng model.DateRange) ([]model.InventoryDay, error) {
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

func (r *repo) SumOverlapping(ctx context.Context, roomTypeID int64, rng model.DateRange) (int, error) {
	var qty int
	err := r.db.Pool.QueryRow(ctx, sumOverlappingQ, roomTypeID, rng.Checkin, rng.Checkout).Scan(&qty)
	return qty, err
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]BookingRow, error) {
	const q = `
		SELECT
			b.id            AS booking_id,
			b.hotel_id      AS hotel_id,
			h.name          AS hotel_name,
			bi.room_type_id AS room_type_id,
			bi.quantity     AS quantity,
			bi.price_per_room AS price_per_room,
			b.status        AS status,
			b.total_price   AS total_price,
			b.checkin_date  AS checkin_date,
			b.checkout_date AS checkout_date
		FROM bookings b
		JOIN hotels h         ON h.id = b.hotel_id
		JOIN booking_items bi ON bi.booking_id = b.id
		WHERE b.user_id = $1
		ORDER BY b.id DESC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BookingRow
	for rows.Next() {
		var br BookingRow
		if err := rows.Scan(
			&br.BookingID, &br.HotelID, &br.HotelName, &br.RoomTypeID,
			&br.Quantity, &br.PricePerRoom, &br.Status, &br.TotalPrice,
			&br.CheckinDate, &br.CheckoutDate,
		); err != nil {
			return nil, err
		}
		out = append(out, br)
	}
	return out, rows.Err()
}

func (r *repo) ListAll(ctx context.Context) ([]model.Booking, error) {
	const q = `
		SELECT id, user_id, hotel_id, status, total_price, checkin_date, checkout_date
		FROM bookings
		ORDER BY id`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.HotelID, &b.Status, &b.TotalPrice, &b.CheckinDate, &b.CheckoutDate); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
