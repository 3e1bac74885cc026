// Package booking holds the availability and booking engine: given a
// requested date range and quantity it decides whether enough rooms of a type
// are free, computes the total price, and commits the booking atomically. All
// mutual exclusion comes from row locks held until commit; the engine itself
// is stateless and safe to run in many instances against one store.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	bookingrepo "github.com/letscodesatish/Hotel-reservation-system/repository/booking"

	"github.com/letscodesatish/Hotel-reservation-system/model"
)

// errors used by controllers

type ErrCode string

const (
	ErrInvalidDateRange ErrCode = "INVALID_DATE_RANGE"
	ErrInvalidQuantity  ErrCode = "INVALID_QUANTITY"
	ErrInvalidStatus    ErrCode = "INVALID_STATUS"
	ErrRoomTypeNotFound ErrCode = "ROOM_TYPE_NOT_FOUND"
	ErrNoAvailability   ErrCode = "NO_AVAILABILITY"
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrNotOwner         ErrCode = "NOT_OWNER"
	ErrNotCancelable    ErrCode = "NOT_CANCELABLE"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts the error code; store failures carry none and map to 500.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// AvailabilityError reports an insufficient-availability failure. Date is set
// when a per-day inventory row is short; zero Date means the aggregate pool
// fell short by Requested-Available.
type AvailabilityError struct {
	Date      time.Time
	Available int
	Requested int
}

func (e *AvailabilityError) Error() string {
	if e.Date.IsZero() {
		return fmt.Sprintf("not enough availability: %d requested, %d free", e.Requested, e.Available)
	}
	return fmt.Sprintf("not enough availability on date %s: %d requested, %d free",
		e.Date.Format("2006-01-02"), e.Requested, e.Available)
}

func (e *AvailabilityError) Code() ErrCode { return ErrNoAvailability }

// AccountingMode tags which availability strategy a call resolved to. The
// presence of any inventory row for the range selects managed mode wholesale;
// the two strategies are never merged per day.
type AccountingMode string

const (
	AggregateMode        AccountingMode = "aggregate"
	ManagedInventoryMode AccountingMode = "managed"
)

// ReserveInput is one reservation request. EntryStatus must be stated by the
// caller (pending for the public API, confirmed for trusted callers); the
// engine refuses to guess.
type ReserveInput struct {
	UserID      int64
	HotelID     int64
	RoomTypeID  int64
	Range       model.DateRange
	Quantity    int
	EntryStatus model.BookingStatus

	// Opaque pass-throughs: never evaluated, never priced.
	PaymentRef string
	CouponCode string
}

// DayAvailability is one managed-inventory date in an availability report.
type DayAvailability struct {
	Date           time.Time `json:"date"`
	AvailableCount int       `json:"available_count"`
	NightPrice     float64   `json:"night_price"`
}

type AvailabilityReport struct {
	RoomTypeID int64             `json:"room_type_id"`
	Mode       AccountingMode    `json:"mode"`
	Available  int               `json:"available"`
	Days       []DayAvailability `json:"days,omitempty"`
}

// BookingRow = repository shape
type BookingRow = bookingrepo.BookingRow

type Repo interface {
	RoomTypeByID(ctx context.Context, tx pgx.Tx, id int64) (*model.RoomType, error)
	LockRoomType(ctx context.Context, tx pgx.Tx, id int64) (*model.RoomType, error)
	LockInventoryDays(ctx context.Context, tx pgx.Tx, roomTypeID int64, rng model.DateRange) ([]model.InventoryDay, error)
	SumOverlappingQuantity(ctx context.Context, tx pgx.Tx, roomTypeID int64, rng model.DateRange) (int, error)
	InsertBooking(ctx context.Context, tx pgx.Tx, b *model.Booking) error
	InsertBookingLine(ctx context.Context, tx pgx.Tx, line *model.BookingLine) error
	DecrementInventoryDay(ctx context.Context, tx pgx.Tx, invID int64, qty int) error

	LockBooking(ctx context.Context, tx pgx.Tx, bookingID int64) (*model.Booking, error)
	LinesByBooking(ctx context.Context, tx pgx.Tx, bookingID int64) ([]model.BookingLine, error)
	UpdateBookingStatus(ctx context.Context, tx pgx.Tx, bookingID int64, status model.BookingStatus) error
	RestoreInventoryDays(ctx context.Context, tx pgx.Tx, roomTypeID int64, rng model.DateRange, qty int) error

	GetRoomType(ctx context.Context, id int64) (*model.RoomType, error)
	GetInventoryDays(ctx context.Context, roomTypeID int64, rng model.DateRange) ([]model.InventoryDay, error)
	SumOverlapping(ctx context.Context, roomTypeID int64, rng model.DateRange) (int, error)
	ListByUser(ctx context.Context, userID int64) ([]BookingRow, error)
	ListAll(ctx context.Context) ([]model.Booking, error)
}

// TxBeginner is the slice of *database.DB the engine needs.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Service interface {
	// Reserve books Quantity rooms of one type across a half-open date range,
	// atomically. Returns the created booking with its single line.
	Reserve(ctx context.Context, in ReserveInput) (*model.Booking, error)

	// Availability is the read-only probe behind the search surface. It takes
	// no locks and mutates nothing, so repeated calls with no intervening
	// booking return identical results.
	Availability(ctx context.Context, roomTypeID int64, rng model.DateRange) (*AvailabilityReport, error)

	// Cancel releases a pending/confirmed booking owned by userID. Managed
	// inventory decremented at reservation time is restored in the same tx.
	Cancel(ctx context.Context, userID, bookingID int64) error

	MyBookings(ctx context.Context, userID int64) ([]BookingRow, error)

	// AllBookings lists the full booking history (admin export).
	AllBookings(ctx context.Context) ([]model.Booking, error)
}

// ----- Service implementation -----

type service struct {
	db TxBeginner
	r  Repo
}

func New(db TxBeginner, r Repo) Service { return &service{db: db, r: r} }

func (s *service) Reserve(ctx context.Context, in ReserveInput) (out *model.Booking, err error) {
	// Validation happens before any store access.
	if !in.Range.IsValid() {
		return nil, makeErr(ErrInvalidDateRange)
	}
	if in.Quantity <= 0 {
		return nil, makeErr(ErrInvalidQuantity)
	}
	if in.EntryStatus != model.BookingPending && in.EntryStatus != model.BookingConfirmed {
		return nil, makeErr(ErrInvalidStatus)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	rt, err := s.r.RoomTypeByID(ctx, tx, in.RoomTypeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = makeErr(ErrRoomTypeNotFound)
		}
		return nil, err
	}

	// Exclusive locks on every per-day row in range, blocking on contention.
	// A concurrent reservation for the same dates queues here and re-reads
	// the counts after the winner commits.
	invs, err := s.r.LockInventoryDays(ctx, tx, in.RoomTypeID, in.Range)
	if err != nil {
		return nil, err
	}

	mode := AggregateMode
	if len(invs) > 0 {
		mode = ManagedInventoryMode
	}

	nights := in.Range.Nights()
	var total float64

	if mode == AggregateMode {
		// No per-day rows: availability is total physical count minus every
		// pending/confirmed booking whose stay overlaps the request.
		locked, lerr := s.r.LockRoomType(ctx, tx, in.RoomTypeID)
		if lerr != nil {
			err = lerr
			return nil, err
		}
		booked, serr := s.r.SumOverlappingQuantity(ctx, tx, in.RoomTypeID, in.Range)
		if serr != nil {
			err = serr
			return nil, err
		}
		available := locked.TotalCount - booked
		if available < in.Quantity {
			err = &AvailabilityError{Available: available, Requested: in.Quantity}
			return nil, err
		}
		total = rt.BasePrice * float64(nights) * float64(in.Quantity)
	} else {
		// Managed mode: every existing row must cover the quantity; the
		// day's override price wins over the base price.
		for _, inv := range invs {
			if inv.AvailableCount < in.Quantity {
				err = &AvailabilityError{
					Date:      inv.Date,
					Available: inv.AvailableCount,
					Requested: in.Quantity,
				}
				return nil, err
			}
		}
		for _, inv := range invs {
			unit := rt.BasePrice
			if inv.PriceOverride != nil {
				unit = *inv.PriceOverride
			}
			total += unit * float64(in.Quantity)
		}
	}

	b := &model.Booking{
		UserID:       in.UserID,
		HotelID:      in.HotelID,
		Status:       in.EntryStatus,
		TotalPrice:   total,
		CheckinDate:  in.Range.Checkin,
		CheckoutDate: in.Range.Checkout,
	}
	if err = s.r.InsertBooking(ctx, tx, b); err != nil {
		return nil, err
	}

	line := &model.BookingLine{
		BookingID:    b.ID,
		RoomTypeID:   in.RoomTypeID,
		Quantity:     in.Quantity,
		PricePerRoom: total / float64(in.Quantity*nights),
	}
	if err = s.r.InsertBookingLine(ctx, tx, line); err != nil {
		return nil, err
	}

	if mode == ManagedInventoryMode {
		for _, inv := range invs {
			if err = s.r.DecrementInventoryDay(ctx, tx, inv.ID, in.Quantity); err != nil {
				return nil, err
			}
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}

	b.Lines = []model.BookingLine{*line}
	return b, nil
}

func (s *service) Availability(ctx context.Context, roomTypeID int64, rng model.DateRange) (*AvailabilityReport, error) {
	if !rng.IsValid() {
		return nil, makeErr(ErrInvalidDateRange)
	}

	rt, err := s.r.GetRoomType(ctx, roomTypeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrRoomTypeNotFound)
		}
		return nil, err
	}

	invs, err := s.r.GetInventoryDays(ctx, roomTypeID, rng)
	if err != nil {
		return nil, err
	}

	if len(invs) == 0 {
		booked, err := s.r.SumOverlapping(ctx, roomTypeID, rng)
		if err != nil {
			return nil, err
		}
		return &AvailabilityReport{
			RoomTypeID: roomTypeID,
			Mode:       AggregateMode,
			Available:  rt.TotalCount - booked,
		}, nil
	}

	report := &AvailabilityReport{
		RoomTypeID: roomTypeID,
		Mode:       ManagedInventoryMode,
		Available:  invs[0].AvailableCount,
	}
	for _, inv := range invs {
		price := rt.BasePrice
		if inv.PriceOverride != nil {
			price = *inv.PriceOverride
		}
		if inv.AvailableCount < report.Available {
			report.Available = inv.AvailableCount
		}
		report.Days = append(report.Days, DayAvailability{
			Date:           inv.Date,
			AvailableCount: inv.AvailableCount,
			NightPrice:     price,
		})
	}
	return report, nil
}

func (s *service) Cancel(ctx context.Context, userID, bookingID int64) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	b, err := s.r.LockBooking(ctx, tx, bookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = makeErr(ErrNotFound)
		}
		return err
	}
	if b.UserID != userID {
		err = makeErr(ErrNotOwner)
		return err
	}
	if !b.Status.Blocks() {
		err = makeErr(ErrNotCancelable)
		return err
	}

	lines, err := s.r.LinesByBooking(ctx, tx, bookingID)
	if err != nil {
		return err
	}

	if err = s.r.UpdateBookingStatus(ctx, tx, bookingID, model.BookingCancelled); err != nil {
		return err
	}

	rng := model.DateRange{Checkin: b.CheckinDate, Checkout: b.CheckoutDate}
	for _, line := range lines {
		if err = s.r.RestoreInventoryDays(ctx, tx, line.RoomTypeID, rng, line.Quantity); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *service) MyBookings(ctx context.Context, userID int64) ([]BookingRow, error) {
	return s.r.ListByUser(ctx, userID)
}

func (s *service) AllBookings(ctx context.Context) ([]model.Booking, error) {
	return s.r.ListAll(ctx)
}
