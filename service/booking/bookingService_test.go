package booking_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/letscodesatish/Hotel-reservation-system/model"
	bookingrepo "github.com/letscodesatish/Hotel-reservation-system/repository/booking"
	booking "github.com/letscodesatish/Hotel-reservation-system/service/booking"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func rng(in, out time.Time) model.DateRange {
	return model.DateRange{Checkin: in, Checkout: out}
}

// --- fake tx / beginner ---

// fakeTx satisfies pgx.Tx; the mocked repository never touches the raw
// connection, so everything except Commit/Rollback is inert.
type fakeTx struct {
	commits   int
	rollbacks int
}

func (t *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *fakeTx) Commit(ctx context.Context) error          { t.commits++; return nil }
func (t *fakeTx) Rollback(ctx context.Context) error        { t.rollbacks++; return nil }
func (t *fakeTx) CopyFrom(ctx context.Context, _ pgx.Identifier, _ []string, _ pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *fakeTx) SendBatch(ctx context.Context, _ *pgx.Batch) pgx.BatchResults { return nil }
func (t *fakeTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *fakeTx) Prepare(ctx context.Context, _, _ string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *fakeTx) Exec(ctx context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (t *fakeTx) Query(ctx context.Context, _ string, _ ...any) (pgx.Rows, error) { return nil, nil }
func (t *fakeTx) QueryRow(ctx context.Context, _ string, _ ...any) pgx.Row        { return nil }
func (t *fakeTx) Conn() *pgx.Conn                                                 { return nil }

type fakeDB struct {
	tx     *fakeTx
	begins int
}

func (f *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	f.begins++
	return f.tx, nil
}

// --- function-field repo mock ---

type repoMock struct {
	roomTypeByIDFn      func(ctx context.Context, tx pgx.Tx, id int64) (*model.RoomType, error)
	lockRoomTypeFn      func(ctx context.Context, tx pgx.Tx, id int64) (*model.RoomType, error)
	lockInventoryFn     func(ctx context.Context, tx pgx.Tx, roomTypeID int64, rng model.DateRange) ([]model.InventoryDay, error)
	sumOverlappingTxFn  func(ctx context.Context, tx pgx.Tx, roomTypeID int64, rng model.DateRange) (int, error)
	insertBookingFn     func(ctx context.Context, tx pgx.Tx, b *model.Booking) error
	insertLineFn        func(ctx context.Context, tx pgx.Tx, line *model.BookingLine) error
	decrementFn         func(ctx context.Context, tx pgx.Tx, invID int64, qty int) error
	lockBookingFn       func(ctx context.Context, tx pgx.Tx, bookingID int64) (*model.Booking, error)
	linesByBookingFn    func(ctx context.Context, tx pgx.Tx, bookingID int64) ([]model.BookingLine, error)
	updateStatusFn      func(ctx context.Context, tx pgx.Tx, bookingID int64, status model.BookingStatus) error
	restoreInventoryFn  func(ctx context.Context, tx pgx.Tx, roomTypeID int64, rng model.DateRange, qty int) error
	getRoomTypeFn       func(ctx context.Context, id int64) (*model.RoomType, error)
	getInventoryDaysFn  func(ctx context.Context, roomTypeID int64, rng model.DateRange) ([]model.InventoryDay, error)
	sumOverlappingROFn  func(ctx context.Context, roomTypeID int64, rng model.DateRange) (int, error)
	listByUserFn        func(ctx context.Context, userID int64) ([]bookingrepo.BookingRow, error)
	listAllFn           func(ctx context.Context) ([]model.Booking, error)
	lockInventoryCalls  int
	lockRoomTypeCalls   int
	decrementCalls      int
}

var _ booking.Repo = (*repoMock)(nil)

func (m *repoMock) RoomTypeByID(ctx context.Context, tx pgx.Tx, id int64) (*model.RoomType, error) {
	if m.roomTypeByIDFn == nil {
		return nil, pgx.ErrNoRows
	}
	return m.roomTypeByIDFn(ctx, tx, id)
}

func (m *repoMock) LockRoomType(ctx context.Context, tx pgx.Tx, id int64) (*model.RoomType, error) {
	m.lockRoomTypeCalls++
	if m.lockRoomTypeFn == nil {
		return nil, pgx.ErrNoRows
	}
	return m.lockRoomTypeFn(ctx, tx, id)
}

func (m *repoMock) LockInventoryDays(ctx context.Context, tx pgx.Tx, roomTypeID int64, r model.DateRange) ([]model.InventoryDay, error) {
	m.lockInventoryCalls++
	if m.lockInventoryFn == nil {
		return nil, nil
	}
	return m.lockInventoryFn(ctx, tx, roomTypeID, r)
}

func (m *repoMock) SumOverlappingQuantity(ctx context.Context, tx pgx.Tx, roomTypeID int64, r model.DateRange) (int, error) {
	if m.sumOverlappingTxFn == nil {
		return 0, nil
	}
	return m.sumOverlappingTxFn(ctx, tx, roomTypeID, r)
}

func (m *repoMock) InsertBooking(ctx context.Context, tx pgx.Tx, b *model.Booking) error {
	if m.insertBookingFn == nil {
		b.ID = 1
		return nil
	}
	return m.insertBookingFn(ctx, tx, b)
}

func (m *repoMock) InsertBookingLine(ctx context.Context, tx pgx.Tx, line *model.BookingLine) error {
	if m.insertLineFn == nil {
		line.ID = 1
		return nil
	}
	return m.insertLineFn(ctx, tx, line)
}

func (m *repoMock) DecrementInventoryDay(ctx context.Context, tx pgx.Tx, invID int64, qty int) error {
	m.decrementCalls++
	if m.decrementFn == nil {
		return nil
	}
	return m.decrementFn(ctx, tx, invID, qty)
}

func (m *repoMock) LockBooking(ctx context.Context, tx pgx.Tx, bookingID int64) (*model.Booking, error) {
	if m.lockBookingFn == nil {
		return nil, pgx.ErrNoRows
	}
	return m.lockBookingFn(ctx, tx, bookingID)
}

func (m *repoMock) LinesByBooking(ctx context.Context, tx pgx.Tx, bookingID int64) ([]model.BookingLine, error) {
	if m.linesByBookingFn == nil {
		return nil, nil
	}
	return m.linesByBookingFn(ctx, tx, bookingID)
}

func (m *repoMock) UpdateBookingStatus(ctx context.Context, tx pgx.Tx, bookingID int64, status model.BookingStatus) error {
	if m.updateStatusFn == nil {
		return nil
	}
	return m.updateStatusFn(ctx, tx, bookingID, status)
}

func (m *repoMock) RestoreInventoryDays(ctx context.Context, tx pgx.Tx, roomTypeID int64, r model.DateRange, qty int) error {
	if m.restoreInventoryFn == nil {
		return nil
	}
	return m.restoreInventoryFn(ctx, tx, roomTypeID, r, qty)
}

func (m *repoMock) GetRoomType(ctx context.Context, id int64) (*model.RoomType, error) {
	if m.getRoomTypeFn == nil {
		return nil, pgx.ErrNoRows
	}
	return m.getRoomTypeFn(ctx, id)
}

func (m *repoMock) GetInventoryDays(ctx context.Context, roomTypeID int64, r model.DateRange) ([]model.InventoryDay, error) {
	if m.getInventoryDaysFn == nil {
		return nil, nil
	}
	return m.getInventoryDaysFn(ctx, roomTypeID, r)
}

func (m *repoMock) SumOverlapping(ctx context.Context, roomTypeID int64, r model.DateRange) (int, error) {
	if m.sumOverlappingROFn == nil {
		return 0, nil
	}
	return m.sumOverlappingROFn(ctx, roomTypeID, r)
}

func (m *repoMock) ListByUser(ctx context.Context, userID int64) ([]bookingrepo.BookingRow, error) {
	if m.listByUserFn == nil {
		return nil, nil
	}
	return m.listByUserFn(ctx, userID)
}

func (m *repoMock) ListAll(ctx context.Context) ([]model.Booking, error) {
	if m.listAllFn == nil {
		return nil, nil
	}
	return m.listAllFn(ctx)
}

func deluxeKing() *model.RoomType {
	return &model.RoomType{ID: 10, HotelID: 1, Name: "Deluxe King", BasePrice: 100, Capacity: 2, TotalCount: 5}
}

func validInput() booking.ReserveInput {
	return booking.ReserveInput{
		UserID:      7,
		HotelID:     1,
		RoomTypeID:  10,
		Range:       rng(d(2026, 3, 1), d(2026, 3, 3)),
		Quantity:    3,
		EntryStatus: model.BookingPending,
	}
}

// --- validation tests ---

func TestReserve_InvalidDateRange(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{}}
	svc := booking.New(db, &repoMock{})

	in := validInput()
	in.Range = rng(d(2026, 3, 1), d(2026, 3, 1)) // checkin == checkout
	_, err := svc.Reserve(context.Background(), in)
	require.Error(t, err)
	require.Equal(t, booking.ErrInvalidDateRange, booking.Code(err))

	in.Range = rng(d(2026, 3, 3), d(2026, 3, 1)) // inverted
	_, err = svc.Reserve(context.Background(), in)
	require.Equal(t, booking.ErrInvalidDateRange, booking.Code(err))

	// Fails before the store is touched.
	require.Equal(t, 0, db.begins)
}

func TestReserve_InvalidQuantity(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{}}
	svc := booking.New(db, &repoMock{})

	for _, qty := range []int{0, -1} {
		in := validInput()
		in.Quantity = qty
		_, err := svc.Reserve(context.Background(), in)
		require.Equal(t, booking.ErrInvalidQuantity, booking.Code(err))
	}
	require.Equal(t, 0, db.begins)
}

func TestReserve_EntryStatusMustBeExplicit(t *testing.T) {
	svc := booking.New(&fakeDB{tx: &fakeTx{}}, &repoMock{})

	for _, st := range []model.BookingStatus{"", model.BookingCancelled, model.BookingCheckedIn} {
		in := validInput()
		in.EntryStatus = st
		_, err := svc.Reserve(context.Background(), in)
		require.Equal(t, booking.ErrInvalidStatus, booking.Code(err))
	}
}

func TestReserve_UnknownRoomType(t *testing.T) {
	tx := &fakeTx{}
	m := &repoMock{
		roomTypeByIDFn: func(ctx context.Context, _ pgx.Tx, id int64) (*model.RoomType, error) {
			return nil, pgx.ErrNoRows
		},
	}
	svc := booking.New(&fakeDB{tx: tx}, m)

	_, err := svc.Reserve(context.Background(), validInput())
	require.Equal(t, booking.ErrRoomTypeNotFound, booking.Code(err))
	require.Equal(t, 1, tx.rollbacks)
	require.Equal(t, 0, tx.commits)
}

// --- aggregate mode ---

func TestReserve_AggregateSuccess(t *testing.T) {
	// RoomType(total_count=5, base_price=100), no inventory rows, quantity=3
	// for 2 nights: succeeds with total 600 and per-night unit price 100.
	tx := &fakeTx{}
	var inserted model.Booking
	m := &repoMock{
		roomTypeByIDFn: func(ctx context.Context, _ pgx.Tx, id int64) (*model.RoomType, error) {
			return deluxeKing(), nil
		},
		lockRoomTypeFn: func(ctx context.Context, _ pgx.Tx, id int64) (*model.RoomType, error) {
			return deluxeKing(), nil
		},
		sumOverlappingTxFn: func(ctx context.Context, _ pgx.Tx, _ int64, _ model.DateRange) (int, error) {
			return 0, nil
		},
		insertBookingFn: func(ctx context.Context, _ pgx.Tx, b *model.Booking) error {
			b.ID = 99
			inserted = *b
			return nil
		},
	}
	svc := booking.New(&fakeDB{tx: tx}, m)

	b, err := svc.Reserve(context.Background(), validInput())
	require.NoError(t, err)
	require.Equal(t, int64(99), b.ID)
	require.Equal(t, model.BookingPending, b.Status)
	require.Equal(t, 600.0, b.TotalPrice)
	require.Len(t, b.Lines, 1)
	require.Equal(t, 3, b.Lines[0].Quantity)
	require.Equal(t, 100.0, b.Lines[0].PricePerRoom)
	require.Equal(t, model.BookingPending, inserted.Status)
	require.Equal(t, 1, tx.commits)
	require.Equal(t, 0, tx.rollbacks)
	require.Equal(t, 0, m.decrementCalls)
}

func TestReserve_AggregateInsufficient(t *testing.T) {
	// One confirmed overlapping booking of quantity 3 leaves 5-3=2 < 3.
	tx := &fakeTx{}
	m := &repoMock{
		roomTypeByIDFn: func(ctx context.Context, _ pgx.Tx, id int64) (*model.RoomType, error) {
			return deluxeKing(), nil
		},
		lockRoomTypeFn: func(ctx context.Context, _ pgx.Tx, id int64) (*model.RoomType, error) {
			return deluxeKing(), nil
		},
		sumOverlappingTxFn: func(ctx context.Context, _ pgx.Tx, _ int64, _ model.DateRange) (int, error) {
			return 3, nil
		},
	}
	svc := booking.New(&fakeDB{tx: tx}, m)

	_, err := svc.Reserve(context.Background(), validInput())
	require.Equal(t, booking.ErrNoAvailability, booking.Code(err))

	var availErr *booking.AvailabilityError
	require.ErrorAs(t, err, &availErr)
	require.True(t, availErr.Date.IsZero())
	require.Equal(t, 2, availErr.Available)
	require.Equal(t, 3, availErr.Requested)
	require.Equal(t, 1, tx.rollbacks)
	require.Equal(t, 0, tx.commits)
}

func TestReserve_ConfirmedEntryStatus(t *testing.T) {
	m := &repoMock{
		roomTypeByIDFn: func(ctx context.Context, _ pgx.Tx, id int64) (*model.RoomType, error) {
			return deluxeKing(), nil
		},
		lockRoomTypeFn: func(ctx context.Context, _ pgx.Tx, id int64) (*model.RoomType, error) {
			return deluxeKing(), nil
		},
	}
	svc := booking.New(&fakeDB{tx: &fakeTx{}}, m)

	in := validInput()
	in.EntryStatus = model.BookingConfirmed
	b, err := svc.Reserve(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, model.BookingConfirmed, b.Status)
}

// --- managed inventory mode ---

func managedRows(avail int, override *float64) []model.InventoryDay {
	return []model.InventoryDay{
		{ID: 1, RoomTypeID: 10, Date: d(2026, 3, 1), AvailableCount: avail, PriceOverride: override},
		{ID: 2, RoomTypeID: 10, Date: d(2026, 3, 2), AvailableCount: avail},
	}
}

func TestReserve_ManagedInsufficientNamesDate(t *testing.T) {
	// Per-day rows with available_count=1 each, quantity=2: fails naming the
	// first underfilled date.
	tx := &fakeTx{}
	m := &repoMock{
		roomTypeByIDFn: func(ctx context.Context, _ pgx.Tx, id int64) (*model.RoomType, error) {
			return deluxeKing(), nil
		},
		lockInventoryFn: func(ctx context.Context, _ pgx.Tx, _ int64, _ model.DateRange) ([]model.InventoryDay, error) {
			return managedRows(1, nil), nil
		},
	}
	svc := booking.New(&fakeDB{tx: tx}, m)

	in := validInput()
	in.Quantity = 2
	_, err := svc.Reserve(context.Background(), in)
	require.Equal(t, booking.ErrNoAvailability, booking.Code(err))

	var availErr *booking.AvailabilityError
	require.ErrorAs(t, err, &availErr)
	require.Equal(t, d(2026, 3, 1), availErr.Date)
	require.Equal(t, 1, availErr.Available)
	require.Equal(t, 1, tx.rollbacks)
	// Aggregate fallback must not run once any row exists.
	require.Equal(t, 0, m.lockRoomTypeCalls)
}

func TestReserve_ManagedPricingAndDecrement(t *testing.T) {
	// Day one overridden to 150, day two at base 100; quantity 2 over 2
	// nights: total (150+100)*2 = 500, effective unit 500/(2*2) = 125.
	override := 150.0
	tx := &fakeTx{}
	var decremented []int64
	m := &repoMock{
		roomTypeByIDFn: func(ctx context.Context, _ pgx.Tx, id int64) (*model.RoomType, error) {
			return deluxeKing(), nil
		},
		lockInventoryFn: func(ctx context.Context, _ pgx.Tx, _ int64, _ model.DateRange) ([]model.InventoryDay, error) {
			return managedRows(4, &override), nil
		},
		decrementFn: func(ctx context.Context, _ pgx.Tx, invID int64, qty int) error {
			require.Equal(t, 2, qty)
			decremented = append(decremented, invID)
			return nil
		},
	}
	svc := booking.New(&fakeDB{tx: tx}, m)

	in := validInput()
	in.Quantity = 2
	b, err := svc.Reserve(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, 500.0, b.TotalPrice)
	require.Equal(t, 125.0, b.Lines[0].PricePerRoom)
	require.Equal(t, []int64{1, 2}, decremented)
	require.Equal(t, 1, tx.commits)
}

func TestReserve_RollbackOnLineInsertFailure(t *testing.T) {
	tx := &fakeTx{}
	m := &repoMock{
		roomTypeByIDFn: func(ctx context.Context, _ pgx.Tx, id int64) (*model.RoomType, error) {
			return deluxeKing(), nil
		},
		lockRoomTypeFn: func(ctx context.Context, _ pgx.Tx, id int64) (*model.RoomType, error) {
			return deluxeKing(), nil
		},
		insertLineFn: func(ctx context.Context, _ pgx.Tx, _ *model.BookingLine) error {
			return errors.New("connection reset")
		},
	}
	svc := booking.New(&fakeDB{tx: tx}, m)

	_, err := svc.Reserve(context.Background(), validInput())
	require.Error(t, err)
	require.Equal(t, booking.ErrCode(""), booking.Code(err))
	require.Equal(t, 1, tx.rollbacks)
	require.Equal(t, 0, tx.commits)
}

// --- read-only availability ---

func TestAvailability_AggregateIdempotent(t *testing.T) {
	m := &repoMock{
		getRoomTypeFn: func(ctx context.Context, id int64) (*model.RoomType, error) {
			return deluxeKing(), nil
		},
		sumOverlappingROFn: func(ctx context.Context, _ int64, _ model.DateRange) (int, error) {
			return 2, nil
		},
	}
	svc := booking.New(&fakeDB{tx: &fakeTx{}}, m)

	r := rng(d(2026, 3, 1), d(2026, 3, 3))
	first, err := svc.Availability(context.Background(), 10, r)
	require.NoError(t, err)
	second, err := svc.Availability(context.Background(), 10, r)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, booking.AggregateMode, first.Mode)
	require.Equal(t, 3, first.Available)
	// The probe never takes locks.
	require.Equal(t, 0, m.lockInventoryCalls)
	require.Equal(t, 0, m.lockRoomTypeCalls)
}

func TestAvailability_ManagedReportsPerDay(t *testing.T) {
	override := 180.0
	m := &repoMock{
		getRoomTypeFn: func(ctx context.Context, id int64) (*model.RoomType, error) {
			return deluxeKing(), nil
		},
		getInventoryDaysFn: func(ctx context.Context, _ int64, _ model.DateRange) ([]model.InventoryDay, error) {
			return []model.InventoryDay{
				{ID: 1, RoomTypeID: 10, Date: d(2026, 3, 1), AvailableCount: 4, PriceOverride: &override},
				{ID: 2, RoomTypeID: 10, Date: d(2026, 3, 2), AvailableCount: 2},
			}, nil
		},
	}
	svc := booking.New(&fakeDB{tx: &fakeTx{}}, m)

	report, err := svc.Availability(context.Background(), 10, rng(d(2026, 3, 1), d(2026, 3, 3)))
	require.NoError(t, err)
	require.Equal(t, booking.ManagedInventoryMode, report.Mode)
	require.Equal(t, 2, report.Available)
	require.Len(t, report.Days, 2)
	require.Equal(t, 180.0, report.Days[0].NightPrice)
	require.Equal(t, 100.0, report.Days[1].NightPrice)
}

// --- stateful in-memory store: serialization and cancellation ---

// memStore models the inventory store with lock-until-commit semantics: a
// transaction holds the store mutex from Begin to Commit/Rollback, the same
// way row locks serialize competing reservations.
type memStore struct {
	mu       sync.Mutex
	roomType model.RoomType
	invs     []model.InventoryDay
	bookings map[int64]*model.Booking
	lines    []model.BookingLine
	nextID   int64
}

func newMemStore(rt model.RoomType, invs []model.InventoryDay) *memStore {
	return &memStore{roomType: rt, invs: invs, bookings: map[int64]*model.Booking{}, nextID: 1}
}

type memTx struct {
	fakeTx
	store *memStore
	done  bool
}

func (t *memTx) Commit(ctx context.Context) error {
	if !t.done {
		t.done = true
		t.store.mu.Unlock()
	}
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	if !t.done {
		t.done = true
		t.store.mu.Unlock()
	}
	return nil
}

func (s *memStore) Begin(ctx context.Context) (pgx.Tx, error) {
	s.mu.Lock()
	return &memTx{store: s}, nil
}

var _ booking.Repo = (*memStore)(nil)
var _ booking.TxBeginner = (*memStore)(nil)

func (s *memStore) RoomTypeByID(ctx context.Context, _ pgx.Tx, id int64) (*model.RoomType, error) {
	if id != s.roomType.ID {
		return nil, pgx.ErrNoRows
	}
	rt := s.roomType
	return &rt, nil
}

func (s *memStore) LockRoomType(ctx context.Context, tx pgx.Tx, id int64) (*model.RoomType, error) {
	return s.RoomTypeByID(ctx, tx, id)
}

func (s *memStore) LockInventoryDays(ctx context.Context, _ pgx.Tx, roomTypeID int64, r model.DateRange) ([]model.InventoryDay, error) {
	var out []model.InventoryDay
	for _, inv := range s.invs {
		if inv.RoomTypeID == roomTypeID && !inv.Date.Before(r.Checkin) && inv.Date.Before(r.Checkout) {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (s *memStore) SumOverlappingQuantity(ctx context.Context, _ pgx.Tx, roomTypeID int64, r model.DateRange) (int, error) {
	total := 0
	for _, line := range s.lines {
		b := s.bookings[line.BookingID]
		if line.RoomTypeID != roomTypeID || b == nil || !b.Status.Blocks() {
			continue
		}
		stay := model.DateRange{Checkin: b.CheckinDate, Checkout: b.CheckoutDate}
		if stay.Overlaps(r) {
			total += line.Quantity
		}
	}
	return total, nil
}

func (s *memStore) InsertBooking(ctx context.Context, _ pgx.Tx, b *model.Booking) error {
	b.ID = s.nextID
	s.nextID++
	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

func (s *memStore) InsertBookingLine(ctx context.Context, _ pgx.Tx, line *model.BookingLine) error {
	line.ID = s.nextID
	s.nextID++
	s.lines = append(s.lines, *line)
	return nil
}

func (s *memStore) DecrementInventoryDay(ctx context.Context, _ pgx.Tx, invID int64, qty int) error {
	for i := range s.invs {
		if s.invs[i].ID == invID {
			if s.invs[i].AvailableCount < qty {
				return errors.New("inventory decrement would go negative")
			}
			s.invs[i].AvailableCount -= qty
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (s *memStore) LockBooking(ctx context.Context, _ pgx.Tx, bookingID int64) (*model.Booking, error) {
	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *b
	return &cp, nil
}

func (s *memStore) LinesByBooking(ctx context.Context, _ pgx.Tx, bookingID int64) ([]model.BookingLine, error) {
	var out []model.BookingLine
	for _, line := range s.lines {
		if line.BookingID == bookingID {
			out = append(out, line)
		}
	}
	return out, nil
}

func (s *memStore) UpdateBookingStatus(ctx context.Context, _ pgx.Tx, bookingID int64, status model.BookingStatus) error {
	b, ok := s.bookings[bookingID]
	if !ok {
		return pgx.ErrNoRows
	}
	b.Status = status
	return nil
}

func (s *memStore) RestoreInventoryDays(ctx context.Context, _ pgx.Tx, roomTypeID int64, r model.DateRange, qty int) error {
	for i := range s.invs {
		inv := &s.invs[i]
		if inv.RoomTypeID == roomTypeID && !inv.Date.Before(r.Checkin) && inv.Date.Before(r.Checkout) {
			inv.AvailableCount += qty
			if inv.AvailableCount > s.roomType.TotalCount {
				inv.AvailableCount = s.roomType.TotalCount
			}
		}
	}
	return nil
}

func (s *memStore) GetRoomType(ctx context.Context, id int64) (*model.RoomType, error) {
	return s.RoomTypeByID(ctx, nil, id)
}

func (s *memStore) GetInventoryDays(ctx context.Context, roomTypeID int64, r model.DateRange) ([]model.InventoryDay, error) {
	return s.LockInventoryDays(ctx, nil, roomTypeID, r)
}

func (s *memStore) SumOverlapping(ctx context.Context, roomTypeID int64, r model.DateRange) (int, error) {
	return s.SumOverlappingQuantity(ctx, nil, roomTypeID, r)
}

func (s *memStore) ListByUser(ctx context.Context, userID int64) ([]bookingrepo.BookingRow, error) {
	return nil, nil
}

func (s *memStore) ListAll(ctx context.Context) ([]model.Booking, error) { return nil, nil }

func TestReserve_ConcurrentContenders(t *testing.T) {
	// Two simultaneous requests of 3 rooms each against 5: the lock
	// serializes them and exactly one wins.
	store := newMemStore(*deluxeKing(), nil)
	svc := booking.New(store, store)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			in := validInput()
			in.UserID = userID
			_, err := svc.Reserve(context.Background(), in)
			results <- err
		}(int64(i + 1))
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		if err == nil {
			successes++
		} else {
			require.Equal(t, booking.ErrNoAvailability, booking.Code(err))
			conflicts++
		}
	}
	require.Equal(t, 1, successes)
	require.Equal(t, 1, conflicts)
}

func TestReserve_SecondObservesFirstCommit(t *testing.T) {
	store := newMemStore(*deluxeKing(), nil)
	svc := booking.New(store, store)

	in := validInput()
	in.Quantity = 2
	_, err := svc.Reserve(context.Background(), in)
	require.NoError(t, err)

	// 5-2=3 left: another 2 fits, then 2 more does not.
	_, err = svc.Reserve(context.Background(), in)
	require.NoError(t, err)
	_, err = svc.Reserve(context.Background(), in)
	require.Equal(t, booking.ErrNoAvailability, booking.Code(err))
}

func TestCancel_ReleasesAggregateAvailability(t *testing.T) {
	store := newMemStore(*deluxeKing(), nil)
	svc := booking.New(store, store)

	in := validInput()
	in.Quantity = 4
	in.EntryStatus = model.BookingConfirmed
	b, err := svc.Reserve(context.Background(), in)
	require.NoError(t, err)

	// 1 of 5 left; 3 more must fail until the first booking is cancelled.
	in2 := validInput()
	in2.Quantity = 3
	_, err = svc.Reserve(context.Background(), in2)
	require.Equal(t, booking.ErrNoAvailability, booking.Code(err))

	require.NoError(t, svc.Cancel(context.Background(), in.UserID, b.ID))

	_, err = svc.Reserve(context.Background(), in2)
	require.NoError(t, err)
}

func TestCancel_RestoresManagedInventory(t *testing.T) {
	invs := []model.InventoryDay{
		{ID: 1, RoomTypeID: 10, Date: d(2026, 3, 1), AvailableCount: 5},
		{ID: 2, RoomTypeID: 10, Date: d(2026, 3, 2), AvailableCount: 5},
	}
	store := newMemStore(*deluxeKing(), invs)
	svc := booking.New(store, store)

	b, err := svc.Reserve(context.Background(), validInput())
	require.NoError(t, err)
	require.Equal(t, 2, store.invs[0].AvailableCount)
	require.Equal(t, 2, store.invs[1].AvailableCount)

	require.NoError(t, svc.Cancel(context.Background(), b.UserID, b.ID))
	require.Equal(t, 5, store.invs[0].AvailableCount)
	require.Equal(t, 5, store.invs[1].AvailableCount)
}

func TestCancel_OwnerAndStatusChecks(t *testing.T) {
	store := newMemStore(*deluxeKing(), nil)
	svc := booking.New(store, store)

	b, err := svc.Reserve(context.Background(), validInput())
	require.NoError(t, err)

	err = svc.Cancel(context.Background(), b.UserID+1, b.ID)
	require.Equal(t, booking.ErrNotOwner, booking.Code(err))

	err = svc.Cancel(context.Background(), b.UserID, b.ID+100)
	require.Equal(t, booking.ErrNotFound, booking.Code(err))

	require.NoError(t, svc.Cancel(context.Background(), b.UserID, b.ID))
	err = svc.Cancel(context.Background(), b.UserID, b.ID)
	require.Equal(t, booking.ErrNotCancelable, booking.Code(err))
}
