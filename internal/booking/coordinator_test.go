package booking_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinetix/cinetix/internal/booking"
	"github.com/cinetix/cinetix/internal/model"
	"github.com/cinetix/cinetix/internal/promotion"
)

// memStore is an in-memory booking.Store.  The mutex plays the role of
// the per-showtime row lock: a whole Booking call runs under it, writes
// are staged in a transaction view and applied only when fn succeeds.
type memStore struct {
	mu         sync.Mutex
	showtimes  map[uint64]*model.Showtime
	rooms      map[uint64]*model.Room
	tickets    map[uint64]*model.Ticket
	codes      map[string]bool
	promoLimit map[uint64]uint32 // 0 = unlimited
	promoUsed  map[uint64]uint32
	nextID     uint64

	// failInserts makes the next N ticket inserts fail with
	// ErrDuplicateCode to exercise the retry path.
	failInserts int
	inserts     int
}

func newMemStore() *memStore {
	return &memStore{
		showtimes:  make(map[uint64]*model.Showtime),
		rooms:      make(map[uint64]*model.Room),
		tickets:    make(map[uint64]*model.Ticket),
		codes:      make(map[string]bool),
		promoLimit: make(map[uint64]uint32),
		promoUsed:  make(map[uint64]uint32),
	}
}

func (s *memStore) Booking(ctx context.Context, fn func(ops booking.Ops) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &memOps{
		store:     s,
		seats:     make(map[uint64][]string),
		tickets:   make(map[uint64]*model.Ticket),
		statuses:  make(map[uint64]string),
		promoUsed: make(map[uint64]uint32),
	}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// memOps stages all writes so a failed transaction leaves the store
// untouched.
type memOps struct {
	store     *memStore
	seats     map[uint64][]string      // staged ledgers by showtime
	tickets   map[uint64]*model.Ticket // staged inserts
	statuses  map[uint64]string        // staged status updates
	promoUsed map[uint64]uint32        // staged redemptions
}

func (o *memOps) commit() {
	s := o.store
	for id, ledger := range o.seats {
		s.showtimes[id].AvailableSeats = ledger
	}
	for id, t := range o.tickets {
		s.tickets[id] = t
		s.codes[t.BookingCode] = true
	}
	for id, status := range o.statuses {
		s.tickets[id].Status = status
	}
	for id, n := range o.promoUsed {
		s.promoUsed[id] += n
	}
}

func (o *memOps) ShowtimeForUpdate(ctx context.Context, id uint64) (*model.Showtime, error) {
	st, ok := o.store.showtimes[id]
	if !ok {
		return nil, booking.ErrShowtimeNotFound
	}
	cp := *st
	if staged, ok := o.seats[id]; ok {
		cp.AvailableSeats = staged
	} else {
		cp.AvailableSeats = append([]string(nil), st.AvailableSeats...)
	}
	return &cp, nil
}

func (o *memOps) Room(ctx context.Context, id uint64) (*model.Room, error) {
	rm, ok := o.store.rooms[id]
	if !ok {
		return nil, booking.ErrRoomNotFound
	}
	cp := *rm
	return &cp, nil
}

func (o *memOps) TakenSeats(ctx context.Context, showtimeID uint64) ([]string, error) {
	var taken []string
	collect := func(t *model.Ticket) {
		if t.ShowtimeID != showtimeID {
			return
		}
		status := t.Status
		if staged, ok := o.statuses[t.ID]; ok {
			status = staged
		}
		if status != model.TicketCancelled {
			taken = append(taken, t.Seats...)
		}
	}
	for _, t := range o.store.tickets {
		collect(t)
	}
	for _, t := range o.tickets {
		collect(t)
	}
	return taken, nil
}

func (o *memOps) InsertTicket(ctx context.Context, t *model.Ticket) error {
	o.store.inserts++
	if o.store.failInserts > 0 {
		o.store.failInserts--
		return booking.ErrDuplicateCode
	}
	if o.store.codes[t.BookingCode] {
		return booking.ErrDuplicateCode
	}
	o.store.nextID++
	t.ID = o.store.nextID
	cp := *t
	o.tickets[t.ID] = &cp
	return nil
}

func (o *memOps) SetAvailableSeats(ctx context.Context, showtimeID uint64, seats []string) error {
	o.seats[showtimeID] = seats
	return nil
}

func (o *memOps) RedeemPromotion(ctx context.Context, promotionID uint64) error {
	limit := o.store.promoLimit[promotionID]
	used := o.store.promoUsed[promotionID] + o.promoUsed[promotionID]
	if limit > 0 && used >= limit {
		return booking.ErrPromotionExhausted
	}
	o.promoUsed[promotionID]++
	return nil
}

func (o *memOps) TicketForUpdate(ctx context.Context, id uint64) (*model.Ticket, error) {
	t, ok := o.store.tickets[id]
	if !ok {
		return nil, booking.ErrTicketNotFound
	}
	cp := *t
	if staged, ok := o.statuses[id]; ok {
		cp.Status = staged
	}
	return &cp, nil
}

func (o *memOps) SetTicketStatus(ctx context.Context, id uint64, status string) error {
	o.statuses[id] = status
	return nil
}

// stubValidator satisfies booking.PromoValidator.
type stubValidator struct {
	result *promotion.Result
	err    error
	calls  int
}

func (v *stubValidator) Validate(ctx context.Context, code string, total decimal.Decimal) (*promotion.Result, error) {
	v.calls++
	if v.err != nil {
		return nil, v.err
	}
	return v.result, nil
}

func seedStore(t *testing.T) *memStore {
	t.Helper()
	s := newMemStore()
	s.rooms[1] = &model.Room{ID: 1, CinemaID: 1, Name: "Room 1", Rows: 10, SeatsPerRow: 12}
	s.showtimes[1] = &model.Showtime{
		ID:             1,
		MovieID:        1,
		RoomID:         1,
		Price:          decimal.NewFromInt(100000),
		AvailableSeats: booking.Layout(10, 12),
	}
	return s
}

func validRequest(seats ...string) booking.Request {
	return booking.Request{
		UserID:        7,
		ShowtimeID:    1,
		Seats:         seats,
		PaymentMethod: model.PayCard,
		Customer:      model.CustomerInfo{Name: "An Tran", Phone: "0900000000", Email: "an@example.com"},
	}
}

func rejection(t *testing.T, err error) *booking.Rejection {
	t.Helper()
	var rej *booking.Rejection
	require.ErrorAs(t, err, &rej)
	return rej
}

func TestBookHappyPath(t *testing.T) {
	store := seedStore(t)
	co := booking.NewCoordinator(store, &stubValidator{})

	ticket, err := co.Book(context.Background(), validRequest("D1", "D2"))
	require.NoError(t, err)

	assert.Equal(t, model.TicketConfirmed, ticket.Status)
	assert.Equal(t, []string{"D1", "D2"}, ticket.Seats)
	assert.True(t, decimal.NewFromInt(200000).Equal(ticket.TotalPrice), "got %s", ticket.TotalPrice)
	assert.True(t, strings.HasPrefix(ticket.BookingCode, "TK"))

	ledger := store.showtimes[1].AvailableSeats
	assert.Len(t, ledger, 118)
	assert.Empty(t, booking.Intersect([]string{"D1", "D2"}, ledger))
}

func TestBookTierPricing(t *testing.T) {
	store := seedStore(t)
	co := booking.NewCoordinator(store, &stubValidator{})

	// VIP (1.5) + sweet (1.3) + premium (1.2) on a 100000 base.
	ticket, err := co.Book(context.Background(), validRequest("A1", "E5", "J1"))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(400000).Equal(ticket.TotalPrice), "got %s", ticket.TotalPrice)
}

func TestBookNoDoubleSale(t *testing.T) {
	store := seedStore(t)
	co := booking.NewCoordinator(store, &stubValidator{})

	// Two customers race for the same seat.  The store lock serializes
	// them; exactly one wins.
	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := validRequest("F6")
			req.UserID = uint64(i + 1)
			_, results[i] = co.Book(context.Background(), req)
		}(i)
	}
	wg.Wait()

	var wins, losses int
	for _, err := range results {
		if err == nil {
			wins++
			continue
		}
		losses++
		rej := rejection(t, err)
		assert.Contains(t, []booking.Reason{booking.ReasonSeatsUnavailable, booking.ReasonSeatsConflict}, rej.Reason)
		assert.Equal(t, []string{"F6"}, rej.Seats)
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, losses)

	// Conservation: ledger plus sold seats still cover the full grid.
	sold := 0
	for _, tk := range store.tickets {
		sold += len(tk.Seats)
	}
	assert.Equal(t, 120, len(store.showtimes[1].AvailableSeats)+sold)
}

func TestBookRejectsSeatHeldByConfirmedTicket(t *testing.T) {
	store := seedStore(t)
	// The ledger drifted: C5 looks available but a confirmed ticket
	// already holds it.  The ticket scan is authoritative.
	store.tickets[99] = &model.Ticket{ID: 99, ShowtimeID: 1, UserID: 2, Status: model.TicketConfirmed, Seats: []string{"C5"}}
	store.nextID = 99
	co := booking.NewCoordinator(store, &stubValidator{})

	before := append([]string(nil), store.showtimes[1].AvailableSeats...)
	_, err := co.Book(context.Background(), validRequest("C5", "C6"))
	rej := rejection(t, err)
	assert.Equal(t, booking.ReasonSeatsConflict, rej.Reason)
	assert.Equal(t, []string{"C5"}, rej.Seats)
	assert.Equal(t, before, store.showtimes[1].AvailableSeats)
	assert.Len(t, store.tickets, 1)
}

func TestBookCancelledTicketSeatsAreFree(t *testing.T) {
	store := seedStore(t)
	store.tickets[50] = &model.Ticket{ID: 50, ShowtimeID: 1, UserID: 2, Status: model.TicketCancelled, Seats: []string{"D4"}}
	store.nextID = 50
	co := booking.NewCoordinator(store, &stubValidator{})

	_, err := co.Book(context.Background(), validRequest("D4"))
	assert.NoError(t, err)
}

func TestBookValidation(t *testing.T) {
	store := seedStore(t)
	co := booking.NewCoordinator(store, &stubValidator{})
	ctx := context.Background()

	_, err := co.Book(ctx, validRequest())
	assert.Equal(t, booking.ReasonInvalidRequest, rejection(t, err).Reason)

	req := validRequest("D1")
	req.PaymentMethod = "bitcoin"
	_, err = co.Book(ctx, req)
	assert.Equal(t, booking.ReasonInvalidRequest, rejection(t, err).Reason)

	req = validRequest("D1")
	req.Customer.Email = ""
	_, err = co.Book(ctx, req)
	assert.Equal(t, booking.ReasonInvalidRequest, rejection(t, err).Reason)

	_, err = co.Book(ctx, validRequest("Z99"))
	rej := rejection(t, err)
	assert.Equal(t, booking.ReasonInvalidRequest, rej.Reason)
	assert.Equal(t, []string{"Z99"}, rej.Seats)

	req = validRequest("D1")
	req.ShowtimeID = 404
	_, err = co.Book(ctx, req)
	assert.Equal(t, booking.ReasonShowtimeNotFound, rejection(t, err).Reason)
}

func TestBookDedupesSeats(t *testing.T) {
	store := seedStore(t)
	co := booking.NewCoordinator(store, &stubValidator{})

	ticket, err := co.Book(context.Background(), validRequest("D1", "D1", "D2"))
	require.NoError(t, err)
	assert.Equal(t, []string{"D1", "D2"}, ticket.Seats)
	assert.True(t, decimal.NewFromInt(200000).Equal(ticket.TotalPrice))
}

func TestBookAppliesPromoDiscount(t *testing.T) {
	store := seedStore(t)
	store.promoLimit[5] = 10
	promos := &stubValidator{result: &promotion.Result{
		PromotionID: 5,
		Code:        "STUDENT20",
		Discount:    decimal.NewFromInt(20000),
	}}
	co := booking.NewCoordinator(store, promos)

	req := validRequest("D1")
	req.PromoCode = "student20"
	ticket, err := co.Book(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(80000).Equal(ticket.TotalPrice), "got %s", ticket.TotalPrice)
	assert.Equal(t, "STUDENT20", ticket.PromoCode)
	assert.Equal(t, uint32(1), store.promoUsed[5])
}

func TestBookInvalidPromoFailsBooking(t *testing.T) {
	store := seedStore(t)
	promos := &stubValidator{err: promotion.ErrExpired}
	co := booking.NewCoordinator(store, promos)

	before := append([]string(nil), store.showtimes[1].AvailableSeats...)
	req := validRequest("D1")
	req.PromoCode = "OLD"
	_, err := co.Book(context.Background(), req)

	assert.Equal(t, booking.ReasonPromotion, rejection(t, err).Reason)
	assert.Empty(t, store.tickets)
	assert.Equal(t, before, store.showtimes[1].AvailableSeats)
}

func TestBookPromoExhaustedAtRedemption(t *testing.T) {
	store := seedStore(t)
	store.promoLimit[5] = 1
	store.promoUsed[5] = 1 // the last redemption was won by someone else
	promos := &stubValidator{result: &promotion.Result{PromotionID: 5, Code: "LAST1", Discount: decimal.NewFromInt(1000)}}
	co := booking.NewCoordinator(store, promos)

	before := append([]string(nil), store.showtimes[1].AvailableSeats...)
	req := validRequest("D1")
	req.PromoCode = "LAST1"
	_, err := co.Book(context.Background(), req)

	assert.Equal(t, booking.ReasonPromotion, rejection(t, err).Reason)
	// The whole transaction rolled back: no ticket, ledger intact.
	assert.Empty(t, store.tickets)
	assert.Equal(t, before, store.showtimes[1].AvailableSeats)
	assert.Equal(t, uint32(1), store.promoUsed[5])
}

func TestBookRetriesDuplicateCode(t *testing.T) {
	store := seedStore(t)
	store.failInserts = 2
	co := booking.NewCoordinator(store, &stubValidator{})

	ticket, err := co.Book(context.Background(), validRequest("D1"))
	require.NoError(t, err)
	assert.Equal(t, 3, store.inserts)
	assert.True(t, strings.HasPrefix(ticket.BookingCode, "TK"))
}

func TestBookFallsBackAfterRepeatedCollisions(t *testing.T) {
	store := seedStore(t)
	store.failInserts = 3
	co := booking.NewCoordinator(store, &stubValidator{})

	ticket, err := co.Book(context.Background(), validRequest("D1"))
	require.NoError(t, err)
	assert.Equal(t, 4, store.inserts)
	// The fallback code is UUID-derived: TK plus 16 hex characters.
	assert.Len(t, ticket.BookingCode, 18)
}

func TestCancelRestoresSeats(t *testing.T) {
	store := seedStore(t)
	co := booking.NewCoordinator(store, &stubValidator{})
	ctx := context.Background()

	ticket, err := co.Book(ctx, validRequest("D1", "D2"))
	require.NoError(t, err)
	require.Len(t, store.showtimes[1].AvailableSeats, 118)

	cancelled, err := co.Cancel(ctx, ticket.ID, ticket.UserID, model.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, model.TicketCancelled, cancelled.Status)
	assert.Len(t, store.showtimes[1].AvailableSeats, 120)

	// The freed seats can be booked again.
	again, err := co.Book(ctx, validRequest("D1", "D2"))
	require.NoError(t, err)
	assert.NotEqual(t, ticket.ID, again.ID)
}

func TestCancelOwnership(t *testing.T) {
	store := seedStore(t)
	co := booking.NewCoordinator(store, &stubValidator{})
	ctx := context.Background()

	ticket, err := co.Book(ctx, validRequest("D1"))
	require.NoError(t, err)

	_, err = co.Cancel(ctx, ticket.ID, 999, model.RoleUser)
	assert.Equal(t, booking.ReasonForbidden, rejection(t, err).Reason)

	// Staff may cancel anyone's ticket.
	_, err = co.Cancel(ctx, ticket.ID, 999, model.RoleStaff)
	assert.NoError(t, err)
}

func TestCancelAlreadyCancelled(t *testing.T) {
	store := seedStore(t)
	co := booking.NewCoordinator(store, &stubValidator{})
	ctx := context.Background()

	ticket, err := co.Book(ctx, validRequest("D1"))
	require.NoError(t, err)
	_, err = co.Cancel(ctx, ticket.ID, ticket.UserID, model.RoleUser)
	require.NoError(t, err)

	_, err = co.Cancel(ctx, ticket.ID, ticket.UserID, model.RoleUser)
	assert.Equal(t, booking.ReasonAlreadyCancelled, rejection(t, err).Reason)
	// A double cancel cannot inflate the ledger.
	assert.Len(t, store.showtimes[1].AvailableSeats, 120)
}

func TestCancelUnknownTicket(t *testing.T) {
	store := seedStore(t)
	co := booking.NewCoordinator(store, &stubValidator{})

	_, err := co.Cancel(context.Background(), 404, 1, model.RoleUser)
	assert.Equal(t, booking.ReasonTicketNotFound, rejection(t, err).Reason)
}

func TestBookSkipsValidatorWithoutCode(t *testing.T) {
	store := seedStore(t)
	promos := &stubValidator{err: errors.New("should not be called")}
	co := booking.NewCoordinator(store, promos)

	_, err := co.Book(context.Background(), validRequest("D1"))
	require.NoError(t, err)
	assert.Zero(t, promos.calls)
}
