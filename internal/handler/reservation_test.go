package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-room-reservation/internal/booking"
	"github.com/iliyamo/cinema-room-reservation/internal/model"
	"github.com/iliyamo/cinema-room-reservation/internal/payment"
	"github.com/iliyamo/cinema-room-reservation/internal/repository"
)

// ----- in-memory doubles for the booking core -----

type mapCatalog map[uint64]*model.Room

func (m mapCatalog) GetByID(_ context.Context, id uint64) (*model.Room, error) {
	r, ok := m[id]
	if !ok {
		return nil, repository.ErrRoomNotFound
	}
	cp := *r
	return &cp, nil
}

type memStore struct {
	mu     sync.Mutex
	nextID uint64
	taken  map[string]bool
	byID   map[uint64]model.Reservation
}

func newMemStore() *memStore {
	return &memStore{nextID: 1, taken: map[string]bool{}, byID: map[uint64]model.Reservation{}}
}

func (s *memStore) key(roomID uint64, date string, seat model.Seat) string {
	return fmt.Sprintf("%d|%s|%d|%d", roomID, date, seat.Row, seat.Col)
}

func (s *memStore) Create(_ context.Context, res *model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, seat := range res.Seats {
		if s.taken[s.key(res.RoomID, res.ShowDate, seat)] {
			return repository.ErrDuplicateSeat
		}
	}
	for _, seat := range res.Seats {
		s.taken[s.key(res.RoomID, res.ShowDate, seat)] = true
	}
	res.ID = s.nextID
	s.nextID++
	res.CreatedAt = time.Now().UTC()
	s.byID[res.ID] = *res
	return nil
}

func (s *memStore) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	return &r, nil
}

func (s *memStore) ListByUser(_ context.Context, userID uint64) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Reservation{}
	for _, r := range s.byID {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) SeatsForDate(_ context.Context, roomID uint64, date string) ([]model.Seat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Seat{}
	for _, r := range s.byID {
		if r.RoomID == roomID && r.ShowDate == date {
			out = append(out, r.Seats...)
		}
	}
	return out, nil
}

func (s *memStore) TakenAmong(_ context.Context, roomID uint64, date string, seats []model.Seat) ([]model.Seat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Seat{}
	for _, seat := range seats {
		if s.taken[s.key(roomID, date, seat)] {
			out = append(out, seat)
		}
	}
	return out, nil
}

type scriptedGateway struct {
	approve bool
	reason  string
}

func (g scriptedGateway) Authorize(context.Context, uint32, payment.Card) (payment.Result, error) {
	if g.approve {
		return payment.Result{Approved: true, Ref: "pay_test"}, nil
	}
	return payment.Result{Approved: false, Reason: g.reason}, nil
}

// ----- helpers -----

// bookableDate is always inside the window regardless of when tests run.
func bookableDate() string {
	return time.Now().UTC().AddDate(0, 0, 1).Format(booking.DateLayout)
}

func newBookingHandler(approve bool, reason string) *ReservationHandler {
	catalog := mapCatalog{1: {ID: 1, Name: "Room 1", SeatRows: 2, SeatCols: 2}}
	core := booking.NewService(catalog, newMemStore(), scriptedGateway{approve: approve, reason: reason})
	return NewReservationHandler(core, nil, nil)
}

func createReservationCtx(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/v1/reservations", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(7))
	c.Set("role", "CUSTOMER")
	return c, rec
}

func reservationBody(roomID uint64, date string, seats string) string {
	return fmt.Sprintf(`{"room_id":%d,"date":%q,"seats":%s,
		"card":{"card_number":"4242424242424242","card_holder":"JANE DOE","expiry_date":"12/30","cvv":"123"}}`,
		roomID, date, seats)
}

// ----- Create error contract -----

func TestReservationCreateSeatConflictBody(t *testing.T) {
	h := newBookingHandler(true, "")
	date := bookableDate()

	// another customer already holds A1 and A2
	_, err := h.Core.CreateReservation(context.Background(), 1, 2, date,
		[]model.Seat{{Row: 0, Col: 0}, {Row: 0, Col: 1}}, payment.Card{})
	require.NoError(t, err)

	c, rec := createReservationCtx(echo.New(), reservationBody(1, date, `[{"row":0,"column":0},{"row":1,"column":0}]`))
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusConflict, rec.Code)
	// the body must name the conflicting coordinates so the client can
	// re-render availability and reselect
	assert.Contains(t, rec.Body.String(), `"seats":[{"row":0,"column":0}]`)
	assert.Contains(t, rec.Body.String(), "already reserved")
}

func TestReservationCreatePaymentDeclined(t *testing.T) {
	h := newBookingHandler(false, "card declined")

	c, rec := createReservationCtx(echo.New(), reservationBody(1, bookableDate(), `[{"row":0,"column":0}]`))
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Contains(t, rec.Body.String(), "card declined")
}

func TestReservationCreateDateOutOfWindow(t *testing.T) {
	h := newBookingHandler(true, "")

	c, rec := createReservationCtx(echo.New(), reservationBody(1, "1999-01-01", `[{"row":0,"column":0}]`))
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "booking window")
}

func TestReservationCreateRoomNotFound(t *testing.T) {
	h := newBookingHandler(true, "")

	c, rec := createReservationCtx(echo.New(), reservationBody(99, bookableDate(), `[{"row":0,"column":0}]`))
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReservationCreateInvalidSelection(t *testing.T) {
	h := newBookingHandler(true, "")

	c, rec := createReservationCtx(echo.New(), reservationBody(1, bookableDate(), `[]`))
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid seat selection")
}

// ----- SeatMap -----

func seatMapCtx(e *echo.Echo, roomID, date string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/rooms/:id/seats/:date")
	c.SetParamNames("id", "date")
	c.SetParamValues(roomID, date)
	return c, rec
}

func TestSeatMapHandler(t *testing.T) {
	h := newBookingHandler(true, "")
	date := bookableDate()

	_, err := h.Core.CreateReservation(context.Background(), 1, 2, date,
		[]model.Seat{{Row: 0, Col: 0}}, payment.Card{})
	require.NoError(t, err)

	c, rec := seatMapCtx(echo.New(), "1", date)
	require.NoError(t, h.SeatMap(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"available":3`)
	assert.Contains(t, body, `{"row":0,"column":0,"status":"reserved"}`)
	assert.Contains(t, body, `{"row":1,"column":1,"status":"available"}`)
}

func TestSeatMapHandlerRejectsOutOfWindowDate(t *testing.T) {
	h := newBookingHandler(true, "")

	c, rec := seatMapCtx(echo.New(), "1", "1999-01-01")
	require.NoError(t, h.SeatMap(c))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "booking window")
}

func TestSeatMapHandlerRoomNotFound(t *testing.T) {
	h := newBookingHandler(true, "")

	c, rec := seatMapCtx(echo.New(), "42", bookableDate())
	require.NoError(t, h.SeatMap(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
