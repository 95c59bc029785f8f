package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/cinema-room-reservation/internal/model"
	"github.com/iliyamo/cinema-room-reservation/internal/payment"
	"github.com/iliyamo/cinema-room-reservation/internal/repository"
)

// UnitPriceCents is the flat per-seat price (50 currency units).
const UnitPriceCents uint32 = 5000

// WindowDays is how many days ahead of today a showing can be booked,
// inclusive of both ends.
const WindowDays = 7

// DateLayout is the calendar-date wire format for show dates.
const DateLayout = "2006-01-02"

// RoomCatalog is the read contract the core consumes from the room
// catalog.  Dimensions are authoritative and read fresh per request.
type RoomCatalog interface {
	GetByID(ctx context.Context, id uint64) (*model.Room, error)
}

// ReservationStore persists committed reservations.  Create must be
// atomic: either the reservation row and all its seats are written, or
// nothing is.  A racing insert for an already-taken (room, date, seat)
// must fail with repository.ErrDuplicateSeat so the service can report
// the conflict.
type ReservationStore interface {
	Create(ctx context.Context, res *model.Reservation) error
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error)
	SeatsForDate(ctx context.Context, roomID uint64, date string) ([]model.Seat, error)
	TakenAmong(ctx context.Context, roomID uint64, date string, seats []model.Seat) ([]model.Seat, error)
}

// Service is the reservation transaction manager plus the seat map
// engine.  It serializes reservation attempts per (room, date) with a
// keyed mutex; the storage uniqueness constraint on (room, date, seat)
// remains as the backstop when multiple instances share one database.
type Service struct {
	catalog RoomCatalog
	store   ReservationStore
	gateway payment.Gateway

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	now func() time.Time // overridable in tests
}

// NewService wires the reservation core.  All dependencies must be
// non-nil.
func NewService(catalog RoomCatalog, store ReservationStore, gateway payment.Gateway) *Service {
	if catalog == nil || store == nil || gateway == nil {
		panic("nil dependency passed to booking.NewService")
	}
	return &Service{
		catalog: catalog,
		store:   store,
		gateway: gateway,
		locks:   make(map[string]*sync.Mutex),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// lockFor returns the commit lock for a (room, date) pair and evicts
// entries whose date has passed, keeping the table bounded by rooms
// times the booking window.  Dropping a past-date lock is safe: the
// window check runs before lockFor, so no new attempt can ever request
// it again.
func (s *Service) lockFor(roomID uint64, date string) *sync.Mutex {
	key := fmt.Sprintf("%d:%s", roomID, date)
	today := s.now().Truncate(24 * time.Hour).Format(DateLayout)
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.locks {
		// the date part of a key sorts lexically, YYYY-MM-DD
		if i := strings.IndexByte(k, ':'); i >= 0 && k[i+1:] < today {
			delete(s.locks, k)
		}
	}
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// SeatMap derives the availability grid for a room on a date.  It is a
// pure query over the room catalog and the committed reservations; an
// unknown room yields repository.ErrRoomNotFound, a date with no
// reservations yields an all-available grid.  The engine computes any
// date it is given; the HTTP layer rejects unbookable dates with
// CheckWindow before calling it.
func (s *Service) SeatMap(ctx context.Context, roomID uint64, date string) (*SeatMap, error) {
	room, err := s.catalog.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: bad date %q", ErrInvalidSeatSelection, date)
	}
	reserved, err := s.store.SeatsForDate(ctx, roomID, date)
	if err != nil {
		return nil, err
	}
	return &SeatMap{
		RoomID: roomID,
		Date:   date,
		Rows:   room.SeatRows,
		Cols:   room.SeatCols,
		Grid:   BuildSeatMap(room.SeatRows, room.SeatCols, reserved),
	}, nil
}

// CreateReservation validates a seat selection, charges the payment stub
// and atomically commits the reservation.  Preconditions are checked in
// order and each fails independently: room lookup, selection validity,
// booking window, availability, payment, commit.  The availability check
// and the commit run under the (room, date) lock so two racing requests
// for overlapping seats cannot both succeed; a declined payment leaves
// no trace and consumes no seats.
func (s *Service) CreateReservation(ctx context.Context, roomID, userID uint64, date string, seats []model.Seat, card payment.Card) (*model.Reservation, error) {
	room, err := s.catalog.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := validateSelection(room, seats); err != nil {
		return nil, err
	}
	if err := s.CheckWindow(date); err != nil {
		return nil, err
	}

	lock := s.lockFor(roomID, date)
	lock.Lock()
	defer lock.Unlock()

	taken, err := s.store.TakenAmong(ctx, roomID, date, seats)
	if err != nil {
		return nil, err
	}
	if len(taken) > 0 {
		return nil, &SeatConflictError{Seats: taken}
	}

	total := uint32(len(seats)) * UnitPriceCents
	result, err := s.gateway.Authorize(ctx, total, card)
	if err != nil {
		return nil, err
	}
	if !result.Approved {
		return nil, &PaymentDeclinedError{Reason: result.Reason}
	}

	res := &model.Reservation{
		RoomID:           roomID,
		UserID:           userID,
		ShowDate:         date,
		Seats:            seats,
		TotalAmountCents: total,
		PaymentRef:       result.Ref,
	}
	if err := s.store.Create(ctx, res); err != nil {
		if errors.Is(err, repository.ErrDuplicateSeat) {
			// Lost to a commit outside this process. Name the seats so
			// the client can reselect.
			conflicting, qerr := s.store.TakenAmong(ctx, roomID, date, seats)
			if qerr != nil || len(conflicting) == 0 {
				conflicting = seats
			}
			return nil, &SeatConflictError{Seats: conflicting}
		}
		return nil, err
	}
	return res, nil
}

// Reservation loads a committed reservation by id.
func (s *Service) Reservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	return s.store.GetByID(ctx, id)
}

// ReservationsByUser lists a user's reservations, newest first.
func (s *Service) ReservationsByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	return s.store.ListByUser(ctx, userID)
}

// validateSelection enforces the request-shape preconditions: non-empty,
// no duplicate coordinates, everything inside the room's grid, and never
// more seats than the room holds.
func validateSelection(room *model.Room, seats []model.Seat) error {
	if len(seats) == 0 {
		return fmt.Errorf("%w: no seats requested", ErrInvalidSeatSelection)
	}
	if len(seats) > room.TotalSeats() {
		return fmt.Errorf("%w: more seats than the room holds", ErrInvalidSeatSelection)
	}
	seen := make(map[model.Seat]struct{}, len(seats))
	for _, seat := range seats {
		if !room.Contains(seat) {
			return fmt.Errorf("%w: seat (%d,%d) outside %dx%d grid",
				ErrInvalidSeatSelection, seat.Row, seat.Col, room.SeatRows, room.SeatCols)
		}
		if _, dup := seen[seat]; dup {
			return fmt.Errorf("%w: duplicate seat (%d,%d)", ErrInvalidSeatSelection, seat.Row, seat.Col)
		}
		seen[seat] = struct{}{}
	}
	return nil
}

// CheckWindow verifies the show date falls inside today..today+WindowDays
// in UTC.  CreateReservation calls it as a precondition; the HTTP layer
// also uses it to reject seat map reads for dates nobody can book.
func (s *Service) CheckWindow(date string) error {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return fmt.Errorf("%w: bad date %q", ErrDateOutOfWindow, date)
	}
	today := s.now().Truncate(24 * time.Hour)
	if d.Before(today) || d.After(today.AddDate(0, 0, WindowDays)) {
		return ErrDateOutOfWindow
	}
	return nil
}
