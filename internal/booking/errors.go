// Package booking implements the seat-reservation core: the per-date seat
// map derivation and the reservation transaction that ties seat
// allocation to payment.  Everything here is request scoped; the only
// shared state is the persisted reservation data behind the store
// interfaces.
package booking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/cinema-room-reservation/internal/model"
	"github.com/iliyamo/cinema-room-reservation/internal/ticket"
)

// ErrInvalidSeatSelection is returned when the requested seat set is
// empty, contains duplicates, or falls outside the room's grid.
var ErrInvalidSeatSelection = errors.New("invalid seat selection")

// ErrDateOutOfWindow is returned when the requested show date is outside
// the booking window (today through seven days ahead, inclusive).
var ErrDateOutOfWindow = errors.New("date outside booking window")

// SeatConflictError reports that one or more requested seats already
// belong to a committed reservation for the same room and date.  The
// conflicting coordinates are included so the client can re-render
// availability and let the user reselect.
type SeatConflictError struct {
	Seats []model.Seat
}

func (e *SeatConflictError) Error() string {
	labels := make([]string, 0, len(e.Seats))
	for _, s := range e.Seats {
		labels = append(labels, ticket.SeatLabel(s))
	}
	return fmt.Sprintf("seats already reserved: %s", strings.Join(labels, ", "))
}

// PaymentDeclinedError reports that the gateway declined the charge.  No
// reservation state is persisted when this is returned.
type PaymentDeclinedError struct {
	Reason string
}

func (e *PaymentDeclinedError) Error() string {
	if e.Reason == "" {
		return "payment declined"
	}
	return "payment declined: " + e.Reason
}
