// Package ticket derives the verifiable ticket payload for a committed
// reservation.  The payload is what the external QR renderer encodes; its
// field set is a contract with scanners and back-office tooling, so
// changing it is a breaking change.
package ticket

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/iliyamo/cinema-room-reservation/internal/model"
)

// Payload is the serializable ticket content for one reservation.  Seats
// are rendered as display labels ("A1", "B10") rather than raw
// coordinates so a scanner can show them without knowing the grid.
type Payload struct {
	ReservationID uint64   `json:"reservation_id"`
	RoomID        uint64   `json:"room_id"`
	Date          string   `json:"date"`
	Seats         []string `json:"seats"`
}

// BuildPayload assembles the ticket payload from a committed reservation.
// It is pure and deterministic: the same reservation always yields the
// same payload, with seat labels in the reservation's seat order.
func BuildPayload(res *model.Reservation) Payload {
	labels := make([]string, 0, len(res.Seats))
	for _, s := range res.Seats {
		labels = append(labels, SeatLabel(s))
	}
	return Payload{
		ReservationID: res.ID,
		RoomID:        res.RoomID,
		Date:          res.ShowDate,
		Seats:         labels,
	}
}

// SeatLabel converts a zero-based seat coordinate to its display label:
// row 0 is "A", column 0 is "1", so (0,0) -> "A1" and (1,9) -> "B10".
func SeatLabel(s model.Seat) string {
	return fmt.Sprintf("%c%d", 'A'+rune(s.Row), int(s.Col)+1)
}

// ParseSeatLabel is the inverse of SeatLabel.  It accepts labels in the
// form produced by SeatLabel ("A1".."T20") and returns the zero-based
// coordinate.  Used by back-office tooling that scans tickets.
func ParseSeatLabel(label string) (model.Seat, error) {
	if len(label) < 2 {
		return model.Seat{}, errors.New("seat label too short")
	}
	row := label[0]
	if row < 'A' || row > 'T' {
		return model.Seat{}, fmt.Errorf("invalid row letter %q", string(row))
	}
	col, err := strconv.Atoi(label[1:])
	if err != nil || col < 1 || col > 20 {
		return model.Seat{}, fmt.Errorf("invalid column in label %q", label)
	}
	return model.Seat{Row: row - 'A', Col: uint8(col - 1)}, nil
}
