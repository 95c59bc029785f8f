package ticket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-room-reservation/internal/model"
)

func TestSeatLabel(t *testing.T) {
	assert.Equal(t, "A1", SeatLabel(model.Seat{Row: 0, Col: 0}))
	assert.Equal(t, "B10", SeatLabel(model.Seat{Row: 1, Col: 9}))
	assert.Equal(t, "T20", SeatLabel(model.Seat{Row: 19, Col: 19}))
}

func TestParseSeatLabel(t *testing.T) {
	s, err := ParseSeatLabel("A1")
	require.NoError(t, err)
	assert.Equal(t, model.Seat{Row: 0, Col: 0}, s)

	s, err = ParseSeatLabel("B10")
	require.NoError(t, err)
	assert.Equal(t, model.Seat{Row: 1, Col: 9}, s)

	for _, bad := range []string{"", "A", "a1", "U1", "A0", "A21", "Axy"} {
		_, err := ParseSeatLabel(bad)
		assert.Error(t, err, "label %q should not parse", bad)
	}
}

// Labels must round-trip for every coordinate in the maximum 20x20 grid.
func TestSeatLabelRoundTrip(t *testing.T) {
	for row := uint8(0); row < 20; row++ {
		for col := uint8(0); col < 20; col++ {
			seat := model.Seat{Row: row, Col: col}
			parsed, err := ParseSeatLabel(SeatLabel(seat))
			require.NoError(t, err)
			assert.Equal(t, seat, parsed)
		}
	}
}

func TestBuildPayload(t *testing.T) {
	res := &model.Reservation{
		ID:       42,
		RoomID:   7,
		UserID:   3,
		ShowDate: "2025-06-01",
		Seats:    []model.Seat{{Row: 0, Col: 0}, {Row: 0, Col: 1}},
		CreatedAt: time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC),
	}
	p := BuildPayload(res)
	assert.Equal(t, uint64(42), p.ReservationID)
	assert.Equal(t, uint64(7), p.RoomID)
	assert.Equal(t, "2025-06-01", p.Date)
	assert.Equal(t, []string{"A1", "A2"}, p.Seats)

	// deterministic: building twice yields the same payload
	assert.Equal(t, p, BuildPayload(res))
}
