package booking

import "github.com/iliyamo/cinema-room-reservation/internal/model"

// SeatState is the availability of one grid cell on a given date.
type SeatState string

const (
	SeatAvailable SeatState = "available"
	SeatReserved  SeatState = "reserved"
)

// SeatMap is the derived availability of every seat in a room for one
// show date.  Grid is indexed [row][col].  It is recomputed on every
// read from the room's dimensions and the committed reservations; no
// availability state is stored separately, so it can never drift.
type SeatMap struct {
	RoomID uint64
	Date   string
	Rows   uint8
	Cols   uint8
	Grid   [][]SeatState
}

// BuildSeatMap derives the availability grid for a room.  Every cell
// starts available and each reserved coordinate is marked.  Stored
// coordinates outside the grid are skipped: they indicate an upstream
// data-integrity bug (a room shrunk after reservations were taken) and
// must not break reads.
func BuildSeatMap(rows, cols uint8, reserved []model.Seat) [][]SeatState {
	grid := make([][]SeatState, rows)
	for r := range grid {
		row := make([]SeatState, cols)
		for c := range row {
			row[c] = SeatAvailable
		}
		grid[r] = row
	}
	for _, s := range reserved {
		if s.Row >= rows || s.Col >= cols {
			continue
		}
		grid[s.Row][s.Col] = SeatReserved
	}
	return grid
}

// Available counts the seats still available in the map.
func (m *SeatMap) Available() int {
	n := 0
	for _, row := range m.Grid {
		for _, st := range row {
			if st == SeatAvailable {
				n++
			}
		}
	}
	return n
}

// State returns the availability of a single coordinate, or SeatReserved
// for coordinates outside the grid so callers can never book them.
func (m *SeatMap) State(s model.Seat) SeatState {
	if s.Row >= m.Rows || s.Col >= m.Cols {
		return SeatReserved
	}
	return m.Grid[s.Row][s.Col]
}
