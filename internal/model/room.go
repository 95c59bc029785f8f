package model

import "time"

// Movie holds the film metadata attached to a room.  Every room screens
// exactly one movie; the admin updates the movie in place when the
// programme changes.
type Movie struct {
	Title       string `json:"title"`
	PosterURL   string `json:"poster_url"`
	Description string `json:"description"`
}

// Room represents a cinema auditorium with a fixed seat grid.  The grid
// dimensions are bounded to 1..20 in each direction.  TotalSeats and the
// per-date availability are derived values and are never stored, so the
// stored row can not drift from the reservation data.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the room.
//  Movie     – the movie currently showing in this room.
//  SeatRows  – number of seat rows (1..20).
//  SeatCols  – number of seats per row (1..20).
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Room struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Movie     Movie     `json:"movie"`
	SeatRows  uint8     `json:"rows"`
	SeatCols  uint8     `json:"columns"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TotalSeats returns the size of the room's grid.
func (r Room) TotalSeats() int { return int(r.SeatRows) * int(r.SeatCols) }

// Contains reports whether the seat coordinate lies inside the room's grid.
func (r Room) Contains(s Seat) bool {
	return s.Row < r.SeatRows && s.Col < r.SeatCols
}
