package model

// Seat is a coordinate inside a room's grid.  A seat has no identity of
// its own: the same coordinate is independently bookable on every show
// date, so availability is always scoped to a (room, date) pair.  Both
// components are zero-based; the display label ("A1", "B10", ...) is
// derived by the ticket package.
type Seat struct {
	Row uint8 `json:"row"`
	Col uint8 `json:"column"`
}
