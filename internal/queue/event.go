// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published when a reservation commits.
// It carries enough denormalized context for downstream consumers to
// log or notify without querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID    uint64   `json:"reservation_id"`
	UserID           uint64   `json:"user_id"`
	RoomID           uint64   `json:"room_id"`
	RoomName         string   `json:"room_name"`
	MovieTitle       string   `json:"movie_title"`
	ShowDate         string   `json:"show_date"`
	SeatLabels       []string `json:"seats"`
	TotalAmountCents uint32   `json:"total_amount_cents"`
	ConfirmedAt      string   `json:"confirmed_at"`
}
