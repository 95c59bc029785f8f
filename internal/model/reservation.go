package model

import "time"

// Reservation is a committed purchase of a seat set for one room on one
// show date.  Reservations are immutable once created: they exist only as
// the atomic outcome of a successful reservation transaction, are never
// partially written, and carry the payment reference returned by the
// gateway.  ShowDate is a calendar date ("2006-01-02"); there is one
// showing per room per date.
//
// Fields:
//  ID               – primary key identifier.
//  RoomID           – room the seats belong to.
//  UserID           – user who made the reservation.
//  ShowDate         – calendar date of the showing, no time-of-day.
//  Seats            – the purchased seat coordinates, in request order.
//  TotalAmountCents – total charged for all seats.
//  PaymentRef       – reference returned by the payment gateway.
//  CreatedAt        – commit timestamp (UTC).
type Reservation struct {
	ID               uint64    `json:"id"`
	RoomID           uint64    `json:"room_id"`
	UserID           uint64    `json:"user_id"`
	ShowDate         string    `json:"date"`
	Seats            []Seat    `json:"seats"`
	TotalAmountCents uint32    `json:"total_amount_cents"`
	PaymentRef       string    `json:"payment_ref,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
