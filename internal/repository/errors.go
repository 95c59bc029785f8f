// Package repository contains data access logic separated from HTTP
// handlers and the booking core.  This file defines the sentinel errors
// shared across repositories so higher layers can distinguish failure
// scenarios with errors.Is.
package repository

import "errors"

// ErrRoomNotFound is returned when a room id does not resolve.
var ErrRoomNotFound = errors.New("room not found")

// ErrReservationNotFound is returned when a reservation id does not
// resolve.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrDuplicateSeat is returned when inserting reservation seats trips the
// uniqueness constraint on (room_id, show_date, seat_row, seat_col); it
// means another reservation committed one of the seats first.  The
// booking service translates it into a seat conflict naming the taken
// coordinates.
var ErrDuplicateSeat = errors.New("seat already reserved")

// ErrEmailExists is returned when registering a user with an email that
// is already taken.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when a user id or email does not resolve.
var ErrUserNotFound = errors.New("user not found")
