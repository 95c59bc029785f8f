package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/cinema-room-reservation/internal/model"
)

// ReservationRepo persists committed reservations.  A reservation spans
// two tables: `reservations` holds the header and `reservation_seats`
// holds one row per seat.  The seat table carries a UNIQUE key on
// (room_id, show_date, seat_row, seat_col) which is the storage-level
// double-booking guard: a racing insert for a taken seat fails with
// MySQL error 1062 and the whole transaction rolls back, so a
// reservation is never partially written.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given
// database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const dateLayout = "2006-01-02"

// mysqlDuplicateEntry is the server error number for a unique key
// violation.
const mysqlDuplicateEntry = 1062

func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// Create inserts the reservation header and all its seats in one
// transaction and populates the generated ID and creation timestamp on
// the passed record.  When any seat is already taken for the same room
// and date it returns ErrDuplicateSeat and leaves no rows behind.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const qHeader = `INSERT INTO reservations (room_id, user_id, show_date, total_amount_cents, payment_ref)
	                 VALUES (?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, qHeader, res.RoomID, res.UserID, res.ShowDate,
		res.TotalAmountCents, res.PaymentRef)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)

	query := `INSERT INTO reservation_seats (reservation_id, room_id, show_date, seat_row, seat_col) VALUES `
	args := make([]any, 0, len(res.Seats)*5)
	for i, s := range res.Seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, res.ID, res.RoomID, res.ShowDate, s.Row, s.Col)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isDuplicateEntry(err) {
			return ErrDuplicateSeat
		}
		return err
	}

	// query back the DB-assigned creation timestamp
	var createdAt time.Time
	if err := tx.QueryRowContext(ctx,
		"SELECT created_at FROM reservations WHERE id = ?", res.ID).Scan(&createdAt); err != nil {
		return err
	}
	res.CreatedAt = createdAt

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID loads a reservation and its seats.  Seats are returned in
// insertion order so the ticket payload stays stable across reads.  It
// returns ErrReservationNotFound when the id does not resolve.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT id, room_id, user_id, show_date, total_amount_cents, payment_ref, created_at
	           FROM reservations WHERE id = ?`
	var (
		res      model.Reservation
		showDate time.Time
		payRef   sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(&res.ID, &res.RoomID, &res.UserID,
		&showDate, &res.TotalAmountCents, &payRef, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	res.ShowDate = showDate.Format(dateLayout)
	if payRef.Valid {
		res.PaymentRef = payRef.String
	}
	seats, err := r.seatsForReservation(ctx, res.ID)
	if err != nil {
		return nil, err
	}
	res.Seats = seats
	return &res, nil
}

func (r *ReservationRepo) seatsForReservation(ctx context.Context, resID uint64) ([]model.Seat, error) {
	const q = `SELECT seat_row, seat_col FROM reservation_seats WHERE reservation_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, resID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.Row, &s.Col); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

// ListByUser returns all reservations for a user, newest first, each
// with its seats populated.  Seats for all returned reservations are
// loaded in a single query.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	const q = `SELECT id, room_id, user_id, show_date, total_amount_cents, payment_ref, created_at
	           FROM reservations WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	return r.list(ctx, q, userID)
}

// ListAll returns every reservation, newest first.  Used by the admin
// listing endpoint.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]model.Reservation, error) {
	const q = `SELECT id, room_id, user_id, show_date, total_amount_cents, payment_ref, created_at
	           FROM reservations ORDER BY created_at DESC, id DESC`
	return r.list(ctx, q)
}

func (r *ReservationRepo) list(ctx context.Context, query string, args ...any) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Reservation, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var (
			res      model.Reservation
			showDate time.Time
			payRef   sql.NullString
		)
		if err := rows.Scan(&res.ID, &res.RoomID, &res.UserID, &showDate,
			&res.TotalAmountCents, &payRef, &res.CreatedAt); err != nil {
			return nil, err
		}
		res.ShowDate = showDate.Format(dateLayout)
		if payRef.Valid {
			res.PaymentRef = payRef.String
		}
		res.Seats = []model.Seat{}
		index[res.ID] = len(out)
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	// fetch seats for all reservations in one query
	ids := make([]any, 0, len(out))
	placeholders := make([]string, 0, len(out))
	for _, res := range out {
		ids = append(ids, res.ID)
		placeholders = append(placeholders, "?")
	}
	seatQ := `SELECT reservation_id, seat_row, seat_col FROM reservation_seats
	          WHERE reservation_id IN (` + strings.Join(placeholders, ",") + `) ORDER BY reservation_id, id`
	srows, err := r.db.QueryContext(ctx, seatQ, ids...)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var (
			resID uint64
			seat  model.Seat
		)
		if err := srows.Scan(&resID, &seat.Row, &seat.Col); err != nil {
			return nil, err
		}
		if i, ok := index[resID]; ok {
			out[i].Seats = append(out[i].Seats, seat)
		}
	}
	return out, srows.Err()
}

// SeatsForDate returns every committed seat coordinate for a room and
// date.  The seat map engine subtracts these from the full grid.
func (r *ReservationRepo) SeatsForDate(ctx context.Context, roomID uint64, date string) ([]model.Seat, error) {
	const q = `SELECT seat_row, seat_col FROM reservation_seats WHERE room_id = ? AND show_date = ?`
	rows, err := r.db.QueryContext(ctx, q, roomID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.Row, &s.Col); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

// TakenAmong returns the subset of the given seats that already belong
// to a committed reservation for the room and date.  The booking
// service calls it for the pre-payment availability check and again to
// name the conflicting coordinates after a lost race.
func (r *ReservationRepo) TakenAmong(ctx context.Context, roomID uint64, date string, seats []model.Seat) ([]model.Seat, error) {
	if len(seats) == 0 {
		return []model.Seat{}, nil
	}
	query := `SELECT seat_row, seat_col FROM reservation_seats
	          WHERE room_id = ? AND show_date = ? AND (seat_row, seat_col) IN (`
	args := make([]any, 0, 2+len(seats)*2)
	args = append(args, roomID, date)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, s.Row, s.Col)
	}
	query += ")"
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	taken := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.Row, &s.Col); err != nil {
			return nil, err
		}
		taken = append(taken, s)
	}
	return taken, rows.Err()
}
