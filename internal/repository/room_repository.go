package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cinema-room-reservation/internal/model"
)

// RoomRepo encapsulates all database queries related to cinema rooms.
// The reservation core reads rooms through booking.RoomCatalog, which
// this type satisfies; admin handlers use the full CRUD surface.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the provided DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

const roomColumns = "id, name, movie_title, movie_poster_url, movie_description, seat_rows, seat_cols, created_at, updated_at"

func scanRoom(row interface{ Scan(...any) error }) (*model.Room, error) {
	var r model.Room
	err := row.Scan(&r.ID, &r.Name, &r.Movie.Title, &r.Movie.PosterURL,
		&r.Movie.Description, &r.SeatRows, &r.SeatCols, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserts a new room.  On success the ID, CreatedAt and UpdatedAt
// fields are populated from the stored row.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
	const qInsert = `INSERT INTO rooms (name, movie_title, movie_poster_url, movie_description, seat_rows, seat_cols)
	                 VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, room.Name, room.Movie.Title,
		room.Movie.PosterURL, room.Movie.Description, room.SeatRows, room.SeatCols)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)
	// follow-up SELECT populates the DB-defaulted timestamps
	stored, err := r.GetByID(ctx, room.ID)
	if err != nil {
		return err
	}
	*room = *stored
	return nil
}

// GetByID fetches a room by id.  It returns ErrRoomNotFound when no row
// exists.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = "SELECT " + roomColumns + " FROM rooms WHERE id = ?"
	room, err := scanRoom(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

// ListAll returns every room ordered by id.
func (r *RoomRepo) ListAll(ctx context.Context) ([]model.Room, error) {
	const q = "SELECT " + roomColumns + " FROM rooms ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites a room's name, movie and grid dimensions.  It returns
// ErrRoomNotFound when the id does not exist.
func (r *RoomRepo) Update(ctx context.Context, room *model.Room) error {
	const q = `UPDATE rooms SET name = ?, movie_title = ?, movie_poster_url = ?,
	           movie_description = ?, seat_rows = ?, seat_cols = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, room.Name, room.Movie.Title, room.Movie.PosterURL,
		room.Movie.Description, room.SeatRows, room.SeatCols, room.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// either absent or unchanged; distinguish with a lookup
		if _, err := r.GetByID(ctx, room.ID); err != nil {
			return err
		}
	}
	stored, err := r.GetByID(ctx, room.ID)
	if err != nil {
		return err
	}
	*room = *stored
	return nil
}

// Delete removes a room.  Reservations reference rooms with ON DELETE
// RESTRICT, so a room with committed reservations cannot be removed; the
// database error is propagated for the handler to translate.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM rooms WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRoomNotFound
	}
	return nil
}
