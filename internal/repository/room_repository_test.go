package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-room-reservation/internal/model"
)

func roomRows(r model.Room) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "movie_title", "movie_poster_url", "movie_description",
		"seat_rows", "seat_cols", "created_at", "updated_at",
	}).AddRow(r.ID, r.Name, r.Movie.Title, r.Movie.PosterURL, r.Movie.Description,
		r.SeatRows, r.SeatCols, r.CreatedAt, r.UpdatedAt)
}

func TestRoomRepoGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	want := model.Room{
		ID: 3, Name: "Room 3",
		Movie:    model.Movie{Title: "Heat", Description: "crime drama"},
		SeatRows: 10, SeatCols: 12,
		CreatedAt: now, UpdatedAt: now,
	}
	mock.ExpectQuery("SELECT (.+) FROM rooms WHERE id").
		WithArgs(uint64(3)).
		WillReturnRows(roomRows(want))

	got, err := NewRoomRepo(db).GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, &want, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM rooms WHERE id").
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = NewRoomRepo(db).GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	room := model.Room{
		Name:     "IMAX",
		Movie:    model.Movie{Title: "Dune"},
		SeatRows: 20, SeatCols: 20,
	}
	mock.ExpectExec("INSERT INTO rooms").
		WithArgs(room.Name, room.Movie.Title, room.Movie.PosterURL,
			room.Movie.Description, room.SeatRows, room.SeatCols).
		WillReturnResult(sqlmock.NewResult(5, 1))

	stored := room
	stored.ID = 5
	stored.CreatedAt = now
	stored.UpdatedAt = now
	mock.ExpectQuery("SELECT (.+) FROM rooms WHERE id").
		WithArgs(uint64(5)).
		WillReturnRows(roomRows(stored))

	err = NewRoomRepo(db).Create(context.Background(), &room)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), room.ID)
	assert.Equal(t, now, room.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepoDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM rooms WHERE id").
		WithArgs(uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewRoomRepo(db).Delete(context.Background(), 1)
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepoListAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "name", "movie_title", "movie_poster_url", "movie_description",
		"seat_rows", "seat_cols", "created_at", "updated_at",
	}).
		AddRow(1, "Room 1", "Heat", "", "", 5, 5, now, now).
		AddRow(2, "Room 2", "Dune", "", "", 8, 10, now, now)
	mock.ExpectQuery("SELECT (.+) FROM rooms ORDER BY id").WillReturnRows(rows)

	list, err := NewRoomRepo(db).ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Heat", list[0].Movie.Title)
	assert.Equal(t, uint8(10), list[1].SeatCols)
	assert.NoError(t, mock.ExpectationsWereMet())
}
