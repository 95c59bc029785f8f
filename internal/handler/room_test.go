package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-room-reservation/internal/repository"
)

func TestHealth(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	err := Health(e.NewContext(req, rec))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestRoomGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM rooms WHERE id").
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "movie_title", "movie_poster_url", "movie_description",
			"seat_rows", "seat_cols", "created_at", "updated_at",
		}).AddRow(1, "Room 1", "Heat", "", "", 5, 6, now, now))

	h := NewRoomHandler(repository.NewRoomRepo(db))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/rooms/:id")
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"total_seats":30`)
	assert.Contains(t, body, `"Heat"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM rooms WHERE id").
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	h := NewRoomHandler(repository.NewRoomRepo(db))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("9")

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoomCreateValidation(t *testing.T) {
	h := NewRoomHandler(repository.NewRoomRepo(nil))

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"movie":{"title":"Heat"},"rows":5,"columns":5}`},
		{"missing movie title", `{"name":"Room 1","rows":5,"columns":5}`},
		{"rows too large", `{"name":"Room 1","movie":{"title":"Heat"},"rows":21,"columns":5}`},
		{"zero columns", `{"name":"Room 1","movie":{"title":"Heat"},"rows":5,"columns":0}`},
	}
	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()

			require.NoError(t, h.Create(e.NewContext(req, rec)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
