package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-room-reservation/internal/model"
	"github.com/iliyamo/cinema-room-reservation/internal/repository"
)

// RoomHandler serves the public room catalog and the admin CRUD surface.
type RoomHandler struct {
	Rooms *repository.RoomRepo
}

func NewRoomHandler(rooms *repository.RoomRepo) *RoomHandler {
	return &RoomHandler{Rooms: rooms}
}

const maxGridSide = 20

type roomReq struct {
	Name     string      `json:"name"`
	Movie    model.Movie `json:"movie"`
	SeatRows uint8       `json:"rows"`
	SeatCols uint8       `json:"columns"`
}

type roomResp struct {
	model.Room
	TotalSeats int `json:"total_seats"`
}

func toRoomResp(r model.Room) roomResp {
	return roomResp{Room: r, TotalSeats: r.TotalSeats()}
}

func (req roomReq) validate() string {
	if strings.TrimSpace(req.Name) == "" {
		return "name required"
	}
	if strings.TrimSpace(req.Movie.Title) == "" {
		return "movie title required"
	}
	if req.SeatRows < 1 || req.SeatRows > maxGridSide {
		return "rows must be 1..20"
	}
	if req.SeatCols < 1 || req.SeatCols > maxGridSide {
		return "columns must be 1..20"
	}
	return ""
}

// List returns the full room catalog.
func (h *RoomHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	rooms, err := h.Rooms.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]roomResp, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, toRoomResp(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": out})
}

// Get returns a single room by id.
func (h *RoomHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	room, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toRoomResp(*room))
}

// Create adds a room to the catalog (admin only).
func (h *RoomHandler) Create(c echo.Context) error {
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	room := &model.Room{
		Name:     strings.TrimSpace(req.Name),
		Movie:    req.Movie,
		SeatRows: req.SeatRows,
		SeatCols: req.SeatCols,
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Rooms.Create(ctx, room); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create room failed"})
	}
	return c.JSON(http.StatusCreated, toRoomResp(*room))
}

// Update rewrites a room's name, movie and grid (admin only).  Shrinking
// the grid does not touch existing reservations; seats that fall outside
// the new grid simply stop rendering on the map.
func (h *RoomHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	room := &model.Room{
		ID:       id,
		Name:     strings.TrimSpace(req.Name),
		Movie:    req.Movie,
		SeatRows: req.SeatRows,
		SeatCols: req.SeatCols,
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Rooms.Update(ctx, room); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update room failed"})
	}
	return c.JSON(http.StatusOK, toRoomResp(*room))
}

// Delete removes a room (admin only).  Rooms with committed reservations
// are protected by a foreign key and return 409.
func (h *RoomHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Rooms.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1451 { // FK restrict
			return c.JSON(http.StatusConflict, echo.Map{"error": "room has reservations"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete room failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
