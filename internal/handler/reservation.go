package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-room-reservation/internal/booking"
	"github.com/iliyamo/cinema-room-reservation/internal/model"
	"github.com/iliyamo/cinema-room-reservation/internal/payment"
	"github.com/iliyamo/cinema-room-reservation/internal/queue"
	"github.com/iliyamo/cinema-room-reservation/internal/repository"
	queue_publisher "github.com/iliyamo/cinema-room-reservation/internal/service"
	"github.com/iliyamo/cinema-room-reservation/internal/ticket"
)

// ReservationHandler wires the reservation core to the HTTP surface: the
// per-date seat map, reservation creation with its full error mapping,
// reservation reads and the ticket payload.
type ReservationHandler struct {
	Core  *booking.Service
	Rooms *repository.RoomRepo
	Store *repository.ReservationRepo
}

func NewReservationHandler(core *booking.Service, rooms *repository.RoomRepo, store *repository.ReservationRepo) *ReservationHandler {
	return &ReservationHandler{Core: core, Rooms: rooms, Store: store}
}

// ----- DTOs -----

type createReservationReq struct {
	RoomID uint64       `json:"room_id"`
	Date   string       `json:"date"`
	Seats  []model.Seat `json:"seats"`
	Card   payment.Card `json:"card"`
}

type seatCell struct {
	Row    uint8  `json:"row"`
	Col    uint8  `json:"column"`
	Status string `json:"status"`
}

type seatMapResp struct {
	RoomID    uint64     `json:"room_id"`
	Date      string     `json:"date"`
	Rows      uint8      `json:"rows"`
	Cols      uint8      `json:"columns"`
	Available int        `json:"available"`
	Seats     []seatCell `json:"seats"`
}

type reservationResp struct {
	model.Reservation
	SeatLabels []string `json:"seat_labels"`
}

func toReservationResp(r model.Reservation) reservationResp {
	labels := make([]string, 0, len(r.Seats))
	for _, s := range r.Seats {
		labels = append(labels, ticket.SeatLabel(s))
	}
	return reservationResp{Reservation: r, SeatLabels: labels}
}

// SeatMap returns the availability grid for a room on a date.  The grid
// is flattened row-major so clients can render it without nested-array
// handling.  Dates outside the booking window are rejected here; the
// engine itself computes whatever date it is given.
func (h *ReservationHandler) SeatMap(c echo.Context) error {
	roomID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	date := c.Param("date")
	if err := h.Core.CheckWindow(date); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Core.SeatMap(ctx, roomID, date)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		case errors.Is(err, booking.ErrInvalidSeatSelection):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, want YYYY-MM-DD"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
	}

	cells := make([]seatCell, 0, int(m.Rows)*int(m.Cols))
	for row := uint8(0); row < m.Rows; row++ {
		for col := uint8(0); col < m.Cols; col++ {
			cells = append(cells, seatCell{Row: row, Col: col, Status: string(m.Grid[row][col])})
		}
	}
	return c.JSON(http.StatusOK, seatMapResp{
		RoomID:    m.RoomID,
		Date:      m.Date,
		Rows:      m.Rows,
		Cols:      m.Cols,
		Available: m.Available(),
		Seats:     cells,
	})
}

// Create books a seat set for the authenticated user.  Each precondition
// failure maps to its own status code so clients can react precisely:
// 404 unknown room, 400 bad selection, 422 date outside the window,
// 409 seat conflict (naming the taken seats), 402 declined payment.
func (h *ReservationHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	res, err := h.Core.CreateReservation(ctx, req.RoomID, uid, req.Date, req.Seats, req.Card)
	if err != nil {
		var conflict *booking.SeatConflictError
		var declined *booking.PaymentDeclinedError
		switch {
		case errors.Is(err, repository.ErrRoomNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		case errors.Is(err, booking.ErrInvalidSeatSelection):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, booking.ErrDateOutOfWindow):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
		case errors.As(err, &conflict):
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "seats already reserved",
				"seats": conflict.Seats,
			})
		case errors.As(err, &declined):
			return c.JSON(http.StatusPaymentRequired, echo.Map{"error": declined.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reservation failed"})
		}
	}

	h.publishConfirmed(res)

	return c.JSON(http.StatusCreated, toReservationResp(*res))
}

// publishConfirmed emits the reservation.confirmed event in the
// background.  The reservation is already committed; a broker outage
// must not surface to the client.
func (h *ReservationHandler) publishConfirmed(res *model.Reservation) {
	labels := make([]string, 0, len(res.Seats))
	for _, s := range res.Seats {
		labels = append(labels, ticket.SeatLabel(s))
	}
	ev := queue.ReservationConfirmedEvent{
		ReservationID:    res.ID,
		UserID:           res.UserID,
		RoomID:           res.RoomID,
		ShowDate:         res.ShowDate,
		SeatLabels:       labels,
		TotalAmountCents: res.TotalAmountCents,
		ConfirmedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if room, err := h.Rooms.GetByID(ctx, res.RoomID); err == nil {
			ev.RoomName = room.Name
			ev.MovieTitle = room.Movie.Title
		}
		_ = queue_publisher.PublishReservationConfirmed(ctx, ev)
	}()
}

// ListMine returns the authenticated user's reservations, newest first.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	list, err := h.Core.ReservationsByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]reservationResp, 0, len(list))
	for _, r := range list {
		out = append(out, toReservationResp(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}

// Get returns one reservation.  Customers can only read their own;
// admins can read any.
func (h *ReservationHandler) Get(c echo.Context) error {
	res, ok := h.loadOwned(c)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, toReservationResp(*res))
}

// Ticket returns the payload the external QR renderer encodes for a
// reservation.  Same ownership rules as Get.
func (h *ReservationHandler) Ticket(c echo.Context) error {
	res, ok := h.loadOwned(c)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, ticket.BuildPayload(res))
}

// ListAll returns every reservation in the system (admin only).
func (h *ReservationHandler) ListAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	list, err := h.Store.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]reservationResp, 0, len(list))
	for _, r := range list {
		out = append(out, toReservationResp(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}

// loadOwned fetches the :id reservation and enforces ownership.  When it
// returns false the HTTP response has already been written.
func (h *ReservationHandler) loadOwned(c echo.Context) (*model.Reservation, bool) {
	uid, err := getUserID(c)
	if err != nil {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		return nil, false
	}
	id, err := pathID(c, "id")
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
		return nil, false
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	res, err := h.Core.Reservation(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return nil, false
	}
	if res.UserID != uid && !isAdmin(c) {
		// hide existence from other customers
		_ = c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		return nil, false
	}
	return res, true
}
