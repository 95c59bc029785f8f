package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-room-reservation/internal/handler"
	"github.com/iliyamo/cinema-room-reservation/internal/middleware"
)

// RegisterCustomer registers the booking endpoints under /v1.  All
// routes require a valid JWT; both roles are accepted so an admin can
// exercise the customer surface too.  Customers can view per-date seat
// maps, create reservations, list their own reservations and fetch
// ticket payloads.
func RegisterCustomer(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER", "ADMIN"),
	)
	g.GET("/rooms/:id/seats/:date", h.SeatMap)
	g.POST("/reservations", h.Create)
	g.GET("/my-reservations", h.ListMine)
	g.GET("/reservations/:id", h.Get)
	g.GET("/reservations/:id/ticket", h.Ticket)
}
