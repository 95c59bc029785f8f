package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-room-reservation/internal/handler"
	"github.com/iliyamo/cinema-room-reservation/internal/middleware"
)

// RegisterAdmin registers the management endpoints under /v1/admin.
// Every route requires a valid JWT with the ADMIN role: room CRUD,
// the global reservation list and account management.
func RegisterAdmin(e *echo.Echo, rooms *handler.RoomHandler, res *handler.ReservationHandler, users *handler.UserAdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	g.POST("/rooms", rooms.Create)
	g.PUT("/rooms/:id", rooms.Update)
	g.DELETE("/rooms/:id", rooms.Delete)

	g.GET("/reservations", res.ListAll)

	g.GET("/users", users.List)
	g.PATCH("/users/:id/active", users.SetActive)
}
