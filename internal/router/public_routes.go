package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-room-reservation/internal/handler"
)

// RegisterPublic registers the unauthenticated browse endpoints.  The
// room catalog is readable by guests so they can see what is showing
// before registering.  The optional middleware (response cache, rate
// limiter) is applied to this group only; nil entries are skipped.
func RegisterPublic(e *echo.Echo, r *handler.RoomHandler, mws ...echo.MiddlewareFunc) {
	g := e.Group("/v1")
	for _, mw := range mws {
		if mw != nil {
			g.Use(mw)
		}
	}
	g.GET("/rooms", r.List)
	g.GET("/rooms/:id", r.Get)
}
