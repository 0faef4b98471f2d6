// Package router registers the HTTP routes.  Routes fall into four
// groups: public catalog reads (optionally behind the Redis response
// cache), auth, authenticated customer actions, and the staff/admin
// management surface.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cinetix/cinetix/internal/handler"
	"github.com/cinetix/cinetix/internal/middleware"
	"github.com/cinetix/cinetix/internal/model"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Auth       *handler.AuthHandler
	Booking    *handler.BookingHandler
	Tickets    *handler.TicketHandler
	Movies     *handler.MovieHandler
	Cinemas    *handler.CinemaHandler
	Showtimes  *handler.ShowtimeHandler
	Promotions *handler.PromotionHandler
	Reviews    *handler.ReviewHandler
	Users      *handler.UserAdminHandler
}

// Register mounts all routes on e.  cache may be nil to disable response
// caching on the public catalog; jwtSecret signs and verifies access
// tokens.
func Register(e *echo.Echo, h Handlers, jwtSecret string, cache echo.MiddlewareFunc) {
	e.GET("/api/health", handler.Health)

	registerPublic(e, h, cache)
	registerAuth(e, h)
	registerCustomer(e, h, jwtSecret)
	registerStaff(e, h, jwtSecret)
	registerAdmin(e, h, jwtSecret)
}

// registerPublic mounts the unauthenticated catalog reads.  Showtime
// detail is served uncached: its seat ledger must always be fresh.
func registerPublic(e *echo.Echo, h Handlers, cache echo.MiddlewareFunc) {
	g := e.Group("/api")
	if cache != nil {
		g.Use(cache)
	}
	g.GET("/movies", h.Movies.List)
	g.GET("/movies/:id", h.Movies.Get)
	g.GET("/movies/:id/reviews", h.Reviews.ListByMovie)
	g.GET("/cinemas", h.Cinemas.List)
	g.GET("/cinemas/:id", h.Cinemas.Get)
	g.GET("/cinemas/:id/rooms", h.Cinemas.ListRooms)
	g.GET("/promotions", h.Promotions.List)
	g.GET("/promotions/active", h.Promotions.Active)
	g.GET("/promotions/:id", h.Promotions.Get)
	g.GET("/showtimes", h.Showtimes.List)

	e.GET("/api/showtimes/:id", h.Showtimes.Get)
	e.POST("/api/promotions/validate", h.Promotions.Validate)
}

func registerAuth(e *echo.Echo, h Handlers) {
	g := e.Group("/api/auth")
	g.POST("/register", h.Auth.Register)
	g.POST("/login", h.Auth.Login)
	g.POST("/refresh", h.Auth.Refresh)
	g.POST("/logout", h.Auth.Logout)
}

// registerCustomer mounts endpoints available to any authenticated role.
func registerCustomer(e *echo.Echo, h Handlers, jwtSecret string) {
	g := e.Group("/api")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.GET("/auth/me", h.Auth.Me)
	g.POST("/bookings", h.Booking.Create)
	g.GET("/tickets", h.Tickets.ListMine)
	g.GET("/tickets/:id", h.Tickets.Get)
	g.PUT("/tickets/:id", h.Tickets.Update)
	g.POST("/reviews", h.Reviews.Create)
}

// registerStaff mounts showtime scheduling and the full ticket list for
// staff and admin.
func registerStaff(e *echo.Echo, h Handlers, jwtSecret string) {
	g := e.Group("/api/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleStaff, model.RoleAdmin))
	g.POST("/showtimes", h.Showtimes.Create)
	g.PUT("/showtimes/:id", h.Showtimes.Update)
	g.DELETE("/showtimes/:id", h.Showtimes.Delete)
	g.GET("/tickets", h.Tickets.ListAll)
}

// registerAdmin mounts catalog, promotion and user management.
func registerAdmin(e *echo.Echo, h Handlers, jwtSecret string) {
	g := e.Group("/api/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))
	g.POST("/movies", h.Movies.Create)
	g.PUT("/movies/:id", h.Movies.Update)
	g.DELETE("/movies/:id", h.Movies.Delete)
	g.POST("/cinemas", h.Cinemas.Create)
	g.PUT("/cinemas/:id", h.Cinemas.Update)
	g.DELETE("/cinemas/:id", h.Cinemas.Delete)
	g.POST("/cinemas/:id/rooms", h.Cinemas.CreateRoom)
	g.POST("/promotions", h.Promotions.Create)
	g.PUT("/promotions/:id", h.Promotions.Update)
	g.GET("/users", h.Users.List)
	g.PUT("/users/:id", h.Users.Update)
	g.DELETE("/users/:id", h.Users.Delete)
}
