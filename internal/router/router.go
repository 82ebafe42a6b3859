package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // import the Echo web framework to handle routing

    "github.com/iliyamo/event-seat-reservation/internal/handler"    // handlers that implement the booking endpoints
    "github.com/iliyamo/event-seat-reservation/internal/middleware" // middleware for JWT authentication and rate limiting
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    // Load balancers and monitoring systems probe this endpoint.
    e.GET("/healthz", handler.Health)
}

// RegisterBooking registers the seat booking endpoints.  The seat
// listing is public so guests can browse availability; the hold,
// release and reserve operations require a valid access token, and the
// two mutating POST routes additionally sit behind the Redis token
// bucket since they absorb on-sale traffic spikes.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
    // Public availability view with the derived HELD overlay.
    e.GET("/v1/events/:event_id/seats", b.ListSeats)

    // Protected routes live under /v1 and require a Bearer token; the
    // user ID in the token is the hold owner and reservation holder.
    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))

    auth.POST("/events/:event_id/seats/:seat_id/hold", b.HoldSeat, limiter)
    auth.DELETE("/events/:event_id/seats/:seat_id/hold", b.ReleaseSeat)
    auth.POST("/events/:event_id/seats/:seat_id/reserve", b.ReserveSeat, limiter)
    auth.GET("/my-reservations", b.ListReservations)
}
