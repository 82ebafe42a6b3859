package handler

import (
    "context"
    "errors"
    "log"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-seat-reservation/internal/model"
    "github.com/iliyamo/event-seat-reservation/internal/queue"
    "github.com/iliyamo/event-seat-reservation/internal/repository"
    "github.com/iliyamo/event-seat-reservation/internal/service"
)

// HoldService is the hold manager surface the handlers call.
type HoldService interface {
    Acquire(ctx context.Context, eventID, seatID, userID uint64) (*model.Hold, error)
    Release(ctx context.Context, eventID, seatID uint64) error
    HeldSeats(ctx context.Context, eventID uint64, seatIDs []uint64) (map[uint64]bool, error)
}

// CommitService is the reservation committer surface the handlers call.
type CommitService interface {
    Commit(ctx context.Context, eventID, seatID, userID uint64) (*model.Reservation, error)
}

// SeatStore is the read-only seat access the handlers need for listing
// and for enriching the confirmation event with the seat number.
type SeatStore interface {
    GetByEvent(ctx context.Context, eventID, seatID uint64) (*model.Seat, error)
    ListByEvent(ctx context.Context, eventID uint64) ([]model.Seat, error)
}

// ReservationStore is the read-only reservation access for listing.
type ReservationStore interface {
    ListByUser(ctx context.Context, userID uint64) ([]repository.ReservationDetail, error)
}

// BookingHandler is the thin caller in front of the booking core.  It
// parses identifiers, invokes the hold manager and the reservation
// committer, and translates their error kinds to HTTP status codes.
// All methods assume JWT authentication has already populated the
// context; only the seat listing is public.
type BookingHandler struct {
    Holds        HoldService
    Committer    CommitService
    Seats        SeatStore
    Reservations ReservationStore

    // Publish emits the confirmation event after a commit.  Overridable
    // so tests do not need a broker.
    Publish func(ctx context.Context, ev queue.ReservationConfirmedEvent) error
}

// NewBookingHandler constructs a BookingHandler with the provided
// collaborators.  All dependencies must be non-nil.
func NewBookingHandler(holds HoldService, committer CommitService, seats SeatStore, reservations ReservationStore) *BookingHandler {
    if holds == nil || committer == nil || seats == nil || reservations == nil {
        panic("nil dependency passed to NewBookingHandler")
    }
    return &BookingHandler{
        Holds:        holds,
        Committer:    committer,
        Seats:        seats,
        Reservations: reservations,
        Publish:      queue.PublishReservationConfirmed,
    }
}

// HoldSeat handles POST /v1/events/:event_id/seats/:seat_id/hold.  It
// claims the seat for the caller for the hold TTL and returns 201 with
// the expiry timestamp.  Conflicts (seat held or already reserved)
// yield 409, an unknown seat 404.
func (h *BookingHandler) HoldSeat(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    eventID, ok := pathID(c, "event_id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    seatID, ok := pathID(c, "seat_id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
    }
    hold, err := h.Holds.Acquire(c.Request().Context(), eventID, seatID, userID)
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "expires_at": hold.ExpiresAt.Format(time.RFC3339),
    })
}

// ReleaseSeat handles DELETE /v1/events/:event_id/seats/:seat_id/hold.
// Release is unconditional and idempotent, so an absent hold still
// yields 204.
func (h *BookingHandler) ReleaseSeat(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    eventID, ok := pathID(c, "event_id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    seatID, ok := pathID(c, "seat_id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
    }
    if err := h.Holds.Release(c.Request().Context(), eventID, seatID); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release hold"})
    }
    return c.NoContent(http.StatusNoContent)
}

// ReserveSeat handles POST /v1/events/:event_id/seats/:seat_id/reserve.
// It converts the caller's hold into a durable reservation and returns
// 201 with the created record.  A lapsed or foreign hold yields 409,
// a lost commit race 409, an unknown seat 404, a storage fault 500.
// On success a confirmation event is published to the broker; publish
// failures are logged and never affect the response.
func (h *BookingHandler) ReserveSeat(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    eventID, ok := pathID(c, "event_id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    seatID, ok := pathID(c, "seat_id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
    }
    ctx := c.Request().Context()
    res, err := h.Committer.Commit(ctx, eventID, seatID, userID)
    if err != nil {
        return bookingError(c, err)
    }

    go h.publishConfirmed(eventID, res)

    return c.JSON(http.StatusCreated, echo.Map{
        "reservation": echo.Map{
            "id":         res.ID,
            "seat_id":    res.SeatID,
            "user_id":    res.UserID,
            "created_at": res.CreatedAt.UTC().Format(time.RFC3339),
        },
    })
}

// publishConfirmed emits the reservation.confirmed event for a committed
// reservation.  It runs off the request path with its own timeout.
func (h *BookingHandler) publishConfirmed(eventID uint64, res *model.Reservation) {
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    seatNumber := ""
    if seat, err := h.Seats.GetByEvent(ctx, eventID, res.SeatID); err == nil {
        seatNumber = seat.SeatNumber
    }
    ev := queue.ReservationConfirmedEvent{
        ReservationID: res.ID,
        UserID:        res.UserID,
        EventID:       eventID,
        SeatID:        res.SeatID,
        SeatNumber:    seatNumber,
        ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
    }
    if err := h.Publish(ctx, ev); err != nil {
        log.Printf("publish reservation.confirmed failed for reservation=%d: %v", res.ID, err)
    }
}

// ListSeats handles GET /v1/events/:event_id/seats.  It returns every
// seat of the event with a derived status: RESERVED from the row,
// otherwise HELD when an active hold key exists, otherwise AVAILABLE.
// HELD is never persisted; the overlay costs one bulk read against the
// hold store.  The route is public so guests can browse availability.
func (h *BookingHandler) ListSeats(c echo.Context) error {
    eventID, ok := pathID(c, "event_id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    ctx := c.Request().Context()
    seats, err := h.Seats.ListByEvent(ctx, eventID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seats"})
    }
    available := make([]uint64, 0, len(seats))
    for _, s := range seats {
        if s.Status == model.SeatStatusAvailable {
            available = append(available, s.ID)
        }
    }
    held, err := h.Holds.HeldSeats(ctx, eventID, available)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load holds"})
    }
    type seatView struct {
        ID         uint64 `json:"id"`
        SeatNumber string `json:"seat_number"`
        Status     string `json:"status"`
    }
    items := make([]seatView, 0, len(seats))
    for _, s := range seats {
        status := s.Status
        if status == model.SeatStatusAvailable && held[s.ID] {
            status = model.SeatStatusHeld
        }
        items = append(items, seatView{ID: s.ID, SeatNumber: s.SeatNumber, Status: status})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListReservations handles GET /v1/my-reservations.  It returns all
// reservations created by the current user with seat and event details.
func (h *BookingHandler) ListReservations(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    details, err := h.Reservations.ListByUser(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// bookingError maps the core's error kinds to HTTP responses: unknown
// seat 404; hold or commit conflicts 409; anything else, including
// ErrCommitFailed, 500.
func bookingError(c echo.Context, err error) error {
    switch {
    case errors.Is(err, service.ErrSeatNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
    case errors.Is(err, service.ErrSeatUnavailable):
        return c.JSON(http.StatusConflict, echo.Map{"error": "seat already reserved"})
    case errors.Is(err, service.ErrAlreadyHeld):
        return c.JSON(http.StatusConflict, echo.Map{"error": "seat is held by another user"})
    case errors.Is(err, service.ErrHoldMissingOrExpired):
        return c.JSON(http.StatusConflict, echo.Map{"error": "hold missing or expired"})
    case errors.Is(err, service.ErrSeatAlreadyReserved):
        return c.JSON(http.StatusConflict, echo.Map{"error": "seat already reserved"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
}
