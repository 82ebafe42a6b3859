// Package queue defines message payloads exchanged over the message broker
// and the publisher/consumer pair that moves them.
package queue

// ReservationConfirmedEvent is published when a seat commit succeeds.
// It contains enough information for downstream consumers to log, notify,
// or trigger analytics without querying the primary database.
type ReservationConfirmedEvent struct {
    ReservationID uint64 `json:"reservation_id"`
    UserID        uint64 `json:"user_id"`
    EventID       uint64 `json:"event_id"`
    SeatID        uint64 `json:"seat_id"`
    SeatNumber    string `json:"seat_number"`
    ConfirmedAt   string `json:"confirmed_at"`
}
