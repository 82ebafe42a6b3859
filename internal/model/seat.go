package model

import "time"

// Persisted seat statuses.  Only AVAILABLE and RESERVED are ever written
// to the seats table.  SeatStatusHeld is a derived view: a seat is HELD
// when its row is AVAILABLE and an active hold key exists in Redis.  It
// appears in listing responses but never in the database, which keeps the
// lock and the durable state in their own stores.
const (
    SeatStatusAvailable = "AVAILABLE"
    SeatStatusReserved  = "RESERVED"
    SeatStatusHeld      = "HELD"
)

// Seat describes a single numbered seat in an event.  Seats are uniquely
// identified by their primary key; the (event_id, seat_number) pair is
// unique within an event.  Seats are created by bulk provisioning outside
// this service and mutated only by the reservation committer.
//
// Fields:
//  ID         – primary key identifier.
//  EventID    – event to which this seat belongs.
//  SeatNumber – label of the seat within the event (e.g. "A12").
//  Status     – persisted status (AVAILABLE or RESERVED).
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Seat struct {
    ID         uint64    // seats.id
    EventID    uint64    // seats.event_id
    SeatNumber string    // seats.seat_number
    Status     string    // seats.status
    CreatedAt  time.Time // seats.created_at
    UpdatedAt  time.Time // seats.updated_at
}
