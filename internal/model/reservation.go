package model

import "time"

// Reservation records the durable outcome of a successful seat commit.
// Exactly one reservation may ever exist for a seat; the row is created
// inside the same transaction that flips the seat to RESERVED and is
// immutable afterwards.
//
// Fields:
//  ID        – primary key identifier, assigned by the database.
//  SeatID    – seat that has been reserved.
//  UserID    – user who reserved the seat.
//  CreatedAt – creation timestamp.
type Reservation struct {
    ID        uint64    // reservations.id
    SeatID    uint64    // reservations.seat_id
    UserID    uint64    // reservations.user_id
    CreatedAt time.Time // reservations.created_at
}

// Hold describes an active claim on a seat as read back from the hold
// store.  Holds live only in Redis under seat:hold:{eventID}:{seatID};
// this struct is the in-memory view returned to callers after a
// successful acquire.
//
// Fields:
//  EventID   – event of the held seat.
//  SeatID    – seat being held.
//  UserID    – owner of the hold.
//  ExpiresAt – when the hold lapses unless committed or released.
type Hold struct {
    EventID   uint64    // part of the hold key
    SeatID    uint64    // part of the hold key
    UserID    uint64    // hold value
    ExpiresAt time.Time // derived from the key TTL at acquire time
}
