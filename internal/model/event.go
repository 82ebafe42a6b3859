package model

import "time"

// Event represents a bookable happening (concert, screening, talk) for
// which numbered seats are sold.  Events are provisioned outside this
// service; the booking core only reads them to scope seat lookups.
//
// Fields:
//  ID        – primary key identifier.
//  Title     – human readable name of the event.
//  StartsAt  – when the event begins.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Event struct {
    ID        uint64    // events.id
    Title     string    // events.title
    StartsAt  time.Time // events.starts_at
    CreatedAt time.Time // events.created_at
    UpdatedAt time.Time // events.updated_at
}
