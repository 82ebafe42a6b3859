// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios without inspecting driver errors. For example,
// ErrSeatNotFound indicates that a seat does not exist in the
// requested event, while ErrSeatConflict signals that a write cannot
// proceed because of existing dependent records (e.g. a duplicate
// reservation row for a seat).
package repository

import "errors"

// ErrSeatNotFound is returned when a seat lookup matches no row for
// the given event. Services translate this into their own
// seat-not-found error so handlers can respond with HTTP 404.
var ErrSeatNotFound = errors.New("seat not found")

// ErrSeatConflict is returned when an insert or update cannot be
// performed because of conflicting state, such as a second
// reservation row for an already reserved seat hitting the unique
// constraint. Handlers should translate this into an HTTP 409
// response.
var ErrSeatConflict = errors.New("seat conflict")
