// Package service implements the seat booking core: the hold manager,
// which owns short-lived exclusive claims on seats, and the reservation
// committer, which turns a verified claim into a durable reservation.
// Both components are stateless; all coordination lives in the two
// backing stores, so any number of request handlers may call them
// concurrently.  Expected failures are reported through the sentinel
// errors below so handlers can branch with errors.Is and map each kind
// to an HTTP status without inspecting store errors.
package service

import "errors"

// ErrSeatNotFound is returned when the requested seat does not exist in
// the given event. Handlers translate this into HTTP 404.
var ErrSeatNotFound = errors.New("seat not found")

// ErrSeatUnavailable is returned by Acquire when the seat's persisted
// status is already RESERVED. The condition is permanent for that seat;
// handlers respond with HTTP 409.
var ErrSeatUnavailable = errors.New("seat unavailable")

// ErrAlreadyHeld is returned by Acquire when another user currently
// holds the seat. The caller may retry after the hold's TTL elapses.
// Handlers respond with HTTP 409.
var ErrAlreadyHeld = errors.New("seat already held")

// ErrHoldMissingOrExpired is returned by Commit when the caller has no
// valid hold on the seat: it was never acquired, it expired, or it is
// owned by someone else. All three are the same recoverable condition;
// the caller should re-acquire and retry. Handlers respond with HTTP 409.
var ErrHoldMissingOrExpired = errors.New("hold missing or expired")

// ErrSeatAlreadyReserved is returned by Commit when the commit-time
// status check finds the seat no longer AVAILABLE. This is the
// authoritative duplicate-booking guard; the condition is permanent for
// that seat. Handlers respond with HTTP 409.
var ErrSeatAlreadyReserved = errors.New("seat already reserved")

// ErrCommitFailed wraps unexpected storage faults during Commit. The
// transaction is rolled back before this error surfaces, so no partial
// state is left behind and the caller may retry as a fresh operation.
// Handlers respond with HTTP 500.
var ErrCommitFailed = errors.New("commit failed")
