package service

import (
    "context"
    "errors"
    "fmt"
    "strconv"
    "time"

    "github.com/iliyamo/event-seat-reservation/internal/model"
    "github.com/iliyamo/event-seat-reservation/internal/repository"
)

// DefaultHoldTTL is how long a seat stays claimed when the caller never
// commits or releases.  Expiry is enforced by the store, not by a sweep.
const DefaultHoldTTL = 300 * time.Second

// SeatReader is the slice of the seat repository the hold manager needs:
// a single scoped lookup used as the availability precheck before a
// claim attempt.
type SeatReader interface {
    GetByEvent(ctx context.Context, eventID, seatID uint64) (*model.Seat, error)
}

// HoldStore is the fast conditional store backing holds.  SetNX must be
// atomic: of any number of concurrent calls for the same absent key,
// exactly one returns true.
type HoldStore interface {
    SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
    Get(ctx context.Context, key string) (string, error)
    MGet(ctx context.Context, keys []string) ([]string, error)
    Del(ctx context.Context, key string) error
}

// HoldManager grants, verifies and releases exclusive time-bounded
// claims on seats.  The atomic conditional set is the sole source of
// mutual exclusion; the seat precheck in Acquire only filters requests
// that can never succeed (missing seat, already reserved seat) and is
// deliberately not atomic with the claim.
type HoldManager struct {
    seats SeatReader
    store HoldStore
    ttl   time.Duration
}

// NewHoldManager constructs a HoldManager.  A non-positive ttl falls
// back to DefaultHoldTTL.
func NewHoldManager(seats SeatReader, store HoldStore, ttl time.Duration) *HoldManager {
    if seats == nil || store == nil {
        panic("nil dependency passed to NewHoldManager")
    }
    if ttl <= 0 {
        ttl = DefaultHoldTTL
    }
    return &HoldManager{seats: seats, store: store, ttl: ttl}
}

// HoldKey builds the store key for a seat claim.  The value stored
// under it is the owning user's ID in decimal.
func HoldKey(eventID, seatID uint64) string {
    return fmt.Sprintf("seat:hold:%d:%d", eventID, seatID)
}

// Acquire attempts to claim a seat for a user.  It returns the hold
// with its expiry on success.  Failure modes: ErrSeatNotFound when the
// seat does not exist in the event, ErrSeatUnavailable when the seat is
// already RESERVED, ErrAlreadyHeld when someone currently holds it.
// Acquire never touches the seat row.
func (m *HoldManager) Acquire(ctx context.Context, eventID, seatID, userID uint64) (*model.Hold, error) {
    seat, err := m.seats.GetByEvent(ctx, eventID, seatID)
    if err != nil {
        if errors.Is(err, repository.ErrSeatNotFound) {
            return nil, ErrSeatNotFound
        }
        return nil, err
    }
    if seat.Status != model.SeatStatusAvailable {
        return nil, ErrSeatUnavailable
    }
    ok, err := m.store.SetNX(ctx, HoldKey(eventID, seatID), strconv.FormatUint(userID, 10), m.ttl)
    if err != nil {
        return nil, err
    }
    if !ok {
        return nil, ErrAlreadyHeld
    }
    return &model.Hold{
        EventID:   eventID,
        SeatID:    seatID,
        UserID:    userID,
        ExpiresAt: time.Now().UTC().Add(m.ttl),
    }, nil
}

// Release deletes the hold key for a seat.  It is idempotent and used
// both after a successful commit and on abandonment.
func (m *HoldManager) Release(ctx context.Context, eventID, seatID uint64) error {
    return m.store.Del(ctx, HoldKey(eventID, seatID))
}

// Verify reports whether userID currently owns the hold on a seat.  A
// missing or expired key and a key owned by another user both yield
// false.  Verify has no side effects.
func (m *HoldManager) Verify(ctx context.Context, eventID, seatID, userID uint64) (bool, error) {
    v, err := m.store.Get(ctx, HoldKey(eventID, seatID))
    if err != nil {
        return false, err
    }
    if v == "" {
        return false, nil
    }
    owner, err := strconv.ParseUint(v, 10, 64)
    if err != nil {
        // Foreign data under our key space; treat as not owned.
        return false, nil
    }
    return owner == userID, nil
}

// HeldSeats reports which of the given seats currently have an active
// hold.  It is used by the listing endpoint to overlay the derived HELD
// status on AVAILABLE rows with a single store round trip.
func (m *HoldManager) HeldSeats(ctx context.Context, eventID uint64, seatIDs []uint64) (map[uint64]bool, error) {
    if len(seatIDs) == 0 {
        return map[uint64]bool{}, nil
    }
    keys := make([]string, len(seatIDs))
    for i, id := range seatIDs {
        keys[i] = HoldKey(eventID, id)
    }
    vals, err := m.store.MGet(ctx, keys)
    if err != nil {
        return nil, err
    }
    held := make(map[uint64]bool, len(seatIDs))
    for i, v := range vals {
        if v != "" {
            held[seatIDs[i]] = true
        }
    }
    return held, nil
}
