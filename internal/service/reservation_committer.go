package service

import (
    "context"
    "errors"
    "fmt"
    "log"

    "github.com/iliyamo/event-seat-reservation/internal/model"
    "github.com/iliyamo/event-seat-reservation/internal/repository"
)

// HoldVerifier is the slice of the hold manager the committer depends
// on: the read-verify call before the transaction and the best-effort
// release after it.  No other coupling exists between the two
// components.
type HoldVerifier interface {
    Verify(ctx context.Context, eventID, seatID, userID uint64) (bool, error)
    Release(ctx context.Context, eventID, seatID uint64) error
}

// TxRunner runs a function inside one storage transaction.
type TxRunner interface {
    RunTx(ctx context.Context, fn func(repository.Tx) error) error
}

// ReservationCommitter converts a verified hold into a durable
// reservation, exactly once per seat.  The hold only filters commit
// attempts; the commit-time status check under the row lock is the
// actual duplicate-booking guard, because the hold and the seat status
// live in different stores with no cross-store transaction.
type ReservationCommitter struct {
    store TxRunner
    holds HoldVerifier
}

// NewReservationCommitter constructs a ReservationCommitter.
func NewReservationCommitter(store TxRunner, holds HoldVerifier) *ReservationCommitter {
    if store == nil || holds == nil {
        panic("nil dependency passed to NewReservationCommitter")
    }
    return &ReservationCommitter{store: store, holds: holds}
}

// Commit turns the caller's hold on a seat into a reservation.
//
// It first verifies the hold; a missing, expired or foreign hold fails
// with ErrHoldMissingOrExpired.  It then opens a transaction, re-reads
// the seat row under a row lock (absent row: ErrSeatNotFound; status
// not AVAILABLE: ErrSeatAlreadyReserved), inserts the reservation and
// flips the seat to RESERVED in the same transaction.  On success the
// hold is released best-effort: if the delete fails the key simply
// expires via TTL and gates nothing, since the status check rejects any
// later commit on the now-RESERVED seat.  Unexpected storage faults
// roll the transaction back and surface as ErrCommitFailed.
func (s *ReservationCommitter) Commit(ctx context.Context, eventID, seatID, userID uint64) (*model.Reservation, error) {
    ok, err := s.holds.Verify(ctx, eventID, seatID, userID)
    if err != nil {
        return nil, fmt.Errorf("%w: verify hold: %v", ErrCommitFailed, err)
    }
    if !ok {
        return nil, ErrHoldMissingOrExpired
    }

    var res *model.Reservation
    err = s.store.RunTx(ctx, func(tx repository.Tx) error {
        seat, err := tx.GetSeatForUpdate(ctx, eventID, seatID)
        if err != nil {
            if errors.Is(err, repository.ErrSeatNotFound) {
                return ErrSeatNotFound
            }
            return err
        }
        if seat.Status != model.SeatStatusAvailable {
            return ErrSeatAlreadyReserved
        }
        created, err := tx.InsertReservation(ctx, seatID, userID)
        if err != nil {
            if errors.Is(err, repository.ErrSeatConflict) {
                // The unique constraint is the schema-level backstop for
                // the status check above.
                return ErrSeatAlreadyReserved
            }
            return err
        }
        if err := tx.UpdateSeatStatus(ctx, seatID, model.SeatStatusReserved); err != nil {
            return err
        }
        res = created
        return nil
    })
    if err != nil {
        if errors.Is(err, ErrSeatNotFound) || errors.Is(err, ErrSeatAlreadyReserved) {
            return nil, err
        }
        return nil, fmt.Errorf("%w: %v", ErrCommitFailed, err)
    }

    if err := s.holds.Release(ctx, eventID, seatID); err != nil {
        // The seat is already RESERVED; the stale key expires on its own.
        log.Printf("release hold after commit failed for event=%d seat=%d: %v", eventID, seatID, err)
    }
    return res, nil
}
