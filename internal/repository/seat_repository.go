package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/event-seat-reservation/internal/model"
)

// SeatRepo provides read access to the seats table.  Seats are created
// by bulk provisioning outside this service; the booking core only reads
// seat identity and status here.  All mutation of seat status happens
// through Tx inside a transaction so that the commit-time status
// check and the status flip are one atomic unit.
type SeatRepo struct {
    db *sql.DB
}

// NewSeatRepo returns a new SeatRepo bound to the provided database.
func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

// GetByEvent loads a seat by ID scoped to an event.  It returns
// ErrSeatNotFound when no seat with that ID exists in the event.  This
// lookup is the non-authoritative availability precheck used before a
// hold attempt; the Redis claim itself is what provides mutual
// exclusion.
func (r *SeatRepo) GetByEvent(ctx context.Context, eventID, seatID uint64) (*model.Seat, error) {
    const q = `SELECT id, event_id, seat_number, status, created_at, updated_at
               FROM seats WHERE id = ? AND event_id = ?`
    var s model.Seat
    err := r.db.QueryRowContext(ctx, q, seatID, eventID).Scan(
        &s.ID, &s.EventID, &s.SeatNumber, &s.Status, &s.CreatedAt, &s.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrSeatNotFound
        }
        return nil, err
    }
    return &s, nil
}

// ListByEvent returns all seats of an event ordered by seat number.
// Listing reads take no locks; the statuses returned reflect the
// persisted state only and callers overlay active holds separately.
func (r *SeatRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.Seat, error) {
    const q = `SELECT id, event_id, seat_number, status, created_at, updated_at
               FROM seats WHERE event_id = ? ORDER BY seat_number`
    rows, err := r.db.QueryContext(ctx, q, eventID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    seats := make([]model.Seat, 0)
    for rows.Next() {
        var s model.Seat
        if err := rows.Scan(&s.ID, &s.EventID, &s.SeatNumber, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
            return nil, err
        }
        seats = append(seats, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return seats, nil
}
