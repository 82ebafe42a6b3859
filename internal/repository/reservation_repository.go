package repository

import (
    "context"
    "database/sql"
    "time"
)

// ReservationRepo provides read access to reservations.  Reservation
// rows are only ever created through Tx.InsertReservation inside the
// commit transaction; this repository serves the listing and detail
// endpoints and takes no locks.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// ReservationDetail is a reservation joined with its seat and event for
// display to customers.
type ReservationDetail struct {
    ID         uint64 `json:"id"`
    SeatID     uint64 `json:"seat_id"`
    SeatNumber string `json:"seat_number"`
    EventID    uint64 `json:"event_id"`
    EventTitle string `json:"event_title"`
    CreatedAt  string `json:"created_at"`
}

// ListByUser returns all reservations for the given user along with
// seat and event details, newest first.  When no reservations exist,
// an empty slice is returned.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
    const q = `SELECT r.id, r.seat_id, s.seat_number, e.id, e.title, r.created_at
               FROM reservations r
               JOIN seats s ON s.id = r.seat_id
               JOIN events e ON e.id = s.event_id
               WHERE r.user_id = ?
               ORDER BY r.created_at DESC`
    rows, err := r.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]ReservationDetail, 0)
    for rows.Next() {
        var d ReservationDetail
        var createdAt sql.NullTime
        if err := rows.Scan(&d.ID, &d.SeatID, &d.SeatNumber, &d.EventID, &d.EventTitle, &createdAt); err != nil {
            return nil, err
        }
        if createdAt.Valid {
            d.CreatedAt = createdAt.Time.UTC().Format(time.RFC3339)
        }
        details = append(details, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return details, nil
}
