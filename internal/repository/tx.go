package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/go-sql-driver/mysql"

    "github.com/iliyamo/event-seat-reservation/internal/model"
)

// Tx is the transactional view of the booking tables.  The reservation
// committer performs its read-then-write sequence exclusively through
// this interface so the seat status check, the reservation insert and
// the status flip all land in one atomic unit.  Implementations must
// hold a row lock across GetSeatForUpdate so that two concurrent
// commits on the same seat cannot both observe AVAILABLE.
type Tx interface {
    // GetSeatForUpdate re-reads the seat row under a row lock.  It
    // returns ErrSeatNotFound when the seat does not exist in the event.
    GetSeatForUpdate(ctx context.Context, eventID, seatID uint64) (*model.Seat, error)
    // InsertReservation creates the reservation row and returns it with
    // the database-assigned ID and timestamp.  A duplicate seat_id is
    // reported as ErrSeatConflict.
    InsertReservation(ctx context.Context, seatID, userID uint64) (*model.Reservation, error)
    // UpdateSeatStatus sets the persisted status of a seat.
    UpdateSeatStatus(ctx context.Context, seatID uint64, status string) error
}

// TxStore runs functions inside a database transaction.  The closure
// receives a Tx scoped to that transaction; when it returns an error the
// transaction is rolled back, otherwise it is committed.  No partial
// state is ever observable outside the closure.
type TxStore struct {
    db *sql.DB
}

// NewTxStore returns a TxStore bound to the given database.
func NewTxStore(db *sql.DB) *TxStore { return &TxStore{db: db} }

// RunTx begins a transaction, invokes fn with its transactional view and
// commits on success.  Rollback errors are deliberately ignored: the
// driver rolls the transaction back on connection close anyway and the
// original error is the one callers need.
func (s *TxStore) RunTx(ctx context.Context, fn func(Tx) error) error {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    if err := fn(&seatTx{tx: tx}); err != nil {
        _ = tx.Rollback()
        return err
    }
    return tx.Commit()
}

// seatTx implements Tx on top of *sql.Tx.
type seatTx struct {
    tx *sql.Tx
}

// GetSeatForUpdate loads the seat row with FOR UPDATE.  The lock is held
// until the surrounding transaction commits or rolls back, which orders
// concurrent commits on the same seat.
func (t *seatTx) GetSeatForUpdate(ctx context.Context, eventID, seatID uint64) (*model.Seat, error) {
    const q = `SELECT id, event_id, seat_number, status, created_at, updated_at
               FROM seats WHERE id = ? AND event_id = ? FOR UPDATE`
    var s model.Seat
    err := t.tx.QueryRowContext(ctx, q, seatID, eventID).Scan(
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

// InsertReservation inserts the reservation row and queries it back to
// populate the generated ID and creation timestamp.
func (t *seatTx) InsertReservation(ctx context.Context, seatID, userID uint64) (*model.Reservation, error) {
    const q = `INSERT INTO reservations (seat_id, user_id) VALUES (?, ?)`
    result, err := t.tx.ExecContext(ctx, q, seatID, userID)
    if err != nil {
        var me *mysql.MySQLError
        if errors.As(err, &me) && me.Number == 1062 { // duplicate entry on reservations.seat_id
            return nil, ErrSeatConflict
        }
        return nil, err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return nil, err
    }
    const sel = `SELECT id, seat_id, user_id, created_at FROM reservations WHERE id = ?`
    var res model.Reservation
    if err := t.tx.QueryRowContext(ctx, sel, id).Scan(&res.ID, &res.SeatID, &res.UserID, &res.CreatedAt); err != nil {
        return nil, err
    }
    return &res, nil
}

// UpdateSeatStatus flips the persisted seat status.
func (t *seatTx) UpdateSeatStatus(ctx context.Context, seatID uint64, status string) error {
    const q = `UPDATE seats SET status = ? WHERE id = ?`
    _, err := t.tx.ExecContext(ctx, q, status, seatID)
    return err
}
