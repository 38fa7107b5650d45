package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/olimp/hotel-booking/internal/database"
	"github.com/olimp/hotel-booking/internal/model"
)

// ReservationRepo persists reservations keyed by room and date range. Dates
// are half-open: a reservation occupies the nights from start_date up to,
// but not including, end_date.
type ReservationRepo struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB, dialect database.Dialect) *ReservationRepo {
	return &ReservationRepo{db: db, dialect: dialect}
}

// A reservation conflicts unless it ends on or before the candidate's start
// or starts on or after the candidate's end.
const overlapCountQuery = `SELECT COUNT(*) FROM reservations
                           WHERE room_id = ? AND NOT (end_date <= ? OR start_date >= ?)`

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func countOverlaps(ctx context.Context, q rowQuerier, roomID uint64, start, end model.Date) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, overlapCountQuery, roomID, start, end).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// HasConflict reports whether any reservation of roomID overlaps
// [start, end). It runs outside a transaction and is only a pre-filter:
// Insert repeats the check under the room lock.
func (r *ReservationRepo) HasConflict(ctx context.Context, roomID uint64, start, end model.Date) (bool, error) {
	n, err := countOverlaps(ctx, r.db, roomID, start, end)
	return n > 0, err
}

// HasConflictTx is HasConflict within the caller's transaction.
func (r *ReservationRepo) HasConflictTx(ctx context.Context, tx *sql.Tx, roomID uint64, start, end model.Date) (bool, error) {
	n, err := countOverlaps(ctx, tx, roomID, start, end)
	return n > 0, err
}

// LockRoomTx serializes bookings of one room. On MySQL the room row is
// locked FOR UPDATE until the transaction ends. SQLite connections open
// write transactions IMMEDIATE, so the database write lock is already held
// and only existence is checked. Returns ErrRoomNotFound for unknown rooms.
func (r *ReservationRepo) LockRoomTx(ctx context.Context, tx *sql.Tx, roomID uint64) error {
	q := `SELECT id FROM rooms WHERE id = ?`
	if r.dialect == database.MySQL {
		q += ` FOR UPDATE`
	}
	var id uint64
	if err := tx.QueryRowContext(ctx, q, roomID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoomNotFound
		}
		return err
	}
	return nil
}

// CreateTx inserts res within the caller's transaction and sets its ID. It
// performs no overlap check of its own.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations (room_id, start_date, end_date, guest_name, guest_email, booked_by)
	           VALUES (?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, res.RoomID, res.StartDate, res.EndDate, res.GuestName, res.GuestEmail, res.BookedBy)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return nil
}

// Insert books res atomically: it locks the room, re-checks for overlapping
// reservations and inserts, all in one transaction. It returns
// ErrRoomNotFound, ErrConflict or a wrapped driver error. On success res.ID
// is set and exactly one row has been written.
func (r *ReservationRepo) Insert(ctx context.Context, res *model.Reservation) error {
	var opts *sql.TxOptions
	if r.dialect == database.MySQL {
		// every statement after the lock must see rows committed before it
		opts = &sql.TxOptions{Isolation: sql.LevelReadCommitted}
	}
	tx, err := r.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin booking tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := r.LockRoomTx(ctx, tx, res.RoomID); err != nil {
		return err
	}
	conflict, err := r.HasConflictTx(ctx, tx, res.RoomID, res.StartDate, res.EndDate)
	if err != nil {
		return fmt.Errorf("overlap check: %w", err)
	}
	if conflict {
		return ErrConflict
	}
	if err := r.CreateTx(ctx, tx, res); err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	if err := tx.Commit(); err != nil {
		res.ID = 0
		return fmt.Errorf("commit booking tx: %w", err)
	}
	committed = true
	return nil
}

const reservationColumns = `id, room_id, start_date, end_date, guest_name, guest_email, booked_by`

func scanReservation(sc interface{ Scan(...any) error }, res *model.Reservation) error {
	return sc.Scan(&res.ID, &res.RoomID, &res.StartDate, &res.EndDate, &res.GuestName, &res.GuestEmail, &res.BookedBy)
}

// GetByID returns a single reservation or ErrNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	var res model.Reservation
	err := scanReservation(r.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id), &res)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, ErrNotFound
	}
	return res, err
}

// ListByRoom returns the reservations of a room ordered by start date.
func (r *ReservationRepo) ListByRoom(ctx context.Context, roomID uint64) ([]model.Reservation, error) {
	return r.list(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE room_id = ? ORDER BY start_date, id`, roomID)
}

// ListByUser returns the reservations booked by a user, newest stay first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	return r.list(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE booked_by = ? ORDER BY start_date DESC, id DESC`, userID)
}

func (r *ReservationRepo) list(ctx context.Context, q string, args ...any) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		var res model.Reservation
		if err := scanReservation(rows, &res); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
