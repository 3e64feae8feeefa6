package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/Saihna0731/PlayZone-MN-sub000/internal/model"
)

// BookingRepo provides CRUD operations for bookings. Booking creation is
// deliberately a plain insert: the capacity check runs before it with no
// transactional wrapper, so two concurrent requests for the same slot can
// both pass the check before either write lands. All timestamps are
// stored in UTC.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle for callers that need it.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `id, user_id, center_id, date, time, duration, seat_type, seats, price, status, created_at`

func scanBooking(row interface{ Scan(...any) error }) (model.Booking, error) {
    var b model.Booking
    err := row.Scan(&b.ID, &b.UserID, &b.CenterID, &b.Date, &b.Time, &b.Duration,
        &b.SeatType, &b.Seats, &b.Price, &b.Status, &b.CreatedAt)
    return b, err
}

// Create inserts a new booking and populates the generated ID and
// creation timestamp on the provided record.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
    const q = `INSERT INTO bookings (user_id, center_id, date, time, duration, seat_type, seats, price, status)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
    result, err := r.db.ExecContext(ctx, q, b.UserID, b.CenterID, b.Date, b.Time,
        b.Duration, b.SeatType, b.Seats, b.Price, b.Status)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    const sel = `SELECT created_at FROM bookings WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt)
}

// GetByID fetches a single booking. sql.ErrNoRows when absent.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
    const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? LIMIT 1`
    return scanBooking(r.db.QueryRowContext(ctx, q, id))
}

// ListForSlot returns every non-cancelled booking for the given
// (center, date, seat type) tuple. This is the read half of the
// capacity check; the checker computes overlap over the result.
func (r *BookingRepo) ListForSlot(ctx context.Context, centerID uint64, date, seatType string) ([]model.Booking, error) {
    const q = `SELECT ` + bookingColumns + ` FROM bookings
               WHERE center_id = ? AND date = ? AND seat_type = ? AND status <> 'cancelled'`
    rows, err := r.db.QueryContext(ctx, q, centerID, date, seatType)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Booking, 0)
    for rows.Next() {
        b, err := scanBooking(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, b)
    }
    return out, rows.Err()
}

// UpdateStatus overwrites the status of a booking. The prior state is
// not validated; any declared status may replace any other. Returns
// sql.ErrNoRows when the booking does not exist.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status string) (model.Booking, error) {
    const q = `UPDATE bookings SET status = ? WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, status, id)
    if err != nil {
        return model.Booking{}, err
    }
    if n, err := res.RowsAffected(); err == nil && n == 0 {
        // Either absent or already in the requested status; disambiguate.
        if _, err := r.GetByID(ctx, id); err != nil {
            return model.Booking{}, err
        }
    }
    return r.GetByID(ctx, id)
}

// ListByUser returns the user's bookings, newest first, capped at 100.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
    const q = `SELECT ` + bookingColumns + ` FROM bookings
               WHERE user_id = ? ORDER BY created_at DESC LIMIT 100`
    rows, err := r.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Booking, 0)
    for rows.Next() {
        b, err := scanBooking(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, b)
    }
    return out, rows.Err()
}

// ListByCenter returns every booking for a center ordered by schedule.
func (r *BookingRepo) ListByCenter(ctx context.Context, centerID uint64) ([]model.Booking, error) {
    const q = `SELECT ` + bookingColumns + ` FROM bookings
               WHERE center_id = ? ORDER BY date ASC, time ASC`
    rows, err := r.db.QueryContext(ctx, q, centerID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Booking, 0)
    for rows.Next() {
        b, err := scanBooking(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, b)
    }
    return out, rows.Err()
}

// DeleteCreatedBefore removes every booking created before the cutoff,
// irrespective of status or scheduled date, and reports the count.
// Deleting is idempotent, so concurrent runs are wasteful but harmless.
func (r *BookingRepo) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
    const q = `DELETE FROM bookings WHERE created_at < ?`
    res, err := r.db.ExecContext(ctx, q, cutoff)
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}
