package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/Saihna0731/PlayZone-MN-sub000/internal/model"
)

// PendingPaymentRepo persists ledger entries for the fallback claim
// path.
type PendingPaymentRepo struct {
    db *sql.DB
}

// NewPendingPaymentRepo returns a new PendingPaymentRepo bound to the database.
func NewPendingPaymentRepo(db *sql.DB) *PendingPaymentRepo { return &PendingPaymentRepo{db: db} }

const pendingColumns = `id, user_id, plan_id, amount, status, transaction_ref, completed_at, expires_at, created_at`

func scanPending(row interface{ Scan(...any) error }) (model.PendingPayment, error) {
    var p model.PendingPayment
    var ref sql.NullString
    var completedAt sql.NullTime
    err := row.Scan(&p.ID, &p.UserID, &p.PlanID, &p.Amount, &p.Status,
        &ref, &completedAt, &p.ExpiresAt, &p.CreatedAt)
    if err != nil {
        return model.PendingPayment{}, err
    }
    if ref.Valid {
        s := ref.String
        p.TransactionRef = &s
    }
    if completedAt.Valid {
        t := completedAt.Time
        p.CompletedAt = &t
    }
    return p, nil
}

// ExpireAllForUser marks every pending entry of the user as expired.
// Called before opening a new entry so at most one is ever live.
func (r *PendingPaymentRepo) ExpireAllForUser(ctx context.Context, userID uint64) error {
    const q = `UPDATE pending_payments SET status = 'expired' WHERE user_id = ? AND status = 'pending'`
    _, err := r.db.ExecContext(ctx, q, userID)
    return err
}

// Insert persists a new pending entry and populates its ID and
// creation timestamp.
func (r *PendingPaymentRepo) Insert(ctx context.Context, p *model.PendingPayment) error {
    const q = `INSERT INTO pending_payments (user_id, plan_id, amount, status, expires_at)
               VALUES (?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, p.UserID, p.PlanID, p.Amount, p.Status, p.ExpiresAt)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    p.ID = uint64(id)
    return r.db.QueryRowContext(ctx, `SELECT created_at FROM pending_payments WHERE id = ?`, p.ID).Scan(&p.CreatedAt)
}

// FindClaimable returns the most recently created pending entry with
// the given amount created after the window cutoff. sql.ErrNoRows when
// nothing matches.
func (r *PendingPaymentRepo) FindClaimable(ctx context.Context, amount int64, windowStart time.Time) (model.PendingPayment, error) {
    const q = `SELECT ` + pendingColumns + ` FROM pending_payments
               WHERE status = 'pending' AND amount = ? AND created_at >= ?
               ORDER BY created_at DESC LIMIT 1`
    return scanPending(r.db.QueryRowContext(ctx, q, amount, windowStart))
}

// MarkCompleted transitions a pending entry to completed and records
// the transaction reference that satisfied it. The status guard keeps
// the transition single-shot; sql.ErrNoRows when already claimed.
func (r *PendingPaymentRepo) MarkCompleted(ctx context.Context, id uint64, transactionRef string, completedAt time.Time) error {
    const q = `UPDATE pending_payments SET status = 'completed', transaction_ref = ?, completed_at = ?
               WHERE id = ? AND status = 'pending'`
    res, err := r.db.ExecContext(ctx, q, transactionRef, completedAt, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return sql.ErrNoRows
    }
    return nil
}
