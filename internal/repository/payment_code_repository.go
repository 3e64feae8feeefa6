package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/Saihna0731/PlayZone-MN-sub000/internal/model"
)

// PaymentCodeRepo persists claim codes. A unique index on the code
// column backs the registry's collision retry loop, and the guarded
// UPDATE in MarkUsed is the sole mutation path for a code.
type PaymentCodeRepo struct {
    db *sql.DB
}

// NewPaymentCodeRepo returns a new PaymentCodeRepo bound to the database.
func NewPaymentCodeRepo(db *sql.DB) *PaymentCodeRepo { return &PaymentCodeRepo{db: db} }

const codeColumns = `id, code, user_id, plan_id, amount, status, expires_at, used_at, created_at`

func scanCode(row interface{ Scan(...any) error }) (model.PaymentCode, error) {
    var c model.PaymentCode
    var usedAt sql.NullTime
    err := row.Scan(&c.ID, &c.Code, &c.UserID, &c.PlanID, &c.Amount, &c.Status,
        &c.ExpiresAt, &usedAt, &c.CreatedAt)
    if err != nil {
        return model.PaymentCode{}, err
    }
    if usedAt.Valid {
        t := usedAt.Time
        c.UsedAt = &t
    }
    return c, nil
}

// FindActiveByUser returns the user's pending, unexpired code.
// sql.ErrNoRows when none exists.
func (r *PaymentCodeRepo) FindActiveByUser(ctx context.Context, userID uint64, now time.Time) (model.PaymentCode, error) {
    const q = `SELECT ` + codeColumns + ` FROM payment_codes
               WHERE user_id = ? AND status = 'pending' AND expires_at > ?
               ORDER BY created_at DESC LIMIT 1`
    return scanCode(r.db.QueryRowContext(ctx, q, userID, now))
}

// FindRedeemable returns the code row matching exactly
// {code, status=pending, expiry>now}. sql.ErrNoRows when absent.
func (r *PaymentCodeRepo) FindRedeemable(ctx context.Context, code string, now time.Time) (model.PaymentCode, error) {
    const q = `SELECT ` + codeColumns + ` FROM payment_codes
               WHERE code = ? AND status = 'pending' AND expires_at > ? LIMIT 1`
    return scanCode(r.db.QueryRowContext(ctx, q, strings.ToUpper(strings.TrimSpace(code)), now))
}

// Insert persists a freshly generated code. A collision with an
// existing code value is reported as ErrDuplicateCode so the registry
// can regenerate and retry.
func (r *PaymentCodeRepo) Insert(ctx context.Context, c *model.PaymentCode) error {
    const q = `INSERT INTO payment_codes (code, user_id, plan_id, amount, status, expires_at)
               VALUES (?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, c.Code, c.UserID, c.PlanID, c.Amount, c.Status, c.ExpiresAt)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrDuplicateCode
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    c.ID = uint64(id)
    return r.db.QueryRowContext(ctx, `SELECT created_at FROM payment_codes WHERE id = ?`, c.ID).Scan(&c.CreatedAt)
}

// MarkUsed transitions a code from pending to used. The status guard in
// the WHERE clause makes the transition happen at most once; a second
// attempt affects zero rows and reports sql.ErrNoRows.
func (r *PaymentCodeRepo) MarkUsed(ctx context.Context, id uint64, usedAt time.Time) error {
    const q = `UPDATE payment_codes SET status = 'used', used_at = ? WHERE id = ? AND status = 'pending'`
    res, err := r.db.ExecContext(ctx, q, usedAt, id)
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
