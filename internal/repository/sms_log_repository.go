package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/Saihna0731/PlayZone-MN-sub000/internal/model"
)

// SmsLogRepo appends audit rows for inbound payment notifications. Rows
// are never updated after insert. The unique index on transaction_ref
// enforces at-most-once processing at the storage layer; the
// application-level duplicate check can race, the index cannot.
type SmsLogRepo struct {
    db *sql.DB
}

// NewSmsLogRepo returns a new SmsLogRepo bound to the given database.
func NewSmsLogRepo(db *sql.DB) *SmsLogRepo { return &SmsLogRepo{db: db} }

// ExistsByTransaction reports whether an audit row already carries the
// given transaction reference.
func (r *SmsLogRepo) ExistsByTransaction(ctx context.Context, transactionRef string) (bool, error) {
    const q = `SELECT 1 FROM sms_logs WHERE transaction_ref = ? LIMIT 1`
    var one int
    err := r.db.QueryRowContext(ctx, q, transactionRef).Scan(&one)
    if err == sql.ErrNoRows {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}

// Insert appends an audit row. A duplicate transaction reference is
// reported as ErrDuplicateTransaction; the reconciler treats that as
// confirmation of its duplicate check, not as a server error.
func (r *SmsLogRepo) Insert(ctx context.Context, l *model.SmsLog) error {
    const q = `INSERT INTO sms_logs (sender, message, amount, transaction_ref, user_id, plan_id, processed, error, source)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q,
        l.Sender, l.Message, l.Amount, l.TransactionRef, l.UserID, l.PlanID, l.Processed, l.Error, l.Source)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrDuplicateTransaction
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    l.ID = uint64(id)
    return nil
}
