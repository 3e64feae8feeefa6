package payment

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/Saihna0731/PlayZone-MN-sub000/internal/model"
)

// Ledger windows. An entry expires 30 minutes after creation and a
// claim only matches entries created within the same window.
const (
    pendingTTL  = 30 * time.Minute
    claimWindow = 30 * time.Minute
)

// LedgerStore is the persistence surface the ledger needs. Implemented
// by repository.PendingPaymentRepo.
type LedgerStore interface {
    ExpireAllForUser(ctx context.Context, userID uint64) error
    Insert(ctx context.Context, p *model.PendingPayment) error
    FindClaimable(ctx context.Context, amount int64, windowStart time.Time) (model.PendingPayment, error)
    MarkCompleted(ctx context.Context, id uint64, transactionRef string, completedAt time.Time) error
}

// PendingLedger is the fallback claim mechanism used when a
// notification carries no claim code: entries are matched by amount
// within a time window.
type PendingLedger struct {
    store LedgerStore
    now   func() time.Time
}

// NewPendingLedger builds a ledger over the given store.
func NewPendingLedger(store LedgerStore) *PendingLedger {
    return &PendingLedger{store: store, now: time.Now}
}

// Open records that the user is about to pay amount for planID. The
// amount must match the plan's price exactly. Every earlier pending
// entry for the user is expired first, so at most one entry per user
// is ever live.
func (l *PendingLedger) Open(ctx context.Context, userID uint64, planID string, amount int64) (model.PendingPayment, error) {
    plan, ok := PlanByID(planID)
    if !ok || planID == PlanFree {
        return model.PendingPayment{}, ErrInvalidPlan
    }
    if plan.Amount != amount {
        return model.PendingPayment{}, ErrAmountMismatch
    }
    if err := l.store.ExpireAllForUser(ctx, userID); err != nil {
        return model.PendingPayment{}, err
    }
    now := l.now().UTC()
    p := model.PendingPayment{
        UserID:    userID,
        PlanID:    plan.ID,
        Amount:    amount,
        Status:    model.PendingStatusPending,
        ExpiresAt: now.Add(pendingTTL),
    }
    if err := l.store.Insert(ctx, &p); err != nil {
        return model.PendingPayment{}, err
    }
    return p, nil
}

// Claim matches a notification amount against the most recently created
// pending entry inside the window and marks it completed with the
// resolved transaction reference. ErrNoMatchingClaim when nothing
// matches.
func (l *PendingLedger) Claim(ctx context.Context, amount int64, transactionRef string) (model.PendingPayment, error) {
    now := l.now().UTC()
    p, err := l.store.FindClaimable(ctx, amount, now.Add(-claimWindow))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return model.PendingPayment{}, ErrNoMatchingClaim
        }
        return model.PendingPayment{}, err
    }
    if err := l.store.MarkCompleted(ctx, p.ID, transactionRef, now); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return model.PendingPayment{}, ErrNoMatchingClaim
        }
        return model.PendingPayment{}, err
    }
    p.Status = model.PendingStatusCompleted
    p.TransactionRef = &transactionRef
    p.CompletedAt = &now
    return p, nil
}
