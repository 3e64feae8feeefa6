package model

import "time"

// Pending payment statuses.
const (
    PendingStatusPending   = "pending"
    PendingStatusCompleted = "completed"
    PendingStatusExpired   = "expired"
    PendingStatusCancelled = "cancelled"
)

// PendingPayment is the fallback claim mechanism used when an inbound
// notification carries no claim code: it is matched by amount within a
// 30-minute window. Opening a new entry expires every earlier pending
// entry for the same user, so at most one entry per user is live.
//
// Fields:
//  ID             – primary key identifier.
//  UserID         – owning user.
//  PlanID         – plan being paid for.
//  Amount         – expected amount in MNT.
//  Status         – pending, completed, expired or cancelled.
//  TransactionRef – reference of the matched notification (nil until claimed).
//  CompletedAt    – when the entry was claimed (nil while pending).
//  ExpiresAt      – 30 minutes from creation; storage purges at expiry.
//  CreatedAt      – creation timestamp; claim window keys off this.
type PendingPayment struct {
    ID             uint64     // pending_payments.id
    UserID         uint64     // pending_payments.user_id
    PlanID         string     // pending_payments.plan_id
    Amount         int64      // pending_payments.amount
    Status         string     // pending_payments.status
    TransactionRef *string    // pending_payments.transaction_ref (nullable)
    CompletedAt    *time.Time // pending_payments.completed_at (nullable)
    ExpiresAt      time.Time  // pending_payments.expires_at
    CreatedAt      time.Time  // pending_payments.created_at
}
