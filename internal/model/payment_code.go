package model

import "time"

// Payment code statuses.
const (
    CodeStatusPending = "pending"
    CodeStatusUsed    = "used"
    CodeStatusExpired = "expired"
)

// PaymentCode is a short-lived claim code correlating an out-of-band
// payment with a pending plan upgrade. At most one active (pending,
// unexpired) code exists per user; re-issuing returns the existing one.
// The code transitions to `used` exactly once, by the reconciler.
//
// Fields:
//  ID        – primary key identifier.
//  Code      – unique human-readable code (PZ- prefix).
//  UserID    – owning user.
//  PlanID    – plan the code pays for.
//  Amount    – expected amount in MNT; must match the plan price table.
//  Status    – pending, used or expired.
//  ExpiresAt – 24 hours from issue.
//  UsedAt    – when the code was redeemed (nil while pending).
//  CreatedAt – issue timestamp; storage purges rows 7 days after this.
type PaymentCode struct {
    ID        uint64     // payment_codes.id
    Code      string     // payment_codes.code
    UserID    uint64     // payment_codes.user_id
    PlanID    string     // payment_codes.plan_id
    Amount    int64      // payment_codes.amount
    Status    string     // payment_codes.status
    ExpiresAt time.Time  // payment_codes.expires_at
    UsedAt    *time.Time // payment_codes.used_at (nullable)
    CreatedAt time.Time  // payment_codes.created_at
}
