// Package payment implements the payment reconciliation core: claim
// codes, the pending-payment ledger, notification parsing and the
// reconciler that turns inbound free-text payment notifications into
// subscription activations.
package payment

import "errors"

// Plan identifiers.
const (
    PlanFree             = "free"
    PlanNormal           = "normal"
    PlanBusinessStandard = "business_standard"
    PlanBusinessPro      = "business_pro"
)

// Errors shared by the registry, ledger and reconciler.
var (
    // ErrInvalidPlan is returned when a plan id is not in the price table.
    ErrInvalidPlan = errors.New("invalid plan")
    // ErrAmountMismatch is returned when a notification's amount differs
    // from the amount a found claim expects. This is a hard mismatch,
    // never silently accepted.
    ErrAmountMismatch = errors.New("amount does not match claim")
    // ErrCodeNotFound is returned when no pending, unexpired code matches.
    ErrCodeNotFound = errors.New("payment code not found or no longer valid")
    // ErrCodeGeneration is returned when code generation exhausts its
    // collision retries.
    ErrCodeGeneration = errors.New("could not generate a unique payment code")
    // ErrNoMatchingClaim is returned when neither a code nor a ledger
    // entry matches a notification.
    ErrNoMatchingClaim = errors.New("no matching claim")
)

// Plan is one row of the fixed price/quota table. The table is the
// single source of truth for the registry, the ledger and the
// activator: amount maps 1:1 to plan identity on the fallback path.
type Plan struct {
    ID                   string
    Name                 string
    Amount               int64 // MNT
    MaxCenters           int
    MaxImages            int // -1 means unlimited
    CanUploadVideo       bool
    HasAdvancedAnalytics bool
    HasMarketingBoost    bool
}

// plans is ordered by price; order matters only for listing.
var plans = []Plan{
    {ID: PlanNormal, Name: "Энгийн", Amount: 1990, MaxCenters: 0, MaxImages: 3},
    {ID: PlanBusinessStandard, Name: "Бизнес Стандарт", Amount: 19900, MaxCenters: 1, MaxImages: 3},
    {ID: PlanBusinessPro, Name: "Бизнес Про", Amount: 39900, MaxCenters: 2, MaxImages: -1,
        CanUploadVideo: true, HasAdvancedAnalytics: true, HasMarketingBoost: true},
}

// PlanByID looks up a plan by identifier.
func PlanByID(id string) (Plan, bool) {
    for _, p := range plans {
        if p.ID == id {
            return p, true
        }
    }
    return Plan{}, false
}

// PlanByAmount resolves plan identity from an amount. Amount is the
// primary discriminator only on the fallback path; on the code path the
// plan comes from the code itself.
func PlanByAmount(amount int64) (Plan, bool) {
    for _, p := range plans {
        if p.Amount == amount {
            return p, true
        }
    }
    return Plan{}, false
}

// Plans returns a copy of the full table for listing endpoints.
func Plans() []Plan {
    out := make([]Plan, len(plans))
    copy(out, plans)
    return out
}
