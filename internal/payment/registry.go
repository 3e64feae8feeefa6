package payment

import (
    "context"
    "crypto/rand"
    "database/sql"
    "errors"
    "time"

    "github.com/Saihna0731/PlayZone-MN-sub000/internal/model"
    "github.com/Saihna0731/PlayZone-MN-sub000/internal/repository"
)

// Code format: PZ- prefix plus six characters drawn from an alphabet
// with the visually ambiguous 0/O and 1/I removed.
const (
    codePrefix          = "PZ-"
    codeAlphabet        = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
    codeLength          = 6
    maxGenerateAttempts = 10
    codeTTL             = 24 * time.Hour
)

// CodeStore is the persistence surface the registry needs. Implemented
// by repository.PaymentCodeRepo.
type CodeStore interface {
    FindActiveByUser(ctx context.Context, userID uint64, now time.Time) (model.PaymentCode, error)
    FindRedeemable(ctx context.Context, code string, now time.Time) (model.PaymentCode, error)
    Insert(ctx context.Context, c *model.PaymentCode) error
    MarkUsed(ctx context.Context, id uint64, usedAt time.Time) error
}

// CodeRegistry issues and redeems claim codes. Issue is idempotent per
// user while an active code exists; Redeem transitions a code to used
// at most once.
type CodeRegistry struct {
    codes CodeStore
    now   func() time.Time
}

// NewCodeRegistry builds a registry over the given store.
func NewCodeRegistry(codes CodeStore) *CodeRegistry {
    return &CodeRegistry{codes: codes, now: time.Now}
}

// Issue returns the user's active code, minting a new one only when
// none is pending and unexpired. Repeat requests while a code is live
// return that code unchanged. The collision retry loop is optimistic:
// a duplicate insert regenerates rather than failing the request, up
// to maxGenerateAttempts.
func (r *CodeRegistry) Issue(ctx context.Context, userID uint64, planID string) (model.PaymentCode, error) {
    plan, ok := PlanByID(planID)
    if !ok || planID == PlanFree {
        return model.PaymentCode{}, ErrInvalidPlan
    }
    now := r.now().UTC()

    existing, err := r.codes.FindActiveByUser(ctx, userID, now)
    if err == nil {
        return existing, nil
    }
    if !errors.Is(err, sql.ErrNoRows) {
        return model.PaymentCode{}, err
    }

    for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
        code, err := randomCode()
        if err != nil {
            return model.PaymentCode{}, err
        }
        c := model.PaymentCode{
            Code:      code,
            UserID:    userID,
            PlanID:    plan.ID,
            Amount:    plan.Amount,
            Status:    model.CodeStatusPending,
            ExpiresAt: now.Add(codeTTL),
        }
        err = r.codes.Insert(ctx, &c)
        if err == nil {
            return c, nil
        }
        if errors.Is(err, repository.ErrDuplicateCode) {
            continue
        }
        return model.PaymentCode{}, err
    }
    return model.PaymentCode{}, ErrCodeGeneration
}

// Redeem finds the code matching exactly {code, pending, unexpired} and
// marks it used. A found code whose stored amount differs from the
// notification amount is a hard mismatch. The status-guarded update in
// the store makes redemption single-shot even when two notifications
// race on the same code.
func (r *CodeRegistry) Redeem(ctx context.Context, code string, amount int64) (model.PaymentCode, error) {
    now := r.now().UTC()
    c, err := r.codes.FindRedeemable(ctx, code, now)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return model.PaymentCode{}, ErrCodeNotFound
        }
        return model.PaymentCode{}, err
    }
    if c.Amount != amount {
        return model.PaymentCode{}, ErrAmountMismatch
    }
    if err := r.codes.MarkUsed(ctx, c.ID, now); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            // Lost the race: someone redeemed it between find and update.
            return model.PaymentCode{}, ErrCodeNotFound
        }
        return model.PaymentCode{}, err
    }
    c.Status = model.CodeStatusUsed
    c.UsedAt = &now
    return c, nil
}

// randomCode draws codeLength characters from the alphabet using
// crypto/rand and prepends the prefix.
func randomCode() (string, error) {
    buf := make([]byte, codeLength)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    out := make([]byte, codeLength)
    for i, b := range buf {
        out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
    }
    return codePrefix + string(out), nil
}
