package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/Saihna0731/PlayZone-MN-sub000/internal/model"
    "github.com/Saihna0731/PlayZone-MN-sub000/internal/utils"
)

// UserRepo persists user accounts and their embedded subscription and
// trial state.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, email, password_hash, full_name, phone, account_type, role, is_active,
    sub_plan, sub_is_active, sub_start_date, sub_end_date, sub_auto_renew, sub_payment_method,
    sub_max_centers, sub_max_images, sub_can_upload_video, sub_has_advanced_analytics, sub_has_marketing_boost,
    trial_is_active, trial_plan, trial_start_date, trial_end_date, trial_has_used,
    created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
    var u model.User
    var phone, payMethod, trialPlan sql.NullString
    var subStart, subEnd, trialStart, trialEnd sql.NullTime
    err := row.Scan(
        &u.ID, &u.Email, &u.PasswordHash, &u.FullName, &phone, &u.AccountType, &u.Role, &u.IsActive,
        &u.Subscription.Plan, &u.Subscription.IsActive, &subStart, &subEnd,
        &u.Subscription.AutoRenew, &payMethod,
        &u.Subscription.MaxCenters, &u.Subscription.MaxImages,
        &u.Subscription.CanUploadVideo, &u.Subscription.HasAdvancedAnalytics, &u.Subscription.HasMarketingBoost,
        &u.Trial.IsActive, &trialPlan, &trialStart, &trialEnd, &u.Trial.HasUsed,
        &u.CreatedAt, &u.UpdatedAt,
    )
    if err != nil {
        return model.User{}, err
    }
    if phone.Valid {
        p := phone.String
        u.Phone = &p
    }
    if payMethod.Valid {
        m := payMethod.String
        u.Subscription.PaymentMethod = &m
    }
    if subStart.Valid {
        t := subStart.Time
        u.Subscription.StartDate = &t
    }
    if subEnd.Valid {
        t := subEnd.Time
        u.Subscription.EndDate = &t
    }
    if trialPlan.Valid {
        p := trialPlan.String
        u.Trial.Plan = &p
    }
    if trialStart.Valid {
        t := trialStart.Time
        u.Trial.StartDate = &t
    }
    if trialEnd.Valid {
        t := trialEnd.Time
        u.Trial.EndDate = &t
    }
    return u, nil
}

// Create inserts a user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, password, fullName, accountType, role string, cost int) (uint64, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    hash, err := utils.HashPassword(password, cost)
    if err != nil {
        return 0, err
    }
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO users (email, password_hash, full_name, account_type, role) VALUES (?,?,?,?,?)",
        email, hash, fullName, accountType, role)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return 0, ErrEmailExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    return scanUser(r.DB.QueryRowContext(ctx,
        "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
    return scanUser(r.DB.QueryRowContext(ctx,
        "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// UpdateSubscription overwrites every subscription column on the user
// row in a single statement. This is a full overwrite, not a merge:
// callers supply the complete new state, and re-activating a plan
// resets the dates rather than extending them.
func (r *UserRepo) UpdateSubscription(ctx context.Context, userID uint64, s model.Subscription) error {
    const q = `UPDATE users SET
        sub_plan=?, sub_is_active=?, sub_start_date=?, sub_end_date=?, sub_auto_renew=?, sub_payment_method=?,
        sub_max_centers=?, sub_max_images=?, sub_can_upload_video=?, sub_has_advanced_analytics=?, sub_has_marketing_boost=?
        WHERE id=?`
    res, err := r.DB.ExecContext(ctx, q,
        s.Plan, s.IsActive, s.StartDate, s.EndDate, s.AutoRenew, s.PaymentMethod,
        s.MaxCenters, s.MaxImages, s.CanUploadVideo, s.HasAdvancedAnalytics, s.HasMarketingBoost,
        userID)
    if err != nil {
        return err
    }
    if n, err := res.RowsAffected(); err == nil && n == 0 {
        var exists int
        if err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id=? LIMIT 1", userID).Scan(&exists); err != nil {
            return err
        }
    }
    return nil
}

// DeactivateTrial clears the active flag on the user's trial.
func (r *UserRepo) DeactivateTrial(ctx context.Context, userID uint64) error {
    _, err := r.DB.ExecContext(ctx,
        "UPDATE users SET trial_is_active=0 WHERE id=? AND trial_is_active=1", userID)
    return err
}

// CancelSubscription clears the active and auto-renew flags without
// touching the rest of the subscription state.
func (r *UserRepo) CancelSubscription(ctx context.Context, userID uint64) error {
    _, err := r.DB.ExecContext(ctx,
        "UPDATE users SET sub_is_active=0, sub_auto_renew=0 WHERE id=?", userID)
    return err
}
