package model

import "time"

// Account types and roles stored on the users table.
const (
    AccountTypeUser        = "user"
    AccountTypeCenterOwner = "centerOwner"

    RoleUser        = "user"
    RoleCenterOwner = "centerOwner"
    RoleAdmin       = "admin"
)

// User represents an application user record as stored in the `users`
// table. The subscription and trial objects are embedded as columns on
// the same row; they are mutated only by the plan activator or the
// administrative set-plan path.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  FullName     – display name.
//  Phone        – contact phone (optional).
//  AccountType  – user or centerOwner.
//  Role         – user, centerOwner or admin.
//  IsActive     – whether the account is active.
//  Subscription – embedded subscription state.
//  Trial        – embedded trial state.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64       // users.id
    Email        string       // users.email
    PasswordHash string       // users.password_hash
    FullName     string       // users.full_name
    Phone        *string      // users.phone (nullable)
    AccountType  string       // users.account_type
    Role         string       // users.role
    IsActive     bool         // users.is_active
    Subscription Subscription // users.sub_* columns
    Trial        Trial        // users.trial_* columns
    CreatedAt    time.Time    // users.created_at
    UpdatedAt    time.Time    // users.updated_at
}

// Subscription is the plan state embedded in a user row. Activation is a
// full overwrite of every field here, never a merge: re-activating a plan
// resets the dates instead of extending them.
//
// Fields:
//  Plan                  – free, normal, business_standard or business_pro.
//  IsActive              – whether the subscription is currently active.
//  StartDate / EndDate   – validity window (nil when never activated).
//  AutoRenew             – renewal flag.
//  PaymentMethod         – source tag (sms, qpay, admin, mock...).
//  MaxCenters            – how many centers the user may own.
//  MaxImages             – image quota (-1 means unlimited).
//  CanUploadVideo        – video feature flag.
//  HasAdvancedAnalytics  – analytics feature flag.
//  HasMarketingBoost     – marketing feature flag.
type Subscription struct {
    Plan                 string     // users.sub_plan
    IsActive             bool       // users.sub_is_active
    StartDate            *time.Time // users.sub_start_date (nullable)
    EndDate              *time.Time // users.sub_end_date (nullable)
    AutoRenew            bool       // users.sub_auto_renew
    PaymentMethod        *string    // users.sub_payment_method (nullable)
    MaxCenters           int        // users.sub_max_centers
    MaxImages            int        // users.sub_max_images
    CanUploadVideo       bool       // users.sub_can_upload_video
    HasAdvancedAnalytics bool       // users.sub_has_advanced_analytics
    HasMarketingBoost    bool       // users.sub_has_marketing_boost
}

// Trial is the free-trial state embedded in a user row. An active trial
// is deactivated when a paid plan is applied.
type Trial struct {
    IsActive  bool       // users.trial_is_active
    Plan      *string    // users.trial_plan (nullable)
    StartDate *time.Time // users.trial_start_date (nullable)
    EndDate   *time.Time // users.trial_end_date (nullable)
    HasUsed   bool       // users.trial_has_used
}
