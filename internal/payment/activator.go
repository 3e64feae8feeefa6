package payment

import (
	"context"
	"time"

	"github.com/Saihna0731/PlayZone-MN-sub000/internal/model"
)

// SubscriberStore is the user persistence surface the activator needs.
// Implemented by repository.UserRepo.
type SubscriberStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
	UpdateSubscription(ctx context.Context, id uint64, sub model.Subscription) error
	DeactivateTrial(ctx context.Context, id uint64) error
}

// PlanActivator applies a paid plan to a user. Activation is a full
// overwrite of the subscription block, never a merge: re-activating the
// same plan restarts the period.
type PlanActivator struct {
	users SubscriberStore
	now   func() time.Time
}

// NewPlanActivator builds an activator over the given store.
func NewPlanActivator(users SubscriberStore) *PlanActivator {
	return &PlanActivator{users: users, now: time.Now}
}

// Activate applies planID to the user for one calendar month starting
// now. method records how the payment arrived ("sms", "qpay", "admin").
func (a *PlanActivator) Activate(ctx context.Context, userID uint64, planID, method string) (model.Subscription, error) {
	return a.activate(ctx, userID, planID, method, 0)
}

// ActivateForDays is the admin override with an explicit period length
// instead of the calendar-month default.
func (a *PlanActivator) ActivateForDays(ctx context.Context, userID uint64, planID, method string, days int) (model.Subscription, error) {
	return a.activate(ctx, userID, planID, method, days)
}

func (a *PlanActivator) activate(ctx context.Context, userID uint64, planID, method string, days int) (model.Subscription, error) {
	plan, ok := PlanByID(planID)
	if !ok || planID == PlanFree {
		return model.Subscription{}, ErrInvalidPlan
	}
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return model.Subscription{}, err
	}

	start := a.now().UTC()
	end := start.AddDate(0, 1, 0)
	if days > 0 {
		end = start.Add(time.Duration(days) * 24 * time.Hour)
	}

	sub := model.Subscription{
		Plan:                 plan.ID,
		IsActive:             true,
		StartDate:            &start,
		EndDate:              &end,
		AutoRenew:            false,
		PaymentMethod:        &method,
		MaxCenters:           plan.MaxCenters,
		MaxImages:            plan.MaxImages,
		CanUploadVideo:       plan.CanUploadVideo,
		HasAdvancedAnalytics: plan.HasAdvancedAnalytics,
		HasMarketingBoost:    plan.HasMarketingBoost,
	}
	if err := a.users.UpdateSubscription(ctx, userID, sub); err != nil {
		return model.Subscription{}, err
	}
	if user.Trial.IsActive {
		if err := a.users.DeactivateTrial(ctx, userID); err != nil {
			return model.Subscription{}, err
		}
	}
	return sub, nil
}
