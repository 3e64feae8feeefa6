package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saihna0731/PlayZone-MN-sub000/internal/model"
)

func TestActivateOverwritesSubscription(t *testing.T) {
	old := "qpay"
	start := time.Now().Add(-40 * 24 * time.Hour)
	users := newFakeUserStore(model.User{
		ID: 5,
		Subscription: model.Subscription{
			Plan: PlanBusinessPro, IsActive: true, AutoRenew: true,
			StartDate: &start, PaymentMethod: &old,
			MaxCenters: 2, MaxImages: -1, CanUploadVideo: true,
			HasAdvancedAnalytics: true, HasMarketingBoost: true,
		},
	})
	a := NewPlanActivator(users)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return now }

	sub, err := a.Activate(context.Background(), 5, PlanBusinessStandard, "sms")
	require.NoError(t, err)

	// downgrade is a clean overwrite: pro-only flags are gone
	assert.Equal(t, PlanBusinessStandard, sub.Plan)
	assert.True(t, sub.IsActive)
	assert.False(t, sub.AutoRenew)
	assert.False(t, sub.CanUploadVideo)
	assert.Equal(t, 1, sub.MaxCenters)
	assert.Equal(t, 3, sub.MaxImages)
	require.NotNil(t, sub.PaymentMethod)
	assert.Equal(t, "sms", *sub.PaymentMethod)
	require.NotNil(t, sub.StartDate)
	assert.Equal(t, now, *sub.StartDate)
	require.NotNil(t, sub.EndDate)
	assert.Equal(t, now.AddDate(0, 1, 0), *sub.EndDate)

	stored, err := users.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, sub, stored.Subscription)
}

func TestActivateCalendarMonthEndDate(t *testing.T) {
	users := newFakeUserStore(model.User{ID: 5})
	a := NewPlanActivator(users)
	// Jan 31 + 1 month normalizes into March, matching calendar-month
	// arithmetic rather than a fixed 30 days
	now := time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return now }

	sub, err := a.Activate(context.Background(), 5, PlanNormal, "sms")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC), *sub.EndDate)
}

func TestActivateDeactivatesTrial(t *testing.T) {
	users := newFakeUserStore(model.User{ID: 5, Trial: model.Trial{IsActive: true}})
	a := NewPlanActivator(users)

	_, err := a.Activate(context.Background(), 5, PlanBusinessPro, "qpay")
	require.NoError(t, err)

	stored, _ := users.GetByID(context.Background(), 5)
	assert.False(t, stored.Trial.IsActive)
	assert.True(t, stored.Trial.HasUsed)
}

func TestActivateRejectsInvalidPlan(t *testing.T) {
	a := NewPlanActivator(newFakeUserStore(model.User{ID: 5}))
	_, err := a.Activate(context.Background(), 5, PlanFree, "admin")
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestActivateForDaysOverridesPeriod(t *testing.T) {
	users := newFakeUserStore(model.User{ID: 5})
	a := NewPlanActivator(users)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return now }

	sub, err := a.ActivateForDays(context.Background(), 5, PlanBusinessPro, "admin", 7)
	require.NoError(t, err)
	assert.Equal(t, now.Add(7*24*time.Hour), *sub.EndDate)
}
