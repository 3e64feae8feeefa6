package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Saihna0731/PlayZone-MN-sub000/internal/model"
	"github.com/Saihna0731/PlayZone-MN-sub000/internal/payment"
	"github.com/Saihna0731/PlayZone-MN-sub000/internal/repository"
)

// SubscriptionHandler serves the self-service subscription routes and
// the admin set-plan override.
type SubscriptionHandler struct {
	Users     *repository.UserRepo
	Ledger    *payment.PendingLedger
	Registry  *payment.CodeRegistry
	Activator *payment.PlanActivator
}

func NewSubscriptionHandler(users *repository.UserRepo, ledger *payment.PendingLedger, reg *payment.CodeRegistry, act *payment.PlanActivator) *SubscriptionHandler {
	return &SubscriptionHandler{Users: users, Ledger: ledger, Registry: reg, Activator: act}
}

// Me returns the raw stored subscription block.
func (h *SubscriptionHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"subscription": u.Subscription, "trial": u.Trial})
}

type upgradeReq struct {
	PlanID string `json:"plan_id"`
}

// Upgrade starts a paid upgrade: it opens a pending-payment ledger
// entry (30-minute window, matched by amount) and issues the user's
// claim code, so either payment path can complete the purchase.
// Repurchasing the currently active plan is rejected.
func (h *SubscriptionHandler) Upgrade(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req upgradeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	planID := strings.TrimSpace(req.PlanID)
	plan, ok := payment.PlanByID(planID)
	if !ok || planID == payment.PlanFree {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid plan"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	now := time.Now().UTC()
	if u.Subscription.IsActive && u.Subscription.Plan == plan.ID &&
		(u.Subscription.EndDate == nil || u.Subscription.EndDate.After(now)) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "plan already active"})
	}

	pending, err := h.Ledger.Open(ctx, uid, plan.ID, plan.Amount)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "open pending payment failed"})
	}
	code, err := h.Registry.Issue(ctx, uid, plan.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue code failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"plan_id": plan.ID,
		"amount":  plan.Amount,
		"pending": echo.Map{
			"id":         pending.ID,
			"expires_at": pending.ExpiresAt,
		},
		"code": echo.Map{
			"code":       code.Code,
			"expires_at": code.ExpiresAt,
		},
		"instructions": "Шилжүүлгийн утга дээр кодоо бичнэ үү",
	})
}

// Cancel clears the active and auto-renew flags.  The rest of the
// subscription state is kept for the status endpoint to display.
func (h *SubscriptionHandler) Cancel(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.CancelSubscription(ctx, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"cancelled": true})
}

type adminSetPlanReq struct {
	UserID uint64 `json:"user_id"`
	PlanID string `json:"plan_id"`
	Days   int    `json:"days"` // optional period override
}

// AdminSetPlan applies a plan to any user without a payment, optionally
// for an explicit number of days instead of the calendar month.
func (h *SubscriptionHandler) AdminSetPlan(c echo.Context) error {
	var req adminSetPlanReq
	if err := c.Bind(&req); err != nil || req.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id and plan_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var sub model.Subscription
	var err error
	if req.Days > 0 {
		sub, err = h.Activator.ActivateForDays(ctx, req.UserID, strings.TrimSpace(req.PlanID), "admin", req.Days)
	} else {
		sub, err = h.Activator.Activate(ctx, req.UserID, strings.TrimSpace(req.PlanID), "admin")
	}
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidPlan):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid plan"})
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "set plan failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"subscription": sub})
}

// Plans lists the purchasable plan table.  Public and response-cached.
func (h *SubscriptionHandler) Plans(c echo.Context) error {
	type planResp struct {
		ID                   string `json:"id"`
		Name                 string `json:"name"`
		Amount               int64  `json:"amount"`
		MaxCenters           int    `json:"max_centers"`
		MaxImages            int    `json:"max_images"`
		CanUploadVideo       bool   `json:"can_upload_video"`
		HasAdvancedAnalytics bool   `json:"has_advanced_analytics"`
		HasMarketingBoost    bool   `json:"has_marketing_boost"`
	}
	plans := payment.Plans()
	out := make([]planResp, 0, len(plans))
	for _, p := range plans {
		out = append(out, planResp{
			ID: p.ID, Name: p.Name, Amount: p.Amount,
			MaxCenters: p.MaxCenters, MaxImages: p.MaxImages,
			CanUploadVideo: p.CanUploadVideo, HasAdvancedAnalytics: p.HasAdvancedAnalytics,
			HasMarketingBoost: p.HasMarketingBoost,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"plans": out})
}
