package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Saihna0731/PlayZone-MN-sub000/internal/payment"
	"github.com/Saihna0731/PlayZone-MN-sub000/internal/queue"
	"github.com/Saihna0731/PlayZone-MN-sub000/internal/repository"
	queue_publisher "github.com/Saihna0731/PlayZone-MN-sub000/internal/service"
)

// PaymentHandler bundles the claim-code registry, the reconciler and
// the user store behind the payment routes.
type PaymentHandler struct {
	Registry   *payment.CodeRegistry
	Reconciler *payment.Reconciler
	Users      *repository.UserRepo
}

func NewPaymentHandler(reg *payment.CodeRegistry, rec *payment.Reconciler, users *repository.UserRepo) *PaymentHandler {
	return &PaymentHandler{Registry: reg, Reconciler: rec, Users: users}
}

type generateCodeReq struct {
	PlanID string `json:"plan_id"`
}

// GenerateCode issues (or re-issues) the caller's claim code for a paid
// plan.  Idempotent while an active code exists.
func (h *PaymentHandler) GenerateCode(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req generateCodeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	code, err := h.Registry.Issue(ctx, uid, strings.TrimSpace(req.PlanID))
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidPlan):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid plan"})
		case errors.Is(err, payment.ErrCodeGeneration):
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not generate code, try again"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue code failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"code":       code.Code,
		"plan_id":    code.PlanID,
		"amount":     code.Amount,
		"expires_at": code.ExpiresAt,
	})
}

type smsNotifyReq struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
	Text    string `json:"text"` // some forwarders use "text" instead of "message"
}

// SmsNotify is the inbound payment notification webhook, protected by
// the shared X-API-Key.  The reconciler decides what the text means; an
// unresolved notification is still a 200 so the forwarder does not
// retry forever — only infrastructure failures are 5xx.
func (h *PaymentHandler) SmsNotify(c echo.Context) error {
	var req smsNotifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid body"})
	}
	text := strings.TrimSpace(req.Message)
	if text == "" {
		text = strings.TrimSpace(req.Text)
	}
	if text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "message required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	res, err := h.Reconciler.Reconcile(ctx, payment.Notification{
		Sender: strings.TrimSpace(req.Sender),
		Text:   text,
		Source: "sms",
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "reconciliation failed"})
	}
	if !res.Processed {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "error": res.Reason})
	}

	h.publishActivation(res)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"plan_id": res.PlanID,
		"user_id": res.UserID,
	})
}

// publishActivation emits the subscription.activated event for a
// successful reconciliation.  Best effort.
func (h *PaymentHandler) publishActivation(res payment.Result) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		ev := queue.SubscriptionActivatedEvent{
			UserID:        res.UserID,
			PlanID:        res.PlanID,
			Amount:        res.Amount,
			PaymentMethod: "sms",
		}
		if u, err := h.Users.GetByID(ctx, res.UserID); err == nil {
			if u.Subscription.StartDate != nil {
				ev.StartDate = u.Subscription.StartDate.UTC().Format(time.RFC3339)
			}
			if u.Subscription.EndDate != nil {
				ev.EndDate = u.Subscription.EndDate.UTC().Format(time.RFC3339)
			}
		}
		if err := queue_publisher.PublishSubscriptionActivated(ctx, ev); err != nil {
			log.Printf("payment: publish activation event failed: %v", err)
		}
	}()
}

// SubscriptionStatus reports the caller's effective subscription.  An
// active trial shows as the trial plan; quota fields fall back to the
// plan defaults when the stored value is zero.
func (h *PaymentHandler) SubscriptionStatus(c echo.Context) error {
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

	now := time.Now().UTC()
	sub := u.Subscription
	active := sub.IsActive && (sub.EndDate == nil || sub.EndDate.After(now))

	trialActive := u.Trial.IsActive && (u.Trial.EndDate == nil || u.Trial.EndDate.After(now))
	effectivePlan := sub.Plan
	if effectivePlan == "" {
		effectivePlan = payment.PlanFree
	}
	if !active && trialActive && u.Trial.Plan != nil {
		effectivePlan = *u.Trial.Plan
		active = true
	}

	// Stored zero quotas fall back to the plan defaults.
	maxCenters := sub.MaxCenters
	maxImages := sub.MaxImages
	if plan, ok := payment.PlanByID(effectivePlan); ok {
		if maxCenters == 0 {
			maxCenters = plan.MaxCenters
		}
		if maxImages == 0 {
			maxImages = plan.MaxImages
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"plan":                   effectivePlan,
		"is_active":              active,
		"is_trial":               !sub.IsActive && trialActive,
		"start_date":             sub.StartDate,
		"end_date":               sub.EndDate,
		"payment_method":         sub.PaymentMethod,
		"max_centers":            maxCenters,
		"max_images":             maxImages,
		"can_upload_video":       sub.CanUploadVideo,
		"has_advanced_analytics": sub.HasAdvancedAnalytics,
		"has_marketing_boost":    sub.HasMarketingBoost,
	})
}
