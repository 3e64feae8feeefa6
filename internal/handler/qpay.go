package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Saihna0731/PlayZone-MN-sub000/internal/gateway"
	"github.com/Saihna0731/PlayZone-MN-sub000/internal/model"
	"github.com/Saihna0731/PlayZone-MN-sub000/internal/payment"
	"github.com/Saihna0731/PlayZone-MN-sub000/internal/repository"
)

// QPayHandler drives the QPay purchase flow: create an invoice, poll or
// receive the callback, verify with the gateway, then activate.
type QPayHandler struct {
	Client    *gateway.QPayClient
	Invoices  *repository.QPayInvoiceRepo
	Activator *payment.PlanActivator
}

func NewQPayHandler(client *gateway.QPayClient, invoices *repository.QPayInvoiceRepo, act *payment.PlanActivator) *QPayHandler {
	return &QPayHandler{Client: client, Invoices: invoices, Activator: act}
}

type createInvoiceReq struct {
	PlanID string `json:"plan_id"`
}

// CreateInvoice opens a QPay invoice for a paid plan and persists it.
func (h *QPayHandler) CreateInvoice(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createInvoiceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	plan, ok := payment.PlanByID(strings.TrimSpace(req.PlanID))
	if !ok || plan.ID == payment.PlanFree {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid plan"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 20*time.Second)
	defer cancel()

	// Our reference: unique per user and instant.
	invoiceCode := fmt.Sprintf("PZINV-%d-%d", uid, time.Now().UTC().UnixMilli())

	inv, err := h.Client.CreateInvoice(ctx, invoiceCode, plan.Amount, "PlayZone "+plan.ID)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "gateway invoice failed"})
	}

	rec := model.QPayInvoice{
		UserID:        uid,
		InvoiceCode:   invoiceCode,
		QPayInvoiceID: inv.InvoiceID,
		PlanID:        plan.ID,
		Amount:        plan.Amount,
		QRText:        inv.QRText,
		QRImage:       inv.QRImage,
		Status:        model.InvoiceStatusPending,
	}
	if err := h.Invoices.Insert(ctx, &rec); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save invoice failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"invoice_id": rec.QPayInvoiceID,
		"qr_text":    rec.QRText,
		"qr_image":   rec.QRImage,
		"urls":       inv.URLs,
		"amount":     rec.Amount,
		"plan_id":    rec.PlanID,
	})
}

type checkPaymentReq struct {
	InvoiceID string `json:"invoice_id"`
}

// CheckPayment verifies an invoice with the gateway and activates the
// plan when it has been paid in full.  Safe to call repeatedly: a paid
// invoice stays paid and activation restarts the same period at most
// once per call, like re-running the callback.
func (h *QPayHandler) CheckPayment(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req checkPaymentReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.InvoiceID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invoice_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 20*time.Second)
	defer cancel()

	rec, err := h.Invoices.FindForUser(ctx, strings.TrimSpace(req.InvoiceID), uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "invoice not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load invoice failed"})
	}

	paid, err := h.settle(ctx, rec)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "gateway check failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"paid": paid, "invoice_id": rec.QPayInvoiceID})
}

// Callback is QPay's server-to-server notification.  The gateway is not
// trusted on its word: the payment is re-verified by API before the
// plan is activated.  Always 200 on verification outcomes so the
// gateway stops retrying; only lookups and storage failures are errors.
func (h *QPayHandler) Callback(c echo.Context) error {
	id := c.QueryParam("invoice")
	if id == "" {
		id = c.QueryParam("qpay_payment_id")
	}
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invoice reference required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 20*time.Second)
	defer cancel()

	rec, err := h.Invoices.FindByGatewayID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "invoice not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load invoice failed"})
	}

	paid, err := h.settle(ctx, rec)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "gateway check failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"received": true, "paid": paid})
}

// settle re-checks one invoice with the gateway and, when paid in full
// and not yet marked, records it and activates the plan.
func (h *QPayHandler) settle(ctx context.Context, rec model.QPayInvoice) (bool, error) {
	if rec.Status == model.InvoiceStatusPaid {
		return true, nil
	}
	check, err := h.Client.CheckPayment(ctx, rec.QPayInvoiceID)
	if err != nil {
		return false, err
	}
	if !check.Paid() || check.PaidAmount < rec.Amount {
		return false, nil
	}

	now := time.Now().UTC()
	if err := h.Invoices.MarkPaid(ctx, rec.QPayInvoiceID, now); err != nil {
		return false, err
	}
	if _, err := h.Activator.Activate(ctx, rec.UserID, rec.PlanID, "qpay"); err != nil {
		return false, err
	}
	return true, nil
}

// GetInvoice returns one of the caller's invoices.
func (h *QPayHandler) GetInvoice(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invoice id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rec, err := h.Invoices.FindForUser(ctx, id, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "invoice not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load invoice failed"})
	}
	return c.JSON(http.StatusOK, rec)
}

// MyInvoices lists the caller's recent invoices.
func (h *QPayHandler) MyInvoices(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Invoices.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load invoices failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"invoices": list})
}
