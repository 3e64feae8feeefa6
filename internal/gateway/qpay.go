// Package gateway holds clients for external payment providers.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// tokenCache is the cached gateway credential. It is a plain value
// owned by the client; nothing outside the client ever sees it.
type tokenCache struct {
	accessToken string
	expiresAt   time.Time
}

// valid reports whether the token can still be used. A small skew is
// subtracted so a token is never presented within a minute of expiry.
func (t tokenCache) valid(now time.Time) bool {
	return t.accessToken != "" && now.Add(time.Minute).Before(t.expiresAt)
}

// QPayConfig carries the merchant credentials and endpoints.
type QPayConfig struct {
	BaseURL     string
	Username    string
	Password    string
	InvoiceCode string // merchant template code assigned by QPay
	CallbackURL string
}

// QPayClient talks to the QPay v2 REST API. Safe for concurrent use;
// the token cache is refreshed under the mutex when it expires.
type QPayClient struct {
	cfg  QPayConfig
	http *http.Client
	now  func() time.Time

	mu    sync.Mutex
	token tokenCache
}

// NewQPayClient builds a client with a sane request timeout.
func NewQPayClient(cfg QPayConfig) *QPayClient {
	return &QPayClient{
		cfg:  cfg,
		http: &http.Client{Timeout: 15 * time.Second},
		now:  time.Now,
	}
}

// Invoice is the gateway's answer to an invoice creation request.
type Invoice struct {
	InvoiceID string     `json:"invoice_id"`
	QRText    string     `json:"qr_text"`
	QRImage   string     `json:"qr_image"`
	URLs      []DeepLink `json:"urls"`
}

// DeepLink is one bank-app payment link attached to an invoice.
type DeepLink struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// PaymentCheck summarizes the gateway's view of an invoice's payments.
type PaymentCheck struct {
	Count      int
	PaidAmount int64
}

// Paid reports whether the invoice has at least one settled payment.
func (p PaymentCheck) Paid() bool { return p.Count > 0 && p.PaidAmount > 0 }

type qpayTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// accessToken returns a usable bearer token, refreshing the cache when
// the held one has expired.
func (c *QPayClient) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.token.valid(now) {
		return c.token.accessToken, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/auth/token", nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("qpay token request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", gatewayError("token", resp)
	}

	var tr qpayTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("qpay token decode: %w", err)
	}
	c.token = tokenCache{
		accessToken: tr.AccessToken,
		expiresAt:   now.Add(time.Duration(tr.ExpiresIn) * time.Second),
	}
	return c.token.accessToken, nil
}

// invalidateToken drops the cached token so the next call re-auths.
func (c *QPayClient) invalidateToken() {
	c.mu.Lock()
	c.token = tokenCache{}
	c.mu.Unlock()
}

// CreateInvoice opens an invoice for amount MNT. senderInvoiceNo is our
// unique reference; it comes back in the callback.
func (c *QPayClient) CreateInvoice(ctx context.Context, senderInvoiceNo string, amount int64, description string) (Invoice, error) {
	body := map[string]any{
		"invoice_code":          c.cfg.InvoiceCode,
		"sender_invoice_no":     senderInvoiceNo,
		"invoice_receiver_code": "terminal",
		"invoice_description":   description,
		"amount":                amount,
		"callback_url":          fmt.Sprintf("%s?invoice=%s", c.cfg.CallbackURL, senderInvoiceNo),
	}
	var inv Invoice
	if err := c.call(ctx, http.MethodPost, "/invoice", body, &inv); err != nil {
		return Invoice{}, err
	}
	return inv, nil
}

type qpayCheckResponse struct {
	Count int `json:"count"`
	Rows  []struct {
		PaymentStatus string  `json:"payment_status"`
		PaymentAmount float64 `json:"payment_amount"`
	} `json:"rows"`
}

// CheckPayment asks the gateway whether the invoice has been paid.
func (c *QPayClient) CheckPayment(ctx context.Context, qpayInvoiceID string) (PaymentCheck, error) {
	body := map[string]any{
		"object_type": "INVOICE",
		"object_id":   qpayInvoiceID,
		"offset":      map[string]any{"page_number": 1, "page_limit": 100},
	}
	var cr qpayCheckResponse
	if err := c.call(ctx, http.MethodPost, "/payment/check", body, &cr); err != nil {
		return PaymentCheck{}, err
	}
	out := PaymentCheck{}
	for _, row := range cr.Rows {
		if row.PaymentStatus == "PAID" {
			out.Count++
			out.PaidAmount += int64(row.PaymentAmount)
		}
	}
	return out, nil
}

// call performs one authenticated request, retrying once after a 401
// with a fresh token.
func (c *QPayClient) call(ctx context.Context, method, path string, body any, out any) error {
	for attempt := 0; attempt < 2; attempt++ {
		token, err := c.accessToken(ctx)
		if err != nil {
			return err
		}

		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("qpay %s: %w", path, err)
		}
		if resp.StatusCode == http.StatusUnauthorized && attempt == 0 {
			resp.Body.Close()
			c.invalidateToken()
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			defer resp.Body.Close()
			return gatewayError(path, resp)
		}
		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("qpay %s decode: %w", path, err)
		}
		return nil
	}
	return fmt.Errorf("qpay %s: unauthorized after token refresh", path)
}

func gatewayError(op string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("qpay %s: status %d: %s", op, resp.StatusCode, bytes.TrimSpace(snippet))
}
