package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQPay struct {
	tokenCalls   int
	invoiceCalls int
	checkCalls   int
	rejectToken  string // bearer token to reject with 401, once
}

func (f *fakeQPay) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/token", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "merchant" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		f.tokenCalls++
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-" + string(rune('0'+f.tokenCalls)),
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/invoice", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if f.unauthorized(w, r) {
			return
		}
		f.invoiceCalls++
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]any{
			"invoice_id": "QP-001",
			"qr_text":    "qr-payload",
			"qr_image":   "base64-image",
			"urls": []map[string]string{
				{"name": "Khan bank", "link": "khanbank://pay"},
			},
		})
	})
	mux.HandleFunc("/payment/check", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if f.unauthorized(w, r) {
			return
		}
		f.checkCalls++
		json.NewEncoder(w).Encode(map[string]any{
			"count": 1,
			"rows": []map[string]any{
				{"payment_status": "PAID", "payment_amount": 19900.0},
				{"payment_status": "REFUNDED", "payment_amount": 500.0},
			},
		})
	})
	return mux
}

func (f *fakeQPay) unauthorized(w http.ResponseWriter, r *http.Request) bool {
	got := r.Header.Get("Authorization")
	if f.rejectToken != "" && got == "Bearer "+f.rejectToken {
		f.rejectToken = ""
		w.WriteHeader(http.StatusUnauthorized)
		return true
	}
	return false
}

func newTestClient(t *testing.T) (*QPayClient, *fakeQPay) {
	t.Helper()
	f := &fakeQPay{}
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	c := NewQPayClient(QPayConfig{
		BaseURL:     srv.URL,
		Username:    "merchant",
		Password:    "secret",
		InvoiceCode: "PLAYZONE_INVOICE",
		CallbackURL: "https://example.mn/v1/qpay/callback",
	})
	return c, f
}

func TestCreateInvoice(t *testing.T) {
	c, f := newTestClient(t)

	inv, err := c.CreateInvoice(context.Background(), "PZINV-42", 19900, "business_standard")
	require.NoError(t, err)
	assert.Equal(t, "QP-001", inv.InvoiceID)
	assert.Equal(t, "qr-payload", inv.QRText)
	assert.Len(t, inv.URLs, 1)
	assert.Equal(t, 1, f.tokenCalls)
	assert.Equal(t, 1, f.invoiceCalls)
}

func TestTokenIsCachedAcrossCalls(t *testing.T) {
	c, f := newTestClient(t)

	_, err := c.CreateInvoice(context.Background(), "PZINV-1", 1990, "normal")
	require.NoError(t, err)
	_, err = c.CheckPayment(context.Background(), "QP-001")
	require.NoError(t, err)

	assert.Equal(t, 1, f.tokenCalls, "second call reuses the cached token")
}

func TestTokenRefreshAfterExpiry(t *testing.T) {
	c, f := newTestClient(t)
	base := time.Now()
	c.now = func() time.Time { return base }

	_, err := c.CreateInvoice(context.Background(), "PZINV-1", 1990, "normal")
	require.NoError(t, err)

	c.now = func() time.Time { return base.Add(2 * time.Hour) }
	_, err = c.CheckPayment(context.Background(), "QP-001")
	require.NoError(t, err)

	assert.Equal(t, 2, f.tokenCalls)
}

func TestRetriesOnceOnUnauthorized(t *testing.T) {
	c, f := newTestClient(t)

	// first issued token will be rejected once
	f.rejectToken = "tok-1"
	inv, err := c.CreateInvoice(context.Background(), "PZINV-1", 1990, "normal")
	require.NoError(t, err)
	assert.Equal(t, "QP-001", inv.InvoiceID)
	assert.Equal(t, 2, f.tokenCalls, "401 forces a re-auth")
}

func TestCheckPaymentCountsOnlyPaidRows(t *testing.T) {
	c, _ := newTestClient(t)

	check, err := c.CheckPayment(context.Background(), "QP-001")
	require.NoError(t, err)
	assert.Equal(t, 1, check.Count)
	assert.Equal(t, int64(19900), check.PaidAmount)
	assert.True(t, check.Paid())
}

func TestGatewayErrorSurfacesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "merchant suspended", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	c := NewQPayClient(QPayConfig{BaseURL: srv.URL, Username: "merchant", Password: "secret"})
	_, err := c.accessToken(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
