package model

import "time"

// QPay invoice statuses mirror the gateway's own vocabulary.
const (
    InvoiceStatusPending   = "PENDING"
    InvoiceStatusPaid      = "PAID"
    InvoiceStatusExpired   = "EXPIRED"
    InvoiceStatusCancelled = "CANCELLED"
)

// QPayInvoice stores an invoice created through the QPay gateway along
// with the QR payload returned for it. Rows are purged by storage 30
// days after creation.
type QPayInvoice struct {
    ID            uint64     // qpay_invoices.id
    UserID        uint64     // qpay_invoices.user_id
    InvoiceCode   string     // qpay_invoices.invoice_code (our sender invoice no, unique)
    QPayInvoiceID string     // qpay_invoices.qpay_invoice_id
    PlanID        string     // qpay_invoices.plan_id
    Amount        int64      // qpay_invoices.amount
    QRText        string     // qpay_invoices.qr_text
    QRImage       string     // qpay_invoices.qr_image
    Status        string     // qpay_invoices.status
    PaidAt        *time.Time // qpay_invoices.paid_at (nullable)
    CreatedAt     time.Time  // qpay_invoices.created_at
}
