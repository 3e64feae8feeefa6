package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/Saihna0731/PlayZone-MN-sub000/internal/model"
)

// QPayInvoiceRepo persists invoices created through the payment gateway.
type QPayInvoiceRepo struct {
    db *sql.DB
}

// NewQPayInvoiceRepo returns a new QPayInvoiceRepo bound to the database.
func NewQPayInvoiceRepo(db *sql.DB) *QPayInvoiceRepo { return &QPayInvoiceRepo{db: db} }

const invoiceColumns = `id, user_id, invoice_code, qpay_invoice_id, plan_id, amount, qr_text, qr_image, status, paid_at, created_at`

func scanInvoice(row interface{ Scan(...any) error }) (model.QPayInvoice, error) {
    var inv model.QPayInvoice
    var paidAt sql.NullTime
    err := row.Scan(&inv.ID, &inv.UserID, &inv.InvoiceCode, &inv.QPayInvoiceID,
        &inv.PlanID, &inv.Amount, &inv.QRText, &inv.QRImage, &inv.Status, &paidAt, &inv.CreatedAt)
    if err != nil {
        return model.QPayInvoice{}, err
    }
    if paidAt.Valid {
        t := paidAt.Time
        inv.PaidAt = &t
    }
    return inv, nil
}

// Insert persists a freshly created invoice.
func (r *QPayInvoiceRepo) Insert(ctx context.Context, inv *model.QPayInvoice) error {
    const q = `INSERT INTO qpay_invoices (user_id, invoice_code, qpay_invoice_id, plan_id, amount, qr_text, qr_image, status)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, inv.UserID, inv.InvoiceCode, inv.QPayInvoiceID,
        inv.PlanID, inv.Amount, inv.QRText, inv.QRImage, inv.Status)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    inv.ID = uint64(id)
    return r.db.QueryRowContext(ctx, `SELECT created_at FROM qpay_invoices WHERE id = ?`, inv.ID).Scan(&inv.CreatedAt)
}

// FindByGatewayID fetches an invoice by either the gateway's invoice id
// or our own invoice code.
func (r *QPayInvoiceRepo) FindByGatewayID(ctx context.Context, id string) (model.QPayInvoice, error) {
    const q = `SELECT ` + invoiceColumns + ` FROM qpay_invoices
               WHERE qpay_invoice_id = ? OR invoice_code = ? LIMIT 1`
    return scanInvoice(r.db.QueryRowContext(ctx, q, id, id))
}

// FindForUser fetches an invoice scoped to its owner.
func (r *QPayInvoiceRepo) FindForUser(ctx context.Context, id string, userID uint64) (model.QPayInvoice, error) {
    const q = `SELECT ` + invoiceColumns + ` FROM qpay_invoices
               WHERE (qpay_invoice_id = ? OR invoice_code = ?) AND user_id = ? LIMIT 1`
    return scanInvoice(r.db.QueryRowContext(ctx, q, id, id, userID))
}

// ListByUser returns the user's ten most recent invoices.
func (r *QPayInvoiceRepo) ListByUser(ctx context.Context, userID uint64) ([]model.QPayInvoice, error) {
    const q = `SELECT ` + invoiceColumns + ` FROM qpay_invoices
               WHERE user_id = ? ORDER BY created_at DESC LIMIT 10`
    rows, err := r.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.QPayInvoice, 0)
    for rows.Next() {
        inv, err := scanInvoice(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, inv)
    }
    return out, rows.Err()
}

// MarkPaid records a successful payment check against the invoice.
func (r *QPayInvoiceRepo) MarkPaid(ctx context.Context, qpayInvoiceID string, paidAt time.Time) error {
    const q = `UPDATE qpay_invoices SET status = 'PAID', paid_at = ? WHERE qpay_invoice_id = ? AND status <> 'PAID'`
    _, err := r.db.ExecContext(ctx, q, paidAt, qpayInvoiceID)
    return err
}
