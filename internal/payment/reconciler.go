package payment

import (
	"context"
	"errors"

	"github.com/Saihna0731/PlayZone-MN-sub000/internal/model"
	"github.com/Saihna0731/PlayZone-MN-sub000/internal/repository"
)

// AuditStore is the sms_logs persistence surface. Implemented by
// repository.SmsLogRepo.
type AuditStore interface {
	ExistsByTransaction(ctx context.Context, transactionRef string) (bool, error)
	Insert(ctx context.Context, l *model.SmsLog) error
}

// CodeRedeemer is satisfied by *CodeRegistry.
type CodeRedeemer interface {
	Redeem(ctx context.Context, code string, amount int64) (model.PaymentCode, error)
}

// FallbackClaimer is satisfied by *PendingLedger.
type FallbackClaimer interface {
	Claim(ctx context.Context, amount int64, transactionRef string) (model.PendingPayment, error)
}

// Activator is satisfied by *PlanActivator.
type Activator interface {
	Activate(ctx context.Context, userID uint64, planID, method string) (model.Subscription, error)
}

// Notification is one inbound payment message.
type Notification struct {
	Sender string
	Text   string
	Source string // transport tag, e.g. "sms", "webhook"
}

// Result reports what the reconciler did with a notification. An
// unresolved notification is not an error: Processed is false and
// Reason says why, but the caller still acknowledges receipt so the
// upstream forwarder does not retry forever.
type Result struct {
	Processed      bool
	UserID         uint64
	PlanID         string
	Amount         int64
	TransactionRef string
	Provider       string
	Reason         string
}

// Reconciler drives a notification through parse, dedup, claim
// resolution and activation. Every outcome, resolved or not, lands as
// one sms_logs row.
type Reconciler struct {
	parsers   []NotificationParser
	audit     AuditStore
	codes     CodeRedeemer
	ledger    FallbackClaimer
	activator Activator
}

// NewReconciler wires the state machine. Parsers are tried in the order
// given; pass DefaultParsers() unless a test needs a fixed set.
func NewReconciler(parsers []NotificationParser, audit AuditStore, codes CodeRedeemer, ledger FallbackClaimer, activator Activator) *Reconciler {
	return &Reconciler{
		parsers:   parsers,
		audit:     audit,
		codes:     codes,
		ledger:    ledger,
		activator: activator,
	}
}

// Reconcile processes one notification:
//
//  1. run the parsers in priority order until one recognizes the text
//  2. no amount: audit and stop
//  3. no transaction reference: audit and stop
//  4. reference already seen: audit a replay row and stop
//  5. claim code present: redeem it; a found code with the wrong
//     amount is a hard stop, no ledger fallback
//  6. no code (or code unknown/expired): claim the ledger by amount
//  7. resolved: activate the plan, exactly once per reference
//  8. audit the final outcome
//
// Returned errors are infrastructure failures only; business rejections
// come back as Result.Reason.
func (r *Reconciler) Reconcile(ctx context.Context, n Notification) (Result, error) {
	parsed, provider := r.parse(n.Text)

	if parsed.Amount <= 0 {
		res := Result{Provider: provider, Reason: "unparseable amount"}
		err := r.auditRow(ctx, n, nil, nil, nil, nil, res.Reason)
		return res, err
	}
	amount := parsed.Amount

	if parsed.Reference == "" {
		res := Result{Amount: amount, Provider: provider, Reason: "missing transaction reference"}
		err := r.auditRow(ctx, n, &amount, nil, nil, nil, res.Reason)
		return res, err
	}
	ref := parsed.Reference

	seen, err := r.audit.ExistsByTransaction(ctx, ref)
	if err != nil {
		return Result{}, err
	}
	if seen {
		// Replay rows store no reference so they coexist with the
		// unique index on the first row.
		res := Result{Amount: amount, TransactionRef: ref, Provider: provider, Reason: "duplicate transaction"}
		err := r.auditRow(ctx, n, &amount, nil, nil, nil, res.Reason)
		return res, err
	}

	var (
		userID uint64
		planID string
	)
	resolved := false

	if code, ok := ExtractCode(n.Text); ok {
		c, err := r.codes.Redeem(ctx, code, amount)
		switch {
		case err == nil:
			userID, planID = c.UserID, c.PlanID
			resolved = true
		case errors.Is(err, ErrAmountMismatch):
			res := Result{Amount: amount, TransactionRef: ref, Provider: provider, Reason: "amount mismatch for code " + code}
			aerr := r.auditRow(ctx, n, &amount, &ref, nil, nil, res.Reason)
			return res, aerr
		case errors.Is(err, ErrCodeNotFound):
			// fall through to the ledger
		default:
			return Result{}, err
		}
	}

	if !resolved {
		p, err := r.ledger.Claim(ctx, amount, ref)
		switch {
		case err == nil:
			userID, planID = p.UserID, p.PlanID
			resolved = true
		case errors.Is(err, ErrNoMatchingClaim):
			res := Result{Amount: amount, TransactionRef: ref, Provider: provider, Reason: "no matching claim"}
			aerr := r.auditRow(ctx, n, &amount, &ref, nil, nil, res.Reason)
			return res, aerr
		default:
			return Result{}, err
		}
	}

	if _, err := r.activator.Activate(ctx, userID, planID, "sms"); err != nil {
		aerr := r.auditRow(ctx, n, &amount, &ref, &userID, &planID, "activation failed: "+err.Error())
		if aerr != nil {
			return Result{}, aerr
		}
		return Result{}, err
	}

	res := Result{
		Processed:      true,
		UserID:         userID,
		PlanID:         planID,
		Amount:         amount,
		TransactionRef: ref,
		Provider:       provider,
	}
	err = r.auditRow(ctx, n, &amount, &ref, &userID, &planID, "")
	return res, err
}

func (r *Reconciler) parse(text string) (ParseResult, string) {
	for _, p := range r.parsers {
		if res, ok := p.Parse(text); ok {
			return res, p.Provider()
		}
	}
	return ParseResult{}, ""
}

func (r *Reconciler) auditRow(ctx context.Context, n Notification, amount *int64, ref *string, userID *uint64, planID *string, reason string) error {
	row := model.SmsLog{
		Sender:         n.Sender,
		Message:        n.Text,
		Source:         n.Source,
		Processed:      reason == "",
		Amount:         amount,
		TransactionRef: ref,
		UserID:         userID,
		PlanID:         planID,
	}
	if reason != "" {
		row.Error = &reason
	}
	err := r.audit.Insert(ctx, &row)
	if errors.Is(err, repository.ErrDuplicateTransaction) {
		// Two copies of the same message raced past the dedup read.
		// Keep the losing row, minus the reference.
		row.TransactionRef = nil
		dup := "duplicate transaction"
		row.Processed = false
		row.Error = &dup
		return r.audit.Insert(ctx, &row)
	}
	return err
}
