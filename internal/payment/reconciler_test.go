package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saihna0731/PlayZone-MN-sub000/internal/model"
)

type reconcilerFixture struct {
	codes    *fakeCodeStore
	ledger   *fakeLedgerStore
	users    *fakeUserStore
	audit    *fakeAuditStore
	registry *CodeRegistry
	pending  *PendingLedger
	rec      *Reconciler
}

func newReconcilerFixture(t *testing.T) *reconcilerFixture {
	t.Helper()
	f := &reconcilerFixture{
		codes:  &fakeCodeStore{},
		ledger: &fakeLedgerStore{},
		users:  newFakeUserStore(model.User{ID: 7}, model.User{ID: 9}),
		audit:  &fakeAuditStore{},
	}
	f.registry = NewCodeRegistry(f.codes)
	f.pending = NewPendingLedger(f.ledger)
	f.rec = NewReconciler(DefaultParsers(), f.audit, f.registry, f.pending, NewPlanActivator(f.users))
	return f
}

func (f *reconcilerFixture) seedCode(t *testing.T, code string, userID uint64, planID string) {
	t.Helper()
	plan, ok := PlanByID(planID)
	require.True(t, ok)
	require.NoError(t, f.codes.Insert(context.Background(), &model.PaymentCode{
		Code: code, UserID: userID, PlanID: plan.ID, Amount: plan.Amount,
		Status: model.CodeStatusPending, ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
	}))
}

func notifySms(text string) Notification {
	return Notification{Sender: "KhanBank", Text: text, Source: "sms"}
}

func TestReconcileViaCode(t *testing.T) {
	f := newReconcilerFixture(t)
	f.seedCode(t, "PZ-AB12CD", 7, PlanBusinessStandard)

	res, err := f.rec.Reconcile(context.Background(),
		notifySms("Tan-d 19,900 төгрөгийн орлого орлоо. Лавлах: 2508290011 Гүйлгээний утга: PZ-AB12CD"))
	require.NoError(t, err)

	assert.True(t, res.Processed)
	assert.Equal(t, uint64(7), res.UserID)
	assert.Equal(t, PlanBusinessStandard, res.PlanID)
	assert.Equal(t, "2508290011", res.TransactionRef)

	assert.Equal(t, model.CodeStatusUsed, f.codes.codes[0].Status)

	user, _ := f.users.GetByID(context.Background(), 7)
	assert.Equal(t, PlanBusinessStandard, user.Subscription.Plan)
	assert.True(t, user.Subscription.IsActive)
	require.NotNil(t, user.Subscription.EndDate)
	assert.Equal(t, user.Subscription.StartDate.AddDate(0, 1, 0), *user.Subscription.EndDate)

	require.Len(t, f.audit.rows, 1)
	assert.True(t, f.audit.rows[0].Processed)
}

func TestReconcileViaLedgerFallback(t *testing.T) {
	f := newReconcilerFixture(t)
	f.ledger.entries = append(f.ledger.entries, model.PendingPayment{
		ID: 1, UserID: 9, PlanID: PlanNormal, Amount: 1990,
		Status: model.PendingStatusPending, CreatedAt: time.Now().UTC().Add(-10 * time.Minute),
	})

	res, err := f.rec.Reconcile(context.Background(),
		notifySms("Tan-d 1,990 төгрөгийн орлого орлоо. Лавлах: 2508290022"))
	require.NoError(t, err)

	assert.True(t, res.Processed)
	assert.Equal(t, uint64(9), res.UserID)
	assert.Equal(t, PlanNormal, res.PlanID)
	assert.Equal(t, model.PendingStatusCompleted, f.ledger.entries[0].Status)

	user, _ := f.users.GetByID(context.Background(), 9)
	assert.Equal(t, PlanNormal, user.Subscription.Plan)
}

func TestReconcileDuplicateReference(t *testing.T) {
	f := newReconcilerFixture(t)
	f.seedCode(t, "PZ-AB12CD", 7, PlanBusinessStandard)
	text := "Tan-d 19,900 төгрөгийн орлого орлоо. Лавлах: 2508290033 Гүйлгээний утга: PZ-AB12CD"

	first, err := f.rec.Reconcile(context.Background(), notifySms(text))
	require.NoError(t, err)
	require.True(t, first.Processed)

	second, err := f.rec.Reconcile(context.Background(), notifySms(text))
	require.NoError(t, err)
	assert.False(t, second.Processed)
	assert.Equal(t, "duplicate transaction", second.Reason)

	// one row per attempt; the replay row holds no reference
	require.Len(t, f.audit.rows, 2)
	assert.Nil(t, f.audit.rows[1].TransactionRef)

	// the activation happened exactly once
	user, _ := f.users.GetByID(context.Background(), 7)
	require.NotNil(t, user.Subscription.StartDate)
	firstStart := *user.Subscription.StartDate
	user, _ = f.users.GetByID(context.Background(), 7)
	assert.Equal(t, firstStart, *user.Subscription.StartDate)
}

func TestReconcileCodeWinsOverLedger(t *testing.T) {
	f := newReconcilerFixture(t)
	f.seedCode(t, "PZ-AB12CD", 7, PlanBusinessStandard)
	f.ledger.entries = append(f.ledger.entries, model.PendingPayment{
		ID: 1, UserID: 9, PlanID: PlanBusinessStandard, Amount: 19900,
		Status: model.PendingStatusPending, CreatedAt: time.Now().UTC().Add(-5 * time.Minute),
	})

	res, err := f.rec.Reconcile(context.Background(),
		notifySms("Tan-d 19,900 төгрөгийн орлого орлоо. Лавлах: 2508290044 Гүйлгээний утга: PZ-AB12CD"))
	require.NoError(t, err)

	assert.Equal(t, uint64(7), res.UserID, "code path wins")
	assert.Equal(t, model.PendingStatusPending, f.ledger.entries[0].Status, "ledger entry untouched")
}

func TestReconcileAmountMismatchDoesNotFallBack(t *testing.T) {
	f := newReconcilerFixture(t)
	f.seedCode(t, "PZ-AB12CD", 7, PlanBusinessStandard) // expects 19900
	f.ledger.entries = append(f.ledger.entries, model.PendingPayment{
		ID: 1, UserID: 9, PlanID: PlanNormal, Amount: 1990,
		Status: model.PendingStatusPending, CreatedAt: time.Now().UTC().Add(-5 * time.Minute),
	})

	res, err := f.rec.Reconcile(context.Background(),
		notifySms("Tan-d 1,990 төгрөгийн орлого орлоо. Лавлах: 2508290055 Гүйлгээний утга: PZ-AB12CD"))
	require.NoError(t, err)

	assert.False(t, res.Processed)
	assert.Contains(t, res.Reason, "amount mismatch")
	assert.Equal(t, model.CodeStatusPending, f.codes.codes[0].Status)
	assert.Equal(t, model.PendingStatusPending, f.ledger.entries[0].Status,
		"a found code with a wrong amount must not drain the ledger")
}

func TestReconcileUnknownCodeFallsBack(t *testing.T) {
	f := newReconcilerFixture(t)
	f.ledger.entries = append(f.ledger.entries, model.PendingPayment{
		ID: 1, UserID: 9, PlanID: PlanBusinessStandard, Amount: 19900,
		Status: model.PendingStatusPending, CreatedAt: time.Now().UTC().Add(-5 * time.Minute),
	})

	res, err := f.rec.Reconcile(context.Background(),
		notifySms("Tan-d 19,900 төгрөгийн орлого орлоо. Лавлах: 2508290066 Гүйлгээний утга: PZ-ZZ99ZZ"))
	require.NoError(t, err)

	assert.True(t, res.Processed)
	assert.Equal(t, uint64(9), res.UserID)
}

func TestReconcileUnresolvedIsNotAnError(t *testing.T) {
	f := newReconcilerFixture(t)

	res, err := f.rec.Reconcile(context.Background(),
		notifySms("Tan-d 19,900 төгрөгийн орлого орлоо. Лавлах: 2508290077"))
	require.NoError(t, err)

	assert.False(t, res.Processed)
	assert.Equal(t, "no matching claim", res.Reason)
	require.Len(t, f.audit.rows, 1)
	require.NotNil(t, f.audit.rows[0].TransactionRef)
	assert.Equal(t, "2508290077", *f.audit.rows[0].TransactionRef)
}

func TestReconcileUnparseableAmount(t *testing.T) {
	f := newReconcilerFixture(t)

	res, err := f.rec.Reconcile(context.Background(), notifySms("hello world"))
	require.NoError(t, err)

	assert.False(t, res.Processed)
	assert.Equal(t, "unparseable amount", res.Reason)
	require.Len(t, f.audit.rows, 1)
	assert.Nil(t, f.audit.rows[0].Amount)
	require.NotNil(t, f.audit.rows[0].Error)
}

func TestReconcileMissingReference(t *testing.T) {
	f := newReconcilerFixture(t)

	res, err := f.rec.Reconcile(context.Background(), notifySms("19900₮"))
	require.NoError(t, err)

	assert.False(t, res.Processed)
	assert.Equal(t, "missing transaction reference", res.Reason)
	require.Len(t, f.audit.rows, 1)
	require.NotNil(t, f.audit.rows[0].Amount)
	assert.Equal(t, int64(19900), *f.audit.rows[0].Amount)
	assert.Nil(t, f.audit.rows[0].TransactionRef)
}
