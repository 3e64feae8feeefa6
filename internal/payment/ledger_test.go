package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saihna0731/PlayZone-MN-sub000/internal/model"
)

func testLedger(store *fakeLedgerStore, at time.Time) *PendingLedger {
	l := NewPendingLedger(store)
	l.now = func() time.Time { return at }
	return l
}

func TestOpenValidatesPlanAndAmount(t *testing.T) {
	l := testLedger(&fakeLedgerStore{}, time.Now().UTC())

	_, err := l.Open(context.Background(), 3, "platinum", 9999)
	assert.ErrorIs(t, err, ErrInvalidPlan)

	_, err = l.Open(context.Background(), 3, PlanNormal, 2000)
	assert.ErrorIs(t, err, ErrAmountMismatch)

	p, err := l.Open(context.Background(), 3, PlanNormal, 1990)
	require.NoError(t, err)
	assert.Equal(t, model.PendingStatusPending, p.Status)
	assert.Equal(t, int64(1990), p.Amount)
}

func TestOpenExpiresEarlierEntries(t *testing.T) {
	store := &fakeLedgerStore{}
	now := time.Now().UTC()
	l := testLedger(store, now)

	first, err := l.Open(context.Background(), 3, PlanNormal, 1990)
	require.NoError(t, err)
	second, err := l.Open(context.Background(), 3, PlanBusinessStandard, 19900)
	require.NoError(t, err)

	assert.Equal(t, model.PendingStatusExpired, store.entries[0].Status)
	assert.Equal(t, model.PendingStatusPending, store.entries[1].Status)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestOpenSetsThirtyMinuteExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	l := testLedger(&fakeLedgerStore{}, now)

	p, err := l.Open(context.Background(), 3, PlanNormal, 1990)
	require.NoError(t, err)
	assert.Equal(t, now.Add(30*time.Minute), p.ExpiresAt)
}

func TestClaimMatchesEntryInsideWindow(t *testing.T) {
	store := &fakeLedgerStore{}
	now := time.Now().UTC()
	l := testLedger(store, now)

	store.entries = append(store.entries, model.PendingPayment{
		ID: 1, UserID: 3, PlanID: PlanNormal, Amount: 1990,
		Status: model.PendingStatusPending, CreatedAt: now.Add(-10 * time.Minute),
	})

	p, err := l.Claim(context.Background(), 1990, "TX1001")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), p.UserID)
	assert.Equal(t, model.PendingStatusCompleted, p.Status)
	require.NotNil(t, p.TransactionRef)
	assert.Equal(t, "TX1001", *p.TransactionRef)
	assert.Equal(t, model.PendingStatusCompleted, store.entries[0].Status)
}

func TestClaimPrefersNewestEntry(t *testing.T) {
	store := &fakeLedgerStore{}
	now := time.Now().UTC()
	l := testLedger(store, now)

	store.entries = append(store.entries,
		model.PendingPayment{ID: 1, UserID: 3, PlanID: PlanNormal, Amount: 1990,
			Status: model.PendingStatusPending, CreatedAt: now.Add(-20 * time.Minute)},
		model.PendingPayment{ID: 2, UserID: 9, PlanID: PlanNormal, Amount: 1990,
			Status: model.PendingStatusPending, CreatedAt: now.Add(-5 * time.Minute)},
	)

	p, err := l.Claim(context.Background(), 1990, "TX1002")
	require.NoError(t, err)
	assert.Equal(t, uint64(9), p.UserID)
}

func TestClaimIgnoresEntriesOutsideWindow(t *testing.T) {
	store := &fakeLedgerStore{}
	now := time.Now().UTC()
	l := testLedger(store, now)

	store.entries = append(store.entries, model.PendingPayment{
		ID: 1, UserID: 3, PlanID: PlanNormal, Amount: 1990,
		Status: model.PendingStatusPending, CreatedAt: now.Add(-31 * time.Minute),
	})

	_, err := l.Claim(context.Background(), 1990, "TX1003")
	assert.ErrorIs(t, err, ErrNoMatchingClaim)
}

func TestClaimIgnoresWrongAmount(t *testing.T) {
	store := &fakeLedgerStore{}
	now := time.Now().UTC()
	l := testLedger(store, now)

	store.entries = append(store.entries, model.PendingPayment{
		ID: 1, UserID: 3, PlanID: PlanBusinessStandard, Amount: 19900,
		Status: model.PendingStatusPending, CreatedAt: now.Add(-5 * time.Minute),
	})

	_, err := l.Claim(context.Background(), 1990, "TX1004")
	assert.ErrorIs(t, err, ErrNoMatchingClaim)
}
