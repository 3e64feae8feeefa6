package payment

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saihna0731/PlayZone-MN-sub000/internal/model"
	"github.com/Saihna0731/PlayZone-MN-sub000/internal/repository"
)

var codeFormat = regexp.MustCompile(`^PZ-[A-HJ-NP-Z2-9]{6}$`)

func testRegistry(store *fakeCodeStore, at time.Time) *CodeRegistry {
	r := NewCodeRegistry(store)
	r.now = func() time.Time { return at }
	return r
}

func TestIssueGeneratesWellFormedCode(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := testRegistry(&fakeCodeStore{}, now)

	c, err := r.Issue(context.Background(), 7, PlanBusinessStandard)
	require.NoError(t, err)
	assert.Regexp(t, codeFormat, c.Code)
	assert.Equal(t, int64(19900), c.Amount)
	assert.Equal(t, model.CodeStatusPending, c.Status)
	assert.Equal(t, now.Add(24*time.Hour), c.ExpiresAt)
}

func TestIssueIsIdempotentWhileActive(t *testing.T) {
	now := time.Now().UTC()
	r := testRegistry(&fakeCodeStore{}, now)

	first, err := r.Issue(context.Background(), 7, PlanNormal)
	require.NoError(t, err)
	second, err := r.Issue(context.Background(), 7, PlanNormal)
	require.NoError(t, err)
	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, first.ID, second.ID)
}

func TestIssueMintsFreshCodeAfterExpiry(t *testing.T) {
	store := &fakeCodeStore{}
	now := time.Now().UTC()
	r := testRegistry(store, now)

	first, err := r.Issue(context.Background(), 7, PlanNormal)
	require.NoError(t, err)

	r.now = func() time.Time { return now.Add(25 * time.Hour) }
	second, err := r.Issue(context.Background(), 7, PlanNormal)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestIssueRetriesOnCollision(t *testing.T) {
	store := &fakeCodeStore{insertErrs: []error{repository.ErrDuplicateCode, repository.ErrDuplicateCode}}
	r := testRegistry(store, time.Now().UTC())

	c, err := r.Issue(context.Background(), 7, PlanBusinessPro)
	require.NoError(t, err)
	assert.Regexp(t, codeFormat, c.Code)
}

func TestIssueFailsAfterExhaustingRetries(t *testing.T) {
	errs := make([]error, maxGenerateAttempts)
	for i := range errs {
		errs[i] = repository.ErrDuplicateCode
	}
	r := testRegistry(&fakeCodeStore{insertErrs: errs}, time.Now().UTC())

	_, err := r.Issue(context.Background(), 7, PlanNormal)
	assert.ErrorIs(t, err, ErrCodeGeneration)
}

func TestIssueRejectsUnknownOrFreePlan(t *testing.T) {
	r := testRegistry(&fakeCodeStore{}, time.Now().UTC())

	_, err := r.Issue(context.Background(), 7, "platinum")
	assert.ErrorIs(t, err, ErrInvalidPlan)
	_, err = r.Issue(context.Background(), 7, PlanFree)
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestRedeemMarksUsedExactlyOnce(t *testing.T) {
	store := &fakeCodeStore{}
	r := testRegistry(store, time.Now().UTC())

	issued, err := r.Issue(context.Background(), 7, PlanBusinessStandard)
	require.NoError(t, err)

	redeemed, err := r.Redeem(context.Background(), issued.Code, 19900)
	require.NoError(t, err)
	assert.Equal(t, model.CodeStatusUsed, redeemed.Status)
	require.NotNil(t, redeemed.UsedAt)

	_, err = r.Redeem(context.Background(), issued.Code, 19900)
	assert.ErrorIs(t, err, ErrCodeNotFound)
}

func TestRedeemAmountMismatchIsHardError(t *testing.T) {
	store := &fakeCodeStore{}
	r := testRegistry(store, time.Now().UTC())

	issued, err := r.Issue(context.Background(), 7, PlanBusinessStandard)
	require.NoError(t, err)

	_, err = r.Redeem(context.Background(), issued.Code, 1990)
	assert.ErrorIs(t, err, ErrAmountMismatch)

	// the code survives the mismatch untouched
	redeemed, err := r.Redeem(context.Background(), issued.Code, 19900)
	require.NoError(t, err)
	assert.Equal(t, model.CodeStatusUsed, redeemed.Status)
}

func TestRedeemExpiredCode(t *testing.T) {
	store := &fakeCodeStore{}
	now := time.Now().UTC()
	r := testRegistry(store, now)

	issued, err := r.Issue(context.Background(), 7, PlanNormal)
	require.NoError(t, err)

	r.now = func() time.Time { return now.Add(24*time.Hour + time.Minute) }
	_, err = r.Redeem(context.Background(), issued.Code, 1990)
	assert.ErrorIs(t, err, ErrCodeNotFound)
}

func TestRedeemUnknownCode(t *testing.T) {
	r := testRegistry(&fakeCodeStore{}, time.Now().UTC())
	_, err := r.Redeem(context.Background(), "PZ-ZZZZZZ", 1990)
	assert.True(t, errors.Is(err, ErrCodeNotFound))
}
