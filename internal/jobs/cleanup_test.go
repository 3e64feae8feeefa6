package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookingStore struct {
	cutoff  time.Time
	deleted int64
}

func (f *fakeBookingStore) DeleteCreatedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.deleted, nil
}

func TestRunUsesFiveDayCutoff(t *testing.T) {
	store := &fakeBookingStore{deleted: 12}
	c := NewBookingCleaner(store)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	n, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
	assert.Equal(t, now.Add(-5*24*time.Hour), store.cutoff)
}
