// Package jobs holds maintenance entry points designed to be triggered
// externally (cron hitting an authenticated route) rather than by an
// in-process timer. Each job runs once per invocation and reports what
// it did.
package jobs

import (
	"context"
	"time"
)

// bookingRetention is how long booking rows live, measured from
// created_at. Scheduled date and status are irrelevant: a confirmed
// future booking created six days ago is deleted too.
const bookingRetention = 5 * 24 * time.Hour

// BookingStore is the slice of the booking repository the cleaner needs.
type BookingStore interface {
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// BookingCleaner deletes bookings past the retention window.
type BookingCleaner struct {
	bookings BookingStore
	now      func() time.Time
}

// NewBookingCleaner builds a cleaner over the given store.
func NewBookingCleaner(bookings BookingStore) *BookingCleaner {
	return &BookingCleaner{bookings: bookings, now: time.Now}
}

// Run executes one retention pass and returns the number of deleted
// rows. Idempotent: concurrent or repeated runs delete nothing extra.
func (c *BookingCleaner) Run(ctx context.Context) (int64, error) {
	cutoff := c.now().UTC().Add(-bookingRetention)
	return c.bookings.DeleteCreatedBefore(ctx, cutoff)
}
