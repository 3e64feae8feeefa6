// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedEvent is published when a booking passes the capacity
// check and lands in the bookings table. It carries enough for
// downstream consumers to log or notify without querying the primary
// database.
type BookingCreatedEvent struct {
	BookingID  uint64 `json:"booking_id"`
	UserID     uint64 `json:"user_id"`
	CenterID   uint64 `json:"center_id"`
	CenterName string `json:"center_name"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Duration   int    `json:"duration_hours"`
	SeatType   string `json:"seat_type"`
	Seats      int    `json:"seats"`
	Price      int64  `json:"price_mnt"`
	CreatedAt  string `json:"created_at"`
}

// SubscriptionActivatedEvent is published after a paid plan is applied
// to a user, whatever the payment path (code, ledger fallback, QPay,
// admin).
type SubscriptionActivatedEvent struct {
	UserID        uint64 `json:"user_id"`
	PlanID        string `json:"plan_id"`
	Amount        int64  `json:"amount_mnt"`
	PaymentMethod string `json:"payment_method"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
}
