package model

import "time"

// Booking statuses. Any declared status may be written over any other;
// the update path does not validate the prior state.
const (
    BookingStatusPending   = "pending"
    BookingStatusConfirmed = "confirmed"
    BookingStatusCancelled = "cancelled"
    BookingStatusCompleted = "completed"
)

// Seat types. Each type has its own independent capacity and price on
// the center record.
const (
    SeatTypeStandard = "standard"
    SeatTypeVIP      = "vip"
    SeatTypeStage    = "stage"
)

// Booking records a time-boxed seat reservation at a gaming center.
// Date is stored as a date-only string (YYYY-MM-DD) and Time as a
// minute-precision clock string (HH:mm); duration is whole hours.
// This struct corresponds to a row in the `bookings` table.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user who made the booking.
//  CenterID  – center being booked.
//  Date      – calendar date of the booking (YYYY-MM-DD).
//  Time      – start time (HH:mm).
//  Duration  – length in hours.
//  SeatType  – standard, vip or stage.
//  Seats     – number of seats taken (>= 1).
//  Price     – quoted price in MNT.
//  Status    – pending, confirmed, cancelled or completed.
//  CreatedAt – creation timestamp; retention cleanup keys off this,
//              not off Date.
type Booking struct {
    ID        uint64    // bookings.id
    UserID    uint64    // bookings.user_id
    CenterID  uint64    // bookings.center_id
    Date      string    // bookings.date
    Time      string    // bookings.time
    Duration  int       // bookings.duration
    SeatType  string    // bookings.seat_type
    Seats     int       // bookings.seats
    Price     int64     // bookings.price
    Status    string    // bookings.status
    CreatedAt time.Time // bookings.created_at
}
