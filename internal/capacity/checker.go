// Package capacity implements the seat-overlap check for time-boxed
// bookings. It is pure: callers fetch the existing non-cancelled
// bookings for the same (center, date, seat type) tuple and perform the
// write themselves. Because the check and the insert are not wrapped in
// a transaction, two concurrent requests can both pass before either
// write lands; the risk profile is accepted and documented at the call
// site.
package capacity

import (
    "fmt"
    "strconv"
    "strings"

    "github.com/Saihna0731/PlayZone-MN-sub000/internal/model"
)

// Error reports a rejected booking request. Remaining carries
// max(0, capacity-occupied) so the caller can render a user-facing
// message without re-running the computation.
type Error struct {
    SeatType  string
    Capacity  int
    Occupied  int
    Requested int
    Remaining int
}

func (e *Error) Error() string {
    return fmt.Sprintf("capacity exceeded for %s seats: %d occupied of %d, %d requested, %d remaining",
        e.SeatType, e.Occupied, e.Capacity, e.Requested, e.Remaining)
}

// Request describes the candidate booking being checked.
type Request struct {
    Time     string // HH:mm
    Duration int    // hours
    SeatType string
    Seats    int
}

// ParseMinutes converts an HH:mm clock string to minutes since
// midnight. Malformed input yields an error rather than a zero slot.
func ParseMinutes(clock string) (int, error) {
    parts := strings.SplitN(strings.TrimSpace(clock), ":", 2)
    if len(parts) != 2 {
        return 0, fmt.Errorf("invalid time %q", clock)
    }
    h, err := strconv.Atoi(parts[0])
    if err != nil {
        return 0, fmt.Errorf("invalid time %q", clock)
    }
    m, err := strconv.Atoi(parts[1])
    if err != nil {
        return 0, fmt.Errorf("invalid time %q", clock)
    }
    if h < 0 || h > 23 || m < 0 || m > 59 {
        return 0, fmt.Errorf("invalid time %q", clock)
    }
    return h*60 + m, nil
}

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect. Exactly adjacent intervals (e1 == s2) do not overlap.
func Overlaps(s1, e1, s2, e2 int) bool {
    return s1 < e2 && e1 > s2
}

// Check computes the occupied seat count over all existing bookings
// whose interval overlaps the request and accepts iff capacity is
// unenforced (zero) or occupied+requested fits under it. Existing
// bookings with malformed times are skipped, matching how the stored
// strings were always consumed.
func Check(req Request, capacity int, existing []model.Booking) error {
    reqStart, err := ParseMinutes(req.Time)
    if err != nil {
        return err
    }
    reqEnd := reqStart + req.Duration*60

    occupied := 0
    for _, b := range existing {
        start, err := ParseMinutes(b.Time)
        if err != nil {
            continue
        }
        end := start + b.Duration*60
        if Overlaps(reqStart, reqEnd, start, end) {
            seats := b.Seats
            if seats < 1 {
                seats = 1
            }
            occupied += seats
        }
    }

    if capacity > 0 && occupied+req.Seats > capacity {
        remaining := capacity - occupied
        if remaining < 0 {
            remaining = 0
        }
        return &Error{
            SeatType:  req.SeatType,
            Capacity:  capacity,
            Occupied:  occupied,
            Requested: req.Seats,
            Remaining: remaining,
        }
    }
    return nil
}
