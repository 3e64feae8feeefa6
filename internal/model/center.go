package model

import "time"

// Center represents a bookable gaming venue. Only the fields the booking
// core reads are modelled here; listing CRUD owns and edits the rest.
//
// Fields:
//  ID        – primary key identifier.
//  OwnerID   – user ID of the center owner (nil for unclaimed listings).
//  Name      – display name.
//  Occupancy – per-seat-type capacity ceilings.
//  CreatedAt – creation timestamp.
type Center struct {
    ID        uint64    // centers.id
    OwnerID   *uint64   // centers.owner_id (nullable)
    Name      string    // centers.name
    Occupancy Occupancy // capacity columns, see below
    CreatedAt time.Time // centers.created_at
}

// Occupancy holds the configured capacity ceiling for each seat type.
// A value of zero means the ceiling is not enforced for that type.
type Occupancy struct {
    Standard int // centers.capacity_standard
    VIP      int // centers.capacity_vip
    Stage    int // centers.capacity_stage
}

// ForType returns the capacity ceiling for the given seat type. Unknown
// types report zero, which the checker treats as unlimited.
func (o Occupancy) ForType(seatType string) int {
    switch seatType {
    case SeatTypeStandard:
        return o.Standard
    case SeatTypeVIP:
        return o.VIP
    case SeatTypeStage:
        return o.Stage
    }
    return 0
}
