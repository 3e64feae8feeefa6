package repository

import (
    "context"
    "database/sql"

    "github.com/Saihna0731/PlayZone-MN-sub000/internal/model"
)

// CenterRepo reads center records. The booking core only consumes the
// per-type capacity ceilings; listing CRUD owns everything else.
type CenterRepo struct {
    db *sql.DB
}

// NewCenterRepo returns a new CenterRepo bound to the given database.
func NewCenterRepo(db *sql.DB) *CenterRepo { return &CenterRepo{db: db} }

// GetByID fetches a center with its occupancy ceilings. sql.ErrNoRows
// when the center does not exist.
func (r *CenterRepo) GetByID(ctx context.Context, id uint64) (model.Center, error) {
    const q = `SELECT id, owner_id, name, capacity_standard, capacity_vip, capacity_stage, created_at
               FROM centers WHERE id = ? LIMIT 1`
    var c model.Center
    var ownerID sql.NullInt64
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &c.ID, &ownerID, &c.Name,
        &c.Occupancy.Standard, &c.Occupancy.VIP, &c.Occupancy.Stage,
        &c.CreatedAt,
    )
    if err != nil {
        return model.Center{}, err
    }
    if ownerID.Valid {
        oid := uint64(ownerID.Int64)
        c.OwnerID = &oid
    }
    return c, nil
}
