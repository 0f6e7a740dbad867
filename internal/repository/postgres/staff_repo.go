package postgres

import (
	"context"
	"errors"

	"github.com/bcgov/sbc-queue-session/internal/errs"
	"github.com/bcgov/sbc-queue-session/staff"
	"github.com/jackc/pgx/v5"
)

// StaffRepo implements staff.Repo using PostgreSQL.
type StaffRepo struct{ db *DB }

var _ staff.Repo = (*StaffRepo)(nil)

// NewStaffRepo constructs a staff user repository.
func NewStaffRepo(db *DB) *StaffRepo { return &StaffRepo{db: db} }

// GetByGUID selects a staff user by the GUID claim of their IdP subject.
func (r *StaffRepo) GetByGUID(ctx context.Context, guid string) (*staff.StaffUser, error) {
	const q = `
SELECT guid, sub, role, is_active, deleted_at, location_id, created_at, updated_at
FROM staff_users WHERE guid=$1`
	row := r.db.Pool.QueryRow(ctx, q, guid)
	var u staff.StaffUser
	if err := row.Scan(&u.GUID, &u.Sub, &u.Role, &u.IsActive, &u.DeletedAt, &u.LocationID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrStaffUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Upsert inserts or replaces a staff user row keyed by GUID.
func (r *StaffRepo) Upsert(ctx context.Context, u *staff.StaffUser) error {
	const q = `
INSERT INTO staff_users (guid, sub, role, is_active, deleted_at, location_id)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (guid) DO UPDATE
SET sub = EXCLUDED.sub,
    role = EXCLUDED.role,
    is_active = EXCLUDED.is_active,
    deleted_at = EXCLUDED.deleted_at,
    location_id = EXCLUDED.location_id,
    updated_at = now()`
	_, err := r.db.Pool.Exec(ctx, q, u.GUID, u.Sub, u.Role, u.IsActive, u.DeletedAt, u.LocationID)
	return err
}

// SetLocation moves a staff user to a location; a nil id clears the assignment.
func (r *StaffRepo) SetLocation(ctx context.Context, guid string, locationID *int64) error {
	const q = `
UPDATE staff_users
SET location_id = $2, updated_at = now()
WHERE guid = $1 AND deleted_at IS NULL`
	tag, err := r.db.Pool.Exec(ctx, q, guid, locationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrStaffUserNotFound
	}
	return nil
}
