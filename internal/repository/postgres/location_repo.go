package postgres

import (
	"context"
	"errors"

	"github.com/bcgov/sbc-queue-session/internal/errs"
	"github.com/bcgov/sbc-queue-session/locations"
	"github.com/jackc/pgx/v5"
)

// LocationRepo implements locations.Repo using PostgreSQL.
type LocationRepo struct{ db *DB }

var _ locations.Repo = (*LocationRepo)(nil)

// NewLocationRepo constructs a service location repository.
func NewLocationRepo(db *DB) *LocationRepo { return &LocationRepo{db: db} }

// Get selects a location by id.
func (r *LocationRepo) Get(ctx context.Context, id int64) (*locations.Location, error) {
	const q = `
SELECT id, name, address, city, timezone
FROM locations WHERE id=$1`
	row := r.db.Pool.QueryRow(ctx, q, id)
	var l locations.Location
	if err := row.Scan(&l.ID, &l.Name, &l.Address, &l.City, &l.Timezone); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrLocationNotFound
		}
		return nil, err
	}
	return &l, nil
}
