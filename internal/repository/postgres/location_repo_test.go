package postgres

import (
	"context"
	"testing"

	"github.com/bcgov/sbc-queue-session/internal/errs"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func TestLocationRepo_Get(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewLocationRepo(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT id, name, address, city, timezone FROM locations WHERE id=\$1`).
		WithArgs(int64(4)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "address", "city", "timezone"}).
			AddRow(int64(4), "Service BC - Victoria", "717 Fort St", "Victoria", "America/Vancouver"))
	l, err := r.Get(ctx, 4)
	require.NoError(t, err)
	require.Equal(t, "Service BC - Victoria", l.Name)

	mock.ExpectQuery(`SELECT id, name, address, city, timezone FROM locations WHERE id=\$1`).
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.Get(ctx, 99)
	require.ErrorIs(t, err, errs.ErrLocationNotFound)
}
