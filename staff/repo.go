package staff

import "context"

// Repo is the persistence boundary for staff users.
type Repo interface {
	// GetByGUID returns the staff user whose GUID matches the IdP subject's
	// GUID claim. Returns errs.ErrStaffUserNotFound when no row exists.
	GetByGUID(ctx context.Context, guid string) (*StaffUser, error)
	// Upsert inserts or replaces a staff user keyed by GUID.
	Upsert(ctx context.Context, user *StaffUser) error
	// SetLocation moves the staff user to the given location. A nil location
	// clears the assignment. Returns errs.ErrStaffUserNotFound when no row
	// was updated.
	SetLocation(ctx context.Context, guid string, locationID *int64) error
}
