package repofake

import (
	"context"
	"sync"
	"time"

	"github.com/bcgov/sbc-queue-session/internal/errs"
	"github.com/bcgov/sbc-queue-session/staff"
)

var _ staff.Repo = (*FakeStaffRepo)(nil)

// FakeStaffRepo is an in-memory staff.Repo for tests.
type FakeStaffRepo struct {
	users map[string]*staff.StaffUser
	lock  sync.RWMutex
}

func NewFakeStaffRepo() *FakeStaffRepo {
	return &FakeStaffRepo{users: make(map[string]*staff.StaffUser)}
}

func (sr *FakeStaffRepo) GetByGUID(_ context.Context, guid string) (*staff.StaffUser, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	user, ok := sr.users[guid]
	if !ok {
		return nil, errs.ErrStaffUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (sr *FakeStaffRepo) Upsert(_ context.Context, user *staff.StaffUser) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	copied := *user
	copied.UpdatedAt = time.Now()
	sr.users[user.GUID] = &copied
	return nil
}

func (sr *FakeStaffRepo) SetLocation(_ context.Context, guid string, locationID *int64) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	user, ok := sr.users[guid]
	if !ok {
		return errs.ErrStaffUserNotFound
	}
	user.LocationID = locationID
	user.UpdatedAt = time.Now()
	return nil
}
