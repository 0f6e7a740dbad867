package repofake

import (
	"context"
	"sync"

	"github.com/bcgov/sbc-queue-session/internal/errs"
	"github.com/bcgov/sbc-queue-session/locations"
)

var _ locations.Repo = (*FakeLocationRepo)(nil)

// FakeLocationRepo is an in-memory locations.Repo for tests.
type FakeLocationRepo struct {
	locations map[int64]*locations.Location
	lock      sync.RWMutex
}

func NewFakeLocationRepo() *FakeLocationRepo {
	return &FakeLocationRepo{locations: make(map[int64]*locations.Location)}
}

func (lr *FakeLocationRepo) Add(location *locations.Location) {
	lr.lock.Lock()
	defer lr.lock.Unlock()
	copied := *location
	lr.locations[location.ID] = &copied
}

func (lr *FakeLocationRepo) Get(_ context.Context, id int64) (*locations.Location, error) {
	lr.lock.RLock()
	defer lr.lock.RUnlock()

	location, ok := lr.locations[id]
	if !ok {
		return nil, errs.ErrLocationNotFound
	}
	copied := *location
	return &copied, nil
}
