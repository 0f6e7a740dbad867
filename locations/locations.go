package locations

import "context"

// Location is a government service office where staff serve the queue.
type Location struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// Repo is the persistence boundary for service locations.
type Repo interface {
	// Get returns the location with the given id, or errs.ErrLocationNotFound.
	Get(ctx context.Context, id int64) (*Location, error)
}
