package session

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/bcgov/sbc-queue-session/claims"
	"github.com/bcgov/sbc-queue-session/internal/errs"
	"github.com/bcgov/sbc-queue-session/sso"
)

// State is the lifecycle position of a Store.
type State string

const (
	StateUninitialized   State = "uninitialized"
	StateBootstrapping   State = "bootstrapping"
	StateAuthenticated   State = "authenticated"
	StateUnauthenticated State = "unauthenticated"
	StateLoggingOut      State = "logging-out"
)

// LogoutReason records which trigger ended the session.
type LogoutReason string

const (
	LogoutManual         LogoutReason = "manual"
	LogoutExpired        LogoutReason = "expired"
	LogoutServerRejected LogoutReason = "server-rejected"
)

// EventType identifies a state-change notification.
type EventType string

const (
	EventAuthenticated   EventType = "authenticated"   // session created or replaced by refresh
	EventUnauthenticated EventType = "unauthenticated" // bootstrap resolved without a session
	EventExpiryWarning   EventType = "expiry-warning"  // access token close to expiring
	EventLoggedOut       EventType = "logged-out"      // session destroyed
)

// Event is delivered to subscribers on every observable transition.
type Event struct {
	Type    EventType
	Session *Session // snapshot; nil for unauthenticated/logged-out
	Reason  LogoutReason
}

// TokenRefresher obtains a fresh token set from the refresh endpoint. The
// implementation carries the refresh token (cookie jar on the browser side);
// errs.ErrInvalidRefreshToken and errs.ErrMissingRefreshToken signal that no
// session can be established, anything else is a transient failure.
type TokenRefresher interface {
	Refresh(ctx context.Context) (*sso.TokenResponse, error)
}

// RefresherFunc adapts a function to the TokenRefresher interface.
type RefresherFunc func(ctx context.Context) (*sso.TokenResponse, error)

func (f RefresherFunc) Refresh(ctx context.Context) (*sso.TokenResponse, error) { return f(ctx) }

const (
	// defaultRefreshMargin is how long before access expiry the silent
	// refresh fires, leaving room for the round trip to complete.
	defaultRefreshMargin = 30 * time.Second
	// defaultWarningThreshold is the remaining lifetime at which the expiry
	// warning is raised so the user can extend the session.
	defaultWarningThreshold = 2 * time.Minute
	refreshCallTimeout      = 15 * time.Second
)

// Store owns the session and its timers. All transitions are serialized
// through one mutex; subscribers are notified outside it.
type Store struct {
	refresher        TokenRefresher
	now              func() time.Time
	refreshMargin    time.Duration
	warningThreshold time.Duration

	mu      sync.Mutex
	state   State
	session *Session

	refreshTimer *time.Timer
	warningTimer *time.Timer
	expiryTimer  *time.Timer

	subMu       sync.Mutex
	subscribers map[int]func(Event)
	nextSubID   int

	flight singleflight.Group
}

// StoreOption customises a Store.
type StoreOption func(*Store)

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) StoreOption {
	return func(s *Store) { s.now = nowFunc }
}

// WithRefreshMargin sets how long before access expiry the silent refresh runs.
func WithRefreshMargin(d time.Duration) StoreOption {
	return func(s *Store) { s.refreshMargin = d }
}

// WithWarningThreshold sets the remaining lifetime that triggers the expiry warning.
func WithWarningThreshold(d time.Duration) StoreOption {
	return func(s *Store) { s.warningThreshold = d }
}

// NewStore constructs an uninitialized Store around the given refresher.
func NewStore(refresher TokenRefresher, options ...StoreOption) *Store {
	s := &Store{
		refresher:        refresher,
		now:              time.Now,
		refreshMargin:    defaultRefreshMargin,
		warningThreshold: defaultWarningThreshold,
		state:            StateUninitialized,
		subscribers:      make(map[int]func(Event)),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Session returns a snapshot of the current session, or nil.
func (s *Store) Session() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	copied := *s.session
	return &copied
}

// IsAuthenticated reports whether a session object exists. This stays true
// even when the access token cannot be decoded; only the derived identity
// fields degrade in that case.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil
}

// Claims returns the decoded claims of the current access token, or nil when
// there is no session or the token cannot be decoded.
func (s *Store) Claims() *claims.Claims {
	return s.Session().Claims()
}

// HasRole reports whether the current access token carries the client role.
// Decode failure means no roles.
func (s *Store) HasRole(role string) bool {
	return s.Claims().HasRole(role)
}

// Subscribe registers an observer. The returned function removes it.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(ev Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// Bootstrap hydrates the session from whatever credential state already
// exists (the refresh cookie). Concurrent calls share a single flight and a
// single outcome; repeat calls after initialization return the settled state.
func (s *Store) Bootstrap(ctx context.Context) (State, error) {
	s.mu.Lock()
	if s.state != StateUninitialized && s.state != StateBootstrapping {
		state := s.state
		s.mu.Unlock()
		return state, nil
	}
	s.state = StateBootstrapping
	s.mu.Unlock()

	result, err, _ := s.flight.Do("bootstrap", func() (any, error) {
		tr, err := s.refresher.Refresh(ctx)
		if err != nil {
			s.mu.Lock()
			s.state = StateUnauthenticated
			s.mu.Unlock()
			s.notify(Event{Type: EventUnauthenticated})
			if errs.Is(err, errs.ErrInvalidRefreshToken) || errs.Is(err, errs.ErrMissingRefreshToken) {
				// No usable credential; an unauthenticated resolution, not a failure.
				return StateUnauthenticated, nil
			}
			return StateUnauthenticated, err
		}
		if err := s.applyTokenResponse(tr); err != nil {
			s.mu.Lock()
			s.state = StateUnauthenticated
			s.mu.Unlock()
			s.notify(Event{Type: EventUnauthenticated})
			return StateUnauthenticated, err
		}
		return StateAuthenticated, nil
	})
	return result.(State), err
}

// SetTokens installs a session from a token payload obtained out of band
// (the login callback or a completed popup flow).
func (s *Store) SetTokens(tr *sso.TokenResponse) error {
	return s.applyTokenResponse(tr)
}

// Refresh performs a silent refresh. Concurrent callers are coalesced into a
// single provider call sharing one result. A failed refresh either leaves the
// prior session untouched (transport failure) or transitions cleanly to
// logged-out (provider rejection); never a half-updated session.
func (s *Store) Refresh(ctx context.Context) error {
	_, err, _ := s.flight.Do("refresh", func() (any, error) {
		tr, err := s.refresher.Refresh(ctx)
		if err != nil {
			if errs.Is(err, errs.ErrInvalidRefreshToken) || errs.Is(err, errs.ErrMissingRefreshToken) {
				s.Logout(LogoutServerRejected)
			}
			return nil, err
		}
		return nil, s.applyTokenResponse(tr)
	})
	return err
}

// applyTokenResponse atomically replaces the session and rearms the timers.
func (s *Store) applyTokenResponse(tr *sso.TokenResponse) error {
	sess, err := NewSession(tr, s.now())
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.stopTimersLocked()
	s.session = sess
	s.state = StateAuthenticated
	s.armTimersLocked(sess)
	snapshot := *sess
	s.mu.Unlock()

	s.notify(Event{Type: EventAuthenticated, Session: &snapshot})
	return nil
}

func (s *Store) stopTimersLocked() {
	for _, t := range []*time.Timer{s.refreshTimer, s.warningTimer, s.expiryTimer} {
		if t != nil {
			t.Stop()
		}
	}
	s.refreshTimer, s.warningTimer, s.expiryTimer = nil, nil, nil
}

func (s *Store) armTimersLocked(sess *Session) {
	now := s.now()
	remaining := sess.AccessExpiresAt.Sub(now)

	// Silent refresh fires with enough margin to finish before expiry, but
	// never past the session's hard end.
	if sess.AccessExpiresAt.Before(sess.SessionEndsAt) {
		refreshIn := remaining - s.refreshMargin
		if refreshIn < 0 {
			refreshIn = 0
		}
		s.refreshTimer = time.AfterFunc(refreshIn, s.silentRefresh)
	}

	warnIn := remaining - s.warningThreshold
	if warnIn < 0 {
		warnIn = 0
	}
	s.warningTimer = time.AfterFunc(warnIn, func() {
		snapshot := s.Session()
		if snapshot == nil {
			return
		}
		s.notify(Event{Type: EventExpiryWarning, Session: snapshot})
	})

	// Hard stop: if neither silent refresh nor the user extends the session,
	// expiry forces a logout.
	s.expiryTimer = time.AfterFunc(remaining, func() {
		s.Logout(LogoutExpired)
	})
}

func (s *Store) silentRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshCallTimeout)
	defer cancel()
	// Transport failures leave the session in place; the expiry timer is
	// still armed and will force the logout if nothing recovers in time.
	_ = s.Refresh(ctx)
}

// Logout cancels all pending timers, clears the session, and notifies
// subscribers. It is idempotent: racing triggers (expiry, manual click,
// rejected refresh) produce exactly one observable transition. Returns
// whether this call performed the transition.
func (s *Store) Logout(reason LogoutReason) bool {
	s.mu.Lock()
	if s.session == nil && s.state != StateAuthenticated {
		if s.state == StateUninitialized || s.state == StateBootstrapping {
			s.state = StateUnauthenticated
		}
		s.mu.Unlock()
		return false
	}
	s.state = StateLoggingOut
	s.stopTimersLocked()
	s.session = nil
	s.state = StateUnauthenticated
	s.mu.Unlock()

	s.notify(Event{Type: EventLoggedOut, Reason: reason})
	return true
}

// Close releases the store's timers without emitting events.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimersLocked()
}
