package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/bcgov/sbc-queue-session/internal/errs"
	"github.com/bcgov/sbc-queue-session/sso"
)

// Popup abstracts the login window opened against the IdP. The poller only
// needs to know whether it is gone, how to close it, and whether the callback
// payload has appeared in it yet.
type Popup interface {
	// Closed reports whether the window is already gone.
	Closed() bool
	// Close dismisses the window. Callers guarantee at-most-once invocation.
	Close()
	// ReadPayload returns the raw callback response body once the popup has
	// navigated to the callback page, and whether it was found.
	ReadPayload() (string, bool)
}

const (
	defaultPollInterval = 300 * time.Millisecond
	defaultPollTimeout  = 5 * time.Minute
)

// PollOptions bound the popup polling loop.
type PollOptions struct {
	Interval time.Duration // zero means 300ms
	Timeout  time.Duration // zero means 5 minutes
}

// popupPayload is the token payload the callback endpoint writes into the
// popup document. The refresh token travels only as a cookie, never here.
type popupPayload struct {
	AccessToken      string `json:"access_token"`
	IDToken          string `json:"id_token"`
	ExpiresIn        int    `json:"expires_in"`
	RefreshExpiresIn int    `json:"refresh_expires_in"`
}

func (p popupPayload) complete() bool {
	return p.AccessToken != "" && p.IDToken != "" && p.ExpiresIn > 0 && p.RefreshExpiresIn > 0
}

// PollPopupLogin watches a login popup until one of three exits: the callback
// payload appears (success), the user closes the window, or the timeout
// elapses. Every exit closes the popup exactly once. A closed popup is
// reported as an explicit failure, never swallowed.
func PollPopupLogin(ctx context.Context, popup Popup, opts PollOptions) (*sso.TokenResponse, error) {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultPollTimeout
	}

	var closeOnce sync.Once
	closePopup := func() { closeOnce.Do(popup.Close) }

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if popup.Closed() {
			closePopup()
			return nil, errs.ErrPopupClosed
		}

		if raw, ok := popup.ReadPayload(); ok {
			var payload popupPayload
			// A page that is still loading can surface partial or non-JSON
			// content; keep polling until a complete payload shows up.
			if err := json.Unmarshal([]byte(raw), &payload); err == nil && payload.complete() {
				closePopup()
				return &sso.TokenResponse{
					AccessToken:      payload.AccessToken,
					IDToken:          payload.IDToken,
					ExpiresIn:        payload.ExpiresIn,
					RefreshExpiresIn: payload.RefreshExpiresIn,
				}, nil
			}
		}

		select {
		case <-ctx.Done():
			closePopup()
			if ctx.Err() == context.DeadlineExceeded {
				return nil, errs.ErrLoginTimeout
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
