// Package session holds the client-side session lifecycle: an in-memory token
// set with expiry-driven transitions (silent refresh, expiry warning, forced
// logout) and the polling state machine for popup-based logins.
package session

import (
	"errors"
	"time"

	"github.com/bcgov/sbc-queue-session/claims"
	"github.com/bcgov/sbc-queue-session/sso"
)

// Session is the in-memory token set for one browser tab worth of state.
// Created on a successful callback or refresh, replaced atomically by
// refresh, destroyed on logout.
type Session struct {
	AccessToken      string
	IDToken          string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
	SessionEndsAt    time.Time
}

// NewSession derives a session from a token response at the given instant.
// Expiries are computed together so the ordering invariant
// AccessExpiresAt <= RefreshExpiresAt <= SessionEndsAt holds at creation.
func NewSession(tr *sso.TokenResponse, now time.Time) (*Session, error) {
	if tr == nil || tr.AccessToken == "" {
		return nil, errors.New("token response has no access token")
	}
	s := &Session{
		AccessToken:      tr.AccessToken,
		IDToken:          tr.IDToken,
		AccessExpiresAt:  now.Add(time.Duration(tr.ExpiresIn) * time.Second),
		RefreshExpiresAt: now.Add(time.Duration(tr.RefreshExpiresIn) * time.Second),
		SessionEndsAt:    now.Add(time.Duration(tr.RefreshExpiresIn) * time.Second),
	}
	if s.AccessExpiresAt.After(s.RefreshExpiresAt) || s.RefreshExpiresAt.After(s.SessionEndsAt) {
		return nil, errors.New("token lifetimes out of order: access outlives refresh")
	}
	return s, nil
}

// Claims decodes the identity claims from the access token. Returns nil when
// the token cannot be decoded; callers treat that as "no claims available".
func (s *Session) Claims() *claims.Claims {
	if s == nil {
		return nil
	}
	c, err := claims.Decode(s.AccessToken)
	if err != nil {
		return nil
	}
	return c
}
