// Package claims parses identity claims out of tokens issued by the IdP.
//
// Decoding here does not verify signatures. The result is display and
// convenience data only and must never drive an authorization decision; that
// is what the sso.Validator is for.
package claims

import (
	"errors"
	"slices"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded payload of an access or id token. Every field except
// the registered subject is optional; the IdP omits claims freely depending on
// the mapper configuration, so nothing here may be assumed present.
type Claims struct {
	jwtlib.RegisteredClaims

	IdirUserGUID string   `json:"idir_user_guid,omitempty"`
	IdirUsername string   `json:"idir_username,omitempty"`
	DisplayName  string   `json:"display_name,omitempty"`
	GivenName    string   `json:"given_name,omitempty"`
	FamilyName   string   `json:"family_name,omitempty"`
	Email        string   `json:"email,omitempty"`
	ClientRoles  []string `json:"client_roles,omitempty"`
}

// Decode parses the payload segment of a compact JWT without verifying the
// signature. Callers must treat an error as "no claims available", never as
// fatal.
func Decode(raw string) (*Claims, error) {
	if raw == "" {
		return nil, errors.New("empty token")
	}
	c := &Claims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(raw, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Roles returns the client roles carried by the token. The claim is routinely
// absent for service accounts, so the nil case collapses to an empty slice.
func (c *Claims) Roles() []string {
	if c == nil || c.ClientRoles == nil {
		return []string{}
	}
	return c.ClientRoles
}

// HasRole reports whether the token carries the named client role.
func (c *Claims) HasRole(role string) bool {
	if c == nil {
		return false
	}
	return slices.Contains(c.ClientRoles, role)
}
