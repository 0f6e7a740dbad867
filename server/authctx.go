package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bcgov/sbc-queue-session/claims"
)

type ContextKey string

const ContextKeyAuth ContextKey = "auth_context"

// AuthContext is the identity derived from the credential on a request. It is
// built by decoding the token without signature verification, so it is
// display material, never an authorization decision on its own.
type AuthContext struct {
	User  *claims.Claims
	Roles []string
	Token string
}

// authContext extracts the access token from the Authorization header
// (preferred) or the access_token cookie and decodes it. Returns nil when no
// decodable credential is present.
func (s *Server) authContext(r *http.Request) *AuthContext {
	token := bearerToken(r)
	if token == "" {
		if c, err := r.Cookie(CookieAccessToken); err == nil {
			token = c.Value
		}
	}
	if token == "" {
		return nil
	}

	userClaims, err := claims.Decode(token)
	if err != nil || userClaims.Subject == "" {
		return nil
	}

	return &AuthContext{
		User:  userClaims,
		Roles: userClaims.Roles(),
		Token: token,
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth rejects requests without a decodable credential and stashes the
// derived identity in the request context for downstream handlers.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ac := s.authContext(r)
			if ac == nil {
				unauthorized(w)
				return
			}
			next(w, r.WithContext(context.WithValue(r.Context(), ContextKeyAuth, ac)))
		}
	}
}

// RequireVerifiedAuth is RequireAuth plus an authoritative check of the
// credential against the IdP signing keys. Routes that read or mutate
// database state use this; a decodable but forged or revoked token must not
// reach them.
func (s *Server) RequireVerifiedAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ac := s.authContext(r)
			if ac == nil {
				unauthorized(w)
				return
			}
			valid, err := s.validator.ValidateToken(r.Context(), ac.Token)
			if err != nil {
				log.Error().Err(err).Msg("credential verification failed")
				respondError(w, http.StatusInternalServerError, "Validation failed", "Could not verify the credential.")
				return
			}
			if !valid {
				unauthorized(w)
				return
			}
			next(w, r.WithContext(context.WithValue(r.Context(), ContextKeyAuth, ac)))
		}
	}
}

func unauthorized(w http.ResponseWriter) {
	respondJSON(w, http.StatusUnauthorized, map[string]any{
		"message": "Unauthorized",
		"success": false,
	})
}

// AuthFromContext returns the identity stored by RequireAuth, or nil.
func AuthFromContext(ctx context.Context) *AuthContext {
	ac, _ := ctx.Value(ContextKeyAuth).(*AuthContext)
	return ac
}
