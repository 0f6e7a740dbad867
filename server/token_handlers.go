package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/bcgov/sbc-queue-session/claims"
	"github.com/bcgov/sbc-queue-session/internal/errs"
)

// TokenRefreshHandler rotates the session from the HttpOnly refresh cookie.
// A rejected refresh token means the session is over; the caller must treat
// the 401 as a forced logout.
func (s *Server) TokenRefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refreshCookie, err := r.Cookie(CookieRefreshToken)
		if err != nil || refreshCookie.Value == "" {
			respondJSON(w, http.StatusUnauthorized, map[string]any{
				"success": false,
				"message": "Refresh token is missing. Please log in again.",
			})
			return
		}

		tokenResponse, err := s.ssoClient.RefreshToken(r.Context(), refreshCookie.Value)
		if err != nil {
			switch {
			case errors.Is(err, errs.ErrMissingClientID) || errors.Is(err, errs.ErrMissingClientSecret):
				log.Error().Err(err).Msg("token refresh rejected: missing client credentials")
				respondError(w, http.StatusInternalServerError, "Configuration error", "SSO client is not configured.")
			case errors.Is(err, errs.ErrInvalidRefreshToken):
				respondJSON(w, http.StatusUnauthorized, map[string]any{
					"success": false,
					"message": "Invalid token.",
				})
			default:
				log.Error().Err(err).Msg("token refresh failed")
				respondError(w, http.StatusInternalServerError, "Token refresh failed", err.Error())
			}
			return
		}

		s.setSessionCookies(w, tokenResponse)
		respondJSON(w, http.StatusOK, callbackResponse{
			AccessToken:      tokenResponse.AccessToken,
			IDToken:          tokenResponse.IDToken,
			ExpiresIn:        tokenResponse.ExpiresIn,
			RefreshExpiresIn: tokenResponse.RefreshExpiresIn,
		})
	}
}

// TokenClearHandler expires the session cookies unconditionally. Succeeds
// even when no cookies are present so callers can always reach a clean state.
func (s *Server) TokenClearHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.clearSessionCookies(w)
		respondJSON(w, http.StatusOK, map[string]any{
			"message": "Tokens cleared.",
		})
	}
}

type validateRequest struct {
	Token string `json:"token"`
}

// ValidateHandler verifies a token against the IdP signing keys and returns
// the identity it carries. The token comes from the Authorization header or
// the request body.
func (s *Server) ValidateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			var body validateRequest
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				token = body.Token
			}
		}
		if token == "" {
			respondError(w, http.StatusBadRequest, "Missing token", "A token is required.")
			return
		}

		valid, err := s.validator.ValidateToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, errs.ErrMissingClientID) || errors.Is(err, errs.ErrMissingClientSecret) {
				log.Error().Err(err).Msg("token validation rejected: missing client credentials")
				respondError(w, http.StatusInternalServerError, "Configuration error", "SSO client is not configured.")
				return
			}
			log.Error().Err(err).Msg("token validation failed")
			respondError(w, http.StatusInternalServerError, "Validation failed", "Could not reach the identity provider.")
			return
		}
		if !valid {
			respondJSON(w, http.StatusUnauthorized, map[string]any{
				"valid":   false,
				"message": "Invalid token.",
			})
			return
		}

		userClaims, err := claims.Decode(token)
		if err != nil || userClaims.Subject == "" {
			respondJSON(w, http.StatusNotFound, map[string]any{
				"valid":   true,
				"message": "No user info found in token.",
			})
			return
		}

		respondJSON(w, http.StatusOK, map[string]any{
			"valid": true,
			"user":  userClaims,
			"roles": userClaims.Roles(),
		})
	}
}
