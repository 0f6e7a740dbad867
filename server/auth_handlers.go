package server

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bcgov/sbc-queue-session/internal/errs"
)

// callbackResponse is the body returned after a successful code exchange. The
// refresh token deliberately never appears here; it lives only in its HttpOnly
// cookie.
type callbackResponse struct {
	AccessToken      string `json:"access_token"`
	IDToken          string `json:"id_token"`
	ExpiresIn        int    `json:"expires_in"`
	RefreshExpiresIn int    `json:"refresh_expires_in"`
}

func (s *Server) AuthIndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{
			"message": "Authentication endpoints",
			"endpoints": []string{
				RouteAuthLogin,
				RouteAuthLoginCallback,
				RouteAuthLogout,
				RouteAuthToken,
				RouteAuthTokenClear,
				RouteAuthValidate,
			},
		})
	}
}

// LoginHandler redirects the browser to the IdP authorization endpoint.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loginURL, err := s.ssoClient.LoginURL(s.callbackURL(), uuid.New().String())
		if err != nil {
			log.Error().Err(err).Msg("failed to build login URL")
			respondError(w, http.StatusInternalServerError, "Configuration error", "SSO client is not configured.")
			return
		}
		http.Redirect(w, r, loginURL, http.StatusTemporaryRedirect)
	}
}

// CallbackHandler exchanges the authorization code for tokens, sets the
// refresh and id cookies and returns the rest of the grant in the body.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			respondError(w, http.StatusBadRequest, "Missing code", "Authorization code is required.")
			return
		}

		tokenResponse, err := s.ssoClient.ExchangeCode(r.Context(), code, s.callbackURL())
		if err != nil {
			if errors.Is(err, errs.ErrMissingClientID) || errors.Is(err, errs.ErrMissingClientSecret) {
				log.Error().Err(err).Msg("code exchange rejected: missing client credentials")
				respondError(w, http.StatusInternalServerError, "Configuration error", "SSO client is not configured.")
				return
			}
			log.Error().Err(err).Msg("code exchange failed")
			respondError(w, http.StatusInternalServerError, "Token exchange failed", err.Error())
			return
		}

		s.setCallbackCookies(w, tokenResponse)
		respondJSON(w, http.StatusOK, callbackResponse{
			AccessToken:      tokenResponse.AccessToken,
			IDToken:          tokenResponse.IDToken,
			ExpiresIn:        tokenResponse.ExpiresIn,
			RefreshExpiresIn: tokenResponse.RefreshExpiresIn,
		})
	}
}

// LogoutHandler clears the session cookies and redirects the browser to the
// IdP end-session endpoint so the IdP session dies with the local one.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idCookie, err := r.Cookie(CookieIDToken)
		if err != nil || idCookie.Value == "" {
			respondError(w, http.StatusBadRequest, "Missing id token", "No id_token cookie present; nothing to log out.")
			return
		}

		logoutURL, err := s.ssoClient.LogoutURL(idCookie.Value, s.config.GetAppURL())
		if err != nil {
			log.Error().Err(err).Msg("failed to build logout URL")
			respondError(w, http.StatusInternalServerError, "Configuration error", "Could not build logout URL.")
			return
		}

		s.clearSessionCookies(w)
		http.Redirect(w, r, logoutURL, http.StatusTemporaryRedirect)
	}
}

func (s *Server) callbackURL() string {
	return s.config.GetAPIURL() + RouteAuthLoginCallback
}
