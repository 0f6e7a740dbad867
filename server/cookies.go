package server

import (
	"net/http"

	"github.com/bcgov/sbc-queue-session/sso"
)

// Session cookie names. The refresh token is HttpOnly; the other two are
// readable by the UI for claim display.
const (
	CookieAccessToken  = "access_token"
	CookieRefreshToken = "refresh_token"
	CookieIDToken      = "id_token"
)

// sessionCookie builds a session cookie with attributes from the single
// cookie policy. Every write and clear in the server goes through here so
// set and clear can never drift apart.
func (s *Server) sessionCookie(name, value string, maxAge int) *http.Cookie {
	policy := s.config.GetCookiePolicy()
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: name == CookieRefreshToken,
		Secure:   policy.Secure,
		SameSite: policy.SameSite,
	}
}

// setCallbackCookies persists the cookie half of a fresh login: the refresh
// token (HttpOnly) and the id token. The access token travels in the response
// body only.
func (s *Server) setCallbackCookies(w http.ResponseWriter, tr *sso.TokenResponse) {
	http.SetCookie(w, s.sessionCookie(CookieRefreshToken, tr.RefreshToken, tr.RefreshExpiresIn))
	http.SetCookie(w, s.sessionCookie(CookieIDToken, tr.IDToken, tr.ExpiresIn))
}

// setSessionCookies rotates the full cookie triple after a refresh. All three
// go out on one response; Max-Age mirrors each token's lifetime in seconds.
func (s *Server) setSessionCookies(w http.ResponseWriter, tr *sso.TokenResponse) {
	http.SetCookie(w, s.sessionCookie(CookieAccessToken, tr.AccessToken, tr.ExpiresIn))
	http.SetCookie(w, s.sessionCookie(CookieRefreshToken, tr.RefreshToken, tr.RefreshExpiresIn))
	http.SetCookie(w, s.sessionCookie(CookieIDToken, tr.IDToken, tr.ExpiresIn))
}

// clearSessionCookies expires the cookie triple. MaxAge < 0 serializes as
// Max-Age=0; attributes match the current policy so browsers accept the
// removal.
func (s *Server) clearSessionCookies(w http.ResponseWriter) {
	http.SetCookie(w, s.sessionCookie(CookieAccessToken, "", -1))
	http.SetCookie(w, s.sessionCookie(CookieRefreshToken, "", -1))
	http.SetCookie(w, s.sessionCookie(CookieIDToken, "", -1))
}
