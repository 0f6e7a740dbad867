package server_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bcgov/sbc-queue-session/internal/config"
	"github.com/bcgov/sbc-queue-session/internal/errs"
	"github.com/bcgov/sbc-queue-session/server"
)

func TestAuthIndexHandler(t *testing.T) {
	srv := newTestServer(t, testConfig{}, nil, nil, server.Repos{})

	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, server.RouteAuthIndex, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Contains(t, body, "endpoints")
}

func TestLoginHandler(t *testing.T) {
	t.Run("redirects to the authorization endpoint", func(t *testing.T) {
		ex := &fakeExchanger{}
		srv := newTestServer(t, testConfig{}, ex, nil, server.Repos{})

		rec := doRequest(srv, httptest.NewRequest(http.MethodGet, server.RouteAuthLogin, nil))

		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		require.True(t, strings.HasPrefix(rec.Header().Get("Location"), "https://idp.example/auth?state="))
		require.Equal(t, "http://localhost:8080"+server.RouteAuthLoginCallback, ex.gotRedirectURI)
	})

	t.Run("missing client id is a server error", func(t *testing.T) {
		ex := &fakeExchanger{loginErr: errs.ErrMissingClientID}
		srv := newTestServer(t, testConfig{}, ex, nil, server.Repos{})

		rec := doRequest(srv, httptest.NewRequest(http.MethodGet, server.RouteAuthLogin, nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestCallbackHandler(t *testing.T) {
	t.Run("sets exactly two cookies and keeps the refresh token out of the body", func(t *testing.T) {
		ex := &fakeExchanger{exchangeResp: testGrant()}
		srv := newTestServer(t, testConfig{}, ex, nil, server.Repos{})

		rec := doRequest(srv, httptest.NewRequest(http.MethodGet, server.RouteAuthLoginCallback+"?code=auth-code", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "auth-code", ex.gotCode)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 2)

		refresh := cookieByName(t, cookies, "refresh_token")
		require.Equal(t, "refresh-abc", refresh.Value)
		require.True(t, refresh.HttpOnly)
		require.Equal(t, 1800, refresh.MaxAge)

		id := cookieByName(t, cookies, "id_token")
		require.Equal(t, "id-abc", id.Value)
		require.False(t, id.HttpOnly)
		require.Equal(t, 300, id.MaxAge)

		body := decodeBody(t, rec)
		require.Equal(t, "access-abc", body["access_token"])
		require.Equal(t, "id-abc", body["id_token"])
		require.Equal(t, float64(300), body["expires_in"])
		require.Equal(t, float64(1800), body["refresh_expires_in"])
		require.NotContains(t, body, "refresh_token")
		require.NotContains(t, rec.Body.String(), "refresh-abc")
	})

	t.Run("missing code", func(t *testing.T) {
		srv := newTestServer(t, testConfig{}, &fakeExchanger{}, nil, server.Repos{})

		rec := doRequest(srv, httptest.NewRequest(http.MethodGet, server.RouteAuthLoginCallback, nil))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, false, decodeBody(t, rec)["success"])
	})

	t.Run("exchange failure", func(t *testing.T) {
		ex := &fakeExchanger{exchangeErr: errs.Wrapf(errs.ErrInternal, "idp unreachable")}
		srv := newTestServer(t, testConfig{}, ex, nil, server.Repos{})

		rec := doRequest(srv, httptest.NewRequest(http.MethodGet, server.RouteAuthLoginCallback+"?code=auth-code", nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeBody(t, rec)
		require.Equal(t, false, body["success"])
		require.NotEmpty(t, body["message"])
	})

	t.Run("missing client credentials", func(t *testing.T) {
		ex := &fakeExchanger{exchangeErr: errs.ErrMissingClientSecret}
		srv := newTestServer(t, testConfig{}, ex, nil, server.Repos{})

		rec := doRequest(srv, httptest.NewRequest(http.MethodGet, server.RouteAuthLoginCallback+"?code=auth-code", nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestLogoutHandler(t *testing.T) {
	t.Run("clears the session and redirects to the end-session endpoint", func(t *testing.T) {
		srv := newTestServer(t, testConfig{}, &fakeExchanger{}, nil, server.Repos{})

		req := httptest.NewRequest(http.MethodGet, server.RouteAuthLogout, nil)
		req.AddCookie(&http.Cookie{Name: "id_token", Value: "id-abc"})
		rec := doRequest(srv, req)

		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		require.Equal(t, "https://idp.example/logout?id_token_hint=id-abc", rec.Header().Get("Location"))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 3)
		for _, c := range cookies {
			require.Empty(t, c.Value)
			require.Negative(t, c.MaxAge)
		}
	})

	t.Run("missing id token cookie", func(t *testing.T) {
		srv := newTestServer(t, testConfig{}, &fakeExchanger{}, nil, server.Repos{})

		rec := doRequest(srv, httptest.NewRequest(http.MethodGet, server.RouteAuthLogout, nil))

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

// Cookie attributes must be a pure function of the deployment environment and
// identical between set and clear.
func TestCookieAttributesFollowEnvironment(t *testing.T) {
	environments := []struct {
		nodeEnv  string
		secure   bool
		sameSite http.SameSite
	}{
		{"development", false, http.SameSiteLaxMode},
		{"production", true, http.SameSiteNoneMode},
	}

	for _, env := range environments {
		t.Run(env.nodeEnv, func(t *testing.T) {
			cfg := testConfig{nodeEnv: env.nodeEnv}
			require.Equal(t, config.CookiePolicy{Secure: env.secure, SameSite: env.sameSite}, cfg.GetCookiePolicy())

			ex := &fakeExchanger{exchangeResp: testGrant()}
			srv := newTestServer(t, cfg, ex, nil, server.Repos{})

			set := doRequest(srv, httptest.NewRequest(http.MethodGet, server.RouteAuthLoginCallback+"?code=auth-code", nil))
			clear := doRequest(srv, httptest.NewRequest(http.MethodPost, server.RouteAuthTokenClear, nil))

			for _, rec := range []*httptest.ResponseRecorder{set, clear} {
				for _, c := range rec.Result().Cookies() {
					require.Equal(t, env.secure, c.Secure)
					require.Equal(t, env.sameSite, c.SameSite)
					require.Equal(t, "/", c.Path)
				}
			}
		})
	}
}
