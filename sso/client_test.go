package sso_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bcgov/sbc-queue-session/internal/errs"
	"github.com/bcgov/sbc-queue-session/sso"
)

// ssoConfigStub satisfies config.SSOConfig for tests.
type ssoConfigStub struct {
	clientID     string
	clientSecret string
	environment  string
	realm        string
	protocol     string
}

func (s ssoConfigStub) GetSSOClientID() string     { return s.clientID }
func (s ssoConfigStub) GetSSOClientSecret() string { return s.clientSecret }
func (s ssoConfigStub) GetSSOEnvironment() string  { return s.environment }
func (s ssoConfigStub) GetSSORealm() string        { return s.realm }
func (s ssoConfigStub) GetSSOProtocol() string     { return s.protocol }

func testConfig() ssoConfigStub {
	return ssoConfigStub{
		clientID:     "queue-management",
		clientSecret: "shhh",
		environment:  "dev",
		realm:        "standard",
		protocol:     "openid-connect",
	}
}

func TestLoginURL(t *testing.T) {
	t.Run("builds realm authorization URL", func(t *testing.T) {
		c := sso.NewClient(testConfig())
		loginURL, err := c.LoginURL("http://localhost:3000/api/auth/login/callback", "state-123")
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(loginURL,
			"https://dev.loginproxy.gov.bc.ca/auth/realms/standard/protocol/openid-connect/auth?"))

		parsed, err := url.Parse(loginURL)
		require.NoError(t, err)
		q := parsed.Query()
		require.Equal(t, "queue-management", q.Get("client_id"))
		require.Equal(t, "code", q.Get("response_type"))
		require.Equal(t, "http://localhost:3000/api/auth/login/callback", q.Get("redirect_uri"))
		require.Equal(t, "state-123", q.Get("state"))
	})

	t.Run("prod drops the environment subdomain", func(t *testing.T) {
		cfg := testConfig()
		cfg.environment = "prod"
		c := sso.NewClient(cfg)
		loginURL, err := c.LoginURL("https://queue.gov.bc.ca/api/auth/login/callback", "")
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(loginURL, "https://loginproxy.gov.bc.ca/auth/realms/standard/"))
	})

	t.Run("missing client id", func(t *testing.T) {
		cfg := testConfig()
		cfg.clientID = ""
		c := sso.NewClient(cfg)
		_, err := c.LoginURL("http://localhost:3000/api/auth/login/callback", "")
		require.ErrorIs(t, err, errs.ErrMissingClientID)
	})
}

func TestLogoutURL(t *testing.T) {
	c := sso.NewClient(testConfig())

	t.Run("builds end-session URL", func(t *testing.T) {
		logoutURL, err := c.LogoutURL("the-id-token", "http://localhost:3000")
		require.NoError(t, err)

		parsed, err := url.Parse(logoutURL)
		require.NoError(t, err)
		require.Equal(t, "/auth/realms/standard/protocol/openid-connect/logout", parsed.Path)
		q := parsed.Query()
		require.Equal(t, "the-id-token", q.Get("id_token_hint"))
		require.Equal(t, "http://localhost:3000", q.Get("post_logout_redirect_uri"))
		require.Equal(t, "queue-management", q.Get("client_id"))
	})

	t.Run("missing id token", func(t *testing.T) {
		_, err := c.LogoutURL("", "http://localhost:3000")
		require.Error(t, err)
	})
}

// tokenEndpointStub serves the realm token endpoint for exchange tests.
func tokenEndpointStub(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/protocol/openid-connect/token", handler)
	return httptest.NewServer(mux)
}

func TestExchangeCode(t *testing.T) {
	srv := tokenEndpointStub(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "authorization_code", r.Form.Get("grant_type"))
		require.Equal(t, "the-code", r.Form.Get("code"))
		require.Equal(t, "queue-management", r.Form.Get("client_id"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":       "new-access",
			"id_token":           "new-id",
			"refresh_token":      "new-refresh",
			"token_type":         "Bearer",
			"expires_in":         300,
			"refresh_expires_in": 1800,
			"scope":              "openid",
		})
	})
	defer srv.Close()

	c := sso.NewClient(testConfig(), sso.WithBaseURL(srv.URL))
	tr, err := c.ExchangeCode(context.Background(), "the-code", "http://localhost:3000/api/auth/login/callback")
	require.NoError(t, err)
	require.Equal(t, "new-access", tr.AccessToken)
	require.Equal(t, "new-id", tr.IDToken)
	require.Equal(t, "new-refresh", tr.RefreshToken)
	require.Equal(t, 300, tr.ExpiresIn)
	require.Equal(t, 1800, tr.RefreshExpiresIn)
}

func TestExchangeCode_MissingCredentials(t *testing.T) {
	cfg := testConfig()
	cfg.clientSecret = ""
	c := sso.NewClient(cfg)
	_, err := c.ExchangeCode(context.Background(), "the-code", "http://localhost:3000")
	require.ErrorIs(t, err, errs.ErrMissingClientSecret)
}

func TestRefreshToken(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := tokenEndpointStub(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			require.Equal(t, "refresh_token", r.Form.Get("grant_type"))
			require.Equal(t, "old-refresh", r.Form.Get("refresh_token"))

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token":       "rotated-access",
				"id_token":           "rotated-id",
				"refresh_token":      "rotated-refresh",
				"token_type":         "Bearer",
				"expires_in":         300,
				"refresh_expires_in": 1800,
			})
		})
		defer srv.Close()

		c := sso.NewClient(testConfig(), sso.WithBaseURL(srv.URL))
		tr, err := c.RefreshToken(context.Background(), "old-refresh")
		require.NoError(t, err)
		require.Equal(t, "rotated-access", tr.AccessToken)
		require.Equal(t, "rotated-refresh", tr.RefreshToken)
	})

	t.Run("provider rejection is distinguishable from transport failure", func(t *testing.T) {
		srv := tokenEndpointStub(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error":             "invalid_grant",
				"error_description": "Token is not active",
			})
		})
		defer srv.Close()

		c := sso.NewClient(testConfig(), sso.WithBaseURL(srv.URL))
		_, err := c.RefreshToken(context.Background(), "stale-refresh")
		require.ErrorIs(t, err, errs.ErrInvalidRefreshToken)
	})

	t.Run("transport failure is not a rejection", func(t *testing.T) {
		srv := tokenEndpointStub(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		defer srv.Close()

		c := sso.NewClient(testConfig(), sso.WithBaseURL(srv.URL))
		_, err := c.RefreshToken(context.Background(), "any-refresh")
		require.Error(t, err)
		require.NotErrorIs(t, err, errs.ErrInvalidRefreshToken)
	})

	t.Run("empty refresh token", func(t *testing.T) {
		c := sso.NewClient(testConfig())
		_, err := c.RefreshToken(context.Background(), "")
		require.ErrorIs(t, err, errs.ErrMissingRefreshToken)
	})
}
