package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/bcgov/sbc-queue-session/internal/config"
	locationfake "github.com/bcgov/sbc-queue-session/locations/repofake"
	"github.com/bcgov/sbc-queue-session/server"
	"github.com/bcgov/sbc-queue-session/sso"
	stafffake "github.com/bcgov/sbc-queue-session/staff/repofake"
)

type testConfig struct {
	nodeEnv string
}

var _ config.Config = testConfig{}

func (c testConfig) GetPort() string    { return ":8080" }
func (c testConfig) GetAppName() string { return "Queue Session Service" }

func (c testConfig) GetNodeEnv() string {
	if c.nodeEnv == "" {
		return "development"
	}
	return c.nodeEnv
}

func (c testConfig) GetAppURL() string      { return "http://localhost:3000" }
func (c testConfig) GetAPIURL() string      { return "http://localhost:8080" }
func (c testConfig) GetDatabaseURL() string { return "" }

func (c testConfig) GetSSOClientID() string     { return "queue-client" }
func (c testConfig) GetSSOClientSecret() string { return "queue-secret" }
func (c testConfig) GetSSOEnvironment() string  { return "dev" }
func (c testConfig) GetSSORealm() string        { return "standard" }
func (c testConfig) GetSSOProtocol() string     { return "openid-connect" }

func (c testConfig) GetCookiePolicy() config.CookiePolicy {
	return config.CookiePolicyFor(c.GetNodeEnv())
}

func (c testConfig) GetAllowedOrigins() config.AllowedOrigins {
	return config.AllowedOrigins{"http://localhost:3000": {}}
}
func (c testConfig) GetAllowedMethods() string { return "GET, POST, PATCH, OPTIONS" }
func (c testConfig) GetAllowedHeaders() string { return "Content-Type, Authorization" }

type fakeExchanger struct {
	loginErr     error
	logoutErr    error
	exchangeResp *sso.TokenResponse
	exchangeErr  error
	refreshResp  *sso.TokenResponse
	refreshErr   error

	gotRedirectURI string
	gotCode        string
	gotRefresh     string
}

func (f *fakeExchanger) LoginURL(redirectURI, state string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	f.gotRedirectURI = redirectURI
	return "https://idp.example/auth?state=" + state, nil
}

func (f *fakeExchanger) LogoutURL(idToken, _ string) (string, error) {
	if f.logoutErr != nil {
		return "", f.logoutErr
	}
	return "https://idp.example/logout?id_token_hint=" + idToken, nil
}

func (f *fakeExchanger) ExchangeCode(_ context.Context, code, redirectURI string) (*sso.TokenResponse, error) {
	f.gotCode = code
	f.gotRedirectURI = redirectURI
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return f.exchangeResp, nil
}

func (f *fakeExchanger) RefreshToken(_ context.Context, refreshToken string) (*sso.TokenResponse, error) {
	f.gotRefresh = refreshToken
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.refreshResp, nil
}

type fakeValidator struct {
	valid bool
	err   error
}

func (f *fakeValidator) ValidateToken(context.Context, string) (bool, error) {
	return f.valid, f.err
}

func testGrant() *sso.TokenResponse {
	return &sso.TokenResponse{
		AccessToken:      "access-abc",
		IDToken:          "id-abc",
		TokenType:        "Bearer",
		ExpiresIn:        300,
		RefreshToken:     "refresh-abc",
		RefreshExpiresIn: 1800,
		Scope:            "openid",
	}
}

func newTestServer(t *testing.T, cfg testConfig, ex server.TokenExchanger, val server.TokenValidator, repos server.Repos) *server.Server {
	t.Helper()
	if ex == nil {
		ex = &fakeExchanger{}
	}
	if val == nil {
		val = &fakeValidator{valid: true}
	}
	if repos.Staff == nil {
		repos.Staff = stafffake.NewFakeStaffRepo()
	}
	if repos.Locations == nil {
		repos.Locations = locationfake.NewFakeLocationRepo()
	}
	srv, err := server.New(cfg, ex, val, repos)
	require.NoError(t, err)
	return srv
}

func doRequest(srv *server.Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func cookieByName(t *testing.T, cookies []*http.Cookie, name string) *http.Cookie {
	t.Helper()
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func ptr[T any](v T) *T { return &v }

func signedTestToken(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("server-test-secret"))
	require.NoError(t, err)
	return signed
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := server.New(testConfig{}, nil, &fakeValidator{}, server.Repos{})
	require.Error(t, err)

	_, err = server.New(testConfig{}, &fakeExchanger{}, nil, server.Repos{})
	require.Error(t, err)
}
