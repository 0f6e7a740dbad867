// Package sso wraps the identity-provider integration: building login and
// logout URLs, exchanging authorization codes and refresh tokens for token
// sets, and validating access tokens against the provider.
package sso

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"github.com/bcgov/sbc-queue-session/internal/config"
	"github.com/bcgov/sbc-queue-session/internal/errs"
)

const defaultTimeout = 10 * time.Second

// Client talks to the IdP realm derived from the SSO configuration. It is a
// pure boundary wrapper: no state beyond configuration, no side effects
// beyond the network calls.
type Client struct {
	cfg        config.SSOConfig
	baseURL    string // realm base URL, overridable for tests
	httpClient *http.Client
	timeout    time.Duration
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL overrides the realm base URL derived from the environment.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the HTTP client used for token requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds every token request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// NewClient builds a Client from configuration. Credentials are checked per
// call, not here, so handlers can report misconfiguration as their own error.
func NewClient(cfg config.SSOConfig, options ...Option) *Client {
	c := &Client{
		cfg:        cfg,
		httpClient: http.DefaultClient,
		timeout:    defaultTimeout,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.baseURL == "" {
		c.baseURL = realmBaseURL(cfg.GetSSOEnvironment(), cfg.GetSSORealm())
	}
	return c
}

// realmBaseURL builds the realm issuer URL. Production lives on the bare
// loginproxy host; every other environment is a subdomain of it.
func realmBaseURL(environment, realm string) string {
	host := "loginproxy.gov.bc.ca"
	if environment != "" && environment != "prod" {
		host = fmt.Sprintf("%s.loginproxy.gov.bc.ca", environment)
	}
	return fmt.Sprintf("https://%s/auth/realms/%s", host, realm)
}

func (c *Client) protocolEndpoint(name string) string {
	return fmt.Sprintf("%s/protocol/%s/%s", c.baseURL, c.cfg.GetSSOProtocol(), name)
}

// IssuerURL returns the realm issuer, used for OIDC discovery.
func (c *Client) IssuerURL() string { return c.baseURL }

func (c *Client) checkCredentials() error {
	if c.cfg.GetSSOClientID() == "" {
		return errs.ErrMissingClientID
	}
	if c.cfg.GetSSOClientSecret() == "" {
		return errs.ErrMissingClientSecret
	}
	return nil
}

// LoginURL builds the provider authorization URL that starts the code flow.
func (c *Client) LoginURL(redirectURI, state string) (string, error) {
	if c.cfg.GetSSOClientID() == "" {
		return "", errs.ErrMissingClientID
	}
	q := url.Values{}
	q.Set("client_id", c.cfg.GetSSOClientID())
	q.Set("response_type", "code")
	q.Set("redirect_uri", redirectURI)
	if state != "" {
		q.Set("state", state)
	}
	return c.protocolEndpoint("auth") + "?" + q.Encode(), nil
}

// LogoutURL builds the provider end-session URL. The id token identifies the
// session being ended; the provider rejects the request without it.
func (c *Client) LogoutURL(idToken, postLogoutRedirectURI string) (string, error) {
	if idToken == "" {
		return "", errs.Wrapf(errs.ErrInvalidToken, "id token is required to build the logout URL")
	}
	q := url.Values{}
	q.Set("id_token_hint", idToken)
	if c.cfg.GetSSOClientID() != "" {
		q.Set("client_id", c.cfg.GetSSOClientID())
	}
	if postLogoutRedirectURI != "" {
		q.Set("post_logout_redirect_uri", postLogoutRedirectURI)
	}
	return c.protocolEndpoint("logout") + "?" + q.Encode(), nil
}

func (c *Client) oauthConfig(redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.cfg.GetSSOClientID(),
		ClientSecret: c.cfg.GetSSOClientSecret(),
		RedirectURL:  redirectURI,
		Endpoint: oauth2.Endpoint{
			AuthURL:   c.protocolEndpoint("auth"),
			TokenURL:  c.protocolEndpoint("token"),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	return context.WithTimeout(ctx, c.timeout)
}

// ExchangeCode trades an authorization code for a token set.
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string) (*TokenResponse, error) {
	if err := c.checkCredentials(); err != nil {
		return nil, err
	}
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	tok, err := c.oauthConfig(redirectURI).Exchange(ctx, code)
	if err != nil {
		return nil, errs.Wrapf(err, "exchanging authorization code")
	}
	return tokenResponseFrom(tok), nil
}

// RefreshToken trades a refresh token for a fresh token set. A provider
// rejection of the token surfaces as errs.ErrInvalidRefreshToken so callers
// can force a logout instead of retrying; any other error is transport.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	if err := c.checkCredentials(); err != nil {
		return nil, err
	}
	if refreshToken == "" {
		return nil, errs.ErrMissingRefreshToken
	}
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	src := c.oauthConfig("").TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && isRejectedGrant(retrieveErr) {
			return nil, errs.Wrapf(errs.ErrInvalidRefreshToken, "provider rejected refresh token")
		}
		return nil, errs.Wrapf(err, "refreshing token")
	}
	return tokenResponseFrom(tok), nil
}

// isRejectedGrant distinguishes "the grant is bad" from "the call failed".
func isRejectedGrant(err *oauth2.RetrieveError) bool {
	if err.ErrorCode == "invalid_grant" {
		return true
	}
	if err.Response != nil {
		return err.Response.StatusCode == http.StatusBadRequest || err.Response.StatusCode == http.StatusUnauthorized
	}
	return false
}

func tokenResponseFrom(tok *oauth2.Token) *TokenResponse {
	idToken, _ := tok.Extra("id_token").(string)
	scope, _ := tok.Extra("scope").(string)
	return &TokenResponse{
		AccessToken:      tok.AccessToken,
		IDToken:          idToken,
		TokenType:        tok.TokenType,
		ExpiresIn:        extraSeconds(tok, "expires_in"),
		RefreshToken:     tok.RefreshToken,
		RefreshExpiresIn: extraSeconds(tok, "refresh_expires_in"),
		Scope:            scope,
	}
}

// extraSeconds reads an integer-seconds field out of the raw token response.
// The oauth2 package decodes JSON numbers as float64.
func extraSeconds(tok *oauth2.Token, key string) int {
	switch v := tok.Extra(key).(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}
