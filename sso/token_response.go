package sso

// TokenResponse represents the response from the IdP token endpoint.
// This is the standard OAuth2 token endpoint response format as defined in
// RFC 6749, plus the refresh_expires_in extension Keycloak returns.
type TokenResponse struct {
	// AccessToken is the bearer credential used to access protected resources.
	// Short-lived; the remaining lifetime is ExpiresIn seconds from issuance.
	AccessToken string `json:"access_token"`

	// IDToken carries the user's identity claims (sub, display_name, etc.).
	IDToken string `json:"id_token,omitempty"`

	// TokenType indicates how to use the access token (always "Bearer").
	TokenType string `json:"token_type,omitempty"`

	// ExpiresIn is the lifetime in seconds of the access token. The provider
	// supplies whole seconds; cookie Max-Age takes this value directly.
	ExpiresIn int `json:"expires_in,omitempty"`

	// RefreshToken is exchanged for a new token set. HttpOnly cookie only,
	// never returned in a response body.
	RefreshToken string `json:"refresh_token,omitempty"`

	// RefreshExpiresIn is the lifetime in seconds of the refresh token.
	RefreshExpiresIn int `json:"refresh_expires_in,omitempty"`

	// Scope is the space-separated list of granted scopes.
	Scope string `json:"scope,omitempty"`
}
