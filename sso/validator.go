package sso

import (
	"context"
	"net/http"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/bcgov/sbc-queue-session/internal/config"
	"github.com/bcgov/sbc-queue-session/internal/errs"
)

// Validator performs the authoritative liveness check of an access token:
// signature verification against the realm's published keys plus expiry. Its
// "true" result is the only one authorization decisions may rely on.
type Validator struct {
	cfg        config.SSOConfig
	issuer     string
	httpClient *http.Client

	mu       sync.Mutex
	provider *oidc.Provider
}

// ValidatorOption customises a Validator.
type ValidatorOption func(*Validator)

// WithValidatorIssuer overrides the issuer URL derived from the environment.
func WithValidatorIssuer(issuer string) ValidatorOption {
	return func(v *Validator) { v.issuer = issuer }
}

// WithValidatorHTTPClient overrides the HTTP client used for discovery and
// key fetching.
func WithValidatorHTTPClient(hc *http.Client) ValidatorOption {
	return func(v *Validator) { v.httpClient = hc }
}

// NewValidator builds a Validator for the configured realm.
func NewValidator(cfg config.SSOConfig, options ...ValidatorOption) *Validator {
	v := &Validator{cfg: cfg, httpClient: http.DefaultClient}
	for _, opt := range options {
		opt(v)
	}
	if v.issuer == "" {
		v.issuer = realmBaseURL(cfg.GetSSOEnvironment(), cfg.GetSSORealm())
	}
	return v
}

// discoveredProvider lazily discovers the realm's OIDC configuration and
// caches it for the lifetime of the validator.
func (v *Validator) discoveredProvider(ctx context.Context) (*oidc.Provider, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.provider != nil {
		return v.provider, nil
	}
	provider, err := oidc.NewProvider(oidc.ClientContext(ctx, v.httpClient), v.issuer)
	if err != nil {
		return nil, errs.Wrapf(err, "discovering OIDC provider")
	}
	v.provider = provider
	return provider, nil
}

// ValidateToken reports whether the access token is currently valid. A false
// result with a nil error means the token was checked and rejected; a non-nil
// error means the check itself could not be performed (configuration or
// transport failure) and must not be treated as an authentication failure.
func (v *Validator) ValidateToken(ctx context.Context, rawToken string) (bool, error) {
	if rawToken == "" {
		return false, nil
	}
	if v.cfg.GetSSOClientID() == "" {
		return false, errs.ErrMissingClientID
	}
	if v.cfg.GetSSOClientSecret() == "" {
		return false, errs.ErrMissingClientSecret
	}

	provider, err := v.discoveredProvider(ctx)
	if err != nil {
		return false, err
	}

	// Access tokens are issued for varying audiences across clients of the
	// standard realm, so the audience check stays off.
	verifier := provider.Verifier(&oidc.Config{SkipClientIDCheck: true})
	if _, err := verifier.Verify(ctx, rawToken); err != nil {
		return false, nil
	}
	return true, nil
}
