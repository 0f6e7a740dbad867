package config

import "net/http"

// CookiePolicy holds the security attributes applied to every session cookie
// write and clear. Set and clear must use identical attributes or browsers may
// refuse to expire the cookie.
type CookiePolicy struct {
	Secure   bool
	SameSite http.SameSite
}

type CookieConfig interface {
	GetCookiePolicy() CookiePolicy
}

type Cookies struct{}

var _ CookieConfig = Cookies{}

func (Cookies) GetCookiePolicy() CookiePolicy {
	return CookiePolicyFor(EnvVars{}.GetNodeEnv())
}

// CookiePolicyFor derives cookie attributes from the deployment environment.
// Production serves the UI and API from different origins, so cookies need
// SameSite=None which in turn requires Secure. Everything else runs on
// localhost over plain HTTP and uses Lax.
func CookiePolicyFor(nodeEnv string) CookiePolicy {
	if nodeEnv == "production" {
		return CookiePolicy{Secure: true, SameSite: http.SameSiteNoneMode}
	}
	return CookiePolicy{Secure: false, SameSite: http.SameSiteLaxMode}
}
