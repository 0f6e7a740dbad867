package config

const (
	ssoClientIDVar     = "SSO_CLIENT_ID"
	ssoClientSecretVar = "SSO_CLIENT_SECRET"
	ssoEnvironmentVar  = "SSO_ENVIRONMENT"
	ssoRealmVar        = "SSO_REALM"
	ssoProtocolVar     = "SSO_PROTOCOL"
)

// SSO reads the identity-provider integration settings. Client ID and secret
// have no defaults on purpose: handlers treat their absence as a server
// misconfiguration, not a caller error.
type SSO struct{}

var _ SSOConfig = SSO{}

func (SSO) GetSSOClientID() string {
	return GetEnv(ssoClientIDVar, "")
}

func (SSO) GetSSOClientSecret() string {
	return GetEnv(ssoClientSecretVar, "")
}

func (SSO) GetSSOEnvironment() string {
	return GetEnv(ssoEnvironmentVar, "dev")
}

func (SSO) GetSSORealm() string {
	return GetEnv(ssoRealmVar, "standard")
}

func (SSO) GetSSOProtocol() string {
	return GetEnv(ssoProtocolVar, "openid-connect")
}
