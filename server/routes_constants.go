package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes - Session lifecycle
	RouteAuthIndex         = "/api/auth"
	RouteAuthLogin         = "/api/auth/login"
	RouteAuthLoginCallback = "/api/auth/login/callback"
	RouteAuthLogout        = "/api/auth/logout"
	RouteAuthToken         = "/api/auth/token"
	RouteAuthTokenClear    = "/api/auth/token/clear"
	RouteAuthValidate      = "/api/auth/validate"

	// Protected API Routes
	RouteProtected                = "/api/protected"
	RouteProtectedCurrentLocation = "/api/protected/current-location"
)
