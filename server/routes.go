package server

func (s *Server) initRoutes() {
	// Session endpoints
	s.RegisterRouteHandler("GET "+RouteAuthIndex, ChainMiddleware(s.AuthIndexHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAuthLoginCallback, ChainMiddleware(s.CallbackHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthToken, ChainMiddleware(s.TokenRefreshHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthTokenClear, ChainMiddleware(s.TokenClearHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthValidate, ChainMiddleware(s.ValidateHandler(), s.APIMiddleware()...))

	// Protected routes. The identity echo only needs a decodable credential;
	// the location routes touch the database and require a verified one.
	s.RegisterRouteHandler("GET "+RouteProtected, ChainMiddleware(s.ProtectedHandler(), s.ProtectedMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteProtectedCurrentLocation, ChainMiddleware(s.CurrentLocationGetHandler(), s.VerifiedMiddleware()...))
	s.RegisterRouteHandler("PATCH "+RouteProtectedCurrentLocation, ChainMiddleware(s.CurrentLocationPatchHandler(), s.VerifiedMiddleware()...))
}
