package server

func (s *Server) initRoutes() {
	// Sign-in / integration redirects (full-page redirects to the provider)
	s.RegisterRouteFunc("GET "+RouteSignIn, s.SignInHandler())
	s.RegisterRouteFunc("GET "+RouteAddBot, s.AddBotHandler())

	// Provider callbacks
	s.RegisterRouteFunc("GET "+RouteCallback, s.CallbackHandler())
	s.RegisterRouteFunc("GET "+RouteBotCallback, s.BotCallbackHandler())

	// Session API
	s.RegisterRouteFunc("GET "+RouteAPISession, s.SessionHandler())
	s.RegisterRouteFunc("POST "+RouteAPISignOut, s.SignOutHandler())

	// Error surface and the protected dashboard stub
	s.RegisterRouteFunc("GET "+RouteAuthError, s.ErrorPageHandler())
	s.RegisterRouteFunc("GET "+RouteDashboard, s.DashboardHandler())
}
