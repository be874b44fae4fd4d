package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth flow routes
	RouteSignIn      = "/auth/signin"
	RouteAddBot      = "/auth/add-bot"
	RouteCallback    = "/auth/callback"
	RouteBotCallback = "/auth/bot-callback"
	RouteAuthError   = "/auth/error"

	// Session API routes
	RouteAPISession = "/api/auth/session"
	RouteAPISignOut = "/api/auth/signout"

	// Protected application routes
	RouteDashboard = "/dashboard"
)
