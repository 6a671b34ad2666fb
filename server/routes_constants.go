package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteIndex        = "/"
	RouteAuthLogin    = "/auth/login"
	RouteAuthCallback = "/auth/callback"
	RouteAuthUser     = "/auth/user"
	RouteAuthRefresh  = "/auth/refresh"
	RouteHealth       = "/health"
	RouteMetrics      = "/metrics"
)
