package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	s.registerAPIRoute(http.MethodGet, RouteIndex, s.IndexHandler())

	// LOGIN FLOW
	s.registerAPIRoute(http.MethodGet, RouteAuthLogin, s.LoginHandler())
	s.registerAPIRoute(http.MethodGet, RouteAuthCallback, s.CallbackHandler())

	// SESSION API (bearer token)
	s.registerAPIRoute(http.MethodGet, RouteAuthUser, s.UserHandler(), s.RequireAuth())
	s.registerAPIRoute(http.MethodPost, RouteAuthRefresh, s.RefreshHandler())

	// OPS
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.Handler())
}

// registerAPIRoute registers a handler behind the API middleware chain plus a
// matching OPTIONS route, so browser preflight requests reach CorsMiddleware
// instead of being rejected by the mux's method matching.
func (s *Server) registerAPIRoute(method, path string, handler http.HandlerFunc, extra ...func(http.HandlerFunc) http.HandlerFunc) {
	s.RegisterRouteHandler(method+" "+path, ChainMiddleware(handler, append(s.APIMiddleware(), extra...)...))
	s.RegisterRouteHandler("OPTIONS "+path, ChainMiddleware(preflight, s.APIMiddleware()...))
}

// preflight terminates OPTIONS requests carrying no Origin header. CORS
// preflights are answered by CorsMiddleware before reaching here.
func preflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
