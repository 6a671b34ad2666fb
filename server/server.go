package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/entraauth/go-login-service/internal/config"
	"github.com/entraauth/go-login-service/internal/metrics"
	"github.com/entraauth/go-login-service/provider"
	"github.com/entraauth/go-login-service/server/authflowrepo"
	"github.com/entraauth/go-login-service/session"
)

type Server struct {
	env      string // Environment (e.g., "DEV", "production")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	provider *provider.Client
	sessions *session.Service
}

func New(cfg config.Config) (*Server, error) {
	sessionService, err := session.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create session service: %w", err)
	}

	authStateRepo := authflowrepo.NewInMemoryRepo(cfg.GetAuthStateTTL())
	providerClient, err := provider.New(context.Background(), cfg, authStateRepo)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create provider client: %w", err)
	}

	if err := metrics.Register(nil); err != nil {
		return nil, fmt.Errorf("[Server New] failed to register metrics: %w", err)
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   cfg,
		provider: providerClient,
		sessions: sessionService,
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := MethodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
