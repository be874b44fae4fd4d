// Package server is the HTTP surface of the auth subsystem: the two
// OAuth flow controllers, the session API, and the session gate in
// front of protected routes.
package server

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/guilddash/guilddash/discord"
	"github.com/guilddash/guilddash/installations"
	"github.com/guilddash/guilddash/internal/config"
	"github.com/guilddash/guilddash/token"
	"github.com/guilddash/guilddash/token/refresh"
	"github.com/guilddash/guilddash/users"
)

// Repos holds all repository dependencies for the Server
type Repos struct {
	Users         users.Repo
	RefreshTokens refresh.Repo
	Installations installations.Repo
}

type Server struct {
	env     string // Environment (e.g., "DEV", "PRODUCTION")
	mux     *http.ServeMux
	handler http.Handler
	routes  []string
	config  config.Config
	tokens  *token.Manager
	repos   Repos
	discord discord.API
}

func New(cfg config.Config, tokens *token.Manager, repos Repos, discordAPI discord.API) (*Server, error) {
	if tokens == nil {
		return nil, errors.New("[Server New] token manager is required")
	}
	if repos.Users == nil {
		return nil, errors.New("[Server New] Users repo is required")
	}
	if repos.RefreshTokens == nil {
		return nil, errors.New("[Server New] RefreshTokens repo is required")
	}
	if repos.Installations == nil {
		return nil, errors.New("[Server New] Installations repo is required")
	}
	if discordAPI == nil {
		return nil, errors.New("[Server New] discord API client is required")
	}

	s := &Server{
		mux:     http.NewServeMux(),
		config:  cfg,
		tokens:  tokens,
		repos:   repos,
		discord: discordAPI,
	}
	s.env = cfg.GetEnv()

	s.initRoutes()

	// The gate wraps the whole mux so its prefix set decides coverage;
	// logging and recovery wrap the gate so even gate redirects are
	// logged and panics never escape.
	s.handler = ChainMiddleware(
		s.SessionGate(s.mux.ServeHTTP),
		s.LoggingMiddleware,
		s.RecoverMiddleware,
	)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// callbackURL and botCallbackURL are the redirect URIs registered with
// the provider; the exchange must repeat them exactly.
func (s *Server) callbackURL() string {
	return s.config.GetBaseURL() + RouteCallback
}

func (s *Server) botCallbackURL() string {
	return s.config.GetBaseURL() + RouteBotCallback
}
