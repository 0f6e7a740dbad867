package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bcgov/sbc-queue-session/internal/config"
	"github.com/bcgov/sbc-queue-session/locations"
	"github.com/bcgov/sbc-queue-session/sso"
	"github.com/bcgov/sbc-queue-session/staff"
)

// TokenExchanger is the boundary to the IdP token endpoints. Implemented by
// *sso.Client.
type TokenExchanger interface {
	LoginURL(redirectURI, state string) (string, error)
	LogoutURL(idToken, postLogoutRedirectURI string) (string, error)
	ExchangeCode(ctx context.Context, code, redirectURI string) (*sso.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*sso.TokenResponse, error)
}

// TokenValidator is the authoritative token liveness check. Implemented by
// *sso.Validator.
type TokenValidator interface {
	ValidateToken(ctx context.Context, rawToken string) (bool, error)
}

// Repos holds the repository dependencies for protected routes.
type Repos struct {
	Staff     staff.Repo
	Locations locations.Repo
}

type Server struct {
	env       string // deployment environment (NODE_ENV)
	mux       *http.ServeMux
	routes    []string
	config    config.Config
	ssoClient TokenExchanger
	validator TokenValidator
	repos     Repos
}

func New(config config.Config, ssoClient TokenExchanger, validator TokenValidator, repos Repos) (*Server, error) {
	if ssoClient == nil {
		return nil, fmt.Errorf("[Server New] sso client is required")
	}
	if validator == nil {
		return nil, fmt.Errorf("[Server New] token validator is required")
	}

	s := &Server{
		mux:       http.NewServeMux(),
		config:    config,
		ssoClient: ssoClient,
		validator: validator,
		repos:     repos,
	}
	s.env = config.GetNodeEnv()

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
	if s.env == "production" {
		return // Skip logging outside development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			log.Debug().Str("method", parts[0]).Str("path", parts[1]).Msg("route registered")
		} else {
			log.Debug().Str("path", parts[0]).Msg("route registered")
		}
	}
}
