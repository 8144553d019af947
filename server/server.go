package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Paul200287/GradeTracker/auth"
	"github.com/Paul200287/GradeTracker/clientstore"
	"github.com/Paul200287/GradeTracker/internal/config"
	"github.com/Paul200287/GradeTracker/server/authflowrepo"
	"github.com/Paul200287/GradeTracker/sessions"
	"github.com/Paul200287/GradeTracker/token"
	"github.com/rs/zerolog/log"
)

// IdentityProvider runs the external sign-in flow. *auth.MicrosoftProvider is the
// production implementation.
type IdentityProvider interface {
	AuthCodeURL(flow auth.FlowParams) string
	Exchange(ctx context.Context, code string, flow auth.FlowParams) (auth.Identity, error)
}

// Deps are the collaborators the server does not build from configuration.
type Deps struct {
	Login *auth.Service
	// Microsoft is nil when provider sign-in is disabled.
	Microsoft IdentityProvider
	// ClientStorage holds per-session backend tokens; nil keeps none.
	ClientStorage clientstore.Storage
	AuthState     authflowrepo.Repo
	// HTTPClient is used for backend calls; nil uses http.DefaultClient.
	HTTPClient *http.Client
	// Now overrides the session clock.
	Now func() time.Time
}

type Server struct {
	env       string // Environment (e.g., "DEV", "PRODUCTION")
	mux       *http.ServeMux
	handler   http.Handler
	routes    []string
	config    config.Config
	sessions  *sessions.Store
	guard     *RouteGuard
	login     *auth.Service
	microsoft IdentityProvider
	clients   clientstore.Storage
	authState authflowrepo.Repo
	backend   backendSettings
	pages     *pageSet
}

type backendSettings struct {
	url        string
	timeout    time.Duration
	httpClient *http.Client
}

func New(cfg config.Config, deps Deps) (*Server, error) {
	if deps.Login == nil {
		return nil, fmt.Errorf("[Server New] a login service is required")
	}

	secret, _ := cfg.GetSessionSecret()
	codecOptions := []token.CodecOption{token.WithVerboseFailures(!cfg.IsProduction())}
	if deps.Now != nil {
		codecOptions = append(codecOptions, token.WithNowFunc(deps.Now))
	}
	codec, err := token.NewCodec(secret, codecOptions...)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create session codec: %w", err)
	}

	authState := deps.AuthState
	if authState == nil {
		authState = authflowrepo.NewInMemoryRepo()
	}

	pages, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to parse templates: %w", err)
	}

	s := &Server{
		env:    cfg.GetEnv(),
		mux:    http.NewServeMux(),
		config: cfg,
		sessions: sessions.NewStore(codec,
			sessions.WithTTL(cfg.GetSessionTTL()),
			sessions.WithCookieName(cfg.GetSessionCookieName()),
			sessions.WithSecureCookies(cfg.GetSecureCookies()),
		),
		login:     deps.Login,
		microsoft: deps.Microsoft,
		clients:   deps.ClientStorage,
		authState: authState,
		backend: backendSettings{
			url:        cfg.GetBackendURL(),
			timeout:    cfg.GetBackendTimeout(),
			httpClient: deps.HTTPClient,
		},
		pages: pages,
	}
	s.guard = NewRouteGuard(s.sessions, cfg.GetProtectedRoutes(), cfg.GetAuthOnlyRoutes(), cfg.GetLoginPage(), cfg.GetHomePage())

	s.initRoutes()
	s.handler = s.guard.Middleware(s.mux)
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
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
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Debug().Msgf("[%-19s] %s", displayMethod, path)
}
