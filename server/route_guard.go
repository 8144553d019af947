package server

import (
	"net/http"
	"strings"

	"github.com/Paul200287/GradeTracker/internal/config"
	"github.com/Paul200287/GradeTracker/sessions"
)

// RouteClass is how the guard treats a path.
type RouteClass int

const (
	RouteOpen RouteClass = iota
	RouteProtected
	RouteAuthOnly
)

// RouteGuard decides, before any page logic runs, whether a navigation may
// proceed. It only reads the session cookie and never modifies it.
type RouteGuard struct {
	sessions  *sessions.Store
	protected config.RouteSet
	authOnly  config.RouteSet
	loginPage string
	homePage  string
}

func NewRouteGuard(store *sessions.Store, protected, authOnly config.RouteSet, loginPage, homePage string) *RouteGuard {
	return &RouteGuard{
		sessions:  store,
		protected: protected,
		authOnly:  authOnly,
		loginPage: loginPage,
		homePage:  homePage,
	}
}

// Classify matches path exactly against the two route sets.
func (g *RouteGuard) Classify(path string) RouteClass {
	switch {
	case g.protected.Contains(path):
		return RouteProtected
	case g.authOnly.Contains(path):
		return RouteAuthOnly
	}
	return RouteOpen
}

// Redirect returns where the request should go instead, or "" to let it through.
func (g *RouteGuard) Redirect(r *http.Request) string {
	if !guarded(r.URL.Path) {
		return ""
	}

	class := g.Classify(r.URL.Path)
	if class == RouteOpen {
		return ""
	}

	_, hasSession := g.sessions.Read(r)
	switch {
	case class == RouteAuthOnly && hasSession:
		return g.homePage
	case class == RouteProtected && !hasSession:
		return g.loginPage
	}
	return ""
}

func (g *RouteGuard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if target := g.Redirect(r); target != "" {
			redirectSuccess(w, r, target)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// guarded excludes API calls, static assets, the favicon and images. Like a
// path-prefix matcher, "/api" also covers "/apiary".
func guarded(path string) bool {
	switch {
	case strings.HasPrefix(path, "/api"):
		return false
	case strings.HasPrefix(path, "/static/"):
		return false
	case strings.HasPrefix(path, "/favicon.ico"):
		return false
	case strings.HasSuffix(path, ".png"):
		return false
	}
	return true
}
