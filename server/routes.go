package server

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteIndex+"{$}", ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare()...))

	// LOGIN
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginPageHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteSignup, ChainMiddleware(s.SignupHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteMicrosoftSignIn, ChainMiddleware(s.MicrosoftSignInHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteMicrosoftCallback, ChainMiddleware(s.MicrosoftCallbackHandler(), s.HTMLMiddleWare()...))

	// Session keep-alive for long-lived tabs
	s.RegisterRouteHandler("POST "+RouteAuthRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("OPTIONS "+RouteAuthRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))

	// Protected pages
	s.RegisterRouteHandler("GET "+RouteDashboard, ChainMiddleware(s.DashboardHandler(), s.HTMLMiddleWare(s.RequireSession())...))
	s.RegisterRouteHandler("POST "+RouteSubjects, ChainMiddleware(s.CreateSubjectHandler(), s.HTMLMiddleWare(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteSubject, ChainMiddleware(s.EditSubjectHandler(), s.HTMLMiddleWare(s.RequireSession())...))
	s.RegisterRouteHandler("POST "+RouteSubject, ChainMiddleware(s.UpdateSubjectHandler(), s.HTMLMiddleWare(s.RequireSession())...))
	s.RegisterRouteHandler("POST "+RouteSubjectDelete, ChainMiddleware(s.DeleteSubjectHandler(), s.HTMLMiddleWare(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteProfile, ChainMiddleware(s.ProfileHandler(), s.HTMLMiddleWare(s.RequireSession())...))

	s.RegisterRouteHandler("GET "+RouteStatic, ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := r.PathValue("file")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		err := StreamFile(w, r, filePath)
		if err != nil {
			logError(r.Method, r.URL.Path, err.Error())
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}

func logError(method, path, error string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	errorString := Red + error + ResetColor
	log.Warn().Msgf("[%-19s] %s %s", displayMethod, path, errorString)
}
