package server

import (
	"encoding/json"
	"net/http"

	"github.com/Paul200287/GradeTracker/auth"
	apperrors "github.com/Paul200287/GradeTracker/internal/errors"
	"github.com/Paul200287/GradeTracker/internal/validation"
	"github.com/rs/zerolog/log"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	basePage
	Email            string // Preserve email on error
	ReturnURL        string
	MicrosoftEnabled bool
	DevLogin         bool
	DevEmail         string
	DevPassword      string
}

// IndexHandler sends the visitor to the dashboard or the login page. An error
// message, e.g. from a forced logout, is carried along to the login page.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.sessions.Read(r); ok {
			redirectSuccess(w, r, s.config.GetHomePage())
			return
		}
		if msg := r.URL.Query().Get("error"); msg != "" {
			redirectWithError(w, r, s.config.GetLoginPage(), msg)
			return
		}
		redirectSuccess(w, r, s.config.GetLoginPage())
	}
}

// LoginPageHandler displays the login page (GET /login)
func (s *Server) LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		data := LoginPageData{
			basePage: basePage{
				AppName: s.config.GetAppName(),
				Title:   "Sign in",
				Error:   q.Get("error"),
			},
			Email:            q.Get("email"),
			ReturnURL:        auth.SafeReturnPath(q.Get("return"), ""),
			MicrosoftEnabled: s.microsoft != nil,
			DevLogin:         s.config.GetDevLogin(),
		}
		if data.DevLogin {
			data.DevEmail = auth.DevEmail
			data.DevPassword = auth.DevPassword
		}
		s.pages.render(w, http.StatusOK, pageLogin, data)
	}
}

// SignupHandler accounts are provisioned by an administrator in the backend.
func (s *Server) SignupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		redirectWithError(w, r, s.config.GetLoginPage(), "Sign up is not available. Ask an administrator for an account.")
	}
}

// LoginSubmissionHandler processes the login form submission
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		email := r.FormValue("email")
		returnURL := auth.SafeReturnPath(r.FormValue("return"), "")

		identity, err := s.login.Login(r.Context(), email, r.FormValue("password"))
		if err != nil {
			s.redirectToLogin(w, r, loginErrorMessage(err), email, returnURL)
			return
		}

		if err := s.startSession(w, r, identity); err != nil {
			requestLogger(r).Err(err).Msg("Failed to create session")
			s.redirectToLogin(w, r, "An error occurred during login", email, returnURL)
			return
		}

		redirectSuccess(w, r, auth.SafeReturnPath(returnURL, s.config.GetHomePage()))
	}
}

func (s *Server) redirectToLogin(w http.ResponseWriter, r *http.Request, msg, email, returnURL string) {
	target := withQuery(s.config.GetLoginPage(), "email", email)
	if returnURL != "" {
		target = withQuery(target, "return", returnURL)
	}
	redirectWithError(w, r, target, msg)
}

func loginErrorMessage(err error) string {
	switch {
	case apperrors.Is(err, apperrors.ErrMissingCredentials):
		return "Email and password are required"
	case apperrors.Is(err, apperrors.ErrInvalidCredentials):
		return "Invalid email or password"
	case apperrors.Is(err, apperrors.ErrValidation):
		return validation.Message(err)
	case apperrors.Is(err, apperrors.ErrTransport):
		return "Could not reach the server. Please try again."
	}
	log.Err(err).Msg("Unexpected login failure")
	return "An error occurred during login"
}

// LogoutHandler clears the client token store and the session cookie.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.endSession(w, r)
		redirectSuccess(w, r, s.config.GetLoginPage())
	}
}

// RefreshHandler renews the session expiry for an open tab. The cached backend
// token is written back too, so storage-side expiry follows the session.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		payload, ok := s.sessions.Refresh(w, r)
		if !ok {
			w.Header().Set("Content-Type", contentTypeJSON)
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Not authenticated"})
			return
		}
		s.clientStoreFor(payload).Renew(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}
}
