package server

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Paul200287/GradeTracker/auth"
	"github.com/Paul200287/GradeTracker/clientstore"
	"github.com/Paul200287/GradeTracker/gateway"
	apperrors "github.com/Paul200287/GradeTracker/internal/errors"
	"github.com/Paul200287/GradeTracker/internal/validation"
	"github.com/Paul200287/GradeTracker/subjects"
	"github.com/Paul200287/GradeTracker/token"
	"github.com/Paul200287/GradeTracker/users"
)

const (
	// authFlowCookieName binds a provider sign-in attempt to the browser that started it
	authFlowCookieName = "auth_flow"

	sessionExpiredMessage = "Session expired. Please login again."
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeySession stores the verified session payload
const ContextKeySession ContextKey = "session"

// RequireSession is the page-entry check for protected pages. It covers the
// paths the route guard does not match exactly, such as /dashboard/subjects/7.
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			payload, ok := s.sessions.Check(r).Payload()
			if !ok {
				redirectSuccess(w, r, s.config.GetLoginPage())
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeySession, payload)
			next(w, r.WithContext(ctx))
		}
	}
}

func sessionFromContext(ctx context.Context) (token.Payload, bool) {
	p, ok := ctx.Value(ContextKeySession).(token.Payload)
	return p, ok
}

// clientStoreFor scopes the client token store to one server session.
func (s *Server) clientStoreFor(p token.Payload) *clientstore.Store {
	if s.clients == nil {
		return clientstore.New(nil)
	}
	ns := p.ID
	if ns == "" {
		ns = "sub:" + p.SubjectID
	}
	return clientstore.New(clientstore.Namespace(s.clients, ns))
}

// startSession is the single login step: it issues the session cookie and
// caches the backend token under it.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, identity auth.Identity) error {
	if previous, ok := s.sessions.Read(r); ok {
		s.clientStoreFor(previous).Clear(r.Context())
	}

	payload, err := s.sessions.Create(w, identity.User.SubjectID())
	if err != nil {
		return err
	}
	s.clientStoreFor(payload).Set(r.Context(), identity.AccessToken, identity.User)
	return nil
}

// endSession clears both stores.
func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	if payload, ok := s.sessions.Read(r); ok {
		s.clientStoreFor(payload).Clear(r.Context())
	}
	s.sessions.Destroy(w)
}

// pageNavigator records where the gateway wants the browser to go. The page
// handler performs the redirect once the backend call has returned.
type pageNavigator struct {
	target string
}

func (n *pageNavigator) Navigate(path string) {
	n.target = path
}

// backendSession is a request-scoped view of the backend for a signed-in page.
type backendSession struct {
	payload  token.Payload
	store    *clientstore.Store
	nav      *pageNavigator
	subjects *subjects.Client
	users    *users.Client
}

func (s *Server) backendFor(r *http.Request) (*backendSession, error) {
	payload, ok := sessionFromContext(r.Context())
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}

	store := s.clientStoreFor(payload)
	nav := &pageNavigator{}
	options := []gateway.Option{gateway.WithTimeout(s.backend.timeout)}
	if s.backend.httpClient != nil {
		options = append(options, gateway.WithHTTPClient(s.backend.httpClient))
	}
	api, err := gateway.New(s.backend.url, store, nav, options...)
	if err != nil {
		return nil, err
	}

	return &backendSession{
		payload:  payload,
		store:    store,
		nav:      nav,
		subjects: subjects.NewClient(api, store),
		users:    users.NewClient(api),
	}, nil
}

// forcedLogout finishes a logout the gateway started: the client store is
// already empty, so the session cookie goes too and the browser follows the
// gateway's redirect. Reports whether it handled the response.
func (s *Server) forcedLogout(w http.ResponseWriter, r *http.Request, b *backendSession) bool {
	if b.nav.target == "" {
		return false
	}
	s.sessions.Destroy(w)
	redirectWithError(w, r, b.nav.target, sessionExpiredMessage)
	return true
}

// userMessage turns an error from a backend-facing call into banner text.
func userMessage(err error) string {
	switch {
	case apperrors.Is(err, apperrors.ErrNotLoggedIn):
		return "User not logged in"
	case apperrors.Is(err, apperrors.ErrValidation):
		return validation.Message(err)
	case apperrors.Is(err, apperrors.ErrTransport):
		return "Could not reach the server. Please try again."
	}
	return gateway.ErrorMessage(err)
}

func (s *Server) setAuthFlowCookie(w http.ResponseWriter, state string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     authFlowCookieName,
		Value:    state,
		Path:     RouteMicrosoftCallback,
		HttpOnly: true,
		Secure:   s.config.GetSecureCookies(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithError helper for htmx-aware error redirects
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg string) {
	redirectSuccess(w, r, withQuery(path, "error", errorMsg))
}

func withQuery(path, key, value string) string {
	u, err := url.Parse(path)
	if err != nil {
		return path
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
