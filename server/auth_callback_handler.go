package server

import (
	"net/http"
	"time"

	"github.com/Paul200287/GradeTracker/auth"
	"github.com/Paul200287/GradeTracker/server/authflowrepo"
)

const (
	providerNotConfiguredMessage = "Microsoft sign-in is not configured"
	providerFailedMessage        = "Microsoft sign-in failed. Please try again."
)

// MicrosoftSignInHandler starts the authorization code flow (GET /auth/microsoft)
func (s *Server) MicrosoftSignInHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.microsoft == nil {
			redirectWithError(w, r, s.config.GetLoginPage(), providerNotConfiguredMessage)
			return
		}

		flow := auth.NewFlow()
		err := s.authState.Upsert(flow.State, &authflowrepo.AuthFlowState{
			CodeVerifier: flow.CodeVerifier,
			Nonce:        flow.Nonce,
			ReturnURL:    auth.SafeReturnPath(r.URL.Query().Get("return"), s.config.GetHomePage()),
			CreatedAt:    time.Now(),
		})
		if err != nil {
			requestLogger(r).Err(err).Msg("Failed to store auth flow state")
			redirectWithError(w, r, s.config.GetLoginPage(), providerFailedMessage)
			return
		}

		s.setAuthFlowCookie(w, flow.State, int(authflowrepo.DefaultMaxAge.Seconds()))
		http.Redirect(w, r, s.microsoft.AuthCodeURL(flow), http.StatusFound)
	}
}

// MicrosoftCallbackHandler completes the flow and starts a console session.
func (s *Server) MicrosoftCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(r)
		if s.microsoft == nil {
			redirectWithError(w, r, s.config.GetLoginPage(), providerNotConfiguredMessage)
			return
		}

		q := r.URL.Query()
		if providerErr := q.Get("error"); providerErr != "" {
			logger.Warn().Str("error", providerErr).Str("description", q.Get("error_description")).Msg("Provider returned an error")
			redirectWithError(w, r, s.config.GetLoginPage(), providerFailedMessage)
			return
		}

		state := q.Get("state")
		if err := auth.ValidateState(state); err != nil {
			logger.Warn().Err(err).Msg("Invalid callback state")
			redirectWithError(w, r, s.config.GetLoginPage(), providerFailedMessage)
			return
		}

		// The state must come back to the browser that started the flow.
		cookie, err := r.Cookie(authFlowCookieName)
		s.setAuthFlowCookie(w, "", -1)
		if err != nil || cookie.Value != state {
			logger.Warn().Msg("Callback state does not match this browser")
			redirectWithError(w, r, s.config.GetLoginPage(), providerFailedMessage)
			return
		}

		flowState, err := s.authState.Take(state)
		if err != nil {
			logger.Warn().Err(err).Msg("Unknown or expired auth flow state")
			redirectWithError(w, r, s.config.GetLoginPage(), providerFailedMessage)
			return
		}

		code := q.Get("code")
		if code == "" {
			redirectWithError(w, r, s.config.GetLoginPage(), providerFailedMessage)
			return
		}

		identity, err := s.microsoft.Exchange(r.Context(), code, auth.FlowParams{
			State:        state,
			Nonce:        flowState.Nonce,
			CodeVerifier: flowState.CodeVerifier,
		})
		if err != nil {
			logger.Err(err).Msg("Microsoft token exchange failed")
			redirectWithError(w, r, s.config.GetLoginPage(), providerFailedMessage)
			return
		}

		// Provider access tokens are not accepted by the backend.
		identity.AccessToken = ""
		if err := s.startSession(w, r, identity); err != nil {
			logger.Err(err).Msg("Failed to create session")
			redirectWithError(w, r, s.config.GetLoginPage(), "An error occurred during login")
			return
		}

		redirectSuccess(w, r, auth.SafeReturnPath(flowState.ReturnURL, s.config.GetHomePage()))
	}
}
