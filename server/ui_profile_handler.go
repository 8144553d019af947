package server

import (
	"net/http"

	"github.com/Paul200287/GradeTracker/users"
)

// ProfilePageData contains data for rendering the profile page
type ProfilePageData struct {
	basePage
	Profile *users.User
	Users   []users.User
}

// ProfileHandler loads the current profile from the backend and refreshes the
// cached snapshot. Superusers also see the user list.
func (s *Server) ProfileHandler() http.HandlerFunc {
	return s.withBackend(func(w http.ResponseWriter, r *http.Request, b *backendSession) {
		data := ProfilePageData{basePage: s.page(r, b, "Profile", "profile")}

		profile, err := b.users.Profile(r.Context())
		if s.forcedLogout(w, r, b) {
			return
		}
		if err != nil {
			requestLogger(r).Warn().Err(err).Msg("Failed to load profile")
			data.Error = userMessage(err)
			data.Profile = data.User
			s.pages.render(w, http.StatusOK, pageProfile, data)
			return
		}

		b.store.SetUser(r.Context(), profile)
		data.User = profile
		data.Profile = profile

		if profile.IsSuperuser() {
			list, err := b.users.List(r.Context())
			if s.forcedLogout(w, r, b) {
				return
			}
			if err != nil {
				data.Error = userMessage(err)
			}
			data.Users = list
		}

		s.pages.render(w, http.StatusOK, pageProfile, data)
	})
}
