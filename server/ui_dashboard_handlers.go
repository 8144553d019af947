package server

import (
	"net/http"
	"strconv"

	"github.com/Paul200287/GradeTracker/internal/utils"
	"github.com/Paul200287/GradeTracker/subjects"
)

// DashboardPageData contains data for rendering the subjects dashboard
type DashboardPageData struct {
	basePage
	Subjects  []subjects.Subject
	Total     int
	Query     string
	Form      subjects.Input
	CanCreate bool
}

// SubjectEditPageData contains data for rendering the subject edit form
type SubjectEditPageData struct {
	basePage
	SubjectID int
	Form      subjects.Input
	CreatedAt utils.Timestamp
	UpdatedAt utils.Timestamp
}

func (s *Server) page(r *http.Request, b *backendSession, title, active string) basePage {
	user, _ := b.store.User(r.Context())
	return basePage{
		AppName: s.config.GetAppName(),
		Title:   title,
		Active:  active,
		User:    user,
		Error:   r.URL.Query().Get("error"),
		Notice:  r.URL.Query().Get("notice"),
	}
}

// withBackend resolves the request's backend view, answering with a 500 when
// it cannot be built.
func (s *Server) withBackend(next func(http.ResponseWriter, *http.Request, *backendSession)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := s.backendFor(r)
		if err != nil {
			requestLogger(r).Err(err).Msg("Failed to prepare backend client")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		next(w, r, b)
	}
}

// DashboardHandler lists the user's subjects, filtered by ?q=
func (s *Server) DashboardHandler() http.HandlerFunc {
	return s.withBackend(func(w http.ResponseWriter, r *http.Request, b *backendSession) {
		s.renderDashboard(w, r, b, subjects.Input{}, "", http.StatusOK)
	})
}

func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, b *backendSession, form subjects.Input, errMsg string, status int) {
	data := DashboardPageData{
		basePage: s.page(r, b, "Subjects", "dashboard"),
		Query:    r.URL.Query().Get("q"),
		Form:     form,
	}
	if errMsg != "" {
		data.Error = errMsg
	}

	list, err := b.subjects.List(r.Context())
	if s.forcedLogout(w, r, b) {
		return
	}
	if err != nil {
		requestLogger(r).Warn().Err(err).Msg("Failed to load subjects")
		if data.Error == "" {
			data.Error = userMessage(err)
		}
	}

	data.Total = len(list)
	data.Subjects = subjects.Filter(list, data.Query)
	data.CanCreate = data.User.HasID()
	s.pages.render(w, status, pageDashboard, data)
}

func subjectFromForm(r *http.Request) subjects.Input {
	return subjects.Input{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Semester:    r.FormValue("semester"),
		TeacherName: r.FormValue("teacher_name"),
	}
}

func subjectID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	return id, err == nil && id > 0
}

// CreateSubjectHandler files a new subject (POST /dashboard/subjects)
func (s *Server) CreateSubjectHandler() http.HandlerFunc {
	return s.withBackend(func(w http.ResponseWriter, r *http.Request, b *backendSession) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		form := subjectFromForm(r)

		created, err := b.subjects.Create(r.Context(), form)
		if s.forcedLogout(w, r, b) {
			return
		}
		if err != nil {
			requestLogger(r).Info().Err(err).Msg("Subject not created")
			s.renderDashboard(w, r, b, form, userMessage(err), http.StatusUnprocessableEntity)
			return
		}

		redirectSuccess(w, r, withQuery(RouteDashboard, "notice", "Created "+created.Name))
	})
}

// EditSubjectHandler shows the edit form (GET /dashboard/subjects/{id})
func (s *Server) EditSubjectHandler() http.HandlerFunc {
	return s.withBackend(func(w http.ResponseWriter, r *http.Request, b *backendSession) {
		id, ok := subjectID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}

		subject, err := b.subjects.Get(r.Context(), id)
		if s.forcedLogout(w, r, b) {
			return
		}
		if err != nil {
			redirectWithError(w, r, RouteDashboard, userMessage(err))
			return
		}

		s.pages.render(w, http.StatusOK, pageSubjectEdit, SubjectEditPageData{
			basePage:  s.page(r, b, "Edit "+subject.Name, "dashboard"),
			SubjectID: subject.ID,
			Form:      subjects.FromSubject(*subject),
			CreatedAt: subject.CreatedAt,
			UpdatedAt: subject.UpdatedAt,
		})
	})
}

// UpdateSubjectHandler saves the edit form (POST /dashboard/subjects/{id})
func (s *Server) UpdateSubjectHandler() http.HandlerFunc {
	return s.withBackend(func(w http.ResponseWriter, r *http.Request, b *backendSession) {
		id, ok := subjectID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		form := subjectFromForm(r)

		updated, err := b.subjects.Update(r.Context(), id, form)
		if s.forcedLogout(w, r, b) {
			return
		}
		if err != nil {
			data := SubjectEditPageData{
				basePage:  s.page(r, b, "Edit subject", "dashboard"),
				SubjectID: id,
				Form:      form,
			}
			data.Error = userMessage(err)
			s.pages.render(w, http.StatusUnprocessableEntity, pageSubjectEdit, data)
			return
		}

		redirectSuccess(w, r, withQuery(RouteDashboard, "notice", "Saved "+updated.Name))
	})
}

// DeleteSubjectHandler removes a subject (POST /dashboard/subjects/{id}/delete)
func (s *Server) DeleteSubjectHandler() http.HandlerFunc {
	return s.withBackend(func(w http.ResponseWriter, r *http.Request, b *backendSession) {
		id, ok := subjectID(r)
		if !ok {
			http.NotFound(w, r)
			return
		}

		err := b.subjects.Delete(r.Context(), id)
		if s.forcedLogout(w, r, b) {
			return
		}
		if err != nil {
			redirectWithError(w, r, RouteDashboard, userMessage(err))
			return
		}
		redirectSuccess(w, r, withQuery(RouteDashboard, "notice", "Subject deleted"))
	})
}
