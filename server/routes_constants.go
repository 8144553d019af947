package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteIndex = "/"

	// Auth-only pages
	RouteLogin  = "/login"
	RouteSignup = "/signup"

	// Auth Routes
	RouteAuthLogin         = "/auth/login"
	RouteAuthLogout        = "/auth/logout"
	RouteAuthRefresh       = "/auth/refresh"
	RouteMicrosoftSignIn   = "/auth/microsoft"
	RouteMicrosoftCallback = "/auth/microsoft/callback"

	// Protected pages
	RouteDashboard     = "/dashboard"
	RouteSubjects      = "/dashboard/subjects"
	RouteSubject       = "/dashboard/subjects/{id}"
	RouteSubjectDelete = "/dashboard/subjects/{id}/delete"
	RouteProfile       = "/profile"

	// Static Asset Routes (patterns)
	RouteStatic = "/static/{file}"
)
