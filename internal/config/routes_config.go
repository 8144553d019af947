package config

import (
	"sort"
	"strings"
)

type RouteConfig interface {
	GetProtectedRoutes() RouteSet
	GetAuthOnlyRoutes() RouteSet
	GetLoginPage() string
	GetHomePage() string
}

// RouteSet is an exact-match set of request paths.
type RouteSet map[string]struct{}

func NewRouteSet(paths ...string) RouteSet {
	set := make(RouteSet, len(paths))
	for _, p := range paths {
		set[p] = nullValue{}
	}
	return set
}

func (rs RouteSet) Contains(path string) bool {
	_, ok := rs[path]
	return ok
}

// Intersect returns the paths present in both sets, sorted.
func (rs RouteSet) Intersect(other RouteSet) []string {
	var shared []string
	for p := range rs {
		if other.Contains(p) {
			shared = append(shared, p)
		}
	}
	sort.Strings(shared)
	return shared
}

func (rs RouteSet) String() string {
	paths := make([]string, 0, len(rs))
	for p := range rs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return strings.Join(paths, ", ")
}

type Routes struct{}

var _ RouteConfig = Routes{}

func (Routes) GetProtectedRoutes() RouteSet {
	return NewRouteSet(GetEnvList("PROTECTED_ROUTES", []string{"/dashboard", "/profile"})...)
}

func (Routes) GetAuthOnlyRoutes() RouteSet {
	return NewRouteSet(GetEnvList("AUTH_ONLY_ROUTES", []string{"/login", "/signup"})...)
}

func (Routes) GetLoginPage() string {
	return "/login"
}

// GetHomePage is the default page of the protected area.
func (Routes) GetHomePage() string {
	return "/dashboard"
}
