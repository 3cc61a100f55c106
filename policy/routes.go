package policy

import (
	"strings"

	"github.com/thedevz43/landrecords/users"
)

// RouteState is the access decision for a navigated route.
type RouteState int

const (
	// RouteUnknown means the session is still loading; the gate must not
	// render the target subtree yet, nor redirect.
	RouteUnknown RouteState = iota
	// RouteDenied means the route is gated and the session is empty, or the
	// signed-in role is insufficient. The gate redirects to sign-in and must
	// not render the subtree, even partially.
	RouteDenied
	// RouteGranted means the route may render.
	RouteGranted
)

func (s RouteState) String() string {
	switch s {
	case RouteDenied:
		return "denied"
	case RouteGranted:
		return "granted"
	}
	return "unknown"
}

// publicRoutes are reachable with no session: home, sign-in and
// registration, the public land search, and the service information pages.
var publicRoutes = map[string]bool{
	"/":         true,
	"/login":    true,
	"/register": true,
	"/search":   true,
	"/services": true,
	"/mutation": true,
	"/tax":      true,
}

// Land detail pages are public: /land/{id}.
const landRoutePrefix = "/land/"

// gatedPrefixes cover the routes that require a session. Anything that is
// neither public nor gated falls through to the not-found page, which is
// itself public.
var gatedPrefixes = []string{"/dashboard", "/settings"}

// RequiresAuthentication reports whether route needs a populated session.
func RequiresAuthentication(route string) bool {
	if publicRoutes[route] || strings.HasPrefix(route, landRoutePrefix) {
		return false
	}
	for _, prefix := range gatedPrefixes {
		if route == prefix || strings.HasPrefix(route, prefix+"/") {
			return true
		}
	}
	// Unmatched routes render the not-found page.
	return false
}

// routeRoles returns the role restriction for a gated route, derived from
// the navigation catalog entry that targets it. A nil result means any
// authenticated role.
func (p *Policy) routeRoles(route string) []users.Role {
	for _, entry := range p.catalog {
		if entry.Route == route {
			return entry.Roles
		}
	}
	return nil
}

// EvaluateRoute runs the route-access state machine for a single navigation:
// UNKNOWN while the session loads, DENIED for a gated route with an empty
// session or an insufficient role, GRANTED otherwise. Gating collaborators
// re-evaluate on every navigation and on every session change; no grant is
// cached across mutations.
func (p *Policy) EvaluateRoute(route string, loading bool, user *users.User) RouteState {
	if !RequiresAuthentication(route) {
		return RouteGranted
	}
	if loading {
		return RouteUnknown
	}
	if user == nil {
		return RouteDenied
	}
	if roles := p.routeRoles(route); roles != nil {
		for _, r := range roles {
			if r == user.Role {
				return RouteGranted
			}
		}
		return RouteDenied
	}
	return RouteGranted
}
