// Package guard decides, for every navigation, whether to render the page or
// redirect. It is the single source of truth for access control: handlers and
// templates never re-derive role checks.
package guard

import (
	"net/url"
	"strings"

	"finboard/internal/roles"
	"finboard/internal/session"
)

const (
	LoginPath       = "/login"
	SSOPath         = "/sso"
	CallbackParam   = "callbackUrl"
	apiAuthPrefix   = "/auth"
)

// Paths reachable with or without a session. Role areas are not public; they
// are protected paths matched against the role-route table.
var publicPaths = []string{
	"/healthz",
	"/readyz",
	"/metrics",
	"/static",
	"/favicon.ico",
}

type Action int

const (
	Allow Action = iota
	Redirect
)

// Decision is the guard's verdict for one request. Location is set only for
// redirects and is always a same-origin absolute path.
type Decision struct {
	Action   Action
	Location string
}

func allow() Decision {
	return Decision{Action: Allow}
}

func redirect(location string) Decision {
	return Decision{Action: Redirect, Location: location}
}

type Guard struct {
	table roles.Table
}

// New validates the table up front: a role whose home route is outside its
// own allowed set would redirect-loop, so that configuration never boots.
func New(table roles.Table) (*Guard, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	return &Guard{table: table}, nil
}

// Decide classifies path and resolves the access decision. Classification is
// evaluated in fixed precedence order, first match wins:
//
//  1. api-auth routes pass through untouched
//  2. auth routes redirect home when already logged in
//  3. public routes render for anyone
//  4. protected without a session redirects to login (with callbackUrl)
//  5. protected with a session is matched against the role-route table
//
// Reordering these changes behavior: the role check must come after the
// public check or guests would be blocked from public pages.
func (g *Guard) Decide(sess *session.Session, path string) Decision {
	if isAPIAuth(path) {
		return allow()
	}

	if isAuthRoute(path) {
		if sess != nil {
			return redirect(sess.Role.Home())
		}

		return allow()
	}

	if isPublic(path) {
		return allow()
	}

	// Everything else is protected.
	if sess == nil {
		return redirect(loginRedirect(path))
	}

	if g.table.Allowed(sess.Role, path) {
		return allow()
	}

	// An authenticated user wandering into another role's area is bounced
	// home, not shown a 403.
	return redirect(sess.Role.Home())
}

// PostLogin resolves where a fresh session should land: the requested
// callback when it is a safe same-origin path the role may actually reach,
// otherwise the role's home route.
func (g *Guard) PostLogin(role roles.Role, callback string) string {
	if !isSafeCallback(callback) {
		return role.Home()
	}

	if g.Decide(&session.Session{Role: role}, callback).Action != Allow {
		return role.Home()
	}

	return callback
}

func loginRedirect(path string) string {
	// Redirecting the default landing route to login?callbackUrl=/ would
	// just annotate a redirect to itself; leave the parameter off.
	if path == roles.DefaultLanding {
		return LoginPath
	}

	return LoginPath + "?" + CallbackParam + "=" + url.QueryEscape(path)
}

func isAPIAuth(path string) bool {
	return roles.Matches(apiAuthPrefix, path)
}

func isAuthRoute(path string) bool {
	return path == LoginPath || path == SSOPath
}

func isPublic(path string) bool {
	for _, p := range publicPaths {
		if roles.Matches(p, path) {
			return true
		}
	}

	return false
}

// isSafeCallback accepts only same-origin absolute paths. Anything with a
// scheme, host, or protocol-relative prefix is an open-redirect vector.
func isSafeCallback(callback string) bool {
	if callback == "" || !strings.HasPrefix(callback, "/") {
		return false
	}

	if strings.HasPrefix(callback, "//") || strings.Contains(callback, "\\") {
		return false
	}

	return true
}
