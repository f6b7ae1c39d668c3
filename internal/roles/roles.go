// Package roles defines the closed set of dashboard roles and the static
// table of path prefixes each role may reach.
package roles

import (
	"fmt"
	"strings"
)

type Role string

const (
	CEO   Role = "CEO"
	CFO   Role = "CFO"
	Admin Role = "ADMIN"
	Guest Role = "GUEST"
)

// All lists every known role. Order matters only for deterministic iteration
// in validation and tests.
var All = []Role{CEO, CFO, Admin, Guest}

// Parse maps the role string issued by the remote API to a Role. Matching is
// case-insensitive; anything outside the closed set is an error rather than a
// silent fallthrough.
func Parse(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(CEO):
		return CEO, nil
	case string(CFO):
		return CFO, nil
	case string(Admin):
		return Admin, nil
	case string(Guest):
		return Guest, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Home returns the role's default landing route.
func (r Role) Home() string {
	switch r {
	case CEO:
		return "/ceo"
	case Admin:
		return "/admin"
	case Guest:
		return "/guest"
	default:
		// CFO owns the root dashboard. Unknown roles land here too so a
		// bad session degrades to the public-most page instead of looping.
		return DefaultLanding
	}
}

// DefaultLanding is the global default landing route (the CFO dashboard).
const DefaultLanding = "/"

// Table maps a role to the ordered set of path prefixes it may access.
type Table map[Role][]string

// DefaultTable is the process-wide role-route table. The root prefix "/"
// matches only the root path itself (see Matches), so the CFO set names each
// feature area explicitly.
var DefaultTable = Table{
	CEO: {"/ceo"},
	CFO: {
		"/",
		"/startups",
		"/customers",
		"/invoices",
		"/items",
		"/payments",
		"/projects",
		"/budget-proposals",
		"/categories",
		"/expenses",
	},
	Admin: {"/admin"},
	Guest: {"/guest"},
}

// Allowed reports whether the role may access path. A role absent from the
// table has no allowed prefixes.
func (t Table) Allowed(role Role, path string) bool {
	for _, prefix := range t[role] {
		if Matches(prefix, path) {
			return true
		}
	}

	return false
}

// Validate enforces by construction that every role has at least one allowed
// prefix and that each role's home route is inside its own allowed set. A
// table violating either rule can redirect a logged-in user in a loop.
func (t Table) Validate() error {
	for _, role := range All {
		prefixes := t[role]

		if len(prefixes) == 0 {
			return fmt.Errorf("role %s has no allowed prefixes", role)
		}

		if !t.Allowed(role, role.Home()) {
			return fmt.Errorf("role %s home route %s is not in its allowed set", role, role.Home())
		}
	}

	return nil
}

// Matches reports whether path falls under prefix. Matching is segment-aware:
// "/guest" covers "/guest" and "/guest/view-startup/42" but not "/guestbook".
// The root prefix "/" covers only "/" itself.
func Matches(prefix, path string) bool {
	if prefix == "/" {
		return path == "/"
	}

	if path == prefix {
		return true
	}

	return strings.HasPrefix(path, prefix+"/")
}
