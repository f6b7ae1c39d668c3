package guard

import (
	"testing"

	"finboard/internal/roles"
	"finboard/internal/session"
)

func newGuard(t *testing.T) *Guard {
	t.Helper()

	g, err := New(roles.DefaultTable)

	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return g
}

func sessionFor(role roles.Role) *session.Session {
	return &session.Session{
		UserID: "u-1",
		Email:  "user@example.com",
		Role:   role,
		Token:  "bearer-token",
	}
}

func TestNewRejectsInvalidTable(t *testing.T) {
	bad := roles.Table{
		roles.CEO:   {"/reports"}, // home /ceo not in the set
		roles.CFO:   {"/"},
		roles.Admin: {"/admin"},
		roles.Guest: {"/guest"},
	}

	if _, err := New(bad); err == nil {
		t.Fatal("expected constructor to reject a table without the role's home route")
	}
}

func TestDecideUnauthenticated(t *testing.T) {
	g := newGuard(t)

	tests := []struct {
		name string
		path string
		want Decision
	}{
		{"login renders", "/login", Decision{Action: Allow}},
		{"sso renders", "/sso", Decision{Action: Allow}},
		{"api auth passes through", "/auth/login", Decision{Action: Allow}},
		{"public path", "/healthz", Decision{Action: Allow}},
		{"static assets", "/static/app.css", Decision{Action: Allow}},
		{
			"protected path gets callback",
			"/customers",
			Decision{Action: Redirect, Location: "/login?callbackUrl=%2Fcustomers"},
		},
		{
			"nested protected path gets callback",
			"/ceo/startups",
			Decision{Action: Redirect, Location: "/login?callbackUrl=%2Fceo%2Fstartups"},
		},
		{
			"default landing route gets no callback",
			"/",
			Decision{Action: Redirect, Location: "/login"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Decide(nil, tt.path); got != tt.want {
				t.Errorf("Decide(nil, %q) = %+v, want %+v", tt.path, got, tt.want)
			}
		})
	}
}

func TestDecideAuthenticated(t *testing.T) {
	g := newGuard(t)

	tests := []struct {
		name string
		role roles.Role
		path string
		want Decision
	}{
		{"cfo reaches root", roles.CFO, "/", Decision{Action: Allow}},
		{"cfo reaches invoices", roles.CFO, "/invoices", Decision{Action: Allow}},
		{
			"cfo bounced out of ceo area",
			roles.CFO, "/ceo/startups",
			Decision{Action: Redirect, Location: "/"},
		},
		{"ceo reaches own area", roles.CEO, "/ceo/budget-proposals", Decision{Action: Allow}},
		{
			"ceo bounced home from cfo feature",
			roles.CEO, "/invoices",
			Decision{Action: Redirect, Location: "/ceo"},
		},
		{"guest prefix match", roles.Guest, "/guest/view-startup/42", Decision{Action: Allow}},
		{
			"guest bounced from admin",
			roles.Guest, "/admin",
			Decision{Action: Redirect, Location: "/guest"},
		},
		{"admin home", roles.Admin, "/admin", Decision{Action: Allow}},
		{
			"logged-in user never sees login",
			roles.Admin, "/login",
			Decision{Action: Redirect, Location: "/admin"},
		},
		{
			"logged-in user never sees sso page",
			roles.CFO, "/sso",
			Decision{Action: Redirect, Location: "/"},
		},
		{"public stays public when logged in", roles.Guest, "/healthz", Decision{Action: Allow}},
		{"api auth passes through when logged in", roles.CEO, "/auth/logout", Decision{Action: Allow}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Decide(sessionFor(tt.role), tt.path); got != tt.want {
				t.Errorf("Decide(%s, %q) = %+v, want %+v", tt.role, tt.path, got, tt.want)
			}
		})
	}
}

// Role-table coverage sweep: for every role, every other role's area must
// redirect to that role's own home.
func TestDecideCrossRoleSweep(t *testing.T) {
	g := newGuard(t)

	areas := map[roles.Role]string{
		roles.CEO:   "/ceo",
		roles.Admin: "/admin",
		roles.Guest: "/guest",
	}

	for _, role := range roles.All {
		for owner, area := range areas {
			if owner == role {
				continue
			}

			got := g.Decide(sessionFor(role), area)

			want := Decision{Action: Redirect, Location: role.Home()}

			if got != want {
				t.Errorf("role %s at %s: got %+v, want %+v", role, area, got, want)
			}
		}
	}
}

func TestPostLogin(t *testing.T) {
	g := newGuard(t)

	tests := []struct {
		name     string
		role     roles.Role
		callback string
		want     string
	}{
		{"valid callback honored", roles.CFO, "/customers", "/customers"},
		{"callback outside role bounced home", roles.Guest, "/customers", "/guest"},
		{"empty callback goes home", roles.CEO, "", "/ceo"},
		{"absolute url rejected", roles.CFO, "https://evil.example/", "/"},
		{"protocol-relative rejected", roles.CFO, "//evil.example", "/"},
		{"auth route callback bounced home", roles.Admin, "/login", "/admin"},
		{"root callback for cfo", roles.CFO, "/", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.PostLogin(tt.role, tt.callback); got != tt.want {
				t.Errorf("PostLogin(%s, %q) = %q, want %q", tt.role, tt.callback, got, tt.want)
			}
		})
	}
}
