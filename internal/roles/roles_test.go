package roles

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Role
		wantErr bool
	}{
		{"ceo", "CEO", CEO, false},
		{"cfo lowercase", "cfo", CFO, false},
		{"admin mixed case", "Admin", Admin, false},
		{"guest padded", " guest ", Guest, false},
		{"unknown", "MANAGER", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}

			if got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		prefix string
		path   string
		want   bool
	}{
		{"/", "/", true},
		{"/", "/customers", false},
		{"/guest", "/guest", true},
		{"/guest", "/guest/view-startup/42", true},
		{"/guest", "/guestbook", false},
		{"/ceo", "/ceo/startups", true},
		{"/admin", "/administrator", false},
	}

	for _, tt := range tests {
		if got := Matches(tt.prefix, tt.path); got != tt.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", tt.prefix, tt.path, got, tt.want)
		}
	}
}

func TestDefaultTableAllowed(t *testing.T) {
	tests := []struct {
		name string
		role Role
		path string
		want bool
	}{
		{"cfo root", CFO, "/", true},
		{"cfo customers", CFO, "/customers/17", true},
		{"cfo blocked from ceo", CFO, "/ceo/startups", false},
		{"ceo area", CEO, "/ceo/budget-proposals", true},
		{"ceo blocked from admin", CEO, "/admin", false},
		{"guest view startup", Guest, "/guest/view-startup/42", true},
		{"guest blocked from invoices", Guest, "/invoices", false},
		{"admin home", Admin, "/admin", true},
		{"unknown role has nothing", Role("MANAGER"), "/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultTable.Allowed(tt.role, tt.path); got != tt.want {
				t.Errorf("Allowed(%s, %q) = %v, want %v", tt.role, tt.path, got, tt.want)
			}
		})
	}
}

// Every role's home route must be inside its own allowed set, otherwise the
// guard can bounce a logged-in user in a redirect loop.
func TestDefaultTableValidate(t *testing.T) {
	if err := DefaultTable.Validate(); err != nil {
		t.Fatalf("DefaultTable.Validate() = %v", err)
	}
}

func TestValidateRejectsBadTables(t *testing.T) {
	missing := Table{CEO: {"/ceo"}, CFO: {"/"}, Admin: {"/admin"}}

	if err := missing.Validate(); err == nil {
		t.Error("expected error for table missing a role")
	}

	noHome := Table{
		CEO:   {"/reports"},
		CFO:   {"/"},
		Admin: {"/admin"},
		Guest: {"/guest"},
	}

	if err := noHome.Validate(); err == nil {
		t.Error("expected error when a role's home is outside its allowed set")
	}
}
