package role

import "testing"

func TestParseAcceptsSpringPrefix(t *testing.T) {
	if Parse("ROLE_ADMIN") != Admin {
		t.Fatalf("ROLE_ADMIN not parsed as admin")
	}
	if Parse("manager") != Manager {
		t.Fatalf("lowercase role not parsed")
	}
	if Parse(" FINANCE ") != Finance {
		t.Fatalf("padded role not parsed")
	}
	if Parse("SUPERUSER") != Unknown {
		t.Fatalf("unknown role should parse as Unknown")
	}
}

func TestHighestPrecedence(t *testing.T) {
	roles := ParseAll([]string{"ROLE_USER", "ROLE_ADMIN"})
	if Highest(roles) != Admin {
		t.Fatalf("expected admin to win over user")
	}
	if Highest(ParseAll([]string{"FINANCE", "MANAGER"})) != Manager {
		t.Fatalf("expected manager to win over finance")
	}
}

func TestLanding(t *testing.T) {
	cases := []struct {
		roles []string
		want  string
	}{
		{[]string{"ROLE_ADMIN", "ROLE_USER"}, "/admin"},
		{[]string{"MANAGER"}, "/manager"},
		{[]string{"FINANCE", "USER"}, "/finance"},
		{[]string{"USER"}, "/dashboard"},
		{[]string{}, "/login"},
		{[]string{"SOMETHING_ELSE"}, "/login"},
	}
	for _, tc := range cases {
		if got := Landing(ParseAll(tc.roles)); got != tc.want {
			t.Fatalf("roles %v: expected %s, got %s", tc.roles, tc.want, got)
		}
	}
}
