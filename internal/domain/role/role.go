package role

import "strings"

// Role is the closed set of roles the backend can grant. The backend sends
// roles as strings, sometimes with Spring's "ROLE_" prefix; Parse accepts both.
type Role int

const (
	Unknown Role = iota
	User
	Finance
	Manager
	Admin
)

func Parse(s string) Role {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "ROLE_")
	switch s {
	case "ADMIN":
		return Admin
	case "MANAGER":
		return Manager
	case "FINANCE":
		return Finance
	case "USER":
		return User
	default:
		return Unknown
	}
}

func ParseAll(raw []string) []Role {
	out := make([]Role, 0, len(raw))
	for _, s := range raw {
		out = append(out, Parse(s))
	}
	return out
}

func (r Role) String() string {
	switch r {
	case Admin:
		return "ADMIN"
	case Manager:
		return "MANAGER"
	case Finance:
		return "FINANCE"
	case User:
		return "USER"
	default:
		return "UNKNOWN"
	}
}

// Highest picks the role that decides the landing dashboard for a user with
// several roles. Precedence is fixed: ADMIN > MANAGER > FINANCE > USER.
func Highest(roles []Role) Role {
	best := Unknown
	for _, r := range roles {
		if r > best {
			best = r
		}
	}
	return best
}

// Landing maps the effective role to its dashboard route. A session with no
// recognized role goes back to the login page.
func Landing(roles []Role) string {
	switch Highest(roles) {
	case Admin:
		return "/admin"
	case Manager:
		return "/manager"
	case Finance:
		return "/finance"
	case User:
		return "/dashboard"
	default:
		return "/login"
	}
}
