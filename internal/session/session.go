// Package session holds the authenticated identity for one browser: the
// backend bearer token plus who it belongs to. The session is an explicit
// object created at login and torn down at logout; nothing else in the app
// reads ambient auth state.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/archie46/loan-management/internal/domain/role"
)

type Session struct {
	ID       string   `json:"-"`
	Token    string   `json:"token"`
	Username string   `json:"username"`
	UserID   int64    `json:"userId"`
	Roles    []string `json:"roles"`
}

// Role is the effective role deciding which dashboard this session lands on.
func (s *Session) Role() role.Role {
	return role.Highest(role.ParseAll(s.Roles))
}

func (s *Session) Landing() string {
	return role.Landing(role.ParseAll(s.Roles))
}

func (s *Session) HasRole(r role.Role) bool {
	for _, raw := range s.Roles {
		if role.Parse(raw) == r {
			return true
		}
	}
	return false
}

// TokenTTL reads the bearer token's exp claim without verifying the
// signature; verification is the backend's job, the client only needs the
// lifetime so a session never outlives its token. Returns false for tokens
// without a readable expiry.
func TokenTTL(token string, now time.Time) (time.Duration, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0, false
	}
	ttl := exp.Sub(now)
	if ttl <= 0 {
		return 0, false
	}
	return ttl, true
}
