package session

import (
	"time"

	"github.com/dmitrijs2005/dealerdash/internal/client/models"
)

// Session is the signed-in user and their bearer token. ExpiresAt is zero
// for tokens that carry no expiry.
type Session struct {
	Token     string
	User      models.User
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	if s == nil {
		return true
	}
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(s.ExpiresAt)
}

func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

// State is the coarse auth state pages are guarded on.
type State int

const (
	Anonymous State = iota
	Authenticated
	AuthenticatedAdmin
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	case AuthenticatedAdmin:
		return "admin"
	default:
		return "unknown"
	}
}
