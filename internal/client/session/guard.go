package session

// Capability is what a page requires of the current session.
type Capability int

const (
	RequireAuthenticated Capability = iota
	RequireAdmin
)

func (c Capability) String() string {
	if c == RequireAdmin {
		return "admin"
	}
	return "authenticated"
}

// RouteSignIn is where denied navigation is sent.
const RouteSignIn = "signin"

// Decision is the outcome of a guard check. Redirect is set when Allowed is
// false.
type Decision struct {
	Allowed  bool
	Redirect string
}

// Checker is the read side of Store used by Guard.
type Checker interface {
	IsAuthenticated() bool
	IsAdmin() bool
}

type Guard struct {
	sessions Checker
}

func NewGuard(sessions Checker) *Guard {
	return &Guard{sessions: sessions}
}

// Check evaluates c against the current session. It never performs I/O.
func (g *Guard) Check(c Capability) Decision {
	ok := g.sessions.IsAuthenticated()
	if ok && c == RequireAdmin {
		ok = g.sessions.IsAdmin()
	}
	if !ok {
		return Decision{Redirect: RouteSignIn}
	}
	return Decision{Allowed: true}
}
