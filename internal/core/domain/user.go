package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is the stored record for an identity seen at session establishment.
// Role is set once on first sight and only changed out of band.
type User struct {
	UID       string    `json:"uid"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Photo     string    `json:"photo,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	LastLogin time.Time `json:"last_login"`
}

// IdentityAssertion is what the client claims about itself when opening a
// session. It deliberately carries no role.
type IdentityAssertion struct {
	UID   string
	Name  string
	Email string
	Photo string
}

// Principal is the request-scoped view of the caller, rebuilt from the
// session token on every request.
type Principal struct {
	UID         string
	DisplayName string
	Photo       string
	Role        string
}

// Authenticated reports whether the principal came from a valid session.
func (p Principal) Authenticated() bool {
	return p.UID != ""
}

// IsAdmin reports whether the principal may run admin-only operations.
func (p Principal) IsAdmin() bool {
	return p.Authenticated() && p.Role == RoleAdmin
}
