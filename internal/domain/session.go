package domain

// Role represents the authorization role carried by a login identity
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Identity is the authenticated principal behind a session token.
type Identity struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Session holds the credential token and identity for the current client
// instance. It is created on successful login or registration and destroyed
// on explicit logout or a confirmed authentication failure.
type Session struct {
	Token    string   `json:"token"`
	Identity Identity `json:"identity"`
}

// IsAdmin reports whether the session belongs to a back-office actor.
func (s Session) IsAdmin() bool {
	return s.Identity.Role == RoleAdmin
}
