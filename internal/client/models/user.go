// Package models defines client-side data models used by the CartSync client.
package models

// User is the identity record issued by the remote auth endpoint. Values are
// immutable once issued; a changed profile means a new User value.
type User struct {
	// ID is the server-assigned user identifier; zero means "no user".
	ID int64 `json:"id"`

	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Valid reports whether u carries a usable server identity.
func (u User) Valid() bool {
	return u.ID > 0
}

// Credentials are sent to the login endpoint.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is sent to the register endpoint.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}
