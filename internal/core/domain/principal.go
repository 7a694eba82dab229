package domain

// Principal is an authenticated identity. Roles is never empty for a
// principal produced by the Authenticator or decoded from a token.
type Principal struct {
	Identifier string  `json:"identifier"`
	UserID     int64   `json:"user_id"`
	Roles      RoleSet `json:"roles"`
}

// NewPrincipal derives a principal from a stored user record.
func NewPrincipal(u *User) *Principal {
	return &Principal{
		Identifier: u.Email,
		UserID:     u.ID,
		Roles:      NewRoleSet(u.Roles...),
	}
}
