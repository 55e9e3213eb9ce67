package domain

// Identity is the authenticated caller resolved for a single request.
// It is built from the credential store, never from token claims alone.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// HasAnyRole reports whether the identity holds at least one of roles.
// An empty list means no role requirement.
func (i Identity) HasAnyRole(roles ...Role) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}
