package identity

// Role is the capability a caller presents. Roles are assigned externally
// (Firebase custom claims); the core never looks them up itself.
type Role string

const (
	RoleMember Role = "member"
	RoleCoach  Role = "coach"
	RoleAdmin  Role = "admin"
)

func IsValidRole(s string) bool {
	switch Role(s) {
	case RoleMember, RoleCoach, RoleAdmin:
		return true
	}
	return false
}

// Actor identifies an authenticated caller and the capability it carries.
type Actor struct {
	UID   string
	Email string
	Role  Role
}

// Operator reports whether the actor may perform coach/admin operations
// (session generation, check-in, viewing other members' analytics).
func (a Actor) Operator() bool {
	return a.Role == RoleCoach || a.Role == RoleAdmin
}

// Admin reports whether the actor carries the admin capability.
func (a Actor) Admin() bool {
	return a.Role == RoleAdmin
}

// RoleFromClaims extracts the caller's role from Firebase custom claims.
// Tokens minted before roles existed carry no role claim; those callers
// default to member.
func RoleFromClaims(claims map[string]any) Role {
	if claims == nil {
		return RoleMember
	}
	if role, ok := claims["role"].(string); ok && IsValidRole(role) {
		return Role(role)
	}
	if admin, ok := claims["admin"].(bool); ok && admin {
		return RoleAdmin
	}
	if coach, ok := claims["coach"].(bool); ok && coach {
		return RoleCoach
	}
	if roles, ok := claims["roles"].([]any); ok {
		for _, r := range roles {
			if s, ok := r.(string); ok && IsValidRole(s) && Role(s) != RoleMember {
				return Role(s)
			}
		}
	}
	return RoleMember
}
