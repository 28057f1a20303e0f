package auth

import "slices"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"

	PermPrivateLessonArea = "privateLessonArea"
)

// Identity is the club and caller a request acts for. Handlers pass it to
// services explicitly instead of reading any global session state.
type Identity struct {
	UserID      string   `json:"user_id"`
	ClubID      string   `json:"club_id"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// HasPermission treats admins as holding every permission.
func (i Identity) HasPermission(perm string) bool {
	if i.Role == RoleAdmin {
		return true
	}
	return slices.Contains(i.Permissions, perm)
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
