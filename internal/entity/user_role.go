package entity

const (
	RoleAdmin     = "admin"
	RoleUser      = "user"
	RoleModerator = "moderator"
)

const (
	PermissionCreate = "create"
	PermissionRead   = "read"
	PermissionUpdate = "update"
	PermissionDelete = "delete"
)

type UserRole struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

var rolePermissions = map[string][]string{
	RoleAdmin:     {PermissionCreate, PermissionRead, PermissionUpdate, PermissionDelete},
	RoleUser:      {PermissionCreate, PermissionRead, PermissionUpdate},
	RoleModerator: {PermissionRead, PermissionUpdate, PermissionDelete},
}

// PermissionsFor returns a copy of the permissions listed for role. They are
// reported to clients; route access is decided by role. Roles created at
// runtime only list read access.
func PermissionsFor(role string) []string {
	perms, ok := rolePermissions[role]
	if !ok {
		return []string{PermissionRead}
	}
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// IsProtectedRole reports whether role is one the service relies on by name:
// new users get RoleUser and the admin guard checks RoleAdmin.
func IsProtectedRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
