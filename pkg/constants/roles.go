package constants

// Display roles. Roles are additive: a user may hold Student and Faculty
// at the same time via the user_roles table.
const (
	RoleStudent     = "Student"
	RoleFaculty     = "Faculty"
	RoleCoordinator = "Coordinator"
	RoleDean        = "Dean"
	RoleChair       = "Chair"
	RoleSuperAdmin  = "Super Admin"
)

// StaffRoles are roles that must not be demoted to Faculty on a staff login.
var StaffRoles = map[string]bool{
	RoleCoordinator: true,
	RoleFaculty:     true,
	RoleDean:        true,
	RoleChair:       true,
}
