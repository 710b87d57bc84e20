package constants

import "fmt"

// Role per aktor workflow case
const (
	RoleStudent   = "student"
	RolePlanner   = "planner"
	RoleCounselor = "counselor"
	RoleAnalyst   = "analyst"
	RoleAdmin     = "admin"
)

// Template pesan error role
const (
	ErrOnlyStaffCanAccess   = "❌ Hanya planner, counselor, analyst, atau admin yang boleh mengakses fitur %s."
	ErrOnlyAdminsCanAccess  = "❌ Hanya admin yang boleh mengakses fitur %s."
	ErrOnlyPlannerCanAccess = "❌ Hanya planner yang boleh mengakses fitur %s."
)

// Fungsi helper untuk menghasilkan pesan error dinamis
func RoleErrorStaff(feature string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorPlanner(feature string) string {
	return fmt.Sprintf(ErrOnlyPlannerCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleStudent,
		RolePlanner,
		RoleCounselor,
		RoleAnalyst,
		RoleAdmin,
	}

	StaffRoles = []string{
		RolePlanner,
		RoleCounselor,
		RoleAnalyst,
		RoleAdmin,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)
