package models

// DashboardAccess lists what a role may see on the admin dashboards.
type DashboardAccess struct {
	CanViewOccupancy   bool `json:"canViewOccupancy"`
	CanViewCourseLoad  bool `json:"canViewCourseLoad"`
	CanViewTeacherLoad bool `json:"canViewTeacherLoad"`
	CanExportReports   bool `json:"canExportReports"`
	CanEditRoutine     bool `json:"canEditRoutine"`
}

var (
	fullDashboardAccess = DashboardAccess{
		CanViewOccupancy:   true,
		CanViewCourseLoad:  true,
		CanViewTeacherLoad: true,
		CanExportReports:   true,
		CanEditRoutine:     true,
	}
	coordinatorDashboardAccess = DashboardAccess{
		CanViewOccupancy:  true,
		CanViewCourseLoad: true,
		CanExportReports:  true,
	}
	teacherDashboardAccess = DashboardAccess{
		CanViewOccupancy: true,
	}
)

// DashboardAccessFor returns the named defaults for a role. Unknown roles get nothing.
func DashboardAccessFor(role UserRole) DashboardAccess {
	switch role {
	case RoleSuperAdmin, RoleAdmin:
		return fullDashboardAccess
	case RoleCoordinator:
		return coordinatorDashboardAccess
	case RoleTeacher:
		return teacherDashboardAccess
	default:
		return DashboardAccess{}
	}
}
