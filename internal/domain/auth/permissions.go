package auth

const (
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleTeamLead   = "team_lead"
	RoleStaff      = "staff"
	RoleFreelancer = "freelancer"
)

var Roles = []string{RoleAdmin, RoleManager, RoleTeamLead, RoleStaff, RoleFreelancer}

func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

const (
	PermOrgRead          = "hr.org.read"
	PermOrgWrite         = "hr.org.write"
	PermEmployeesRead    = "hr.employees.read"
	PermEmployeesWrite   = "hr.employees.write"
	PermKPIRead          = "hr.kpi.read"
	PermKPIWrite         = "hr.kpi.write"
	PermEvaluationsRead  = "hr.evaluations.read"
	PermEvaluationsWrite = "hr.evaluations.write"
	PermSalaryRead       = "hr.salary.read"
	PermSalaryRequest    = "hr.salary.request"
	PermSalaryApprove    = "hr.salary.approve"
	PermReportsRead      = "hr.reports.read"
	PermReportsWrite     = "hr.reports.write"
	PermReportsReview    = "hr.reports.review"
	PermProjectsRead     = "projects.read"
	PermProjectsWrite    = "projects.write"
	PermTasksRead        = "tasks.read"
	PermTasksWrite       = "tasks.write"
	PermUsersManage      = "users.manage"
	PermAuditRead        = "audit.read"
	PermSystemAdmin      = "admin.system"
)

var DefaultPermissions = []string{
	PermOrgRead,
	PermOrgWrite,
	PermEmployeesRead,
	PermEmployeesWrite,
	PermKPIRead,
	PermKPIWrite,
	PermEvaluationsRead,
	PermEvaluationsWrite,
	PermSalaryRead,
	PermSalaryRequest,
	PermSalaryApprove,
	PermReportsRead,
	PermReportsWrite,
	PermReportsReview,
	PermProjectsRead,
	PermProjectsWrite,
	PermTasksRead,
	PermTasksWrite,
	PermUsersManage,
	PermAuditRead,
	PermSystemAdmin,
}

var RolePermissions = map[string][]string{
	RoleAdmin: DefaultPermissions,
	RoleManager: {
		PermOrgRead,
		PermOrgWrite,
		PermEmployeesRead,
		PermEmployeesWrite,
		PermKPIRead,
		PermKPIWrite,
		PermEvaluationsRead,
		PermEvaluationsWrite,
		PermSalaryRead,
		PermSalaryRequest,
		PermReportsRead,
		PermReportsWrite,
		PermReportsReview,
		PermProjectsRead,
		PermProjectsWrite,
		PermTasksRead,
		PermTasksWrite,
	},
	RoleTeamLead: {
		PermOrgRead,
		PermEmployeesRead,
		PermKPIRead,
		PermEvaluationsRead,
		PermSalaryRead,
		PermReportsRead,
		PermReportsWrite,
		PermReportsReview,
		PermProjectsRead,
		PermTasksRead,
		PermTasksWrite,
	},
	RoleStaff: {
		PermOrgRead,
		PermEmployeesRead,
		PermKPIRead,
		PermEvaluationsRead,
		PermSalaryRead,
		PermReportsRead,
		PermReportsWrite,
		PermProjectsRead,
		PermTasksRead,
	},
	RoleFreelancer: {
		PermReportsRead,
		PermReportsWrite,
		PermProjectsRead,
		PermTasksRead,
		PermTasksWrite,
	},
}

// Privileged reports whether the role sees all rows rather than only rows
// tied to the caller's own employee record.
func Privileged(role string) bool {
	return role == RoleAdmin || role == RoleManager
}
