package core

import "talenthub/internal/domain/auth"

// FilterEmployeeFields strips sensitive fields the caller is not allowed
// to see. Admins and managers see everything; an employee sees their own
// record in full minus the citizen id; everyone else gets the public
// profile only.
func FilterEmployeeFields(emp *Employee, user auth.UserContext, isSelf bool) {
	if auth.Privileged(user.Role) {
		return
	}

	if isSelf {
		emp.CitizenID = ""
		return
	}

	emp.CitizenID = ""
	emp.CurrentSalary = nil
	emp.LastSalaryReview = nil
	emp.DateOfBirth = nil
	emp.Address = ""
	emp.EmergencyContactName = ""
	emp.EmergencyContactPhone = ""
	emp.Notes = ""
}
