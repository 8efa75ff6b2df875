package core

import (
	"testing"
	"time"

	"talenthub/internal/domain/auth"
)

func sampleEmployee() *Employee {
	salary := 120000.0
	dob := time.Date(1992, 4, 18, 0, 0, 0, 0, time.UTC)
	return &Employee{
		CitizenID:             "1102003334445",
		CurrentSalary:         &salary,
		DateOfBirth:           &dob,
		Address:               "12 Hoang Hoa Tham",
		EmergencyContactName:  "Mai Tran",
		EmergencyContactPhone: "+84-90-555-1234",
		Notes:                 "relocating in Q4",
	}
}

func TestFilterEmployeeFieldsAdmin(t *testing.T) {
	emp := sampleEmployee()
	user := auth.UserContext{Role: auth.RoleAdmin}

	FilterEmployeeFields(emp, user, false)

	if emp.CitizenID == "" || emp.CurrentSalary == nil || emp.DateOfBirth == nil {
		t.Fatal("admin should retain sensitive fields")
	}
}

func TestFilterEmployeeFieldsManager(t *testing.T) {
	emp := sampleEmployee()
	user := auth.UserContext{Role: auth.RoleManager}

	FilterEmployeeFields(emp, user, false)

	if emp.CitizenID == "" || emp.CurrentSalary == nil {
		t.Fatal("manager should retain sensitive fields")
	}
}

func TestFilterEmployeeFieldsSelf(t *testing.T) {
	emp := sampleEmployee()
	user := auth.UserContext{Role: auth.RoleStaff}

	FilterEmployeeFields(emp, user, true)

	if emp.CitizenID != "" {
		t.Fatal("citizen id should never leave the server for non-privileged callers")
	}
	if emp.CurrentSalary == nil || emp.Address == "" {
		t.Fatal("self view should keep own salary and contact details")
	}
}

func TestFilterEmployeeFieldsOtherStaff(t *testing.T) {
	emp := sampleEmployee()
	user := auth.UserContext{Role: auth.RoleFreelancer}

	FilterEmployeeFields(emp, user, false)

	if emp.CitizenID != "" || emp.CurrentSalary != nil || emp.DateOfBirth != nil {
		t.Fatal("non-privileged callers should not see sensitive fields")
	}
	if emp.Address != "" || emp.EmergencyContactName != "" || emp.Notes != "" {
		t.Fatal("non-privileged callers should get the public profile only")
	}
}
