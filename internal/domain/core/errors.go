package core

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDepartmentNotFound = errors.New("department not found")
	ErrCareerPathNotFound = errors.New("career path not found")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrDuplicate          = errors.New("a record with the same unique value already exists")
)
