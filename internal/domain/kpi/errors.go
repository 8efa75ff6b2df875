package kpi

import "errors"

var (
	ErrRecordNotFound = errors.New("kpi record not found")
	ErrDuplicateMonth = errors.New("kpi record already exists for this employee and month")
)
