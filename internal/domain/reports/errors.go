package reports

import "errors"

var (
	ErrReportNotFound  = errors.New("personal report not found")
	ErrDuplicatePeriod = errors.New("a report for this employee, type, and period already exists")
	ErrAlreadyReviewed = errors.New("report has already been reviewed")
	ErrNotOwnReport    = errors.New("report belongs to a different employee")
)
