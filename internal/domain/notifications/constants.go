package notifications

const (
	TypeSalaryReviewSubmitted   = "salary_review_submitted"
	TypeSalaryReviewApproved    = "salary_review_approved"
	TypeSalaryReviewRejected    = "salary_review_rejected"
	TypeSalaryReviewImplemented = "salary_review_implemented"
	TypeEvaluationDelivered     = "evaluation_delivered"
	TypeEvaluationAcknowledged  = "evaluation_acknowledged"
	TypeReportReviewed          = "report_reviewed"
	TypeTaskAssigned            = "task_assigned"
	TypeTaskStatusChanged       = "task_status_changed"
)
