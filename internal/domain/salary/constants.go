package salary

const (
	StatusPending     = "pending"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
	StatusImplemented = "implemented"

	ActionApprove   = "approve"
	ActionReject    = "reject"
	ActionImplement = "implement"
)

var Statuses = []string{StatusPending, StatusApproved, StatusRejected, StatusImplemented}
