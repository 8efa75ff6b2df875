package projects

type transition struct {
	from string
	to   string
}

// Task workflow: a task is created new, assigned to a freelancer, worked
// on, submitted for review, then approved or rejected. Rejected work goes
// back to working for another pass; approved work is closed out as
// completed.
var transitions = map[transition]bool{
	{TaskStatusNew, TaskStatusAssigned}:           true,
	{TaskStatusAssigned, TaskStatusWorking}:       true,
	{TaskStatusWorking, TaskStatusReviewPending}:  true,
	{TaskStatusReviewPending, TaskStatusApproved}: true,
	{TaskStatusReviewPending, TaskStatusRejected}: true,
	{TaskStatusRejected, TaskStatusWorking}:       true,
	{TaskStatusApproved, TaskStatusCompleted}:     true,
}

// CanTransition reports whether moving a task from one status to another
// is allowed by the workflow.
func CanTransition(from, to string) bool {
	return transitions[transition{from, to}]
}
