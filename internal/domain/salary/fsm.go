package salary

type transition struct {
	from   string
	action string
}

// transitions is the full lifecycle of a review. Any (state, action) pair
// not listed here is rejected with ErrInvalidState.
var transitions = map[transition]string{
	{StatusPending, ActionApprove}:    StatusApproved,
	{StatusPending, ActionReject}:     StatusRejected,
	{StatusApproved, ActionImplement}: StatusImplemented,
}

// Next returns the state a review moves to when action is applied in the
// given state.
func Next(from, action string) (string, error) {
	next, ok := transitions[transition{from: from, action: action}]
	if !ok {
		return "", ErrInvalidState
	}
	return next, nil
}

// CanTransition reports whether action is legal in the given state.
func CanTransition(from, action string) bool {
	_, ok := transitions[transition{from: from, action: action}]
	return ok
}

// Mutable reports whether a review's fields may still be edited or the
// review deleted. Once a decision has been made the record is frozen.
func Mutable(status string) bool {
	return status == StatusPending
}
