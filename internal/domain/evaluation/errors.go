package evaluation

import "errors"

var (
	ErrEvaluationNotFound  = errors.New("evaluation not found")
	ErrAlreadyAcknowledged = errors.New("evaluation has already been acknowledged")
	ErrNotOwnEvaluation    = errors.New("only the evaluated employee may acknowledge")
)
