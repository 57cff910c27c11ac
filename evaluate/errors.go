package evaluate

import "errors"

// Errors returned by Service. Each aborts the evaluation; no partial
// result is returned alongside them.
var (
	ErrEvaluationNotFound = errors.New("evaluation not found")
	ErrTemplateNotFound   = errors.New("rule template not found")
	ErrAccountMismatch    = errors.New("evaluation belongs to a different account")
	ErrPerformanceQuery   = errors.New("daily performance query failed")
)
