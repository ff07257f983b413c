package overtime

import "errors"

var (
	ErrOvertimeRequestNotFound = errors.New("overtime request not found")
	ErrInvalidTransition       = errors.New("overtime request cannot move to the requested status")
	ErrNotRequestOwner         = errors.New("only the requesting employee may cancel")
	ErrHoursBelowMinimum       = errors.New("overtime requests must cover at least one hour")
)
