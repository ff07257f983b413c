package leave

import "errors"

var (
	ErrLeaveRequestNotFound  = errors.New("leave request not found")
	ErrLeaveTypeNotFound     = errors.New("leave type not found")
	ErrLeaveTypeInactive     = errors.New("leave type is inactive")
	ErrAlreadyProcessed      = errors.New("leave request already processed")
	ErrInvalidTransition     = errors.New("leave request cannot move to the requested status")
	ErrNotRequestOwner       = errors.New("only the requesting employee may cancel")
	ErrInvalidDateRange      = errors.New("end date must not be before start date")
)
