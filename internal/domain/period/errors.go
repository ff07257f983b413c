package period

import "errors"

var (
	ErrPeriodNotFound      = errors.New("pay period not found")
	ErrPeriodLocked        = errors.New("pay period is locked")
	ErrPeriodAlreadyExists = errors.New("pay period already exists for this cutoff")
	ErrInvalidCutoff       = errors.New("cutoff end must not be before cutoff start")
)
