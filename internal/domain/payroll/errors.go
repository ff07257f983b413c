package payroll

import "errors"

var (
	ErrRunNotFound       = errors.New("payroll run not found")
	ErrPayslipNotFound   = errors.New("payslip not found")
	ErrStepNotFound      = errors.New("payroll process step not found")
	ErrSettingsNotFound  = errors.New("payroll settings not found")
	ErrComponentNotFound = errors.New("payroll component not found")

	// Pipeline gating failures, each distinct so callers can message
	// them precisely.
	ErrStepOutOfOrder          = errors.New("payroll step advanced out of order")
	ErrStepNotReRunnable       = errors.New("calculate step cannot re-run after payslips are generated")
	ErrRunLocked               = errors.New("payroll run is locked")
	ErrValidationErrorsPresent = errors.New("validation errors must be resolved before calculating")
	ErrRegularRunExists        = errors.New("a regular run already exists for this pay period")
	ErrPayslipFrozen           = errors.New("payslip is frozen and cannot be adjusted")
	ErrNoPayslips              = errors.New("run has no payslips to generate")
)
