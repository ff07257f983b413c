package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/payrollhq/payroll-backend-go/internal/domain/employee"
	"github.com/payrollhq/payroll-backend-go/internal/domain/leave"
	"github.com/payrollhq/payroll-backend-go/internal/domain/ledger"
	"github.com/payrollhq/payroll-backend-go/internal/domain/overtime"
	"github.com/payrollhq/payroll-backend-go/internal/domain/payroll"
	"github.com/payrollhq/payroll-backend-go/internal/domain/period"
	"github.com/payrollhq/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Ledger invariant violations indicate a prior bug or race. They
	// are logged loudly and never exposed with their internal message.
	if ledger.IsInvariantViolation(err) {
		slog.Error("ledger invariant violation", "error", err)
		InternalServerError(w, "An unexpected error occurred")
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrNoBaseSalary):
		BadRequest(w, "Employee has no base salary configured", nil)

	// Ledger domain errors
	case errors.Is(err, ledger.ErrInsufficientBalance):
		BadRequest(w, "Insufficient leave balance", nil)
	case errors.Is(err, ledger.ErrBalanceNotInitialized):
		BadRequest(w, "Leave balance not initialized for this year", nil)
	case errors.Is(err, ledger.ErrCtoBalanceNotInitialized):
		BadRequest(w, "CTO balance not initialized for this year", nil)
	case errors.Is(err, ledger.ErrCtoLeaveTypeNotConfigured):
		BadRequest(w, "No CTO leave type configured for the company", nil)
	case errors.Is(err, ledger.ErrHoursBelowMinimum):
		BadRequest(w, "Overtime hours below the one-hour minimum", nil)
	case errors.Is(err, ledger.ErrInvalidAmount):
		BadRequest(w, "Amount must be greater than zero", nil)

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrLeaveTypeInactive):
		BadRequest(w, "Leave type is inactive", nil)
	case errors.Is(err, leave.ErrAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrInvalidTransition):
		Conflict(w, "Leave request cannot move to the requested status")
	case errors.Is(err, leave.ErrNotRequestOwner):
		Forbidden(w, "Only the requesting employee may cancel")
	case errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, "End date must not be before start date", nil)

	// Overtime domain errors
	case errors.Is(err, overtime.ErrOvertimeRequestNotFound):
		NotFound(w, "Overtime request not found")
	case errors.Is(err, overtime.ErrInvalidTransition):
		Conflict(w, "Overtime request cannot move to the requested status")
	case errors.Is(err, overtime.ErrNotRequestOwner):
		Forbidden(w, "Only the requesting employee may cancel")
	case errors.Is(err, overtime.ErrHoursBelowMinimum):
		BadRequest(w, "Overtime requests must cover at least one hour", nil)

	// Pay period domain errors
	case errors.Is(err, period.ErrPeriodNotFound):
		NotFound(w, "Pay period not found")
	case errors.Is(err, period.ErrPeriodLocked):
		Conflict(w, "Pay period is locked")
	case errors.Is(err, period.ErrPeriodAlreadyExists):
		Conflict(w, "Pay period already exists for this cutoff")
	case errors.Is(err, period.ErrInvalidCutoff):
		BadRequest(w, "Cutoff end must not be before cutoff start", nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrRunNotFound):
		NotFound(w, "Payroll run not found")
	case errors.Is(err, payroll.ErrPayslipNotFound):
		NotFound(w, "Payslip not found")
	case errors.Is(err, payroll.ErrStepNotFound):
		NotFound(w, "Payroll process step not found")
	case errors.Is(err, payroll.ErrSettingsNotFound):
		NotFound(w, "Payroll settings not found")
	case errors.Is(err, payroll.ErrComponentNotFound):
		NotFound(w, "Payroll component not found")
	case errors.Is(err, payroll.ErrStepOutOfOrder):
		Conflict(w, "Payroll step advanced out of order")
	case errors.Is(err, payroll.ErrStepNotReRunnable):
		Conflict(w, "Calculation cannot re-run after payslips are generated")
	case errors.Is(err, payroll.ErrRunLocked):
		Conflict(w, "Payroll run is locked")
	case errors.Is(err, payroll.ErrValidationErrorsPresent):
		Conflict(w, "Validation errors must be resolved before calculating")
	case errors.Is(err, payroll.ErrRegularRunExists):
		Conflict(w, "A regular run already exists for this pay period")
	case errors.Is(err, payroll.ErrPayslipFrozen):
		Conflict(w, "Payslip is frozen and cannot be adjusted")
	case errors.Is(err, payroll.ErrNoPayslips):
		BadRequest(w, "Run has no payslips to generate", nil)

	// Default
	default:
		slog.Error("unhandled service error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
