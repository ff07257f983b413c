package leave

import (
	"github.com/shopspring/decimal"

	"github.com/payrollhq/payroll-backend-go/internal/pkg/validator"
)

type CreateLeaveRequestRequest struct {
	EmployeeID   string          `json:"employee_id"`
	LeaveTypeID  string          `json:"leave_type_id"`
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	NumberOfDays decimal.Decimal `json:"number_of_days"`
	Reason       string          `json:"reason"`
}

func (r CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if validator.IsEmpty(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{Field: "leave_type_id", Message: "is required"})
	}
	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not be before start_date"})
	}
	if !r.NumberOfDays.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "number_of_days", Message: "must be greater than zero"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RejectRequestRequest struct {
	Reason string `json:"reason"`
}

func (r RejectRequestRequest) Validate() error {
	if validator.IsEmpty(r.Reason) {
		return validator.ValidationErrors{{Field: "reason", Message: "is required"}}
	}
	return nil
}

type LeaveRequestResponse struct {
	ID            string          `json:"id"`
	RequestNumber string          `json:"request_number"`
	EmployeeID    string          `json:"employee_id"`
	EmployeeName  *string         `json:"employee_name,omitempty"`
	LeaveTypeID   string          `json:"leave_type_id"`
	LeaveTypeName *string         `json:"leave_type_name,omitempty"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	NumberOfDays  decimal.Decimal `json:"number_of_days"`
	Reason        string          `json:"reason"`
	Status        string          `json:"status"`
}
