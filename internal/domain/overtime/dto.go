package overtime

import (
	"github.com/shopspring/decimal"

	"github.com/payrollhq/payroll-backend-go/internal/pkg/validator"
)

type CreateOvertimeRequestRequest struct {
	EmployeeID   string          `json:"employee_id"`
	OvertimeDate string          `json:"overtime_date"`
	Hours        decimal.Decimal `json:"hours"`
	Reason       string          `json:"reason"`
}

func (r CreateOvertimeRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.OvertimeDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "overtime_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if r.Hours.LessThan(decimal.NewFromInt(1)) {
		errs = append(errs, validator.ValidationError{Field: "hours", Message: "must be at least 1"})
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

type OvertimeRequestResponse struct {
	ID            string          `json:"id"`
	RequestNumber string          `json:"request_number"`
	EmployeeID    string          `json:"employee_id"`
	EmployeeName  *string         `json:"employee_name,omitempty"`
	OvertimeDate  string          `json:"overtime_date"`
	Hours         decimal.Decimal `json:"hours"`
	Reason        string          `json:"reason"`
	Status        string          `json:"status"`
	CtoConverted  bool            `json:"cto_converted"`
	CtoHours      decimal.Decimal `json:"cto_hours"`
}
