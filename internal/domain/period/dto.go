package period

import (
	"github.com/payrollhq/payroll-backend-go/internal/pkg/validator"
)

type CreatePayPeriodRequest struct {
	Year         int    `json:"year"`
	PeriodNumber int    `json:"period_number"`
	Half         string `json:"half"`
	CutoffStart  string `json:"cutoff_start"`
	CutoffEnd    string `json:"cutoff_end"`
	PaymentDate  string `json:"payment_date"`
}

func (r CreatePayPeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a valid year"})
	}
	if r.PeriodNumber < 1 {
		errs = append(errs, validator.ValidationError{Field: "period_number", Message: "must be at least 1"})
	}
	if r.Half != string(HalfFirst) && r.Half != string(HalfSecond) {
		errs = append(errs, validator.ValidationError{Field: "half", Message: "must be FIRST or SECOND"})
	}
	if _, ok := validator.IsValidDate(r.CutoffStart); !ok {
		errs = append(errs, validator.ValidationError{Field: "cutoff_start", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if _, ok := validator.IsValidDate(r.CutoffEnd); !ok {
		errs = append(errs, validator.ValidationError{Field: "cutoff_end", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if _, ok := validator.IsValidDate(r.PaymentDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayPeriodResponse struct {
	ID           string `json:"id"`
	Year         int    `json:"year"`
	PeriodNumber int    `json:"period_number"`
	Half         string `json:"half"`
	CutoffStart  string `json:"cutoff_start"`
	CutoffEnd    string `json:"cutoff_end"`
	PaymentDate  string `json:"payment_date"`
	Status       string `json:"status"`
}
