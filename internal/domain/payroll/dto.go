package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/payrollhq/payroll-backend-go/internal/pkg/validator"
)

type CreateRunRequest struct {
	PayPeriodID       string  `json:"pay_period_id"`
	RunType           string  `json:"run_type"`
	ScopeDepartmentID *string `json:"scope_department_id,omitempty"`
	ScopeBranchID     *string `json:"scope_branch_id,omitempty"`
}

func (r CreateRunRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.PayPeriodID) {
		errs = append(errs, validator.ValidationError{Field: "pay_period_id", Message: "is required"})
	}
	switch RunType(r.RunType) {
	case RunTypeRegular, RunTypeTrial, RunTypeSpecial:
	default:
		errs = append(errs, validator.ValidationError{Field: "run_type", Message: "must be REGULAR, TRIAL_RUN or SPECIAL"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AddAdjustmentRequest struct {
	Kind   string          `json:"kind"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

func (r AddAdjustmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Kind != string(LineEarning) && r.Kind != string(LineDeduction) {
		errs = append(errs, validator.ValidationError{Field: "kind", Message: "must be earning or deduction"})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be greater than zero"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CompleteReviewRequest struct {
	Remarks *string `json:"remarks,omitempty"`
}

type UpdateSettingsRequest struct {
	PayFrequency                *string          `json:"pay_frequency,omitempty"`
	SSSTiming                   *string          `json:"sss_timing,omitempty"`
	PhilHealthTiming            *string          `json:"philhealth_timing,omitempty"`
	PagIbigTiming               *string          `json:"pagibig_timing,omitempty"`
	TaxTiming                   *string          `json:"tax_timing,omitempty"`
	CtoLeaveTypeID              *string          `json:"cto_leave_type_id,omitempty"`
	OvertimePayPerHour          *decimal.Decimal `json:"overtime_pay_per_hour,omitempty"`
	TardinessDeductionPerMinute *decimal.Decimal `json:"tardiness_deduction_per_minute,omitempty"`
	UndertimeDeductionPerMinute *decimal.Decimal `json:"undertime_deduction_per_minute,omitempty"`
}

func validTiming(s string) bool {
	switch DeductionTiming(s) {
	case TimingFirstHalf, TimingSecondHalf, TimingEveryPeriod, TimingDisabled:
		return true
	}
	return false
}

func (r UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PayFrequency != nil {
		switch PayFrequency(*r.PayFrequency) {
		case FrequencyMonthly, FrequencySemiMonthly, FrequencyWeekly:
		default:
			errs = append(errs, validator.ValidationError{Field: "pay_frequency", Message: "must be MONTHLY, SEMI_MONTHLY or WEEKLY"})
		}
	}
	for field, timing := range map[string]*string{
		"sss_timing":        r.SSSTiming,
		"philhealth_timing": r.PhilHealthTiming,
		"pagibig_timing":    r.PagIbigTiming,
		"tax_timing":        r.TaxTiming,
	} {
		if timing != nil && !validTiming(*timing) {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be FIRST_HALF, SECOND_HALF, EVERY_PERIOD or DISABLED"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RunResponse struct {
	ID                string          `json:"id"`
	PayPeriodID       string          `json:"pay_period_id"`
	RunType           string          `json:"run_type"`
	Status            string          `json:"status"`
	IsLocked          bool            `json:"is_locked"`
	CurrentStep       int             `json:"current_step"`
	ScopeDepartmentID *string         `json:"scope_department_id,omitempty"`
	ScopeBranchID     *string         `json:"scope_branch_id,omitempty"`
	TotalGrossPay     decimal.Decimal `json:"total_gross_pay"`
	TotalDeductions   decimal.Decimal `json:"total_deductions"`
	TotalNetPay       decimal.Decimal `json:"total_net_pay"`
	Steps             []StepResponse  `json:"steps,omitempty"`
}

type StepResponse struct {
	StepNumber  int        `json:"step_number"`
	Name        string     `json:"name"`
	IsCompleted bool       `json:"is_completed"`
	CompletedAt *string    `json:"completed_at,omitempty"`
	Notes       *StepNotes `json:"notes,omitempty"`
}

type PayslipLineResponse struct {
	Kind   string          `json:"kind"`
	Source string          `json:"source"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

type PayslipResponse struct {
	ID              string                `json:"id"`
	RunID           string                `json:"run_id"`
	EmployeeID      string                `json:"employee_id"`
	EmployeeName    *string               `json:"employee_name,omitempty"`
	EmployeeCode    *string               `json:"employee_code,omitempty"`
	BasicPay        decimal.Decimal       `json:"basic_pay"`
	GrossPay        decimal.Decimal       `json:"gross_pay"`
	TotalDeductions decimal.Decimal       `json:"total_deductions"`
	NetPay          decimal.Decimal       `json:"net_pay"`
	PayslipNumber   *string               `json:"payslip_number,omitempty"`
	GeneratedAt     *string               `json:"generated_at,omitempty"`
	Lines           []PayslipLineResponse `json:"lines"`
}

type ComponentResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsActive bool   `json:"is_active"`
}

type SettingsResponse struct {
	ID                          string          `json:"id"`
	CompanyID                   string          `json:"company_id"`
	PayFrequency                string          `json:"pay_frequency"`
	SSSTiming                   string          `json:"sss_timing"`
	PhilHealthTiming            string          `json:"philhealth_timing"`
	PagIbigTiming               string          `json:"pagibig_timing"`
	TaxTiming                   string          `json:"tax_timing"`
	CtoLeaveTypeID              *string         `json:"cto_leave_type_id,omitempty"`
	OvertimePayPerHour          decimal.Decimal `json:"overtime_pay_per_hour"`
	TardinessDeductionPerMinute decimal.Decimal `json:"tardiness_deduction_per_minute"`
	UndertimeDeductionPerMinute decimal.Decimal `json:"undertime_deduction_per_minute"`
}
