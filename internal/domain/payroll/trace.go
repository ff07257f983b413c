package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// StepNotes is the structured diagnostic trace stored on a process
// step. It is a tagged variant: each step populates its own branch.
// Serialization to JSON happens only in the step repository.
type StepNotes struct {
	Validation  *ValidationTrace  `json:"validation,omitempty"`
	Calculation *CalculationTrace `json:"calculation,omitempty"`
	Remarks     *string           `json:"remarks,omitempty"`
}

type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

type ValidationIssue struct {
	EmployeeID string        `json:"employee_id,omitempty"`
	Code       string        `json:"code"`
	Message    string        `json:"message"`
	Severity   IssueSeverity `json:"severity"`
}

// EmployeeAttendanceSummary is the per-employee slice of the validation
// trace consumed by the UI and by audits.
type EmployeeAttendanceSummary struct {
	EmployeeID        string          `json:"employee_id"`
	EmployeeName      string          `json:"employee_name"`
	PresentDays       int             `json:"present_days"`
	AbsentDays        int             `json:"absent_days"`
	TardinessMinutes  int             `json:"tardiness_minutes"`
	UndertimeMinutes  int             `json:"undertime_minutes"`
	OvertimeHours     decimal.Decimal `json:"overtime_hours"`
	CtoHours          decimal.Decimal `json:"cto_hours"`
	ApprovedLeaveDays decimal.Decimal `json:"approved_leave_days"`
}

// ValidationTrace is written by the Validate step regardless of
// pass/fail; advancing past it requires ErrorCount == 0.
type ValidationTrace struct {
	GeneratedAt  time.Time                   `json:"generated_at"`
	ErrorCount   int                         `json:"error_count"`
	WarningCount int                         `json:"warning_count"`
	Issues       []ValidationIssue           `json:"issues"`
	Summaries    []EmployeeAttendanceSummary `json:"summaries"`
}

// CalculationTrace tags each Calculate pass with the engine version so
// audits can tell which rules produced a payslip.
type CalculationTrace struct {
	GeneratedAt     time.Time       `json:"generated_at"`
	EngineVersion   string          `json:"engine_version"`
	EmployeeCount   int             `json:"employee_count"`
	PayslipCount    int             `json:"payslip_count"`
	TotalGrossPay   decimal.Decimal `json:"total_gross_pay"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalNetPay     decimal.Decimal `json:"total_net_pay"`
}
