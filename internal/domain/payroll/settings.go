package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type StatutoryKind string

const (
	StatutorySSS        StatutoryKind = "SSS"
	StatutoryPhilHealth StatutoryKind = "PHILHEALTH"
	StatutoryPagIbig    StatutoryKind = "PAGIBIG"
	StatutoryTax        StatutoryKind = "WITHHOLDING_TAX"
)

// StatutoryKinds lists every kind in a stable order for deterministic
// payslip lines.
var StatutoryKinds = []StatutoryKind{
	StatutorySSS,
	StatutoryPhilHealth,
	StatutoryPagIbig,
	StatutoryTax,
}

type DeductionTiming string

const (
	TimingFirstHalf   DeductionTiming = "FIRST_HALF"
	TimingSecondHalf  DeductionTiming = "SECOND_HALF"
	TimingEveryPeriod DeductionTiming = "EVERY_PERIOD"
	TimingDisabled    DeductionTiming = "DISABLED"
)

type PayFrequency string

const (
	FrequencyMonthly     PayFrequency = "MONTHLY"
	FrequencySemiMonthly PayFrequency = "SEMI_MONTHLY"
	FrequencyWeekly      PayFrequency = "WEEKLY"
)

// Settings is per-company payroll configuration: pay frequency, the
// statutory deduction timing policy, attendance rates, and the
// designated CTO leave type the accrual rule credits into.
type Settings struct {
	ID           string
	CompanyID    string
	PayFrequency PayFrequency

	SSSTiming        DeductionTiming
	PhilHealthTiming DeductionTiming
	PagIbigTiming    DeductionTiming
	TaxTiming        DeductionTiming

	CtoLeaveTypeID *string

	OvertimePayPerHour          decimal.Decimal
	TardinessDeductionPerMinute decimal.Decimal
	UndertimeDeductionPerMinute decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TimingFor returns the configured timing for a statutory kind.
func (s Settings) TimingFor(kind StatutoryKind) DeductionTiming {
	switch kind {
	case StatutorySSS:
		return s.SSSTiming
	case StatutoryPhilHealth:
		return s.PhilHealthTiming
	case StatutoryPagIbig:
		return s.PagIbigTiming
	case StatutoryTax:
		return s.TaxTiming
	default:
		return TimingDisabled
	}
}

// DefaultSettings is what a company gets before configuring anything:
// everything deducted every period, no CTO type.
func DefaultSettings(companyID string) Settings {
	return Settings{
		CompanyID:        companyID,
		PayFrequency:     FrequencySemiMonthly,
		SSSTiming:        TimingEveryPeriod,
		PhilHealthTiming: TimingEveryPeriod,
		PagIbigTiming:    TimingEveryPeriod,
		TaxTiming:        TimingEveryPeriod,
	}
}

type ComponentType string

const (
	ComponentTypeAllowance ComponentType = "allowance"
	ComponentTypeDeduction ComponentType = "deduction"
)

// PayrollComponent is a company-level recurring earning or deduction
// definition.
type PayrollComponent struct {
	ID        string
	CompanyID string
	Name      string
	Type      ComponentType
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EmployeePayrollComponent assigns a component amount to one employee
// with effective dating.
type EmployeePayrollComponent struct {
	ID            string
	EmployeeID    string
	ComponentID   string
	Amount        decimal.Decimal
	EffectiveDate time.Time
	EndDate       *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Joined fields
	ComponentName *string
	ComponentType *ComponentType
}

// ActiveOn reports whether the assignment applies on the given date.
func (c EmployeePayrollComponent) ActiveOn(date time.Time) bool {
	if date.Before(c.EffectiveDate) {
		return false
	}
	if c.EndDate != nil && date.After(*c.EndDate) {
		return false
	}
	return true
}

// EmployeeStatutoryAmount is the pre-computed per-period contribution
// for one employee and kind. Rate schedules are external inputs; the
// core only decides when to apply the amounts.
type EmployeeStatutoryAmount struct {
	ID         string
	EmployeeID string
	Kind       StatutoryKind
	Amount     decimal.Decimal
	UpdatedAt  time.Time
}
