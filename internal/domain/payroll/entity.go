package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type RunType string

const (
	RunTypeRegular RunType = "REGULAR"
	RunTypeTrial   RunType = "TRIAL_RUN"
	RunTypeSpecial RunType = "SPECIAL"
)

type RunStatus string

const (
	RunStatusDraft      RunStatus = "DRAFT"
	RunStatusProcessing RunStatus = "PROCESSING"
	RunStatusPaid       RunStatus = "PAID"
)

// Pipeline steps, in order. Advancement is monotonic: step N requires
// step N-1 completed, and out-of-order requests fail with a distinct
// error instead of clamping.
const (
	StepSetup     = 1
	StepValidate  = 2
	StepCalculate = 3
	StepReview    = 4
	StepGenerate  = 5
	StepClose     = 6
)

// StepName returns the display name written into the step row.
func StepName(step int) string {
	switch step {
	case StepSetup:
		return "Setup"
	case StepValidate:
		return "Validate"
	case StepCalculate:
		return "Calculate"
	case StepReview:
		return "Review"
	case StepGenerate:
		return "Generate Payslips"
	case StepClose:
		return "Close"
	default:
		return "Unknown"
	}
}

// PayrollRun is the six-step stateful workflow over one pay period. The
// REGULAR run is the canonical source of truth; trial runs are
// disposable previews that never mutate the ledger or lock the period.
type PayrollRun struct {
	ID          string
	CompanyID   string
	PayPeriodID string
	RunType     RunType
	Status      RunStatus
	IsLocked    bool
	CurrentStep int

	// Scope is fixed at creation and immutable afterwards.
	ScopeDepartmentID *string
	ScopeBranchID     *string

	TotalGrossPay   decimal.Decimal
	TotalDeductions decimal.Decimal
	TotalNetPay     decimal.Decimal

	CreatedByID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LocksPeriodOnClose reports whether closing this run locks its pay
// period. Only a regular run claims the period; trial and special runs
// close without touching it.
func (r PayrollRun) LocksPeriodOnClose() bool {
	return r.RunType == RunTypeRegular
}

// ProcessStep records completion and the structured diagnostic trace of
// one pipeline step. Notes are typed in memory and serialized to JSON
// only at the storage boundary.
type ProcessStep struct {
	ID          string
	RunID       string
	StepNumber  int
	Name        string
	IsCompleted bool
	CompletedAt *time.Time
	Notes       *StepNotes
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EnsureAdvance gates a step-advancement request against the run state
// and completed steps. steps must hold the run's six step rows.
func EnsureAdvance(run PayrollRun, steps []ProcessStep, target int) error {
	if target < StepSetup || target > StepClose {
		return ErrStepOutOfOrder
	}
	if run.IsLocked {
		return ErrRunLocked
	}
	if target == StepSetup {
		return nil
	}

	byNumber := make(map[int]ProcessStep, len(steps))
	for _, s := range steps {
		byNumber[s.StepNumber] = s
	}

	prev, ok := byNumber[target-1]
	if !ok || !prev.IsCompleted {
		return ErrStepOutOfOrder
	}

	// Calculate is destructive and re-runnable, but never after payslips
	// are frozen at Generate.
	if target == StepCalculate {
		if gen, ok := byNumber[StepGenerate]; ok && gen.IsCompleted {
			return ErrStepNotReRunnable
		}
	}
	return nil
}

// PayslipLineKind distinguishes earnings from deductions.
type PayslipLineKind string

const (
	LineEarning   PayslipLineKind = "earning"
	LineDeduction PayslipLineKind = "deduction"
)

// PayslipLineSource identifies what produced a line.
type PayslipLineSource string

const (
	SourceBasic      PayslipLineSource = "basic"
	SourceOvertime   PayslipLineSource = "overtime"
	SourceComponent  PayslipLineSource = "component"
	SourceStatutory  PayslipLineSource = "statutory"
	SourceAttendance PayslipLineSource = "attendance"
	SourceManual     PayslipLineSource = "manual"
)

type PayslipLine struct {
	ID            string
	PayslipID     string
	Kind          PayslipLineKind
	Source        PayslipLineSource
	Name          string
	Amount        decimal.Decimal
	StatutoryKind *StatutoryKind
	CreatedAt     time.Time
}

// Payslip is the per-employee output of a run: created at Calculate,
// adjustable during Review, frozen at Generate.
type Payslip struct {
	ID         string
	RunID      string
	EmployeeID string

	BasicPay        decimal.Decimal
	GrossPay        decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal

	PayslipNumber *string
	GeneratedAt   *time.Time

	Lines []PayslipLine

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

// IsFrozen reports whether the payslip has been generated; frozen
// payslips reject further adjustment.
func (p Payslip) IsFrozen() bool {
	return p.GeneratedAt != nil
}

// Recompute rebuilds the totals from the lines. Only the affected
// payslip is recomputed after a manual adjustment.
func (p *Payslip) Recompute() {
	gross := decimal.Zero
	deductions := decimal.Zero
	for _, l := range p.Lines {
		switch l.Kind {
		case LineEarning:
			gross = gross.Add(l.Amount)
		case LineDeduction:
			deductions = deductions.Add(l.Amount)
		}
	}
	p.GrossPay = gross.Round(2)
	p.TotalDeductions = deductions.Round(2)
	p.NetPay = gross.Sub(deductions).Round(2)
}
