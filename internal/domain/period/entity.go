package period

import "time"

// Half identifies, for semi-monthly frequencies, whether a pay period
// covers the first or second half of a calendar month. Statutory
// deduction timing keys off this.
type Half string

const (
	HalfFirst  Half = "FIRST"
	HalfSecond Half = "SECOND"
)

type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusProcessing Status = "PROCESSING"
	StatusClosed     Status = "CLOSED"
	StatusLocked     Status = "LOCKED"
)

// PayPeriod is the cutoff window a payroll run settles. Once the
// REGULAR run against it closes, the period is locked; reopening is an
// audited administrative operation outside this service.
type PayPeriod struct {
	ID           string
	CompanyID    string
	Year         int
	PeriodNumber int
	Half         Half
	CutoffStart  time.Time
	CutoffEnd    time.Time
	PaymentDate  time.Time
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (p PayPeriod) IsLocked() bool {
	return p.Status == StatusLocked
}

// AcceptsNewRun reports whether a new run may be created against this
// period.
func (p PayPeriod) AcceptsNewRun() bool {
	return p.Status == StatusOpen || p.Status == StatusProcessing
}
