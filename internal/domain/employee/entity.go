package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type EmploymentStatus string

const (
	StatusActive     EmploymentStatus = "ACTIVE"
	StatusProbation  EmploymentStatus = "PROBATION"
	StatusResigned   EmploymentStatus = "RESIGNED"
	StatusTerminated EmploymentStatus = "TERMINATED"
)

// Employee is the read model the payroll core consumes. Master data is
// owned elsewhere; nothing in this module writes employee rows.
type Employee struct {
	ID           string
	CompanyID    string
	EmployeeCode string
	FullName     string

	DepartmentID *string
	BranchID     *string
	PositionID   *string
	ManagerID    *string

	// BaseSalary is nil when compensation has not been set up yet. The
	// calculation step treats that as a validation error, not a zero.
	BaseSalary         *decimal.Decimal
	IsOvertimeEligible bool

	HireDate         time.Time
	EmploymentStatus EmploymentStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive reports whether the employee participates in payroll runs.
func (e Employee) IsActive() bool {
	return e.EmploymentStatus == StatusActive || e.EmploymentStatus == StatusProbation
}
