package leave

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/payrollhq/payroll-backend-go/internal/domain/workflow"
)

// LeaveType is company master data. The payroll core only reads it: to
// validate requests and to resolve the company's designated CTO type.
type LeaveType struct {
	ID        string
	CompanyID string
	Name      string
	Code      *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LeaveRequest is the approval-workflow entity whose status transitions
// trigger ledger calls. The ledger itself holds no workflow state; a
// transition and its ledger mutation commit or fail together.
type LeaveRequest struct {
	ID            string
	CompanyID     string
	EmployeeID    string
	LeaveTypeID   string
	RequestNumber string

	StartDate    time.Time
	EndDate      time.Time
	NumberOfDays decimal.Decimal
	Reason       string

	Status               workflow.Status
	SupervisorApprovedBy *string
	SupervisorApprovedAt *time.Time
	ApprovedBy           *string
	ApprovedAt           *time.Time
	RejectionReason      *string
	CancelledAt          *time.Time

	SubmittedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined fields
	LeaveTypeName *string
	EmployeeName  *string
}
