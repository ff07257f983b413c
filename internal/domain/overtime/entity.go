package overtime

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/payrollhq/payroll-backend-go/internal/domain/workflow"
)

// OvertimeRequest follows the same workflow shape as a leave request but
// reserves nothing at submission: the only ledger interaction is the
// CTO accrual at final approval, when the conversion rule applies.
type OvertimeRequest struct {
	ID            string
	CompanyID     string
	EmployeeID    string
	RequestNumber string

	OvertimeDate time.Time
	Hours        decimal.Decimal
	Reason       string

	Status               workflow.Status
	SupervisorApprovedBy *string
	SupervisorApprovedAt *time.Time
	ApprovedBy           *string
	ApprovedAt           *time.Time
	RejectionReason      *string
	CancelledAt          *time.Time

	// CtoConverted records the conversion outcome decided at approval
	// time. False on an approved request means the hours are paid as
	// ordinary overtime pay.
	CtoConverted bool
	CtoHours     decimal.Decimal

	SubmittedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined fields
	EmployeeName *string
}
