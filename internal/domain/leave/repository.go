package leave

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/payrollhq/payroll-backend-go/internal/domain/workflow"
)

type LeaveTypeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (LeaveType, error)
	GetActiveByCompanyID(ctx context.Context, companyID string) ([]LeaveType, error)
}

type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string, companyID string) (LeaveRequest, error)
	GetByCompanyID(ctx context.Context, companyID string, status *workflow.Status) ([]LeaveRequest, error)

	// UpdateStatus persists a transition as a compare-and-set on the
	// status the caller read: the write applies only while the stored
	// status is still from, and fails with ErrInvalidTransition
	// otherwise. Two concurrent approvals of the same request therefore
	// serialize; the loser's transaction aborts before any ledger
	// mutation commits.
	UpdateStatus(ctx context.Context, request LeaveRequest, from workflow.Status) error

	// SumApprovedDays totals approved leave days per employee whose
	// range overlaps the cutoff window; the calculation engine reads it.
	SumApprovedDays(ctx context.Context, companyID string, start, end time.Time, employeeIDs []string) (map[string]decimal.Decimal, error)

	// CountPendingInRange backs the validation step's unmatched-request
	// warning.
	CountPendingInRange(ctx context.Context, companyID string, start, end time.Time) (map[string]int, error)
}

// LeaveRequestService drives the request workflow. Every transition that
// mutates a balance runs its ledger call inside the same transaction as
// the status update.
type LeaveRequestService interface {
	Submit(ctx context.Context, companyID, actorID string, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	SupervisorApprove(ctx context.Context, companyID, actorID, requestID string) (LeaveRequestResponse, error)
	Approve(ctx context.Context, companyID, actorID, requestID string) (LeaveRequestResponse, error)
	Reject(ctx context.Context, companyID, actorID, requestID string, req RejectRequestRequest) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, companyID, actorID, requestID string) (LeaveRequestResponse, error)
	List(ctx context.Context, companyID string, status *workflow.Status) ([]LeaveRequestResponse, error)
}
