package overtime

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/payrollhq/payroll-backend-go/internal/domain/workflow"
)

type OvertimeRequestRepository interface {
	Create(ctx context.Context, request OvertimeRequest) (OvertimeRequest, error)
	GetByID(ctx context.Context, id string, companyID string) (OvertimeRequest, error)
	GetByCompanyID(ctx context.Context, companyID string, status *workflow.Status) ([]OvertimeRequest, error)

	// UpdateStatus persists a transition as a compare-and-set on the
	// status the caller read; it fails with ErrInvalidTransition once
	// another transition has committed in between.
	UpdateStatus(ctx context.Context, request OvertimeRequest, from workflow.Status) error

	// SumApprovedHours returns, per employee, total approved overtime
	// hours and the subset converted to CTO within the cutoff window.
	SumApprovedHours(ctx context.Context, companyID string, start, end time.Time, employeeIDs []string) (map[string]HoursSummary, error)

	CountPendingInRange(ctx context.Context, companyID string, start, end time.Time) (map[string]int, error)
}

// HoursSummary splits an employee's approved overtime between paid
// hours and CTO-converted hours for one cutoff window.
type HoursSummary struct {
	TotalHours     decimal.Decimal
	ConvertedHours decimal.Decimal
}

func (h HoursSummary) PaidHours() decimal.Decimal {
	return h.TotalHours.Sub(h.ConvertedHours)
}

// OvertimeRequestService drives the request workflow. Final approval
// runs the CTO conversion rule inside the same transaction as the
// status update; rejection and cancellation release nothing because
// overtime reserves nothing.
type OvertimeRequestService interface {
	Submit(ctx context.Context, companyID, actorID string, req CreateOvertimeRequestRequest) (OvertimeRequestResponse, error)
	SupervisorApprove(ctx context.Context, companyID, actorID, requestID string) (OvertimeRequestResponse, error)
	Approve(ctx context.Context, companyID, actorID, requestID string) (OvertimeRequestResponse, error)
	Reject(ctx context.Context, companyID, actorID, requestID string, req RejectRequestRequest) (OvertimeRequestResponse, error)
	Cancel(ctx context.Context, companyID, actorID, requestID string) (OvertimeRequestResponse, error)
	List(ctx context.Context, companyID string, status *workflow.Status) ([]OvertimeRequestResponse, error)
}
