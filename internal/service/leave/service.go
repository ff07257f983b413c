package leave

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/payrollhq/payroll-backend-go/internal/domain/audit"
	"github.com/payrollhq/payroll-backend-go/internal/domain/employee"
	"github.com/payrollhq/payroll-backend-go/internal/domain/leave"
	"github.com/payrollhq/payroll-backend-go/internal/domain/ledger"
	"github.com/payrollhq/payroll-backend-go/internal/domain/workflow"
	"github.com/payrollhq/payroll-backend-go/internal/pkg/database"
	"github.com/payrollhq/payroll-backend-go/internal/repository/postgresql"
)

// RequestService drives the leave request workflow. It owns the
// transaction boundary: a status transition and its balance mutation
// commit or fail together, and audit facts are recorded only after the
// commit succeeds.
type RequestService struct {
	db *database.DB
	leave.LeaveTypeRepository
	leave.LeaveRequestRepository
	employee.EmployeeRepository
	ledger   ledger.Service
	recorder audit.Recorder
}

func NewRequestService(
	db *database.DB,
	leaveTypeRepository leave.LeaveTypeRepository,
	leaveRequestRepository leave.LeaveRequestRepository,
	employeeRepository employee.EmployeeRepository,
	ledgerService ledger.Service,
	recorder audit.Recorder,
) *RequestService {
	return &RequestService{
		db:                     db,
		LeaveTypeRepository:    leaveTypeRepository,
		LeaveRequestRepository: leaveRequestRepository,
		EmployeeRepository:     employeeRepository,
		ledger:                 ledgerService,
		recorder:               recorder,
	}
}

func newRequestNumber(year int) string {
	return fmt.Sprintf("LR-%d-%s", year, strings.ToUpper(uuid.New().String()[:8]))
}

// Submit creates a pending request and reserves the days in the same
// transaction. A request that cannot be covered by the available
// balance is rejected up front.
func (s *RequestService) Submit(ctx context.Context, companyID, actorID string, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID, companyID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	leaveType, err := s.LeaveTypeRepository.GetByID(ctx, req.LeaveTypeID, companyID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !leaveType.IsActive {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveTypeInactive
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to parse start date: %w", err)
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to parse end date: %w", err)
	}
	if endDate.Before(startDate) {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidDateRange
	}

	request := leave.LeaveRequest{
		CompanyID:     companyID,
		EmployeeID:    emp.ID,
		LeaveTypeID:   leaveType.ID,
		RequestNumber: newRequestNumber(startDate.Year()),
		StartDate:     startDate,
		EndDate:       endDate,
		NumberOfDays:  req.NumberOfDays,
		Reason:        req.Reason,
		Status:        workflow.StatusPending,
		SubmittedAt:   time.Now(),
	}

	var created leave.LeaveRequest
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		created, err = s.LeaveRequestRepository.Create(txCtx, request)
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}

		return s.ledger.Reserve(txCtx, ledger.MutationInput{
			CompanyID:     companyID,
			EmployeeID:    created.EmployeeID,
			LeaveTypeID:   created.LeaveTypeID,
			RequestID:     created.ID,
			RequestNumber: created.RequestNumber,
			StartDate:     created.StartDate,
			Days:          created.NumberOfDays,
			ActorID:       actorID,
		})
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	s.recorder.Record(ctx, audit.Fact{
		Kind:          audit.FactBalanceReserved,
		CompanyID:     companyID,
		ActorID:       actorID,
		ReferenceType: ledger.ReferenceLeaveRequest,
		ReferenceID:   created.ID,
		Details: map[string]string{
			"request_number": created.RequestNumber,
			"days":           created.NumberOfDays.String(),
		},
		OccurredAt: time.Now(),
	})

	return toResponse(created), nil
}

// SupervisorApprove moves a pending request to the intermediate stage.
// No balance moves here; supervisor approval is a gate, not a grant.
func (s *RequestService) SupervisorApprove(ctx context.Context, companyID, actorID, requestID string) (leave.LeaveRequestResponse, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, requestID, companyID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !workflow.CanTransition(request.Status, workflow.StatusSupervisorApproved) {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidTransition
	}

	now := time.Now()
	from := request.Status
	request.Status = workflow.StatusSupervisorApproved
	request.SupervisorApprovedBy = &actorID
	request.SupervisorApprovedAt = &now

	if err := s.LeaveRequestRepository.UpdateStatus(ctx, request, from); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	return toResponse(request), nil
}

// Approve performs the final HR/finance approval: the reservation
// becomes usage inside the same transaction as the status change.
func (s *RequestService) Approve(ctx context.Context, companyID, actorID, requestID string) (leave.LeaveRequestResponse, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, requestID, companyID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !workflow.CanTransition(request.Status, workflow.StatusApproved) {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidTransition
	}

	now := time.Now()
	from := request.Status
	request.Status = workflow.StatusApproved
	request.ApprovedBy = &actorID
	request.ApprovedAt = &now

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		// The conditional write aborts the transaction when another
		// decision committed after the transition check above, so the
		// reservation is never consumed twice.
		if err := s.LeaveRequestRepository.UpdateStatus(txCtx, request, from); err != nil {
			return err
		}

		return s.ledger.Consume(txCtx, ledger.MutationInput{
			CompanyID:     companyID,
			EmployeeID:    request.EmployeeID,
			LeaveTypeID:   request.LeaveTypeID,
			RequestID:     request.ID,
			RequestNumber: request.RequestNumber,
			StartDate:     request.StartDate,
			Days:          request.NumberOfDays,
			ActorID:       actorID,
		})
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	s.recordDecision(ctx, audit.FactBalanceConsumed, companyID, actorID, request)
	return toResponse(request), nil
}

// Reject releases the reservation. Leave requests always reserve at
// submission, so rejection always has something to release.
func (s *RequestService) Reject(ctx context.Context, companyID, actorID, requestID string, req leave.RejectRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request, err := s.LeaveRequestRepository.GetByID(ctx, requestID, companyID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !workflow.CanTransition(request.Status, workflow.StatusRejected) {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidTransition
	}

	from := request.Status
	request.Status = workflow.StatusRejected
	request.RejectionReason = &req.Reason

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		if err := s.LeaveRequestRepository.UpdateStatus(txCtx, request, from); err != nil {
			return err
		}

		return s.ledger.Release(txCtx, ledger.MutationInput{
			CompanyID:     companyID,
			EmployeeID:    request.EmployeeID,
			LeaveTypeID:   request.LeaveTypeID,
			RequestID:     request.ID,
			RequestNumber: request.RequestNumber,
			StartDate:     request.StartDate,
			Days:          request.NumberOfDays,
			ActorID:       actorID,
		})
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	s.recordDecision(ctx, audit.FactBalanceReleased, companyID, actorID, request)
	return toResponse(request), nil
}

// Cancel is employee-initiated and only allowed while the request is
// still pending.
func (s *RequestService) Cancel(ctx context.Context, companyID, actorID, requestID string) (leave.LeaveRequestResponse, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, requestID, companyID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if request.EmployeeID != actorID {
		return leave.LeaveRequestResponse{}, leave.ErrNotRequestOwner
	}
	if !workflow.CanTransition(request.Status, workflow.StatusCancelled) {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidTransition
	}

	now := time.Now()
	from := request.Status
	request.Status = workflow.StatusCancelled
	request.CancelledAt = &now

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		if err := s.LeaveRequestRepository.UpdateStatus(txCtx, request, from); err != nil {
			return err
		}

		return s.ledger.Release(txCtx, ledger.MutationInput{
			CompanyID:     companyID,
			EmployeeID:    request.EmployeeID,
			LeaveTypeID:   request.LeaveTypeID,
			RequestID:     request.ID,
			RequestNumber: request.RequestNumber,
			StartDate:     request.StartDate,
			Days:          request.NumberOfDays,
			ActorID:       actorID,
		})
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	s.recordDecision(ctx, audit.FactBalanceReleased, companyID, actorID, request)
	return toResponse(request), nil
}

func (s *RequestService) List(ctx context.Context, companyID string, status *workflow.Status) ([]leave.LeaveRequestResponse, error) {
	requests, err := s.LeaveRequestRepository.GetByCompanyID(ctx, companyID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, toResponse(r))
	}
	return responses, nil
}

func (s *RequestService) recordDecision(ctx context.Context, kind audit.FactKind, companyID, actorID string, request leave.LeaveRequest) {
	s.recorder.Record(ctx, audit.Fact{
		Kind:          kind,
		CompanyID:     companyID,
		ActorID:       actorID,
		ReferenceType: ledger.ReferenceLeaveRequest,
		ReferenceID:   request.ID,
		Details: map[string]string{
			"request_number": request.RequestNumber,
			"status":         string(request.Status),
			"days":           request.NumberOfDays.String(),
		},
		OccurredAt: time.Now(),
	})
}

func toResponse(r leave.LeaveRequest) leave.LeaveRequestResponse {
	return leave.LeaveRequestResponse{
		ID:            r.ID,
		RequestNumber: r.RequestNumber,
		EmployeeID:    r.EmployeeID,
		EmployeeName:  r.EmployeeName,
		LeaveTypeID:   r.LeaveTypeID,
		LeaveTypeName: r.LeaveTypeName,
		StartDate:     r.StartDate.Format("2006-01-02"),
		EndDate:       r.EndDate.Format("2006-01-02"),
		NumberOfDays:  r.NumberOfDays,
		Reason:        r.Reason,
		Status:        string(r.Status),
	}
}
