package overtime

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/payrollhq/payroll-backend-go/internal/domain/audit"
	"github.com/payrollhq/payroll-backend-go/internal/domain/employee"
	"github.com/payrollhq/payroll-backend-go/internal/domain/ledger"
	"github.com/payrollhq/payroll-backend-go/internal/domain/overtime"
	"github.com/payrollhq/payroll-backend-go/internal/domain/workflow"
	"github.com/payrollhq/payroll-backend-go/internal/pkg/database"
	"github.com/payrollhq/payroll-backend-go/internal/repository/postgresql"
)

var minimumHours = decimal.NewFromInt(1)

// RequestService drives the overtime request workflow. Submission and
// the intermediate approval touch no balance; the only ledger
// interaction is the CTO conversion at final approval, decided by the
// accrual rule against org-chart state at that moment.
type RequestService struct {
	db *database.DB
	overtime.OvertimeRequestRepository
	employee.EmployeeRepository
	ledger   ledger.Service
	recorder audit.Recorder
}

func NewRequestService(
	db *database.DB,
	overtimeRequestRepository overtime.OvertimeRequestRepository,
	employeeRepository employee.EmployeeRepository,
	ledgerService ledger.Service,
	recorder audit.Recorder,
) *RequestService {
	return &RequestService{
		db:                        db,
		OvertimeRequestRepository: overtimeRequestRepository,
		EmployeeRepository:        employeeRepository,
		ledger:                    ledgerService,
		recorder:                  recorder,
	}
}

func newRequestNumber(year int) string {
	return fmt.Sprintf("OT-%d-%s", year, strings.ToUpper(uuid.New().String()[:8]))
}

func (s *RequestService) Submit(ctx context.Context, companyID, actorID string, req overtime.CreateOvertimeRequestRequest) (overtime.OvertimeRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.OvertimeRequestResponse{}, err
	}
	if req.Hours.LessThan(minimumHours) {
		return overtime.OvertimeRequestResponse{}, overtime.ErrHoursBelowMinimum
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID, companyID)
	if err != nil {
		return overtime.OvertimeRequestResponse{}, err
	}

	overtimeDate, err := time.Parse("2006-01-02", req.OvertimeDate)
	if err != nil {
		return overtime.OvertimeRequestResponse{}, fmt.Errorf("failed to parse overtime date: %w", err)
	}

	request := overtime.OvertimeRequest{
		CompanyID:     companyID,
		EmployeeID:    emp.ID,
		RequestNumber: newRequestNumber(overtimeDate.Year()),
		OvertimeDate:  overtimeDate,
		Hours:         req.Hours,
		Reason:        req.Reason,
		Status:        workflow.StatusPending,
		SubmittedAt:   time.Now(),
	}

	created, err := s.OvertimeRequestRepository.Create(ctx, request)
	if err != nil {
		return overtime.OvertimeRequestResponse{}, fmt.Errorf("failed to create overtime request: %w", err)
	}

	return toResponse(created), nil
}

func (s *RequestService) SupervisorApprove(ctx context.Context, companyID, actorID, requestID string) (overtime.OvertimeRequestResponse, error) {
	request, err := s.OvertimeRequestRepository.GetByID(ctx, requestID, companyID)
	if err != nil {
		return overtime.OvertimeRequestResponse{}, err
	}
	if !workflow.CanTransition(request.Status, workflow.StatusSupervisorApproved) {
		return overtime.OvertimeRequestResponse{}, overtime.ErrInvalidTransition
	}

	now := time.Now()
	from := request.Status
	request.Status = workflow.StatusSupervisorApproved
	request.SupervisorApprovedBy = &actorID
	request.SupervisorApprovedAt = &now

	if err := s.OvertimeRequestRepository.UpdateStatus(ctx, request, from); err != nil {
		return overtime.OvertimeRequestResponse{}, err
	}

	return toResponse(request), nil
}

// Approve performs the final approval and runs the CTO conversion rule
// in the same transaction. Eligibility and the direct-report count are
// evaluated now, not at submission.
func (s *RequestService) Approve(ctx context.Context, companyID, actorID, requestID string) (overtime.OvertimeRequestResponse, error) {
	request, err := s.OvertimeRequestRepository.GetByID(ctx, requestID, companyID)
	if err != nil {
		return overtime.OvertimeRequestResponse{}, err
	}
	if !workflow.CanTransition(request.Status, workflow.StatusApproved) {
		return overtime.OvertimeRequestResponse{}, overtime.ErrInvalidTransition
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, request.EmployeeID, companyID)
	if err != nil {
		return overtime.OvertimeRequestResponse{}, err
	}

	now := time.Now()
	from := request.Status
	request.Status = workflow.StatusApproved
	request.ApprovedBy = &actorID
	request.ApprovedAt = &now

	var result ledger.ConversionResult
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		result, err = s.ledger.ConvertOvertime(txCtx, ledger.ConvertOvertimeInput{
			CompanyID:          companyID,
			EmployeeID:         request.EmployeeID,
			OvertimeRequestID:  request.ID,
			OvertimeDate:       request.OvertimeDate,
			Hours:              request.Hours,
			IsOvertimeEligible: emp.IsOvertimeEligible,
			ActorID:            actorID,
		})
		if err != nil {
			return err
		}

		request.CtoConverted = result.Converted
		if result.Converted {
			request.CtoHours = result.CreditedHours
		}

		// A concurrent decision that committed first makes this write
		// affect zero rows, rolling back the CTO accrual above.
		if err := s.OvertimeRequestRepository.UpdateStatus(txCtx, request, from); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return overtime.OvertimeRequestResponse{}, err
	}

	if result.Converted {
		s.recorder.Record(ctx, audit.Fact{
			Kind:          audit.FactBalanceAccrued,
			CompanyID:     companyID,
			ActorID:       actorID,
			ReferenceType: ledger.ReferenceOvertimeRequest,
			ReferenceID:   request.ID,
			Details: map[string]string{
				"request_number": request.RequestNumber,
				"credited_hours": result.CreditedHours.String(),
				"leave_type_id":  result.LeaveTypeID,
			},
			OccurredAt: time.Now(),
		})
	}
	s.recordDecision(ctx, companyID, actorID, request)

	return toResponse(request), nil
}

// Reject needs no ledger call: overtime reserves nothing at submission,
// so there is nothing to release.
func (s *RequestService) Reject(ctx context.Context, companyID, actorID, requestID string, req overtime.RejectRequestRequest) (overtime.OvertimeRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.OvertimeRequestResponse{}, err
	}

	request, err := s.OvertimeRequestRepository.GetByID(ctx, requestID, companyID)
	if err != nil {
		return overtime.OvertimeRequestResponse{}, err
	}
	if !workflow.CanTransition(request.Status, workflow.StatusRejected) {
		return overtime.OvertimeRequestResponse{}, overtime.ErrInvalidTransition
	}

	from := request.Status
	request.Status = workflow.StatusRejected
	request.RejectionReason = &req.Reason

	if err := s.OvertimeRequestRepository.UpdateStatus(ctx, request, from); err != nil {
		return overtime.OvertimeRequestResponse{}, err
	}

	s.recordDecision(ctx, companyID, actorID, request)
	return toResponse(request), nil
}

func (s *RequestService) Cancel(ctx context.Context, companyID, actorID, requestID string) (overtime.OvertimeRequestResponse, error) {
	request, err := s.OvertimeRequestRepository.GetByID(ctx, requestID, companyID)
	if err != nil {
		return overtime.OvertimeRequestResponse{}, err
	}
	if request.EmployeeID != actorID {
		return overtime.OvertimeRequestResponse{}, overtime.ErrNotRequestOwner
	}
	if !workflow.CanTransition(request.Status, workflow.StatusCancelled) {
		return overtime.OvertimeRequestResponse{}, overtime.ErrInvalidTransition
	}

	now := time.Now()
	from := request.Status
	request.Status = workflow.StatusCancelled
	request.CancelledAt = &now

	if err := s.OvertimeRequestRepository.UpdateStatus(ctx, request, from); err != nil {
		return overtime.OvertimeRequestResponse{}, err
	}

	return toResponse(request), nil
}

func (s *RequestService) List(ctx context.Context, companyID string, status *workflow.Status) ([]overtime.OvertimeRequestResponse, error) {
	requests, err := s.OvertimeRequestRepository.GetByCompanyID(ctx, companyID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list overtime requests: %w", err)
	}

	responses := make([]overtime.OvertimeRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, toResponse(r))
	}
	return responses, nil
}

func (s *RequestService) recordDecision(ctx context.Context, companyID, actorID string, request overtime.OvertimeRequest) {
	s.recorder.Record(ctx, audit.Fact{
		Kind:          audit.FactRequestDecided,
		CompanyID:     companyID,
		ActorID:       actorID,
		ReferenceType: ledger.ReferenceOvertimeRequest,
		ReferenceID:   request.ID,
		Details: map[string]string{
			"request_number": request.RequestNumber,
			"status":         string(request.Status),
			"cto_converted":  fmt.Sprintf("%t", request.CtoConverted),
		},
		OccurredAt: time.Now(),
	})
}

func toResponse(r overtime.OvertimeRequest) overtime.OvertimeRequestResponse {
	return overtime.OvertimeRequestResponse{
		ID:            r.ID,
		RequestNumber: r.RequestNumber,
		EmployeeID:    r.EmployeeID,
		EmployeeName:  r.EmployeeName,
		OvertimeDate:  r.OvertimeDate.Format("2006-01-02"),
		Hours:         r.Hours,
		Reason:        r.Reason,
		Status:        string(r.Status),
		CtoConverted:  r.CtoConverted,
		CtoHours:      r.CtoHours,
	}
}
