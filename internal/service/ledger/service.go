package ledger

import (
	"context"
	"fmt"

	"github.com/payrollhq/payroll-backend-go/internal/domain/employee"
	"github.com/payrollhq/payroll-backend-go/internal/domain/leave"
	"github.com/payrollhq/payroll-backend-go/internal/domain/ledger"
	"github.com/payrollhq/payroll-backend-go/internal/domain/payroll"
)

// Service owns every balance mutation. It holds no transaction boundary
// of its own: each primitive runs against whatever querier the caller's
// context carries, so a workflow status change and its balance mutation
// commit or roll back together.
type Service struct {
	ledger.BalanceRepository
	ledger.TransactionRepository
	employee.EmployeeRepository
	leave.LeaveTypeRepository
	payroll.SettingsRepository
}

func NewService(
	balanceRepository ledger.BalanceRepository,
	transactionRepository ledger.TransactionRepository,
	employeeRepository employee.EmployeeRepository,
	leaveTypeRepository leave.LeaveTypeRepository,
	settingsRepository payroll.SettingsRepository,
) *Service {
	return &Service{
		BalanceRepository:     balanceRepository,
		TransactionRepository: transactionRepository,
		EmployeeRepository:    employeeRepository,
		LeaveTypeRepository:   leaveTypeRepository,
		SettingsRepository:    settingsRepository,
	}
}

// Reserve holds days for a submitted leave request. The hold reduces
// the available balance only; the current balance moves at Consume.
func (s *Service) Reserve(ctx context.Context, in ledger.MutationInput) error {
	balance, err := s.BalanceRepository.GetForUpdate(ctx, in.EmployeeID, in.LeaveTypeID, in.StartDate.Year())
	if err != nil {
		return err
	}

	if err := balance.Reserve(in.Days); err != nil {
		return err
	}

	if err := s.BalanceRepository.Update(ctx, balance); err != nil {
		return fmt.Errorf("failed to update leave balance: %w", err)
	}

	remarks := fmt.Sprintf("Reserved for leave request %s", in.RequestNumber)
	// A reservation does not move the current balance, so the running
	// balance is recorded unchanged; the negative amount marks the hold.
	_, err = s.TransactionRepository.Append(ctx, ledger.LeaveBalanceTransaction{
		LeaveBalanceID: balance.ID,
		Type:           ledger.TransactionAdjustment,
		Amount:         in.Days.Neg(),
		RunningBalance: balance.CurrentBalance,
		ReferenceType:  ledger.ReferenceLeaveRequest,
		ReferenceID:    in.RequestID,
		Remarks:        &remarks,
		ProcessedByID:  in.ActorID,
	})
	if err != nil {
		return fmt.Errorf("failed to append balance transaction: %w", err)
	}

	return nil
}

// Release returns reserved days on rejection or cancellation.
func (s *Service) Release(ctx context.Context, in ledger.MutationInput) error {
	balance, err := s.BalanceRepository.GetForUpdate(ctx, in.EmployeeID, in.LeaveTypeID, in.StartDate.Year())
	if err != nil {
		return err
	}

	if err := balance.Release(in.Days); err != nil {
		return err
	}

	if err := s.BalanceRepository.Update(ctx, balance); err != nil {
		return fmt.Errorf("failed to update leave balance: %w", err)
	}

	remarks := fmt.Sprintf("Released reservation for leave request %s", in.RequestNumber)
	_, err = s.TransactionRepository.Append(ctx, ledger.LeaveBalanceTransaction{
		LeaveBalanceID: balance.ID,
		Type:           ledger.TransactionAdjustment,
		Amount:         in.Days,
		RunningBalance: balance.CurrentBalance,
		ReferenceType:  ledger.ReferenceLeaveRequest,
		ReferenceID:    in.RequestID,
		Remarks:        &remarks,
		ProcessedByID:  in.ActorID,
	})
	if err != nil {
		return fmt.Errorf("failed to append balance transaction: %w", err)
	}

	return nil
}

// Consume converts a reservation into usage at final approval.
func (s *Service) Consume(ctx context.Context, in ledger.MutationInput) error {
	balance, err := s.BalanceRepository.GetForUpdate(ctx, in.EmployeeID, in.LeaveTypeID, in.StartDate.Year())
	if err != nil {
		return err
	}

	if err := balance.Consume(in.Days); err != nil {
		return err
	}

	if err := s.BalanceRepository.Update(ctx, balance); err != nil {
		return fmt.Errorf("failed to update leave balance: %w", err)
	}

	remarks := fmt.Sprintf("Approved leave request %s", in.RequestNumber)
	_, err = s.TransactionRepository.Append(ctx, ledger.LeaveBalanceTransaction{
		LeaveBalanceID: balance.ID,
		Type:           ledger.TransactionUsage,
		Amount:         in.Days,
		RunningBalance: balance.CurrentBalance,
		ReferenceType:  ledger.ReferenceLeaveRequest,
		ReferenceID:    in.RequestID,
		Remarks:        &remarks,
		ProcessedByID:  in.ActorID,
	})
	if err != nil {
		return fmt.Errorf("failed to append balance transaction: %w", err)
	}

	return nil
}

func (s *Service) GetBalances(ctx context.Context, companyID, employeeID string, year int) ([]ledger.BalanceResponse, error) {
	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID, companyID); err != nil {
		return nil, err
	}

	balances, err := s.BalanceRepository.GetByEmployee(ctx, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}

	types, err := s.LeaveTypeRepository.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	names := make(map[string]string, len(types))
	for _, t := range types {
		names[t.ID] = t.Name
	}

	responses := make([]ledger.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		resp := ledger.BalanceResponse{
			ID:               b.ID,
			EmployeeID:       b.EmployeeID,
			LeaveTypeID:      b.LeaveTypeID,
			Year:             b.Year,
			CurrentBalance:   b.CurrentBalance,
			AvailableBalance: b.AvailableBalance,
			PendingRequests:  b.PendingRequests,
			CreditsEarned:    b.CreditsEarned,
			CreditsUsed:      b.CreditsUsed,
		}
		if name, ok := names[b.LeaveTypeID]; ok {
			resp.LeaveTypeName = &name
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

func (s *Service) GetTransactions(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) ([]ledger.TransactionResponse, error) {
	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID, companyID); err != nil {
		return nil, err
	}

	balance, err := s.BalanceRepository.Get(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		return nil, err
	}

	transactions, err := s.TransactionRepository.ListByBalance(ctx, balance.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list balance transactions: %w", err)
	}

	responses := make([]ledger.TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		responses = append(responses, ledger.TransactionResponse{
			ID:             tx.ID,
			LeaveBalanceID: tx.LeaveBalanceID,
			Type:           string(tx.Type),
			Amount:         tx.Amount,
			RunningBalance: tx.RunningBalance,
			ReferenceType:  tx.ReferenceType,
			ReferenceID:    tx.ReferenceID,
			Remarks:        tx.Remarks,
			ProcessedByID:  tx.ProcessedByID,
			CreatedAt:      tx.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return responses, nil
}
