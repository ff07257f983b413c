package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/payrollhq/payroll-backend-go/internal/domain/ledger"
	"github.com/payrollhq/payroll-backend-go/internal/domain/payroll"
)

var minimumOvertimeHours = decimal.NewFromInt(1)

// ShouldConvertToCto decides whether approved overtime hours become CTO
// credit instead of overtime pay. Employees outside overtime-pay
// eligibility always convert; eligible employees convert only when they
// currently manage at least one active direct report. The org-chart
// check runs at approval time, not submission time.
func ShouldConvertToCto(isOvertimeEligible bool, activeDirectReports int) bool {
	return !isOvertimeEligible || activeDirectReports >= 1
}

// ConvertOvertime applies the accrual rule for one finally-approved
// overtime request. It runs inside the approval's transaction. A
// request converts at most once, ever: a second conversion attempt is
// an invariant violation, not a no-op.
func (s *Service) ConvertOvertime(ctx context.Context, in ledger.ConvertOvertimeInput) (ledger.ConversionResult, error) {
	if in.Hours.LessThan(minimumOvertimeHours) {
		return ledger.ConversionResult{}, ledger.ErrHoursBelowMinimum
	}

	settings, err := s.SettingsRepository.GetByCompanyID(ctx, in.CompanyID)
	if err != nil {
		if errors.Is(err, payroll.ErrSettingsNotFound) {
			return ledger.ConversionResult{}, ledger.ErrCtoLeaveTypeNotConfigured
		}
		return ledger.ConversionResult{}, fmt.Errorf("failed to get payroll settings: %w", err)
	}
	if settings.CtoLeaveTypeID == nil {
		return ledger.ConversionResult{}, ledger.ErrCtoLeaveTypeNotConfigured
	}

	reports, err := s.EmployeeRepository.CountActiveDirectReports(ctx, in.CompanyID, in.EmployeeID)
	if err != nil {
		return ledger.ConversionResult{}, fmt.Errorf("failed to count direct reports: %w", err)
	}

	if !ShouldConvertToCto(in.IsOvertimeEligible, reports) {
		return ledger.ConversionResult{Converted: false}, nil
	}

	exists, err := s.TransactionRepository.ExistsByReference(ctx, ledger.ReferenceOvertimeRequest, in.OvertimeRequestID, ledger.TransactionAccrual)
	if err != nil {
		return ledger.ConversionResult{}, fmt.Errorf("failed to check prior accrual: %w", err)
	}
	if exists {
		return ledger.ConversionResult{}, ledger.ErrAlreadyConverted
	}

	balance, err := s.BalanceRepository.GetForUpdate(ctx, in.EmployeeID, *settings.CtoLeaveTypeID, in.OvertimeDate.Year())
	if err != nil {
		if errors.Is(err, ledger.ErrBalanceNotInitialized) {
			return ledger.ConversionResult{}, ledger.ErrCtoBalanceNotInitialized
		}
		return ledger.ConversionResult{}, err
	}

	if err := balance.Credit(in.Hours); err != nil {
		return ledger.ConversionResult{}, err
	}

	if err := s.BalanceRepository.Update(ctx, balance); err != nil {
		return ledger.ConversionResult{}, fmt.Errorf("failed to update CTO balance: %w", err)
	}

	remarks := fmt.Sprintf("CTO accrual from overtime on %s", in.OvertimeDate.Format("2006-01-02"))
	_, err = s.TransactionRepository.Append(ctx, ledger.LeaveBalanceTransaction{
		LeaveBalanceID: balance.ID,
		Type:           ledger.TransactionAccrual,
		Amount:         in.Hours,
		RunningBalance: balance.CurrentBalance,
		ReferenceType:  ledger.ReferenceOvertimeRequest,
		ReferenceID:    in.OvertimeRequestID,
		Remarks:        &remarks,
		ProcessedByID:  in.ActorID,
	})
	if err != nil {
		return ledger.ConversionResult{}, fmt.Errorf("failed to append balance transaction: %w", err)
	}

	return ledger.ConversionResult{
		Converted:     true,
		CreditedHours: in.Hours,
		LeaveTypeID:   *settings.CtoLeaveTypeID,
	}, nil
}
