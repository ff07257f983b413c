package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/payrollhq/payroll-backend-go/internal/pkg/money"
)

// LeaveBalance is one (employee, leave type, year) balance row. Rows are
// created by the yearly initialization process; the ledger never creates
// them implicitly and fails fast when one is missing.
//
// Invariant, enforced here and nowhere else: after every committed
// mutation, AvailableBalance == CurrentBalance - PendingRequests and
// CurrentBalance, AvailableBalance, PendingRequests >= 0.
type LeaveBalance struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string
	Year        int

	CurrentBalance   decimal.Decimal
	AvailableBalance decimal.Decimal
	PendingRequests  decimal.Decimal
	CreditsEarned    decimal.Decimal
	CreditsUsed      decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Reserve holds days against a submitted request. CurrentBalance is
// untouched; the hold lives entirely in PendingRequests/AvailableBalance.
func (b *LeaveBalance) Reserve(days decimal.Decimal) error {
	days = money.Round2(days)
	if !days.IsPositive() {
		return ErrInvalidAmount
	}
	if money.Round2(b.AvailableBalance).LessThan(days) {
		return ErrInsufficientBalance
	}

	b.PendingRequests = money.Round2(b.PendingRequests.Add(days))
	b.AvailableBalance = money.Round2(b.AvailableBalance.Sub(days))
	return nil
}

// Release undoes a reservation on rejection or cancellation. A shortfall
// in PendingRequests means a prior bug or race, not a user error.
func (b *LeaveBalance) Release(days decimal.Decimal) error {
	days = money.Round2(days)
	if !days.IsPositive() {
		return ErrInvalidAmount
	}
	if money.Round2(b.PendingRequests).LessThan(days) {
		return ErrReservationInconsistent
	}

	b.PendingRequests = money.Round2(b.PendingRequests.Sub(days))
	b.AvailableBalance = money.Round2(b.AvailableBalance.Add(days))
	return nil
}

// Consume converts a reservation into usage on final approval, then
// recomputes AvailableBalance from scratch to catch arithmetic drift
// across the primitives.
func (b *LeaveBalance) Consume(days decimal.Decimal) error {
	days = money.Round2(days)
	if !days.IsPositive() {
		return ErrInvalidAmount
	}
	if money.Round2(b.PendingRequests).LessThan(days) {
		return ErrReservationInconsistent
	}
	if money.Round2(b.CurrentBalance).LessThan(days) {
		return ErrInsufficientBalance
	}

	b.CurrentBalance = money.Round2(b.CurrentBalance.Sub(days))
	b.PendingRequests = money.Round2(b.PendingRequests.Sub(days))
	b.CreditsUsed = money.Round2(b.CreditsUsed.Add(days))

	b.AvailableBalance = money.Round2(b.CurrentBalance.Sub(b.PendingRequests))
	if b.AvailableBalance.IsNegative() {
		return ErrBalanceComputationFailed
	}
	return nil
}

// Credit earns days into the balance. The overtime-to-CTO conversion is
// the only caller outside yearly initialization.
func (b *LeaveBalance) Credit(days decimal.Decimal) error {
	days = money.Round2(days)
	if !days.IsPositive() {
		return ErrInvalidAmount
	}

	b.CurrentBalance = money.Round2(b.CurrentBalance.Add(days))
	b.AvailableBalance = money.Round2(b.AvailableBalance.Add(days))
	b.CreditsEarned = money.Round2(b.CreditsEarned.Add(days))
	return nil
}

// TransactionType enumerates the fixed ledger transaction kinds.
type TransactionType string

const (
	TransactionAccrual    TransactionType = "ACCRUAL"
	TransactionUsage      TransactionType = "USAGE"
	TransactionAdjustment TransactionType = "ADJUSTMENT"
)

// Reference types link transactions back to the workflow entity that
// triggered them.
const (
	ReferenceLeaveRequest    = "leave_request"
	ReferenceOvertimeRequest = "overtime_request"
)

// LeaveBalanceTransaction is the append-only audit trail of every
// balance mutation. Rows are never updated or deleted.
type LeaveBalanceTransaction struct {
	ID             string
	LeaveBalanceID string
	Type           TransactionType
	Amount         decimal.Decimal
	RunningBalance decimal.Decimal
	ReferenceType  string
	ReferenceID    string
	Remarks        *string
	ProcessedByID  string
	CreatedAt      time.Time
}
