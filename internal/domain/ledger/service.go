package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// MutationInput carries everything a balance primitive needs. The actor
// and company are explicit parameters; the ledger never reads identity
// from ambient request state.
type MutationInput struct {
	CompanyID     string
	EmployeeID    string
	LeaveTypeID   string
	RequestID     string
	RequestNumber string
	StartDate     time.Time
	Days          decimal.Decimal
	ActorID       string
}

// ConvertOvertimeInput feeds the overtime-to-CTO accrual rule at final
// (HR/finance) approval time.
type ConvertOvertimeInput struct {
	CompanyID          string
	EmployeeID         string
	OvertimeRequestID  string
	OvertimeDate       time.Time
	Hours              decimal.Decimal
	IsOvertimeEligible bool
	ActorID            string
}

// ConversionResult reports whether the hours were converted; when
// Converted is false the hours are paid as ordinary overtime pay and no
// ledger mutation happened.
type ConversionResult struct {
	Converted     bool
	CreditedHours decimal.Decimal
	LeaveTypeID   string
}

// Service exposes the three balance-mutation primitives plus the
// overtime conversion path. Every method participates in the caller's
// transaction: the ledger does not open its own transaction boundary,
// and a workflow status change must commit or fail together with its
// ledger mutation.
type Service interface {
	Reserve(ctx context.Context, in MutationInput) error
	Release(ctx context.Context, in MutationInput) error
	Consume(ctx context.Context, in MutationInput) error

	ConvertOvertime(ctx context.Context, in ConvertOvertimeInput) (ConversionResult, error)

	GetBalances(ctx context.Context, companyID, employeeID string, year int) ([]BalanceResponse, error)
	GetTransactions(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) ([]TransactionResponse, error)
}
