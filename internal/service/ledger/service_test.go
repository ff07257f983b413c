package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payrollhq/payroll-backend-go/internal/domain/employee"
	"github.com/payrollhq/payroll-backend-go/internal/domain/leave"
	"github.com/payrollhq/payroll-backend-go/internal/domain/ledger"
)

const (
	testCompanyID   = "company-1"
	testEmployeeID  = "emp-1"
	testLeaveTypeID = "lt-annual"
	testActorID     = "user-hr"
)

func seedBalance(current, available, pending string) ledger.LeaveBalance {
	return ledger.LeaveBalance{
		ID:               "bal-1",
		EmployeeID:       testEmployeeID,
		LeaveTypeID:      testLeaveTypeID,
		Year:             2026,
		CurrentBalance:   decimal.RequireFromString(current),
		AvailableBalance: decimal.RequireFromString(available),
		PendingRequests:  decimal.RequireFromString(pending),
	}
}

func mutationInput(days string) ledger.MutationInput {
	return ledger.MutationInput{
		CompanyID:     testCompanyID,
		EmployeeID:    testEmployeeID,
		LeaveTypeID:   testLeaveTypeID,
		RequestID:     "lr-1",
		RequestNumber: "LR-2026-0001",
		StartDate:     time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Days:          decimal.RequireFromString(days),
		ActorID:       testActorID,
	}
}

func newTestService(balances *fakeBalanceRepo, txs *fakeTransactionRepo) *Service {
	return NewService(balances, txs, &fakeEmployeeRepo{}, &fakeLeaveTypeRepo{}, &fakeSettingsRepo{})
}

func TestLedgerService_Reserve_Success(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	balances := newFakeBalanceRepo(seedBalance("10", "10", "0"))
	txs := &fakeTransactionRepo{}
	svc := newTestService(balances, txs)

	err := svc.Reserve(ctx, mutationInput("3"))
	require.NoError(t, err)

	b := balances.stored(testEmployeeID, testLeaveTypeID, 2026)
	assert.True(t, b.CurrentBalance.Equal(decimal.RequireFromString("10")))
	assert.True(t, b.AvailableBalance.Equal(decimal.RequireFromString("7")))
	assert.True(t, b.PendingRequests.Equal(decimal.RequireFromString("3")))

	require.Len(t, txs.appended, 1)
	tx := txs.appended[0]
	assert.Equal(t, ledger.TransactionAdjustment, tx.Type)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("-3")))
	assert.True(t, tx.RunningBalance.Equal(decimal.RequireFromString("10")), "reservation leaves running balance untouched")
	assert.Equal(t, ledger.ReferenceLeaveRequest, tx.ReferenceType)
	assert.Equal(t, "lr-1", tx.ReferenceID)
	assert.Equal(t, testActorID, tx.ProcessedByID)
}

func TestLedgerService_Reserve_Insufficient(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	balances := newFakeBalanceRepo(seedBalance("10", "10", "0"))
	txs := &fakeTransactionRepo{}
	svc := newTestService(balances, txs)

	err := svc.Reserve(ctx, mutationInput("12"))
	assert.ErrorIs(t, err, ledger.ErrInsufficientBalance)

	// Nothing persisted on failure.
	assert.Zero(t, balances.updates)
	assert.Empty(t, txs.appended)
}

func TestLedgerService_Reserve_NotInitialized(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestService(newFakeBalanceRepo(), &fakeTransactionRepo{})

	err := svc.Reserve(ctx, mutationInput("1"))
	assert.ErrorIs(t, err, ledger.ErrBalanceNotInitialized)
}

func TestLedgerService_Release_Success(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	balances := newFakeBalanceRepo(seedBalance("10", "7", "3"))
	txs := &fakeTransactionRepo{}
	svc := newTestService(balances, txs)

	err := svc.Release(ctx, mutationInput("3"))
	require.NoError(t, err)

	b := balances.stored(testEmployeeID, testLeaveTypeID, 2026)
	assert.True(t, b.AvailableBalance.Equal(decimal.RequireFromString("10")))
	assert.True(t, b.PendingRequests.IsZero())

	require.Len(t, txs.appended, 1)
	tx := txs.appended[0]
	assert.Equal(t, ledger.TransactionAdjustment, tx.Type)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("3")))
}

func TestLedgerService_Release_Inconsistent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	balances := newFakeBalanceRepo(seedBalance("10", "9", "1"))
	txs := &fakeTransactionRepo{}
	svc := newTestService(balances, txs)

	err := svc.Release(ctx, mutationInput("3"))
	assert.ErrorIs(t, err, ledger.ErrReservationInconsistent)
	assert.True(t, ledger.IsInvariantViolation(err))
	assert.Empty(t, txs.appended)
}

func TestLedgerService_Consume_Success(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	balances := newFakeBalanceRepo(seedBalance("10", "7", "3"))
	txs := &fakeTransactionRepo{}
	svc := newTestService(balances, txs)

	err := svc.Consume(ctx, mutationInput("3"))
	require.NoError(t, err)

	b := balances.stored(testEmployeeID, testLeaveTypeID, 2026)
	assert.True(t, b.CurrentBalance.Equal(decimal.RequireFromString("7")))
	assert.True(t, b.AvailableBalance.Equal(decimal.RequireFromString("7")))
	assert.True(t, b.PendingRequests.IsZero())
	assert.True(t, b.CreditsUsed.Equal(decimal.RequireFromString("3")))

	require.Len(t, txs.appended, 1)
	tx := txs.appended[0]
	assert.Equal(t, ledger.TransactionUsage, tx.Type)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("3")))
	assert.True(t, tx.RunningBalance.Equal(decimal.RequireFromString("7")), "usage records the new running balance")
}

func TestLedgerService_Consume_WithoutReservation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	balances := newFakeBalanceRepo(seedBalance("10", "10", "0"))
	svc := newTestService(balances, &fakeTransactionRepo{})

	err := svc.Consume(ctx, mutationInput("3"))
	assert.ErrorIs(t, err, ledger.ErrReservationInconsistent)
}

func TestLedgerService_GetBalances(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	balances := newFakeBalanceRepo(seedBalance("10", "7", "3"))
	svc := NewService(balances, &fakeTransactionRepo{},
		&fakeEmployeeRepo{employees: map[string]employee.Employee{
			testEmployeeID: {ID: testEmployeeID, CompanyID: testCompanyID, EmploymentStatus: employee.StatusActive},
		}},
		&fakeLeaveTypeRepo{types: []leave.LeaveType{
			{ID: testLeaveTypeID, CompanyID: testCompanyID, Name: "Annual Leave", IsActive: true},
		}},
		&fakeSettingsRepo{})

	got, err := svc.GetBalances(ctx, testCompanyID, testEmployeeID, 2026)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, testLeaveTypeID, got[0].LeaveTypeID)
	require.NotNil(t, got[0].LeaveTypeName)
	assert.Equal(t, "Annual Leave", *got[0].LeaveTypeName)
	assert.True(t, got[0].PendingRequests.Equal(decimal.RequireFromString("3")))
}

func TestLedgerService_GetBalances_UnknownEmployee(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestService(newFakeBalanceRepo(), &fakeTransactionRepo{})

	_, err := svc.GetBalances(ctx, testCompanyID, "emp-missing", 2026)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
