package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payrollhq/payroll-backend-go/internal/domain/ledger"
	"github.com/payrollhq/payroll-backend-go/internal/domain/payroll"
)

const testCtoLeaveTypeID = "lt-cto"

func ctoSettings() *fakeSettingsRepo {
	ctoID := testCtoLeaveTypeID
	return &fakeSettingsRepo{settings: map[string]payroll.Settings{
		testCompanyID: {
			ID:             "settings-1",
			CompanyID:      testCompanyID,
			PayFrequency:   payroll.FrequencySemiMonthly,
			CtoLeaveTypeID: &ctoID,
		},
	}}
}

func ctoBalance(current string) ledger.LeaveBalance {
	return ledger.LeaveBalance{
		ID:               "bal-cto",
		EmployeeID:       testEmployeeID,
		LeaveTypeID:      testCtoLeaveTypeID,
		Year:             2026,
		CurrentBalance:   decimal.RequireFromString(current),
		AvailableBalance: decimal.RequireFromString(current),
	}
}

func conversionInput(hours string, eligible bool) ledger.ConvertOvertimeInput {
	return ledger.ConvertOvertimeInput{
		CompanyID:          testCompanyID,
		EmployeeID:         testEmployeeID,
		OvertimeRequestID:  "ot-1",
		OvertimeDate:       time.Date(2026, 4, 18, 0, 0, 0, 0, time.UTC),
		Hours:              decimal.RequireFromString(hours),
		IsOvertimeEligible: eligible,
		ActorID:            testActorID,
	}
}

func newAccrualService(balances *fakeBalanceRepo, txs *fakeTransactionRepo, reports int) *Service {
	return NewService(balances, txs,
		&fakeEmployeeRepo{reports: map[string]int{testEmployeeID: reports}},
		&fakeLeaveTypeRepo{},
		ctoSettings())
}

func TestShouldConvertToCto(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		eligible bool
		reports  int
		want     bool
	}{
		{"eligible individual contributor stays paid", true, 0, false},
		{"eligible manager converts", true, 1, true},
		{"eligible manager with many reports converts", true, 7, true},
		{"ineligible employee converts regardless", false, 0, true},
		{"ineligible manager converts", false, 3, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, ShouldConvertToCto(c.eligible, c.reports))
		})
	}
}

func TestConvertOvertime_EligibleNoReports_PaidInstead(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	balances := newFakeBalanceRepo(ctoBalance("0"))
	txs := &fakeTransactionRepo{}
	svc := newAccrualService(balances, txs, 0)

	result, err := svc.ConvertOvertime(ctx, conversionInput("3.5", true))
	require.NoError(t, err)

	assert.False(t, result.Converted)
	assert.Zero(t, balances.updates)
	assert.Empty(t, txs.appended)
	assert.True(t, balances.stored(testEmployeeID, testCtoLeaveTypeID, 2026).CurrentBalance.IsZero())
}

func TestConvertOvertime_EligibleWithReports_Converts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	balances := newFakeBalanceRepo(ctoBalance("0"))
	txs := &fakeTransactionRepo{}
	svc := newAccrualService(balances, txs, 1)

	result, err := svc.ConvertOvertime(ctx, conversionInput("3.5", true))
	require.NoError(t, err)

	assert.True(t, result.Converted)
	assert.True(t, result.CreditedHours.Equal(decimal.RequireFromString("3.5")))
	assert.Equal(t, testCtoLeaveTypeID, result.LeaveTypeID)

	b := balances.stored(testEmployeeID, testCtoLeaveTypeID, 2026)
	assert.True(t, b.CurrentBalance.Equal(decimal.RequireFromString("3.5")))
	assert.True(t, b.AvailableBalance.Equal(decimal.RequireFromString("3.5")))
	assert.True(t, b.CreditsEarned.Equal(decimal.RequireFromString("3.5")))

	require.Len(t, txs.appended, 1)
	tx := txs.appended[0]
	assert.Equal(t, ledger.TransactionAccrual, tx.Type)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("3.5")))
	assert.Equal(t, ledger.ReferenceOvertimeRequest, tx.ReferenceType)
	assert.Equal(t, "ot-1", tx.ReferenceID)
}

func TestConvertOvertime_Ineligible_Converts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	balances := newFakeBalanceRepo(ctoBalance("8"))
	txs := &fakeTransactionRepo{}
	svc := newAccrualService(balances, txs, 0)

	result, err := svc.ConvertOvertime(ctx, conversionInput("2", false))
	require.NoError(t, err)

	assert.True(t, result.Converted)
	b := balances.stored(testEmployeeID, testCtoLeaveTypeID, 2026)
	assert.True(t, b.CurrentBalance.Equal(decimal.RequireFromString("10")))
}

func TestConvertOvertime_SecondAttempt_Fails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	balances := newFakeBalanceRepo(ctoBalance("0"))
	txs := &fakeTransactionRepo{}
	svc := newAccrualService(balances, txs, 2)

	_, err := svc.ConvertOvertime(ctx, conversionInput("3.5", true))
	require.NoError(t, err)

	_, err = svc.ConvertOvertime(ctx, conversionInput("3.5", true))
	assert.ErrorIs(t, err, ledger.ErrAlreadyConverted)
	assert.True(t, ledger.IsInvariantViolation(err))

	// The first accrual stands; nothing doubled.
	b := balances.stored(testEmployeeID, testCtoLeaveTypeID, 2026)
	assert.True(t, b.CurrentBalance.Equal(decimal.RequireFromString("3.5")))
	assert.Len(t, txs.appended, 1)
}

func TestConvertOvertime_HoursBelowMinimum(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newAccrualService(newFakeBalanceRepo(ctoBalance("0")), &fakeTransactionRepo{}, 1)

	_, err := svc.ConvertOvertime(ctx, conversionInput("0.5", true))
	assert.ErrorIs(t, err, ledger.ErrHoursBelowMinimum)
}

func TestConvertOvertime_NoCtoLeaveType(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := NewService(newFakeBalanceRepo(ctoBalance("0")), &fakeTransactionRepo{},
		&fakeEmployeeRepo{reports: map[string]int{testEmployeeID: 1}},
		&fakeLeaveTypeRepo{},
		&fakeSettingsRepo{})

	_, err := svc.ConvertOvertime(ctx, conversionInput("2", true))
	assert.ErrorIs(t, err, ledger.ErrCtoLeaveTypeNotConfigured)
}

func TestConvertOvertime_BalanceNotInitialized(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newAccrualService(newFakeBalanceRepo(), &fakeTransactionRepo{}, 1)

	_, err := svc.ConvertOvertime(ctx, conversionInput("2", true))
	assert.ErrorIs(t, err, ledger.ErrCtoBalanceNotInitialized)
}
