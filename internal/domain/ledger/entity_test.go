package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func balance(current, available, pending string) LeaveBalance {
	return LeaveBalance{
		CurrentBalance:   dec(current),
		AvailableBalance: dec(available),
		PendingRequests:  dec(pending),
		CreditsEarned:    decimal.Zero,
		CreditsUsed:      decimal.Zero,
	}
}

func assertConservation(t *testing.T, b LeaveBalance) {
	t.Helper()
	assert.True(t, b.AvailableBalance.Equal(b.CurrentBalance.Sub(b.PendingRequests)),
		"available (%s) != current (%s) - pending (%s)", b.AvailableBalance, b.CurrentBalance, b.PendingRequests)
	assert.False(t, b.CurrentBalance.IsNegative())
	assert.False(t, b.AvailableBalance.IsNegative())
	assert.False(t, b.PendingRequests.IsNegative())
}

func TestReserve(t *testing.T) {
	t.Parallel()

	b := balance("10", "10", "0")
	require.NoError(t, b.Reserve(dec("3")))

	assert.True(t, b.CurrentBalance.Equal(dec("10")), "reservation must not touch current balance")
	assert.True(t, b.AvailableBalance.Equal(dec("7")))
	assert.True(t, b.PendingRequests.Equal(dec("3")))
	assertConservation(t, b)
}

func TestReserve_Insufficient(t *testing.T) {
	t.Parallel()

	b := balance("10", "10", "0")
	err := b.Reserve(dec("12"))
	require.ErrorIs(t, err, ErrInsufficientBalance)

	// Row unchanged on failure.
	assert.True(t, b.CurrentBalance.Equal(dec("10")))
	assert.True(t, b.AvailableBalance.Equal(dec("10")))
	assert.True(t, b.PendingRequests.Equal(dec("0")))
}

func TestReserve_InvalidAmount(t *testing.T) {
	t.Parallel()

	b := balance("10", "10", "0")
	assert.ErrorIs(t, b.Reserve(decimal.Zero), ErrInvalidAmount)
	assert.ErrorIs(t, b.Reserve(dec("-2")), ErrInvalidAmount)
}

func TestReserveThenRelease_Identity(t *testing.T) {
	t.Parallel()

	b := balance("10", "7.5", "2.5")
	before := b

	require.NoError(t, b.Reserve(dec("3.25")))
	require.NoError(t, b.Release(dec("3.25")))

	assert.True(t, b.CurrentBalance.Equal(before.CurrentBalance))
	assert.True(t, b.AvailableBalance.Equal(before.AvailableBalance))
	assert.True(t, b.PendingRequests.Equal(before.PendingRequests))
}

func TestRelease_Inconsistent(t *testing.T) {
	t.Parallel()

	b := balance("10", "9", "1")
	err := b.Release(dec("2"))
	require.ErrorIs(t, err, ErrReservationInconsistent)
	assert.True(t, b.PendingRequests.Equal(dec("1")))
}

func TestConsume_FullLifecycle(t *testing.T) {
	t.Parallel()

	b := balance("10", "10", "0")

	require.NoError(t, b.Reserve(dec("3")))
	assert.True(t, b.CurrentBalance.Equal(dec("10")))
	assert.True(t, b.AvailableBalance.Equal(dec("7")))
	assert.True(t, b.PendingRequests.Equal(dec("3")))

	require.NoError(t, b.Consume(dec("3")))
	assert.True(t, b.CurrentBalance.Equal(dec("7")))
	assert.True(t, b.AvailableBalance.Equal(dec("7")))
	assert.True(t, b.PendingRequests.Equal(dec("0")))
	assert.True(t, b.CreditsUsed.Equal(dec("3")))
	assertConservation(t, b)
}

func TestConsume_WithoutReservation(t *testing.T) {
	t.Parallel()

	b := balance("10", "10", "0")
	err := b.Consume(dec("3"))
	require.ErrorIs(t, err, ErrReservationInconsistent)
}

func TestConsume_CurrentShortfall(t *testing.T) {
	t.Parallel()

	// Pending exceeds current: an inconsistent state consuming should
	// refuse to make worse.
	b := LeaveBalance{
		CurrentBalance:   dec("2"),
		AvailableBalance: dec("-1"),
		PendingRequests:  dec("3"),
	}
	err := b.Consume(dec("3"))
	require.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestCredit(t *testing.T) {
	t.Parallel()

	b := balance("4", "2", "2")
	require.NoError(t, b.Credit(dec("3.5")))

	assert.True(t, b.CurrentBalance.Equal(dec("7.5")))
	assert.True(t, b.AvailableBalance.Equal(dec("5.5")))
	assert.True(t, b.CreditsEarned.Equal(dec("3.5")))
	assertConservation(t, b)
}

func TestBalanceConservation_RandomisedSequence(t *testing.T) {
	t.Parallel()

	b := balance("20", "20", "0")
	steps := []struct {
		op   string
		days string
	}{
		{"reserve", "2.5"},
		{"reserve", "1"},
		{"consume", "2.5"},
		{"release", "1"},
		{"credit", "3.33"},
		{"reserve", "4"},
		{"consume", "4"},
	}

	for _, s := range steps {
		var err error
		switch s.op {
		case "reserve":
			err = b.Reserve(dec(s.days))
		case "release":
			err = b.Release(dec(s.days))
		case "consume":
			err = b.Consume(dec(s.days))
		case "credit":
			err = b.Credit(dec(s.days))
		}
		require.NoError(t, err, "%s %s", s.op, s.days)
		assertConservation(t, b)
	}

	assert.True(t, b.CurrentBalance.Equal(dec("16.83")))
	assert.True(t, b.CreditsUsed.Equal(dec("6.5")))
}

func TestIsInvariantViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsInvariantViolation(ErrReservationInconsistent))
	assert.True(t, IsInvariantViolation(ErrBalanceComputationFailed))
	assert.True(t, IsInvariantViolation(ErrAlreadyConverted))
	assert.False(t, IsInvariantViolation(ErrInsufficientBalance))
	assert.False(t, IsInvariantViolation(errors.New("infra down")))
}
