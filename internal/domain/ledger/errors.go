package ledger

import "errors"

// Business-rule failures: the caller turns these into actionable
// user-facing messages.
var (
	ErrInsufficientBalance   = errors.New("insufficient leave balance for this request")
	ErrBalanceNotInitialized = errors.New("leave balance not initialized for this year")
	ErrInvalidAmount         = errors.New("amount must be greater than zero")

	ErrCtoBalanceNotInitialized  = errors.New("CTO balance not initialized for this year")
	ErrCtoLeaveTypeNotConfigured = errors.New("company has no CTO leave type configured")
	ErrHoursBelowMinimum         = errors.New("overtime hours below the one-hour minimum")
)

// Invariant violations: a prior bug or race, surfaced distinctly from
// business-rule failures. The transaction must abort; proceeding would
// corrupt the ledger.
var (
	ErrReservationInconsistent  = errors.New("pending reservation smaller than released amount")
	ErrBalanceComputationFailed = errors.New("balance computation produced a negative available balance")
	ErrAlreadyConverted         = errors.New("overtime request already converted to CTO")
)

// IsInvariantViolation distinguishes ledger-corruption errors from
// ordinary business-rule failures for logging and HTTP mapping.
func IsInvariantViolation(err error) bool {
	return errors.Is(err, ErrReservationInconsistent) ||
		errors.Is(err, ErrBalanceComputationFailed) ||
		errors.Is(err, ErrAlreadyConverted)
}
