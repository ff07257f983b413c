package ledger

import "context"

// BalanceRepository persists LeaveBalance rows. Implementations must
// read the row inside the caller's transaction (GetForUpdate) so that
// two concurrent primitives against the same row serialize correctly.
type BalanceRepository interface {
	// GetForUpdate loads the balance row with a row-level lock held by
	// the surrounding transaction. Returns ErrBalanceNotInitialized when
	// no row exists for the year.
	GetForUpdate(ctx context.Context, employeeID, leaveTypeID string, year int) (LeaveBalance, error)

	Get(ctx context.Context, employeeID, leaveTypeID string, year int) (LeaveBalance, error)
	GetByEmployee(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error)

	// Update writes the three balance figures and the credit counters.
	// Only the ledger service calls this.
	Update(ctx context.Context, b LeaveBalance) error
}

// TransactionRepository is append-only; there is no update or delete.
type TransactionRepository interface {
	Append(ctx context.Context, tx LeaveBalanceTransaction) (LeaveBalanceTransaction, error)
	ListByBalance(ctx context.Context, leaveBalanceID string) ([]LeaveBalanceTransaction, error)

	// ExistsByReference backs accrual idempotency: one ACCRUAL per
	// overtime request, ever.
	ExistsByReference(ctx context.Context, referenceType, referenceID string, txType TransactionType) (bool, error)
}
