package postgresql

import (
	"context"
	"fmt"

	"github.com/payrollhq/payroll-backend-go/internal/domain/ledger"
	"github.com/payrollhq/payroll-backend-go/internal/pkg/database"
)

type balanceTransactionRepositoryImpl struct {
	db *database.DB
}

func NewBalanceTransactionRepository(db *database.DB) ledger.TransactionRepository {
	return &balanceTransactionRepositoryImpl{db: db}
}

// Append is the only write; transaction rows are never updated or
// deleted.
func (r *balanceTransactionRepositoryImpl) Append(ctx context.Context, tx ledger.LeaveBalanceTransaction) (ledger.LeaveBalanceTransaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balance_transactions (
			id, leave_balance_id, type, amount, running_balance,
			reference_type, reference_id, remarks, processed_by_id,
			created_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4,
			$5, $6, $7, $8,
			NOW()
		)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		tx.LeaveBalanceID, tx.Type, tx.Amount, tx.RunningBalance,
		tx.ReferenceType, tx.ReferenceID, tx.Remarks, tx.ProcessedByID,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return ledger.LeaveBalanceTransaction{}, fmt.Errorf("failed to append balance transaction: %w", err)
	}
	return tx, nil
}

func (r *balanceTransactionRepositoryImpl) ListByBalance(ctx context.Context, leaveBalanceID string) ([]ledger.LeaveBalanceTransaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, leave_balance_id, type, amount, running_balance,
			   reference_type, reference_id, remarks, processed_by_id,
			   created_at
		FROM leave_balance_transactions
		WHERE leave_balance_id = $1
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query, leaveBalanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list balance transactions: %w", err)
	}
	defer rows.Close()

	var transactions []ledger.LeaveBalanceTransaction
	for rows.Next() {
		var tx ledger.LeaveBalanceTransaction
		if err := rows.Scan(
			&tx.ID, &tx.LeaveBalanceID, &tx.Type, &tx.Amount, &tx.RunningBalance,
			&tx.ReferenceType, &tx.ReferenceID, &tx.Remarks, &tx.ProcessedByID,
			&tx.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan balance transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

func (r *balanceTransactionRepositoryImpl) ExistsByReference(ctx context.Context, referenceType, referenceID string, txType ledger.TransactionType) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_balance_transactions
			WHERE reference_type = $1 AND reference_id = $2 AND type = $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, referenceType, referenceID, txType).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check balance transaction reference: %w", err)
	}
	return exists, nil
}
