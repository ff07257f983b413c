package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/payrollhq/payroll-backend-go/internal/domain/ledger"
	"github.com/payrollhq/payroll-backend-go/internal/pkg/database"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) ledger.BalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

const leaveBalanceColumns = `
	id, employee_id, leave_type_id, year,
	current_balance, available_balance, pending_requests,
	credits_earned, credits_used,
	created_at, updated_at`

func scanLeaveBalance(row pgx.Row) (ledger.LeaveBalance, error) {
	var b ledger.LeaveBalance
	err := row.Scan(
		&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.Year,
		&b.CurrentBalance, &b.AvailableBalance, &b.PendingRequests,
		&b.CreditsEarned, &b.CreditsUsed,
		&b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func (r *leaveBalanceRepositoryImpl) get(ctx context.Context, employeeID, leaveTypeID string, year int, forUpdate bool) (ledger.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	b, err := scanLeaveBalance(q.QueryRow(ctx, query, employeeID, leaveTypeID, year))
	if err != nil {
		if err == pgx.ErrNoRows {
			return ledger.LeaveBalance{}, ledger.ErrBalanceNotInitialized
		}
		return ledger.LeaveBalance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return b, nil
}

// GetForUpdate locks the balance row for the remainder of the caller's
// transaction, serializing concurrent mutations against the same row.
func (r *leaveBalanceRepositoryImpl) GetForUpdate(ctx context.Context, employeeID, leaveTypeID string, year int) (ledger.LeaveBalance, error) {
	return r.get(ctx, employeeID, leaveTypeID, year, true)
}

func (r *leaveBalanceRepositoryImpl) Get(ctx context.Context, employeeID, leaveTypeID string, year int) (ledger.LeaveBalance, error) {
	return r.get(ctx, employeeID, leaveTypeID, year, false)
}

func (r *leaveBalanceRepositoryImpl) GetByEmployee(ctx context.Context, employeeID string, year int) ([]ledger.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE employee_id = $1 AND year = $2
		ORDER BY leave_type_id`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	defer rows.Close()

	var balances []ledger.LeaveBalance
	for rows.Next() {
		b, err := scanLeaveBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave balance: %w", err)
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

func (r *leaveBalanceRepositoryImpl) Update(ctx context.Context, b ledger.LeaveBalance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET current_balance = $1, available_balance = $2, pending_requests = $3,
			credits_earned = $4, credits_used = $5, updated_at = NOW()
		WHERE id = $6
	`

	tag, err := q.Exec(ctx, query,
		b.CurrentBalance, b.AvailableBalance, b.PendingRequests,
		b.CreditsEarned, b.CreditsUsed, b.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave balance: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return ledger.ErrBalanceNotInitialized
	}
	return nil
}
