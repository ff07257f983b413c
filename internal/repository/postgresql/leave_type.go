package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/payrollhq/payroll-backend-go/internal/domain/leave"
	"github.com/payrollhq/payroll-backend-go/internal/pkg/database"
)

type leaveTypeRepositoryImpl struct {
	db *database.DB
}

func NewLeaveTypeRepository(db *database.DB) leave.LeaveTypeRepository {
	return &leaveTypeRepositoryImpl{db: db}
}

func (r *leaveTypeRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, code, is_active, created_at, updated_at
		FROM leave_types
		WHERE id = $1 AND company_id = $2
	`

	var lt leave.LeaveType
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&lt.ID, &lt.CompanyID, &lt.Name, &lt.Code, &lt.IsActive,
		&lt.CreatedAt, &lt.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, fmt.Errorf("failed to get leave type: %w", err)
	}
	return lt, nil
}

func (r *leaveTypeRepositoryImpl) GetActiveByCompanyID(ctx context.Context, companyID string) ([]leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, code, is_active, created_at, updated_at
		FROM leave_types
		WHERE company_id = $1 AND is_active = true
		ORDER BY name
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	defer rows.Close()

	var types []leave.LeaveType
	for rows.Next() {
		var lt leave.LeaveType
		if err := rows.Scan(
			&lt.ID, &lt.CompanyID, &lt.Name, &lt.Code, &lt.IsActive,
			&lt.CreatedAt, &lt.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leave type: %w", err)
		}
		types = append(types, lt)
	}
	return types, rows.Err()
}
