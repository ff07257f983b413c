package postgresql

import (
	"context"
	"fmt"

	"github.com/payrollhq/payroll-backend-go/internal/domain/payroll"
	"github.com/payrollhq/payroll-backend-go/internal/pkg/database"
)

type statutoryRepositoryImpl struct {
	db *database.DB
}

func NewStatutoryRepository(db *database.DB) payroll.StatutoryRepository {
	return &statutoryRepositoryImpl{db: db}
}

func (r *statutoryRepositoryImpl) GetByEmployees(ctx context.Context, companyID string, employeeIDs []string) (map[string]map[payroll.StatutoryKind]payroll.EmployeeStatutoryAmount, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT esa.id, esa.employee_id, esa.kind, esa.amount, esa.updated_at
		FROM employee_statutory_amounts esa
		INNER JOIN employees e ON e.id = esa.employee_id
		WHERE e.company_id = $1 AND esa.employee_id = ANY($2)
	`

	rows, err := q.Query(ctx, query, companyID, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get statutory amounts: %w", err)
	}
	defer rows.Close()

	result := make(map[string]map[payroll.StatutoryKind]payroll.EmployeeStatutoryAmount)
	for rows.Next() {
		var a payroll.EmployeeStatutoryAmount
		err := rows.Scan(&a.ID, &a.EmployeeID, &a.Kind, &a.Amount, &a.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan statutory amount: %w", err)
		}
		if result[a.EmployeeID] == nil {
			result[a.EmployeeID] = make(map[payroll.StatutoryKind]payroll.EmployeeStatutoryAmount)
		}
		result[a.EmployeeID][a.Kind] = a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate statutory amounts: %w", err)
	}
	return result, nil
}
