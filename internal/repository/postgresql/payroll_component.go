package postgresql

import (
	"context"
	"fmt"

	"github.com/payrollhq/payroll-backend-go/internal/domain/payroll"
	"github.com/payrollhq/payroll-backend-go/internal/pkg/database"
)

type payrollComponentRepositoryImpl struct {
	db *database.DB
}

func NewPayrollComponentRepository(db *database.DB) payroll.ComponentRepository {
	return &payrollComponentRepositoryImpl{db: db}
}

func (r *payrollComponentRepositoryImpl) GetActiveByCompanyID(ctx context.Context, companyID string) ([]payroll.PayrollComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, type, is_active, created_at, updated_at
		FROM payroll_components
		WHERE company_id = $1 AND is_active = true
		ORDER BY name
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payroll components: %w", err)
	}
	defer rows.Close()

	var components []payroll.PayrollComponent
	for rows.Next() {
		var c payroll.PayrollComponent
		err := rows.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Type, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll component: %w", err)
		}
		components = append(components, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll components: %w", err)
	}
	return components, nil
}

func (r *payrollComponentRepositoryImpl) GetEmployeeComponents(ctx context.Context, companyID string, employeeIDs []string) (map[string][]payroll.EmployeePayrollComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT epc.id, epc.employee_id, epc.component_id, epc.amount,
			   epc.effective_date, epc.end_date, epc.created_at, epc.updated_at,
			   pc.name, pc.type
		FROM employee_payroll_components epc
		INNER JOIN payroll_components pc ON pc.id = epc.component_id
		WHERE pc.company_id = $1 AND pc.is_active = true AND epc.employee_id = ANY($2)
		ORDER BY epc.employee_id, pc.name
	`

	rows, err := q.Query(ctx, query, companyID, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee payroll components: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]payroll.EmployeePayrollComponent)
	for rows.Next() {
		var c payroll.EmployeePayrollComponent
		err := rows.Scan(
			&c.ID, &c.EmployeeID, &c.ComponentID, &c.Amount,
			&c.EffectiveDate, &c.EndDate, &c.CreatedAt, &c.UpdatedAt,
			&c.ComponentName, &c.ComponentType,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee payroll component: %w", err)
		}
		result[c.EmployeeID] = append(result[c.EmployeeID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employee payroll components: %w", err)
	}
	return result, nil
}
