package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/payrollhq/payroll-backend-go/internal/domain/employee"
	"github.com/payrollhq/payroll-backend-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	id, company_id, employee_code, full_name,
	department_id, branch_id, position_id, manager_id,
	base_salary, is_overtime_eligible,
	hire_date, employment_status,
	created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.CompanyID, &e.EmployeeCode, &e.FullName,
		&e.DepartmentID, &e.BranchID, &e.PositionID, &e.ManagerID,
		&e.BaseSalary, &e.IsOvertimeEligible,
		&e.HireDate, &e.EmploymentStatus,
		&e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1 AND company_id = $2`

	e, err := scanEmployee(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

func (r *employeeRepositoryImpl) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	return r.GetActiveInScope(ctx, companyID, nil, nil)
}

func (r *employeeRepositoryImpl) GetActiveInScope(ctx context.Context, companyID string, departmentID, branchID *string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + `
		FROM employees
		WHERE company_id = $1 AND employment_status IN ('ACTIVE', 'PROBATION')`
	args := []interface{}{companyID}

	if departmentID != nil {
		args = append(args, *departmentID)
		query += fmt.Sprintf(" AND department_id = $%d", len(args))
	}
	if branchID != nil {
		args = append(args, *branchID)
		query += fmt.Sprintf(" AND branch_id = $%d", len(args))
	}
	query += ` ORDER BY employee_code`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (r *employeeRepositoryImpl) CountActiveDirectReports(ctx context.Context, companyID string, employeeID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM employees
		WHERE company_id = $1 AND manager_id = $2
			AND employment_status IN ('ACTIVE', 'PROBATION')
	`

	var count int
	if err := q.QueryRow(ctx, query, companyID, employeeID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count direct reports: %w", err)
	}
	return count, nil
}
