package employee

import "context"

// EmployeeRepository is read-only: the payroll core consumes employee
// master data, it never writes it. All methods are company-scoped to
// prevent cross-company data access.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	GetActiveByCompanyID(ctx context.Context, companyID string) ([]Employee, error)

	// GetActiveInScope filters the active roster by optional department
	// and branch; nil filters select everyone. Used to resolve a payroll
	// run's employee scope.
	GetActiveInScope(ctx context.Context, companyID string, departmentID, branchID *string) ([]Employee, error)

	// CountActiveDirectReports counts active employees whose manager_id
	// is the given employee. The overtime conversion rule evaluates this
	// at approval time against current org-chart state.
	CountActiveDirectReports(ctx context.Context, companyID string, employeeID string) (int, error)
}
