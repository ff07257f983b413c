package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/payrollhq/payroll-backend-go/internal/domain/payroll"
	"github.com/payrollhq/payroll-backend-go/internal/pkg/database"
)

type payrollRunRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRunRepository(db *database.DB) payroll.RunRepository {
	return &payrollRunRepositoryImpl{db: db}
}

const payrollRunColumns = `
	id, company_id, pay_period_id, run_type, status, is_locked, current_step,
	scope_department_id, scope_branch_id,
	total_gross_pay, total_deductions, total_net_pay,
	created_by_id, created_at, updated_at`

func scanPayrollRun(row pgx.Row) (payroll.PayrollRun, error) {
	var run payroll.PayrollRun
	err := row.Scan(
		&run.ID, &run.CompanyID, &run.PayPeriodID, &run.RunType, &run.Status, &run.IsLocked, &run.CurrentStep,
		&run.ScopeDepartmentID, &run.ScopeBranchID,
		&run.TotalGrossPay, &run.TotalDeductions, &run.TotalNetPay,
		&run.CreatedByID, &run.CreatedAt, &run.UpdatedAt,
	)
	return run, err
}

func (r *payrollRunRepositoryImpl) Create(ctx context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_runs (
			id, company_id, pay_period_id, run_type, status, is_locked, current_step,
			scope_department_id, scope_branch_id,
			total_gross_pay, total_deductions, total_net_pay,
			created_by_id, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, false, $5,
			$6, $7,
			0, 0, 0,
			$8, NOW(), NOW()
		)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		run.CompanyID, run.PayPeriodID, run.RunType, run.Status, run.CurrentStep,
		run.ScopeDepartmentID, run.ScopeBranchID,
		run.CreatedByID,
	).Scan(&run.ID, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		return payroll.PayrollRun{}, fmt.Errorf("failed to create payroll run: %w", err)
	}
	return run, nil
}

func (r *payrollRunRepositoryImpl) get(ctx context.Context, id string, companyID string, forUpdate bool) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollRunColumns + `
		FROM payroll_runs
		WHERE id = $1 AND company_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	run, err := scanPayrollRun(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollRun{}, payroll.ErrRunNotFound
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to get payroll run: %w", err)
	}
	return run, nil
}

// GetForUpdate locks the run row so concurrent step advancements
// serialize against each other.
func (r *payrollRunRepositoryImpl) GetForUpdate(ctx context.Context, id string, companyID string) (payroll.PayrollRun, error) {
	return r.get(ctx, id, companyID, true)
}

func (r *payrollRunRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (payroll.PayrollRun, error) {
	return r.get(ctx, id, companyID, false)
}

func (r *payrollRunRepositoryImpl) GetByPeriod(ctx context.Context, payPeriodID string, companyID string) ([]payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollRunColumns + `
		FROM payroll_runs
		WHERE pay_period_id = $1 AND company_id = $2
		ORDER BY created_at DESC`

	rows, err := q.Query(ctx, query, payPeriodID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll runs: %w", err)
	}
	defer rows.Close()

	var runs []payroll.PayrollRun
	for rows.Next() {
		run, err := scanPayrollRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *payrollRunRepositoryImpl) ExistsRegularForPeriod(ctx context.Context, payPeriodID string, companyID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM payroll_runs
			WHERE pay_period_id = $1 AND company_id = $2 AND run_type = 'REGULAR'
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, payPeriodID, companyID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check regular run existence: %w", err)
	}
	return exists, nil
}

func (r *payrollRunRepositoryImpl) Update(ctx context.Context, run payroll.PayrollRun) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_runs
		SET status = $1, is_locked = $2, current_step = $3,
			total_gross_pay = $4, total_deductions = $5, total_net_pay = $6,
			updated_at = NOW()
		WHERE id = $7 AND company_id = $8
	`

	tag, err := q.Exec(ctx, query,
		run.Status, run.IsLocked, run.CurrentStep,
		run.TotalGrossPay, run.TotalDeductions, run.TotalNetPay,
		run.ID, run.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payroll run: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return payroll.ErrRunNotFound
	}
	return nil
}
