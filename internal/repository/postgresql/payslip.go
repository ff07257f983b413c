package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/payrollhq/payroll-backend-go/internal/domain/payroll"
	"github.com/payrollhq/payroll-backend-go/internal/pkg/database"
)

type payslipRepositoryImpl struct {
	db *database.DB
}

func NewPayslipRepository(db *database.DB) payroll.PayslipRepository {
	return &payslipRepositoryImpl{db: db}
}

func (r *payslipRepositoryImpl) Create(ctx context.Context, slip payroll.Payslip) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payslips (
			id, run_id, employee_id,
			basic_pay, gross_pay, total_deductions, net_pay,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2,
			$3, $4, $5, $6,
			NOW(), NOW()
		)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		slip.RunID, slip.EmployeeID,
		slip.BasicPay, slip.GrossPay, slip.TotalDeductions, slip.NetPay,
	).Scan(&slip.ID, &slip.CreatedAt, &slip.UpdatedAt)
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to create payslip: %w", err)
	}
	return slip, nil
}

func (r *payslipRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT p.id, p.run_id, p.employee_id,
			   p.basic_pay, p.gross_pay, p.total_deductions, p.net_pay,
			   p.payslip_number, p.generated_at,
			   p.created_at, p.updated_at,
			   e.full_name, e.employee_code
		FROM payslips p
		INNER JOIN payroll_runs r ON p.run_id = r.id
		INNER JOIN employees e ON p.employee_id = e.id
		WHERE p.id = $1 AND r.company_id = $2
	`

	var slip payroll.Payslip
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&slip.ID, &slip.RunID, &slip.EmployeeID,
		&slip.BasicPay, &slip.GrossPay, &slip.TotalDeductions, &slip.NetPay,
		&slip.PayslipNumber, &slip.GeneratedAt,
		&slip.CreatedAt, &slip.UpdatedAt,
		&slip.EmployeeName, &slip.EmployeeCode,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.Payslip{}, fmt.Errorf("failed to get payslip: %w", err)
	}

	slip.Lines, err = r.getLines(ctx, slip.ID)
	if err != nil {
		return payroll.Payslip{}, err
	}
	return slip, nil
}

func (r *payslipRepositoryImpl) GetByRun(ctx context.Context, runID string) ([]payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT p.id, p.run_id, p.employee_id,
			   p.basic_pay, p.gross_pay, p.total_deductions, p.net_pay,
			   p.payslip_number, p.generated_at,
			   p.created_at, p.updated_at,
			   e.full_name, e.employee_code
		FROM payslips p
		INNER JOIN employees e ON p.employee_id = e.id
		WHERE p.run_id = $1
		ORDER BY e.employee_code
	`

	rows, err := q.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	var payslips []payroll.Payslip
	for rows.Next() {
		var slip payroll.Payslip
		if err := rows.Scan(
			&slip.ID, &slip.RunID, &slip.EmployeeID,
			&slip.BasicPay, &slip.GrossPay, &slip.TotalDeductions, &slip.NetPay,
			&slip.PayslipNumber, &slip.GeneratedAt,
			&slip.CreatedAt, &slip.UpdatedAt,
			&slip.EmployeeName, &slip.EmployeeCode,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payslip: %w", err)
		}
		payslips = append(payslips, slip)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range payslips {
		payslips[i].Lines, err = r.getLines(ctx, payslips[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return payslips, nil
}

func (r *payslipRepositoryImpl) getLines(ctx context.Context, payslipID string) ([]payroll.PayslipLine, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, payslip_id, kind, source, name, amount, statutory_kind, created_at
		FROM payslip_lines
		WHERE payslip_id = $1
		ORDER BY created_at, id
	`

	rows, err := q.Query(ctx, query, payslipID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslip lines: %w", err)
	}
	defer rows.Close()

	var lines []payroll.PayslipLine
	for rows.Next() {
		var line payroll.PayslipLine
		if err := rows.Scan(
			&line.ID, &line.PayslipID, &line.Kind, &line.Source,
			&line.Name, &line.Amount, &line.StatutoryKind, &line.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payslip line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// DeleteByRun clears every payslip for the run; lines go with them.
// Calculate replaces, it never appends.
func (r *payslipRepositoryImpl) DeleteByRun(ctx context.Context, runID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `
		DELETE FROM payslip_lines
		WHERE payslip_id IN (SELECT id FROM payslips WHERE run_id = $1)
	`, runID); err != nil {
		return fmt.Errorf("failed to delete payslip lines: %w", err)
	}

	if _, err := q.Exec(ctx, `DELETE FROM payslips WHERE run_id = $1`, runID); err != nil {
		return fmt.Errorf("failed to delete payslips: %w", err)
	}
	return nil
}

func (r *payslipRepositoryImpl) AddLine(ctx context.Context, line payroll.PayslipLine) (payroll.PayslipLine, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payslip_lines (
			id, payslip_id, kind, source, name, amount, statutory_kind, created_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, NOW()
		)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		line.PayslipID, line.Kind, line.Source, line.Name, line.Amount, line.StatutoryKind,
	).Scan(&line.ID, &line.CreatedAt)
	if err != nil {
		return payroll.PayslipLine{}, fmt.Errorf("failed to add payslip line: %w", err)
	}
	return line, nil
}

func (r *payslipRepositoryImpl) UpdateTotals(ctx context.Context, slip payroll.Payslip) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payslips
		SET gross_pay = $1, total_deductions = $2, net_pay = $3, updated_at = NOW()
		WHERE id = $4
	`

	tag, err := q.Exec(ctx, query, slip.GrossPay, slip.TotalDeductions, slip.NetPay, slip.ID)
	if err != nil {
		return fmt.Errorf("failed to update payslip totals: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return payroll.ErrPayslipNotFound
	}
	return nil
}

// Freeze stamps sequential payslip numbers and the generation
// timestamp for every payslip in the run.
func (r *payslipRepositoryImpl) Freeze(ctx context.Context, runID string, numberPrefix string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH numbered AS (
			SELECT p.id, ROW_NUMBER() OVER (ORDER BY e.employee_code) AS seq
			FROM payslips p
			INNER JOIN employees e ON p.employee_id = e.id
			WHERE p.run_id = $1
		)
		UPDATE payslips
		SET payslip_number = $2 || '-' || LPAD(numbered.seq::text, 4, '0'),
			generated_at = NOW(),
			updated_at = NOW()
		FROM numbered
		WHERE payslips.id = numbered.id
	`

	if _, err := q.Exec(ctx, query, runID, numberPrefix); err != nil {
		return fmt.Errorf("failed to freeze payslips: %w", err)
	}
	return nil
}
