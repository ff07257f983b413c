package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/payrollhq/payroll-backend-go/internal/domain/period"
	"github.com/payrollhq/payroll-backend-go/internal/pkg/database"
)

type payPeriodRepositoryImpl struct {
	db *database.DB
}

func NewPayPeriodRepository(db *database.DB) period.PayPeriodRepository {
	return &payPeriodRepositoryImpl{db: db}
}

func (r *payPeriodRepositoryImpl) Create(ctx context.Context, p period.PayPeriod) (period.PayPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO pay_periods (
			id, company_id, year, period_number, half,
			cutoff_start, cutoff_end, payment_date, status,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4,
			$5, $6, $7, $8,
			NOW(), NOW()
		)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		p.CompanyID, p.Year, p.PeriodNumber, p.Half,
		p.CutoffStart, p.CutoffEnd, p.PaymentDate, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return period.PayPeriod{}, period.ErrPeriodAlreadyExists
		}
		return period.PayPeriod{}, fmt.Errorf("failed to create pay period: %w", err)
	}
	return p, nil
}

func (r *payPeriodRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (period.PayPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, year, period_number, half,
			   cutoff_start, cutoff_end, payment_date, status,
			   created_at, updated_at
		FROM pay_periods
		WHERE id = $1 AND company_id = $2
	`

	var p period.PayPeriod
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&p.ID, &p.CompanyID, &p.Year, &p.PeriodNumber, &p.Half,
		&p.CutoffStart, &p.CutoffEnd, &p.PaymentDate, &p.Status,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return period.PayPeriod{}, period.ErrPeriodNotFound
		}
		return period.PayPeriod{}, fmt.Errorf("failed to get pay period: %w", err)
	}
	return p, nil
}

func (r *payPeriodRepositoryImpl) GetByCompanyID(ctx context.Context, companyID string, year int) ([]period.PayPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, year, period_number, half,
			   cutoff_start, cutoff_end, payment_date, status,
			   created_at, updated_at
		FROM pay_periods
		WHERE company_id = $1 AND year = $2
		ORDER BY period_number
	`

	rows, err := q.Query(ctx, query, companyID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list pay periods: %w", err)
	}
	defer rows.Close()

	var periods []period.PayPeriod
	for rows.Next() {
		var p period.PayPeriod
		if err := rows.Scan(
			&p.ID, &p.CompanyID, &p.Year, &p.PeriodNumber, &p.Half,
			&p.CutoffStart, &p.CutoffEnd, &p.PaymentDate, &p.Status,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pay period: %w", err)
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

func (r *payPeriodRepositoryImpl) UpdateStatus(ctx context.Context, id string, companyID string, status period.Status) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE pay_periods
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND company_id = $3
	`

	tag, err := q.Exec(ctx, query, status, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to update pay period status: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return period.ErrPeriodNotFound
	}
	return nil
}
