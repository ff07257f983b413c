package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/payrollhq/payroll-backend-go/internal/domain/payroll"
	"github.com/payrollhq/payroll-backend-go/internal/pkg/database"
)

type payrollSettingsRepositoryImpl struct {
	db *database.DB
}

func NewPayrollSettingsRepository(db *database.DB) payroll.SettingsRepository {
	return &payrollSettingsRepositoryImpl{db: db}
}

func (r *payrollSettingsRepositoryImpl) GetByCompanyID(ctx context.Context, companyID string) (payroll.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, pay_frequency,
			   sss_timing, philhealth_timing, pagibig_timing, tax_timing,
			   cto_leave_type_id,
			   overtime_pay_per_hour, tardiness_deduction_per_minute, undertime_deduction_per_minute,
			   created_at, updated_at
		FROM payroll_settings
		WHERE company_id = $1
	`

	var s payroll.Settings
	err := q.QueryRow(ctx, query, companyID).Scan(
		&s.ID, &s.CompanyID, &s.PayFrequency,
		&s.SSSTiming, &s.PhilHealthTiming, &s.PagIbigTiming, &s.TaxTiming,
		&s.CtoLeaveTypeID,
		&s.OvertimePayPerHour, &s.TardinessDeductionPerMinute, &s.UndertimeDeductionPerMinute,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Settings{}, payroll.ErrSettingsNotFound
		}
		return payroll.Settings{}, fmt.Errorf("failed to get payroll settings: %w", err)
	}
	return s, nil
}

func (r *payrollSettingsRepositoryImpl) Upsert(ctx context.Context, s payroll.Settings) (payroll.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_settings (
			id, company_id, pay_frequency,
			sss_timing, philhealth_timing, pagibig_timing, tax_timing,
			cto_leave_type_id,
			overtime_pay_per_hour, tardiness_deduction_per_minute, undertime_deduction_per_minute,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2,
			$3, $4, $5, $6,
			$7,
			$8, $9, $10,
			NOW(), NOW()
		)
		ON CONFLICT (company_id) DO UPDATE SET
			pay_frequency = EXCLUDED.pay_frequency,
			sss_timing = EXCLUDED.sss_timing,
			philhealth_timing = EXCLUDED.philhealth_timing,
			pagibig_timing = EXCLUDED.pagibig_timing,
			tax_timing = EXCLUDED.tax_timing,
			cto_leave_type_id = EXCLUDED.cto_leave_type_id,
			overtime_pay_per_hour = EXCLUDED.overtime_pay_per_hour,
			tardiness_deduction_per_minute = EXCLUDED.tardiness_deduction_per_minute,
			undertime_deduction_per_minute = EXCLUDED.undertime_deduction_per_minute,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.CompanyID, s.PayFrequency,
		s.SSSTiming, s.PhilHealthTiming, s.PagIbigTiming, s.TaxTiming,
		s.CtoLeaveTypeID,
		s.OvertimePayPerHour, s.TardinessDeductionPerMinute, s.UndertimeDeductionPerMinute,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return payroll.Settings{}, fmt.Errorf("failed to upsert payroll settings: %w", err)
	}
	return s, nil
}
