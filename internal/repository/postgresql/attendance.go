package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/payrollhq/payroll-backend-go/internal/domain/attendance"
	"github.com/payrollhq/payroll-backend-go/internal/pkg/database"
)

type attendanceSummaryRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceSummaryRepository(db *database.DB) attendance.SummaryRepository {
	return &attendanceSummaryRepositoryImpl{db: db}
}

func (r *attendanceSummaryRepositoryImpl) GetSummaries(ctx context.Context, companyID string, start, end time.Time, employeeIDs []string) ([]attendance.Summary, error) {
	q := GetQuerier(ctx, r.db)

	// Employees with no attendance rows in the window produce no
	// summary at all; the validation step flags them.
	query := `
		SELECT
			employee_id,
			COUNT(*) FILTER (WHERE status = 'present') AS present_days,
			COUNT(*) FILTER (WHERE status = 'absent') AS absent_days,
			COALESCE(SUM(tardiness_minutes), 0) AS tardiness_minutes,
			COALESCE(SUM(undertime_minutes), 0) AS undertime_minutes
		FROM attendance_records
		WHERE company_id = $1 AND date >= $2 AND date <= $3
	`
	args := []interface{}{companyID, start, end}

	if len(employeeIDs) > 0 {
		query += ` AND employee_id = ANY($4)`
		args = append(args, employeeIDs)
	}
	query += ` GROUP BY employee_id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance summaries: %w", err)
	}
	defer rows.Close()

	var summaries []attendance.Summary
	for rows.Next() {
		var s attendance.Summary
		if err := rows.Scan(
			&s.EmployeeID, &s.PresentDays, &s.AbsentDays,
			&s.TardinessMinutes, &s.UndertimeMinutes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
