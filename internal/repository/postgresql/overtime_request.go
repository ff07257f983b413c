package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/payrollhq/payroll-backend-go/internal/domain/overtime"
	"github.com/payrollhq/payroll-backend-go/internal/domain/workflow"
	"github.com/payrollhq/payroll-backend-go/internal/pkg/database"
)

type overtimeRequestRepositoryImpl struct {
	db *database.DB
}

func NewOvertimeRequestRepository(db *database.DB) overtime.OvertimeRequestRepository {
	return &overtimeRequestRepositoryImpl{db: db}
}

const overtimeRequestColumns = `
	ot.id, ot.company_id, ot.employee_id, ot.request_number,
	ot.overtime_date, ot.hours, ot.reason,
	ot.status, ot.supervisor_approved_by, ot.supervisor_approved_at,
	ot.approved_by, ot.approved_at, ot.rejection_reason, ot.cancelled_at,
	ot.cto_converted, ot.cto_hours,
	ot.submitted_at, ot.created_at, ot.updated_at,
	e.full_name`

func scanOvertimeRequest(row pgx.Row) (overtime.OvertimeRequest, error) {
	var ot overtime.OvertimeRequest
	err := row.Scan(
		&ot.ID, &ot.CompanyID, &ot.EmployeeID, &ot.RequestNumber,
		&ot.OvertimeDate, &ot.Hours, &ot.Reason,
		&ot.Status, &ot.SupervisorApprovedBy, &ot.SupervisorApprovedAt,
		&ot.ApprovedBy, &ot.ApprovedAt, &ot.RejectionReason, &ot.CancelledAt,
		&ot.CtoConverted, &ot.CtoHours,
		&ot.SubmittedAt, &ot.CreatedAt, &ot.UpdatedAt,
		&ot.EmployeeName,
	)
	return ot, err
}

func (r *overtimeRequestRepositoryImpl) Create(ctx context.Context, request overtime.OvertimeRequest) (overtime.OvertimeRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO overtime_requests (
			id, company_id, employee_id, request_number,
			overtime_date, hours, reason,
			status, cto_converted, cto_hours, submitted_at,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3,
			$4, $5, $6,
			$7, false, 0, $8,
			NOW(), NOW()
		)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.CompanyID, request.EmployeeID, request.RequestNumber,
		request.OvertimeDate, request.Hours, request.Reason,
		request.Status, request.SubmittedAt,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return overtime.OvertimeRequest{}, fmt.Errorf("failed to create overtime request: %w", err)
	}
	return request, nil
}

func (r *overtimeRequestRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (overtime.OvertimeRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + overtimeRequestColumns + `
		FROM overtime_requests ot
		INNER JOIN employees e ON ot.employee_id = e.id
		WHERE ot.id = $1 AND ot.company_id = $2
	`

	ot, err := scanOvertimeRequest(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return overtime.OvertimeRequest{}, overtime.ErrOvertimeRequestNotFound
		}
		return overtime.OvertimeRequest{}, fmt.Errorf("failed to get overtime request: %w", err)
	}
	return ot, nil
}

func (r *overtimeRequestRepositoryImpl) GetByCompanyID(ctx context.Context, companyID string, status *workflow.Status) ([]overtime.OvertimeRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + overtimeRequestColumns + `
		FROM overtime_requests ot
		INNER JOIN employees e ON ot.employee_id = e.id
		WHERE ot.company_id = $1
	`
	args := []interface{}{companyID}

	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(" AND ot.status = $%d", len(args))
	}
	query += ` ORDER BY ot.submitted_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list overtime requests: %w", err)
	}
	defer rows.Close()

	var requests []overtime.OvertimeRequest
	for rows.Next() {
		ot, err := scanOvertimeRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan overtime request: %w", err)
		}
		requests = append(requests, ot)
	}
	return requests, rows.Err()
}

// UpdateStatus applies the transition only while the stored status
// still matches from, so concurrent transitions of the same request
// serialize on the status column.
func (r *overtimeRequestRepositoryImpl) UpdateStatus(ctx context.Context, request overtime.OvertimeRequest, from workflow.Status) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE overtime_requests
		SET status = $1,
			supervisor_approved_by = $2, supervisor_approved_at = $3,
			approved_by = $4, approved_at = $5,
			rejection_reason = $6, cancelled_at = $7,
			cto_converted = $8, cto_hours = $9,
			updated_at = NOW()
		WHERE id = $10 AND company_id = $11 AND status = $12
	`

	tag, err := q.Exec(ctx, query,
		request.Status,
		request.SupervisorApprovedBy, request.SupervisorApprovedAt,
		request.ApprovedBy, request.ApprovedAt,
		request.RejectionReason, request.CancelledAt,
		request.CtoConverted, request.CtoHours,
		request.ID, request.CompanyID, from,
	)
	if err != nil {
		return fmt.Errorf("failed to update overtime request: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return overtime.ErrInvalidTransition
	}
	return nil
}

// SumApprovedHours splits approved overtime hours into total and
// CTO-converted per employee for the cutoff window.
func (r *overtimeRequestRepositoryImpl) SumApprovedHours(ctx context.Context, companyID string, start, end time.Time, employeeIDs []string) (map[string]overtime.HoursSummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id,
			   COALESCE(SUM(hours), 0),
			   COALESCE(SUM(cto_hours) FILTER (WHERE cto_converted), 0)
		FROM overtime_requests
		WHERE company_id = $1 AND status = 'APPROVED'
			AND overtime_date >= $2 AND overtime_date <= $3
	`
	args := []interface{}{companyID, start, end}

	if len(employeeIDs) > 0 {
		query += ` AND employee_id = ANY($4)`
		args = append(args, employeeIDs)
	}
	query += ` GROUP BY employee_id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to sum approved overtime hours: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]overtime.HoursSummary)
	for rows.Next() {
		var employeeID string
		var total, converted decimal.Decimal
		if err := rows.Scan(&employeeID, &total, &converted); err != nil {
			return nil, fmt.Errorf("failed to scan overtime hour total: %w", err)
		}
		totals[employeeID] = overtime.HoursSummary{TotalHours: total, ConvertedHours: converted}
	}
	return totals, rows.Err()
}

func (r *overtimeRequestRepositoryImpl) CountPendingInRange(ctx context.Context, companyID string, start, end time.Time) (map[string]int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, COUNT(*)
		FROM overtime_requests
		WHERE company_id = $1 AND status IN ('PENDING', 'SUPERVISOR_APPROVED')
			AND overtime_date >= $2 AND overtime_date <= $3
		GROUP BY employee_id
	`

	rows, err := q.Query(ctx, query, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending overtime requests: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var employeeID string
		var count int
		if err := rows.Scan(&employeeID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan pending overtime count: %w", err)
		}
		counts[employeeID] = count
	}
	return counts, rows.Err()
}
