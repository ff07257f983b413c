package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/payrollhq/payroll-backend-go/internal/domain/leave"
	"github.com/payrollhq/payroll-backend-go/internal/domain/workflow"
	"github.com/payrollhq/payroll-backend-go/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `
	lr.id, lr.company_id, lr.employee_id, lr.leave_type_id, lr.request_number,
	lr.start_date, lr.end_date, lr.number_of_days, lr.reason,
	lr.status, lr.supervisor_approved_by, lr.supervisor_approved_at,
	lr.approved_by, lr.approved_at, lr.rejection_reason, lr.cancelled_at,
	lr.submitted_at, lr.created_at, lr.updated_at,
	lt.name, e.full_name`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID, &lr.CompanyID, &lr.EmployeeID, &lr.LeaveTypeID, &lr.RequestNumber,
		&lr.StartDate, &lr.EndDate, &lr.NumberOfDays, &lr.Reason,
		&lr.Status, &lr.SupervisorApprovedBy, &lr.SupervisorApprovedAt,
		&lr.ApprovedBy, &lr.ApprovedAt, &lr.RejectionReason, &lr.CancelledAt,
		&lr.SubmittedAt, &lr.CreatedAt, &lr.UpdatedAt,
		&lr.LeaveTypeName, &lr.EmployeeName,
	)
	return lr, err
}

func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, company_id, employee_id, leave_type_id, request_number,
			start_date, end_date, number_of_days, reason,
			status, submitted_at,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10,
			NOW(), NOW()
		)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.CompanyID, request.EmployeeID, request.LeaveTypeID, request.RequestNumber,
		request.StartDate, request.EndDate, request.NumberOfDays, request.Reason,
		request.Status, request.SubmittedAt,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return request, nil
}

func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		INNER JOIN leave_types lt ON lr.leave_type_id = lt.id
		INNER JOIN employees e ON lr.employee_id = e.id
		WHERE lr.id = $1 AND lr.company_id = $2
	`

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return lr, nil
}

func (r *leaveRequestRepositoryImpl) GetByCompanyID(ctx context.Context, companyID string, status *workflow.Status) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		INNER JOIN leave_types lt ON lr.leave_type_id = lt.id
		INNER JOIN employees e ON lr.employee_id = e.id
		WHERE lr.company_id = $1
	`
	args := []interface{}{companyID}

	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(" AND lr.status = $%d", len(args))
	}
	query += ` ORDER BY lr.submitted_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

// UpdateStatus implements the compare-and-set transition contract: the
// status predicate makes a write racing against a committed transition
// affect zero rows.
func (r *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, request leave.LeaveRequest, from workflow.Status) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $1,
			supervisor_approved_by = $2, supervisor_approved_at = $3,
			approved_by = $4, approved_at = $5,
			rejection_reason = $6, cancelled_at = $7,
			updated_at = NOW()
		WHERE id = $8 AND company_id = $9 AND status = $10
	`

	tag, err := q.Exec(ctx, query,
		request.Status,
		request.SupervisorApprovedBy, request.SupervisorApprovedAt,
		request.ApprovedBy, request.ApprovedAt,
		request.RejectionReason, request.CancelledAt,
		request.ID, request.CompanyID, from,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return leave.ErrInvalidTransition
	}
	return nil
}

// SumApprovedDays totals approved leave days per employee for requests
// overlapping the cutoff window.
func (r *leaveRequestRepositoryImpl) SumApprovedDays(ctx context.Context, companyID string, start, end time.Time, employeeIDs []string) (map[string]decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, COALESCE(SUM(number_of_days), 0)
		FROM leave_requests
		WHERE company_id = $1 AND status = 'APPROVED'
			AND start_date <= $3 AND end_date >= $2
	`
	args := []interface{}{companyID, start, end}

	if len(employeeIDs) > 0 {
		query += ` AND employee_id = ANY($4)`
		args = append(args, employeeIDs)
	}
	query += ` GROUP BY employee_id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to sum approved leave days: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var employeeID string
		var days decimal.Decimal
		if err := rows.Scan(&employeeID, &days); err != nil {
			return nil, fmt.Errorf("failed to scan leave day total: %w", err)
		}
		totals[employeeID] = days
	}
	return totals, rows.Err()
}

func (r *leaveRequestRepositoryImpl) CountPendingInRange(ctx context.Context, companyID string, start, end time.Time) (map[string]int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, COUNT(*)
		FROM leave_requests
		WHERE company_id = $1 AND status IN ('PENDING', 'SUPERVISOR_APPROVED')
			AND start_date <= $3 AND end_date >= $2
		GROUP BY employee_id
	`

	rows, err := q.Query(ctx, query, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending leave requests: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var employeeID string
		var count int
		if err := rows.Scan(&employeeID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan pending leave count: %w", err)
		}
		counts[employeeID] = count
	}
	return counts, rows.Err()
}
