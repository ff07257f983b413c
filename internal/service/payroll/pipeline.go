package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/payrollhq/payroll-backend-go/internal/domain/attendance"
	"github.com/payrollhq/payroll-backend-go/internal/domain/audit"
	"github.com/payrollhq/payroll-backend-go/internal/domain/employee"
	"github.com/payrollhq/payroll-backend-go/internal/domain/leave"
	"github.com/payrollhq/payroll-backend-go/internal/domain/overtime"
	"github.com/payrollhq/payroll-backend-go/internal/domain/payroll"
	"github.com/payrollhq/payroll-backend-go/internal/domain/period"
	"github.com/payrollhq/payroll-backend-go/internal/pkg/database"
	"github.com/payrollhq/payroll-backend-go/internal/pkg/money"
	"github.com/payrollhq/payroll-backend-go/internal/repository/postgresql"
)

// PipelineService walks a payroll run through the six steps. Every
// advancement locks the run row first, gates through EnsureAdvance, and
// commits the step trace with the state change.
type PipelineService struct {
	db *database.DB
	payroll.RunRepository
	payroll.StepRepository
	payroll.PayslipRepository
	payroll.SettingsRepository
	payroll.ComponentRepository
	payroll.StatutoryRepository
	period.PayPeriodRepository
	employee.EmployeeRepository
	attendance.SummaryRepository
	leaveRequests    leave.LeaveRequestRepository
	overtimeRequests overtime.OvertimeRequestRepository
	recorder         audit.Recorder
}

func NewPipelineService(
	db *database.DB,
	runRepository payroll.RunRepository,
	stepRepository payroll.StepRepository,
	payslipRepository payroll.PayslipRepository,
	settingsRepository payroll.SettingsRepository,
	componentRepository payroll.ComponentRepository,
	statutoryRepository payroll.StatutoryRepository,
	payPeriodRepository period.PayPeriodRepository,
	employeeRepository employee.EmployeeRepository,
	summaryRepository attendance.SummaryRepository,
	leaveRequestRepository leave.LeaveRequestRepository,
	overtimeRequestRepository overtime.OvertimeRequestRepository,
	recorder audit.Recorder,
) *PipelineService {
	return &PipelineService{
		db:                  db,
		RunRepository:       runRepository,
		StepRepository:      stepRepository,
		PayslipRepository:   payslipRepository,
		SettingsRepository:  settingsRepository,
		ComponentRepository: componentRepository,
		StatutoryRepository: statutoryRepository,
		PayPeriodRepository: payPeriodRepository,
		EmployeeRepository:  employeeRepository,
		SummaryRepository:   summaryRepository,
		leaveRequests:       leaveRequestRepository,
		overtimeRequests:    overtimeRequestRepository,
		recorder:            recorder,
	}
}

// CreateRun opens a run against a pay period. Setup is completed
// immediately: fixing the scope and the period is the whole of step 1.
func (s *PipelineService) CreateRun(ctx context.Context, companyID, actorID string, req payroll.CreateRunRequest) (payroll.RunResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunResponse{}, err
	}

	payPeriod, err := s.PayPeriodRepository.GetByID(ctx, req.PayPeriodID, companyID)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	if !payPeriod.AcceptsNewRun() {
		return payroll.RunResponse{}, period.ErrPeriodLocked
	}

	runType := payroll.RunType(req.RunType)
	if runType == payroll.RunTypeRegular {
		exists, err := s.RunRepository.ExistsRegularForPeriod(ctx, payPeriod.ID, companyID)
		if err != nil {
			return payroll.RunResponse{}, fmt.Errorf("failed to check existing regular run: %w", err)
		}
		if exists {
			return payroll.RunResponse{}, payroll.ErrRegularRunExists
		}
	}

	run := payroll.PayrollRun{
		CompanyID:         companyID,
		PayPeriodID:       payPeriod.ID,
		RunType:           runType,
		Status:            payroll.RunStatusProcessing,
		CurrentStep:       payroll.StepSetup,
		ScopeDepartmentID: req.ScopeDepartmentID,
		ScopeBranchID:     req.ScopeBranchID,
		CreatedByID:       actorID,
	}

	var created payroll.PayrollRun
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		created, err = s.RunRepository.Create(txCtx, run)
		if err != nil {
			return fmt.Errorf("failed to create payroll run: %w", err)
		}

		now := time.Now()
		steps := make([]payroll.ProcessStep, 0, payroll.StepClose)
		for i := payroll.StepSetup; i <= payroll.StepClose; i++ {
			step := payroll.ProcessStep{
				RunID:      created.ID,
				StepNumber: i,
				Name:       payroll.StepName(i),
			}
			if i == payroll.StepSetup {
				step.IsCompleted = true
				step.CompletedAt = &now
			}
			steps = append(steps, step)
		}
		if err := s.StepRepository.CreateAll(txCtx, steps); err != nil {
			return fmt.Errorf("failed to create process steps: %w", err)
		}

		if runType == payroll.RunTypeRegular && payPeriod.Status == period.StatusOpen {
			if err := s.PayPeriodRepository.UpdateStatus(txCtx, payPeriod.ID, companyID, period.StatusProcessing); err != nil {
				return fmt.Errorf("failed to update pay period status: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return payroll.RunResponse{}, err
	}

	s.recordStep(ctx, companyID, actorID, created, payroll.StepSetup)
	return s.GetRun(ctx, companyID, created.ID)
}

func (s *PipelineService) GetRun(ctx context.Context, companyID, runID string) (payroll.RunResponse, error) {
	run, err := s.RunRepository.GetByID(ctx, runID, companyID)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	steps, err := s.StepRepository.GetByRun(ctx, run.ID)
	if err != nil {
		return payroll.RunResponse{}, fmt.Errorf("failed to get process steps: %w", err)
	}
	return toRunResponse(run, steps), nil
}

func (s *PipelineService) ListRuns(ctx context.Context, companyID, payPeriodID string) ([]payroll.RunResponse, error) {
	runs, err := s.RunRepository.GetByPeriod(ctx, payPeriodID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll runs: %w", err)
	}

	responses := make([]payroll.RunResponse, 0, len(runs))
	for _, run := range runs {
		responses = append(responses, toRunResponse(run, nil))
	}
	return responses, nil
}

// RunValidation executes step 2. The trace is written whether or not
// validation passes; the step only completes when no errors remain.
func (s *PipelineService) RunValidation(ctx context.Context, companyID, actorID, runID string) (payroll.RunResponse, error) {
	var run payroll.PayrollRun
	var completed bool

	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		var err error
		run, err = s.RunRepository.GetForUpdate(txCtx, runID, companyID)
		if err != nil {
			return err
		}
		steps, err := s.StepRepository.GetByRun(txCtx, run.ID)
		if err != nil {
			return fmt.Errorf("failed to get process steps: %w", err)
		}
		if err := payroll.EnsureAdvance(run, steps, payroll.StepValidate); err != nil {
			return err
		}

		trace, err := s.buildValidationTrace(txCtx, run)
		if err != nil {
			return err
		}

		step, err := findStep(steps, payroll.StepValidate)
		if err != nil {
			return err
		}
		step.Notes = &payroll.StepNotes{Validation: &trace}
		completed = trace.ErrorCount == 0
		step.IsCompleted = completed
		if completed {
			now := time.Now()
			step.CompletedAt = &now
		} else {
			step.CompletedAt = nil
		}
		if err := s.StepRepository.Update(txCtx, step); err != nil {
			return fmt.Errorf("failed to update process step: %w", err)
		}

		if completed && run.CurrentStep < payroll.StepValidate {
			run.CurrentStep = payroll.StepValidate
			if err := s.RunRepository.Update(txCtx, run); err != nil {
				return fmt.Errorf("failed to update payroll run: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return payroll.RunResponse{}, err
	}

	if completed {
		s.recordStep(ctx, companyID, actorID, run, payroll.StepValidate)
	}
	return s.GetRun(ctx, companyID, runID)
}

func (s *PipelineService) buildValidationTrace(ctx context.Context, run payroll.PayrollRun) (payroll.ValidationTrace, error) {
	payPeriod, err := s.PayPeriodRepository.GetByID(ctx, run.PayPeriodID, run.CompanyID)
	if err != nil {
		return payroll.ValidationTrace{}, err
	}

	employees, err := s.EmployeeRepository.GetActiveInScope(ctx, run.CompanyID, run.ScopeDepartmentID, run.ScopeBranchID)
	if err != nil {
		return payroll.ValidationTrace{}, fmt.Errorf("failed to resolve run scope: %w", err)
	}

	ids := employeeIDs(employees)
	summaries, err := s.SummaryRepository.GetSummaries(ctx, run.CompanyID, payPeriod.CutoffStart, payPeriod.CutoffEnd, ids)
	if err != nil {
		return payroll.ValidationTrace{}, fmt.Errorf("failed to get attendance summaries: %w", err)
	}
	byEmployee := make(map[string]attendance.Summary, len(summaries))
	for _, sum := range summaries {
		byEmployee[sum.EmployeeID] = sum
	}

	leaveDays, err := s.leaveRequests.SumApprovedDays(ctx, run.CompanyID, payPeriod.CutoffStart, payPeriod.CutoffEnd, ids)
	if err != nil {
		return payroll.ValidationTrace{}, fmt.Errorf("failed to sum approved leave days: %w", err)
	}
	overtimeHours, err := s.overtimeRequests.SumApprovedHours(ctx, run.CompanyID, payPeriod.CutoffStart, payPeriod.CutoffEnd, ids)
	if err != nil {
		return payroll.ValidationTrace{}, fmt.Errorf("failed to sum approved overtime hours: %w", err)
	}

	pendingLeave, err := s.leaveRequests.CountPendingInRange(ctx, run.CompanyID, payPeriod.CutoffStart, payPeriod.CutoffEnd)
	if err != nil {
		return payroll.ValidationTrace{}, fmt.Errorf("failed to count pending leave requests: %w", err)
	}
	pendingOvertime, err := s.overtimeRequests.CountPendingInRange(ctx, run.CompanyID, payPeriod.CutoffStart, payPeriod.CutoffEnd)
	if err != nil {
		return payroll.ValidationTrace{}, fmt.Errorf("failed to count pending overtime requests: %w", err)
	}

	trace := payroll.ValidationTrace{GeneratedAt: time.Now()}
	for _, emp := range employees {
		if emp.BaseSalary == nil {
			trace.Issues = append(trace.Issues, payroll.ValidationIssue{
				EmployeeID: emp.ID,
				Code:       "NO_BASE_SALARY",
				Message:    fmt.Sprintf("%s has no base salary configured", emp.FullName),
				Severity:   payroll.SeverityError,
			})
		}

		sum, hasAttendance := byEmployee[emp.ID]
		if !hasAttendance {
			trace.Issues = append(trace.Issues, payroll.ValidationIssue{
				EmployeeID: emp.ID,
				Code:       "NO_ATTENDANCE_DATA",
				Message:    fmt.Sprintf("%s has no attendance records in the cutoff window", emp.FullName),
				Severity:   payroll.SeverityWarning,
			})
		}

		if pendingLeave[emp.ID] > 0 {
			trace.Issues = append(trace.Issues, payroll.ValidationIssue{
				EmployeeID: emp.ID,
				Code:       "PENDING_LEAVE_REQUESTS",
				Message:    fmt.Sprintf("%s has %d undecided leave requests in the cutoff window", emp.FullName, pendingLeave[emp.ID]),
				Severity:   payroll.SeverityWarning,
			})
		}
		if pendingOvertime[emp.ID] > 0 {
			trace.Issues = append(trace.Issues, payroll.ValidationIssue{
				EmployeeID: emp.ID,
				Code:       "PENDING_OVERTIME_REQUESTS",
				Message:    fmt.Sprintf("%s has %d undecided overtime requests in the cutoff window", emp.FullName, pendingOvertime[emp.ID]),
				Severity:   payroll.SeverityWarning,
			})
		}

		hours := overtimeHours[emp.ID]
		trace.Summaries = append(trace.Summaries, payroll.EmployeeAttendanceSummary{
			EmployeeID:        emp.ID,
			EmployeeName:      emp.FullName,
			PresentDays:       sum.PresentDays,
			AbsentDays:        sum.AbsentDays,
			TardinessMinutes:  sum.TardinessMinutes,
			UndertimeMinutes:  sum.UndertimeMinutes,
			OvertimeHours:     hours.TotalHours,
			CtoHours:          hours.ConvertedHours,
			ApprovedLeaveDays: leaveDays[emp.ID],
		})
	}

	for _, issue := range trace.Issues {
		switch issue.Severity {
		case payroll.SeverityError:
			trace.ErrorCount++
		case payroll.SeverityWarning:
			trace.WarningCount++
		}
	}
	return trace, nil
}

// RunCalculation executes step 3. The step is destructive: every
// payslip for the run is deleted and rebuilt from current inputs, so a
// re-run reflects requests decided since the last pass.
func (s *PipelineService) RunCalculation(ctx context.Context, companyID, actorID, runID string) (payroll.RunResponse, error) {
	var run payroll.PayrollRun

	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		var err error
		run, err = s.RunRepository.GetForUpdate(txCtx, runID, companyID)
		if err != nil {
			return err
		}
		steps, err := s.StepRepository.GetByRun(txCtx, run.ID)
		if err != nil {
			return fmt.Errorf("failed to get process steps: %w", err)
		}
		if validate, err := findStep(steps, payroll.StepValidate); err == nil {
			if n := validate.Notes; n != nil && n.Validation != nil && n.Validation.ErrorCount > 0 {
				return payroll.ErrValidationErrorsPresent
			}
		}
		if err := payroll.EnsureAdvance(run, steps, payroll.StepCalculate); err != nil {
			return err
		}

		if err := s.PayslipRepository.DeleteByRun(txCtx, run.ID); err != nil {
			return fmt.Errorf("failed to clear payslips: %w", err)
		}

		payPeriod, err := s.PayPeriodRepository.GetByID(txCtx, run.PayPeriodID, companyID)
		if err != nil {
			return err
		}
		settings, err := s.SettingsRepository.GetByCompanyID(txCtx, companyID)
		if err != nil {
			return fmt.Errorf("failed to get payroll settings: %w", err)
		}
		employees, err := s.EmployeeRepository.GetActiveInScope(txCtx, companyID, run.ScopeDepartmentID, run.ScopeBranchID)
		if err != nil {
			return fmt.Errorf("failed to resolve run scope: %w", err)
		}

		ids := employeeIDs(employees)
		summaries, err := s.SummaryRepository.GetSummaries(txCtx, companyID, payPeriod.CutoffStart, payPeriod.CutoffEnd, ids)
		if err != nil {
			return fmt.Errorf("failed to get attendance summaries: %w", err)
		}
		byEmployee := make(map[string]attendance.Summary, len(summaries))
		for _, sum := range summaries {
			byEmployee[sum.EmployeeID] = sum
		}
		overtimeHours, err := s.overtimeRequests.SumApprovedHours(txCtx, companyID, payPeriod.CutoffStart, payPeriod.CutoffEnd, ids)
		if err != nil {
			return fmt.Errorf("failed to sum approved overtime hours: %w", err)
		}
		components, err := s.ComponentRepository.GetEmployeeComponents(txCtx, companyID, ids)
		if err != nil {
			return fmt.Errorf("failed to get employee components: %w", err)
		}
		statutory, err := s.StatutoryRepository.GetByEmployees(txCtx, companyID, ids)
		if err != nil {
			return fmt.Errorf("failed to get statutory amounts: %w", err)
		}

		totalGross := decimal.Zero
		totalDeductions := decimal.Zero
		payslipCount := 0

		for _, emp := range employees {
			slip, err := BuildPayslip(settings, payPeriod.Half, payPeriod.CutoffEnd, EmployeeCalcInput{
				Employee:          emp,
				Attendance:        byEmployee[emp.ID],
				PaidOvertimeHours: overtimeHours[emp.ID].PaidHours(),
				Components:        components[emp.ID],
				Statutory:         statutory[emp.ID],
			})
			if err != nil {
				return fmt.Errorf("failed to calculate payslip for %s: %w", emp.ID, err)
			}
			slip.RunID = run.ID

			created, err := s.PayslipRepository.Create(txCtx, slip)
			if err != nil {
				return fmt.Errorf("failed to create payslip: %w", err)
			}
			for _, line := range slip.Lines {
				line.PayslipID = created.ID
				if _, err := s.PayslipRepository.AddLine(txCtx, line); err != nil {
					return fmt.Errorf("failed to add payslip line: %w", err)
				}
			}

			totalGross = money.Round2(totalGross.Add(slip.GrossPay))
			totalDeductions = money.Round2(totalDeductions.Add(slip.TotalDeductions))
			payslipCount++
		}

		trace := payroll.CalculationTrace{
			GeneratedAt:     time.Now(),
			EngineVersion:   engineVersion,
			EmployeeCount:   len(employees),
			PayslipCount:    payslipCount,
			TotalGrossPay:   totalGross,
			TotalDeductions: totalDeductions,
			TotalNetPay:     money.Round2(totalGross.Sub(totalDeductions)),
		}

		step, err := findStep(steps, payroll.StepCalculate)
		if err != nil {
			return err
		}
		now := time.Now()
		step.Notes = &payroll.StepNotes{Calculation: &trace}
		step.IsCompleted = true
		step.CompletedAt = &now
		if err := s.StepRepository.Update(txCtx, step); err != nil {
			return fmt.Errorf("failed to update process step: %w", err)
		}

		run.TotalGrossPay = trace.TotalGrossPay
		run.TotalDeductions = trace.TotalDeductions
		run.TotalNetPay = trace.TotalNetPay
		if run.CurrentStep < payroll.StepCalculate {
			run.CurrentStep = payroll.StepCalculate
		}
		if err := s.RunRepository.Update(txCtx, run); err != nil {
			return fmt.Errorf("failed to update payroll run: %w", err)
		}
		return nil
	})
	if err != nil {
		return payroll.RunResponse{}, err
	}

	s.recordStep(ctx, companyID, actorID, run, payroll.StepCalculate)
	return s.GetRun(ctx, companyID, runID)
}

// AddAdjustment appends a manual line during Review and recomputes the
// affected payslip only.
func (s *PipelineService) AddAdjustment(ctx context.Context, companyID, actorID, runID, payslipID string, req payroll.AddAdjustmentRequest) (payroll.PayslipResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayslipResponse{}, err
	}

	var slip payroll.Payslip
	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		run, err := s.RunRepository.GetForUpdate(txCtx, runID, companyID)
		if err != nil {
			return err
		}
		if run.IsLocked {
			return payroll.ErrRunLocked
		}

		slip, err = s.PayslipRepository.GetByID(txCtx, payslipID, companyID)
		if err != nil {
			return err
		}
		if slip.RunID != run.ID {
			return payroll.ErrPayslipNotFound
		}
		if slip.IsFrozen() {
			return payroll.ErrPayslipFrozen
		}

		line := payroll.PayslipLine{
			PayslipID: slip.ID,
			Kind:      payroll.PayslipLineKind(req.Kind),
			Source:    payroll.SourceManual,
			Name:      req.Name,
			Amount:    money.Round2(req.Amount),
		}
		created, err := s.PayslipRepository.AddLine(txCtx, line)
		if err != nil {
			return fmt.Errorf("failed to add payslip line: %w", err)
		}

		slip.Lines = append(slip.Lines, created)
		slip.Recompute()
		if err := s.PayslipRepository.UpdateTotals(txCtx, slip); err != nil {
			return fmt.Errorf("failed to update payslip totals: %w", err)
		}

		return s.refreshRunTotals(txCtx, run)
	})
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	return toPayslipResponse(slip), nil
}

// CompleteReview closes step 4. Review itself is a human activity; the
// step records that it happened and any remarks.
func (s *PipelineService) CompleteReview(ctx context.Context, companyID, actorID, runID string, req payroll.CompleteReviewRequest) (payroll.RunResponse, error) {
	var run payroll.PayrollRun

	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		var err error
		run, err = s.RunRepository.GetForUpdate(txCtx, runID, companyID)
		if err != nil {
			return err
		}
		steps, err := s.StepRepository.GetByRun(txCtx, run.ID)
		if err != nil {
			return fmt.Errorf("failed to get process steps: %w", err)
		}
		if err := payroll.EnsureAdvance(run, steps, payroll.StepReview); err != nil {
			return err
		}

		step, err := findStep(steps, payroll.StepReview)
		if err != nil {
			return err
		}
		now := time.Now()
		step.IsCompleted = true
		step.CompletedAt = &now
		if req.Remarks != nil {
			step.Notes = &payroll.StepNotes{Remarks: req.Remarks}
		}
		if err := s.StepRepository.Update(txCtx, step); err != nil {
			return fmt.Errorf("failed to update process step: %w", err)
		}

		if run.CurrentStep < payroll.StepReview {
			run.CurrentStep = payroll.StepReview
			if err := s.RunRepository.Update(txCtx, run); err != nil {
				return fmt.Errorf("failed to update payroll run: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return payroll.RunResponse{}, err
	}

	s.recordStep(ctx, companyID, actorID, run, payroll.StepReview)
	return s.GetRun(ctx, companyID, runID)
}

// GeneratePayslips freezes every payslip in the run: numbers are
// stamped and further adjustment is rejected. After this step,
// Calculate can never re-run for the run.
func (s *PipelineService) GeneratePayslips(ctx context.Context, companyID, actorID, runID string) (payroll.RunResponse, error) {
	var run payroll.PayrollRun

	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		var err error
		run, err = s.RunRepository.GetForUpdate(txCtx, runID, companyID)
		if err != nil {
			return err
		}
		steps, err := s.StepRepository.GetByRun(txCtx, run.ID)
		if err != nil {
			return fmt.Errorf("failed to get process steps: %w", err)
		}
		if err := payroll.EnsureAdvance(run, steps, payroll.StepGenerate); err != nil {
			return err
		}

		payslips, err := s.PayslipRepository.GetByRun(txCtx, run.ID)
		if err != nil {
			return fmt.Errorf("failed to get payslips: %w", err)
		}
		if len(payslips) == 0 {
			return payroll.ErrNoPayslips
		}

		payPeriod, err := s.PayPeriodRepository.GetByID(txCtx, run.PayPeriodID, companyID)
		if err != nil {
			return err
		}
		prefix := fmt.Sprintf("PS-%d%02d", payPeriod.Year, payPeriod.PeriodNumber)
		if err := s.PayslipRepository.Freeze(txCtx, run.ID, prefix); err != nil {
			return fmt.Errorf("failed to freeze payslips: %w", err)
		}

		step, err := findStep(steps, payroll.StepGenerate)
		if err != nil {
			return err
		}
		now := time.Now()
		step.IsCompleted = true
		step.CompletedAt = &now
		if err := s.StepRepository.Update(txCtx, step); err != nil {
			return fmt.Errorf("failed to update process step: %w", err)
		}

		if run.CurrentStep < payroll.StepGenerate {
			run.CurrentStep = payroll.StepGenerate
			if err := s.RunRepository.Update(txCtx, run); err != nil {
				return fmt.Errorf("failed to update payroll run: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return payroll.RunResponse{}, err
	}

	s.recordStep(ctx, companyID, actorID, run, payroll.StepGenerate)
	return s.GetRun(ctx, companyID, runID)
}

// CloseRun completes the pipeline. The run locks regardless of type;
// the pay period locks only behind a REGULAR run, because trial and
// special runs are not the period's settlement of record.
func (s *PipelineService) CloseRun(ctx context.Context, companyID, actorID, runID string) (payroll.RunResponse, error) {
	var run payroll.PayrollRun
	var periodLocked bool

	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		var err error
		run, err = s.RunRepository.GetForUpdate(txCtx, runID, companyID)
		if err != nil {
			return err
		}
		steps, err := s.StepRepository.GetByRun(txCtx, run.ID)
		if err != nil {
			return fmt.Errorf("failed to get process steps: %w", err)
		}
		if err := payroll.EnsureAdvance(run, steps, payroll.StepClose); err != nil {
			return err
		}

		step, err := findStep(steps, payroll.StepClose)
		if err != nil {
			return err
		}
		now := time.Now()
		step.IsCompleted = true
		step.CompletedAt = &now
		if err := s.StepRepository.Update(txCtx, step); err != nil {
			return fmt.Errorf("failed to update process step: %w", err)
		}

		run.Status = payroll.RunStatusPaid
		run.IsLocked = true
		run.CurrentStep = payroll.StepClose
		if err := s.RunRepository.Update(txCtx, run); err != nil {
			return fmt.Errorf("failed to update payroll run: %w", err)
		}

		if run.LocksPeriodOnClose() {
			if err := s.PayPeriodRepository.UpdateStatus(txCtx, run.PayPeriodID, companyID, period.StatusLocked); err != nil {
				return fmt.Errorf("failed to lock pay period: %w", err)
			}
			periodLocked = true
		}
		return nil
	})
	if err != nil {
		return payroll.RunResponse{}, err
	}

	s.recorder.Record(ctx, audit.Fact{
		Kind:          audit.FactRunClosed,
		CompanyID:     companyID,
		ActorID:       actorID,
		ReferenceType: "payroll_run",
		ReferenceID:   run.ID,
		Details: map[string]string{
			"run_type":      string(run.RunType),
			"total_net_pay": run.TotalNetPay.String(),
		},
		OccurredAt: time.Now(),
	})
	if periodLocked {
		s.recorder.Record(ctx, audit.Fact{
			Kind:          audit.FactPeriodLocked,
			CompanyID:     companyID,
			ActorID:       actorID,
			ReferenceType: "pay_period",
			ReferenceID:   run.PayPeriodID,
			OccurredAt:    time.Now(),
		})
	}

	return s.GetRun(ctx, companyID, runID)
}

func (s *PipelineService) ListPayslips(ctx context.Context, companyID, runID string) ([]payroll.PayslipResponse, error) {
	if _, err := s.RunRepository.GetByID(ctx, runID, companyID); err != nil {
		return nil, err
	}
	payslips, err := s.PayslipRepository.GetByRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}

	responses := make([]payroll.PayslipResponse, 0, len(payslips))
	for _, slip := range payslips {
		responses = append(responses, toPayslipResponse(slip))
	}
	return responses, nil
}

func (s *PipelineService) GetPayslip(ctx context.Context, companyID, payslipID string) (payroll.PayslipResponse, error) {
	slip, err := s.PayslipRepository.GetByID(ctx, payslipID, companyID)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}
	return toPayslipResponse(slip), nil
}

func (s *PipelineService) refreshRunTotals(ctx context.Context, run payroll.PayrollRun) error {
	payslips, err := s.PayslipRepository.GetByRun(ctx, run.ID)
	if err != nil {
		return fmt.Errorf("failed to get payslips: %w", err)
	}

	gross := decimal.Zero
	deductions := decimal.Zero
	for _, slip := range payslips {
		gross = gross.Add(slip.GrossPay)
		deductions = deductions.Add(slip.TotalDeductions)
	}
	run.TotalGrossPay = money.Round2(gross)
	run.TotalDeductions = money.Round2(deductions)
	run.TotalNetPay = money.Round2(gross.Sub(deductions))

	if err := s.RunRepository.Update(ctx, run); err != nil {
		return fmt.Errorf("failed to update payroll run: %w", err)
	}
	return nil
}

func (s *PipelineService) recordStep(ctx context.Context, companyID, actorID string, run payroll.PayrollRun, step int) {
	s.recorder.Record(ctx, audit.Fact{
		Kind:          audit.FactRunStepCompleted,
		CompanyID:     companyID,
		ActorID:       actorID,
		ReferenceType: "payroll_run",
		ReferenceID:   run.ID,
		Details: map[string]string{
			"step":      payroll.StepName(step),
			"run_type":  string(run.RunType),
			"period_id": run.PayPeriodID,
		},
		OccurredAt: time.Now(),
	})
}

func findStep(steps []payroll.ProcessStep, number int) (payroll.ProcessStep, error) {
	for _, s := range steps {
		if s.StepNumber == number {
			return s, nil
		}
	}
	return payroll.ProcessStep{}, payroll.ErrStepNotFound
}

func employeeIDs(employees []employee.Employee) []string {
	ids := make([]string, 0, len(employees))
	for _, e := range employees {
		ids = append(ids, e.ID)
	}
	return ids
}

func toRunResponse(run payroll.PayrollRun, steps []payroll.ProcessStep) payroll.RunResponse {
	resp := payroll.RunResponse{
		ID:                run.ID,
		PayPeriodID:       run.PayPeriodID,
		RunType:           string(run.RunType),
		Status:            string(run.Status),
		IsLocked:          run.IsLocked,
		CurrentStep:       run.CurrentStep,
		ScopeDepartmentID: run.ScopeDepartmentID,
		ScopeBranchID:     run.ScopeBranchID,
		TotalGrossPay:     run.TotalGrossPay,
		TotalDeductions:   run.TotalDeductions,
		TotalNetPay:       run.TotalNetPay,
	}
	for _, step := range steps {
		stepResp := payroll.StepResponse{
			StepNumber:  step.StepNumber,
			Name:        step.Name,
			IsCompleted: step.IsCompleted,
			Notes:       step.Notes,
		}
		if step.CompletedAt != nil {
			formatted := step.CompletedAt.Format(time.RFC3339)
			stepResp.CompletedAt = &formatted
		}
		resp.Steps = append(resp.Steps, stepResp)
	}
	return resp
}

func toPayslipResponse(slip payroll.Payslip) payroll.PayslipResponse {
	resp := payroll.PayslipResponse{
		ID:              slip.ID,
		RunID:           slip.RunID,
		EmployeeID:      slip.EmployeeID,
		EmployeeName:    slip.EmployeeName,
		EmployeeCode:    slip.EmployeeCode,
		BasicPay:        slip.BasicPay,
		GrossPay:        slip.GrossPay,
		TotalDeductions: slip.TotalDeductions,
		NetPay:          slip.NetPay,
		PayslipNumber:   slip.PayslipNumber,
		Lines:           make([]payroll.PayslipLineResponse, 0, len(slip.Lines)),
	}
	if slip.GeneratedAt != nil {
		formatted := slip.GeneratedAt.Format(time.RFC3339)
		resp.GeneratedAt = &formatted
	}
	for _, line := range slip.Lines {
		resp.Lines = append(resp.Lines, payroll.PayslipLineResponse{
			Kind:   string(line.Kind),
			Source: string(line.Source),
			Name:   line.Name,
			Amount: line.Amount,
		})
	}
	return resp
}
