package payroll

import "context"

type RunRepository interface {
	Create(ctx context.Context, run PayrollRun) (PayrollRun, error)

	// GetForUpdate locks the run row inside the caller's transaction;
	// every step advancement goes through it.
	GetForUpdate(ctx context.Context, id string, companyID string) (PayrollRun, error)

	GetByID(ctx context.Context, id string, companyID string) (PayrollRun, error)
	GetByPeriod(ctx context.Context, payPeriodID string, companyID string) ([]PayrollRun, error)
	ExistsRegularForPeriod(ctx context.Context, payPeriodID string, companyID string) (bool, error)
	Update(ctx context.Context, run PayrollRun) error
}

type StepRepository interface {
	CreateAll(ctx context.Context, steps []ProcessStep) error
	GetByRun(ctx context.Context, runID string) ([]ProcessStep, error)

	// Update persists completion state and the serialized notes trace.
	Update(ctx context.Context, step ProcessStep) error
}

type PayslipRepository interface {
	Create(ctx context.Context, slip Payslip) (Payslip, error)
	GetByID(ctx context.Context, id string, companyID string) (Payslip, error)
	GetByRun(ctx context.Context, runID string) ([]Payslip, error)

	// DeleteByRun clears all computed payslips for a run; Calculate is
	// destructive and re-runnable, it replaces rather than appends.
	DeleteByRun(ctx context.Context, runID string) error

	AddLine(ctx context.Context, line PayslipLine) (PayslipLine, error)
	UpdateTotals(ctx context.Context, slip Payslip) error

	// Freeze stamps payslip numbers and generation timestamps for every
	// payslip in the run.
	Freeze(ctx context.Context, runID string, numberPrefix string) error
}

type SettingsRepository interface {
	GetByCompanyID(ctx context.Context, companyID string) (Settings, error)
	Upsert(ctx context.Context, s Settings) (Settings, error)
}

type ComponentRepository interface {
	GetActiveByCompanyID(ctx context.Context, companyID string) ([]PayrollComponent, error)
	GetEmployeeComponents(ctx context.Context, companyID string, employeeIDs []string) (map[string][]EmployeePayrollComponent, error)
}

type StatutoryRepository interface {
	// GetByEmployees returns the pre-computed per-period amounts keyed
	// by employee, then kind.
	GetByEmployees(ctx context.Context, companyID string, employeeIDs []string) (map[string]map[StatutoryKind]EmployeeStatutoryAmount, error)
}

// PipelineService drives a run through the six steps. Out-of-order
// advancement fails with ErrStepOutOfOrder; a completed Generate step
// makes Calculate permanently un-re-runnable for the run.
type PipelineService interface {
	CreateRun(ctx context.Context, companyID, actorID string, req CreateRunRequest) (RunResponse, error)
	GetRun(ctx context.Context, companyID, runID string) (RunResponse, error)
	ListRuns(ctx context.Context, companyID, payPeriodID string) ([]RunResponse, error)

	RunValidation(ctx context.Context, companyID, actorID, runID string) (RunResponse, error)
	RunCalculation(ctx context.Context, companyID, actorID, runID string) (RunResponse, error)
	AddAdjustment(ctx context.Context, companyID, actorID, runID, payslipID string, req AddAdjustmentRequest) (PayslipResponse, error)
	CompleteReview(ctx context.Context, companyID, actorID, runID string, req CompleteReviewRequest) (RunResponse, error)
	GeneratePayslips(ctx context.Context, companyID, actorID, runID string) (RunResponse, error)
	CloseRun(ctx context.Context, companyID, actorID, runID string) (RunResponse, error)

	ListPayslips(ctx context.Context, companyID, runID string) ([]PayslipResponse, error)
	GetPayslip(ctx context.Context, companyID, payslipID string) (PayslipResponse, error)
}

// SettingsService manages company payroll configuration.
type SettingsService interface {
	Get(ctx context.Context, companyID string) (SettingsResponse, error)
	Update(ctx context.Context, companyID string, req UpdateSettingsRequest) (SettingsResponse, error)
	ListComponents(ctx context.Context, companyID string) ([]ComponentResponse, error)
}
