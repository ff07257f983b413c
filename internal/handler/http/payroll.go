package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/payrollhq/payroll-backend-go/internal/domain/payroll"
	"github.com/payrollhq/payroll-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	CreateRun(w http.ResponseWriter, r *http.Request)
	GetRun(w http.ResponseWriter, r *http.Request)
	ListRuns(w http.ResponseWriter, r *http.Request)

	RunValidation(w http.ResponseWriter, r *http.Request)
	RunCalculation(w http.ResponseWriter, r *http.Request)
	AddAdjustment(w http.ResponseWriter, r *http.Request)
	CompleteReview(w http.ResponseWriter, r *http.Request)
	GeneratePayslips(w http.ResponseWriter, r *http.Request)
	CloseRun(w http.ResponseWriter, r *http.Request)

	ListPayslips(w http.ResponseWriter, r *http.Request)
	GetPayslip(w http.ResponseWriter, r *http.Request)

	GetSettings(w http.ResponseWriter, r *http.Request)
	UpdateSettings(w http.ResponseWriter, r *http.Request)
	ListComponents(w http.ResponseWriter, r *http.Request)
}

type PayrollHandlerImpl struct {
	pipelineService payroll.PipelineService
	settingsService payroll.SettingsService
}

func NewPayrollHandler(pipelineService payroll.PipelineService, settingsService payroll.SettingsService) PayrollHandler {
	return &PayrollHandlerImpl{
		pipelineService: pipelineService,
		settingsService: settingsService,
	}
}

// CreateRun implements PayrollHandler.
func (h *PayrollHandlerImpl) CreateRun(w http.ResponseWriter, r *http.Request) {
	companyID, employeeID, err := identity(r)
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return
	}

	var req payroll.CreateRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateRun decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	run, err := h.pipelineService.CreateRun(r.Context(), companyID, employeeID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll run created successfully", run)
}

// GetRun implements PayrollHandler.
func (h *PayrollHandlerImpl) GetRun(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := identity(r)
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return
	}

	runID := chi.URLParam(r, "id")
	if runID == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	run, err := h.pipelineService.GetRun(r.Context(), companyID, runID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, run)
}

// ListRuns implements PayrollHandler.
func (h *PayrollHandlerImpl) ListRuns(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := identity(r)
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return
	}

	payPeriodID := r.URL.Query().Get("pay_period_id")
	if payPeriodID == "" {
		response.BadRequest(w, "pay_period_id is required", nil)
		return
	}

	runs, err := h.pipelineService.ListRuns(r.Context(), companyID, payPeriodID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, runs)
}

// RunValidation implements PayrollHandler.
func (h *PayrollHandlerImpl) RunValidation(w http.ResponseWriter, r *http.Request) {
	companyID, employeeID, err := identity(r)
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return
	}

	runID := chi.URLParam(r, "id")
	if runID == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	run, err := h.pipelineService.RunValidation(r.Context(), companyID, employeeID, runID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Validation completed", run)
}

// RunCalculation implements PayrollHandler.
func (h *PayrollHandlerImpl) RunCalculation(w http.ResponseWriter, r *http.Request) {
	companyID, employeeID, err := identity(r)
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return
	}

	runID := chi.URLParam(r, "id")
	if runID == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	run, err := h.pipelineService.RunCalculation(r.Context(), companyID, employeeID, runID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Calculation completed", run)
}

// AddAdjustment implements PayrollHandler.
func (h *PayrollHandlerImpl) AddAdjustment(w http.ResponseWriter, r *http.Request) {
	companyID, employeeID, err := identity(r)
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return
	}

	runID := chi.URLParam(r, "id")
	payslipID := chi.URLParam(r, "payslipID")
	if runID == "" || payslipID == "" {
		response.BadRequest(w, "Run ID and payslip ID are required", nil)
		return
	}

	var req payroll.AddAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AddAdjustment decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	slip, err := h.pipelineService.AddAdjustment(r.Context(), companyID, employeeID, runID, payslipID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Adjustment added successfully", slip)
}

// CompleteReview implements PayrollHandler.
func (h *PayrollHandlerImpl) CompleteReview(w http.ResponseWriter, r *http.Request) {
	companyID, employeeID, err := identity(r)
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return
	}

	runID := chi.URLParam(r, "id")
	if runID == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	// Remarks are optional and so is the body itself.
	var req payroll.CompleteReviewRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err.Error() != "EOF" {
			slog.Error("CompleteReview decode error", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	run, err := h.pipelineService.CompleteReview(r.Context(), companyID, employeeID, runID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Review completed", run)
}

// GeneratePayslips implements PayrollHandler.
func (h *PayrollHandlerImpl) GeneratePayslips(w http.ResponseWriter, r *http.Request) {
	companyID, employeeID, err := identity(r)
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return
	}

	runID := chi.URLParam(r, "id")
	if runID == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	run, err := h.pipelineService.GeneratePayslips(r.Context(), companyID, employeeID, runID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payslips generated successfully", run)
}

// CloseRun implements PayrollHandler.
func (h *PayrollHandlerImpl) CloseRun(w http.ResponseWriter, r *http.Request) {
	companyID, employeeID, err := identity(r)
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return
	}

	runID := chi.URLParam(r, "id")
	if runID == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	run, err := h.pipelineService.CloseRun(r.Context(), companyID, employeeID, runID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll run closed", run)
}

// ListPayslips implements PayrollHandler.
func (h *PayrollHandlerImpl) ListPayslips(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := identity(r)
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return
	}

	runID := chi.URLParam(r, "id")
	if runID == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	slips, err := h.pipelineService.ListPayslips(r.Context(), companyID, runID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, slips)
}

// GetPayslip implements PayrollHandler.
func (h *PayrollHandlerImpl) GetPayslip(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := identity(r)
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return
	}

	payslipID := chi.URLParam(r, "id")
	if payslipID == "" {
		response.BadRequest(w, "Payslip ID is required", nil)
		return
	}

	slip, err := h.pipelineService.GetPayslip(r.Context(), companyID, payslipID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, slip)
}

// GetSettings implements PayrollHandler.
func (h *PayrollHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := identity(r)
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return
	}

	settings, err := h.settingsService.Get(r.Context(), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, settings)
}

// UpdateSettings implements PayrollHandler.
func (h *PayrollHandlerImpl) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := identity(r)
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return
	}

	var req payroll.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateSettings decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	settings, err := h.settingsService.Update(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll settings updated successfully", settings)
}

// ListComponents implements PayrollHandler.
func (h *PayrollHandlerImpl) ListComponents(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := identity(r)
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return
	}

	components, err := h.settingsService.ListComponents(r.Context(), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, components)
}
