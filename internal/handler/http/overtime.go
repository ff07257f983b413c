package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/payrollhq/payroll-backend-go/internal/domain/overtime"
	"github.com/payrollhq/payroll-backend-go/internal/domain/workflow"
	"github.com/payrollhq/payroll-backend-go/internal/handler/http/response"
	overtimeService "github.com/payrollhq/payroll-backend-go/internal/service/overtime"
)

type OvertimeHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	SupervisorApprove(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
}

type OvertimeHandlerImpl struct {
	requestService *overtimeService.RequestService
}

func NewOvertimeHandler(requestService *overtimeService.RequestService) OvertimeHandler {
	return &OvertimeHandlerImpl{requestService: requestService}
}

// Submit implements OvertimeHandler.
func (h *OvertimeHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	companyID, employeeID, err := identity(r)
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return
	}

	var req overtime.CreateOvertimeRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Submit decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	req.EmployeeID = employeeID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	overtimeRequest, err := h.requestService.Submit(r.Context(), companyID, employeeID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Overtime request submitted successfully", overtimeRequest)
}

// List implements OvertimeHandler.
func (h *OvertimeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := identity(r)
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return
	}

	var status *workflow.Status
	if s := r.URL.Query().Get("status"); s != "" {
		parsed := workflow.Status(s)
		status = &parsed
	}

	requests, err := h.requestService.List(r.Context(), companyID, status)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, requests)
}

// SupervisorApprove implements OvertimeHandler.
func (h *OvertimeHandlerImpl) SupervisorApprove(w http.ResponseWriter, r *http.Request) {
	companyID, employeeID, err := identity(r)
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return
	}

	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	overtimeRequest, err := h.requestService.SupervisorApprove(r.Context(), companyID, employeeID, requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime request approved by supervisor", overtimeRequest)
}

// Approve implements OvertimeHandler.
func (h *OvertimeHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	companyID, employeeID, err := identity(r)
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return
	}

	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	overtimeRequest, err := h.requestService.Approve(r.Context(), companyID, employeeID, requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime request approved successfully", overtimeRequest)
}

// Reject implements OvertimeHandler.
func (h *OvertimeHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	companyID, employeeID, err := identity(r)
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return
	}

	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	var req overtime.RejectRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Reject decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	overtimeRequest, err := h.requestService.Reject(r.Context(), companyID, employeeID, requestID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime request rejected successfully", overtimeRequest)
}

// Cancel implements OvertimeHandler.
func (h *OvertimeHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	companyID, employeeID, err := identity(r)
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return
	}

	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	overtimeRequest, err := h.requestService.Cancel(r.Context(), companyID, employeeID, requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime request cancelled successfully", overtimeRequest)
}
