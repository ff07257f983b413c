package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/payrollhq/payroll-backend-go/internal/domain/leave"
	"github.com/payrollhq/payroll-backend-go/internal/domain/workflow"
	"github.com/payrollhq/payroll-backend-go/internal/handler/http/response"
	leaveService "github.com/payrollhq/payroll-backend-go/internal/service/leave"
)

type LeaveHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	SupervisorApprove(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	requestService *leaveService.RequestService
}

func NewLeaveHandler(requestService *leaveService.RequestService) LeaveHandler {
	return &LeaveHandlerImpl{requestService: requestService}
}

// Submit implements LeaveHandler.
func (h *LeaveHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	companyID, employeeID, err := identity(r)
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return
	}

	var req leave.CreateLeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Submit decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// The requesting employee always comes from the token, never from
	// the request body.
	req.EmployeeID = employeeID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	leaveRequest, err := h.requestService.Submit(r.Context(), companyID, employeeID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", leaveRequest)
}

// List implements LeaveHandler.
func (h *LeaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
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

// SupervisorApprove implements LeaveHandler.
func (h *LeaveHandlerImpl) SupervisorApprove(w http.ResponseWriter, r *http.Request) {
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

	leaveRequest, err := h.requestService.SupervisorApprove(r.Context(), companyID, employeeID, requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved by supervisor", leaveRequest)
}

// Approve implements LeaveHandler.
func (h *LeaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
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

	leaveRequest, err := h.requestService.Approve(r.Context(), companyID, employeeID, requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved successfully", leaveRequest)
}

// Reject implements LeaveHandler.
func (h *LeaveHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
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

	var req leave.RejectRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Reject decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	leaveRequest, err := h.requestService.Reject(r.Context(), companyID, employeeID, requestID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected successfully", leaveRequest)
}

// Cancel implements LeaveHandler.
func (h *LeaveHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
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

	leaveRequest, err := h.requestService.Cancel(r.Context(), companyID, employeeID, requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled successfully", leaveRequest)
}
