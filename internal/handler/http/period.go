package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/payrollhq/payroll-backend-go/internal/domain/period"
	"github.com/payrollhq/payroll-backend-go/internal/handler/http/response"
	periodService "github.com/payrollhq/payroll-backend-go/internal/service/period"
)

type PayPeriodHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type PayPeriodHandlerImpl struct {
	periodService *periodService.Service
}

func NewPayPeriodHandler(periodService *periodService.Service) PayPeriodHandler {
	return &PayPeriodHandlerImpl{periodService: periodService}
}

// Create implements PayPeriodHandler.
func (h *PayPeriodHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := identity(r)
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return
	}

	var req period.CreatePayPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create pay period decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	payPeriod, err := h.periodService.Create(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Pay period created successfully", payPeriod)
}

// Get implements PayPeriodHandler.
func (h *PayPeriodHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := identity(r)
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return
	}

	periodID := chi.URLParam(r, "id")
	if periodID == "" {
		response.BadRequest(w, "Pay period ID is required", nil)
		return
	}

	payPeriod, err := h.periodService.Get(r.Context(), periodID, companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payPeriod)
}

// List implements PayPeriodHandler.
func (h *PayPeriodHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := identity(r)
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return
	}

	year := time.Now().Year()
	if y := r.URL.Query().Get("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			response.BadRequest(w, "year must be a number", nil)
			return
		}
		year = parsed
	}

	periods, err := h.periodService.List(r.Context(), companyID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, periods)
}
