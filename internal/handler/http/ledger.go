package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/payrollhq/payroll-backend-go/internal/domain/ledger"
	"github.com/payrollhq/payroll-backend-go/internal/handler/http/response"
)

type LedgerHandler interface {
	GetMyBalances(w http.ResponseWriter, r *http.Request)
	GetBalances(w http.ResponseWriter, r *http.Request)
	GetTransactions(w http.ResponseWriter, r *http.Request)
}

type LedgerHandlerImpl struct {
	ledgerService ledger.Service
}

func NewLedgerHandler(ledgerService ledger.Service) LedgerHandler {
	return &LedgerHandlerImpl{ledgerService: ledgerService}
}

func yearParam(r *http.Request) int {
	if y := r.URL.Query().Get("year"); y != "" {
		if parsed, err := strconv.Atoi(y); err == nil {
			return parsed
		}
	}
	return time.Now().Year()
}

// GetMyBalances implements LedgerHandler.
func (h *LedgerHandlerImpl) GetMyBalances(w http.ResponseWriter, r *http.Request) {
	companyID, employeeID, err := identity(r)
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return
	}

	balances, err := h.ledgerService.GetBalances(r.Context(), companyID, employeeID, yearParam(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balances)
}

// GetBalances implements LedgerHandler.
func (h *LedgerHandlerImpl) GetBalances(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := identity(r)
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	balances, err := h.ledgerService.GetBalances(r.Context(), companyID, employeeID, yearParam(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balances)
}

// GetTransactions implements LedgerHandler.
func (h *LedgerHandlerImpl) GetTransactions(w http.ResponseWriter, r *http.Request) {
	companyID, _, err := identity(r)
	if err != nil {
		response.Unauthorized(w, "Failed to extract claims from context")
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	leaveTypeID := r.URL.Query().Get("leave_type_id")
	if leaveTypeID == "" {
		response.BadRequest(w, "leave_type_id is required", nil)
		return
	}

	transactions, err := h.ledgerService.GetTransactions(r.Context(), companyID, employeeID, leaveTypeID, yearParam(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, transactions)
}
