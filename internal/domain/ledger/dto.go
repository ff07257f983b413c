package ledger

import "github.com/shopspring/decimal"

type BalanceResponse struct {
	ID               string          `json:"id"`
	EmployeeID       string          `json:"employee_id"`
	LeaveTypeID      string          `json:"leave_type_id"`
	LeaveTypeName    *string         `json:"leave_type_name,omitempty"`
	Year             int             `json:"year"`
	CurrentBalance   decimal.Decimal `json:"current_balance"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	PendingRequests  decimal.Decimal `json:"pending_requests"`
	CreditsEarned    decimal.Decimal `json:"credits_earned"`
	CreditsUsed      decimal.Decimal `json:"credits_used"`
}

type TransactionResponse struct {
	ID             string          `json:"id"`
	LeaveBalanceID string          `json:"leave_balance_id"`
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	RunningBalance decimal.Decimal `json:"running_balance"`
	ReferenceType  string          `json:"reference_type"`
	ReferenceID    string          `json:"reference_id"`
	Remarks        *string         `json:"remarks,omitempty"`
	ProcessedByID  string          `json:"processed_by_id"`
	CreatedAt      string          `json:"created_at"`
}
