package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/payrollhq/payroll-backend-go/internal/domain/employee"
	"github.com/payrollhq/payroll-backend-go/internal/domain/leave"
	"github.com/payrollhq/payroll-backend-go/internal/domain/ledger"
	"github.com/payrollhq/payroll-backend-go/internal/domain/payroll"
)

// In-memory repositories for service tests. They honor the same
// contracts as the postgresql implementations, minus locking.

func balanceKey(employeeID, leaveTypeID string, year int) string {
	return fmt.Sprintf("%s|%s|%d", employeeID, leaveTypeID, year)
}

type fakeBalanceRepo struct {
	balances map[string]ledger.LeaveBalance
	updates  int
}

func newFakeBalanceRepo(balances ...ledger.LeaveBalance) *fakeBalanceRepo {
	r := &fakeBalanceRepo{balances: make(map[string]ledger.LeaveBalance)}
	for _, b := range balances {
		r.balances[balanceKey(b.EmployeeID, b.LeaveTypeID, b.Year)] = b
	}
	return r
}

func (r *fakeBalanceRepo) GetForUpdate(_ context.Context, employeeID, leaveTypeID string, year int) (ledger.LeaveBalance, error) {
	b, ok := r.balances[balanceKey(employeeID, leaveTypeID, year)]
	if !ok {
		return ledger.LeaveBalance{}, ledger.ErrBalanceNotInitialized
	}
	return b, nil
}

func (r *fakeBalanceRepo) Get(ctx context.Context, employeeID, leaveTypeID string, year int) (ledger.LeaveBalance, error) {
	return r.GetForUpdate(ctx, employeeID, leaveTypeID, year)
}

func (r *fakeBalanceRepo) GetByEmployee(_ context.Context, employeeID string, year int) ([]ledger.LeaveBalance, error) {
	var out []ledger.LeaveBalance
	for _, b := range r.balances {
		if b.EmployeeID == employeeID && b.Year == year {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBalanceRepo) Update(_ context.Context, b ledger.LeaveBalance) error {
	key := balanceKey(b.EmployeeID, b.LeaveTypeID, b.Year)
	if _, ok := r.balances[key]; !ok {
		return ledger.ErrBalanceNotInitialized
	}
	r.balances[key] = b
	r.updates++
	return nil
}

func (r *fakeBalanceRepo) stored(employeeID, leaveTypeID string, year int) ledger.LeaveBalance {
	return r.balances[balanceKey(employeeID, leaveTypeID, year)]
}

type fakeTransactionRepo struct {
	appended []ledger.LeaveBalanceTransaction
}

func (r *fakeTransactionRepo) Append(_ context.Context, tx ledger.LeaveBalanceTransaction) (ledger.LeaveBalanceTransaction, error) {
	tx.ID = fmt.Sprintf("tx-%d", len(r.appended)+1)
	tx.CreatedAt = time.Now()
	r.appended = append(r.appended, tx)
	return tx, nil
}

func (r *fakeTransactionRepo) ListByBalance(_ context.Context, leaveBalanceID string) ([]ledger.LeaveBalanceTransaction, error) {
	var out []ledger.LeaveBalanceTransaction
	for _, tx := range r.appended {
		if tx.LeaveBalanceID == leaveBalanceID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) ExistsByReference(_ context.Context, referenceType, referenceID string, txType ledger.TransactionType) (bool, error) {
	for _, tx := range r.appended {
		if tx.ReferenceType == referenceType && tx.ReferenceID == referenceID && tx.Type == txType {
			return true, nil
		}
	}
	return false, nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
	reports   map[string]int
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string, companyID string) (employee.Employee, error) {
	e, ok := r.employees[id]
	if !ok || e.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *fakeEmployeeRepo) GetActiveByCompanyID(_ context.Context, companyID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.employees {
		if e.CompanyID == companyID && e.IsActive() {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) GetActiveInScope(ctx context.Context, companyID string, departmentID, branchID *string) ([]employee.Employee, error) {
	all, _ := r.GetActiveByCompanyID(ctx, companyID)
	var out []employee.Employee
	for _, e := range all {
		if departmentID != nil && (e.DepartmentID == nil || *e.DepartmentID != *departmentID) {
			continue
		}
		if branchID != nil && (e.BranchID == nil || *e.BranchID != *branchID) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeEmployeeRepo) CountActiveDirectReports(_ context.Context, companyID string, employeeID string) (int, error) {
	return r.reports[employeeID], nil
}

type fakeLeaveTypeRepo struct {
	types []leave.LeaveType
}

func (r *fakeLeaveTypeRepo) GetByID(_ context.Context, id string, companyID string) (leave.LeaveType, error) {
	for _, t := range r.types {
		if t.ID == id && t.CompanyID == companyID {
			return t, nil
		}
	}
	return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
}

func (r *fakeLeaveTypeRepo) GetActiveByCompanyID(_ context.Context, companyID string) ([]leave.LeaveType, error) {
	var out []leave.LeaveType
	for _, t := range r.types {
		if t.CompanyID == companyID && t.IsActive {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeSettingsRepo struct {
	settings map[string]payroll.Settings
}

func (r *fakeSettingsRepo) GetByCompanyID(_ context.Context, companyID string) (payroll.Settings, error) {
	s, ok := r.settings[companyID]
	if !ok {
		return payroll.DefaultSettings(companyID), nil
	}
	return s, nil
}

func (r *fakeSettingsRepo) Upsert(_ context.Context, s payroll.Settings) (payroll.Settings, error) {
	if r.settings == nil {
		r.settings = make(map[string]payroll.Settings)
	}
	r.settings[s.CompanyID] = s
	return s, nil
}
