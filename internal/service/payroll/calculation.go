package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/payrollhq/payroll-backend-go/internal/domain/attendance"
	"github.com/payrollhq/payroll-backend-go/internal/domain/employee"
	"github.com/payrollhq/payroll-backend-go/internal/domain/payroll"
	"github.com/payrollhq/payroll-backend-go/internal/domain/period"
	"github.com/payrollhq/payroll-backend-go/internal/pkg/money"
)

// engineVersion is stamped into every calculation trace so audits can
// tell which rules produced a payslip.
const engineVersion = "payroll-engine/1.2"

var weeksPerMonth = decimal.RequireFromString("4.3333")

// EmployeeCalcInput is everything the engine needs for one employee.
// The pipeline assembles it from the repositories; the engine itself
// touches no storage.
type EmployeeCalcInput struct {
	Employee          employee.Employee
	Attendance        attendance.Summary
	PaidOvertimeHours decimal.Decimal
	Components        []payroll.EmployeePayrollComponent
	Statutory         map[payroll.StatutoryKind]payroll.EmployeeStatutoryAmount
}

// basicPayFor prorates the monthly base salary to one pay period.
func basicPayFor(frequency payroll.PayFrequency, baseSalary decimal.Decimal) decimal.Decimal {
	switch frequency {
	case payroll.FrequencySemiMonthly:
		return money.Round2(baseSalary.Div(decimal.NewFromInt(2)))
	case payroll.FrequencyWeekly:
		return money.Round2(baseSalary.Div(weeksPerMonth))
	default:
		return money.Round2(baseSalary)
	}
}

// BuildPayslip computes one employee's payslip for a pay period. The
// result carries every line, including zero-amount statutory lines for
// kinds whose timing skips this half: a skipped deduction is visible
// on the payslip, never silently absent.
func BuildPayslip(settings payroll.Settings, half period.Half, cutoffEnd time.Time, in EmployeeCalcInput) (payroll.Payslip, error) {
	if in.Employee.BaseSalary == nil {
		return payroll.Payslip{}, employee.ErrNoBaseSalary
	}

	slip := payroll.Payslip{EmployeeID: in.Employee.ID}

	basic := basicPayFor(settings.PayFrequency, *in.Employee.BaseSalary)
	slip.BasicPay = basic
	slip.Lines = append(slip.Lines, payroll.PayslipLine{
		Kind:   payroll.LineEarning,
		Source: payroll.SourceBasic,
		Name:   "Basic Pay",
		Amount: basic,
	})

	if in.PaidOvertimeHours.IsPositive() && settings.OvertimePayPerHour.IsPositive() {
		slip.Lines = append(slip.Lines, payroll.PayslipLine{
			Kind:   payroll.LineEarning,
			Source: payroll.SourceOvertime,
			Name:   "Overtime Pay",
			Amount: money.Round2(in.PaidOvertimeHours.Mul(settings.OvertimePayPerHour)),
		})
	}

	for _, c := range in.Components {
		if !c.ActiveOn(cutoffEnd) || c.ComponentType == nil || c.ComponentName == nil {
			continue
		}
		kind := payroll.LineEarning
		if *c.ComponentType == payroll.ComponentTypeDeduction {
			kind = payroll.LineDeduction
		}
		slip.Lines = append(slip.Lines, payroll.PayslipLine{
			Kind:   kind,
			Source: payroll.SourceComponent,
			Name:   *c.ComponentName,
			Amount: money.Round2(c.Amount),
		})
	}

	if in.Attendance.TardinessMinutes > 0 && settings.TardinessDeductionPerMinute.IsPositive() {
		slip.Lines = append(slip.Lines, payroll.PayslipLine{
			Kind:   payroll.LineDeduction,
			Source: payroll.SourceAttendance,
			Name:   "Tardiness",
			Amount: money.Round2(settings.TardinessDeductionPerMinute.Mul(decimal.NewFromInt(int64(in.Attendance.TardinessMinutes)))),
		})
	}
	if in.Attendance.UndertimeMinutes > 0 && settings.UndertimeDeductionPerMinute.IsPositive() {
		slip.Lines = append(slip.Lines, payroll.PayslipLine{
			Kind:   payroll.LineDeduction,
			Source: payroll.SourceAttendance,
			Name:   "Undertime",
			Amount: money.Round2(settings.UndertimeDeductionPerMinute.Mul(decimal.NewFromInt(int64(in.Attendance.UndertimeMinutes)))),
		})
	}

	for _, kind := range payroll.StatutoryKinds {
		amount, enrolled := in.Statutory[kind]
		if !enrolled {
			continue
		}
		lineAmount := decimal.Zero
		if payroll.ShouldApplyStatutory(settings.TimingFor(kind), settings.PayFrequency, half) {
			lineAmount = money.Round2(amount.Amount)
		}
		k := kind
		slip.Lines = append(slip.Lines, payroll.PayslipLine{
			Kind:          payroll.LineDeduction,
			Source:        payroll.SourceStatutory,
			Name:          statutoryLineName(kind),
			Amount:        lineAmount,
			StatutoryKind: &k,
		})
	}

	slip.Recompute()
	return slip, nil
}

func statutoryLineName(kind payroll.StatutoryKind) string {
	switch kind {
	case payroll.StatutorySSS:
		return "SSS Contribution"
	case payroll.StatutoryPhilHealth:
		return "PhilHealth Contribution"
	case payroll.StatutoryPagIbig:
		return "Pag-IBIG Contribution"
	case payroll.StatutoryTax:
		return "Withholding Tax"
	default:
		return string(kind)
	}
}
