package payroll

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payrollhq/payroll-backend-go/internal/domain/attendance"
	"github.com/payrollhq/payroll-backend-go/internal/domain/employee"
	"github.com/payrollhq/payroll-backend-go/internal/domain/payroll"
	"github.com/payrollhq/payroll-backend-go/internal/domain/period"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testSettings() payroll.Settings {
	return payroll.Settings{
		CompanyID:                   "company-1",
		PayFrequency:                payroll.FrequencySemiMonthly,
		SSSTiming:                   payroll.TimingEveryPeriod,
		PhilHealthTiming:            payroll.TimingFirstHalf,
		PagIbigTiming:               payroll.TimingSecondHalf,
		TaxTiming:                   payroll.TimingDisabled,
		OvertimePayPerHour:          dec("150"),
		TardinessDeductionPerMinute: dec("2"),
		UndertimeDeductionPerMinute: dec("2.5"),
	}
}

func testEmployee(baseSalary string) employee.Employee {
	salary := dec(baseSalary)
	return employee.Employee{
		ID:               "emp-1",
		CompanyID:        "company-1",
		FullName:         "Maria Santos",
		BaseSalary:       &salary,
		EmploymentStatus: employee.StatusActive,
	}
}

func statutoryAmounts(amounts map[payroll.StatutoryKind]string) map[payroll.StatutoryKind]payroll.EmployeeStatutoryAmount {
	out := make(map[payroll.StatutoryKind]payroll.EmployeeStatutoryAmount, len(amounts))
	for kind, amount := range amounts {
		out[kind] = payroll.EmployeeStatutoryAmount{EmployeeID: "emp-1", Kind: kind, Amount: dec(amount)}
	}
	return out
}

func lineByName(t *testing.T, slip payroll.Payslip, name string) payroll.PayslipLine {
	t.Helper()
	for _, l := range slip.Lines {
		if l.Name == name {
			return l
		}
	}
	t.Fatalf("no line named %q", name)
	return payroll.PayslipLine{}
}

func TestBuildPayslip_FullBreakdown(t *testing.T) {
	t.Parallel()

	cutoffEnd := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	allowanceType := payroll.ComponentTypeAllowance
	deductionType := payroll.ComponentTypeDeduction
	allowanceName := "Transport Allowance"
	deductionName := "HMO Premium"

	slip, err := BuildPayslip(testSettings(), period.HalfSecond, cutoffEnd, EmployeeCalcInput{
		Employee: testEmployee("30000"),
		Attendance: attendance.Summary{
			EmployeeID:       "emp-1",
			PresentDays:      10,
			TardinessMinutes: 30,
		},
		PaidOvertimeHours: dec("3.5"),
		Components: []payroll.EmployeePayrollComponent{
			{Amount: dec("1000"), EffectiveDate: cutoffEnd.AddDate(0, -6, 0), ComponentName: &allowanceName, ComponentType: &allowanceType},
			{Amount: dec("500"), EffectiveDate: cutoffEnd.AddDate(0, -6, 0), ComponentName: &deductionName, ComponentType: &deductionType},
		},
		Statutory: statutoryAmounts(map[payroll.StatutoryKind]string{
			payroll.StatutorySSS:        "581.30",
			payroll.StatutoryPhilHealth: "450",
			payroll.StatutoryPagIbig:    "200",
			payroll.StatutoryTax:        "1875.50",
		}),
	})
	require.NoError(t, err)

	assert.True(t, slip.BasicPay.Equal(dec("15000")), "semi-monthly basic is half the monthly salary")
	assert.True(t, lineByName(t, slip, "Basic Pay").Amount.Equal(dec("15000")))
	assert.True(t, lineByName(t, slip, "Overtime Pay").Amount.Equal(dec("525")))
	assert.True(t, lineByName(t, slip, "Transport Allowance").Amount.Equal(dec("1000")))
	assert.True(t, lineByName(t, slip, "HMO Premium").Amount.Equal(dec("500")))
	assert.True(t, lineByName(t, slip, "Tardiness").Amount.Equal(dec("60")))

	// SSS applies every period; Pag-IBIG applies in the second half.
	assert.True(t, lineByName(t, slip, "SSS Contribution").Amount.Equal(dec("581.30")))
	assert.True(t, lineByName(t, slip, "Pag-IBIG Contribution").Amount.Equal(dec("200")))

	// PhilHealth is first-half only and tax is disabled: both lines are
	// present at zero, never dropped.
	assert.True(t, lineByName(t, slip, "PhilHealth Contribution").Amount.IsZero())
	assert.True(t, lineByName(t, slip, "Withholding Tax").Amount.IsZero())

	assert.True(t, slip.GrossPay.Equal(dec("16525")), "gross = %s", slip.GrossPay)
	assert.True(t, slip.TotalDeductions.Equal(dec("1341.30")), "deductions = %s", slip.TotalDeductions)
	assert.True(t, slip.NetPay.Equal(dec("15183.70")), "net = %s", slip.NetPay)
}

func TestBuildPayslip_NoBaseSalary(t *testing.T) {
	t.Parallel()

	emp := testEmployee("0")
	emp.BaseSalary = nil

	_, err := BuildPayslip(testSettings(), period.HalfFirst, time.Now(), EmployeeCalcInput{Employee: emp})
	assert.ErrorIs(t, err, employee.ErrNoBaseSalary)
}

func TestBuildPayslip_ExpiredComponentExcluded(t *testing.T) {
	t.Parallel()

	cutoffEnd := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	allowanceType := payroll.ComponentTypeAllowance
	name := "Project Allowance"
	ended := cutoffEnd.AddDate(0, -1, 0)

	slip, err := BuildPayslip(testSettings(), period.HalfFirst, cutoffEnd, EmployeeCalcInput{
		Employee: testEmployee("30000"),
		Components: []payroll.EmployeePayrollComponent{
			{Amount: dec("2000"), EffectiveDate: cutoffEnd.AddDate(-1, 0, 0), EndDate: &ended, ComponentName: &name, ComponentType: &allowanceType},
		},
	})
	require.NoError(t, err)

	for _, l := range slip.Lines {
		assert.NotEqual(t, name, l.Name, "expired component must not produce a line")
	}
	assert.True(t, slip.GrossPay.Equal(dec("15000")))
}

func TestBuildPayslip_NoOvertimeLineWithoutHours(t *testing.T) {
	t.Parallel()

	slip, err := BuildPayslip(testSettings(), period.HalfFirst, time.Now(), EmployeeCalcInput{
		Employee:          testEmployee("30000"),
		PaidOvertimeHours: decimal.Zero,
	})
	require.NoError(t, err)

	for _, l := range slip.Lines {
		assert.NotEqual(t, payroll.SourceOvertime, l.Source)
	}
}

func TestBuildPayslip_UnenrolledStatutorySkipped(t *testing.T) {
	t.Parallel()

	slip, err := BuildPayslip(testSettings(), period.HalfFirst, time.Now(), EmployeeCalcInput{
		Employee:  testEmployee("30000"),
		Statutory: statutoryAmounts(map[payroll.StatutoryKind]string{payroll.StatutorySSS: "581.30"}),
	})
	require.NoError(t, err)

	statutoryLines := 0
	for _, l := range slip.Lines {
		if l.Source == payroll.SourceStatutory {
			statutoryLines++
		}
	}
	assert.Equal(t, 1, statutoryLines, "only enrolled kinds produce lines")
}

func TestBasicPayFor(t *testing.T) {
	t.Parallel()

	base := dec("26000")
	assert.True(t, basicPayFor(payroll.FrequencyMonthly, base).Equal(dec("26000")))
	assert.True(t, basicPayFor(payroll.FrequencySemiMonthly, base).Equal(dec("13000")))
	assert.True(t, basicPayFor(payroll.FrequencyWeekly, base).Equal(dec("6000.05")))
}
