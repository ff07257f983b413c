package payroll

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func stepsCompletedThrough(n int) []ProcessStep {
	steps := make([]ProcessStep, 0, StepClose)
	for i := StepSetup; i <= StepClose; i++ {
		steps = append(steps, ProcessStep{
			StepNumber:  i,
			Name:        StepName(i),
			IsCompleted: i <= n,
		})
	}
	return steps
}

func TestEnsureAdvance_Ordering(t *testing.T) {
	t.Parallel()

	run := PayrollRun{Status: RunStatusProcessing}

	cases := []struct {
		name      string
		completed int
		target    int
		wantErr   error
	}{
		{"validate after setup", 1, StepValidate, nil},
		{"calculate before validate", 1, StepCalculate, ErrStepOutOfOrder},
		{"calculate after validate", 2, StepCalculate, nil},
		{"review before calculate", 2, StepReview, ErrStepOutOfOrder},
		{"generate after review", 4, StepGenerate, nil},
		{"close before generate", 4, StepClose, ErrStepOutOfOrder},
		{"close after generate", 5, StepClose, nil},
		{"skip straight to close", 1, StepClose, ErrStepOutOfOrder},
		{"target beyond range", 1, 7, ErrStepOutOfOrder},
		{"target below range", 1, 0, ErrStepOutOfOrder},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := EnsureAdvance(run, stepsCompletedThrough(c.completed), c.target)
			if c.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, c.wantErr)
			}
		})
	}
}

func TestEnsureAdvance_CalculateNotReRunnableAfterGenerate(t *testing.T) {
	t.Parallel()

	run := PayrollRun{Status: RunStatusProcessing}

	// Re-running calculate while generate is incomplete is fine.
	require.NoError(t, EnsureAdvance(run, stepsCompletedThrough(4), StepCalculate))

	// Once payslips are generated, calculate is off the table.
	err := EnsureAdvance(run, stepsCompletedThrough(5), StepCalculate)
	assert.ErrorIs(t, err, ErrStepNotReRunnable)
}

func TestEnsureAdvance_LockedRun(t *testing.T) {
	t.Parallel()

	run := PayrollRun{Status: RunStatusPaid, IsLocked: true}
	err := EnsureAdvance(run, stepsCompletedThrough(6), StepValidate)
	assert.ErrorIs(t, err, ErrRunLocked)
}

func TestLocksPeriodOnClose(t *testing.T) {
	t.Parallel()

	cases := []struct {
		runType RunType
		want    bool
	}{
		{RunTypeRegular, true},
		{RunTypeTrial, false},
		{RunTypeSpecial, false},
	}

	for _, c := range cases {
		t.Run(string(c.runType), func(t *testing.T) {
			run := PayrollRun{RunType: c.runType}
			assert.Equal(t, c.want, run.LocksPeriodOnClose())
		})
	}
}

func TestPayslipRecompute(t *testing.T) {
	t.Parallel()

	p := Payslip{
		Lines: []PayslipLine{
			{Kind: LineEarning, Source: SourceBasic, Name: "Basic Pay", Amount: decimal.RequireFromString("15000")},
			{Kind: LineEarning, Source: SourceOvertime, Name: "Overtime Pay", Amount: decimal.RequireFromString("525.50")},
			{Kind: LineDeduction, Source: SourceStatutory, Name: "SSS", Amount: decimal.RequireFromString("581.30")},
			{Kind: LineDeduction, Source: SourceManual, Name: "Salary advance", Amount: decimal.RequireFromString("1000")},
		},
	}
	p.Recompute()

	assert.True(t, p.GrossPay.Equal(decimal.RequireFromString("15525.50")), "gross = %s", p.GrossPay)
	assert.True(t, p.TotalDeductions.Equal(decimal.RequireFromString("1581.30")))
	assert.True(t, p.NetPay.Equal(decimal.RequireFromString("13944.20")))
}

func TestPayslipIsFrozen(t *testing.T) {
	t.Parallel()

	var p Payslip
	assert.False(t, p.IsFrozen())

	now := p.CreatedAt
	p.GeneratedAt = &now
	assert.True(t, p.IsFrozen())
}

func TestComponentActiveOn(t *testing.T) {
	t.Parallel()

	effective := mustDate(t, "2026-01-01")
	end := mustDate(t, "2026-06-30")

	c := EmployeePayrollComponent{EffectiveDate: effective, EndDate: &end}

	assert.False(t, c.ActiveOn(mustDate(t, "2025-12-31")))
	assert.True(t, c.ActiveOn(mustDate(t, "2026-01-01")))
	assert.True(t, c.ActiveOn(mustDate(t, "2026-06-30")))
	assert.False(t, c.ActiveOn(mustDate(t, "2026-07-01")))

	open := EmployeePayrollComponent{EffectiveDate: effective}
	assert.True(t, open.ActiveOn(mustDate(t, "2030-01-01")))
}
