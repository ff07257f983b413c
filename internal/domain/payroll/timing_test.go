package payroll

import (
	"testing"

	"github.com/payrollhq/payroll-backend-go/internal/domain/period"
)

func TestShouldApplyStatutory(t *testing.T) {
	cases := []struct {
		name      string
		timing    DeductionTiming
		frequency PayFrequency
		half      period.Half
		want      bool
	}{
		{"disabled never applies", TimingDisabled, FrequencySemiMonthly, period.HalfFirst, false},
		{"disabled never applies monthly", TimingDisabled, FrequencyMonthly, period.HalfFirst, false},
		{"every period always applies", TimingEveryPeriod, FrequencySemiMonthly, period.HalfSecond, true},
		{"every period monthly", TimingEveryPeriod, FrequencyMonthly, period.HalfFirst, true},

		{"first half on first", TimingFirstHalf, FrequencySemiMonthly, period.HalfFirst, true},
		{"first half on second", TimingFirstHalf, FrequencySemiMonthly, period.HalfSecond, false},
		{"second half on second", TimingSecondHalf, FrequencySemiMonthly, period.HalfSecond, true},
		{"second half on first", TimingSecondHalf, FrequencySemiMonthly, period.HalfFirst, false},

		// Half-distinction is meaningless outside semi-monthly.
		{"first half monthly", TimingFirstHalf, FrequencyMonthly, period.HalfSecond, true},
		{"second half monthly", TimingSecondHalf, FrequencyMonthly, period.HalfFirst, true},
		{"first half weekly", TimingFirstHalf, FrequencyWeekly, period.HalfSecond, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ShouldApplyStatutory(c.timing, c.frequency, c.half)
			if got != c.want {
				t.Errorf("ShouldApplyStatutory(%s, %s, %s) = %v, want %v",
					c.timing, c.frequency, c.half, got, c.want)
			}
		})
	}
}

func TestSettingsTimingFor(t *testing.T) {
	s := Settings{
		SSSTiming:        TimingFirstHalf,
		PhilHealthTiming: TimingSecondHalf,
		PagIbigTiming:    TimingEveryPeriod,
		TaxTiming:        TimingDisabled,
	}

	cases := []struct {
		kind StatutoryKind
		want DeductionTiming
	}{
		{StatutorySSS, TimingFirstHalf},
		{StatutoryPhilHealth, TimingSecondHalf},
		{StatutoryPagIbig, TimingEveryPeriod},
		{StatutoryTax, TimingDisabled},
		{StatutoryKind("UNKNOWN"), TimingDisabled},
	}
	for _, c := range cases {
		if got := s.TimingFor(c.kind); got != c.want {
			t.Errorf("TimingFor(%s) = %s, want %s", c.kind, got, c.want)
		}
	}
}
