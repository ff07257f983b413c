package payroll

import "github.com/payrollhq/payroll-backend-go/internal/domain/period"

// ShouldApplyStatutory decides whether a statutory deduction applies in
// the given period. The half-distinction only matters for semi-monthly
// frequencies; every other frequency applies any non-disabled timing.
//
// A false result means "this period's amount is zero", never "drop the
// deduction type for the employee".
func ShouldApplyStatutory(timing DeductionTiming, frequency PayFrequency, half period.Half) bool {
	switch timing {
	case TimingDisabled:
		return false
	case TimingEveryPeriod:
		return true
	}

	if frequency != FrequencySemiMonthly {
		return true
	}

	switch timing {
	case TimingFirstHalf:
		return half == period.HalfFirst
	case TimingSecondHalf:
		return half == period.HalfSecond
	default:
		return false
	}
}
