package attendance

import (
	"context"
	"time"
)

// SummaryRepository aggregates attendance rows into per-employee
// summaries for a cutoff window. Employees with no rows at all are
// absent from the result; the validation step flags them.
type SummaryRepository interface {
	GetSummaries(ctx context.Context, companyID string, start, end time.Time, employeeIDs []string) ([]Summary, error)
}
