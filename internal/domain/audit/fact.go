package audit

import (
	"context"
	"time"
)

type FactKind string

const (
	FactBalanceReserved FactKind = "balance.reserved"
	FactBalanceReleased FactKind = "balance.released"
	FactBalanceConsumed FactKind = "balance.consumed"
	FactBalanceAccrued  FactKind = "balance.accrued"

	FactRunStepCompleted FactKind = "payroll_run.step_completed"
	FactRunClosed        FactKind = "payroll_run.closed"
	FactPeriodLocked     FactKind = "pay_period.locked"

	FactRequestDecided FactKind = "request.decided"
)

// Fact is one auditable event. Facts are emitted after the surrounding
// transaction commits; an aborted transaction emits nothing.
type Fact struct {
	Kind          FactKind
	CompanyID     string
	ActorID       string
	ReferenceType string
	ReferenceID   string
	Details       map[string]string
	OccurredAt    time.Time
}

// Recorder receives committed facts. Implementations must not fail the
// business operation; recording is best effort.
type Recorder interface {
	Record(ctx context.Context, fact Fact)
}
