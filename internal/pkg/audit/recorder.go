package audit

import (
	"context"
	"log/slog"

	"github.com/payrollhq/payroll-backend-go/internal/domain/audit"
)

// SlogRecorder writes audit facts to the structured log. A deployment
// that requires durable audit rows swaps this for a store-backed
// recorder; the emitting services do not change.
type SlogRecorder struct {
	logger *slog.Logger
}

func NewSlogRecorder(logger *slog.Logger) *SlogRecorder {
	return &SlogRecorder{logger: logger}
}

func (r *SlogRecorder) Record(ctx context.Context, fact audit.Fact) {
	attrs := []any{
		slog.String("kind", string(fact.Kind)),
		slog.String("company_id", fact.CompanyID),
		slog.String("actor_id", fact.ActorID),
		slog.String("reference_type", fact.ReferenceType),
		slog.String("reference_id", fact.ReferenceID),
		slog.Time("occurred_at", fact.OccurredAt),
	}
	for k, v := range fact.Details {
		attrs = append(attrs, slog.String(k, v))
	}
	r.logger.InfoContext(ctx, "audit", attrs...)
}
