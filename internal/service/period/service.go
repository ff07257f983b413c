package period

import (
	"context"
	"fmt"
	"time"

	"github.com/payrollhq/payroll-backend-go/internal/domain/period"
)

// Service manages the pay-period calendar. Periods are created open and
// move through PROCESSING and CLOSED via the payroll pipeline; this
// service never locks a period itself.
type Service struct {
	period.PayPeriodRepository
}

func NewService(payPeriodRepository period.PayPeriodRepository) *Service {
	return &Service{PayPeriodRepository: payPeriodRepository}
}

func (s *Service) Create(ctx context.Context, companyID string, req period.CreatePayPeriodRequest) (period.PayPeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return period.PayPeriodResponse{}, err
	}

	cutoffStart, _ := time.Parse("2006-01-02", req.CutoffStart)
	cutoffEnd, _ := time.Parse("2006-01-02", req.CutoffEnd)
	paymentDate, _ := time.Parse("2006-01-02", req.PaymentDate)

	if cutoffEnd.Before(cutoffStart) {
		return period.PayPeriodResponse{}, period.ErrInvalidCutoff
	}

	p := period.PayPeriod{
		CompanyID:    companyID,
		Year:         req.Year,
		PeriodNumber: req.PeriodNumber,
		Half:         period.Half(req.Half),
		CutoffStart:  cutoffStart,
		CutoffEnd:    cutoffEnd,
		PaymentDate:  paymentDate,
		Status:       period.StatusOpen,
	}

	created, err := s.PayPeriodRepository.Create(ctx, p)
	if err != nil {
		return period.PayPeriodResponse{}, fmt.Errorf("failed to create pay period: %w", err)
	}

	return toResponse(created), nil
}

func (s *Service) Get(ctx context.Context, id string, companyID string) (period.PayPeriodResponse, error) {
	p, err := s.PayPeriodRepository.GetByID(ctx, id, companyID)
	if err != nil {
		return period.PayPeriodResponse{}, err
	}
	return toResponse(p), nil
}

func (s *Service) List(ctx context.Context, companyID string, year int) ([]period.PayPeriodResponse, error) {
	periods, err := s.PayPeriodRepository.GetByCompanyID(ctx, companyID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list pay periods: %w", err)
	}

	responses := make([]period.PayPeriodResponse, 0, len(periods))
	for _, p := range periods {
		responses = append(responses, toResponse(p))
	}
	return responses, nil
}

func toResponse(p period.PayPeriod) period.PayPeriodResponse {
	return period.PayPeriodResponse{
		ID:           p.ID,
		Year:         p.Year,
		PeriodNumber: p.PeriodNumber,
		Half:         string(p.Half),
		CutoffStart:  p.CutoffStart.Format("2006-01-02"),
		CutoffEnd:    p.CutoffEnd.Format("2006-01-02"),
		PaymentDate:  p.PaymentDate.Format("2006-01-02"),
		Status:       string(p.Status),
	}
}
