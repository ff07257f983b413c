package period

import "context"

type PayPeriodRepository interface {
	Create(ctx context.Context, p PayPeriod) (PayPeriod, error)
	GetByID(ctx context.Context, id string, companyID string) (PayPeriod, error)
	GetByCompanyID(ctx context.Context, companyID string, year int) ([]PayPeriod, error)
	UpdateStatus(ctx context.Context, id string, companyID string, status Status) error
}

// PayPeriodService manages the pay-period calendar. Locking happens
// through the payroll pipeline, never directly here.
type PayPeriodService interface {
	Create(ctx context.Context, companyID string, req CreatePayPeriodRequest) (PayPeriodResponse, error)
	Get(ctx context.Context, id string, companyID string) (PayPeriodResponse, error)
	List(ctx context.Context, companyID string, year int) ([]PayPeriodResponse, error)
}
