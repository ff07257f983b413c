package payroll

import (
	"context"
	"errors"
	"fmt"

	"github.com/payrollhq/payroll-backend-go/internal/domain/leave"
	"github.com/payrollhq/payroll-backend-go/internal/domain/payroll"
	"github.com/payrollhq/payroll-backend-go/internal/pkg/money"
)

// SettingsService manages per-company payroll configuration. A company
// that never configured anything reads the defaults; the first update
// materializes a row.
type SettingsService struct {
	payroll.SettingsRepository
	payroll.ComponentRepository
	leave.LeaveTypeRepository
}

func NewSettingsService(
	settingsRepository payroll.SettingsRepository,
	componentRepository payroll.ComponentRepository,
	leaveTypeRepository leave.LeaveTypeRepository,
) *SettingsService {
	return &SettingsService{
		SettingsRepository:  settingsRepository,
		ComponentRepository: componentRepository,
		LeaveTypeRepository: leaveTypeRepository,
	}
}

func (s *SettingsService) Get(ctx context.Context, companyID string) (payroll.SettingsResponse, error) {
	settings, err := s.SettingsRepository.GetByCompanyID(ctx, companyID)
	if err != nil {
		if errors.Is(err, payroll.ErrSettingsNotFound) {
			return toSettingsResponse(payroll.DefaultSettings(companyID)), nil
		}
		return payroll.SettingsResponse{}, fmt.Errorf("failed to get payroll settings: %w", err)
	}
	return toSettingsResponse(settings), nil
}

func (s *SettingsService) Update(ctx context.Context, companyID string, req payroll.UpdateSettingsRequest) (payroll.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SettingsResponse{}, err
	}

	settings, err := s.SettingsRepository.GetByCompanyID(ctx, companyID)
	if err != nil {
		if !errors.Is(err, payroll.ErrSettingsNotFound) {
			return payroll.SettingsResponse{}, fmt.Errorf("failed to get payroll settings: %w", err)
		}
		settings = payroll.DefaultSettings(companyID)
	}

	if req.PayFrequency != nil {
		settings.PayFrequency = payroll.PayFrequency(*req.PayFrequency)
	}
	if req.SSSTiming != nil {
		settings.SSSTiming = payroll.DeductionTiming(*req.SSSTiming)
	}
	if req.PhilHealthTiming != nil {
		settings.PhilHealthTiming = payroll.DeductionTiming(*req.PhilHealthTiming)
	}
	if req.PagIbigTiming != nil {
		settings.PagIbigTiming = payroll.DeductionTiming(*req.PagIbigTiming)
	}
	if req.TaxTiming != nil {
		settings.TaxTiming = payroll.DeductionTiming(*req.TaxTiming)
	}
	if req.CtoLeaveTypeID != nil {
		// The designated CTO leave type must belong to this company.
		leaveType, err := s.LeaveTypeRepository.GetByID(ctx, *req.CtoLeaveTypeID, companyID)
		if err != nil {
			return payroll.SettingsResponse{}, err
		}
		if !leaveType.IsActive {
			return payroll.SettingsResponse{}, leave.ErrLeaveTypeInactive
		}
		settings.CtoLeaveTypeID = req.CtoLeaveTypeID
	}
	if req.OvertimePayPerHour != nil {
		settings.OvertimePayPerHour = money.Round2(*req.OvertimePayPerHour)
	}
	if req.TardinessDeductionPerMinute != nil {
		settings.TardinessDeductionPerMinute = money.Round2(*req.TardinessDeductionPerMinute)
	}
	if req.UndertimeDeductionPerMinute != nil {
		settings.UndertimeDeductionPerMinute = money.Round2(*req.UndertimeDeductionPerMinute)
	}

	updated, err := s.SettingsRepository.Upsert(ctx, settings)
	if err != nil {
		return payroll.SettingsResponse{}, fmt.Errorf("failed to save payroll settings: %w", err)
	}
	return toSettingsResponse(updated), nil
}

// ListComponents returns the company's active recurring earning and
// deduction definitions.
func (s *SettingsService) ListComponents(ctx context.Context, companyID string) ([]payroll.ComponentResponse, error) {
	components, err := s.ComponentRepository.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll components: %w", err)
	}

	responses := make([]payroll.ComponentResponse, 0, len(components))
	for _, c := range components {
		responses = append(responses, payroll.ComponentResponse{
			ID:       c.ID,
			Name:     c.Name,
			Type:     string(c.Type),
			IsActive: c.IsActive,
		})
	}
	return responses, nil
}

func toSettingsResponse(s payroll.Settings) payroll.SettingsResponse {
	return payroll.SettingsResponse{
		ID:                          s.ID,
		CompanyID:                   s.CompanyID,
		PayFrequency:                string(s.PayFrequency),
		SSSTiming:                   string(s.SSSTiming),
		PhilHealthTiming:            string(s.PhilHealthTiming),
		PagIbigTiming:               string(s.PagIbigTiming),
		TaxTiming:                   string(s.TaxTiming),
		CtoLeaveTypeID:              s.CtoLeaveTypeID,
		OvertimePayPerHour:          s.OvertimePayPerHour,
		TardinessDeductionPerMinute: s.TardinessDeductionPerMinute,
		UndertimeDeductionPerMinute: s.UndertimeDeductionPerMinute,
	}
}
