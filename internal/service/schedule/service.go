package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

// Service сервис настроек публичного расписания компании
type Service struct {
	scheduleRepo ScheduleRepository
	cache        AvailabilityCache
	defaults     scheduling.Defaults
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	scheduleRepo ScheduleRepository,
	cache AvailabilityCache,
	defaults scheduling.Defaults,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		cache:        cache,
		defaults:     defaults,
		logger:       logger,
	}
}

// Get возвращает действующее расписание компании
// Если компания ничего не настраивала, возвращаются значения по умолчанию
// Некорректные сохраненные настройки возвращают domain.ErrInvalidSchedule
func (s *Service) Get(ctx context.Context, companyID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("Get: fetching schedule for company=%d", companyID)

	if companyID <= 0 {
		return nil, fmt.Errorf("%w: company_id must be positive", ErrInvalidInput)
	}

	settings, err := s.scheduleRepo.Get(ctx, companyID)
	if err != nil && !errors.Is(err, scheduleRepo.ErrSettingsNotFound) {
		s.logger.Error("Get: repository error for company=%d: %v", companyID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}
	if err != nil {
		settings = nil
	}

	policy, err := scheduling.ResolvePolicy(settings, s.defaults)
	if err != nil {
		s.logger.Warn("Get: stored schedule of company=%d is invalid: %v", companyID, err)
		return nil, err
	}
	policy.CompanyID = companyID

	return models.FromDomainPolicy(policy, settings), nil
}

// Update проверяет и сохраняет настройки расписания, затем сбрасывает кэш слотов компании
// Некорректные настройки не сохраняются и возвращают domain.ErrInvalidSchedule
func (s *Service) Update(ctx context.Context, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("Update: updating schedule for company=%d", req.CompanyID)

	// 1. Валидация входных данных
	if req.CompanyID <= 0 {
		return nil, fmt.Errorf("%w: company_id must be positive", ErrInvalidInput)
	}
	if req.WorkingDays != nil {
		if len(req.WorkingDays) == 0 {
			s.logger.Warn("Update: empty working days for company=%d", req.CompanyID)
			return nil, fmt.Errorf("%w: working_days must contain at least one day", domain.ErrInvalidSchedule)
		}
		for _, day := range req.WorkingDays {
			if day < 1 || day > 7 {
				s.logger.Warn("Update: invalid working day %d for company=%d", day, req.CompanyID)
				return nil, fmt.Errorf("%w: working day %d must be 1..7", domain.ErrInvalidSchedule, day)
			}
		}
	}

	// 2. Проверка настроек тем же резолвером, что и при расчете слотов
	settings := req.ToDomainSettings()
	policy, err := scheduling.ResolvePolicy(settings, s.defaults)
	if err != nil {
		s.logger.Warn("Update: invalid schedule for company=%d: %v", req.CompanyID, err)
		return nil, err
	}

	// 3. Сохранение
	saved, err := s.scheduleRepo.Upsert(ctx, settings)
	if err != nil {
		s.logger.Error("Update: repository error for company=%d: %v", req.CompanyID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	// 4. Посчитанные ранее слоты компании больше не актуальны
	if err := s.cache.InvalidateCompany(ctx, req.CompanyID); err != nil {
		s.logger.Warn("Update: failed to invalidate slots cache for company=%d: %v", req.CompanyID, err)
	}

	s.logger.Info("Update: successfully updated schedule for company=%d", req.CompanyID)
	return models.FromDomainPolicy(policy, saved), nil
}
