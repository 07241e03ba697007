package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Service сервис для чтения и отмены записей компании
// Создание и перенос записей живут в use case, там нужна проверка пересечений
type Service struct {
	appointmentRepo AppointmentRepository
	cache           AvailabilityCache
	location        *time.Location
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	cache AvailabilityCache,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.Local
	}
	return &Service{
		appointmentRepo: appointmentRepo,
		cache:           cache,
		location:        location,
		logger:          logger,
	}
}

// List получает записи компании, по умолчанию только активные
//
// Примеры использования:
// - Все активные записи: List(ctx, &ListAppointmentsRequest{CompanyID: 1})
// - Записи специалиста: указать ProfessionalID
// - Записи за период: From и To (To не включительно)
func (s *Service) List(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("List: fetching appointments for company=%d, professional=%v", req.CompanyID, req.ProfessionalID)

	if req.CompanyID <= 0 {
		return nil, fmt.Errorf("%w: company_id must be positive", ErrInvalidInput)
	}
	if req.From != nil && req.To != nil && !req.From.Before(*req.To) {
		s.logger.Warn("List: invalid period for company=%d", req.CompanyID)
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.List(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("List: repository error for company=%d: %v", req.CompanyID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d appointments for company=%d", len(appointments), req.CompanyID)
	return models.FromDomainAppointmentList(appointments, s.location), nil
}

// Get получает запись компании по ID
func (s *Service) Get(ctx context.Context, companyID, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("Get: fetching appointment id=%d for company=%d", id, companyID)

	appointment, err := s.appointmentRepo.GetByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Get: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Get: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(appointment, s.location), nil
}

// Delete отменяет запись (active = false) и сбрасывает кэш слотов на затронутые дни
func (s *Service) Delete(ctx context.Context, companyID, id int64) error {
	s.logger.Info("Delete: cancelling appointment id=%d for company=%d", id, companyID)

	appointment, err := s.appointmentRepo.GetByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Delete: appointment id=%d not found", id)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Delete: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	if !appointment.Active {
		s.logger.Warn("Delete: appointment id=%d is already cancelled", id)
		return ErrAppointmentNotFound
	}

	if err := s.appointmentRepo.Deactivate(ctx, companyID, id); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Delete: appointment id=%d was cancelled concurrently", id)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Delete: failed to deactivate appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	for _, date := range domain.TouchedDates(appointment.Interval(), s.location) {
		if err := s.cache.Invalidate(ctx, companyID, date); err != nil {
			s.logger.Warn("Delete: failed to invalidate slots cache company=%d date=%s: %v", companyID, date, err)
		}
	}

	s.logger.Info("Delete: successfully cancelled appointment id=%d", id)
	return nil
}
