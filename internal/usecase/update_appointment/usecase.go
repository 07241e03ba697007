package update_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
)

// UseCase use case для изменения существующей записи
type UseCase struct {
	appointmentRepo  AppointmentRepository
	professionalRepo ProfessionalRepository
	cache            AvailabilityCache
	txManager        TransactionManager
	location         *time.Location
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	professionalRepo ProfessionalRepository,
	cache AvailabilityCache,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.Local
	}
	return &UseCase{
		appointmentRepo:  appointmentRepo,
		professionalRepo: professionalRepo,
		cache:            cache,
		txManager:        txManager,
		location:         location,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case изменения записи
// Сама изменяемая запись не участвует в проверке пересечений.
// Перенос на время в прошлом запрещен; правка прошедшей записи без смены времени допустима
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateAppointment: id=%d, company=%d, professional=%d, start=%s",
		req.ID, req.CompanyID, req.ProfessionalID, req.StartAt.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Длительность
	duration, err := domain.ResolveDuration(req.StartAt, req.EndAt, req.DurationMinutes)
	if err != nil {
		uc.logger.Warn("UpdateAppointment: invalid duration: %v", err)
		return nil, err
	}
	candidate := domain.NewInterval(req.StartAt, duration)
	candidate.ID = req.ID

	// 3. Текущее состояние записи
	current, err := uc.appointmentRepo.GetByID(ctx, req.CompanyID, req.ID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("UpdateAppointment: appointment id=%d not found", req.ID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("UpdateAppointment: failed to get appointment id=%d: %v", req.ID, err)
		return nil, fmt.Errorf("%w: get appointment: %v", ErrInternal, err)
	}
	if !current.Active {
		uc.logger.Warn("UpdateAppointment: appointment id=%d is cancelled", req.ID)
		return nil, ErrAppointmentNotFound
	}

	// 4. Перенос в прошлое
	if !req.StartAt.Equal(current.StartAt) {
		if err := scheduling.ValidateCandidate(candidate, uc.timeProvider.Now()); err != nil {
			uc.logger.Warn("UpdateAppointment: candidate rejected: %v", err)
			return nil, err
		}
	}

	// 5. Специалист относится к компании
	if req.ProfessionalID != current.ProfessionalID {
		ok, err := uc.professionalRepo.Belongs(ctx, req.CompanyID, req.ProfessionalID)
		if err != nil {
			uc.logger.Error("UpdateAppointment: failed to check professional id=%d: %v", req.ProfessionalID, err)
			return nil, fmt.Errorf("%w: check professional: %v", ErrInternal, err)
		}
		if !ok {
			uc.logger.Warn("UpdateAppointment: professional id=%d not found in company id=%d", req.ProfessionalID, req.CompanyID)
			return nil, ErrProfessionalNotFound
		}
	}

	var result *domain.Appointment

	// 6. Проверка пересечений (без самой записи) и обновление в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		existing, err := uc.appointmentRepo.List(txCtx, domain.OverlapFilter(req.CompanyID, req.ProfessionalID, candidate))
		if err != nil {
			uc.logger.Error("UpdateAppointment: failed to list appointments: %v", err)
			return fmt.Errorf("%w: list appointments: %w", ErrInternal, err)
		}

		if conflict, found := scheduling.FindConflict(scheduling.Intervals(existing, nil), candidate, req.ID); found {
			uc.logger.Warn("UpdateAppointment: id=%d conflicts with appointment id=%d", req.ID, conflict.ID)
			return fmt.Errorf("%w: appointment id=%d", domain.ErrConflict, conflict.ID)
		}

		updated, err := uc.appointmentRepo.Update(txCtx, &domain.Appointment{
			ID:              req.ID,
			CompanyID:       req.CompanyID,
			ProfessionalID:  req.ProfessionalID,
			ClientID:        req.ClientID,
			ServiceID:       req.ServiceID,
			StartAt:         req.StartAt,
			DurationMinutes: duration,
			Notes:           req.Notes,
		})
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			uc.logger.Error("UpdateAppointment: failed to update appointment id=%d: %v", req.ID, err)
			return fmt.Errorf("%w: update appointment: %w", ErrInternal, err)
		}

		result = updated
		return nil
	})

	if err != nil {
		if errors.Is(err, domain.ErrConflict) || errors.Is(err, ErrAppointmentNotFound) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("UpdateAppointment: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction: %v", ErrInternal, err)
	}

	// 7. Сбрасываем кэш слотов на старую и новую даты
	uc.invalidate(ctx, current)
	uc.invalidate(ctx, result)

	uc.logger.Info("UpdateAppointment: successfully updated appointment id=%d", result.ID)

	return &Response{Appointment: result}, nil
}

func (uc *UseCase) invalidate(ctx context.Context, a *domain.Appointment) {
	for _, date := range domain.TouchedDates(a.Interval(), uc.location) {
		if err := uc.cache.Invalidate(ctx, a.CompanyID, date); err != nil {
			uc.logger.Warn("UpdateAppointment: failed to invalidate slots cache company=%d date=%s: %v", a.CompanyID, date, err)
		}
	}
}
