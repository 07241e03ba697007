package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
)

// UseCase use case для создания записи сотрудником
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

// Execute выполняет use case создания записи
// Запись в прошлом отклоняется с domain.ErrPastDate до проверки пересечений.
// Проверка пересечений и вставка выполняются в одной сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: company=%d, professional=%d, client=%d, start=%s",
		req.CompanyID, req.ProfessionalID, req.ClientID, req.StartAt.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Длительность
	duration, err := domain.ResolveDuration(req.StartAt, req.EndAt, req.DurationMinutes)
	if err != nil {
		uc.logger.Warn("CreateAppointment: invalid duration: %v", err)
		return nil, err
	}
	candidate := domain.NewInterval(req.StartAt, duration)

	// 3. Запись в прошлом отклоняется до любых проверок пересечений
	if err := scheduling.ValidateCandidate(candidate, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateAppointment: candidate rejected: %v", err)
		return nil, err
	}

	// 4. Специалист относится к компании
	ok, err := uc.professionalRepo.Belongs(ctx, req.CompanyID, req.ProfessionalID)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to check professional id=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: check professional: %v", ErrInternal, err)
	}
	if !ok {
		uc.logger.Warn("CreateAppointment: professional id=%d not found in company id=%d", req.ProfessionalID, req.CompanyID)
		return nil, ErrProfessionalNotFound
	}

	var result *domain.Appointment

	// 5. Проверка пересечений и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Актуальные записи специалиста в окне возможных пересечений (FOR UPDATE)
		existing, err := uc.appointmentRepo.List(txCtx, domain.OverlapFilter(req.CompanyID, req.ProfessionalID, candidate))
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to list appointments: %v", err)
			return fmt.Errorf("%w: list appointments: %w", ErrInternal, err)
		}

		// 5.2. Проверка пересечений
		if conflict, found := scheduling.FindConflict(scheduling.Intervals(existing, nil), candidate, 0); found {
			uc.logger.Warn("CreateAppointment: conflicts with appointment id=%d", conflict.ID)
			return fmt.Errorf("%w: appointment id=%d", domain.ErrConflict, conflict.ID)
		}

		// 5.3. Создание записи
		created, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			CompanyID:       req.CompanyID,
			ProfessionalID:  req.ProfessionalID,
			ClientID:        req.ClientID,
			ServiceID:       req.ServiceID,
			StartAt:         req.StartAt,
			DurationMinutes: duration,
			Notes:           req.Notes,
		})
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: create appointment: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, domain.ErrConflict) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("CreateAppointment: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction: %v", ErrInternal, err)
	}

	// 6. Сбрасываем кэш слотов на дату записи
	uc.invalidate(ctx, result)

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	return &Response{Appointment: result}, nil
}

func (uc *UseCase) invalidate(ctx context.Context, a *domain.Appointment) {
	for _, date := range domain.TouchedDates(a.Interval(), uc.location) {
		if err := uc.cache.Invalidate(ctx, a.CompanyID, date); err != nil {
			uc.logger.Warn("CreateAppointment: failed to invalidate slots cache company=%d date=%s: %v", a.CompanyID, date, err)
		}
	}
}
