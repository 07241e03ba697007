package approve_request

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	requestRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/request"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// UseCase use case для одобрения заявки: PENDING -> APPROVED с созданием записи
type UseCase struct {
	appointmentRepo  AppointmentRepository
	requestRepo      RequestRepository
	professionalRepo ProfessionalRepository
	cache            AvailabilityCache
	txManager        TransactionManager
	metrics          IntegrityMetrics
	location         *time.Location
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	requestRepo RequestRepository,
	professionalRepo ProfessionalRepository,
	cache AvailabilityCache,
	txManager TransactionManager,
	metrics IntegrityMetrics,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.Local
	}
	return &UseCase{
		appointmentRepo:  appointmentRepo,
		requestRepo:      requestRepo,
		professionalRepo: professionalRepo,
		cache:            cache,
		txManager:        txManager,
		metrics:          metrics,
		location:         location,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case одобрения заявки
//
// Заявка блокируется, проверяется на PENDING, пересечения проверяются заново по актуальным
// записям специалиста, затем создается запись и заявка переводится в APPROVED. Все это одна
// сериализуемая транзакция: конкурирующее одобрение или отклонение той же заявки получит
// domain.ErrInvalidTransition, а новая пересекающаяся запись - domain.ErrConflict.
// Если фиксация транзакции оборвалась без ответа сервера, исход неизвестен и возвращается
// *domain.PartialApprovalError; повторять такую операцию автоматически нельзя
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ApproveRequest: request=%d, company=%d, professional=%d, start=%s",
		req.RequestID, req.CompanyID, req.ProfessionalID, req.StartAt.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ApproveRequest: validation failed: %v", err)
		return nil, err
	}

	duration, err := domain.ResolveDuration(req.StartAt, req.EndAt, req.DurationMinutes)
	if err != nil {
		uc.logger.Warn("ApproveRequest: invalid duration: %v", err)
		return nil, err
	}
	assignment := domain.Assignment{
		ProfessionalID:  req.ProfessionalID,
		ClientID:        req.ClientID,
		ServiceID:       req.ServiceID,
		StartAt:         req.StartAt,
		DurationMinutes: duration,
		Notes:           req.Notes,
	}
	candidate := assignment.Interval()

	// 2. Время назначения не в прошлом
	if err := scheduling.ValidateCandidate(candidate, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("ApproveRequest: assignment rejected: %v", err)
		return nil, err
	}

	// 3. Специалист относится к компании
	ok, err := uc.professionalRepo.Belongs(ctx, req.CompanyID, req.ProfessionalID)
	if err != nil {
		uc.logger.Error("ApproveRequest: failed to check professional id=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: check professional: %v", ErrInternal, err)
	}
	if !ok {
		uc.logger.Warn("ApproveRequest: professional id=%d not found in company id=%d", req.ProfessionalID, req.CompanyID)
		return nil, ErrProfessionalNotFound
	}

	var created *domain.Appointment

	// 4. Блокировка заявки, проверка пересечений, создание записи и смена статуса в одной транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		created = nil

		request, err := uc.requestRepo.GetByIDForUpdate(txCtx, req.CompanyID, req.RequestID)
		if err != nil {
			if errors.Is(err, requestRepo.ErrRequestNotFound) {
				return ErrRequestNotFound
			}
			return fmt.Errorf("%w: get request: %w", ErrInternal, err)
		}

		if err := request.CanTransitionTo(domain.RequestApproved); err != nil {
			return err
		}

		existing, err := uc.appointmentRepo.List(txCtx, domain.OverlapFilter(req.CompanyID, req.ProfessionalID, candidate))
		if err != nil {
			return fmt.Errorf("%w: list appointments: %w", ErrInternal, err)
		}

		if conflict, found := scheduling.FindConflict(scheduling.Intervals(existing, nil), candidate, 0); found {
			uc.logger.Warn("ApproveRequest: request id=%d conflicts with appointment id=%d", req.RequestID, conflict.ID)
			return fmt.Errorf("%w: appointment id=%d", domain.ErrConflict, conflict.ID)
		}

		appointment, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			CompanyID:       req.CompanyID,
			ProfessionalID:  assignment.ProfessionalID,
			ClientID:        assignment.ClientID,
			ServiceID:       assignment.ServiceID,
			StartAt:         assignment.StartAt,
			DurationMinutes: assignment.DurationMinutes,
			Notes:           assignment.Notes,
		})
		if err != nil {
			return fmt.Errorf("%w: create appointment: %w", ErrInternal, err)
		}

		if err := uc.requestRepo.MarkApproved(txCtx, req.CompanyID, req.RequestID, appointment.ID); err != nil {
			if errors.Is(err, requestRepo.ErrNotPending) {
				return fmt.Errorf("%w: request id=%d is no longer PENDING", domain.ErrInvalidTransition, req.RequestID)
			}
			return fmt.Errorf("%w: mark approved: %w", ErrInternal, err)
		}

		created = appointment
		return nil
	})

	if err != nil {
		return nil, uc.handleTxError(req, created, err)
	}

	// 5. Сбрасываем кэш слотов затронутых дат
	uc.invalidate(ctx, created)

	uc.logger.Info("ApproveRequest: request id=%d approved, appointment id=%d", req.RequestID, created.ID)

	return &Response{
		RequestID:   req.RequestID,
		Appointment: created,
	}, nil
}

func (uc *UseCase) handleTxError(req *Request, created *domain.Appointment, err error) error {
	switch {
	case errors.Is(err, ErrRequestNotFound):
		uc.logger.Warn("ApproveRequest: request id=%d not found", req.RequestID)
		return err

	case errors.Is(err, domain.ErrInvalidTransition):
		uc.logger.Error("ApproveRequest: %v", err)
		uc.metrics.IncIntegrityEvent(IntegrityInvalidTransition)
		return err

	case errors.Is(err, domain.ErrConflict):
		return err

	case created != nil && isUncertainCommit(err):
		uc.logger.Error("ApproveRequest: INTEGRITY commit outcome unknown for request id=%d, appointment id=%d may exist while the request stays PENDING, manual reconciliation required: %v",
			req.RequestID, created.ID, err)
		uc.metrics.IncIntegrityEvent(IntegrityPartialApproval)
		return &domain.PartialApprovalError{
			RequestID:     req.RequestID,
			AppointmentID: created.ID,
			Err:           err,
		}

	case errors.Is(err, ErrInternal):
		uc.logger.Error("ApproveRequest: request id=%d: %v", req.RequestID, err)
		return err

	default:
		uc.logger.Error("ApproveRequest: transaction failed: %v", err)
		return fmt.Errorf("%w: transaction: %w", ErrInternal, err)
	}
}

// isUncertainCommit COMMIT не получил ответа сервера: транзакция могла как зафиксироваться, так и нет
// Ответ PostgreSQL (*pq.Error) означает откат
func isUncertainCommit(err error) bool {
	if !errors.Is(err, txmanager.ErrCommitTx) {
		return false
	}
	var pqErr *pq.Error
	return !errors.As(err, &pqErr)
}

func (uc *UseCase) invalidate(ctx context.Context, a *domain.Appointment) {
	for _, date := range domain.TouchedDates(a.Interval(), uc.location) {
		if err := uc.cache.Invalidate(ctx, a.CompanyID, date); err != nil {
			uc.logger.Warn("ApproveRequest: failed to invalidate slots cache company=%d date=%s: %v", a.CompanyID, date, err)
		}
	}
}
