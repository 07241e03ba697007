package requests

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	requestRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/request"
	"github.com/m04kA/SMC-AppointmentService/internal/service/requests/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Service жизненный цикл заявок на запись: создание из публичной формы, список, отклонение
// Одобрение заявки создает запись и живет в use case approve_request
type Service struct {
	requestRepo      RequestRepository
	professionalRepo ProfessionalRepository
	metrics          IntegrityMetrics
	location         *time.Location
	timeProvider     TimeProvider
	logger           Logger
}

// NewService создает новый экземпляр сервиса заявок
func NewService(
	requestRepo RequestRepository,
	professionalRepo ProfessionalRepository,
	metrics IntegrityMetrics,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.Local
	}
	return &Service{
		requestRepo:      requestRepo,
		professionalRepo: professionalRepo,
		metrics:          metrics,
		location:         location,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// CreatePublic создает заявку из публичной формы в статусе PENDING
// Желаемая дата не может быть раньше сегодняшнего дня компании
func (s *Service) CreatePublic(ctx context.Context, req *models.CreatePublicRequest) (*models.RequestResponse, error) {
	s.logger.Info("CreatePublic: company=%d, date=%s, time=%s", req.CompanyID, req.PreferredDate, req.PreferredTime)

	// 1. Валидация контактных данных
	if err := validateCreatePublic(req); err != nil {
		s.logger.Warn("CreatePublic: validation failed: %v", err)
		return nil, err
	}

	// 2. Желаемые дата и время
	preferredDate, err := types.ParseDate(req.PreferredDate, s.location)
	if err != nil {
		s.logger.Warn("CreatePublic: invalid preferred date %q", req.PreferredDate)
		return nil, fmt.Errorf("%w: preferred_date must be YYYY-MM-DD", ErrInvalidInput)
	}
	preferredTime, err := types.NewTimeStringFromString(req.PreferredTime)
	if err != nil {
		s.logger.Warn("CreatePublic: invalid preferred time %q", req.PreferredTime)
		return nil, fmt.Errorf("%w: preferred_time must be HH:MM", ErrInvalidInput)
	}

	today := types.DateOnly(s.timeProvider.Now().In(s.location))
	if preferredDate.Before(today) {
		s.logger.Warn("CreatePublic: preferred date %s is in the past", req.PreferredDate)
		return nil, fmt.Errorf("%w: preferred date %s", domain.ErrPastDate, req.PreferredDate)
	}

	// 3. Специалист, если указан, относится к компании
	if req.ProfessionalID != nil {
		ok, err := s.professionalRepo.Belongs(ctx, req.CompanyID, *req.ProfessionalID)
		if err != nil {
			s.logger.Error("CreatePublic: failed to check professional id=%d: %v", *req.ProfessionalID, err)
			return nil, fmt.Errorf("%w: CreatePublic - check professional: %v", ErrInternal, err)
		}
		if !ok {
			s.logger.Warn("CreatePublic: professional id=%d not found in company=%d", *req.ProfessionalID, req.CompanyID)
			return nil, ErrProfessionalNotFound
		}
	}

	// 4. Сохранение
	phone := strings.TrimSpace(req.ClientPhone)
	created, err := s.requestRepo.Create(ctx, &domain.AppointmentRequest{
		CompanyID:      req.CompanyID,
		ClientName:     strings.TrimSpace(req.ClientName),
		ClientPhone:    &phone,
		ClientEmail:    trimmedOrNil(req.ClientEmail),
		ClientID:       req.ClientID,
		ServiceID:      req.ServiceID,
		ProfessionalID: req.ProfessionalID,
		PreferredDate:  preferredDate,
		PreferredTime:  preferredTime,
		Notes:          req.Notes,
		Status:         domain.RequestPending,
	})
	if err != nil {
		s.logger.Error("CreatePublic: repository error for company=%d: %v", req.CompanyID, err)
		return nil, fmt.Errorf("%w: CreatePublic - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreatePublic: successfully created request id=%d", created.ID)
	return models.FromDomainRequest(created), nil
}

// ListByStatus заявки компании, опционально только с указанным статусом
// Ошибка загрузки не превращается в пустой список: возвращается LoadFailed = true
func (s *Service) ListByStatus(ctx context.Context, req *models.ListRequestsRequest) (*models.RequestListResponse, error) {
	s.logger.Info("ListByStatus: fetching requests for company=%d, status=%v", req.CompanyID, req.Status)

	filter := domain.RequestFilter{CompanyID: req.CompanyID}
	if req.Status != nil {
		status, ok := models.ToDomainRequestStatus(*req.Status)
		if !ok {
			s.logger.Warn("ListByStatus: invalid status=%s for company=%d", *req.Status, req.CompanyID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	requests, err := s.requestRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListByStatus: repository error for company=%d: %v", req.CompanyID, err)
		resp := models.FromDomainRequestList(nil)
		resp.LoadFailed = true
		return resp, nil
	}

	s.logger.Info("ListByStatus: successfully fetched %d requests for company=%d", len(requests), req.CompanyID)
	return models.FromDomainRequestList(requests), nil
}

// Get получает заявку компании по ID
func (s *Service) Get(ctx context.Context, companyID, id int64) (*models.RequestResponse, error) {
	request, err := s.getRequest(ctx, "Get", companyID, id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainRequest(request), nil
}

// Reject отклоняет заявку PENDING -> REJECTED
// Повторное отклонение уже отклоненной заявки ничего не делает и не является ошибкой
// Отклонение одобренной заявки возвращает domain.ErrInvalidTransition
func (s *Service) Reject(ctx context.Context, companyID, id int64) (*models.RequestResponse, error) {
	s.logger.Info("Reject: rejecting request id=%d for company=%d", id, companyID)

	request, err := s.getRequest(ctx, "Reject", companyID, id)
	if err != nil {
		return nil, err
	}

	if request.Status == domain.RequestRejected {
		s.logger.Info("Reject: request id=%d is already rejected", id)
		return models.FromDomainRequest(request), nil
	}
	if err := request.CanTransitionTo(domain.RequestRejected); err != nil {
		return nil, s.invalidTransition(err)
	}

	if err := s.requestRepo.MarkRejected(ctx, companyID, id); err != nil {
		if !errors.Is(err, requestRepo.ErrNotPending) {
			s.logger.Error("Reject: failed to reject request id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: Reject - repository error: %v", ErrInternal, err)
		}

		// Заявку успели обработать параллельно: смотрим, чем закончилось
		current, err := s.getRequest(ctx, "Reject", companyID, id)
		if err != nil {
			return nil, err
		}
		if current.Status == domain.RequestRejected {
			s.logger.Info("Reject: request id=%d was rejected concurrently", id)
			return models.FromDomainRequest(current), nil
		}
		if current.Status == domain.RequestPending {
			s.logger.Error("Reject: request id=%d is still pending after a failed update", id)
			return nil, fmt.Errorf("%w: Reject - request id=%d was not updated", ErrInternal, id)
		}
		return nil, s.invalidTransition(current.CanTransitionTo(domain.RequestRejected))
	}

	request.Status = domain.RequestRejected
	request.AppointmentID = nil

	s.logger.Info("Reject: successfully rejected request id=%d", id)
	return models.FromDomainRequest(request), nil
}

func (s *Service) getRequest(ctx context.Context, op string, companyID, id int64) (*domain.AppointmentRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, requestRepo.ErrRequestNotFound) {
			s.logger.Warn("%s: request id=%d not found", op, id)
			return nil, ErrRequestNotFound
		}
		s.logger.Error("%s: repository error for request id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return request, nil
}

func (s *Service) invalidTransition(err error) error {
	s.logger.Error("Reject: %v", err)
	s.metrics.IncIntegrityEvent(IntegrityInvalidTransition)
	return err
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
