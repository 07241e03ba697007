package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-AppointmentService/internal/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
)

// DefaultMaxParallelLookups ограничение параллельных запросов по специалистам
const DefaultMaxParallelLookups = 4

// Options параметры use case
type Options struct {
	Defaults           scheduling.Defaults
	Location           *time.Location
	MaxParallelLookups int
}

// UseCase use case для получения свободных слотов компании на дату
type UseCase struct {
	appointmentRepo  AppointmentRepository
	scheduleRepo     ScheduleRepository
	professionalRepo ProfessionalRepository
	cache            AvailabilityCache
	timeProvider     TimeProvider
	logger           Logger
	opts             Options
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	professionalRepo ProfessionalRepository,
	cache AvailabilityCache,
	opts Options,
	logger Logger,
) *UseCase {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.MaxParallelLookups <= 0 {
		opts.MaxParallelLookups = DefaultMaxParallelLookups
	}
	return &UseCase{
		appointmentRepo:  appointmentRepo,
		scheduleRepo:     scheduleRepo,
		professionalRepo: professionalRepo,
		cache:            cache,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
		opts:             opts,
	}
}

// Execute выполняет use case получения свободных слотов
// Результаты кэшируются по (компания, дата, специалист); одновременные запросы одного ключа
// выполняют одно вычисление. Ошибка загрузки возвращается как domain.ErrFetchFailed,
// а не как пустой список
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: company=%d, date=%s, professional=%s",
		req.CompanyID, req.Date.Format(domain.DateFormat), professionalLabel(req.ProfessionalID))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// Дата - календарный день в часовом поясе компании
	y, m, d := req.Date.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, uc.opts.Location)

	// 2. Проверяем специалиста
	if req.ProfessionalID != nil {
		ok, err := uc.professionalRepo.Belongs(ctx, req.CompanyID, *req.ProfessionalID)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to check professional id=%d: %v", *req.ProfessionalID, err)
			return nil, fmt.Errorf("%w: check professional: %v", domain.ErrFetchFailed, err)
		}
		if !ok {
			uc.logger.Warn("GetAvailableSlots: professional id=%d not found in company id=%d", *req.ProfessionalID, req.CompanyID)
			return nil, ErrProfessionalNotFound
		}
	}

	// 3. Читаем из кэша или вычисляем
	key := availability.NewKey(req.CompanyID, date, req.ProfessionalID)
	result, err := uc.cache.Load(ctx, key, func(ctx context.Context) (*domain.Availability, error) {
		return uc.compute(ctx, req.CompanyID, date, req.ProfessionalID)
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to load slots key=%s: %v", key, err)
		if errors.Is(err, domain.ErrFetchFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}

	// 4. Убираем прошедшее время сегодняшнего дня
	result = scheduling.DropPast(result, date, uc.timeProvider.Now())

	uc.logger.Info("GetAvailableSlots: %d slots for company=%d, date=%s",
		len(result.Slots), req.CompanyID, date.Format(domain.DateFormat))

	return &Response{
		CompanyID:      req.CompanyID,
		Date:           date,
		ProfessionalID: req.ProfessionalID,
		Slots:          result.Slots,
		ByProfessional: result.ByProfessional,
	}, nil
}

// compute вычисляет слоты без учета текущего времени, чтобы результат можно было кэшировать
func (uc *UseCase) compute(ctx context.Context, companyID int64, date time.Time, professionalID *int64) (*domain.Availability, error) {
	// 1. Политика расписания компании
	settings, err := uc.scheduleRepo.Get(ctx, companyID)
	if err != nil && !errors.Is(err, scheduleRepo.ErrSettingsNotFound) {
		return nil, fmt.Errorf("get schedule settings: %w", err)
	}

	policy, err := scheduling.ResolvePolicy(settings, uc.opts.Defaults)
	if err != nil {
		// Некорректная настройка компании - пустой список, а не ошибка загрузки
		uc.logger.Warn("GetAvailableSlots: company id=%d has invalid schedule: %v", companyID, err)
		return scheduling.Single(nil), nil
	}

	// 2. Нерабочий день - без похода в БД
	if !scheduling.IsWorkingDay(policy, date) {
		return scheduling.Single(nil), nil
	}

	// 3. Конкретный специалист
	if professionalID != nil {
		slots, err := uc.professionalSlots(ctx, policy, companyID, date, *professionalID)
		if err != nil {
			return nil, err
		}
		return scheduling.Single(slots), nil
	}

	// 4. «Любой специалист»
	ids, err := uc.professionalRepo.ListActiveIDs(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list professionals: %w", err)
	}

	if len(ids) == 0 {
		// Специалистов нет - слоты на уровне компании
		appointments, err := uc.appointmentRepo.List(ctx, dayWindow(companyID, nil, date))
		if err != nil {
			return nil, fmt.Errorf("list appointments: %w", err)
		}
		return scheduling.Single(scheduling.GenerateSlots(policy, date, appointments, nil, time.Time{})), nil
	}

	byProfessional, err := uc.fanOut(ctx, policy, companyID, date, ids)
	if err != nil {
		return nil, err
	}

	return scheduling.Merge(byProfessional), nil
}

// fanOut параллельно вычисляет слоты каждого специалиста; любая ошибка отменяет остальные
func (uc *UseCase) fanOut(
	ctx context.Context,
	policy *domain.SchedulePolicy,
	companyID int64,
	date time.Time,
	ids []int64,
) (map[int64][]domain.TimeSlot, error) {
	var mu sync.Mutex
	result := make(map[int64][]domain.TimeSlot, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.opts.MaxParallelLookups)

	for _, id := range ids {
		id := id
		g.Go(func() error {
			slots, err := uc.professionalSlots(gctx, policy, companyID, date, id)
			if err != nil {
				return err
			}
			mu.Lock()
			result[id] = slots
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *UseCase) professionalSlots(
	ctx context.Context,
	policy *domain.SchedulePolicy,
	companyID int64,
	date time.Time,
	professionalID int64,
) ([]domain.TimeSlot, error) {
	appointments, err := uc.appointmentRepo.List(ctx, dayWindow(companyID, &professionalID, date))
	if err != nil {
		return nil, fmt.Errorf("list appointments of professional id=%d: %w", professionalID, err)
	}
	return scheduling.GenerateSlots(policy, date, appointments, &professionalID, time.Time{}), nil
}

// dayWindow записи, которые могут занимать время в этот день, включая начавшиеся накануне
func dayWindow(companyID int64, professionalID *int64, date time.Time) domain.AppointmentFilter {
	filter := domain.DayFilter(companyID, professionalID, date, date.Location())
	from := filter.From.Add(-time.Duration(domain.MaxDurationMinutes) * time.Minute)
	filter.From = &from
	return filter
}

func professionalLabel(id *int64) string {
	if id == nil {
		return "any"
	}
	return fmt.Sprintf("%d", *id)
}
