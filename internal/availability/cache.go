package availability

import (
	"context"
	"fmt"
	"sync"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// События кэша для метрик
const (
	EventHit         = "hit"
	EventMiss        = "miss"
	EventDeduped     = "deduped"
	EventStored      = "stored"
	EventFailed      = "failed"
	EventStale       = "stale"
	EventInvalidated = "invalidated"
)

// State состояние ключа
type State int

const (
	StateAbsent State = iota
	StateInFlight
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInFlight:
		return "in_flight"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "absent"
	}
}

// ComputeFunc вычисление свободных слотов для ключа
type ComputeFunc func(ctx context.Context) (*domain.Availability, error)

type call struct {
	done  chan struct{}
	value *domain.Availability
	err   error
	epoch uint64
}

// Cache кэш свободных слотов с дедупликацией одновременных вычислений
//
// Для одного ключа в каждый момент выполняется не больше одного вычисления.
// Ошибка вычисления не сохраняется как пустой результат: ключ остается отсутствующим,
// а Status возвращает StateFailed до следующей попытки
type Cache struct {
	store   Store
	metrics Metrics
	logger  Logger

	mu       sync.Mutex
	inFlight map[string]*call
	failures map[string]error
	epochs   map[int64]uint64 // по компании, растет при каждой инвалидации
}

// NewCache создает кэш поверх store
func NewCache(store Store, metrics Metrics, logger Logger) *Cache {
	return &Cache{
		store:    store,
		metrics:  metrics,
		logger:   logger,
		inFlight: make(map[string]*call),
		failures: make(map[string]error),
		epochs:   make(map[int64]uint64),
	}
}

// Get возвращает готовый результат, если он есть
func (c *Cache) Get(ctx context.Context, key Key) (*domain.Availability, bool) {
	value, ok, err := c.store.Get(ctx, key.String())
	if err != nil {
		c.logger.Warn("AvailabilityCache: get key=%s failed: %v", key, err)
		return nil, false
	}
	return value, ok
}

// Ensure запускает вычисление для key, если оно еще не выполняется
// Возвращает false, если вычисление уже идет (вызов ничего не делает)
// Вычисление выполняется в текущей горутине и не прерывается отменой ctx
func (c *Cache) Ensure(ctx context.Context, key Key, compute ComputeFunc) bool {
	cl, started := c.begin(key)
	if !started {
		c.inc(EventDeduped)
		return false
	}
	c.run(ctx, key, cl, compute)
	return true
}

// Load возвращает результат для key: из хранилища, дождавшись текущего вычисления или выполнив его
// Ошибка вычисления возвращается обернутой в domain.ErrFetchFailed
func (c *Cache) Load(ctx context.Context, key Key, compute ComputeFunc) (*domain.Availability, error) {
	if value, ok := c.Get(ctx, key); ok {
		c.inc(EventHit)
		return value, nil
	}
	c.inc(EventMiss)

	cl, started := c.begin(key)
	if started {
		// результат мог быть сохранен между Get и begin
		if value, ok := c.Get(ctx, key); ok {
			cl.value = value
			c.finish(key.String(), cl)
			return value, nil
		}
		c.run(ctx, key, cl, compute)
	} else {
		c.inc(EventDeduped)
		select {
		case <-cl.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if cl.err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, cl.err)
	}
	return cl.value, nil
}

// Status текущее состояние ключа
func (c *Cache) Status(ctx context.Context, key Key) State {
	k := key.String()

	c.mu.Lock()
	_, running := c.inFlight[k]
	_, failed := c.failures[k]
	c.mu.Unlock()

	if running {
		return StateInFlight
	}
	if _, ok := c.Get(ctx, key); ok {
		return StateReady
	}
	if failed {
		return StateFailed
	}
	return StateAbsent
}

// LastError ошибка последнего неудачного вычисления ключа
func (c *Cache) LastError(key Key) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failures[key.String()]
}

// Invalidate удаляет результаты компании на дату по всем специалистам
// Вычисления компании, начатые до инвалидации, не сохраняют свой результат
func (c *Cache) Invalidate(ctx context.Context, companyID int64, date string) error {
	return c.invalidate(ctx, companyID, dayPrefix(companyID, date)+":")
}

// InvalidateCompany удаляет все результаты компании (после изменения расписания)
func (c *Cache) InvalidateCompany(ctx context.Context, companyID int64) error {
	return c.invalidate(ctx, companyID, fmt.Sprintf("%d:", companyID))
}

func (c *Cache) invalidate(ctx context.Context, companyID int64, prefix string) error {
	c.mu.Lock()
	c.epochs[companyID]++
	c.mu.Unlock()

	if err := c.store.DeletePrefix(ctx, prefix); err != nil {
		c.logger.Error("AvailabilityCache: invalidate prefix=%s failed: %v", prefix, err)
		return fmt.Errorf("%w: invalidate: %v", ErrStore, err)
	}

	c.inc(EventInvalidated)
	return nil
}

func (c *Cache) begin(key Key) (*call, bool) {
	k := key.String()

	c.mu.Lock()
	defer c.mu.Unlock()

	if cl, ok := c.inFlight[k]; ok {
		return cl, false
	}

	cl := &call{
		done:  make(chan struct{}),
		epoch: c.epochs[key.CompanyID],
	}
	c.inFlight[k] = cl
	delete(c.failures, k)
	return cl, true
}

func (c *Cache) run(ctx context.Context, key Key, cl *call, compute ComputeFunc) {
	k := key.String()
	finished := false

	defer func() {
		if finished {
			return
		}
		r := recover()
		cl.err = fmt.Errorf("compute panicked: %v", r)
		c.finish(k, cl)
		panic(r)
	}()

	ctx = context.WithoutCancel(ctx)
	cl.value, cl.err = compute(ctx)

	if cl.err == nil {
		if cl.value == nil {
			cl.value = empty()
		}

		if c.isStale(key.CompanyID, cl.epoch) {
			c.inc(EventStale)
		} else if err := c.store.Set(ctx, k, cl.value); err != nil {
			// ожидающие все равно получат результат
			c.logger.Warn("AvailabilityCache: store key=%s failed: %v", k, err)
		} else if c.isStale(key.CompanyID, cl.epoch) {
			// инвалидация прошла между проверкой и записью и могла не увидеть ключ
			c.inc(EventStale)
			if err := c.store.Delete(ctx, k); err != nil {
				c.logger.Error("AvailabilityCache: delete stale key=%s failed: %v", k, err)
			}
		} else {
			c.inc(EventStored)
		}
	}

	c.finish(k, cl)
	finished = true
}

// isStale была ли инвалидация компании после начала вычисления
func (c *Cache) isStale(companyID int64, epoch uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epochs[companyID] != epoch
}

func (c *Cache) finish(k string, cl *call) {
	c.mu.Lock()
	delete(c.inFlight, k)
	if cl.err != nil {
		c.failures[k] = cl.err
	}
	c.mu.Unlock()

	if cl.err != nil {
		c.inc(EventFailed)
		c.logger.Warn("AvailabilityCache: compute key=%s failed: %v", k, cl.err)
	}

	close(cl.done)
}

func (c *Cache) inc(event string) {
	if c.metrics != nil {
		c.metrics.IncCacheEvent(event)
	}
}

func empty() *domain.Availability {
	return &domain.Availability{
		Slots:          []domain.TimeSlot{},
		ByProfessional: map[int64][]domain.TimeSlot{},
	}
}
