package approve_request

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	requestRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/request"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

type fakeAppointments struct {
	existing []*domain.Appointment
	created  []*domain.Appointment
}

func (f *fakeAppointments) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	stored := *a
	stored.ID = int64(500 + len(f.created))
	stored.Active = true
	f.created = append(f.created, &stored)
	f.existing = append(f.existing, &stored)
	return &stored, nil
}

func (f *fakeAppointments) List(_ context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	result := make([]*domain.Appointment, 0)
	for _, a := range f.existing {
		if filter.ProfessionalID != nil && a.ProfessionalID != *filter.ProfessionalID {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

type fakeRequests struct {
	requests  map[int64]*domain.AppointmentRequest
	markErr   error
	markCalls int
	// beforeGet меняет заявку перед чтением, как это сделал бы другой сотрудник
	beforeGet func(r *domain.AppointmentRequest)
}

func (f *fakeRequests) GetByIDForUpdate(_ context.Context, _, id int64) (*domain.AppointmentRequest, error) {
	r, ok := f.requests[id]
	if ok && f.beforeGet != nil {
		f.beforeGet(r)
	}
	if !ok {
		return nil, requestRepo.ErrRequestNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRequests) MarkApproved(_ context.Context, _, id, appointmentID int64) error {
	f.markCalls++
	if f.markErr != nil {
		return f.markErr
	}
	r := f.requests[id]
	r.Status = domain.RequestApproved
	r.AppointmentID = &appointmentID
	return nil
}

type fakeProfessionals struct{}

func (fakeProfessionals) Belongs(_ context.Context, _, _ int64) (bool, error) { return true, nil }

type fakeCache struct {
	mu          sync.Mutex
	invalidated []string
}

func (f *fakeCache) Invalidate(_ context.Context, _ int64, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, date)
	return nil
}

// fakeTx выполняет транзакции строго по очереди, как при блокировке строки заявки
type fakeTx struct {
	mu        sync.Mutex
	commitErr error
}

func (f *fakeTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := fn(ctx); err != nil {
		return err
	}
	if f.commitErr != nil {
		return fmt.Errorf("%w: %w", txmanager.ErrCommitTx, f.commitErr)
	}
	return nil
}

type fakeMetrics struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeMetrics) IncIntegrityEvent(kind string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, kind)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

func at(hour, minute int) time.Time {
	return time.Date(2026, 10, 19, hour, minute, 0, 0, time.UTC)
}

type fixture struct {
	uc           *UseCase
	appointments *fakeAppointments
	requests     *fakeRequests
	cache        *fakeCache
	metrics      *fakeMetrics
	tx           *fakeTx
}

func newFixture(status domain.RequestStatus) *fixture {
	request := &domain.AppointmentRequest{
		ID:            9,
		CompanyID:     1,
		ClientName:    "Anna",
		PreferredDate: at(0, 0),
		PreferredTime: "10:00",
		Status:        status,
	}
	if status == domain.RequestApproved {
		request.AppointmentID = ptr.Ptr(int64(77))
	}

	f := &fixture{
		appointments: &fakeAppointments{},
		requests:     &fakeRequests{requests: map[int64]*domain.AppointmentRequest{9: request}},
		cache:        &fakeCache{},
		metrics:      &fakeMetrics{},
		tx:           &fakeTx{},
	}
	f.uc = NewUseCase(f.appointments, f.requests, fakeProfessionals{}, f.cache, f.tx, f.metrics, time.UTC, logger.NewNop())
	f.uc.timeProvider = fixedTime{now: time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)}
	return f
}

func approval(start time.Time, end time.Time) *Request {
	return &Request{
		CompanyID:      1,
		RequestID:      9,
		ProfessionalID: 5,
		ClientID:       7,
		ServiceID:      3,
		StartAt:        start,
		EndAt:          &end,
	}
}

func TestExecute_Approves(t *testing.T) {
	f := newFixture(domain.RequestPending)

	resp, err := f.uc.Execute(context.Background(), approval(at(10, 0), at(10, 30)))

	require.NoError(t, err)
	assert.Equal(t, int64(500), resp.Appointment.ID)
	assert.Equal(t, 30, resp.Appointment.DurationMinutes)

	stored := f.requests.requests[9]
	assert.Equal(t, domain.RequestApproved, stored.Status)
	assert.NoError(t, stored.CheckInvariant())
	assert.Equal(t, []string{"2026-10-19"}, f.cache.invalidated)
}

func TestExecute_ConflictKeepsRequestPending(t *testing.T) {
	f := newFixture(domain.RequestPending)
	f.appointments.existing = []*domain.Appointment{
		{ID: 1, CompanyID: 1, ProfessionalID: 5, StartAt: at(10, 15), DurationMinutes: 30, Active: true},
	}

	_, err := f.uc.Execute(context.Background(), approval(at(10, 0), at(10, 30)))

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, domain.RequestPending, f.requests.requests[9].Status)
	assert.Equal(t, 0, f.requests.markCalls)
	assert.Empty(t, f.appointments.created)
}

func TestExecute_OtherProfessionalDoesNotConflict(t *testing.T) {
	f := newFixture(domain.RequestPending)
	f.appointments.existing = []*domain.Appointment{
		{ID: 1, CompanyID: 1, ProfessionalID: 6, StartAt: at(10, 15), DurationMinutes: 30, Active: true},
	}

	_, err := f.uc.Execute(context.Background(), approval(at(10, 0), at(10, 30)))

	require.NoError(t, err)
}

func TestExecute_StatusWriteFailureIsNotPartial(t *testing.T) {
	f := newFixture(domain.RequestPending)
	f.requests.markErr = errors.New("connection reset")

	_, err := f.uc.Execute(context.Background(), approval(at(10, 0), at(10, 30)))

	// Ошибка внутри транзакции откатывает и запись, и статус
	assert.ErrorIs(t, err, ErrInternal)
	assert.NotErrorIs(t, err, domain.ErrPartialApproval)
	assert.Empty(t, f.metrics.events)
	assert.Empty(t, f.cache.invalidated)
}

func TestExecute_UncertainCommitIsPartialApproval(t *testing.T) {
	f := newFixture(domain.RequestPending)
	f.tx.commitErr = errors.New("driver: bad connection")

	_, err := f.uc.Execute(context.Background(), approval(at(10, 0), at(10, 30)))

	require.ErrorIs(t, err, domain.ErrPartialApproval)

	var partial *domain.PartialApprovalError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, int64(9), partial.RequestID)
	assert.Equal(t, int64(500), partial.AppointmentID)
	assert.Equal(t, []string{IntegrityPartialApproval}, f.metrics.events)
}

func TestExecute_RejectedCommitIsNotPartial(t *testing.T) {
	f := newFixture(domain.RequestPending)
	f.tx.commitErr = &pq.Error{Code: "40001"}

	_, err := f.uc.Execute(context.Background(), approval(at(10, 0), at(10, 30)))

	assert.ErrorIs(t, err, ErrInternal)
	assert.NotErrorIs(t, err, domain.ErrPartialApproval)
	assert.Empty(t, f.metrics.events)
}

func TestExecute_RequestDecidedByAnotherActor(t *testing.T) {
	for _, status := range []domain.RequestStatus{domain.RequestApproved, domain.RequestRejected} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(domain.RequestPending)
			f.requests.beforeGet = func(r *domain.AppointmentRequest) {
				r.Status = status
				if status == domain.RequestApproved {
					r.AppointmentID = ptr.Ptr(int64(77))
				}
			}

			_, err := f.uc.Execute(context.Background(), approval(at(10, 0), at(10, 30)))

			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
			assert.NotErrorIs(t, err, domain.ErrPartialApproval)
			assert.Empty(t, f.appointments.created)
			assert.Equal(t, 0, f.requests.markCalls)
			assert.Equal(t, []string{IntegrityInvalidTransition}, f.metrics.events)
		})
	}
}

func TestExecute_DoubleApprovalCreatesOneAppointment(t *testing.T) {
	f := newFixture(domain.RequestPending)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	starts := []time.Time{at(10, 0), at(14, 0)}
	for i := range starts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Execute(context.Background(), approval(starts[i], starts[i].Add(30*time.Minute)))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, f.appointments.created, 1)
	assert.Equal(t, domain.RequestApproved, f.requests.requests[9].Status)
	assert.NoError(t, f.requests.requests[9].CheckInvariant())
}

func TestExecute_TerminalRequests(t *testing.T) {
	for _, status := range []domain.RequestStatus{domain.RequestApproved, domain.RequestRejected} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(status)

			_, err := f.uc.Execute(context.Background(), approval(at(10, 0), at(10, 30)))

			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
			assert.Empty(t, f.appointments.created)
			assert.Equal(t, []string{IntegrityInvalidTransition}, f.metrics.events)
		})
	}
}

func TestExecute_RequestNotFound(t *testing.T) {
	f := newFixture(domain.RequestPending)
	req := approval(at(10, 0), at(10, 30))
	req.RequestID = 404

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestExecute_PastAssignment(t *testing.T) {
	f := newFixture(domain.RequestPending)
	start := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), approval(start, start.Add(30*time.Minute)))

	assert.ErrorIs(t, err, domain.ErrPastDate)
	assert.Empty(t, f.appointments.created)
}
