package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type fakeRepository struct {
	settings map[int64]*domain.ScheduleSettings
	getErr   error
	upserts  int
}

func (f *fakeRepository) Get(_ context.Context, companyID int64) (*domain.ScheduleSettings, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.settings[companyID]
	if !ok {
		return nil, scheduleRepo.ErrSettingsNotFound
	}
	return s, nil
}

func (f *fakeRepository) Upsert(_ context.Context, settings *domain.ScheduleSettings) (*domain.ScheduleSettings, error) {
	f.upserts++
	saved := *settings
	saved.UpdatedAt = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	f.settings[settings.CompanyID] = &saved
	return &saved, nil
}

type fakeCache struct{ companies []int64 }

func (f *fakeCache) InvalidateCompany(_ context.Context, companyID int64) error {
	f.companies = append(f.companies, companyID)
	return nil
}

func newService() (*Service, *fakeRepository, *fakeCache) {
	repo := &fakeRepository{settings: map[int64]*domain.ScheduleSettings{
		2: {CompanyID: 2, StartTime: ptr.Ptr("10:00"), EndTime: ptr.Ptr("14:00"), SlotMinutes: ptr.Ptr(20), WorkingDays: ptr.Ptr("6,7")},
		3: {CompanyID: 3, StartTime: ptr.Ptr("18:00"), EndTime: ptr.Ptr("09:00")},
	}}
	cache := &fakeCache{}
	return NewService(repo, cache, scheduling.DefaultDefaults(), logger.NewNop()), repo, cache
}

func TestGet_Defaults(t *testing.T) {
	svc, _, _ := newService()

	resp, err := svc.Get(context.Background(), 1)

	require.NoError(t, err)
	assert.True(t, resp.IsDefault)
	assert.Equal(t, int64(1), resp.CompanyID)
	assert.Equal(t, "09:00", resp.StartTime)
	assert.Equal(t, "18:00", resp.EndTime)
	assert.Equal(t, 30, resp.SlotMinutes)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, resp.WorkingDays)
}

func TestGet_Stored(t *testing.T) {
	svc, _, _ := newService()

	resp, err := svc.Get(context.Background(), 2)

	require.NoError(t, err)
	assert.False(t, resp.IsDefault)
	assert.Equal(t, 20, resp.SlotMinutes)
	assert.Equal(t, []int{6, 7}, resp.WorkingDays)
}

func TestGet_InvalidStored(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.Get(context.Background(), 3)

	assert.ErrorIs(t, err, domain.ErrInvalidSchedule)
}

func TestGet_RepositoryError(t *testing.T) {
	svc, repo, _ := newService()
	repo.getErr = errors.New("connection refused")

	_, err := svc.Get(context.Background(), 2)

	assert.ErrorIs(t, err, ErrInternal)
}

func TestUpdate_InvalidatesCompanyCache(t *testing.T) {
	svc, repo, cache := newService()

	resp, err := svc.Update(context.Background(), &models.UpdateScheduleRequest{
		CompanyID:   1,
		StartTime:   ptr.Ptr("08:00"),
		SlotMinutes: ptr.Ptr(15),
		WorkingDays: []int{1, 3, 5},
	})

	require.NoError(t, err)
	assert.Equal(t, "08:00", resp.StartTime)
	assert.Equal(t, "18:00", resp.EndTime)
	assert.Equal(t, []int{1, 3, 5}, resp.WorkingDays)
	assert.False(t, resp.IsDefault)
	assert.Equal(t, "1,3,5", *repo.settings[1].WorkingDays)
	assert.Equal(t, []int64{1}, cache.companies)
}

func TestUpdate_RejectsInvalidSchedule(t *testing.T) {
	tests := []struct {
		name string
		req  *models.UpdateScheduleRequest
	}{
		{"start after end", &models.UpdateScheduleRequest{CompanyID: 1, StartTime: ptr.Ptr("19:00")}},
		{"zero slot", &models.UpdateScheduleRequest{CompanyID: 1, SlotMinutes: ptr.Ptr(0)}},
		{"bad day", &models.UpdateScheduleRequest{CompanyID: 1, WorkingDays: []int{0, 1}}},
		{"no days", &models.UpdateScheduleRequest{CompanyID: 1, WorkingDays: []int{}}},
		{"bad time", &models.UpdateScheduleRequest{CompanyID: 1, EndTime: ptr.Ptr("9pm")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, cache := newService()

			_, err := svc.Update(context.Background(), tt.req)

			assert.ErrorIs(t, err, domain.ErrInvalidSchedule)
			assert.Equal(t, 0, repo.upserts)
			assert.Empty(t, cache.companies)
		})
	}
}
