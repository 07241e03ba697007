package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(2026, 10, 19, hour, minute, 0, 0, time.UTC)
}

func appointment(id, professionalID int64, start time.Time, minutes int) *domain.Appointment {
	return &domain.Appointment{
		ID:              id,
		CompanyID:       1,
		ProfessionalID:  professionalID,
		StartAt:         start,
		DurationMinutes: minutes,
		Active:          true,
	}
}

func morningPolicy(t *testing.T) *domain.SchedulePolicy {
	t.Helper()
	policy, err := ResolvePolicy(&domain.ScheduleSettings{
		CompanyID:   1,
		StartTime:   ptr.Ptr("09:00"),
		EndTime:     ptr.Ptr("12:00"),
		SlotMinutes: ptr.Ptr(30),
	}, DefaultDefaults())
	require.NoError(t, err)
	return policy
}

func toStrings(slots []domain.TimeSlot) []string {
	result := make([]string, len(slots))
	for i, s := range slots {
		result[i] = s.String()
	}
	return result
}

func TestResolvePolicy(t *testing.T) {
	t.Run("nil settings use defaults", func(t *testing.T) {
		policy, err := ResolvePolicy(nil, DefaultDefaults())
		require.NoError(t, err)
		assert.Equal(t, types.TimeString("09:00"), policy.StartTime)
		assert.Equal(t, types.TimeString("18:00"), policy.EndTime)
		assert.Equal(t, 30, policy.SlotMinutes)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, policy.WorkingDays.Ordinals())
	})

	t.Run("blank fields fall back to defaults", func(t *testing.T) {
		policy, err := ResolvePolicy(&domain.ScheduleSettings{
			StartTime:   ptr.Ptr(""),
			WorkingDays: ptr.Ptr("  "),
			EndTime:     ptr.Ptr("20:00:00"),
		}, DefaultDefaults())
		require.NoError(t, err)
		assert.Equal(t, types.TimeString("09:00"), policy.StartTime)
		assert.Equal(t, types.TimeString("20:00"), policy.EndTime)
		assert.Equal(t, "1,2,3,4,5", policy.WorkingDays.String())
	})

	tests := []struct {
		name     string
		settings *domain.ScheduleSettings
	}{
		{"start equals end", &domain.ScheduleSettings{StartTime: ptr.Ptr("10:00"), EndTime: ptr.Ptr("10:00")}},
		{"start after end", &domain.ScheduleSettings{StartTime: ptr.Ptr("18:00"), EndTime: ptr.Ptr("09:00")}},
		{"zero slot", &domain.ScheduleSettings{SlotMinutes: ptr.Ptr(0)}},
		{"negative slot", &domain.ScheduleSettings{SlotMinutes: ptr.Ptr(-15)}},
		{"bad time", &domain.ScheduleSettings{StartTime: ptr.Ptr("9am")}},
		{"start at end of day", &domain.ScheduleSettings{StartTime: ptr.Ptr("24:00"), EndTime: ptr.Ptr("24:00")}},
		{"end past midnight", &domain.ScheduleSettings{EndTime: ptr.Ptr("24:30")}},
		{"bad working day", &domain.ScheduleSettings{WorkingDays: ptr.Ptr("1,8")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolvePolicy(tt.settings, DefaultDefaults())
			assert.ErrorIs(t, err, domain.ErrInvalidSchedule)
		})
	}
}

func TestResolvePolicy_EndOfDay(t *testing.T) {
	for _, raw := range []string{"24:00", "24:00:00"} {
		policy, err := ResolvePolicy(&domain.ScheduleSettings{
			StartTime: ptr.Ptr("22:00"),
			EndTime:   ptr.Ptr(raw),
		}, DefaultDefaults())
		require.NoError(t, err, raw)
		assert.Equal(t, types.EndOfDay, policy.EndTime)
	}
}

func TestHasConflict_Symmetry(t *testing.T) {
	intervals := []domain.Interval{
		domain.NewInterval(at(9, 0), 30),
		domain.NewInterval(at(9, 15), 30),
		domain.NewInterval(at(9, 30), 30),
		domain.NewInterval(at(8, 0), 240),
		domain.NewInterval(at(10, 0), 1),
	}

	for _, a := range intervals {
		for _, b := range intervals {
			assert.Equal(t,
				HasConflict([]domain.Interval{a}, b, 0),
				HasConflict([]domain.Interval{b}, a, 0),
				"%v vs %v", a, b)
		}
	}
}

func TestHasConflict_BackToBack(t *testing.T) {
	existing := []domain.Interval{domain.NewInterval(at(9, 0), 30)}

	assert.False(t, HasConflict(existing, domain.NewInterval(at(9, 30), 30), 0))
	assert.False(t, HasConflict(existing, domain.NewInterval(at(8, 30), 30), 0))
	assert.True(t, HasConflict(existing, domain.NewInterval(at(9, 29), 30), 0))
}

func TestHasConflict_ExcludeID(t *testing.T) {
	existing := []domain.Interval{
		{ID: 7, Start: at(10, 0), End: at(10, 30)},
	}
	candidate := domain.NewInterval(at(10, 15), 30)

	assert.True(t, HasConflict(existing, candidate, 0))
	assert.False(t, HasConflict(existing, candidate, 7))

	found, ok := FindConflict(existing, candidate, 0)
	require.True(t, ok)
	assert.Equal(t, int64(7), found.ID)
}

func TestValidateCandidate(t *testing.T) {
	now := at(12, 0)

	assert.NoError(t, ValidateCandidate(domain.NewInterval(at(13, 0), 30), now))
	assert.ErrorIs(t, ValidateCandidate(domain.NewInterval(at(13, 0), 0), now), domain.ErrInvalidDuration)
	assert.ErrorIs(t, ValidateCandidate(domain.NewInterval(at(13, 0).AddDate(0, 0, -1), 30), now), domain.ErrPastDate)
}

func TestGenerateSlots_MorningExample(t *testing.T) {
	policy := morningPolicy(t)
	appointments := []*domain.Appointment{appointment(1, 5, at(9, 30), 30)}

	slots := GenerateSlots(policy, monday, appointments, nil, time.Time{})

	assert.Equal(t, []string{"09:00", "10:00", "10:30", "11:00", "11:30"}, toStrings(slots))
}

func TestGenerateSlots_Deterministic(t *testing.T) {
	policy := morningPolicy(t)
	appointments := []*domain.Appointment{
		appointment(2, 5, at(11, 0), 45),
		appointment(1, 5, at(9, 30), 30),
	}

	first := GenerateSlots(policy, monday, appointments, nil, time.Time{})
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, GenerateSlots(policy, monday, appointments, nil, time.Time{}))
	}
}

func TestGenerateSlots_NonWorkingDay(t *testing.T) {
	policy := morningPolicy(t)
	sunday := monday.AddDate(0, 0, -1)

	assert.Empty(t, GenerateSlots(policy, sunday, nil, nil, time.Time{}))
	assert.Empty(t, GenerateSlots(policy, sunday, []*domain.Appointment{appointment(1, 5, sunday.Add(9*time.Hour), 60)}, nil, time.Time{}))
	assert.False(t, IsWorkingDay(policy, sunday))
}

func TestGenerateSlots_DropsTrailingPartialSlot(t *testing.T) {
	policy, err := ResolvePolicy(&domain.ScheduleSettings{
		StartTime:   ptr.Ptr("09:00"),
		EndTime:     ptr.Ptr("10:00"),
		SlotMinutes: ptr.Ptr(25),
	}, DefaultDefaults())
	require.NoError(t, err)

	slots := GenerateSlots(policy, monday, nil, nil, time.Time{})

	assert.Equal(t, []string{"09:00", "09:25"}, toStrings(slots))
}

func TestGenerateSlots_UntilMidnight(t *testing.T) {
	policy, err := ResolvePolicy(&domain.ScheduleSettings{
		StartTime:   ptr.Ptr("22:00"),
		EndTime:     ptr.Ptr("24:00"),
		SlotMinutes: ptr.Ptr(30),
	}, DefaultDefaults())
	require.NoError(t, err)

	appointments := []*domain.Appointment{appointment(1, 5, at(23, 0), 30)}
	slots := GenerateSlots(policy, monday, appointments, nil, time.Time{})

	assert.Equal(t, []string{"22:00", "22:30", "23:30"}, toStrings(slots))
}

func TestGenerateSlots_FiltersByProfessional(t *testing.T) {
	policy := morningPolicy(t)
	appointments := []*domain.Appointment{
		appointment(1, 5, at(9, 0), 60),
		appointment(2, 6, at(11, 0), 60),
	}

	forFive := GenerateSlots(policy, monday, appointments, ptr.Ptr(int64(5)), time.Time{})
	forSix := GenerateSlots(policy, monday, appointments, ptr.Ptr(int64(6)), time.Time{})

	assert.Equal(t, []string{"10:00", "10:30", "11:00", "11:30"}, toStrings(forFive))
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, toStrings(forSix))
}

func TestGenerateSlots_IgnoresInactive(t *testing.T) {
	policy := morningPolicy(t)
	cancelled := appointment(1, 5, at(9, 0), 180)
	cancelled.Active = false

	slots := GenerateSlots(policy, monday, []*domain.Appointment{cancelled}, nil, time.Time{})

	assert.Len(t, slots, 6)
}

func TestGenerateSlots_NotBefore(t *testing.T) {
	policy := morningPolicy(t)

	today := GenerateSlots(policy, monday, nil, nil, at(10, 10))
	assert.Equal(t, []string{"10:30", "11:00", "11:30"}, toStrings(today))

	pastDay := GenerateSlots(policy, monday, nil, nil, at(0, 0).AddDate(0, 0, 1))
	assert.Empty(t, pastDay)

	futureDay := GenerateSlots(policy, monday, nil, nil, at(15, 0).AddDate(0, 0, -3))
	assert.Len(t, futureDay, 6)
}

func TestMerge(t *testing.T) {
	availability := Merge(map[int64][]domain.TimeSlot{
		6: {"10:00", "09:00"},
		5: {"09:30", "10:00"},
		7: nil,
	})

	assert.Equal(t, []string{"09:00", "09:30", "10:00"}, toStrings(availability.Slots))
	assert.Equal(t, []int64{5, 6, 7}, availability.ProfessionalIDs())
	assert.NotNil(t, availability.ByProfessional[7])
	assert.Empty(t, availability.ByProfessional[7])
}

func TestSingle(t *testing.T) {
	availability := Single(nil)
	assert.NotNil(t, availability.Slots)
	assert.Empty(t, availability.ByProfessional)
}

func TestDropPast(t *testing.T) {
	availability := Merge(map[int64][]domain.TimeSlot{
		5: {"09:00", "10:00", "11:00"},
		6: {"09:30", "11:30"},
	})

	today := DropPast(availability, monday, at(10, 0))
	assert.Equal(t, []string{"10:00", "11:00", "11:30"}, toStrings(today.Slots))
	assert.Equal(t, []string{"10:00", "11:00"}, toStrings(today.ByProfessional[5]))
	assert.Equal(t, []string{"11:30"}, toStrings(today.ByProfessional[6]))
	assert.Len(t, availability.Slots, 5)

	assert.Same(t, availability, DropPast(availability, monday, at(8, 0).AddDate(0, 0, -1)))
	assert.Empty(t, DropPast(availability, monday, at(8, 0).AddDate(0, 0, 1)).Slots)
}
