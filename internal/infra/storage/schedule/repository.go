package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const table = "company_schedule_settings"

// Repository репозиторий настроек публичного расписания компаний
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает настройки компании как есть, без значений по умолчанию
// Если компания ничего не настраивала, возвращает ErrSettingsNotFound
func (r *Repository) Get(ctx context.Context, companyID int64) (*domain.ScheduleSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"company_id",
		"public_start_time",
		"public_end_time",
		"public_slot_minutes",
		"public_working_days",
		"updated_at",
	).
		From(table).
		Where(squirrel.Eq{"company_id": companyID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %w", ErrBuildQuery, err)
	}

	var settings domain.ScheduleSettings
	var updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&settings.CompanyID,
		&settings.StartTime,
		&settings.EndTime,
		&settings.SlotMinutes,
		&settings.WorkingDays,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan settings: %w", ErrScanRow, err)
	}

	settings.UpdatedAt = updatedAt.Time

	return &settings, nil
}

// Upsert создает или полностью заменяет настройки компании
func (r *Repository) Upsert(ctx context.Context, settings *domain.ScheduleSettings) (*domain.ScheduleSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"company_id",
			"public_start_time",
			"public_end_time",
			"public_slot_minutes",
			"public_working_days",
		).
		Values(
			settings.CompanyID,
			settings.StartTime,
			settings.EndTime,
			settings.SlotMinutes,
			settings.WorkingDays,
		).
		Suffix(`ON CONFLICT (company_id) DO UPDATE SET
			public_start_time = EXCLUDED.public_start_time,
			public_end_time = EXCLUDED.public_end_time,
			public_slot_minutes = EXCLUDED.public_slot_minutes,
			public_working_days = EXCLUDED.public_working_days,
			updated_at = NOW()
			RETURNING updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %w", ErrBuildQuery, err)
	}

	saved := *settings
	var updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}
	saved.UpdatedAt = updatedAt.Time

	return &saved, nil
}
