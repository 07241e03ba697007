package request

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

const table = "appointment_requests"

var columns = []string{
	"id",
	"company_id",
	"client_name",
	"client_email",
	"client_phone",
	"client_id",
	"service_id",
	"professional_id",
	"preferred_date",
	"preferred_time",
	"notes",
	"status",
	"appointment_id",
	"created_at",
	"updated_at",
}

// Repository репозиторий заявок на запись
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заявок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет заявку из публичной формы, статус всегда PENDING
func (r *Repository) Create(ctx context.Context, req *domain.AppointmentRequest) (*domain.AppointmentRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"company_id",
			"client_name",
			"client_email",
			"client_phone",
			"client_id",
			"service_id",
			"professional_id",
			"preferred_date",
			"preferred_time",
			"notes",
			"status",
		).
		Values(
			req.CompanyID,
			req.ClientName,
			req.ClientEmail,
			req.ClientPhone,
			req.ClientID,
			req.ServiceID,
			req.ProfessionalID,
			req.PreferredDate.Format(domain.DateFormat),
			req.PreferredTime,
			req.Notes,
			domain.RequestPending,
		).
		Suffix("RETURNING id, status, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	created := *req
	created.AppointmentID = nil
	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&created.ID,
		&created.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	created.CreatedAt = createdAt.Time
	created.UpdatedAt = updatedAt.Time

	return &created, nil
}

// GetByID получает заявку компании по ID
func (r *Repository) GetByID(ctx context.Context, companyID, id int64) (*domain.AppointmentRequest, error) {
	return r.get(ctx, "GetByID", companyID, id, false)
}

// GetByIDForUpdate получает заявку и блокирует строку до конца транзакции из контекста
// Конкурирующее одобрение или отклонение ждет снятия блокировки и видит новый статус
func (r *Repository) GetByIDForUpdate(ctx context.Context, companyID, id int64) (*domain.AppointmentRequest, error) {
	return r.get(ctx, "GetByIDForUpdate", companyID, id, true)
}

func (r *Repository) get(ctx context.Context, op string, companyID, id int64, forUpdate bool) (*domain.AppointmentRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id, "company_id": companyID})

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %w", ErrBuildQuery, op, err)
	}

	req, err := scanRequest(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan request: %w", ErrScanRow, op, err)
	}

	return req, nil
}

// List заявки компании, новые первыми; опционально только с указанным статусом
func (r *Repository) List(ctx context.Context, filter domain.RequestFilter) ([]*domain.AppointmentRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"company_id": filter.CompanyID})

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}

	query, args, err := selectBuilder.OrderBy("created_at DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	requests := make([]*domain.AppointmentRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return requests, nil
}

// MarkApproved переводит заявку PENDING -> APPROVED и привязывает запись
// Условие по статусу в WHERE защищает от гонки двух сотрудников:
// если заявка уже обработана, возвращает ErrNotPending
func (r *Repository) MarkApproved(ctx context.Context, companyID, id, appointmentID int64) error {
	return r.transition(ctx, "MarkApproved", companyID, id, domain.RequestApproved, &appointmentID)
}

// MarkRejected переводит заявку PENDING -> REJECTED
func (r *Repository) MarkRejected(ctx context.Context, companyID, id int64) error {
	return r.transition(ctx, "MarkRejected", companyID, id, domain.RequestRejected, nil)
}

func (r *Repository) transition(
	ctx context.Context,
	op string,
	companyID, id int64,
	status domain.RequestStatus,
	appointmentID *int64,
) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", status).
		Set("appointment_id", appointmentID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "company_id": companyID, "status": domain.RequestPending}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %w", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrNotPending
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row rowScanner) (*domain.AppointmentRequest, error) {
	var req domain.AppointmentRequest
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&req.ID,
		&req.CompanyID,
		&req.ClientName,
		&req.ClientEmail,
		&req.ClientPhone,
		&req.ClientID,
		&req.ServiceID,
		&req.ProfessionalID,
		&req.PreferredDate,
		&req.PreferredTime,
		&req.Notes,
		&req.Status,
		&req.AppointmentID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	req.CreatedAt = createdAt.Time
	req.UpdatedAt = updatedAt.Time

	return &req, nil
}
