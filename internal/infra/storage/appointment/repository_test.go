package appointment

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

func newRepo(t *testing.T) (*Repository, *dbmetrics.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	wrapped := dbmetrics.Wrap(db, nil)
	return NewRepository(wrapped), wrapped, mock
}

var start = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

func appointmentRow(id int64, active bool) *sqlmock.Rows {
	return sqlmock.NewRows(columns).
		AddRow(id, 1, 5, 7, 3, start, 30, "first visit", active, start, start)
}

func TestRepository_Create(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).
		WithArgs(int64(1), int64(5), int64(7), int64(3), start, 30, sqlmock.AnyArg(), true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "active", "created_at", "updated_at"}).
			AddRow(42, true, start, start))

	created, err := repo.Create(context.Background(), &domain.Appointment{
		CompanyID:       1,
		ProfessionalID:  5,
		ClientID:        7,
		ServiceID:       3,
		StartAt:         start,
		DurationMinutes: 30,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
	assert.True(t, created.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, company_id, professional_id")).
		WithArgs(int64(1), int64(42)).
		WillReturnRows(appointmentRow(42, true))

	a, err := repo.GetByID(context.Background(), 1, 42)

	require.NoError(t, err)
	assert.Equal(t, int64(42), a.ID)
	assert.Equal(t, start.Add(30*time.Minute), a.EndAt())
	require.NotNil(t, a.Notes)
	assert.Equal(t, "first visit", *a.Notes)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id")).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 1, 42)

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestRepository_List(t *testing.T) {
	repo, _, mock := newRepo(t)
	filter := domain.DayFilter(1, ptr.Ptr(int64(5)), start, time.UTC)

	mock.ExpectQuery(`SELECT .* FROM appointments WHERE company_id = \$1 AND professional_id = \$2 AND start_at >= \$3 AND start_at < \$4 AND active = \$5 ORDER BY start_at ASC, id ASC$`).
		WillReturnRows(appointmentRow(1, true).AddRow(2, 1, 5, 7, 3, start.Add(time.Hour), 45, nil, true, start, start))

	list, err := repo.List(context.Background(), filter)

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Nil(t, list[1].Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List_ForUpdateInTransaction(t *testing.T) {
	repo, db, mock := newRepo(t)
	filter := domain.DayFilter(1, ptr.Ptr(int64(5)), start, time.UTC)
	filter.ForUpdate = true

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE$`).WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectCommit()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	list, err := repo.List(dbmetrics.WithTx(context.Background(), tx), filter)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update_NotFound(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE appointments SET")).WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.Update(context.Background(), &domain.Appointment{ID: 42, CompanyID: 1, StartAt: start, DurationMinutes: 30})

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestRepository_Deactivate(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE appointments SET active = $1")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE appointments SET active = $1")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE appointments SET active = $1")).
		WillReturnError(errors.New("connection reset"))

	assert.NoError(t, repo.Deactivate(context.Background(), 1, 42))
	assert.ErrorIs(t, repo.Deactivate(context.Background(), 1, 42), ErrAppointmentNotFound)
	assert.ErrorIs(t, repo.Deactivate(context.Background(), 1, 42), ErrExecQuery)
}

func TestRepository_Create_SerializationFailureIsRetried(t *testing.T) {
	repo, wrapped, mock := newRepo(t)
	mgr := txmanager.NewTransactionManager(wrapped)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).
		WillReturnError(&pq.Error{Code: "40001", Message: "could not serialize access"})
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "active", "created_at", "updated_at"}).
			AddRow(43, true, start, start))
	mock.ExpectCommit()

	calls := 0
	var created *domain.Appointment
	err := mgr.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		a, err := repo.Create(ctx, &domain.Appointment{
			CompanyID:       1,
			ProfessionalID:  5,
			ClientID:        7,
			ServiceID:       3,
			StartAt:         start,
			DurationMinutes: 30,
		})
		created = a
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, int64(43), created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_KeepsDriverError(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).
		WillReturnError(&pq.Error{Code: "40001"})

	_, err := repo.Create(context.Background(), &domain.Appointment{CompanyID: 1, ProfessionalID: 5, StartAt: start, DurationMinutes: 30})

	assert.ErrorIs(t, err, ErrExecQuery)
	var pqErr *pq.Error
	require.ErrorAs(t, err, &pqErr)
	assert.Equal(t, pq.ErrorCode("40001"), pqErr.Code)
}
