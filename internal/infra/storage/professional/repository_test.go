package professional

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(dbmetrics.Wrap(db, nil)), mock
}

func TestRepository_ListActiveIDs(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM professionals WHERE active = $1 AND company_id = $2 ORDER BY id ASC")).
		WithArgs(true, int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5).AddRow(6))

	ids, err := repo.ListActiveIDs(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, []int64{5, 6}, ids)
}

func TestRepository_ListActiveIDs_Error(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("FROM professionals").WillReturnError(errors.New("timeout"))

	_, err := repo.ListActiveIDs(context.Background(), 1)

	assert.ErrorIs(t, err, ErrExecQuery)
}

func TestRepository_Belongs(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS ( SELECT 1 FROM professionals")).
		WithArgs(true, int64(1), int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Belongs(context.Background(), 1, 5)

	require.NoError(t, err)
	assert.True(t, ok)
}
