package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/faculty-timetable-api/internal/models"
)

func TestTimetableRepositoryUpsertAndFind(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec("INSERT INTO timetables .* ON CONFLICT \\(department_id\\) DO UPDATE").
		WithArgs(sqlmock.AnyArg(), "d1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	tt := &models.Timetable{DepartmentID: "d1", Grid: types.JSONText(`{"Monday":{"1":null}}`)}
	require.NoError(t, repo.Upsert(context.Background(), tt))
	assert.NotEmpty(t, tt.ID)
	assert.Equal(t, "{}", string(tt.Meta))

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, department_id, grid, meta, created_at, updated_at FROM timetables WHERE department_id = $1")).
		WithArgs("d1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "department_id", "grid", "meta", "created_at", "updated_at"}).
			AddRow(tt.ID, "d1", `{"Monday":{"1":null}}`, `{}`, now, now))

	found, err := repo.FindByDepartment(context.Background(), "d1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"Monday":{"1":null}}`, string(found.Grid))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryFindMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectQuery("FROM timetables WHERE department_id").
		WithArgs("d9").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByDepartment(context.Background(), "d9")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestTimetableRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetables WHERE department_id = $1")).
		WithArgs("d1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.DeleteByDepartment(context.Background(), "d1")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
