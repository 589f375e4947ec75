package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/faculty-timetable-api/internal/models"
)

func TestDepartmentRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDepartmentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "code", "name", "created_at", "updated_at"}).
		AddRow("d1", "CSE", "Computer Science", now, now).
		AddRow("d2", "ME", "Mechanical", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, code, name, created_at, updated_at FROM departments ORDER BY name ASC, id ASC")).
		WillReturnRows(rows)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "CSE", list[0].Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDepartmentRepository(db)

	mock.ExpectQuery("FROM departments WHERE id = \\$1").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryListByDepartment(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "code", "name", "department_id", "created_at", "updated_at"}).
		AddRow("s1", "CS101", "Algorithms", "d1", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, code, name, department_id, created_at, updated_at FROM subjects WHERE department_id = $1 ORDER BY code ASC")).
		WithArgs("d1").
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), models.SubjectFilter{DepartmentID: "d1"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "d1", list[0].DepartmentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryFindByCode(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubjectRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(code) = LOWER($1)")).
		WithArgs("cs101").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "department_id", "created_at", "updated_at"}).
			AddRow("s1", "CS101", "Algorithms", "d1", now, now))

	subject, err := repo.FindByCode(context.Background(), "cs101")
	require.NoError(t, err)
	assert.Equal(t, "Algorithms", subject.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
