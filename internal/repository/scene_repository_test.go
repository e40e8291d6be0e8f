package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cineboard/cineboard-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func sceneRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "number", "title", "description", "location", "estimated_duration",
		"characters", "props", "vfx", "status", "created_at", "updated_at",
	})
}

func TestSceneRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSceneRepository(db)

	rows := sceneRows().
		AddRow("s1", 1, "Opening", "", "Warehouse", 2.0, `["Ana"]`, `[]`, false, "scheduled", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, number, title, description, location, estimated_duration, characters, props, vfx, status, created_at, updated_at FROM scenes WHERE 1=1 ORDER BY number ASC")).
		WillReturnRows(rows)

	scenes, err := repo.List(context.Background(), models.SceneFilter{})
	require.NoError(t, err)
	require.Len(t, scenes, 1)
	assert.Equal(t, "Opening", scenes[0].Title)
	assert.Equal(t, models.StringList{"Ana"}, scenes[0].Characters)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSceneRepositoryListFiltered(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSceneRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("location = $1 AND status = $2 AND vfx = TRUE")).
		WithArgs("Warehouse", "scheduled").
		WillReturnRows(sceneRows())

	_, err := repo.List(context.Background(), models.SceneFilter{
		Location: "Warehouse",
		Status:   "scheduled",
		VFXOnly:  true,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSceneRepositoryBulkUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSceneRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO scenes").
		WithArgs(sqlmock.AnyArg(), 1, "Opening", "", "Warehouse", 2.0,
			sqlmock.AnyArg(), sqlmock.AnyArg(), false, "scheduled", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.BulkUpsert(context.Background(), []models.Scene{{
		Number:            1,
		Title:             "Opening",
		Location:          "Warehouse",
		EstimatedDuration: 2,
		Status:            models.SceneStatusScheduled,
	}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSceneRepositoryUpdateStatusNoRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSceneRepository(db)

	mock.ExpectExec("UPDATE scenes SET status").
		WithArgs("completed", sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", models.SceneStatusCompleted)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
