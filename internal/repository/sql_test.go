package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"hr_recruit_backend/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)
	return db, mock
}

func q(sql string) string {
	return regexp.QuoteMeta(sql)
}

var attemptColumns = []string{"id", "user_id", "testing_id", "correct_answers", "total_answers", "created_at", "updated_at"}

func TestAttemptSearchScopesUserAndEscapesPattern(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttemptRepository(db)
	now := time.Now()

	mock.ExpectQuery(q("SELECT attempts.* FROM `attempts` JOIN testing ON testing.id = attempts.testing_id "+
		"WHERE attempts.user_id = ? AND (LOWER(testing.title) LIKE ? OR LOWER(testing.content) LIKE ?) "+
		"ORDER BY testing.title ASC,attempts.id ASC LIMIT ? OFFSET ?")).
		WithArgs("u1", `%50\%\_off%`, `%50\%\_off%`, 20, 40).
		WillReturnRows(sqlmock.NewRows(attemptColumns).AddRow("a1", "u1", "t1", 3, 4, now, now))
	mock.ExpectQuery(q("SELECT * FROM `testing` WHERE `testing`.`id` = ?")).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "vacancy_id", "title", "content", "type", "correct_percent"}).
			AddRow("t1", "v1", "Go basics", "body", 0, 70))

	attempts, err := repo.Search(context.Background(), AttemptFilter{UserID: "u1"}, "50%_OFF", 40, 20, "title")
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, 75, attempts[0].Percent())
	require.NotNil(t, attempts[0].Test)
	assert.Equal(t, "Go basics", attempts[0].Test.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttemptListRejectsUnknownOrder(t *testing.T) {
	db, mock := newMockDB(t)

	_, err := NewAttemptRepository(db).List(context.Background(), AttemptFilter{}, 0, 10, "content")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttemptFindFirstMissing(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(q("SELECT * FROM `attempts` WHERE user_id = ? AND testing_id = ? ORDER BY created_at ASC")).
		WithArgs("u1", "t1", 1).
		WillReturnRows(sqlmock.NewRows(attemptColumns))

	a, err := NewAttemptRepository(db).FindFirst(context.Background(), "u1", "t1")
	assert.NoError(t, err)
	assert.Nil(t, a)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateGuardedLocksVacancy(t *testing.T) {
	lock := q("FROM `vacancies` WHERE id = ? ORDER BY `vacancies`.`id` LIMIT ? FOR SHARE")

	t.Run("closed vacancy rolls back", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(lock).WithArgs("v1", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "state"}).AddRow("v1", model.VacancyClosed))
		mock.ExpectRollback()

		err := NewAttemptRepository(db).CreateGuarded(context.Background(), &model.Attempt{UserID: "u1", TestingID: "t1"}, "v1")
		assert.ErrorIs(t, err, ErrVacancyNotOpened)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing vacancy rolls back", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(lock).WithArgs("v1", 1).WillReturnRows(sqlmock.NewRows([]string{"id", "state"}))
		mock.ExpectRollback()

		err := NewAttemptRepository(db).CreateGuarded(context.Background(), &model.Attempt{UserID: "u1", TestingID: "t1"}, "v1")
		assert.ErrorIs(t, err, ErrVacancyNotOpened)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("opened vacancy inserts", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(lock).WithArgs("v1", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "state"}).AddRow("v1", model.VacancyOpened))
		mock.ExpectExec(q("INSERT INTO `attempts`")).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		a := &model.Attempt{UserID: "u1", TestingID: "t1", TotalAnswers: 5}
		err := NewAttemptRepository(db).CreateGuarded(context.Background(), a, "v1")
		require.NoError(t, err)
		assert.NotEmpty(t, a.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPassedTestingsGroupsBestAttempt(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(q("JOIN testing ON testing.id = attempts.testing_id " +
		"WHERE attempts.correct_answers * 100 >= testing.correct_percent * attempts.total_answers " +
		"GROUP BY attempts.user_id, attempts.testing_id")).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "testing_id", "best_percent"}).
			AddRow("u1", "t1", 80).
			AddRow("u2", "t1", 100))

	rows, err := NewAttemptRepository(db).PassedTestings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []PassedTesting{
		{UserID: "u1", TestingID: "t1", BestPercent: 80},
		{UserID: "u2", TestingID: "t1", BestPercent: 100},
	}, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTestingDeleteCascades(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(q("DELETE FROM `answer_options` WHERE question_id IN " +
		"(SELECT `id` FROM `theoretical_questions` WHERE testing_id IN (?))")).
		WithArgs("t1").WillReturnResult(sqlmock.NewResult(0, 8))
	mock.ExpectExec(q("DELETE FROM `theoretical_questions` WHERE testing_id IN (?)")).
		WithArgs("t1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(q("DELETE FROM `practical_questions` WHERE testing_id IN (?)")).
		WithArgs("t1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(q("DELETE FROM `attempts` WHERE testing_id IN (?)")).
		WithArgs("t1").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(q("DELETE FROM `testing` WHERE id = ?")).
		WithArgs("t1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewTestingRepository(db).Delete(context.Background(), "t1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTestingDeleteRollsBackOnFailure(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(q("DELETE FROM `answer_options`")).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := NewTestingRepository(db).Delete(context.Background(), "t1")
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVacancyDeleteCascades(t *testing.T) {
	db, mock := newMockDB(t)
	testingIDs := "(SELECT `id` FROM `testing` WHERE vacancy_id = ?)"

	mock.ExpectBegin()
	mock.ExpectExec(q("DELETE FROM `answer_options` WHERE question_id IN " +
		"(SELECT `id` FROM `theoretical_questions` WHERE testing_id IN " + testingIDs + ")")).
		WithArgs("v1").WillReturnResult(sqlmock.NewResult(0, 4))
	for _, table := range []string{"theoretical_questions", "practical_questions", "attempts"} {
		mock.ExpectExec(q("DELETE FROM `" + table + "` WHERE testing_id IN " + testingIDs)).
			WithArgs("v1").WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectExec(q("DELETE FROM `testing` WHERE vacancy_id = ?")).
		WithArgs("v1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(q("DELETE FROM `vacancy_files` WHERE vacancy_id = ?")).
		WithArgs("v1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("DELETE FROM `vacancies` WHERE id = ?")).
		WithArgs("v1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewVacancyRepository(db).Delete(context.Background(), "v1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVacancyListFiltersStateAndQuery(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(q("SELECT * FROM `vacancies` WHERE state = ? AND (LOWER(title) LIKE ? OR LOWER(content) LIKE ?) "+
		"ORDER BY created_at ASC LIMIT ?")).
		WithArgs(model.VacancyOpened, "%go%", "%go%", 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "state"}).AddRow("v1", "Go intern", "", 1))

	vacancies, err := NewVacancyRepository(db).List(context.Background(),
		VacancyFilter{State: model.VacancyOpened, Query: "Go"}, 0, 10, "created_at")
	require.NoError(t, err)
	require.Len(t, vacancies, 1)
	assert.True(t, vacancies[0].IsOpened())
	assert.NoError(t, mock.ExpectationsWereMet())
}
