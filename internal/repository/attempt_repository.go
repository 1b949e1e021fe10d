package repository

import (
	"context"
	"errors"
	"fmt"

	"hr_recruit_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrVacancyNotOpened is returned by CreateGuarded when the vacancy closed
// before the attempt could be written.
var ErrVacancyNotOpened = errors.New("vacancy is not opened")

var attemptOrderColumns = map[string]string{
	"title":      "testing.title",
	"created_at": "attempts.created_at",
}

// AttemptFilter narrows an attempt listing. Empty fields do not filter.
type AttemptFilter struct {
	UserID    string
	TestingID string
}

// PassedTesting is the best passing attempt of a user on a testing.
type PassedTesting struct {
	UserID      string
	TestingID   string
	BestPercent int
}

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// FindFirst returns the earliest attempt of userID on testingID, or nil.
func (r *AttemptRepository) FindFirst(ctx context.Context, userID, testingID string) (*model.Attempt, error) {
	var a model.Attempt
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND testing_id = ?", userID, testingID).
		Order("created_at ASC").
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find first attempt: %w", err)
	}
	return &a, nil
}

// CreateGuarded inserts the attempt only while the vacancy is still opened.
// The vacancy row is share-locked for the duration of the insert.
func (r *AttemptRepository) CreateGuarded(ctx context.Context, a *model.Attempt, vacancyID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var v model.Vacancy
		err := tx.Clauses(clause.Locking{Strength: clause.LockingStrengthShare}).
			Select("id", "state").
			Where("id = ?", vacancyID).
			First(&v).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVacancyNotOpened
		}
		if err != nil {
			return fmt.Errorf("lock vacancy %s: %w", vacancyID, err)
		}
		if !v.IsOpened() {
			return ErrVacancyNotOpened
		}
		if err := tx.Create(a).Error; err != nil {
			return fmt.Errorf("create attempt: %w", err)
		}
		return nil
	})
}

func (r *AttemptRepository) List(ctx context.Context, filter AttemptFilter, offset, limit int, orderBy string) ([]model.Attempt, error) {
	return r.find(ctx, filter, "", offset, limit, orderBy)
}

// Search lists attempts whose testing title or content contains query,
// ignoring case.
func (r *AttemptRepository) Search(ctx context.Context, filter AttemptFilter, query string, offset, limit int, orderBy string) ([]model.Attempt, error) {
	return r.find(ctx, filter, query, offset, limit, orderBy)
}

func (r *AttemptRepository) find(ctx context.Context, filter AttemptFilter, query string, offset, limit int, orderBy string) ([]model.Attempt, error) {
	column, ok := attemptOrderColumns[orderBy]
	if !ok {
		return nil, fmt.Errorf("unsupported attempt order %q", orderBy)
	}

	q := r.DB.WithContext(ctx).Model(&model.Attempt{}).
		Select("attempts.*").
		Joins("JOIN testing ON testing.id = attempts.testing_id").
		Preload("Test")
	if filter.UserID != "" {
		q = q.Where("attempts.user_id = ?", filter.UserID)
	}
	if filter.TestingID != "" {
		q = q.Where("attempts.testing_id = ?", filter.TestingID)
	}
	if query != "" {
		p := containsPattern(query)
		q = q.Where("LOWER(testing.title) LIKE ? OR LOWER(testing.content) LIKE ?", p, p)
	}

	var attempts []model.Attempt
	err := q.Order(column + " ASC").Order("attempts.id ASC").Offset(offset).Limit(limit).Find(&attempts).Error
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	return attempts, nil
}

// PassedTestings returns, per user and testing, the best attempt that reached
// the testing's correct_percent.
func (r *AttemptRepository) PassedTestings(ctx context.Context) ([]PassedTesting, error) {
	var rows []PassedTesting
	err := r.DB.WithContext(ctx).Model(&model.Attempt{}).
		Select(`attempts.user_id AS user_id, attempts.testing_id AS testing_id,
			MAX(CASE WHEN attempts.total_answers = 0 THEN 0
				ELSE FLOOR(attempts.correct_answers * 100 / attempts.total_answers) END) AS best_percent`).
		Joins("JOIN testing ON testing.id = attempts.testing_id").
		Where("attempts.correct_answers * 100 >= testing.correct_percent * attempts.total_answers").
		Group("attempts.user_id, attempts.testing_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("passed testings: %w", err)
	}
	return rows, nil
}
