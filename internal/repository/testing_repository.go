package repository

import (
	"context"
	"errors"
	"fmt"

	"hr_recruit_backend/internal/model"

	"gorm.io/gorm"
)

type TestingRepository struct {
	DB *gorm.DB
}

func NewTestingRepository(db *gorm.DB) *TestingRepository {
	return &TestingRepository{DB: db}
}

func (r *TestingRepository) FindByID(ctx context.Context, id string) (*model.Testing, error) {
	var t model.Testing
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find testing %s: %w", id, err)
	}
	return &t, nil
}

func (r *TestingRepository) ListByVacancy(ctx context.Context, vacancyID string) ([]model.Testing, error) {
	var testings []model.Testing
	err := r.DB.WithContext(ctx).Where("vacancy_id = ?", vacancyID).Order("created_at ASC").Find(&testings).Error
	if err != nil {
		return nil, fmt.Errorf("list testings of vacancy %s: %w", vacancyID, err)
	}
	return testings, nil
}

func (r *TestingRepository) Create(ctx context.Context, t *model.Testing) error {
	if err := r.DB.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("create testing: %w", err)
	}
	return nil
}

func (r *TestingRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	err := r.DB.WithContext(ctx).Model(&model.Testing{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return fmt.Errorf("update testing %s: %w", id, err)
	}
	return nil
}

// Delete removes the testing together with its questions, answer options and
// attempts in one transaction.
func (r *TestingRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteTestingChildren(tx, []string{id}); err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).Delete(&model.Testing{}).Error; err != nil {
			return fmt.Errorf("delete testing %s: %w", id, err)
		}
		return nil
	})
}

// deleteTestingChildren deletes everything hanging off the given testings.
// testingIDs is either a slice of ids or a subquery selecting them.
func deleteTestingChildren(tx *gorm.DB, testingIDs interface{}) error {
	questionIDs := tx.Model(&model.TheoreticalQuestion{}).Select("id").Where("testing_id IN (?)", testingIDs)
	if err := tx.Where("question_id IN (?)", questionIDs).Delete(&model.AnswerOption{}).Error; err != nil {
		return fmt.Errorf("delete answer options: %w", err)
	}
	if err := tx.Where("testing_id IN (?)", testingIDs).Delete(&model.TheoreticalQuestion{}).Error; err != nil {
		return fmt.Errorf("delete theoretical questions: %w", err)
	}
	if err := tx.Where("testing_id IN (?)", testingIDs).Delete(&model.PracticalQuestion{}).Error; err != nil {
		return fmt.Errorf("delete practical questions: %w", err)
	}
	if err := tx.Where("testing_id IN (?)", testingIDs).Delete(&model.Attempt{}).Error; err != nil {
		return fmt.Errorf("delete attempts: %w", err)
	}
	return nil
}
