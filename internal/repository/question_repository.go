package repository

import (
	"context"
	"errors"
	"fmt"

	"hr_recruit_backend/internal/model"

	"gorm.io/gorm"
)

// QuestionRepository stores both practical and theoretical questions.
type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) ListPractical(ctx context.Context, testingID string) ([]model.PracticalQuestion, error) {
	var questions []model.PracticalQuestion
	err := r.DB.WithContext(ctx).Where("testing_id = ?", testingID).Order("created_at ASC").Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("list practical questions of %s: %w", testingID, err)
	}
	return questions, nil
}

func (r *QuestionRepository) ListTheoretical(ctx context.Context, testingID string) ([]model.TheoreticalQuestion, error) {
	var questions []model.TheoreticalQuestion
	err := r.DB.WithContext(ctx).
		Preload("AnswerOptions", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("testing_id = ?", testingID).
		Order("created_at ASC").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("list theoretical questions of %s: %w", testingID, err)
	}
	return questions, nil
}

func (r *QuestionRepository) FindPractical(ctx context.Context, id string) (*model.PracticalQuestion, error) {
	var q model.PracticalQuestion
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find practical question %s: %w", id, err)
	}
	return &q, nil
}

func (r *QuestionRepository) FindTheoretical(ctx context.Context, id string) (*model.TheoreticalQuestion, error) {
	var q model.TheoreticalQuestion
	err := r.DB.WithContext(ctx).
		Preload("AnswerOptions", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("id = ?", id).
		First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find theoretical question %s: %w", id, err)
	}
	return &q, nil
}

func (r *QuestionRepository) CreatePractical(ctx context.Context, q *model.PracticalQuestion) error {
	if err := r.DB.WithContext(ctx).Create(q).Error; err != nil {
		return fmt.Errorf("create practical question: %w", err)
	}
	return nil
}

// CreateTheoretical inserts the question and its answer options.
func (r *QuestionRepository) CreateTheoretical(ctx context.Context, q *model.TheoreticalQuestion) error {
	if err := r.DB.WithContext(ctx).Create(q).Error; err != nil {
		return fmt.Errorf("create theoretical question: %w", err)
	}
	return nil
}

func (r *QuestionRepository) CreateAnswerOption(ctx context.Context, o *model.AnswerOption) error {
	if err := r.DB.WithContext(ctx).Create(o).Error; err != nil {
		return fmt.Errorf("create answer option: %w", err)
	}
	return nil
}

func (r *QuestionRepository) UpdatePractical(ctx context.Context, id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	err := r.DB.WithContext(ctx).Model(&model.PracticalQuestion{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return fmt.Errorf("update practical question %s: %w", id, err)
	}
	return nil
}

func (r *QuestionRepository) UpdateTheoretical(ctx context.Context, id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	err := r.DB.WithContext(ctx).Model(&model.TheoreticalQuestion{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return fmt.Errorf("update theoretical question %s: %w", id, err)
	}
	return nil
}

func (r *QuestionRepository) DeletePractical(ctx context.Context, id string) error {
	if err := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.PracticalQuestion{}).Error; err != nil {
		return fmt.Errorf("delete practical question %s: %w", id, err)
	}
	return nil
}

func (r *QuestionRepository) DeleteTheoretical(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&model.AnswerOption{}).Error; err != nil {
			return fmt.Errorf("delete options of question %s: %w", id, err)
		}
		if err := tx.Where("id = ?", id).Delete(&model.TheoreticalQuestion{}).Error; err != nil {
			return fmt.Errorf("delete theoretical question %s: %w", id, err)
		}
		return nil
	})
}
