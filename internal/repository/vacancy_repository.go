package repository

import (
	"context"
	"errors"
	"fmt"

	"hr_recruit_backend/internal/model"

	"gorm.io/gorm"
)

var vacancyOrderColumns = map[string]string{
	"title":      "title",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

type VacancyFilter struct {
	State model.VacancyState
	Query string
}

type VacancyRepository struct {
	DB *gorm.DB
}

func NewVacancyRepository(db *gorm.DB) *VacancyRepository {
	return &VacancyRepository{DB: db}
}

func (r *VacancyRepository) FindByID(ctx context.Context, id string) (*model.Vacancy, error) {
	var v model.Vacancy
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find vacancy %s: %w", id, err)
	}
	return &v, nil
}

func (r *VacancyRepository) List(ctx context.Context, filter VacancyFilter, offset, limit int, orderBy string) ([]model.Vacancy, error) {
	column, ok := vacancyOrderColumns[orderBy]
	if !ok {
		return nil, fmt.Errorf("unsupported vacancy order %q", orderBy)
	}

	q := r.DB.WithContext(ctx).Model(&model.Vacancy{}).Where("state = ?", filter.State)
	if filter.Query != "" {
		p := containsPattern(filter.Query)
		q = q.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", p, p)
	}

	var vacancies []model.Vacancy
	err := q.Order(column + " ASC").Offset(offset).Limit(limit).Find(&vacancies).Error
	if err != nil {
		return nil, fmt.Errorf("list vacancies: %w", err)
	}
	return vacancies, nil
}

// ListWithTestings returns every vacancy that has at least one testing,
// with its testings loaded.
func (r *VacancyRepository) ListWithTestings(ctx context.Context) ([]model.Vacancy, error) {
	var vacancies []model.Vacancy
	err := r.DB.WithContext(ctx).
		Where("EXISTS (SELECT 1 FROM testing WHERE testing.vacancy_id = vacancies.id)").
		Preload("Testings").
		Order("created_at ASC").
		Find(&vacancies).Error
	if err != nil {
		return nil, fmt.Errorf("list vacancies with testings: %w", err)
	}
	return vacancies, nil
}

func (r *VacancyRepository) Create(ctx context.Context, v *model.Vacancy) error {
	if err := r.DB.WithContext(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("create vacancy: %w", err)
	}
	return nil
}

func (r *VacancyRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	err := r.DB.WithContext(ctx).Model(&model.Vacancy{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return fmt.Errorf("update vacancy %s: %w", id, err)
	}
	return nil
}

// Delete removes the vacancy with its files, testings, questions and attempts.
func (r *VacancyRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		testingIDs := tx.Model(&model.Testing{}).Select("id").Where("vacancy_id = ?", id)
		if err := deleteTestingChildren(tx, testingIDs); err != nil {
			return err
		}
		if err := tx.Where("vacancy_id = ?", id).Delete(&model.Testing{}).Error; err != nil {
			return fmt.Errorf("delete testings of vacancy %s: %w", id, err)
		}
		if err := tx.Where("vacancy_id = ?", id).Delete(&model.VacancyFile{}).Error; err != nil {
			return fmt.Errorf("delete files of vacancy %s: %w", id, err)
		}
		if err := tx.Where("id = ?", id).Delete(&model.Vacancy{}).Error; err != nil {
			return fmt.Errorf("delete vacancy %s: %w", id, err)
		}
		return nil
	})
}
