package repository

import (
	"context"
	"errors"
	"fmt"

	"hr_recruit_backend/internal/model"

	"gorm.io/gorm"
)

type VacancyFileRepository struct {
	DB *gorm.DB
}

func NewVacancyFileRepository(db *gorm.DB) *VacancyFileRepository {
	return &VacancyFileRepository{DB: db}
}

func (r *VacancyFileRepository) FindByID(ctx context.Context, id string) (*model.VacancyFile, error) {
	var f model.VacancyFile
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find vacancy file %s: %w", id, err)
	}
	return &f, nil
}

func (r *VacancyFileRepository) ListByVacancy(ctx context.Context, vacancyID string) ([]model.VacancyFile, error) {
	var files []model.VacancyFile
	err := r.DB.WithContext(ctx).Where("vacancy_id = ?", vacancyID).Order("created_at ASC").Find(&files).Error
	if err != nil {
		return nil, fmt.Errorf("list files of vacancy %s: %w", vacancyID, err)
	}
	return files, nil
}

func (r *VacancyFileRepository) Create(ctx context.Context, f *model.VacancyFile) error {
	if err := r.DB.WithContext(ctx).Create(f).Error; err != nil {
		return fmt.Errorf("create vacancy file: %w", err)
	}
	return nil
}

func (r *VacancyFileRepository) MarkUploaded(ctx context.Context, id string) error {
	err := r.DB.WithContext(ctx).Model(&model.VacancyFile{}).Where("id = ?", id).Update("is_uploaded", true).Error
	if err != nil {
		return fmt.Errorf("confirm vacancy file %s: %w", id, err)
	}
	return nil
}

// Delete removes the file row and clears the vacancy poster if it pointed at it.
func (r *VacancyFileRepository) Delete(ctx context.Context, f *model.VacancyFile) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Vacancy{}).
			Where("id = ? AND poster = ?", f.VacancyID, f.ID).
			Update("poster", nil).Error
		if err != nil {
			return fmt.Errorf("clear poster of vacancy %s: %w", f.VacancyID, err)
		}
		if err := tx.Where("id = ?", f.ID).Delete(&model.VacancyFile{}).Error; err != nil {
			return fmt.Errorf("delete vacancy file %s: %w", f.ID, err)
		}
		return nil
	})
}
