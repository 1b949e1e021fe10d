package service

import (
	"context"
	"time"

	"hr_recruit_backend/internal/model"
	"hr_recruit_backend/internal/repository"
)

// The services depend on these narrow views of the repositories so each
// storage adapter can be swapped or faked.

type VacancyStore interface {
	FindByID(ctx context.Context, id string) (*model.Vacancy, error)
	List(ctx context.Context, filter repository.VacancyFilter, offset, limit int, orderBy string) ([]model.Vacancy, error)
	ListWithTestings(ctx context.Context) ([]model.Vacancy, error)
	Create(ctx context.Context, v *model.Vacancy) error
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type VacancyFileStore interface {
	FindByID(ctx context.Context, id string) (*model.VacancyFile, error)
	ListByVacancy(ctx context.Context, vacancyID string) ([]model.VacancyFile, error)
	Create(ctx context.Context, f *model.VacancyFile) error
	MarkUploaded(ctx context.Context, id string) error
	Delete(ctx context.Context, f *model.VacancyFile) error
}

type TestingStore interface {
	FindByID(ctx context.Context, id string) (*model.Testing, error)
	ListByVacancy(ctx context.Context, vacancyID string) ([]model.Testing, error)
	Create(ctx context.Context, t *model.Testing) error
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type QuestionStore interface {
	ListPractical(ctx context.Context, testingID string) ([]model.PracticalQuestion, error)
	ListTheoretical(ctx context.Context, testingID string) ([]model.TheoreticalQuestion, error)
	FindPractical(ctx context.Context, id string) (*model.PracticalQuestion, error)
	FindTheoretical(ctx context.Context, id string) (*model.TheoreticalQuestion, error)
	CreatePractical(ctx context.Context, q *model.PracticalQuestion) error
	CreateTheoretical(ctx context.Context, q *model.TheoreticalQuestion) error
	CreateAnswerOption(ctx context.Context, o *model.AnswerOption) error
	UpdatePractical(ctx context.Context, id string, updates map[string]interface{}) error
	UpdateTheoretical(ctx context.Context, id string, updates map[string]interface{}) error
	DeletePractical(ctx context.Context, id string) error
	DeleteTheoretical(ctx context.Context, id string) error
}

type AttemptStore interface {
	FindFirst(ctx context.Context, userID, testingID string) (*model.Attempt, error)
	CreateGuarded(ctx context.Context, a *model.Attempt, vacancyID string) error
	List(ctx context.Context, filter repository.AttemptFilter, offset, limit int, orderBy string) ([]model.Attempt, error)
	Search(ctx context.Context, filter repository.AttemptFilter, query string, offset, limit int, orderBy string) ([]model.Attempt, error)
	PassedTestings(ctx context.Context) ([]repository.PassedTesting, error)
}

type AnchorStore interface {
	Get(ctx context.Context, userID, testingID string) (time.Time, bool, error)
	Set(ctx context.Context, userID, testingID string, anchor time.Time) error
	DropTesting(ctx context.Context, testingID string) error
}

type ApprovedStore interface {
	Get(ctx context.Context) ([]model.ApprovedRequest, bool, error)
	Set(ctx context.Context, rows []model.ApprovedRequest) error
	Invalidate(ctx context.Context) error
}
