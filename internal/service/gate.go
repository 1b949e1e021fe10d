package service

import (
	"context"

	"hr_recruit_backend/internal/model"
	"hr_recruit_backend/internal/util"
)

// vacancyGate resolves a testing to its vacancy and insists the vacancy is
// open for testing.
type vacancyGate struct {
	testings  TestingStore
	vacancies VacancyStore
}

func (g vacancyGate) ensureOpenVacancyForTesting(ctx context.Context, testingID string) (*model.Testing, *model.Vacancy, error) {
	testing, err := g.testings.FindByID(ctx, testingID)
	if err != nil {
		return nil, nil, err
	}
	if testing == nil {
		return nil, nil, util.NotFoundf("testing with id:%s not found", testingID)
	}

	vacancy, err := g.ensureOpenVacancy(ctx, testing.VacancyID)
	if err != nil {
		return nil, nil, err
	}
	return testing, vacancy, nil
}

func (g vacancyGate) ensureOpenVacancy(ctx context.Context, vacancyID string) (*model.Vacancy, error) {
	vacancy, err := g.vacancies.FindByID(ctx, vacancyID)
	if err != nil {
		return nil, err
	}
	if vacancy == nil {
		return nil, util.NotFoundf("vacancy with id:%s not found", vacancyID)
	}
	if !vacancy.IsOpened() {
		return nil, util.BadRequestf("vacancy with id:%s is not opened", vacancyID)
	}
	return vacancy, nil
}
