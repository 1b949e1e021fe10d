package service

import (
	"context"
	"sort"
	"time"

	"hr_recruit_backend/internal/model"
	"hr_recruit_backend/pkg/logger"
	"hr_recruit_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// ApprovedService reports candidates who passed every testing of a vacancy.
type ApprovedService struct {
	vacancies VacancyStore
	attempts  AttemptStore
	cache     ApprovedStore
}

func NewApprovedService(vacancies VacancyStore, attempts AttemptStore, cache ApprovedStore) *ApprovedService {
	return &ApprovedService{vacancies: vacancies, attempts: attempts, cache: cache}
}

// GetApprovedUsers serves the cached report, computing it on a miss.
func (s *ApprovedService) GetApprovedUsers(ctx context.Context, user *model.CurrentUser) ([]model.ApprovedRequest, error) {
	ctx, span := startSpan(ctx, "ApprovedService.GetApprovedUsers", user)
	defer span.End()

	if err := activeWith(user, model.PermGetUserTestResults); err != nil {
		return nil, err
	}

	if s.cache != nil {
		rows, ok, err := s.cache.Get(ctx)
		if err != nil {
			logger.Log.Warn("approved cache read failed", zap.Error(err))
		} else if ok {
			return rows, nil
		}
	}
	return s.Refresh(ctx)
}

// Refresh recomputes the report and stores it in the cache.
func (s *ApprovedService) Refresh(ctx context.Context) ([]model.ApprovedRequest, error) {
	start := time.Now()
	defer func() {
		monitoring.ApprovedRefreshDuration.Observe(time.Since(start).Seconds())
	}()

	vacancies, err := s.vacancies.ListWithTestings(ctx)
	if err != nil {
		return nil, err
	}
	passed, err := s.attempts.PassedTestings(ctx)
	if err != nil {
		return nil, err
	}

	// testing id -> user id -> best percent
	best := make(map[string]map[string]int)
	for _, p := range passed {
		if best[p.TestingID] == nil {
			best[p.TestingID] = make(map[string]int)
		}
		best[p.TestingID][p.UserID] = p.BestPercent
	}

	rows := make([]model.ApprovedRequest, 0)
	for i := range vacancies {
		rows = append(rows, approvedForVacancy(&vacancies[i], best)...)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, rows); err != nil {
			logger.Log.Warn("approved cache write failed", zap.Error(err))
		}
	}
	logger.Log.Debug("approved candidates recomputed",
		zap.Int("rows", len(rows)),
		zap.Duration("took", time.Since(start)),
	)
	return rows, nil
}

func approvedForVacancy(v *model.Vacancy, best map[string]map[string]int) []model.ApprovedRequest {
	if len(v.Testings) == 0 {
		return nil
	}

	candidates := make([]string, 0, len(best[v.Testings[0].ID]))
	for userID := range best[v.Testings[0].ID] {
		candidates = append(candidates, userID)
	}
	sort.Strings(candidates)

	var rows []model.ApprovedRequest
	for _, userID := range candidates {
		testings := make([]model.ApprovedTesting, 0, len(v.Testings))
		for _, t := range v.Testings {
			percent, ok := best[t.ID][userID]
			if !ok {
				break
			}
			testings = append(testings, model.ApprovedTesting{ID: t.ID, Title: t.Title, BestPercent: percent})
		}
		if len(testings) != len(v.Testings) {
			continue
		}
		rows = append(rows, model.ApprovedRequest{
			UserID:           userID,
			VacancyID:        v.ID,
			VacancyTitle:     v.Title,
			VacancyState:     v.State,
			VacancyType:      v.Type,
			VacancyCreatedAt: v.CreatedAt,
			Testings:         testings,
		})
	}
	return rows
}

// invalidateApproved drops the cached report after a write that changes which
// testings a vacancy has or what they require. The next read recomputes it.
func invalidateApproved(ctx context.Context, cache ApprovedStore, reason string) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx); err != nil {
		logger.Log.Warn("approved cache invalidation failed", zap.String("reason", reason), zap.Error(err))
	}
}
