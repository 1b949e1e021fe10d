package service

import (
	"context"
	"errors"
	"unicode/utf8"

	"hr_recruit_backend/internal/model"
	"hr_recruit_backend/internal/repository"
	"hr_recruit_backend/internal/util"
	"hr_recruit_backend/pkg/logger"
	"hr_recruit_backend/pkg/monitoring"
	"hr_recruit_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	maxTitleLen   = 255
	maxContentLen = 32000
)

var attemptOrders = map[string]bool{"title": true, "created_at": true}

type TestingCreateRequest struct {
	Title          string         `json:"title" binding:"required"`
	Content        string         `json:"content"`
	Type           model.TestType `json:"type"`
	CorrectPercent int            `json:"correct_percent"`
}

// TestingUpdateRequest changes only the fields that are present.
type TestingUpdateRequest struct {
	Title          *string         `json:"title"`
	Content        *string         `json:"content"`
	Type           *model.TestType `json:"type"`
	CorrectPercent *int            `json:"correct_percent"`
}

// AttemptQuery selects a page of attempts.
type AttemptQuery struct {
	Page    int
	PerPage int
	OrderBy string
	Query   string
	UserID  string
}

type TestingService struct {
	gate      vacancyGate
	testings  TestingStore
	vacancies VacancyStore
	questions QuestionStore
	attempts  AttemptStore
	anchors   AnchorStore
	deadline  *DeadlinePolicy
	approved  ApprovedStore
}

func NewTestingService(
	testings TestingStore,
	vacancies VacancyStore,
	questions QuestionStore,
	attempts AttemptStore,
	anchors AnchorStore,
	deadline *DeadlinePolicy,
	approved ApprovedStore,
) *TestingService {
	return &TestingService{
		gate:      vacancyGate{testings: testings, vacancies: vacancies},
		testings:  testings,
		vacancies: vacancies,
		questions: questions,
		attempts:  attempts,
		anchors:   anchors,
		deadline:  deadline,
		approved:  approved,
	}
}

func startSpan(ctx context.Context, name string, user *model.CurrentUser, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if user != nil {
		attrs = append(attrs, attribute.String("user.id", user.ID))
	}
	return tracing.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartPracticalTesting hands the practical questions of a testing to a
// candidate. Reference answers are blanked out.
func (s *TestingService) StartPracticalTesting(ctx context.Context, user *model.CurrentUser, testingID string) ([]model.PracticalQuestion, error) {
	ctx, span := startSpan(ctx, "TestingService.StartPracticalTesting", user, attribute.String("testing.id", testingID))
	defer span.End()

	testing, err := s.prepareAttempt(ctx, user, model.PermStartTesting, testingID)
	if err != nil {
		return nil, err
	}

	questions, err := s.questions.ListPractical(ctx, testing.ID)
	if err != nil {
		return nil, err
	}
	for i := range questions {
		questions[i].Answer = ""
	}

	monitoring.TestingsStarted.WithLabelValues(model.TestPractical.String()).Inc()
	return questions, nil
}

// StartTheoreticalTesting hands out theoretical questions with their options,
// hiding which option is correct.
func (s *TestingService) StartTheoreticalTesting(ctx context.Context, user *model.CurrentUser, testingID string) ([]model.TheoreticalQuestion, error) {
	ctx, span := startSpan(ctx, "TestingService.StartTheoreticalTesting", user, attribute.String("testing.id", testingID))
	defer span.End()

	testing, err := s.prepareAttempt(ctx, user, model.PermStartTesting, testingID)
	if err != nil {
		return nil, err
	}

	questions, err := s.questions.ListTheoretical(ctx, testing.ID)
	if err != nil {
		return nil, err
	}
	for i := range questions {
		for j := range questions[i].AnswerOptions {
			questions[i].AnswerOptions[j].IsCorrect = false
		}
	}

	monitoring.TestingsStarted.WithLabelValues(model.TestTheoretical.String()).Inc()
	return questions, nil
}

// CompleteTheoreticalTesting records an attempt. Answers are accepted but
// not graded yet, so correct_answers is always 0.
func (s *TestingService) CompleteTheoreticalTesting(ctx context.Context, user *model.CurrentUser, testingID string, answers []model.AnswerToTheoreticalQuestion) (*model.Attempt, error) {
	ctx, span := startSpan(ctx, "TestingService.CompleteTheoreticalTesting", user, attribute.String("testing.id", testingID))
	defer span.End()

	testing, err := s.prepareAttempt(ctx, user, model.PermCompleteTesting, testingID)
	if err != nil {
		return nil, err
	}

	questions, err := s.questions.ListTheoretical(ctx, testing.ID)
	if err != nil {
		return nil, err
	}

	return s.recordAttempt(ctx, user, testing, len(questions), len(answers))
}

func (s *TestingService) CompletePracticalTesting(ctx context.Context, user *model.CurrentUser, testingID string, answers []model.AnswerToPracticalQuestion) (*model.Attempt, error) {
	ctx, span := startSpan(ctx, "TestingService.CompletePracticalTesting", user, attribute.String("testing.id", testingID))
	defer span.End()

	testing, err := s.prepareAttempt(ctx, user, model.PermCompleteTesting, testingID)
	if err != nil {
		return nil, err
	}

	questions, err := s.questions.ListPractical(ctx, testing.ID)
	if err != nil {
		return nil, err
	}

	return s.recordAttempt(ctx, user, testing, len(questions), len(answers))
}

// prepareAttempt runs guard, vacancy gate and deadline, in that order.
func (s *TestingService) prepareAttempt(ctx context.Context, user *model.CurrentUser, perm model.Permission, testingID string) (*model.Testing, error) {
	if err := activeWith(user, perm); err != nil {
		return nil, err
	}
	testing, vacancy, err := s.gate.ensureOpenVacancyForTesting(ctx, testingID)
	if err != nil {
		return nil, err
	}
	if err := s.deadline.Check(ctx, user.ID, testing.ID, vacancy.TestTime); err != nil {
		return nil, err
	}
	return testing, nil
}

func (s *TestingService) recordAttempt(ctx context.Context, user *model.CurrentUser, testing *model.Testing, total, submitted int) (*model.Attempt, error) {
	attempt := &model.Attempt{
		UserID:         user.ID,
		TestingID:      testing.ID,
		CorrectAnswers: 0,
		TotalAnswers:   total,
	}
	if err := s.attempts.CreateGuarded(ctx, attempt, testing.VacancyID); err != nil {
		if errors.Is(err, repository.ErrVacancyNotOpened) {
			return nil, util.BadRequestf("vacancy with id:%s is not opened", testing.VacancyID)
		}
		return nil, err
	}
	attempt.Test = testing

	monitoring.AttemptsCompleted.WithLabelValues(testing.Type.String()).Inc()
	logger.Log.Info("attempt recorded",
		zap.String("attempt_id", attempt.ID),
		zap.String("user_id", user.ID),
		zap.String("testing_id", testing.ID),
		zap.Int("total_answers", total),
		zap.Int("submitted_answers", submitted),
	)
	return attempt, nil
}

// GetTestAttempts lists the caller's own attempts, optionally for one testing.
func (s *TestingService) GetTestAttempts(ctx context.Context, user *model.CurrentUser, testingID string, page, perPage int, orderBy string) ([]model.Attempt, error) {
	ctx, span := startSpan(ctx, "TestingService.GetTestAttempts", user)
	defer span.End()

	if err := activeWith(user, model.PermGetSelfTestResults); err != nil {
		return nil, err
	}
	pg, err := attemptPage(page, perPage, orderBy)
	if err != nil {
		return nil, err
	}
	filter := repository.AttemptFilter{UserID: user.ID, TestingID: testingID}
	return s.attempts.List(ctx, filter, pg.Offset, pg.PerPage, orderBy)
}

// GetUserAttempts lists attempts of all users, or of q.UserID, for HR.
func (s *TestingService) GetUserAttempts(ctx context.Context, user *model.CurrentUser, q AttemptQuery) ([]model.Attempt, error) {
	ctx, span := startSpan(ctx, "TestingService.GetUserAttempts", user)
	defer span.End()

	if err := activeWith(user, model.PermGetUserTestResults); err != nil {
		return nil, err
	}
	pg, err := attemptPage(q.Page, q.PerPage, q.OrderBy)
	if err != nil {
		return nil, err
	}
	filter := repository.AttemptFilter{UserID: q.UserID}
	if q.Query != "" {
		return s.attempts.Search(ctx, filter, q.Query, pg.Offset, pg.PerPage, q.OrderBy)
	}
	return s.attempts.List(ctx, filter, pg.Offset, pg.PerPage, q.OrderBy)
}

func attemptPage(page, perPage int, orderBy string) (util.Page, error) {
	pg, err := util.NewPage(page, perPage)
	if err != nil {
		return util.Page{}, err
	}
	if !attemptOrders[orderBy] {
		return util.Page{}, util.BadRequestf("cannot order attempts by %q", orderBy)
	}
	return pg, nil
}

func (s *TestingService) CreateTesting(ctx context.Context, user *model.CurrentUser, vacancyID string, req TestingCreateRequest) (*model.Testing, error) {
	if err := activeWith(user, model.PermCreateTesting); err != nil {
		return nil, err
	}
	if _, err := s.gate.ensureOpenVacancy(ctx, vacancyID); err != nil {
		return nil, err
	}
	if err := validateTesting(&req.Title, &req.Content, &req.Type, &req.CorrectPercent); err != nil {
		return nil, err
	}

	testing := &model.Testing{
		VacancyID:      vacancyID,
		Title:          req.Title,
		Content:        req.Content,
		Type:           req.Type,
		CorrectPercent: req.CorrectPercent,
	}
	if err := s.testings.Create(ctx, testing); err != nil {
		return nil, err
	}
	invalidateApproved(ctx, s.approved, "testing created")
	logger.Log.Info("testing created", zap.String("testing_id", testing.ID), zap.String("vacancy_id", vacancyID))
	return testing, nil
}

func (s *TestingService) UpdateTesting(ctx context.Context, user *model.CurrentUser, testingID string, req TestingUpdateRequest) (*model.Testing, error) {
	if err := activeWith(user, model.PermUpdateTesting); err != nil {
		return nil, err
	}
	if _, _, err := s.gate.ensureOpenVacancyForTesting(ctx, testingID); err != nil {
		return nil, err
	}
	if err := validateTesting(req.Title, req.Content, req.Type, req.CorrectPercent); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.CorrectPercent != nil {
		updates["correct_percent"] = *req.CorrectPercent
	}
	if err := s.testings.Update(ctx, testingID, updates); err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		invalidateApproved(ctx, s.approved, "testing updated")
	}
	return s.testings.FindByID(ctx, testingID)
}

// DeleteTesting removes the testing with its questions and attempts.
func (s *TestingService) DeleteTesting(ctx context.Context, user *model.CurrentUser, testingID string) error {
	if err := activeWith(user, model.PermDeleteTesting); err != nil {
		return err
	}
	if _, _, err := s.gate.ensureOpenVacancyForTesting(ctx, testingID); err != nil {
		return err
	}
	if err := s.testings.Delete(ctx, testingID); err != nil {
		return err
	}
	if s.anchors != nil {
		if err := s.anchors.DropTesting(ctx, testingID); err != nil {
			logger.Log.Warn("drop cached anchors failed", zap.String("testing_id", testingID), zap.Error(err))
		}
	}
	invalidateApproved(ctx, s.approved, "testing deleted")
	logger.Log.Info("testing deleted", zap.String("testing_id", testingID))
	return nil
}

func (s *TestingService) GetTesting(ctx context.Context, user *model.CurrentUser, testingID string) (*model.Testing, error) {
	if err := activeWith(user, model.PermGetTesting); err != nil {
		return nil, err
	}
	testing, _, err := s.gate.ensureOpenVacancyForTesting(ctx, testingID)
	return testing, err
}

// GetTestings lists the testings of a vacancy whatever its state.
func (s *TestingService) GetTestings(ctx context.Context, user *model.CurrentUser, vacancyID string) ([]model.Testing, error) {
	if err := activeWith(user, model.PermGetTesting); err != nil {
		return nil, err
	}
	return s.testings.ListByVacancy(ctx, vacancyID)
}

// validateTesting checks the fields that are set. Nil pointers are skipped.
func validateTesting(title, content *string, typ *model.TestType, correctPercent *int) error {
	if title != nil {
		if *title == "" {
			return util.BadRequestf("title must not be empty")
		}
		if utf8.RuneCountInString(*title) > maxTitleLen {
			return util.BadRequestf("title must be at most %d characters", maxTitleLen)
		}
	}
	if content != nil && utf8.RuneCountInString(*content) > maxContentLen {
		return util.BadRequestf("content must be at most %d characters", maxContentLen)
	}
	if typ != nil && *typ != model.TestTheoretical && *typ != model.TestPractical {
		return util.BadRequestf("unknown testing type %d", *typ)
	}
	if correctPercent != nil && (*correctPercent < 0 || *correctPercent > 100) {
		return util.BadRequestf("correct_percent must be between 0 and 100")
	}
	return nil
}
