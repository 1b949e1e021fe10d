package service

import (
	"context"
	"unicode/utf8"

	"hr_recruit_backend/internal/model"
	"hr_recruit_backend/internal/util"
)

const (
	maxAnswerLen = 255
	maxOptionLen = 320
)

type PracticalQuestionRequest struct {
	Content  string                `json:"content" binding:"required"`
	Language model.ProgramLanguage `json:"language" binding:"required"`
	Answer   string                `json:"answer"`
}

type PracticalQuestionUpdateRequest struct {
	Content  *string                `json:"content"`
	Language *model.ProgramLanguage `json:"language"`
	Answer   *string                `json:"answer"`
}

type AnswerOptionRequest struct {
	Content   string `json:"content" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type TheoreticalQuestionRequest struct {
	Content       string                `json:"content" binding:"required"`
	AnswerOptions []AnswerOptionRequest `json:"answer_options"`
}

type TheoreticalQuestionUpdateRequest struct {
	Content *string `json:"content"`
}

// QuestionService manages the questions of testings. Every write goes through
// the same vacancy gate as the candidate operations.
type QuestionService struct {
	gate      vacancyGate
	testings  TestingStore
	questions QuestionStore
}

func NewQuestionService(testings TestingStore, vacancies VacancyStore, questions QuestionStore) *QuestionService {
	return &QuestionService{
		gate:      vacancyGate{testings: testings, vacancies: vacancies},
		testings:  testings,
		questions: questions,
	}
}

func (s *QuestionService) CreatePracticalQuestion(ctx context.Context, user *model.CurrentUser, testingID string, req PracticalQuestionRequest) (*model.PracticalQuestion, error) {
	if err := activeWith(user, model.PermCreateTesting); err != nil {
		return nil, err
	}
	if _, _, err := s.gate.ensureOpenVacancyForTesting(ctx, testingID); err != nil {
		return nil, err
	}
	if err := validatePractical(&req.Content, &req.Language, &req.Answer); err != nil {
		return nil, err
	}

	q := &model.PracticalQuestion{
		TestingID: testingID,
		Content:   req.Content,
		Language:  req.Language,
		Answer:    req.Answer,
	}
	if err := s.questions.CreatePractical(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) CreateTheoreticalQuestion(ctx context.Context, user *model.CurrentUser, testingID string, req TheoreticalQuestionRequest) (*model.TheoreticalQuestion, error) {
	if err := activeWith(user, model.PermCreateTesting); err != nil {
		return nil, err
	}
	if _, _, err := s.gate.ensureOpenVacancyForTesting(ctx, testingID); err != nil {
		return nil, err
	}
	if err := validateQuestionContent(req.Content); err != nil {
		return nil, err
	}

	q := &model.TheoreticalQuestion{TestingID: testingID, Content: req.Content}
	for _, o := range req.AnswerOptions {
		if err := validateOptionContent(o.Content); err != nil {
			return nil, err
		}
		q.AnswerOptions = append(q.AnswerOptions, model.AnswerOption{Content: o.Content, IsCorrect: o.IsCorrect})
	}
	if err := s.questions.CreateTheoretical(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// CreateAnswerOption adds an option and returns the question with all options.
func (s *QuestionService) CreateAnswerOption(ctx context.Context, user *model.CurrentUser, questionID string, req AnswerOptionRequest) (*model.TheoreticalQuestion, error) {
	if err := activeWith(user, model.PermCreateTesting); err != nil {
		return nil, err
	}
	q, err := s.findTheoretical(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.gate.ensureOpenVacancyForTesting(ctx, q.TestingID); err != nil {
		return nil, err
	}
	if err := validateOptionContent(req.Content); err != nil {
		return nil, err
	}

	option := &model.AnswerOption{QuestionID: q.ID, Content: req.Content, IsCorrect: req.IsCorrect}
	if err := s.questions.CreateAnswerOption(ctx, option); err != nil {
		return nil, err
	}
	return s.findTheoretical(ctx, questionID)
}

func (s *QuestionService) GetPracticalQuestion(ctx context.Context, user *model.CurrentUser, questionID string) (*model.PracticalQuestion, error) {
	if err := activeWith(user, model.PermUpdateTesting); err != nil {
		return nil, err
	}
	return s.findPractical(ctx, questionID)
}

func (s *QuestionService) GetTheoreticalQuestion(ctx context.Context, user *model.CurrentUser, questionID string) (*model.TheoreticalQuestion, error) {
	if err := activeWith(user, model.PermUpdateTesting); err != nil {
		return nil, err
	}
	return s.findTheoretical(ctx, questionID)
}

// GetPracticalQuestions lists questions with reference answers, for HR.
func (s *QuestionService) GetPracticalQuestions(ctx context.Context, user *model.CurrentUser, testingID string) ([]model.PracticalQuestion, error) {
	if err := activeWith(user, model.PermUpdateTesting); err != nil {
		return nil, err
	}
	if err := s.ensureTesting(ctx, testingID); err != nil {
		return nil, err
	}
	return s.questions.ListPractical(ctx, testingID)
}

func (s *QuestionService) GetTheoreticalQuestions(ctx context.Context, user *model.CurrentUser, testingID string) ([]model.TheoreticalQuestion, error) {
	if err := activeWith(user, model.PermUpdateTesting); err != nil {
		return nil, err
	}
	if err := s.ensureTesting(ctx, testingID); err != nil {
		return nil, err
	}
	return s.questions.ListTheoretical(ctx, testingID)
}

func (s *QuestionService) UpdatePracticalQuestion(ctx context.Context, user *model.CurrentUser, questionID string, req PracticalQuestionUpdateRequest) (*model.PracticalQuestion, error) {
	if err := activeWith(user, model.PermUpdateTesting); err != nil {
		return nil, err
	}
	q, err := s.findPractical(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.gate.ensureOpenVacancyForTesting(ctx, q.TestingID); err != nil {
		return nil, err
	}
	if err := validatePractical(req.Content, req.Language, req.Answer); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.Language != nil {
		updates["language"] = *req.Language
	}
	if req.Answer != nil {
		updates["answer"] = *req.Answer
	}
	if err := s.questions.UpdatePractical(ctx, questionID, updates); err != nil {
		return nil, err
	}
	return s.findPractical(ctx, questionID)
}

func (s *QuestionService) UpdateTheoreticalQuestion(ctx context.Context, user *model.CurrentUser, questionID string, req TheoreticalQuestionUpdateRequest) (*model.TheoreticalQuestion, error) {
	if err := activeWith(user, model.PermUpdateTesting); err != nil {
		return nil, err
	}
	q, err := s.findTheoretical(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.gate.ensureOpenVacancyForTesting(ctx, q.TestingID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Content != nil {
		if err := validateQuestionContent(*req.Content); err != nil {
			return nil, err
		}
		updates["content"] = *req.Content
	}
	if err := s.questions.UpdateTheoretical(ctx, questionID, updates); err != nil {
		return nil, err
	}
	return s.findTheoretical(ctx, questionID)
}

func (s *QuestionService) DeletePracticalQuestion(ctx context.Context, user *model.CurrentUser, questionID string) error {
	if err := activeWith(user, model.PermDeleteTesting); err != nil {
		return err
	}
	q, err := s.findPractical(ctx, questionID)
	if err != nil {
		return err
	}
	if _, _, err := s.gate.ensureOpenVacancyForTesting(ctx, q.TestingID); err != nil {
		return err
	}
	return s.questions.DeletePractical(ctx, questionID)
}

// DeleteTheoreticalQuestion also removes the question's answer options.
func (s *QuestionService) DeleteTheoreticalQuestion(ctx context.Context, user *model.CurrentUser, questionID string) error {
	if err := activeWith(user, model.PermDeleteTesting); err != nil {
		return err
	}
	q, err := s.findTheoretical(ctx, questionID)
	if err != nil {
		return err
	}
	if _, _, err := s.gate.ensureOpenVacancyForTesting(ctx, q.TestingID); err != nil {
		return err
	}
	return s.questions.DeleteTheoretical(ctx, questionID)
}

func (s *QuestionService) ensureTesting(ctx context.Context, testingID string) error {
	testing, err := s.testings.FindByID(ctx, testingID)
	if err != nil {
		return err
	}
	if testing == nil {
		return util.NotFoundf("testing with id:%s not found", testingID)
	}
	return nil
}

func (s *QuestionService) findPractical(ctx context.Context, id string) (*model.PracticalQuestion, error) {
	q, err := s.questions.FindPractical(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, util.NotFoundf("question with id:%s not found", id)
	}
	return q, nil
}

func (s *QuestionService) findTheoretical(ctx context.Context, id string) (*model.TheoreticalQuestion, error) {
	q, err := s.questions.FindTheoretical(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, util.NotFoundf("question with id:%s not found", id)
	}
	return q, nil
}

func validateQuestionContent(content string) error {
	if content == "" {
		return util.BadRequestf("content must not be empty")
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return util.BadRequestf("content must be at most %d characters", maxContentLen)
	}
	return nil
}

func validateOptionContent(content string) error {
	if content == "" {
		return util.BadRequestf("answer option must not be empty")
	}
	if utf8.RuneCountInString(content) > maxOptionLen {
		return util.BadRequestf("answer option must be at most %d characters", maxOptionLen)
	}
	return nil
}

func validatePractical(content *string, language *model.ProgramLanguage, answer *string) error {
	if content != nil {
		if err := validateQuestionContent(*content); err != nil {
			return err
		}
	}
	if language != nil && !language.Valid() {
		return util.BadRequestf("unsupported language %q", *language)
	}
	if answer != nil && utf8.RuneCountInString(*answer) > maxAnswerLen {
		return util.BadRequestf("answer must be at most %d characters", maxAnswerLen)
	}
	return nil
}
