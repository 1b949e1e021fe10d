package service

import (
	"context"
	"unicode/utf8"

	"hr_recruit_backend/internal/model"
	"hr_recruit_backend/internal/repository"
	"hr_recruit_backend/internal/util"
	"hr_recruit_backend/pkg/logger"

	"go.uber.org/zap"
)

var vacancyOrders = map[string]bool{"title": true, "updated_at": true, "created_at": true}

type VacancyCreateRequest struct {
	Title    string             `json:"title" binding:"required"`
	Content  string             `json:"content" binding:"required"`
	Type     *model.VacancyType `json:"type"`
	State    model.VacancyState `json:"state"`
	TestTime int                `json:"test_time"`
}

type VacancyUpdateRequest struct {
	Title    *string             `json:"title"`
	Content  *string             `json:"content"`
	Type     *model.VacancyType  `json:"type"`
	State    *model.VacancyState `json:"state"`
	TestTime *int                `json:"test_time"`
}

type VacancyQuery struct {
	State   model.VacancyState
	Page    int
	PerPage int
	OrderBy string
	Query   string
}

type VacancyFileCreateRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// VacancyFileItem is an uploaded attachment with a link to fetch it.
type VacancyFileItem struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	URL         string `json:"url"`
}

type VacancyFileUpload struct {
	FileID    string         `json:"file_id"`
	UploadURL *PresignedPost `json:"upload_url"`
}

type VacancyService struct {
	vacancies VacancyStore
	files     VacancyFileStore
	storage   StorageProvider
	approved  ApprovedStore
}

func NewVacancyService(vacancies VacancyStore, files VacancyFileStore, storage StorageProvider, approved ApprovedStore) *VacancyService {
	return &VacancyService{vacancies: vacancies, files: files, storage: storage, approved: approved}
}

// canView applies the visibility rule: opened vacancies are public, every
// other state is private.
func canView(user *model.CurrentUser, state model.VacancyState) error {
	if state == model.VacancyOpened {
		return Check(user, HasPermission(model.PermGetPublicVacancy))
	}
	return Check(user, HasPermission(model.PermGetPrivateVacancy))
}

func (s *VacancyService) GetVacancies(ctx context.Context, user *model.CurrentUser, q VacancyQuery) ([]model.Vacancy, error) {
	pg, err := util.NewPage(q.Page, q.PerPage)
	if err != nil {
		return nil, err
	}
	if err := canView(user, q.State); err != nil {
		return nil, err
	}
	if !vacancyOrders[q.OrderBy] {
		return nil, util.BadRequestf("cannot order vacancies by %q", q.OrderBy)
	}
	filter := repository.VacancyFilter{State: q.State, Query: q.Query}
	return s.vacancies.List(ctx, filter, pg.Offset, pg.PerPage, q.OrderBy)
}

func (s *VacancyService) GetVacancy(ctx context.Context, user *model.CurrentUser, vacancyID string) (*model.Vacancy, error) {
	vacancy, err := s.findVacancy(ctx, vacancyID)
	if err != nil {
		return nil, err
	}
	if err := canView(user, vacancy.State); err != nil {
		return nil, err
	}
	return vacancy, nil
}

func (s *VacancyService) CreateVacancy(ctx context.Context, user *model.CurrentUser, req VacancyCreateRequest) (*model.Vacancy, error) {
	if err := activeWith(user, model.PermCreateVacancy); err != nil {
		return nil, err
	}
	if err := validateVacancy(&req.Title, &req.Content, req.Type, &req.State, &req.TestTime); err != nil {
		return nil, err
	}

	typ := model.VacancyInternship
	if req.Type != nil {
		typ = *req.Type
	}
	vacancy := &model.Vacancy{
		Title:    req.Title,
		Content:  req.Content,
		Type:     typ,
		State:    req.State,
		TestTime: req.TestTime,
	}
	if err := s.vacancies.Create(ctx, vacancy); err != nil {
		return nil, err
	}
	logger.Log.Info("vacancy created", zap.String("vacancy_id", vacancy.ID), zap.String("user_id", user.ID))
	return vacancy, nil
}

func (s *VacancyService) UpdateVacancy(ctx context.Context, user *model.CurrentUser, vacancyID string, req VacancyUpdateRequest) (*model.Vacancy, error) {
	if err := activeWith(user, model.PermUpdateVacancy); err != nil {
		return nil, err
	}
	if _, err := s.findVacancy(ctx, vacancyID); err != nil {
		return nil, err
	}
	if err := validateVacancy(req.Title, req.Content, req.Type, req.State, req.TestTime); err != nil {
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
	if req.State != nil {
		updates["state"] = *req.State
	}
	if req.TestTime != nil {
		updates["test_time"] = *req.TestTime
	}
	if err := s.vacancies.Update(ctx, vacancyID, updates); err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		invalidateApproved(ctx, s.approved, "vacancy updated")
	}
	return s.findVacancy(ctx, vacancyID)
}

func (s *VacancyService) DeleteVacancy(ctx context.Context, user *model.CurrentUser, vacancyID string) error {
	if err := activeWith(user, model.PermDeleteVacancy); err != nil {
		return err
	}
	if _, err := s.findVacancy(ctx, vacancyID); err != nil {
		return err
	}
	if err := s.vacancies.Delete(ctx, vacancyID); err != nil {
		return err
	}
	invalidateApproved(ctx, s.approved, "vacancy deleted")
	logger.Log.Info("vacancy deleted", zap.String("vacancy_id", vacancyID), zap.String("user_id", user.ID))
	return nil
}

// GetVacancyFiles lists uploaded attachments with inline links.
func (s *VacancyService) GetVacancyFiles(ctx context.Context, user *model.CurrentUser, vacancyID string) ([]VacancyFileItem, error) {
	if err := activeWith(user, model.PermUpdateVacancy); err != nil {
		return nil, err
	}
	if _, err := s.findVacancy(ctx, vacancyID); err != nil {
		return nil, err
	}
	files, err := s.files.ListByVacancy(ctx, vacancyID)
	if err != nil {
		return nil, err
	}

	items := make([]VacancyFileItem, 0, len(files))
	for i := range files {
		if !files[i].IsUploaded {
			continue
		}
		item, err := s.fileItem(ctx, &files[i], false)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

func (s *VacancyService) GetVacancyFile(ctx context.Context, user *model.CurrentUser, vacancyID, fileID string, download bool) (*VacancyFileItem, error) {
	vacancy, err := s.findVacancy(ctx, vacancyID)
	if err != nil {
		return nil, err
	}
	if err := canView(user, vacancy.State); err != nil {
		return nil, err
	}
	file, err := s.findFile(ctx, vacancyID, fileID)
	if err != nil {
		return nil, err
	}
	if !file.IsUploaded {
		return nil, util.NotFoundf("file with id:%s is not uploaded", fileID)
	}
	return s.fileItem(ctx, file, download)
}

// UploadVacancyFile registers an attachment and returns a form the client
// posts the body to. The file stays hidden until confirmed.
func (s *VacancyService) UploadVacancyFile(ctx context.Context, user *model.CurrentUser, vacancyID string, req VacancyFileCreateRequest) (*VacancyFileUpload, error) {
	if err := activeWith(user, model.PermUpdateVacancy); err != nil {
		return nil, err
	}
	if _, err := s.findVacancy(ctx, vacancyID); err != nil {
		return nil, err
	}
	if req.Filename == "" || utf8.RuneCountInString(req.Filename) > maxTitleLen {
		return nil, util.BadRequestf("filename must be 1..%d characters", maxTitleLen)
	}
	if !util.IsAllowedAttachmentType(req.ContentType) {
		return nil, util.BadRequestf("content type %q is not allowed", req.ContentType)
	}

	file := &model.VacancyFile{
		VacancyID:   vacancyID,
		Filename:    req.Filename,
		ContentType: req.ContentType,
	}
	if err := s.files.Create(ctx, file); err != nil {
		return nil, err
	}
	post, err := s.storage.PresignUpload(ctx, file.ObjectKey(), file.ContentType)
	if err != nil {
		return nil, err
	}
	return &VacancyFileUpload{FileID: file.ID, UploadURL: post}, nil
}

func (s *VacancyService) ConfirmVacancyFileUpload(ctx context.Context, user *model.CurrentUser, vacancyID, fileID string) error {
	if err := activeWith(user, model.PermUpdateVacancy); err != nil {
		return err
	}
	if _, err := s.findVacancy(ctx, vacancyID); err != nil {
		return err
	}
	file, err := s.findFile(ctx, vacancyID, fileID)
	if err != nil {
		return err
	}
	if file.IsUploaded {
		return util.BadRequestf("file with id:%s is already uploaded", fileID)
	}
	ok, err := s.storage.Exists(ctx, file.ObjectKey())
	if err != nil {
		return err
	}
	if !ok {
		return util.NotFoundf("file with id:%s is not uploaded", fileID)
	}
	return s.files.MarkUploaded(ctx, fileID)
}

// DeleteVacancyFile removes the object and its row, clearing the poster if
// the file was used as one.
func (s *VacancyService) DeleteVacancyFile(ctx context.Context, user *model.CurrentUser, vacancyID, fileID string) error {
	if err := activeWith(user, model.PermUpdateVacancy); err != nil {
		return err
	}
	if _, err := s.findVacancy(ctx, vacancyID); err != nil {
		return err
	}
	file, err := s.findFile(ctx, vacancyID, fileID)
	if err != nil {
		return err
	}
	if !file.IsUploaded {
		return util.BadRequestf("file with id:%s is not uploaded", fileID)
	}
	if err := s.storage.Delete(ctx, file.ObjectKey()); err != nil {
		return err
	}
	return s.files.Delete(ctx, file)
}

func (s *VacancyService) SetVacancyPoster(ctx context.Context, user *model.CurrentUser, vacancyID, fileID string) error {
	if err := activeWith(user, model.PermUpdateVacancy); err != nil {
		return err
	}
	vacancy, err := s.findVacancy(ctx, vacancyID)
	if err != nil {
		return err
	}
	file, err := s.findFile(ctx, vacancyID, fileID)
	if err != nil {
		return err
	}
	if !file.IsUploaded {
		return util.BadRequestf("file with id:%s is not uploaded", fileID)
	}
	if vacancy.Poster != nil && *vacancy.Poster == fileID {
		return util.BadRequestf("file with id:%s is already the poster", fileID)
	}
	return s.vacancies.Update(ctx, vacancyID, map[string]interface{}{"poster": fileID})
}

func (s *VacancyService) findVacancy(ctx context.Context, id string) (*model.Vacancy, error) {
	vacancy, err := s.vacancies.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vacancy == nil {
		return nil, util.NotFoundf("vacancy with id:%s not found", id)
	}
	return vacancy, nil
}

func (s *VacancyService) findFile(ctx context.Context, vacancyID, fileID string) (*model.VacancyFile, error) {
	file, err := s.files.FindByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, util.NotFoundf("file with id:%s not found", fileID)
	}
	if file.VacancyID != vacancyID {
		return nil, util.BadRequestf("file with id:%s does not belong to vacancy %s", fileID, vacancyID)
	}
	return file, nil
}

func (s *VacancyService) fileItem(ctx context.Context, file *model.VacancyFile, download bool) (*VacancyFileItem, error) {
	u, err := s.storage.PresignDownload(ctx, file.ObjectKey(), file.Filename, file.ContentType, download)
	if err != nil {
		return nil, err
	}
	return &VacancyFileItem{
		ID:          file.ID,
		Filename:    file.Filename,
		ContentType: file.ContentType,
		URL:         u,
	}, nil
}

func validateVacancy(title, content *string, typ *model.VacancyType, state *model.VacancyState, testTime *int) error {
	if title != nil && (*title == "" || utf8.RuneCountInString(*title) > maxTitleLen) {
		return util.BadRequestf("title must be 1..%d characters", maxTitleLen)
	}
	if content != nil && (*content == "" || utf8.RuneCountInString(*content) > maxContentLen) {
		return util.BadRequestf("content must be 1..%d characters", maxContentLen)
	}
	if typ != nil && *typ != model.VacancyPractice && *typ != model.VacancyInternship {
		return util.BadRequestf("unknown vacancy type %d", *typ)
	}
	if state != nil && *state != model.VacancyClosed && *state != model.VacancyOpened {
		return util.BadRequestf("unknown vacancy state %d", *state)
	}
	if testTime != nil && *testTime < 0 {
		return util.BadRequestf("test_time must not be negative")
	}
	return nil
}
