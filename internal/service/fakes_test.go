package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"hr_recruit_backend/internal/model"
	"hr_recruit_backend/internal/repository"
)

var errStoreDown = errors.New("store down")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type idGen struct{ n int }

func (g *idGen) next(prefix string) string {
	g.n++
	return fmt.Sprintf("%s-%d", prefix, g.n)
}

// world is an in-memory backend shared by all fake stores of a test.
type world struct {
	clock *fakeClock
	ids   idGen

	vacancies map[string]*model.Vacancy
	files     map[string]*model.VacancyFile
	testings  map[string]*model.Testing
	practical map[string]*model.PracticalQuestion
	theory    map[string]*model.TheoreticalQuestion
	attempts  []*model.Attempt

	calls []string
}

func newWorld() *world {
	return &world{
		clock:     newFakeClock(),
		vacancies: map[string]*model.Vacancy{},
		files:     map[string]*model.VacancyFile{},
		testings:  map[string]*model.Testing{},
		practical: map[string]*model.PracticalQuestion{},
		theory:    map[string]*model.TheoreticalQuestion{},
	}
}

func (w *world) addVacancy(state model.VacancyState, testTime int) *model.Vacancy {
	v := &model.Vacancy{Title: "Backend developer", Content: "Go", State: state, TestTime: testTime, Type: model.VacancyInternship}
	v.ID = w.ids.next("vacancy")
	v.CreatedAt = w.clock.Now()
	w.vacancies[v.ID] = v
	return v
}

func (w *world) addTesting(vacancyID string, typ model.TestType) *model.Testing {
	t := &model.Testing{VacancyID: vacancyID, Title: "Basics", Content: "Language basics", Type: typ, CorrectPercent: 60}
	t.ID = w.ids.next("testing")
	t.CreatedAt = w.clock.Now()
	w.testings[t.ID] = t
	return t
}

func (w *world) addTheoretical(testingID string, options int) *model.TheoreticalQuestion {
	q := &model.TheoreticalQuestion{TestingID: testingID, Content: "What does defer do?"}
	q.ID = w.ids.next("tq")
	for i := 0; i < options; i++ {
		o := model.AnswerOption{QuestionID: q.ID, Content: fmt.Sprintf("option %d", i), IsCorrect: i == 0}
		o.ID = w.ids.next("opt")
		q.AnswerOptions = append(q.AnswerOptions, o)
	}
	w.theory[q.ID] = q
	return q
}

func (w *world) addPractical(testingID string) *model.PracticalQuestion {
	q := &model.PracticalQuestion{TestingID: testingID, Content: "Reverse a string", Language: model.LangGo, Answer: "olleh"}
	q.ID = w.ids.next("pq")
	w.practical[q.ID] = q
	return q
}

func (w *world) addAttempt(userID, testingID string, at time.Time) *model.Attempt {
	a := &model.Attempt{UserID: userID, TestingID: testingID}
	a.ID = w.ids.next("attempt")
	a.CreatedAt = at
	w.attempts = append(w.attempts, a)
	return a
}

func (w *world) record(call string) { w.calls = append(w.calls, call) }

// vacancies

type fakeVacancyStore struct{ w *world }

func (s fakeVacancyStore) FindByID(ctx context.Context, id string) (*model.Vacancy, error) {
	s.w.record("vacancy.FindByID")
	v, ok := s.w.vacancies[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (s fakeVacancyStore) List(ctx context.Context, filter repository.VacancyFilter, offset, limit int, orderBy string) ([]model.Vacancy, error) {
	var out []model.Vacancy
	for _, v := range s.w.vacancies {
		if v.State != filter.State {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(v.Title+" "+v.Content), strings.ToLower(filter.Query)) {
			continue
		}
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return window(out, offset, limit), nil
}

func (s fakeVacancyStore) ListWithTestings(ctx context.Context) ([]model.Vacancy, error) {
	var out []model.Vacancy
	for _, v := range s.w.vacancies {
		cp := *v
		for _, t := range s.w.testings {
			if t.VacancyID == v.ID {
				cp.Testings = append(cp.Testings, *t)
			}
		}
		sort.Slice(cp.Testings, func(i, j int) bool { return cp.Testings[i].ID < cp.Testings[j].ID })
		if len(cp.Testings) > 0 {
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s fakeVacancyStore) Create(ctx context.Context, v *model.Vacancy) error {
	v.ID = s.w.ids.next("vacancy")
	v.CreatedAt = s.w.clock.Now()
	cp := *v
	s.w.vacancies[v.ID] = &cp
	return nil
}

func (s fakeVacancyStore) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	v := s.w.vacancies[id]
	for k, val := range updates {
		switch k {
		case "title":
			v.Title = val.(string)
		case "content":
			v.Content = val.(string)
		case "type":
			v.Type = val.(model.VacancyType)
		case "state":
			v.State = val.(model.VacancyState)
		case "test_time":
			v.TestTime = val.(int)
		case "poster":
			p := val.(string)
			v.Poster = &p
		}
	}
	return nil
}

func (s fakeVacancyStore) Delete(ctx context.Context, id string) error {
	delete(s.w.vacancies, id)
	return nil
}

// files

type fakeFileStore struct{ w *world }

func (s fakeFileStore) FindByID(ctx context.Context, id string) (*model.VacancyFile, error) {
	f, ok := s.w.files[id]
	if !ok {
		return nil, nil
	}
	cp := *f
	return &cp, nil
}

func (s fakeFileStore) ListByVacancy(ctx context.Context, vacancyID string) ([]model.VacancyFile, error) {
	var out []model.VacancyFile
	for _, f := range s.w.files {
		if f.VacancyID == vacancyID {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s fakeFileStore) Create(ctx context.Context, f *model.VacancyFile) error {
	f.ID = s.w.ids.next("file")
	cp := *f
	s.w.files[f.ID] = &cp
	return nil
}

func (s fakeFileStore) MarkUploaded(ctx context.Context, id string) error {
	s.w.files[id].IsUploaded = true
	return nil
}

func (s fakeFileStore) Delete(ctx context.Context, f *model.VacancyFile) error {
	if v := s.w.vacancies[f.VacancyID]; v != nil && v.Poster != nil && *v.Poster == f.ID {
		v.Poster = nil
	}
	delete(s.w.files, f.ID)
	return nil
}

// testings

type fakeTestingStore struct{ w *world }

func (s fakeTestingStore) FindByID(ctx context.Context, id string) (*model.Testing, error) {
	s.w.record("testing.FindByID")
	t, ok := s.w.testings[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (s fakeTestingStore) ListByVacancy(ctx context.Context, vacancyID string) ([]model.Testing, error) {
	var out []model.Testing
	for _, t := range s.w.testings {
		if t.VacancyID == vacancyID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s fakeTestingStore) Create(ctx context.Context, t *model.Testing) error {
	t.ID = s.w.ids.next("testing")
	cp := *t
	s.w.testings[t.ID] = &cp
	return nil
}

func (s fakeTestingStore) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	t := s.w.testings[id]
	for k, val := range updates {
		switch k {
		case "title":
			t.Title = val.(string)
		case "content":
			t.Content = val.(string)
		case "type":
			t.Type = val.(model.TestType)
		case "correct_percent":
			t.CorrectPercent = val.(int)
		}
	}
	return nil
}

func (s fakeTestingStore) Delete(ctx context.Context, id string) error {
	delete(s.w.testings, id)
	for qid, q := range s.w.theory {
		if q.TestingID == id {
			delete(s.w.theory, qid)
		}
	}
	for qid, q := range s.w.practical {
		if q.TestingID == id {
			delete(s.w.practical, qid)
		}
	}
	kept := s.w.attempts[:0]
	for _, a := range s.w.attempts {
		if a.TestingID != id {
			kept = append(kept, a)
		}
	}
	s.w.attempts = kept
	return nil
}

// questions

type fakeQuestionStore struct{ w *world }

func (s fakeQuestionStore) ListPractical(ctx context.Context, testingID string) ([]model.PracticalQuestion, error) {
	var out []model.PracticalQuestion
	for _, q := range s.w.practical {
		if q.TestingID == testingID {
			out = append(out, *q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s fakeQuestionStore) ListTheoretical(ctx context.Context, testingID string) ([]model.TheoreticalQuestion, error) {
	var out []model.TheoreticalQuestion
	for _, q := range s.w.theory {
		if q.TestingID == testingID {
			cp := *q
			cp.AnswerOptions = append([]model.AnswerOption(nil), q.AnswerOptions...)
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s fakeQuestionStore) FindPractical(ctx context.Context, id string) (*model.PracticalQuestion, error) {
	q, ok := s.w.practical[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}

func (s fakeQuestionStore) FindTheoretical(ctx context.Context, id string) (*model.TheoreticalQuestion, error) {
	q, ok := s.w.theory[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	cp.AnswerOptions = append([]model.AnswerOption(nil), q.AnswerOptions...)
	return &cp, nil
}

func (s fakeQuestionStore) CreatePractical(ctx context.Context, q *model.PracticalQuestion) error {
	q.ID = s.w.ids.next("pq")
	cp := *q
	s.w.practical[q.ID] = &cp
	return nil
}

func (s fakeQuestionStore) CreateTheoretical(ctx context.Context, q *model.TheoreticalQuestion) error {
	q.ID = s.w.ids.next("tq")
	for i := range q.AnswerOptions {
		q.AnswerOptions[i].ID = s.w.ids.next("opt")
		q.AnswerOptions[i].QuestionID = q.ID
	}
	cp := *q
	cp.AnswerOptions = append([]model.AnswerOption(nil), q.AnswerOptions...)
	s.w.theory[q.ID] = &cp
	return nil
}

func (s fakeQuestionStore) CreateAnswerOption(ctx context.Context, o *model.AnswerOption) error {
	o.ID = s.w.ids.next("opt")
	q := s.w.theory[o.QuestionID]
	q.AnswerOptions = append(q.AnswerOptions, *o)
	return nil
}

func (s fakeQuestionStore) UpdatePractical(ctx context.Context, id string, updates map[string]interface{}) error {
	q := s.w.practical[id]
	for k, val := range updates {
		switch k {
		case "content":
			q.Content = val.(string)
		case "language":
			q.Language = val.(model.ProgramLanguage)
		case "answer":
			q.Answer = val.(string)
		}
	}
	return nil
}

func (s fakeQuestionStore) UpdateTheoretical(ctx context.Context, id string, updates map[string]interface{}) error {
	if c, ok := updates["content"]; ok {
		s.w.theory[id].Content = c.(string)
	}
	return nil
}

func (s fakeQuestionStore) DeletePractical(ctx context.Context, id string) error {
	delete(s.w.practical, id)
	return nil
}

func (s fakeQuestionStore) DeleteTheoretical(ctx context.Context, id string) error {
	delete(s.w.theory, id)
	return nil
}

// attempts

type listCall struct {
	filter  repository.AttemptFilter
	query   string
	offset  int
	limit   int
	orderBy string
	search  bool
}

type fakeAttemptStore struct {
	w        *world
	last     *listCall
	findErr  error
	passed   []repository.PassedTesting
	closeNow bool // close the vacancy right before the guarded insert
}

func (s *fakeAttemptStore) FindFirst(ctx context.Context, userID, testingID string) (*model.Attempt, error) {
	s.w.record("attempt.FindFirst")
	if s.findErr != nil {
		return nil, s.findErr
	}
	var first *model.Attempt
	for _, a := range s.w.attempts {
		if a.UserID == userID && a.TestingID == testingID && (first == nil || a.CreatedAt.Before(first.CreatedAt)) {
			first = a
		}
	}
	if first == nil {
		return nil, nil
	}
	cp := *first
	return &cp, nil
}

func (s *fakeAttemptStore) CreateGuarded(ctx context.Context, a *model.Attempt, vacancyID string) error {
	if s.closeNow {
		s.w.vacancies[vacancyID].State = model.VacancyClosed
	}
	v := s.w.vacancies[vacancyID]
	if v == nil || !v.IsOpened() {
		return repository.ErrVacancyNotOpened
	}
	a.ID = s.w.ids.next("attempt")
	a.CreatedAt = s.w.clock.Now()
	cp := *a
	s.w.attempts = append(s.w.attempts, &cp)
	return nil
}

func (s *fakeAttemptStore) List(ctx context.Context, filter repository.AttemptFilter, offset, limit int, orderBy string) ([]model.Attempt, error) {
	s.last = &listCall{filter: filter, offset: offset, limit: limit, orderBy: orderBy}
	return s.filter(filter, ""), nil
}

func (s *fakeAttemptStore) Search(ctx context.Context, filter repository.AttemptFilter, query string, offset, limit int, orderBy string) ([]model.Attempt, error) {
	s.last = &listCall{filter: filter, query: query, offset: offset, limit: limit, orderBy: orderBy, search: true}
	return s.filter(filter, query), nil
}

func (s *fakeAttemptStore) filter(filter repository.AttemptFilter, query string) []model.Attempt {
	var out []model.Attempt
	for _, a := range s.w.attempts {
		if filter.UserID != "" && a.UserID != filter.UserID {
			continue
		}
		if filter.TestingID != "" && a.TestingID != filter.TestingID {
			continue
		}
		t := s.w.testings[a.TestingID]
		if query != "" && (t == nil || !strings.Contains(strings.ToLower(t.Title+" "+t.Content), strings.ToLower(query))) {
			continue
		}
		cp := *a
		cp.Test = t
		out = append(out, cp)
	}
	return out
}

func (s *fakeAttemptStore) PassedTestings(ctx context.Context) ([]repository.PassedTesting, error) {
	return s.passed, nil
}

// anchors

type fakeAnchorStore struct {
	anchors map[string]time.Time
	getErr  error
	dropped []string
}

func newFakeAnchorStore() *fakeAnchorStore {
	return &fakeAnchorStore{anchors: map[string]time.Time{}}
}

func (s *fakeAnchorStore) Get(ctx context.Context, userID, testingID string) (time.Time, bool, error) {
	if s.getErr != nil {
		return time.Time{}, false, s.getErr
	}
	at, ok := s.anchors[userID+":"+testingID]
	return at, ok, nil
}

func (s *fakeAnchorStore) Set(ctx context.Context, userID, testingID string, anchor time.Time) error {
	s.anchors[userID+":"+testingID] = anchor
	return nil
}

func (s *fakeAnchorStore) DropTesting(ctx context.Context, testingID string) error {
	s.dropped = append(s.dropped, testingID)
	return nil
}

// approved

type fakeApprovedStore struct {
	rows          []model.ApprovedRequest
	hit           bool
	sets          int
	invalidations int
}

func (s *fakeApprovedStore) Get(ctx context.Context) ([]model.ApprovedRequest, bool, error) {
	return s.rows, s.hit, nil
}

func (s *fakeApprovedStore) Set(ctx context.Context, rows []model.ApprovedRequest) error {
	s.rows, s.hit = rows, true
	s.sets++
	return nil
}

func (s *fakeApprovedStore) Invalidate(ctx context.Context) error {
	s.rows, s.hit = nil, false
	s.invalidations++
	return nil
}

// storage

type fakeStorage struct {
	objects map[string]bool
	deleted []string
}

func (s *fakeStorage) PresignUpload(ctx context.Context, key, contentType string) (*PresignedPost, error) {
	return &PresignedPost{URL: "http://minio/bucket", Fields: map[string]string{"key": key, "Content-Type": contentType}}, nil
}

func (s *fakeStorage) PresignDownload(ctx context.Context, key, filename, contentType string, download bool) (string, error) {
	return fmt.Sprintf("http://minio/bucket/%s?download=%t", key, download), nil
}

func (s *fakeStorage) Exists(ctx context.Context, key string) (bool, error) {
	return s.objects[key], nil
}

func (s *fakeStorage) Delete(ctx context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	delete(s.objects, key)
	return nil
}

func window[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}

func user(state model.UserState, perms ...model.Permission) *model.CurrentUser {
	return &model.CurrentUser{ID: "user-1", Permissions: perms, State: state}
}

func candidate() *model.CurrentUser {
	return user(model.UserActive,
		model.PermGetTesting,
		model.PermStartTesting,
		model.PermCompleteTesting,
		model.PermGetSelfTestResults,
		model.PermGetPublicVacancy,
	)
}

func hr() *model.CurrentUser {
	u := user(model.UserActive, model.AllPermissions...)
	u.ID = "hr-1"
	return u
}
