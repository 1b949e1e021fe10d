package service

import (
	"context"
	"testing"

	"hr_recruit_backend/internal/model"
	"hr_recruit_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testingFixture struct {
	w        *world
	svc      *TestingService
	attempts *fakeAttemptStore
	anchors  *fakeAnchorStore
	approved *fakeApprovedStore
}

func newTestingFixture() *testingFixture {
	w := newWorld()
	attempts := &fakeAttemptStore{w: w}
	anchors := newFakeAnchorStore()
	approved := &fakeApprovedStore{}
	svc := NewTestingService(
		fakeTestingStore{w},
		fakeVacancyStore{w},
		fakeQuestionStore{w},
		attempts,
		anchors,
		NewDeadlinePolicy(attempts, anchors, w.clock.Now),
		approved,
	)
	return &testingFixture{w: w, svc: svc, attempts: attempts, anchors: anchors, approved: approved}
}

func TestEndToEndTheoreticalScenario(t *testing.T) {
	ctx := context.Background()
	f := newTestingFixture()
	v := f.w.addVacancy(model.VacancyOpened, 3)
	te := f.w.addTesting(v.ID, model.TestTheoretical)
	for i := 0; i < 5; i++ {
		f.w.addTheoretical(te.ID, 3)
	}
	u := candidate()

	questions, err := f.svc.StartTheoreticalTesting(ctx, u, te.ID)
	require.NoError(t, err)
	assert.Len(t, questions, 5)
	assert.Empty(t, f.w.attempts, "starting must not create attempts")

	attempt, err := f.svc.CompleteTheoreticalTesting(ctx, u, te.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, u.ID, attempt.UserID)
	assert.Equal(t, te.ID, attempt.TestingID)
	assert.Equal(t, 0, attempt.CorrectAnswers)
	assert.Equal(t, 5, attempt.TotalAnswers)
	require.NotNil(t, attempt.Test)
	assert.Equal(t, te.ID, attempt.Test.ID)
	assert.Len(t, f.w.attempts, 1)

	f.w.clock.Advance(2 * day)
	_, err = f.svc.StartTheoreticalTesting(ctx, u, te.ID)
	require.NoError(t, err)

	f.w.clock.Advance(2 * day)
	_, err = f.svc.StartTheoreticalTesting(ctx, u, te.ID)
	assert.ErrorIs(t, err, util.ErrBadRequest)
	assert.Equal(t, "testing time expired", err.Error())
}

func TestStartHidesAnswerKeys(t *testing.T) {
	ctx := context.Background()
	f := newTestingFixture()
	v := f.w.addVacancy(model.VacancyOpened, 3)
	theory := f.w.addTesting(v.ID, model.TestTheoretical)
	f.w.addTheoretical(theory.ID, 4)
	practice := f.w.addTesting(v.ID, model.TestPractical)
	f.w.addPractical(practice.ID)
	f.w.addPractical(practice.ID)

	tq, err := f.svc.StartTheoreticalTesting(ctx, candidate(), theory.ID)
	require.NoError(t, err)
	require.Len(t, tq, 1)
	require.Len(t, tq[0].AnswerOptions, 4)
	for _, o := range tq[0].AnswerOptions {
		assert.False(t, o.IsCorrect)
	}

	pq, err := f.svc.StartPracticalTesting(ctx, candidate(), practice.ID)
	require.NoError(t, err)
	require.Len(t, pq, 2)
	for _, q := range pq {
		assert.Empty(t, q.Answer)
		assert.NotEmpty(t, q.Content)
	}

	// stored keys are untouched
	for _, q := range f.w.practical {
		assert.Equal(t, "olleh", q.Answer)
	}
}

func TestCompletePracticalCreatesOneAttempt(t *testing.T) {
	ctx := context.Background()
	f := newTestingFixture()
	v := f.w.addVacancy(model.VacancyOpened, 3)
	te := f.w.addTesting(v.ID, model.TestPractical)
	f.w.addPractical(te.ID)
	f.w.addPractical(te.ID)
	f.w.addPractical(te.ID)

	answers := []model.AnswerToPracticalQuestion{{Answer: "olleh", QuestionID: "pq-1"}}
	attempt, err := f.svc.CompletePracticalTesting(ctx, candidate(), te.ID, answers)
	require.NoError(t, err)
	assert.Equal(t, 3, attempt.TotalAnswers)
	assert.Equal(t, 0, attempt.CorrectAnswers)
	assert.Len(t, f.w.attempts, 1)
}

func TestLifecycleRejectsClosedVacancy(t *testing.T) {
	ctx := context.Background()
	f := newTestingFixture()
	v := f.w.addVacancy(model.VacancyClosed, 3)
	te := f.w.addTesting(v.ID, model.TestTheoretical)
	u := candidate()

	_, err := f.svc.StartTheoreticalTesting(ctx, u, te.ID)
	assert.ErrorIs(t, err, util.ErrBadRequest)
	_, err = f.svc.StartPracticalTesting(ctx, u, te.ID)
	assert.ErrorIs(t, err, util.ErrBadRequest)
	_, err = f.svc.CompleteTheoreticalTesting(ctx, u, te.ID, nil)
	assert.ErrorIs(t, err, util.ErrBadRequest)
	_, err = f.svc.CompletePracticalTesting(ctx, u, te.ID, nil)
	assert.ErrorIs(t, err, util.ErrBadRequest)
	assert.Contains(t, err.Error(), "is not opened")
	assert.Empty(t, f.w.attempts)
}

func TestLifecycleMissingTestingStopsEarly(t *testing.T) {
	f := newTestingFixture()

	_, err := f.svc.StartPracticalTesting(context.Background(), candidate(), "nope")
	assert.ErrorIs(t, err, util.ErrNotFound)
	assert.Equal(t, "testing with id:nope not found", err.Error())
	assert.Equal(t, []string{"testing.FindByID"}, f.w.calls)
}

func TestLifecycleMissingVacancy(t *testing.T) {
	f := newTestingFixture()
	te := f.w.addTesting("gone", model.TestPractical)

	_, err := f.svc.StartPracticalTesting(context.Background(), candidate(), te.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestLifecycleGuardRunsFirst(t *testing.T) {
	f := newTestingFixture()
	v := f.w.addVacancy(model.VacancyOpened, 3)
	te := f.w.addTesting(v.ID, model.TestTheoretical)

	_, err := f.svc.StartTheoreticalTesting(context.Background(), user(model.UserActive, model.PermCompleteTesting), te.ID)
	assert.ErrorIs(t, err, util.ErrForbidden)

	blocked := candidate()
	blocked.State = model.UserBlocked
	_, err = f.svc.CompleteTheoreticalTesting(context.Background(), blocked, te.ID, nil)
	assert.ErrorIs(t, err, util.ErrInvalidState)
	assert.Empty(t, f.w.calls)
}

func TestCompleteRefusesWhenVacancyClosesMidway(t *testing.T) {
	f := newTestingFixture()
	v := f.w.addVacancy(model.VacancyOpened, 3)
	te := f.w.addTesting(v.ID, model.TestTheoretical)
	f.attempts.closeNow = true

	_, err := f.svc.CompleteTheoreticalTesting(context.Background(), candidate(), te.ID, nil)
	assert.ErrorIs(t, err, util.ErrBadRequest)
	assert.Empty(t, f.w.attempts)
}

func TestCompleteAfterDeadline(t *testing.T) {
	f := newTestingFixture()
	v := f.w.addVacancy(model.VacancyOpened, 5)
	te := f.w.addTesting(v.ID, model.TestPractical)
	u := candidate()
	f.w.addAttempt(u.ID, te.ID, f.w.clock.Now())

	f.w.clock.Advance(4 * day)
	_, err := f.svc.CompletePracticalTesting(context.Background(), u, te.ID, nil)
	require.NoError(t, err)

	f.w.clock.Advance(2 * day)
	_, err = f.svc.CompletePracticalTesting(context.Background(), u, te.ID, nil)
	assert.ErrorIs(t, err, util.ErrBadRequest)
	assert.Len(t, f.w.attempts, 2)
}

func TestGetTestAttempts(t *testing.T) {
	ctx := context.Background()
	f := newTestingFixture()
	v := f.w.addVacancy(model.VacancyOpened, 5)
	te := f.w.addTesting(v.ID, model.TestPractical)
	u := candidate()
	f.w.addAttempt(u.ID, te.ID, f.w.clock.Now())
	f.w.addAttempt("someone-else", te.ID, f.w.clock.Now())

	got, err := f.svc.GetTestAttempts(ctx, u, "", 3, 100, "title")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, u.ID, got[0].UserID)
	assert.Equal(t, u.ID, f.attempts.last.filter.UserID)
	assert.Equal(t, util.PerPageLimit, f.attempts.last.limit)
	assert.Equal(t, 2*util.PerPageLimit, f.attempts.last.offset)

	_, err = f.svc.GetTestAttempts(ctx, u, te.ID, 1, 10, "created_at")
	require.NoError(t, err)
	assert.Equal(t, te.ID, f.attempts.last.filter.TestingID)
}

func TestGetTestAttemptsValidation(t *testing.T) {
	ctx := context.Background()
	f := newTestingFixture()
	u := candidate()

	_, err := f.svc.GetTestAttempts(ctx, u, "", 0, 10, "created_at")
	assert.ErrorIs(t, err, util.ErrNotFound)
	_, err = f.svc.GetTestAttempts(ctx, u, "", -5, 10, "created_at")
	assert.ErrorIs(t, err, util.ErrNotFound)
	_, err = f.svc.GetTestAttempts(ctx, u, "", 1, 0, "created_at")
	assert.ErrorIs(t, err, util.ErrBadRequest)
	_, err = f.svc.GetTestAttempts(ctx, u, "", 1, 10, "user_id")
	assert.ErrorIs(t, err, util.ErrBadRequest)
	_, err = f.svc.GetTestAttempts(ctx, hr(), "", 1, 10, "created_at")
	require.NoError(t, err)
	_, err = f.svc.GetTestAttempts(ctx, user(model.UserActive), "", 1, 10, "created_at")
	assert.ErrorIs(t, err, util.ErrForbidden)
}

func TestGetUserAttempts(t *testing.T) {
	ctx := context.Background()
	f := newTestingFixture()
	v := f.w.addVacancy(model.VacancyOpened, 5)
	te := f.w.addTesting(v.ID, model.TestPractical)
	f.w.addAttempt("a", te.ID, f.w.clock.Now())
	f.w.addAttempt("b", te.ID, f.w.clock.Now())

	got, err := f.svc.GetUserAttempts(ctx, hr(), AttemptQuery{Page: 1, PerPage: 10, OrderBy: "created_at"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.False(t, f.attempts.last.search)

	got, err = f.svc.GetUserAttempts(ctx, hr(), AttemptQuery{Page: 1, PerPage: 10, OrderBy: "title", Query: "BASICS", UserID: "b"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].UserID)
	assert.True(t, f.attempts.last.search)
	assert.Equal(t, "BASICS", f.attempts.last.query)

	_, err = f.svc.GetUserAttempts(ctx, candidate(), AttemptQuery{Page: 1, PerPage: 10, OrderBy: "title"})
	assert.ErrorIs(t, err, util.ErrForbidden)
	_, err = f.svc.GetUserAttempts(ctx, hr(), AttemptQuery{Page: 0, PerPage: 10, OrderBy: "title"})
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestCreateTesting(t *testing.T) {
	ctx := context.Background()
	f := newTestingFixture()
	open := f.w.addVacancy(model.VacancyOpened, 5)
	closed := f.w.addVacancy(model.VacancyClosed, 5)
	req := TestingCreateRequest{Title: "Go", Content: "Concurrency", Type: model.TestPractical, CorrectPercent: 70}

	created, err := f.svc.CreateTesting(ctx, hr(), open.ID, req)
	require.NoError(t, err)
	assert.Equal(t, open.ID, created.VacancyID)
	assert.NotEmpty(t, created.ID)

	_, err = f.svc.CreateTesting(ctx, hr(), closed.ID, req)
	assert.ErrorIs(t, err, util.ErrBadRequest)
	_, err = f.svc.CreateTesting(ctx, hr(), "missing", req)
	assert.ErrorIs(t, err, util.ErrNotFound)
	_, err = f.svc.CreateTesting(ctx, candidate(), open.ID, req)
	assert.ErrorIs(t, err, util.ErrForbidden)

	bad := req
	bad.CorrectPercent = 101
	_, err = f.svc.CreateTesting(ctx, hr(), open.ID, bad)
	assert.ErrorIs(t, err, util.ErrBadRequest)
	bad = req
	bad.Type = 7
	_, err = f.svc.CreateTesting(ctx, hr(), open.ID, bad)
	assert.ErrorIs(t, err, util.ErrBadRequest)
}

func TestUpdateTestingOnlyTouchesPresentFields(t *testing.T) {
	ctx := context.Background()
	f := newTestingFixture()
	v := f.w.addVacancy(model.VacancyOpened, 5)
	te := f.w.addTesting(v.ID, model.TestTheoretical)

	title := "Renamed"
	got, err := f.svc.UpdateTesting(ctx, hr(), te.ID, TestingUpdateRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, te.Content, got.Content)
	assert.Equal(t, te.CorrectPercent, got.CorrectPercent)

	zero := 0
	got, err = f.svc.UpdateTesting(ctx, hr(), te.ID, TestingUpdateRequest{CorrectPercent: &zero})
	require.NoError(t, err)
	assert.Equal(t, 0, got.CorrectPercent)

	empty := ""
	_, err = f.svc.UpdateTesting(ctx, hr(), te.ID, TestingUpdateRequest{Title: &empty})
	assert.ErrorIs(t, err, util.ErrBadRequest)
}

func TestDeleteTestingCascades(t *testing.T) {
	ctx := context.Background()
	f := newTestingFixture()
	v := f.w.addVacancy(model.VacancyOpened, 5)
	te := f.w.addTesting(v.ID, model.TestTheoretical)
	f.w.addTheoretical(te.ID, 2)
	f.w.addAttempt("u", te.ID, f.w.clock.Now())

	require.NoError(t, f.svc.DeleteTesting(ctx, hr(), te.ID))
	assert.Empty(t, f.w.testings)
	assert.Empty(t, f.w.theory)
	assert.Empty(t, f.w.attempts)
	assert.Equal(t, []string{te.ID}, f.anchors.dropped)

	assert.ErrorIs(t, f.svc.DeleteTesting(ctx, hr(), te.ID), util.ErrNotFound)
}

func TestGetTestingsIgnoresVacancyState(t *testing.T) {
	ctx := context.Background()
	f := newTestingFixture()
	v := f.w.addVacancy(model.VacancyClosed, 5)
	te := f.w.addTesting(v.ID, model.TestTheoretical)

	list, err := f.svc.GetTestings(ctx, candidate(), v.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.svc.GetTesting(ctx, candidate(), te.ID)
	assert.ErrorIs(t, err, util.ErrBadRequest)
}

func TestTestingWritesInvalidateApprovedReport(t *testing.T) {
	ctx := context.Background()
	f := newTestingFixture()
	v := f.w.addVacancy(model.VacancyOpened, 3)
	f.approved.rows, f.approved.hit = []model.ApprovedRequest{{UserID: "candidate-1", VacancyID: v.ID}}, true

	created, err := f.svc.CreateTesting(ctx, hr(), v.ID, TestingCreateRequest{Title: "SQL", Content: "joins", Type: model.TestPractical, CorrectPercent: 50})
	require.NoError(t, err)
	assert.Equal(t, 1, f.approved.invalidations)
	assert.False(t, f.approved.hit)

	percent := 90
	_, err = f.svc.UpdateTesting(ctx, hr(), created.ID, TestingUpdateRequest{CorrectPercent: &percent})
	require.NoError(t, err)
	assert.Equal(t, 2, f.approved.invalidations)

	// an empty update changes nothing the report depends on
	_, err = f.svc.UpdateTesting(ctx, hr(), created.ID, TestingUpdateRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, f.approved.invalidations)

	require.NoError(t, f.svc.DeleteTesting(ctx, hr(), created.ID))
	assert.Equal(t, 3, f.approved.invalidations)

	// refused writes leave the report alone
	require.Error(t, f.svc.DeleteTesting(ctx, hr(), created.ID))
	assert.Equal(t, 3, f.approved.invalidations)
}
