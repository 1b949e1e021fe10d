package controller

import (
	"hr_recruit_backend/internal/model"
	"hr_recruit_backend/internal/service"
	"hr_recruit_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TestingController struct {
	TestingService  *service.TestingService
	ApprovedService *service.ApprovedService
}

func NewTestingController(testingService *service.TestingService, approvedService *service.ApprovedService) *TestingController {
	return &TestingController{TestingService: testingService, ApprovedService: approvedService}
}

// @Summary List testings of a vacancy
// @Tags testing
// @Produce json
// @Security BearerAuth
// @Param vacancy_id query string true "Vacancy ID"
// @Success 200 {object} util.Response{data=[]model.Testing}
// @Router /testing/list [get]
func (c *TestingController) GetTestings(ctx *gin.Context) {
	testings, err := c.TestingService.GetTestings(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Query("vacancy_id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, testings)
}

// @Summary Create a testing
// @Tags testing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param vacancy_id query string true "Vacancy ID"
// @Param testing body service.TestingCreateRequest true "Testing"
// @Success 201 {object} util.Response{data=model.Testing}
// @Router /testing/new [post]
func (c *TestingController) CreateTesting(ctx *gin.Context) {
	var req service.TestingCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	testing, err := c.TestingService.CreateTesting(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Query("vacancy_id"), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, testing)
}

// @Summary Get a testing
// @Tags testing
// @Produce json
// @Security BearerAuth
// @Param id path string true "Testing ID"
// @Success 200 {object} util.Response{data=model.Testing}
// @Router /testing/{id} [get]
func (c *TestingController) GetTesting(ctx *gin.Context) {
	testing, err := c.TestingService.GetTesting(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, testing)
}

// @Summary Update a testing
// @Tags testing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Testing ID"
// @Param testing body service.TestingUpdateRequest true "Fields to change"
// @Success 200 {object} util.Response{data=model.Testing}
// @Router /testing/{id} [put]
func (c *TestingController) UpdateTesting(ctx *gin.Context) {
	var req service.TestingUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	testing, err := c.TestingService.UpdateTesting(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, testing)
}

// @Summary Delete a testing with its questions and attempts
// @Tags testing
// @Produce json
// @Security BearerAuth
// @Param id path string true "Testing ID"
// @Success 200 {object} util.Response
// @Router /testing/{id} [delete]
func (c *TestingController) DeleteTesting(ctx *gin.Context) {
	if err := c.TestingService.DeleteTesting(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id")); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Start a practical testing
// @Tags testing
// @Produce json
// @Security BearerAuth
// @Param id path string true "Testing ID"
// @Success 200 {object} util.Response{data=[]model.PracticalQuestion}
// @Router /testing/practical/{id}/start [get]
func (c *TestingController) StartPracticalTesting(ctx *gin.Context) {
	questions, err := c.TestingService.StartPracticalTesting(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// @Summary Start a theoretical testing
// @Tags testing
// @Produce json
// @Security BearerAuth
// @Param id path string true "Testing ID"
// @Success 200 {object} util.Response{data=[]model.TheoreticalQuestion}
// @Router /testing/theoretical/{id}/start [get]
func (c *TestingController) StartTheoreticalTesting(ctx *gin.Context) {
	questions, err := c.TestingService.StartTheoreticalTesting(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// @Summary Finish a practical testing
// @Tags testing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Testing ID"
// @Param answers body []model.AnswerToPracticalQuestion true "Answers"
// @Success 201 {object} util.Response{data=model.Attempt}
// @Router /testing/practical/{id}/finish [post]
func (c *TestingController) CompletePracticalTesting(ctx *gin.Context) {
	var answers []model.AnswerToPracticalQuestion
	if err := ctx.ShouldBindJSON(&answers); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	attempt, err := c.TestingService.CompletePracticalTesting(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"), answers)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, attempt)
}

// @Summary Finish a theoretical testing
// @Tags testing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Testing ID"
// @Param answers body []model.AnswerToTheoreticalQuestion true "Chosen options"
// @Success 201 {object} util.Response{data=model.Attempt}
// @Router /testing/theoretical/{id}/finish [post]
func (c *TestingController) CompleteTheoreticalTesting(ctx *gin.Context) {
	var answers []model.AnswerToTheoreticalQuestion
	if err := ctx.ShouldBindJSON(&answers); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	attempt, err := c.TestingService.CompleteTheoreticalTesting(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"), answers)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, attempt)
}

// @Summary List own attempts
// @Tags testing
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Param per_page query int false "Page size, at most 40" default(10)
// @Param order_by query string false "title or created_at" default(created_at)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /testing/attempts [get]
func (c *TestingController) GetTestAttempts(ctx *gin.Context) {
	c.listOwnAttempts(ctx, ctx.Query("testing_id"))
}

// @Summary List own attempts of one testing
// @Tags testing
// @Produce json
// @Security BearerAuth
// @Param id path string true "Testing ID"
// @Param page query int false "Page" default(1)
// @Param per_page query int false "Page size, at most 40" default(10)
// @Param order_by query string false "title or created_at" default(created_at)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /testing/{id}/attempts [get]
func (c *TestingController) GetTestingAttempts(ctx *gin.Context) {
	c.listOwnAttempts(ctx, ctx.Param("id"))
}

func (c *TestingController) listOwnAttempts(ctx *gin.Context, testingID string) {
	p, err := readPageParams(ctx)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	attempts, err := c.TestingService.GetTestAttempts(ctx.Request.Context(), util.GetUserFromContext(ctx), testingID, p.Page, p.PerPage, p.OrderBy)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: attempts, Page: p.Page, PerPage: min(p.PerPage, util.PerPageLimit)})
}

// @Summary List attempts of candidates
// @Tags testing
// @Produce json
// @Security BearerAuth
// @Param user_id query string false "Only this user"
// @Param query query string false "Search in testing title and content"
// @Param page query int false "Page" default(1)
// @Param per_page query int false "Page size, at most 40" default(10)
// @Param order_by query string false "title or created_at" default(created_at)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /testing/users/attempts [get]
func (c *TestingController) GetUserAttempts(ctx *gin.Context) {
	p, err := readPageParams(ctx)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	attempts, err := c.TestingService.GetUserAttempts(ctx.Request.Context(), util.GetUserFromContext(ctx), service.AttemptQuery{
		Page:    p.Page,
		PerPage: p.PerPage,
		OrderBy: p.OrderBy,
		Query:   ctx.Query("query"),
		UserID:  ctx.Query("user_id"),
	})
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: attempts, Page: p.Page, PerPage: min(p.PerPage, util.PerPageLimit)})
}

// @Summary Candidates who passed every testing of a vacancy
// @Tags testing
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.ApprovedRequest}
// @Router /testing/approved/users [get]
func (c *TestingController) GetApprovedUsers(ctx *gin.Context) {
	rows, err := c.ApprovedService.GetApprovedUsers(ctx.Request.Context(), util.GetUserFromContext(ctx))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}
