package controller

import (
	"hr_recruit_backend/internal/service"
	"hr_recruit_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
}

func NewQuestionController(questionService *service.QuestionService) *QuestionController {
	return &QuestionController{QuestionService: questionService}
}

// @Summary Add a practical question
// @Tags question
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Testing ID"
// @Param question body service.PracticalQuestionRequest true "Question"
// @Success 201 {object} util.Response{data=model.PracticalQuestion}
// @Router /testing/{id}/practical/new [post]
func (c *QuestionController) CreatePracticalQuestion(ctx *gin.Context) {
	var req service.PracticalQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	q, err := c.QuestionService.CreatePracticalQuestion(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// @Summary Add a theoretical question
// @Tags question
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Testing ID"
// @Param question body service.TheoreticalQuestionRequest true "Question with optional answer options"
// @Success 201 {object} util.Response{data=model.TheoreticalQuestion}
// @Router /testing/{id}/theoretical/new [post]
func (c *QuestionController) CreateTheoreticalQuestion(ctx *gin.Context) {
	var req service.TheoreticalQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	q, err := c.QuestionService.CreateTheoreticalQuestion(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// @Summary Add an answer option
// @Tags question
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param qid path string true "Question ID"
// @Param option body service.AnswerOptionRequest true "Option"
// @Success 201 {object} util.Response{data=model.TheoreticalQuestion}
// @Router /testing/theoretical/question/{qid}/option/new [post]
func (c *QuestionController) CreateAnswerOption(ctx *gin.Context) {
	var req service.AnswerOptionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	q, err := c.QuestionService.CreateAnswerOption(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("qid"), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// @Summary List practical questions with answers
// @Tags question
// @Produce json
// @Security BearerAuth
// @Param id path string true "Testing ID"
// @Success 200 {object} util.Response{data=[]model.PracticalQuestion}
// @Router /testing/practical/{id}/list [get]
func (c *QuestionController) GetPracticalQuestions(ctx *gin.Context) {
	questions, err := c.QuestionService.GetPracticalQuestions(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// @Summary List theoretical questions with options
// @Tags question
// @Produce json
// @Security BearerAuth
// @Param id path string true "Testing ID"
// @Success 200 {object} util.Response{data=[]model.TheoreticalQuestion}
// @Router /testing/theoretical/{id}/list [get]
func (c *QuestionController) GetTheoreticalQuestions(ctx *gin.Context) {
	questions, err := c.QuestionService.GetTheoreticalQuestions(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// @Summary Get a practical question
// @Tags question
// @Produce json
// @Security BearerAuth
// @Param qid path string true "Question ID"
// @Success 200 {object} util.Response{data=model.PracticalQuestion}
// @Router /testing/practical/question/{qid} [get]
func (c *QuestionController) GetPracticalQuestion(ctx *gin.Context) {
	q, err := c.QuestionService.GetPracticalQuestion(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("qid"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// @Summary Get a theoretical question
// @Tags question
// @Produce json
// @Security BearerAuth
// @Param qid path string true "Question ID"
// @Success 200 {object} util.Response{data=model.TheoreticalQuestion}
// @Router /testing/theoretical/question/{qid} [get]
func (c *QuestionController) GetTheoreticalQuestion(ctx *gin.Context) {
	q, err := c.QuestionService.GetTheoreticalQuestion(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("qid"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// @Summary Update a practical question
// @Tags question
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param qid path string true "Question ID"
// @Param question body service.PracticalQuestionUpdateRequest true "Fields to change"
// @Success 200 {object} util.Response{data=model.PracticalQuestion}
// @Router /testing/practical/question/{qid} [put]
func (c *QuestionController) UpdatePracticalQuestion(ctx *gin.Context) {
	var req service.PracticalQuestionUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	q, err := c.QuestionService.UpdatePracticalQuestion(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("qid"), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// @Summary Update a theoretical question
// @Tags question
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param qid path string true "Question ID"
// @Param question body service.TheoreticalQuestionUpdateRequest true "Fields to change"
// @Success 200 {object} util.Response{data=model.TheoreticalQuestion}
// @Router /testing/theoretical/question/{qid} [put]
func (c *QuestionController) UpdateTheoreticalQuestion(ctx *gin.Context) {
	var req service.TheoreticalQuestionUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	q, err := c.QuestionService.UpdateTheoreticalQuestion(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("qid"), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// @Summary Delete a practical question
// @Tags question
// @Produce json
// @Security BearerAuth
// @Param qid path string true "Question ID"
// @Success 200 {object} util.Response
// @Router /testing/practical/question/{qid} [delete]
func (c *QuestionController) DeletePracticalQuestion(ctx *gin.Context) {
	if err := c.QuestionService.DeletePracticalQuestion(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("qid")); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Delete a theoretical question and its options
// @Tags question
// @Produce json
// @Security BearerAuth
// @Param qid path string true "Question ID"
// @Success 200 {object} util.Response
// @Router /testing/theoretical/question/{qid} [delete]
func (c *QuestionController) DeleteTheoreticalQuestion(ctx *gin.Context) {
	if err := c.QuestionService.DeleteTheoreticalQuestion(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("qid")); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
