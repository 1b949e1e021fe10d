package controller

import (
	"strconv"

	"hr_recruit_backend/internal/model"
	"hr_recruit_backend/internal/service"
	"hr_recruit_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type VacancyController struct {
	VacancyService *service.VacancyService
}

func NewVacancyController(vacancyService *service.VacancyService) *VacancyController {
	return &VacancyController{VacancyService: vacancyService}
}

// @Summary List vacancies
// @Description Opened vacancies are public, any other state needs the private vacancy permission.
// @Tags vacancy
// @Produce json
// @Security BearerAuth
// @Param state query int false "0 closed, 1 opened, 2 archived" default(1)
// @Param query query string false "Search in title and content"
// @Param page query int false "Page" default(1)
// @Param per_page query int false "Page size, at most 40" default(10)
// @Param order_by query string false "title, created_at or updated_at" default(created_at)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /vacancy/list [get]
func (c *VacancyController) GetVacancies(ctx *gin.Context) {
	p, err := readPageParams(ctx)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	state, err := util.QueryInt(ctx, "state", int(model.VacancyOpened))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	vacancies, err := c.VacancyService.GetVacancies(ctx.Request.Context(), util.GetUserFromContext(ctx), service.VacancyQuery{
		State:   model.VacancyState(state),
		Page:    p.Page,
		PerPage: p.PerPage,
		OrderBy: p.OrderBy,
		Query:   ctx.Query("query"),
	})
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: vacancies, Page: p.Page, PerPage: min(p.PerPage, util.PerPageLimit)})
}

// @Summary Get a vacancy
// @Tags vacancy
// @Produce json
// @Security BearerAuth
// @Param id path string true "Vacancy ID"
// @Success 200 {object} util.Response{data=model.Vacancy}
// @Router /vacancy/{id} [get]
func (c *VacancyController) GetVacancy(ctx *gin.Context) {
	vacancy, err := c.VacancyService.GetVacancy(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, vacancy)
}

// @Summary Create a vacancy
// @Tags vacancy
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param vacancy body service.VacancyCreateRequest true "Vacancy"
// @Success 201 {object} util.Response{data=model.Vacancy}
// @Router /vacancy/new [post]
func (c *VacancyController) CreateVacancy(ctx *gin.Context) {
	var req service.VacancyCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	vacancy, err := c.VacancyService.CreateVacancy(ctx.Request.Context(), util.GetUserFromContext(ctx), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, vacancy)
}

// @Summary Update a vacancy
// @Tags vacancy
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Vacancy ID"
// @Param vacancy body service.VacancyUpdateRequest true "Fields to change"
// @Success 200 {object} util.Response{data=model.Vacancy}
// @Router /vacancy/{id} [put]
func (c *VacancyController) UpdateVacancy(ctx *gin.Context) {
	var req service.VacancyUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	vacancy, err := c.VacancyService.UpdateVacancy(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, vacancy)
}

// @Summary Delete a vacancy with its testings and files
// @Tags vacancy
// @Produce json
// @Security BearerAuth
// @Param id path string true "Vacancy ID"
// @Success 200 {object} util.Response
// @Router /vacancy/{id} [delete]
func (c *VacancyController) DeleteVacancy(ctx *gin.Context) {
	if err := c.VacancyService.DeleteVacancy(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id")); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary List uploaded files of a vacancy
// @Tags vacancy
// @Produce json
// @Security BearerAuth
// @Param id path string true "Vacancy ID"
// @Success 200 {object} util.Response{data=[]service.VacancyFileItem}
// @Router /vacancy/{id}/files [get]
func (c *VacancyController) GetVacancyFiles(ctx *gin.Context) {
	files, err := c.VacancyService.GetVacancyFiles(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, files)
}

// @Summary Get a download link for a vacancy file
// @Tags vacancy
// @Produce json
// @Security BearerAuth
// @Param id path string true "Vacancy ID"
// @Param fid path string true "File ID"
// @Param download query bool false "Save as attachment instead of inline"
// @Success 200 {object} util.Response{data=service.VacancyFileItem}
// @Router /vacancy/{id}/files/{fid} [get]
func (c *VacancyController) GetVacancyFile(ctx *gin.Context) {
	download, err := strconv.ParseBool(ctx.DefaultQuery("download", "false"))
	if err != nil {
		util.BadRequest(ctx, "download must be a boolean")
		return
	}
	file, err := c.VacancyService.GetVacancyFile(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"), ctx.Param("fid"), download)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, file)
}

// @Summary Register a file and get a presigned upload form
// @Tags vacancy
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Vacancy ID"
// @Param file body service.VacancyFileCreateRequest true "File metadata"
// @Success 201 {object} util.Response{data=service.VacancyFileUpload}
// @Router /vacancy/{id}/files/new [post]
func (c *VacancyController) UploadVacancyFile(ctx *gin.Context) {
	var req service.VacancyFileCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	upload, err := c.VacancyService.UploadVacancyFile(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, upload)
}

// @Summary Confirm that a file reached the object storage
// @Tags vacancy
// @Produce json
// @Security BearerAuth
// @Param id path string true "Vacancy ID"
// @Param fid path string true "File ID"
// @Success 200 {object} util.Response
// @Router /vacancy/{id}/files/{fid}/confirm [post]
func (c *VacancyController) ConfirmVacancyFileUpload(ctx *gin.Context) {
	if err := c.VacancyService.ConfirmVacancyFileUpload(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"), ctx.Param("fid")); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Delete a vacancy file
// @Tags vacancy
// @Produce json
// @Security BearerAuth
// @Param id path string true "Vacancy ID"
// @Param fid path string true "File ID"
// @Success 200 {object} util.Response
// @Router /vacancy/{id}/files/{fid} [delete]
func (c *VacancyController) DeleteVacancyFile(ctx *gin.Context) {
	if err := c.VacancyService.DeleteVacancyFile(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"), ctx.Param("fid")); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Use an uploaded image as the vacancy poster
// @Tags vacancy
// @Produce json
// @Security BearerAuth
// @Param id path string true "Vacancy ID"
// @Param fid path string true "File ID"
// @Success 200 {object} util.Response
// @Router /vacancy/{id}/poster/{fid} [post]
func (c *VacancyController) SetVacancyPoster(ctx *gin.Context) {
	if err := c.VacancyService.SetVacancyPoster(ctx.Request.Context(), util.GetUserFromContext(ctx), ctx.Param("id"), ctx.Param("fid")); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
