package controller

import (
	"hr_recruit_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type pageParams struct {
	Page    int
	PerPage int
	OrderBy string
}

// readPageParams reads page, per_page and order_by with their defaults.
// Range checks are left to the services.
func readPageParams(ctx *gin.Context) (pageParams, error) {
	page, err := util.QueryInt(ctx, "page", util.DefaultPage)
	if err != nil {
		return pageParams{}, err
	}
	perPage, err := util.QueryInt(ctx, "per_page", util.DefaultPerPage)
	if err != nil {
		return pageParams{}, err
	}
	return pageParams{
		Page:    page,
		PerPage: perPage,
		OrderBy: ctx.DefaultQuery("order_by", "created_at"),
	}, nil
}
