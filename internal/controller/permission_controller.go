package controller

import (
	"hr_recruit_backend/internal/model"
	"hr_recruit_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PermissionController struct{}

func NewPermissionController() *PermissionController {
	return &PermissionController{}
}

// @Summary List every known permission
// @Tags permission
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Permission}
// @Router /permission/list [get]
func (c *PermissionController) List(ctx *gin.Context) {
	util.Success(ctx, model.AllPermissions)
}

// @Summary Permissions and state of the caller
// @Tags permission
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.CurrentUser}
// @Router /permission/me [get]
func (c *PermissionController) Me(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	util.Success(ctx, user)
}
