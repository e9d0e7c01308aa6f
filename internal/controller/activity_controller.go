package controller

import (
	"bizdiag_backend/internal/middleware"
	"bizdiag_backend/internal/service"
	"bizdiag_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ActivityController struct {
	Service *service.ActivityService
}

func NewActivityController(svc *service.ActivityService) *ActivityController {
	return &ActivityController{Service: svc}
}

// @Summary My recent diagnostic activity
// @Tags activity
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max entries (default 20, max 100)"
// @Success 200 {object} util.Response{data=[]model.ActivityLog}
// @Router /api/activity [get]
func (c *ActivityController) ListRecent(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	logs, err := c.Service.Recent(ctx.Request.Context(), middleware.CurrentUserID(ctx), limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, logs)
}
