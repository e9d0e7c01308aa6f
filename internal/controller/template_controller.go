package controller

import (
	"bizdiag_backend/internal/service"
	"bizdiag_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type TemplateController struct {
	Service *service.TemplateService
}

func NewTemplateController(svc *service.TemplateService) *TemplateController {
	return &TemplateController{Service: svc}
}

// @Summary List active diagnostic templates
// @Tags diagnostics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.TemplateSummary}
// @Router /api/diagnostics/templates [get]
func (c *TemplateController) ListTemplates(ctx *gin.Context) {
	tpls, err := c.Service.ListTemplates(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, tpls)
}

// @Summary Get a template with its areas and questions
// @Tags diagnostics
// @Produce json
// @Security BearerAuth
// @Param id path int true "Template ID"
// @Success 200 {object} util.Response{data=model.DiagnosticTemplate}
// @Failure 404 {object} util.Response
// @Router /api/diagnostics/templates/{id} [get]
func (c *TemplateController) GetTemplate(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil || id == 0 {
		util.BadRequest(ctx, "invalid template id")
		return
	}

	tpl, err := c.Service.GetTemplate(ctx.Request.Context(), uint(id))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, tpl)
}

// @Summary Get a template by slug
// @Tags diagnostics
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Template slug"
// @Success 200 {object} util.Response{data=model.DiagnosticTemplate}
// @Failure 404 {object} util.Response
// @Router /api/diagnostics/templates/slug/{slug} [get]
func (c *TemplateController) GetTemplateBySlug(ctx *gin.Context) {
	tpl, err := c.Service.GetTemplateBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, tpl)
}
