package controller

import (
	"bizdiag_backend/internal/middleware"
	"bizdiag_backend/internal/model"
	"bizdiag_backend/internal/repository"
	"bizdiag_backend/internal/service"
	"bizdiag_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DiagnosticController struct {
	Service *service.DiagnosticService
}

func NewDiagnosticController(svc *service.DiagnosticService) *DiagnosticController {
	return &DiagnosticController{Service: svc}
}

// @Summary Start a diagnostic session
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.StartSessionRequest true "Template to answer"
// @Success 201 {object} util.Response{data=service.StartSessionResult}
// @Failure 404 {object} util.Response
// @Router /api/sessions [post]
func (c *DiagnosticController) StartSession(ctx *gin.Context) {
	var req service.StartSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.StartSession(ctx.Request.Context(), middleware.CurrentUserID(ctx), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// @Summary List my diagnostic sessions
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param status query string false "in_progress, completed or cancelled"
// @Param template_id query int false "Template ID"
// @Success 200 {object} util.Response{data=[]service.SessionSummary}
// @Router /api/sessions [get]
func (c *DiagnosticController) ListSessions(ctx *gin.Context) {
	filter := repository.SessionFilter{
		Status:     model.SessionStatus(ctx.Query("status")),
		TemplateID: util.MustParseUint(ctx.Query("template_id")),
	}
	switch filter.Status {
	case "", model.SessionInProgress, model.SessionCompleted, model.SessionCancelled:
	default:
		util.BadRequest(ctx, "invalid status filter")
		return
	}

	sessions, err := c.Service.ListSessions(ctx.Request.Context(), middleware.CurrentUserID(ctx), filter)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, sessions)
}

// @Summary Get a session with its responses and progress
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} util.Response{data=service.SessionDetail}
// @Failure 404 {object} util.Response
// @Router /api/sessions/{id} [get]
func (c *DiagnosticController) GetSession(ctx *gin.Context) {
	detail, err := c.Service.GetSession(ctx.Request.Context(), middleware.CurrentUserID(ctx), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// @Summary Cancel an in-progress session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/sessions/{id} [delete]
func (c *DiagnosticController) CancelSession(ctx *gin.Context) {
	if err := c.Service.CancelSession(ctx.Request.Context(), middleware.CurrentUserID(ctx), ctx.Param("id")); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"status": model.SessionCancelled})
}

// @Summary Answer one question
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param body body service.ResponseInput true "Answer"
// @Success 200 {object} util.Response{data=service.Progress}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/sessions/{id}/responses [post]
func (c *DiagnosticController) SubmitResponse(ctx *gin.Context) {
	var in service.ResponseInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.Service.SubmitResponse(ctx.Request.Context(), middleware.CurrentUserID(ctx), ctx.Param("id"), in)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// @Summary Answer several questions at once
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param body body service.BatchResponseRequest true "Answers"
// @Success 200 {object} util.Response{data=service.BatchResult}
// @Router /api/sessions/{id}/responses/batch [post]
func (c *DiagnosticController) SubmitResponses(ctx *gin.Context) {
	var req service.BatchResponseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.SubmitResponses(ctx.Request.Context(), middleware.CurrentUserID(ctx), ctx.Param("id"), req.Responses)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary Completion progress of a session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} util.Response{data=service.Progress}
// @Router /api/sessions/{id}/progress [get]
func (c *DiagnosticController) GetProgress(ctx *gin.Context) {
	progress, err := c.Service.GetProgress(ctx.Request.Context(), middleware.CurrentUserID(ctx), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// @Summary Finalize a session and compute its scores
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} util.Response{data=service.FinalizeResult}
// @Failure 409 {object} util.Response
// @Router /api/sessions/{id}/finalize [post]
func (c *DiagnosticController) Finalize(ctx *gin.Context) {
	result, err := c.Service.Finalize(ctx.Request.Context(), middleware.CurrentUserID(ctx), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary Recommendations of a completed session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} util.Response{data=model.RecommendationBundle}
// @Failure 409 {object} util.Response
// @Router /api/sessions/{id}/recommendations [get]
func (c *DiagnosticController) GetRecommendations(ctx *gin.Context) {
	c.recommendations(ctx, false)
}

// @Summary Regenerate the recommendations of a completed session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} util.Response{data=model.RecommendationBundle}
// @Failure 409 {object} util.Response
// @Router /api/sessions/{id}/recommendations [post]
func (c *DiagnosticController) RegenerateRecommendations(ctx *gin.Context) {
	c.recommendations(ctx, true)
}

func (c *DiagnosticController) recommendations(ctx *gin.Context, regenerate bool) {
	bundle, err := c.Service.RecommendationBundle(ctx.Request.Context(), middleware.CurrentUserID(ctx), ctx.Param("id"), regenerate)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, bundle)
}

// @Summary Compare two completed sessions
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param a query string true "Current session ID"
// @Param b query string true "Previous session ID"
// @Success 200 {object} util.Response{data=service.SessionComparison}
// @Failure 409 {object} util.Response
// @Router /api/sessions/compare [get]
func (c *DiagnosticController) Compare(ctx *gin.Context) {
	a, b := ctx.Query("a"), ctx.Query("b")
	if a == "" || b == "" {
		util.BadRequest(ctx, "query parameters a and b are required")
		return
	}

	cmp, err := c.Service.Compare(ctx.Request.Context(), middleware.CurrentUserID(ctx), a, b)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, cmp)
}
