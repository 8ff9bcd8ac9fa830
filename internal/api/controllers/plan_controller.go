package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"datenite/internal/models/request_models"
	"datenite/internal/services"
	"datenite/pkg/utils"
)

type PlanController struct {
	planService services.PlanServiceInterface
	log         *zap.Logger
}

func NewPlanController(planService services.PlanServiceInterface, log *zap.Logger) *PlanController {
	return &PlanController{planService: planService, log: log}
}

func locale(c *gin.Context) string {
	return utils.PreferredLocale(c.GetHeader("Accept-Language"))
}

// CreatePlan godoc
// @Summary Create a date plan
// @Description Creates a plan with both participants and returns their tokens and the invite links
// @Tags Plans
// @Accept json
// @Produce json
// @Param request body request_models.CreatePlanRequest true "Plan payload"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /plans [post]
func (p *PlanController) CreatePlan(c *gin.Context) {
	var req request_models.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	created, err := p.planService.CreatePlan(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, p.log, err)
		return
	}

	utils.RespondWithStatus(c, http.StatusCreated, created, "Invite created. Share the partner link below by email, message, or copy/paste.")
}

// GetVoteView godoc
// @Summary Get the voting stage for a participant
// @Tags Participants
// @Produce json
// @Param token path string true "Participant token"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /participants/{token} [get]
func (p *PlanController) GetVoteView(c *gin.Context) {
	view, err := p.planService.GetVoteView(c.Request.Context(), c.Param("token"), locale(c))
	if err != nil {
		utils.HandleServiceError(c, p.log, err)
		return
	}
	utils.RespondSuccess(c, view, "")
}

// SubmitIdealDate godoc
// @Summary Describe an ideal date
// @Description Saving a description discards both votes and the generated questions
// @Tags Participants
// @Accept json
// @Produce json
// @Param token path string true "Participant token"
// @Param request body request_models.IdealDateRequest true "Ideal date"
// @Success 200 {object} utils.APIResponse
// @Router /participants/{token}/ideal-date [post]
func (p *PlanController) SubmitIdealDate(c *gin.Context) {
	var req request_models.IdealDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := p.planService.SubmitIdealDate(c.Request.Context(), c.Param("token"), req.IdealDate); err != nil {
		utils.HandleServiceError(c, p.log, err)
		return
	}
	utils.RespondSuccess(c, nil, "Saved. Once both descriptions are in, your questions unlock.")
}

// SubmitVote godoc
// @Summary Submit answers
// @Tags Participants
// @Accept json
// @Produce json
// @Param token path string true "Participant token"
// @Param request body request_models.VoteRequest true "Answers keyed by question id"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /participants/{token}/vote [post]
func (p *PlanController) SubmitVote(c *gin.Context) {
	var req request_models.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := p.planService.SubmitVote(c.Request.Context(), c.Param("token"), req.Answers); err != nil {
		utils.HandleServiceError(c, p.log, err)
		return
	}
	utils.RespondSuccess(c, nil, "Your choices are saved.")
}

// GetResults godoc
// @Summary Get votes and the current plan
// @Tags Participants
// @Produce json
// @Param token path string true "Participant token"
// @Success 200 {object} utils.APIResponse
// @Router /participants/{token}/results [get]
func (p *PlanController) GetResults(c *gin.Context) {
	res, err := p.planService.GetResults(c.Request.Context(), c.Param("token"))
	if err != nil {
		utils.HandleServiceError(c, p.log, err)
		return
	}
	utils.RespondSuccess(c, res, "")
}

// GeneratePlan godoc
// @Summary Generate the shared date plan
// @Tags Participants
// @Produce json
// @Param token path string true "Participant token"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /participants/{token}/generate [post]
func (p *PlanController) GeneratePlan(c *gin.Context) {
	res, err := p.planService.GeneratePlan(c.Request.Context(), c.Param("token"), locale(c))
	if err != nil {
		utils.HandleServiceError(c, p.log, err)
		return
	}
	utils.RespondSuccess(c, res, "AI plan generated.")
}

// RefinePlan godoc
// @Summary Refine the shared date plan with feedback
// @Tags Participants
// @Accept json
// @Produce json
// @Param token path string true "Participant token"
// @Param request body request_models.RefinePlanRequest true "Feedback"
// @Success 200 {object} utils.APIResponse
// @Router /participants/{token}/refine [post]
func (p *PlanController) RefinePlan(c *gin.Context) {
	var req request_models.RefinePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	res, err := p.planService.RefinePlan(c.Request.Context(), c.Param("token"), locale(c), req.Feedback)
	if err != nil {
		utils.HandleServiceError(c, p.log, err)
		return
	}
	utils.RespondSuccess(c, res, "Plan refined based on your feedback.")
}

// RegisterRoutes mounts the plan endpoints on r.
func (p *PlanController) RegisterRoutes(r gin.IRouter) {
	r.POST("/plans", p.CreatePlan)

	participants := r.Group("/participants/:token")
	participants.GET("", p.GetVoteView)
	participants.POST("/ideal-date", p.SubmitIdealDate)
	participants.POST("/vote", p.SubmitVote)
	participants.GET("/results", p.GetResults)
	participants.POST("/generate", p.GeneratePlan)
	participants.POST("/refine", p.RefinePlan)
}
