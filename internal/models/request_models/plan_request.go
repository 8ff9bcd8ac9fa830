package request_models

type CreatePlanRequest struct {
	InviterEmail string `json:"inviter_email" binding:"required,email"`
	InviteeEmail string `json:"invitee_email" binding:"required,email"`
	City         string `json:"city" binding:"max=120"`
}

type IdealDateRequest struct {
	IdealDate string `json:"ideal_date" binding:"required,max=1000"`
}

type VoteRequest struct {
	Answers map[string]string `json:"answers" binding:"required"`
}

type RefinePlanRequest struct {
	Feedback string `json:"feedback" binding:"required,max=500"`
}
