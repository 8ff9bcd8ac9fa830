package response_models

import "datenite/internal/planner"

type CreatedPlanResponse struct {
	PlanID          string `json:"plan_id"`
	InviterToken    string `json:"inviter_token"`
	InviteeToken    string `json:"invitee_token"`
	InviteeLink     string `json:"invitee_link"`
	InviteGmailLink string `json:"invite_gmail_link"`
}

// Vote stages, in the order a participant moves through them.
const (
	StageDescribe = "describe"
	StageWaiting  = "waiting"
	StageVote     = "vote"
)

type VoteViewResponse struct {
	Role            string            `json:"role"`
	Stage           string            `json:"stage"`
	IdealDate       string            `json:"ideal_date,omitempty"`
	Questions       *planner.Schema   `json:"questions,omitempty"`
	Answers         map[string]string `json:"answers,omitempty"`
	InviteeLink     string            `json:"invitee_link,omitempty"`
	InviteGmailLink string            `json:"invite_gmail_link,omitempty"`
}

type ParticipantVoteResponse struct {
	Role  string              `json:"role"`
	Name  string              `json:"name"`
	Email string              `json:"email"`
	Voted bool                `json:"voted"`
	Rows  []planner.AnswerRow `json:"rows"`
}

type ResultsResponse struct {
	City         string                    `json:"city,omitempty"`
	Participants []ParticipantVoteResponse `json:"participants"`
	AllVoted     bool                      `json:"all_voted"`
	AIEnabled    bool                      `json:"ai_enabled"`
	CanGenerate  bool                      `json:"can_generate"`
	Summary      string                    `json:"summary,omitempty"`
	Story        planner.Story             `json:"story"`
	InviteeLink  string                    `json:"invitee_link,omitempty"`
}
