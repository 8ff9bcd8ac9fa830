package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"datenite/internal/config"
	"datenite/internal/models/db_models"
	"datenite/internal/models/request_models"
	"datenite/internal/models/response_models"
	"datenite/internal/planner"
	"datenite/internal/repositories"
	"datenite/pkg/utils"
)

const (
	inviteEmailSubject    = "You have a Date Nite invite"
	inviteEmailBodyPrefix = "Your partner invited you to plan a date night. Open this link to vote: "

	maxIdealDateLength = 1000
	maxFeedbackLength  = 500
	maxCityLength      = 120
)

// DatePlanner is the generation pipeline the service delegates to.
type DatePlanner interface {
	GenerateDatePlan(ctx context.Context, plan planner.PlanContext, locale, feedback, previousSummary string) string
	GenerateVoteQuestions(ctx context.Context, participants []planner.ParticipantAnswers, locale string) planner.Schema
}

type PlanServiceInterface interface {
	CreatePlan(ctx context.Context, req request_models.CreatePlanRequest) (response_models.CreatedPlanResponse, error)
	GetVoteView(ctx context.Context, token, locale string) (response_models.VoteViewResponse, error)
	SubmitIdealDate(ctx context.Context, token, idealDate string) error
	SubmitVote(ctx context.Context, token string, answers map[string]string) error
	GetResults(ctx context.Context, token string) (response_models.ResultsResponse, error)
	GeneratePlan(ctx context.Context, token, locale string) (response_models.ResultsResponse, error)
	RefinePlan(ctx context.Context, token, locale, feedback string) (response_models.ResultsResponse, error)
}

type PlanService struct {
	planRepo repositories.IPlanRepository
	planner  DatePlanner
	cfg      *config.Config
	validate *validator.Validate
	log      *zap.Logger
}

func NewPlanService(
	planRepo repositories.IPlanRepository,
	datePlanner DatePlanner,
	cfg *config.Config,
	log *zap.Logger,
) PlanServiceInterface {
	if log == nil {
		log = zap.NewNop()
	}
	return &PlanService{
		planRepo: planRepo,
		planner:  datePlanner,
		cfg:      cfg,
		validate: validator.New(),
		log:      log,
	}
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func (s *PlanService) CreatePlan(ctx context.Context, req request_models.CreatePlanRequest) (response_models.CreatedPlanResponse, error) {
	inviterEmail := normalizeEmail(req.InviterEmail)
	inviteeEmail := normalizeEmail(req.InviteeEmail)
	city := strings.TrimSpace(req.City)

	for _, email := range []string{inviterEmail, inviteeEmail} {
		if err := s.validate.Var(email, "required,email"); err != nil {
			return response_models.CreatedPlanResponse{}, fmt.Errorf("%w: invalid email", utils.ErrInvalidInput)
		}
	}
	if !s.withinLength(city, maxCityLength) {
		return response_models.CreatedPlanResponse{}, fmt.Errorf("%w: city is too long", utils.ErrInvalidInput)
	}

	plan := &db_models.Plan{
		InviterEmail:       inviterEmail,
		InviteeEmail:       inviteeEmail,
		City:               city,
		GeneratedQuestions: repositories.EmptyQuestions,
		Participants: []db_models.Participant{
			{Email: inviterEmail, Role: db_models.RoleInviter, Token: uuid.New()},
			{Email: inviteeEmail, Role: db_models.RoleInvitee, Token: uuid.New()},
		},
	}
	if err := s.planRepo.CreatePlan(ctx, plan); err != nil {
		s.log.Error("create plan failed", zap.Error(err))
		return response_models.CreatedPlanResponse{}, utils.ErrDatabaseError
	}

	inviter, invitee := plan.Participants[0], plan.Participants[1]
	link := s.voteLink(invitee.Token)
	s.log.Info("plan created", zap.String("plan_id", plan.ID.String()))

	return response_models.CreatedPlanResponse{
		PlanID:          plan.ID.String(),
		InviterToken:    inviter.Token.String(),
		InviteeToken:    invitee.Token.String(),
		InviteeLink:     link,
		InviteGmailLink: inviteGmailLink(inviteeEmail, link),
	}, nil
}

func (s *PlanService) GetVoteView(ctx context.Context, token, locale string) (response_models.VoteViewResponse, error) {
	participant, err := s.loadParticipant(ctx, token)
	if err != nil {
		return response_models.VoteViewResponse{}, err
	}
	plan := participant.Plan

	view := response_models.VoteViewResponse{
		Role:      participant.Role,
		IdealDate: participant.IdealDate,
	}
	if participant.Role == db_models.RoleInviter {
		view.InviteeLink, view.InviteGmailLink = s.inviteLinks(plan)
	}

	ready := descriptionsReady(plan)
	if ready {
		if err := s.ensureQuestions(ctx, plan, locale); err != nil {
			return response_models.VoteViewResponse{}, err
		}
	}

	switch {
	case strings.TrimSpace(participant.IdealDate) == "":
		view.Stage = response_models.StageDescribe
	case !ready:
		view.Stage = response_models.StageWaiting
	default:
		view.Stage = response_models.StageVote
		schema := planner.ParseSchema(plan.GeneratedQuestions)
		view.Questions = &schema
		for _, p := range plan.Participants {
			if p.ID == participant.ID && p.AnswerSet != nil {
				view.Answers = p.AnswerSet.Answers.Data()
			}
		}
	}
	return view, nil
}

// withinLength counts characters the same way the request bindings do.
func (s *PlanService) withinLength(value string, limit int) bool {
	return s.validate.Var(value, fmt.Sprintf("max=%d", limit)) == nil
}

func (s *PlanService) SubmitIdealDate(ctx context.Context, token, idealDate string) error {
	idealDate = strings.TrimSpace(idealDate)
	if idealDate == "" || !s.withinLength(idealDate, maxIdealDateLength) {
		return fmt.Errorf("%w: ideal date must be 1-%d characters", utils.ErrInvalidInput, maxIdealDateLength)
	}

	participant, err := s.loadParticipant(ctx, token)
	if err != nil {
		return err
	}

	if err := s.planRepo.ResetIdealDate(ctx, participant, idealDate); err != nil {
		s.log.Error("save ideal date failed", zap.String("plan_id", participant.PlanID.String()), zap.Error(err))
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *PlanService) SubmitVote(ctx context.Context, token string, answers map[string]string) error {
	participant, err := s.loadParticipant(ctx, token)
	if err != nil {
		return err
	}
	plan := participant.Plan
	if !descriptionsReady(plan) {
		return utils.ErrDescriptionsPending
	}
	if err := s.ensureQuestions(ctx, plan, utils.DefaultLocale); err != nil {
		return err
	}

	cleaned, err := s.validateAnswers(planner.ParseSchema(plan.GeneratedQuestions), answers)
	if err != nil {
		return err
	}

	if err := s.planRepo.UpsertAnswerSet(ctx, participant.ID, cleaned); err != nil {
		s.log.Error("save vote failed", zap.String("plan_id", plan.ID.String()), zap.Error(err))
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *PlanService) GetResults(ctx context.Context, token string) (response_models.ResultsResponse, error) {
	participant, err := s.loadParticipant(ctx, token)
	if err != nil {
		return response_models.ResultsResponse{}, err
	}
	return s.buildResults(participant), nil
}

func (s *PlanService) GeneratePlan(ctx context.Context, token, locale string) (response_models.ResultsResponse, error) {
	participant, err := s.loadGeneratable(ctx, token)
	if err != nil {
		return response_models.ResultsResponse{}, err
	}

	plan := participant.Plan
	summary := s.planner.GenerateDatePlan(ctx, planContext(plan), locale, "", "")
	if err := s.saveSummary(ctx, plan, summary); err != nil {
		return response_models.ResultsResponse{}, err
	}
	return s.buildResults(participant), nil
}

func (s *PlanService) RefinePlan(ctx context.Context, token, locale, feedback string) (response_models.ResultsResponse, error) {
	participant, err := s.loadGeneratable(ctx, token)
	if err != nil {
		return response_models.ResultsResponse{}, err
	}

	feedback = strings.TrimSpace(feedback)
	if feedback == "" || !s.withinLength(feedback, maxFeedbackLength) {
		return response_models.ResultsResponse{}, fmt.Errorf("%w: feedback must be 1-%d characters", utils.ErrInvalidInput, maxFeedbackLength)
	}

	plan := participant.Plan
	if strings.TrimSpace(plan.AISummary) == "" {
		return response_models.ResultsResponse{}, utils.ErrNoSummary
	}

	summary := s.planner.GenerateDatePlan(ctx, planContext(plan), locale, feedback, plan.AISummary)
	if err := s.saveSummary(ctx, plan, summary); err != nil {
		return response_models.ResultsResponse{}, err
	}
	return s.buildResults(participant), nil
}

func (s *PlanService) loadParticipant(ctx context.Context, token string) (*db_models.Participant, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(token))
	if err != nil {
		return nil, utils.ErrParticipantNotFound
	}

	participant, err := s.planRepo.GetParticipantByToken(ctx, parsed)
	if err != nil {
		s.log.Error("load participant failed", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if participant == nil || participant.Plan == nil {
		return nil, utils.ErrParticipantNotFound
	}
	return participant, nil
}

// loadGeneratable loads the participant and checks that a plan may be
// generated for it right now.
func (s *PlanService) loadGeneratable(ctx context.Context, token string) (*db_models.Participant, error) {
	participant, err := s.loadParticipant(ctx, token)
	if err != nil {
		return nil, err
	}
	if !allVoted(participant.Plan) {
		return nil, utils.ErrVotesPending
	}
	if !s.cfg.EnableAI {
		return nil, utils.ErrAIDisabled
	}
	return participant, nil
}

func (s *PlanService) saveSummary(ctx context.Context, plan *db_models.Plan, summary string) error {
	if err := s.planRepo.UpdateSummary(ctx, plan.ID, summary); err != nil {
		s.log.Error("save summary failed", zap.String("plan_id", plan.ID.String()), zap.Error(err))
		return utils.ErrDatabaseError
	}
	plan.AISummary = summary
	return nil
}

// ensureQuestions generates and stores the plan's question schema once
// both descriptions are in.
func (s *PlanService) ensureQuestions(ctx context.Context, plan *db_models.Plan, locale string) error {
	if hasQuestions(plan) {
		return nil
	}

	schema := s.planner.GenerateVoteQuestions(ctx, participantAnswers(plan), locale)
	raw, err := json.Marshal(schema)
	if err != nil {
		return err
	}
	if err := s.planRepo.SaveQuestions(ctx, plan.ID, raw); err != nil {
		s.log.Error("save questions failed", zap.String("plan_id", plan.ID.String()), zap.Error(err))
		return utils.ErrDatabaseError
	}
	plan.GeneratedQuestions = raw
	return nil
}

// validateAnswers keeps only answers to known questions. Single-choice
// answers must name one of the question's options.
func (s *PlanService) validateAnswers(schema planner.Schema, answers map[string]string) (map[string]string, error) {
	cleaned := make(map[string]string, len(schema.Questions))
	var problems []string

	for _, q := range schema.Questions {
		value := strings.TrimSpace(answers[q.ID])
		switch q.Type {
		case planner.QuestionSingle:
			if value == "" {
				if q.Required {
					problems = append(problems, q.ID+" is required")
				}
				continue
			}
			if !q.HasOption(value) {
				problems = append(problems, q.ID+" is not a valid choice")
				continue
			}
		default:
			if err := s.validate.Var(value, "max=200"); err != nil {
				problems = append(problems, q.ID+" must be at most 200 characters")
				continue
			}
			if value == "" {
				continue
			}
		}
		cleaned[q.ID] = value
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", utils.ErrInvalidInput, strings.Join(problems, ", "))
	}
	return cleaned, nil
}

func (s *PlanService) buildResults(participant *db_models.Participant) response_models.ResultsResponse {
	plan := participant.Plan
	schema := planner.ParseSchema(plan.GeneratedQuestions)

	people := sortedParticipants(plan)
	votes := make([]response_models.ParticipantVoteResponse, 0, len(people))
	for _, p := range people {
		pa := toParticipantAnswers(p)
		vote := response_models.ParticipantVoteResponse{
			Role:  p.Role,
			Name:  pa.Role.DisplayName(),
			Email: p.Email,
			Voted: planner.VotedCount([]planner.ParticipantAnswers{pa}) == 1,
		}
		if pa.Source != nil {
			vote.Rows = planner.AnswerRows(schema, pa.Source.Answers())
		}
		votes = append(votes, vote)
	}

	everyone := allVoted(plan)
	res := response_models.ResultsResponse{
		City:         plan.City,
		Participants: votes,
		AllVoted:     everyone,
		AIEnabled:    s.cfg.EnableAI,
		CanGenerate:  everyone && s.cfg.EnableAI,
		Summary:      plan.AISummary,
		Story:        planner.FormatStory(plan.AISummary),
	}
	if participant.Role == db_models.RoleInviter {
		res.InviteeLink, _ = s.inviteLinks(plan)
	}
	return res
}

func (s *PlanService) voteLink(token uuid.UUID) string {
	return fmt.Sprintf("%s/participants/%s", strings.TrimRight(s.cfg.BaseURL, "/"), token)
}

func (s *PlanService) inviteLinks(plan *db_models.Plan) (string, string) {
	for _, p := range plan.Participants {
		if p.Role == db_models.RoleInvitee {
			link := s.voteLink(p.Token)
			return link, inviteGmailLink(plan.InviteeEmail, link)
		}
	}
	return "", ""
}

// inviteGmailLink builds a Gmail compose URL prefilled with the invite.
func inviteGmailLink(inviteeEmail, inviteeLink string) string {
	inviteeEmail = strings.TrimSpace(inviteeEmail)
	if inviteeEmail == "" || inviteeLink == "" {
		return ""
	}
	return "https://mail.google.com/mail/?view=cm&fs=1" +
		"&to=" + url.QueryEscape(inviteeEmail) +
		"&su=" + url.QueryEscape(inviteEmailSubject) +
		"&body=" + url.QueryEscape(inviteEmailBodyPrefix+inviteeLink)
}

func sortedParticipants(plan *db_models.Plan) []db_models.Participant {
	people := append([]db_models.Participant(nil), plan.Participants...)
	sort.SliceStable(people, func(i, j int) bool {
		return people[i].Role == db_models.RoleInviter && people[j].Role != db_models.RoleInviter
	})
	return people
}

func descriptionsReady(plan *db_models.Plan) bool {
	if len(plan.Participants) == 0 {
		return false
	}
	for _, p := range plan.Participants {
		if strings.TrimSpace(p.IdealDate) == "" {
			return false
		}
	}
	return true
}

func hasQuestions(plan *db_models.Plan) bool {
	var probe struct {
		Questions []json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal(plan.GeneratedQuestions, &probe); err != nil {
		return false
	}
	return len(probe.Questions) > 0
}

func allVoted(plan *db_models.Plan) bool {
	pas := participantAnswers(plan)
	return len(pas) >= 2 && planner.VotedCount(pas) == len(pas)
}

func toParticipantAnswers(p db_models.Participant) planner.ParticipantAnswers {
	pa := planner.ParticipantAnswers{
		Role:      planner.Role(p.Role),
		IdealDate: p.IdealDate,
	}
	switch {
	case p.AnswerSet != nil:
		pa.Source = planner.DynamicAnswers(p.AnswerSet.Answers.Data())
	case p.LegacyVote != nil:
		v := p.LegacyVote
		pa.Source = planner.LegacyVote{
			DinnerChoice:       v.DinnerChoice,
			ActivityChoice:     v.ActivityChoice,
			SweetChoice:        v.SweetChoice,
			BudgetChoice:       v.BudgetChoice,
			MoodChoice:         v.MoodChoice,
			DurationChoice:     v.DurationChoice,
			TransportChoice:    v.TransportChoice,
			DietaryNotes:       v.DietaryNotes,
			AccessibilityNotes: v.AccessibilityNotes,
		}
	}
	return pa
}

func participantAnswers(plan *db_models.Plan) []planner.ParticipantAnswers {
	out := make([]planner.ParticipantAnswers, 0, len(plan.Participants))
	for _, p := range plan.Participants {
		out = append(out, toParticipantAnswers(p))
	}
	return out
}

// planContext is the plain-data view of a plan handed to the generator.
func planContext(plan *db_models.Plan) planner.PlanContext {
	pc := planner.PlanContext{
		City:         plan.City,
		Participants: participantAnswers(plan),
	}
	if hasQuestions(plan) {
		schema := planner.ParseSchema(plan.GeneratedQuestions)
		pc.Schema = &schema
	}
	return pc
}
