package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"datenite/internal/models/db_models"
	"datenite/internal/testutil"
)

func seedPlan(t *testing.T, repo IPlanRepository) *db_models.Plan {
	t.Helper()
	plan := &db_models.Plan{
		InviterEmail: "a@example.com",
		InviteeEmail: "b@example.com",
		City:         "Porto",
		Participants: []db_models.Participant{
			{Email: "a@example.com", Role: db_models.RoleInviter, Token: uuid.New()},
			{Email: "b@example.com", Role: db_models.RoleInvitee, Token: uuid.New()},
		},
	}
	if err := repo.CreatePlan(context.Background(), plan); err != nil {
		t.Fatalf("create plan: %v", err)
	}
	return plan
}

func TestCreateAndLoadByToken(t *testing.T) {
	repo := NewPlanRepository(testutil.DB(t))
	plan := seedPlan(t, repo)

	got, err := repo.GetParticipantByToken(context.Background(), plan.Participants[1].Token)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Role != db_models.RoleInvitee {
		t.Fatalf("participant: got=%+v", got)
	}
	if got.Plan == nil || got.Plan.City != "Porto" {
		t.Fatalf("plan not preloaded: %+v", got.Plan)
	}
	if len(got.Plan.Participants) != 2 {
		t.Fatalf("participants: want=2 got=%d", len(got.Plan.Participants))
	}
}

func TestGetParticipantByTokenUnknown(t *testing.T) {
	repo := NewPlanRepository(testutil.DB(t))
	seedPlan(t, repo)

	got, err := repo.GetParticipantByToken(context.Background(), uuid.New())
	if err != nil || got != nil {
		t.Fatalf("want nil, nil got=%v, %v", got, err)
	}
}

func TestDuplicateRoleRejected(t *testing.T) {
	repo := NewPlanRepository(testutil.DB(t))
	plan := &db_models.Plan{
		InviterEmail: "a@example.com",
		InviteeEmail: "b@example.com",
		Participants: []db_models.Participant{
			{Email: "a@example.com", Role: db_models.RoleInviter, Token: uuid.New()},
			{Email: "b@example.com", Role: db_models.RoleInviter, Token: uuid.New()},
		},
	}
	if err := repo.CreatePlan(context.Background(), plan); err == nil {
		t.Fatalf("expected unique role violation")
	}
}

func TestUpsertAnswerSetClearsSummary(t *testing.T) {
	ctx := context.Background()
	repo := NewPlanRepository(testutil.DB(t))
	plan := seedPlan(t, repo)
	inviter := plan.Participants[0]

	if err := repo.UpdateSummary(ctx, plan.ID, "old story"); err != nil {
		t.Fatalf("summary: %v", err)
	}
	if err := repo.UpsertAnswerSet(ctx, inviter.ID, map[string]string{"dinner_choice": "sushi"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.UpsertAnswerSet(ctx, inviter.ID, map[string]string{"dinner_choice": "tapas"}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := repo.GetParticipantByToken(ctx, inviter.Token)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Plan.AISummary != "" {
		t.Fatalf("summary should be cleared, got=%q", got.Plan.AISummary)
	}
	var set *db_models.AnswerSet
	for _, p := range got.Plan.Participants {
		if p.ID == inviter.ID {
			set = p.AnswerSet
		}
	}
	if set == nil || set.Answers.Data()["dinner_choice"] != "tapas" {
		t.Fatalf("answer set not replaced: %+v", set)
	}
}

func TestResetIdealDateDiscardsVotes(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	repo := NewPlanRepository(db)
	plan := seedPlan(t, repo)
	inviter, invitee := plan.Participants[0], plan.Participants[1]

	if err := repo.SaveQuestions(ctx, plan.ID, datatypes.JSON(`{"version":1,"questions":[]}`)); err != nil {
		t.Fatalf("questions: %v", err)
	}
	if err := repo.UpsertAnswerSet(ctx, invitee.ID, map[string]string{"dinner_choice": "sushi"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	legacy := &db_models.LegacyVote{ParticipantID: inviter.ID, DinnerChoice: "italian"}
	if err := db.Create(legacy).Error; err != nil {
		t.Fatalf("legacy: %v", err)
	}
	if err := repo.UpdateSummary(ctx, plan.ID, "story"); err != nil {
		t.Fatalf("summary: %v", err)
	}

	if err := repo.ResetIdealDate(ctx, &inviter, "Sunset picnic"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	got, err := repo.GetParticipantByToken(ctx, inviter.Token)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.IdealDate != "Sunset picnic" {
		t.Fatalf("ideal date: got=%q", got.IdealDate)
	}
	if string(got.Plan.GeneratedQuestions) != "{}" || got.Plan.AISummary != "" {
		t.Fatalf("plan not reset: questions=%s summary=%q", got.Plan.GeneratedQuestions, got.Plan.AISummary)
	}
	for _, p := range got.Plan.Participants {
		if p.AnswerSet != nil || p.LegacyVote != nil {
			t.Fatalf("%s still has votes", p.Role)
		}
	}
}
