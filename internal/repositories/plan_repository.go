package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"datenite/internal/models/db_models"
)

type IPlanRepository interface {
	CreatePlan(ctx context.Context, plan *db_models.Plan) error
	GetParticipantByToken(ctx context.Context, token uuid.UUID) (*db_models.Participant, error)
	ResetIdealDate(ctx context.Context, participant *db_models.Participant, idealDate string) error
	SaveQuestions(ctx context.Context, planID uuid.UUID, questions datatypes.JSON) error
	UpsertAnswerSet(ctx context.Context, participantID uuid.UUID, answers map[string]string) error
	UpdateSummary(ctx context.Context, planID uuid.UUID, summary string) error
}

// EmptyQuestions marks a plan whose question schema is not generated yet.
var EmptyQuestions = datatypes.JSON("{}")

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) IPlanRepository {
	return &PlanRepository{db: db}
}

// CreatePlan inserts the plan together with its participants.
func (p *PlanRepository) CreatePlan(ctx context.Context, plan *db_models.Plan) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(plan).Error
	})
}

// GetParticipantByToken loads the participant with its plan and every
// participant's votes. Returns nil, nil when the token is unknown.
func (p *PlanRepository) GetParticipantByToken(ctx context.Context, token uuid.UUID) (*db_models.Participant, error) {
	var participant db_models.Participant
	err := p.db.WithContext(ctx).
		Where("token = ?", token).
		Preload("Plan").
		Preload("Plan.Participants").
		Preload("Plan.Participants.AnswerSet").
		Preload("Plan.Participants.LegacyVote").
		First(&participant).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &participant, nil
}

// ResetIdealDate stores a new description and discards every vote, the
// question schema and the summary of the plan.
func (p *PlanRepository) ResetIdealDate(ctx context.Context, participant *db_models.Participant, idealDate string) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db_models.Participant{}).
			Where("id = ?", participant.ID).
			Update("ideal_date", idealDate).Error; err != nil {
			return err
		}

		sub := tx.Model(&db_models.Participant{}).
			Select("id").
			Where("plan_id = ?", participant.PlanID)

		if err := tx.Where("participant_id IN (?)", sub).Delete(&db_models.AnswerSet{}).Error; err != nil {
			return err
		}
		if err := tx.Where("participant_id IN (?)", sub).Delete(&db_models.LegacyVote{}).Error; err != nil {
			return err
		}

		return tx.Model(&db_models.Plan{}).
			Where("id = ?", participant.PlanID).
			Updates(map[string]any{
				"generated_questions": EmptyQuestions,
				"ai_summary":          "",
			}).Error
	})
}

func (p *PlanRepository) SaveQuestions(ctx context.Context, planID uuid.UUID, questions datatypes.JSON) error {
	return p.db.WithContext(ctx).
		Model(&db_models.Plan{}).
		Where("id = ?", planID).
		Update("generated_questions", questions).Error
}

// UpsertAnswerSet replaces the participant's answers and clears the plan
// summary, since it no longer reflects the votes.
func (p *PlanRepository) UpsertAnswerSet(ctx context.Context, participantID uuid.UUID, answers map[string]string) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		set := &db_models.AnswerSet{
			ParticipantID: participantID,
			Answers:       datatypes.NewJSONType(answers),
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "participant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"answers", "updated_at"}),
		}).Create(set).Error
		if err != nil {
			return err
		}

		sub := tx.Model(&db_models.Participant{}).
			Select("plan_id").
			Where("id = ?", participantID)

		return tx.Model(&db_models.Plan{}).
			Where("id IN (?)", sub).
			Update("ai_summary", "").Error
	})
}

func (p *PlanRepository) UpdateSummary(ctx context.Context, planID uuid.UUID, summary string) error {
	return p.db.WithContext(ctx).
		Model(&db_models.Plan{}).
		Where("id = ?", planID).
		Update("ai_summary", summary).Error
}
