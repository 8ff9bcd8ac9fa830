package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RoleInviter = "inviter"
	RoleInvitee = "invitee"
)

type Plan struct {
	BaseModel
	InviterEmail string `gorm:"size:254;not null"`
	InviteeEmail string `gorm:"size:254;not null"`
	City         string `gorm:"size:120"`

	// GeneratedQuestions holds the normalized question schema, {} until
	// both ideal-date descriptions are in.
	GeneratedQuestions datatypes.JSON `gorm:"not null;default:'{}'"`
	AISummary          string `gorm:"type:text"`

	Participants []Participant `gorm:"constraint:OnDelete:CASCADE"`
}

type Participant struct {
	BaseModel
	PlanID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_participant_plan_role"`
	Email     string    `gorm:"size:254;not null"`
	Role      string    `gorm:"size:16;not null;uniqueIndex:idx_participant_plan_role"`
	Token     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	IdealDate string    `gorm:"type:text"`

	Plan       *Plan       `gorm:"foreignKey:PlanID"`
	AnswerSet  *AnswerSet  `gorm:"constraint:OnDelete:CASCADE"`
	LegacyVote *LegacyVote `gorm:"constraint:OnDelete:CASCADE"`
}

// AnswerSet is a vote against the plan's generated question schema.
type AnswerSet struct {
	BaseModel
	ParticipantID uuid.UUID                             `gorm:"type:uuid;not null;uniqueIndex"`
	Answers       datatypes.JSONType[map[string]string] `gorm:"not null"`
}

// LegacyVote is the fixed-field vote from before question schemas were
// generated. It is read but never written by the service.
type LegacyVote struct {
	BaseModel
	ParticipantID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	DinnerChoice       string    `gorm:"size:20"`
	ActivityChoice     string    `gorm:"size:20"`
	SweetChoice        string    `gorm:"size:20"`
	BudgetChoice       string    `gorm:"size:20"`
	MoodChoice         string    `gorm:"size:20;default:classic"`
	DurationChoice     string    `gorm:"size:20;default:half"`
	TransportChoice    string    `gorm:"size:20;default:mixed"`
	DietaryNotes       string    `gorm:"size:200"`
	AccessibilityNotes string    `gorm:"size:200"`
}
