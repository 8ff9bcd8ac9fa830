package planner

import (
	"fmt"
	"sort"
	"strings"
)

type Role string

const (
	RoleInviter Role = "inviter"
	RoleInvitee Role = "invitee"
)

// DisplayName is how a role is addressed in prompts and results.
func (r Role) DisplayName() string {
	switch r {
	case RoleInviter:
		return "You"
	case RoleInvitee:
		return "Partner"
	}
	return string(r)
}

func (r Role) order() int {
	switch r {
	case RoleInviter:
		return 0
	case RoleInvitee:
		return 1
	}
	return 2
}

// AnswerSet maps a question id to the submitted value.
type AnswerSet map[string]string

// AnswerSource is anything that can present a participant's vote as an
// AnswerSet.
type AnswerSource interface {
	Answers() AnswerSet
}

// DynamicAnswers is a vote submitted against a (possibly AI-generated)
// question schema.
type DynamicAnswers AnswerSet

func (d DynamicAnswers) Answers() AnswerSet {
	out := make(AnswerSet, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// LegacyVote is the fixed-field vote record kept for plans created before
// dynamic questions existed.
type LegacyVote struct {
	DinnerChoice       string
	ActivityChoice     string
	SweetChoice        string
	BudgetChoice       string
	MoodChoice         string
	DurationChoice     string
	TransportChoice    string
	DietaryNotes       string
	AccessibilityNotes string
}

// Answers renders empty free-text notes as "none", which is how legacy
// votes always reported them.
func (v LegacyVote) Answers() AnswerSet {
	return AnswerSet{
		DinnerChoice:       v.DinnerChoice,
		ActivityChoice:     v.ActivityChoice,
		SweetChoice:        v.SweetChoice,
		BudgetChoice:       v.BudgetChoice,
		MoodChoice:         v.MoodChoice,
		DurationChoice:     v.DurationChoice,
		TransportChoice:    v.TransportChoice,
		DietaryNotes:       noneIfEmpty(v.DietaryNotes),
		AccessibilityNotes: noneIfEmpty(v.AccessibilityNotes),
	}
}

func noneIfEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return "none"
	}
	return s
}

// ParticipantAnswers is one participant as seen by the core: role, ideal
// date description and, once voted, an answer source.
type ParticipantAnswers struct {
	Role      Role
	IdealDate string
	Source    AnswerSource
}

// answers returns the participant's answer set, or nil if they have not
// voted or voted with nothing.
func (p ParticipantAnswers) answers() AnswerSet {
	if p.Source == nil {
		return nil
	}
	set := p.Source.Answers()
	for _, v := range set {
		if strings.TrimSpace(v) != "" {
			return set
		}
	}
	return nil
}

// PlanContext is the plain-data view of a plan handed to the core.
type PlanContext struct {
	City         string
	Schema       *Schema
	Participants []ParticipantAnswers
}

func (pc PlanContext) schema() Schema {
	if pc.Schema == nil || pc.Schema.IsEmpty() {
		return DefaultSchema()
	}
	return NormalizeSchema(*pc.Schema)
}

func sortedParticipants(participants []ParticipantAnswers) []ParticipantAnswers {
	out := append([]ParticipantAnswers(nil), participants...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Role.order() < out[j].Role.order() })
	return out
}

// VotedCount counts participants with a non-empty answer set.
func VotedCount(participants []ParticipantAnswers) int {
	n := 0
	for _, p := range participants {
		if p.answers() != nil {
			n++
		}
	}
	return n
}

// AnswerRow is one rendered answer: question text and display value.
type AnswerRow struct {
	QuestionID string `json:"question_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
}

// AnswerRows renders answers in schema order, substituting option labels
// for single-choice values and skipping unanswered questions.
func AnswerRows(schema Schema, answers AnswerSet) []AnswerRow {
	var rows []AnswerRow
	for _, q := range schema.Questions {
		value := strings.TrimSpace(answers[q.ID])
		if value == "" {
			continue
		}
		display := value
		if q.Type == QuestionSingle {
			display = q.Label(value)
		}
		rows = append(rows, AnswerRow{QuestionID: q.ID, Question: q.Text, Answer: display})
	}
	return rows
}

// CollectAnswerLines renders one prompt line per voted participant, e.g.
// "- You answered: What dinner vibe sounds best?=Cozy Italian spot; ...".
func CollectAnswerLines(participants []ParticipantAnswers, schema Schema) []string {
	var lines []string
	for _, p := range sortedParticipants(participants) {
		answers := p.answers()
		if answers == nil {
			continue
		}
		rows := AnswerRows(schema, answers)
		if len(rows) == 0 {
			continue
		}
		parts := make([]string, 0, len(rows))
		for _, row := range rows {
			parts = append(parts, fmt.Sprintf("%s=%s", row.Question, row.Answer))
		}
		lines = append(lines, fmt.Sprintf("- %s answered: %s", p.Role.DisplayName(), strings.Join(parts, "; ")))
	}
	return lines
}
