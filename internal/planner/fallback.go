package planner

import (
	"fmt"
	"strings"
)

const (
	WaitingMessage  = "Waiting for both votes before creating a shared date plan."
	fallbackIntro   = "Local fallback plan (AI unavailable right now)."
	fallbackClosing = "Close by choosing one thing to repeat on your next date."
)

type fallbackCategory struct {
	questionID string
	title      string
	agree      string // %s: shared choice
	blend      string // %s, %s: first and second choice
	open       string
}

var fallbackCategories = []fallbackCategory{
	{
		questionID: DinnerChoice,
		title:      "Dinner",
		agree:      "you both picked %s, so book it early and settle in.",
		blend:      "compromise between %s and %s; pick one for dinner and borrow a dish idea from the other.",
		open:       "choose a place that fits your shared taste and budget.",
	},
	{
		questionID: ActivityChoice,
		title:      "Activity",
		agree:      "you both want %s, so make it the centerpiece of the night.",
		blend:      "blend %s with %s; start with one and finish with a short taste of the other.",
		open:       "do one activity that fits your overlap in mood and pace.",
	},
	{
		questionID: SweetChoice,
		title:      "Sweets",
		agree:      "end the night with %s.",
		blend:      "compromise between %s and %s; share a little of both on the way home.",
		open:       "end with a sweet stop you both enjoy.",
	},
	{
		questionID: BudgetChoice,
		title:      "Budget",
		agree:      "keep it %s.",
		blend:      "compromise between %s and %s; splurge on one moment and keep the rest simple.",
		open:       "agree on a spending limit before you head out.",
	},
	{
		questionID: MoodChoice,
		title:      "Mood",
		agree:      "aim for %s all evening.",
		blend:      "blend %s with %s; open with one vibe and let the night drift toward the other.",
		open:       "add one personal romantic touch inspired by your descriptions.",
	},
}

// BuildFallback composes a deterministic itinerary from the participants'
// answers. reason, when set, is appended to the intro.
func BuildFallback(participants []ParticipantAnswers, schema Schema, reason string) string {
	if VotedCount(participants) < 2 {
		return WaitingMessage
	}
	if schema.IsEmpty() {
		schema = DefaultSchema()
	}

	var voted []AnswerSet
	for _, p := range sortedParticipants(participants) {
		if answers := p.answers(); answers != nil {
			voted = append(voted, answers)
		}
	}

	intro := fallbackIntro
	if reason = strings.TrimSpace(reason); reason != "" {
		intro = fmt.Sprintf("%s Reason: %s", intro, reason)
	}

	lines := make([]string, 0, len(fallbackCategories)+2)
	lines = append(lines, intro)
	for _, cat := range fallbackCategories {
		lines = append(lines, "- "+cat.line(schema, voted))
	}
	lines = append(lines, fallbackClosing)

	return CleanGeneratedPlan(strings.Join(lines, "\n"))
}

func (c fallbackCategory) line(schema Schema, voted []AnswerSet) string {
	q, _ := schema.Question(c.questionID)

	var choices []string
	answered := 0
	seen := map[string]bool{}
	for _, answers := range voted {
		value := strings.TrimSpace(answers[c.questionID])
		if value == "" {
			continue
		}
		answered++
		if seen[value] {
			continue
		}
		seen[value] = true
		choices = append(choices, q.Label(value))
	}

	var body string
	switch {
	case len(choices) == 0:
		body = c.open
	case len(choices) == 1 && answered < len(voted):
		body = fmt.Sprintf("go with %s, the only pick on the table.", choices[0])
	case len(choices) == 1:
		body = fmt.Sprintf(c.agree, choices[0])
	default:
		body = fmt.Sprintf(c.blend, choices[0], choices[1])
	}
	return fmt.Sprintf("%s: %s", c.title, body)
}
