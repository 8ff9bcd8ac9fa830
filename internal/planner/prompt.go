package planner

import (
	"fmt"
	"strings"
)

const DefaultLocale = "en-US"

// PlanPromptInput carries everything the plan prompt is rendered from.
type PlanPromptInput struct {
	AnswerLines     []string
	Locale          string
	City            string
	Feedback        string
	PreviousSummary string
}

func localityLine(city string) string {
	city = strings.TrimSpace(city)
	if city == "" {
		return "Locality: not provided. Keep suggestions broadly applicable."
	}
	return fmt.Sprintf("Locality: %s. Tailor suggestions to places and vibes common in this area.", city)
}

func localeOrDefault(locale string) string {
	if strings.TrimSpace(locale) == "" {
		return DefaultLocale
	}
	return strings.TrimSpace(locale)
}

// BuildPlanPrompt renders the date-plan prompt. The refinement block is
// only added when both feedback and a previous summary are present.
func BuildPlanPrompt(in PlanPromptInput) string {
	var prompt strings.Builder

	prompt.WriteString("You are a romantic date planner. Build one date-night story for a couple based on both votes. ")
	prompt.WriteString("Write in the user's locale and language when possible.\n")
	fmt.Fprintf(&prompt, "Locale preference: %s\n", localeOrDefault(in.Locale))
	prompt.WriteString(localityLine(in.City))
	prompt.WriteString("\n\n")

	prompt.WriteString("Output format:\n")
	prompt.WriteString("- First line: one warm intro sentence\n")
	prompt.WriteString("- Then exactly 5 bullet points that are practical\n")
	prompt.WriteString("- Final line: one short closing sentence\n\n")

	prompt.WriteString("Votes:\n")
	prompt.WriteString(strings.Join(in.AnswerLines, "\n"))

	feedback := strings.TrimSpace(in.Feedback)
	previous := strings.TrimSpace(in.PreviousSummary)
	if feedback != "" && previous != "" {
		prompt.WriteString("\n\nPrevious plan:\n")
		prompt.WriteString(previous)
		prompt.WriteString("\n\nRefinement request from couple:\n")
		prompt.WriteString(feedback)
		prompt.WriteString("\n\nUpdate the plan to reflect this feedback while keeping it practical and realistic.")
	}

	return prompt.String()
}

// BuildQuestionsPrompt asks a provider for a personalized question schema
// from both ideal-date descriptions.
func BuildQuestionsPrompt(descriptions []string, locale string) string {
	var prompt strings.Builder

	prompt.WriteString("You are helping a couple plan one date night. ")
	prompt.WriteString("Generate personalized voting questions and answer options. ")
	prompt.WriteString(`Return JSON only with this shape: {"questions":[...]}` + "\n")
	fmt.Fprintf(&prompt, "Locale preference: %s\n", localeOrDefault(locale))
	fmt.Fprintf(&prompt, "Use exactly these ids in this order: %s.\n", strings.Join(CanonicalQuestionIDs, ", "))
	prompt.WriteString("For single-choice ids, include 3-5 options with value and label.\n")
	prompt.WriteString("For text ids, keep type=text and include placeholder.\n\n")
	prompt.WriteString("Couple descriptions:\n")
	prompt.WriteString(strings.Join(descriptions, "\n"))

	return prompt.String()
}

// describeIdealDates returns one prompt line per non-empty description.
func describeIdealDates(participants []ParticipantAnswers) []string {
	var lines []string
	for _, p := range sortedParticipants(participants) {
		desc := strings.TrimSpace(p.IdealDate)
		if desc == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s ideal date: %s", p.Role.DisplayName(), desc))
	}
	return lines
}
