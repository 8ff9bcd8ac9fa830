package planner

import (
	"strings"
	"testing"
)

func sameAnswers() AnswerSet {
	return AnswerSet{
		DinnerChoice:    "italian",
		ActivityChoice:  "movie",
		SweetChoice:     "dessert",
		BudgetChoice:    "mid",
		MoodChoice:      "classic",
		DurationChoice:  "half",
		TransportChoice: "mixed",
	}
}

func votedPair(inviter, invitee AnswerSet) []ParticipantAnswers {
	return []ParticipantAnswers{
		{Role: RoleInviter, Source: DynamicAnswers(inviter)},
		{Role: RoleInvitee, Source: DynamicAnswers(invitee)},
	}
}

func lineFor(t *testing.T, text, title string) string {
	t.Helper()
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "- "+title+":") {
			return line
		}
	}
	t.Fatalf("no %s line in:\n%s", title, text)
	return ""
}

func TestBuildFallbackWaitsForBothVotes(t *testing.T) {
	cases := map[string][]ParticipantAnswers{
		"nobody": nil,
		"one voted": {
			{Role: RoleInviter, Source: DynamicAnswers(sameAnswers())},
			{Role: RoleInvitee},
		},
		"one empty set": {
			{Role: RoleInviter, Source: DynamicAnswers(sameAnswers())},
			{Role: RoleInvitee, Source: DynamicAnswers(AnswerSet{DinnerChoice: "  "})},
		},
	}
	for name, participants := range cases {
		if got := BuildFallback(participants, DefaultSchema(), "quota"); got != WaitingMessage {
			t.Fatalf("%s: want waiting message, got=%q", name, got)
		}
	}
}

func TestBuildFallbackAgreement(t *testing.T) {
	text := BuildFallback(votedPair(sameAnswers(), sameAnswers()), DefaultSchema(), "")

	if strings.Contains(text, "Reason:") {
		t.Fatalf("no reason expected:\n%s", text)
	}
	for _, title := range []string{"Dinner", "Activity", "Sweets", "Budget", "Mood"} {
		line := lineFor(t, text, title)
		if strings.Contains(line, "compromise") || strings.Contains(line, "blend") {
			t.Fatalf("agreement line uses compromise phrasing: %q", line)
		}
	}
	if dinner := lineFor(t, text, "Dinner"); !strings.Contains(dinner, "Cozy Italian spot") {
		t.Fatalf("dinner line should name the shared choice: %q", dinner)
	}
}

func TestBuildFallbackDisagreementNamesBoth(t *testing.T) {
	inviter := sameAnswers()
	invitee := sameAnswers()
	invitee[ActivityChoice] = "music"
	invitee[SweetChoice] = "coffee"

	text := BuildFallback(votedPair(inviter, invitee), DefaultSchema(), "Gemini quota exceeded")

	if !strings.Contains(strings.Split(text, "\n")[0], "Reason: Gemini quota exceeded") {
		t.Fatalf("intro should carry the reason:\n%s", text)
	}

	activity := lineFor(t, text, "Activity")
	if !strings.Contains(activity, "movie") || !strings.Contains(activity, "music") {
		t.Fatalf("activity line should name both choices: %q", activity)
	}
	sweets := lineFor(t, text, "Sweets")
	if !strings.Contains(sweets, "Dessert crawl") || !strings.Contains(sweets, "Late-night coffee date") {
		t.Fatalf("sweets line should name both choices: %q", sweets)
	}

	dinner := lineFor(t, text, "Dinner")
	if strings.Contains(dinner, "compromise") || strings.Count(dinner, "Cozy Italian spot") != 1 {
		t.Fatalf("dinner line should be a single unqualified choice: %q", dinner)
	}

	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] != fallbackClosing {
		t.Fatalf("closing: got=%q", lines[len(lines)-1])
	}
}

func TestBuildFallbackDeterministic(t *testing.T) {
	inviter := sameAnswers()
	invitee := sameAnswers()
	invitee[BudgetChoice] = "fancy"

	first := BuildFallback(votedPair(inviter, invitee), DefaultSchema(), "x")
	for i := 0; i < 5; i++ {
		if got := BuildFallback(votedPair(inviter, invitee), DefaultSchema(), "x"); got != first {
			t.Fatalf("fallback is not deterministic")
		}
	}
	// inviter's choice is always named first
	swapped := []ParticipantAnswers{
		{Role: RoleInvitee, Source: DynamicAnswers(invitee)},
		{Role: RoleInviter, Source: DynamicAnswers(inviter)},
	}
	if got := BuildFallback(swapped, DefaultSchema(), "x"); got != first {
		t.Fatalf("participant order should not matter")
	}
}

func TestBuildFallbackLegacyVotes(t *testing.T) {
	participants := []ParticipantAnswers{
		{Role: RoleInviter, Source: LegacyVote{DinnerChoice: "italian", ActivityChoice: "movie", SweetChoice: "dessert", BudgetChoice: "mid", MoodChoice: "classic"}},
		{Role: RoleInvitee, Source: LegacyVote{DinnerChoice: "sushi", ActivityChoice: "music", SweetChoice: "coffee", BudgetChoice: "cozy", MoodChoice: "playful"}},
	}
	text := BuildFallback(participants, DefaultSchema(), NoProviderReason)
	if text == WaitingMessage {
		t.Fatalf("legacy votes should count as voted")
	}
	if !strings.Contains(text, "no AI key configured") {
		t.Fatalf("missing reason:\n%s", text)
	}
}

func TestBuildFallbackOneSidedAnswer(t *testing.T) {
	inviter := sameAnswers()
	invitee := sameAnswers()
	delete(invitee, MoodChoice)

	mood := lineFor(t, BuildFallback(votedPair(inviter, invitee), DefaultSchema(), ""), "Mood")
	if strings.Contains(mood, "all evening") {
		t.Fatalf("one-sided answer must not be phrased as agreement: %q", mood)
	}
	if !strings.Contains(mood, "Classic romantic") {
		t.Fatalf("mood line should name the only pick: %q", mood)
	}
}
