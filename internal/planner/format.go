package planner

import (
	"regexp"
	"strings"
)

const maxPlanSteps = 5

var (
	numberedStepRe = regexp.MustCompile(`(?i)^\s*(?:\d+|i{1,3}|iv|vi{0,3}|ix|x)[.)]\s+(.*)$`)
	horizontalRule = regexp.MustCompile(`^[-*_\s]{3,}$`)
	bulletPrefixes = []string{"-", "*", "•"}
)

// Story is a stored summary split back into its display parts.
type Story struct {
	Intro   string   `json:"intro"`
	Steps   []string `json:"steps"`
	Closing string   `json:"closing"`
}

func cleanLine(line string) string {
	cleaned := strings.TrimSpace(line)
	if cleaned == "" {
		return ""
	}
	cleaned = strings.TrimSpace(strings.TrimLeft(cleaned, "#"))
	cleaned = strings.TrimSpace(strings.ReplaceAll(cleaned, "**", ""))
	return cleaned
}

// stripStepPrefix returns the step text of a bulleted or numbered line, or
// "" if the line is not a step.
func stripStepPrefix(line string) string {
	stripped := strings.TrimSpace(line)
	for _, prefix := range bulletPrefixes {
		if strings.HasPrefix(stripped, prefix) {
			return strings.TrimSpace(stripped[len(prefix):])
		}
	}
	if m := numberedStepRe.FindStringSubmatch(stripped); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// CleanGeneratedPlan normalizes provider output into
// "intro / up to five '- ' bullets / closing". Bullets beyond the fifth are
// dropped.
func CleanGeneratedPlan(text string) string {
	raw := nonEmptyLines(text)
	if len(raw) == 0 {
		return ""
	}
	if len(raw) == 1 {
		return cleanLine(raw[0])
	}

	lines := make([]string, 0, len(raw))
	for _, r := range raw {
		line := cleanLine(r)
		if line == "" || strings.HasPrefix(line, "```") || horizontalRule.MatchString(line) {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return ""
	}

	var (
		intro        string
		steps        []string
		trailing     []string
		reachedSteps bool
	)
	for _, line := range lines {
		if step := stripStepPrefix(line); step != "" {
			reachedSteps = true
			steps = append(steps, step)
			continue
		}
		switch {
		case reachedSteps:
			trailing = append(trailing, line)
		case intro == "":
			intro = line
		default:
			steps = append(steps, line)
		}
	}

	if intro == "" && len(steps) > 0 {
		intro, steps = steps[0], steps[1:]
	}

	closing := strings.TrimSpace(strings.Join(trailing, " "))
	if len(steps) == 0 && closing == "" {
		if intro != "" {
			return intro
		}
		return strings.Join(lines, "\n")
	}

	if len(steps) > maxPlanSteps {
		steps = steps[:maxPlanSteps]
	}

	pretty := make([]string, 0, len(steps)+2)
	if intro != "" {
		pretty = append(pretty, intro)
	}
	for _, step := range steps {
		pretty = append(pretty, "- "+step)
	}
	if closing != "" {
		pretty = append(pretty, closing)
	}
	return strings.Join(pretty, "\n")
}

// FormatStory splits a stored summary into intro, steps and closing for
// rendering.
func FormatStory(summary string) Story {
	var lines []string
	for _, line := range nonEmptyLines(summary) {
		lines = append(lines, strings.TrimSpace(line))
	}
	if len(lines) == 0 {
		return Story{}
	}

	var introParts, steps, closingParts []string
	inSteps := false
	for _, line := range lines {
		if startsWithBullet(line) {
			inSteps = true
			steps = append(steps, stripStepPrefix(line))
			continue
		}
		if inSteps {
			closingParts = append(closingParts, line)
		} else {
			introParts = append(introParts, line)
		}
	}

	if len(steps) == 0 && len(introParts) > 1 {
		steps = introParts[1:]
		introParts = introParts[:1]
	}

	return Story{
		Intro:   strings.Join(introParts, " "),
		Steps:   steps,
		Closing: strings.Join(closingParts, " "),
	}
}

func startsWithBullet(line string) bool {
	for _, prefix := range bulletPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
