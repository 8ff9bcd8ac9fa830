package planner

import (
	"encoding/json"
	"errors"
	"strings"
)

const SchemaVersion = 1

type QuestionType string

const (
	QuestionSingle QuestionType = "single"
	QuestionText   QuestionType = "text"
)

const (
	maxOptions = 5
	minOptions = 2
)

// Canonical question ids, in display order.
const (
	DinnerChoice       = "dinner_choice"
	ActivityChoice     = "activity_choice"
	SweetChoice        = "sweet_choice"
	BudgetChoice       = "budget_choice"
	MoodChoice         = "mood_choice"
	DurationChoice     = "duration_choice"
	TransportChoice    = "transport_choice"
	DietaryNotes       = "dietary_notes"
	AccessibilityNotes = "accessibility_notes"
)

var CanonicalQuestionIDs = []string{
	DinnerChoice,
	ActivityChoice,
	SweetChoice,
	BudgetChoice,
	MoodChoice,
	DurationChoice,
	TransportChoice,
	DietaryNotes,
	AccessibilityNotes,
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Question struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	Type        QuestionType `json:"type"`
	Required    bool         `json:"required"`
	Options     []Option     `json:"options,omitempty"`
	Placeholder string       `json:"placeholder,omitempty"`
}

// Label returns the option label for value, or value itself when the
// question has no such option.
func (q Question) Label(value string) string {
	for _, o := range q.Options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

func (q Question) HasOption(value string) bool {
	for _, o := range q.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

type Schema struct {
	Version   int        `json:"version"`
	Questions []Question `json:"questions"`
}

func (s Schema) Question(id string) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

func (s Schema) IsEmpty() bool { return len(s.Questions) == 0 }

var errSchemaInvalid = errors.New("question schema cannot be repaired")

// DefaultSchema returns a fresh copy of the built-in question schema.
func DefaultSchema() Schema {
	return Schema{
		Version: SchemaVersion,
		Questions: []Question{
			{
				ID:       DinnerChoice,
				Text:     "What dinner vibe sounds best?",
				Type:     QuestionSingle,
				Required: true,
				Options: []Option{
					{Value: "italian", Label: "Cozy Italian spot"},
					{Value: "sushi", Label: "Sushi and candlelight"},
					{Value: "tapas", Label: "Tapas and shared plates"},
					{Value: "home", Label: "Cook a candlelit dinner at home"},
				},
			},
			{
				ID:       ActivityChoice,
				Text:     "What should the main activity be?",
				Type:     QuestionSingle,
				Required: true,
				Options: []Option{
					{Value: "movie", Label: "Rom-com movie night"},
					{Value: "music", Label: "Live music"},
					{Value: "art", Label: "Museum or art walk"},
					{Value: "dance", Label: "Dancing"},
				},
			},
			{
				ID:       SweetChoice,
				Text:     "How do you want to end the night?",
				Type:     QuestionSingle,
				Required: true,
				Options: []Option{
					{Value: "chocolate", Label: "Chocolate tasting"},
					{Value: "dessert", Label: "Dessert crawl"},
					{Value: "cocktail", Label: "Cocktails or mocktails"},
					{Value: "coffee", Label: "Late-night coffee date"},
				},
			},
			{
				ID:       BudgetChoice,
				Text:     "What budget level feels right?",
				Type:     QuestionSingle,
				Required: true,
				Options: []Option{
					{Value: "cozy", Label: "Budget-friendly and cozy"},
					{Value: "mid", Label: "Moderate splurge"},
					{Value: "fancy", Label: "Full romance splurge"},
				},
			},
			{
				ID:       MoodChoice,
				Text:     "What mood are you going for?",
				Type:     QuestionSingle,
				Required: true,
				Options: []Option{
					{Value: "playful", Label: "Playful and light"},
					{Value: "classic", Label: "Classic romantic"},
					{Value: "adventurous", Label: "Adventurous"},
					{Value: "relaxed", Label: "Relaxed and low-key"},
				},
			},
			{
				ID:       DurationChoice,
				Text:     "How long should the date be?",
				Type:     QuestionSingle,
				Required: true,
				Options: []Option{
					{Value: "short", Label: "2-3 hours"},
					{Value: "half", Label: "Half evening"},
					{Value: "full", Label: "Full evening"},
				},
			},
			{
				ID:       TransportChoice,
				Text:     "How much travel are you open to?",
				Type:     QuestionSingle,
				Required: true,
				Options: []Option{
					{Value: "walk", Label: "Walking or short rides"},
					{Value: "drive", Label: "Driving is fine"},
					{Value: "mixed", Label: "Mix of both"},
				},
			},
			{
				ID:          DietaryNotes,
				Text:        "Any dietary needs or foods to avoid?",
				Type:        QuestionText,
				Placeholder: "Any dietary needs or foods to avoid?",
			},
			{
				ID:          AccessibilityNotes,
				Text:        "Any accessibility preferences to plan around?",
				Type:        QuestionText,
				Placeholder: "Mobility, noise, or accessibility preferences",
			},
		},
	}
}

// NormalizeSchema repairs an externally supplied schema against the
// built-in one. Any candidate that cannot be repaired to exactly the nine
// canonical questions yields the default schema.
func NormalizeSchema(candidate any) Schema {
	normalized, err := normalizeSchema(toGeneric(candidate))
	if err != nil {
		return DefaultSchema()
	}
	return normalized
}

// ParseSchema normalizes a stored or AI-returned JSON document. Empty or
// malformed input yields the default schema.
func ParseSchema(raw []byte) Schema {
	var generic any
	if len(raw) == 0 || json.Unmarshal(raw, &generic) != nil {
		return DefaultSchema()
	}
	return NormalizeSchema(generic)
}

// toGeneric turns typed schemas into the decoded-JSON shape the
// normalizer works on.
func toGeneric(candidate any) any {
	switch candidate.(type) {
	case map[string]any, nil:
		return candidate
	}
	raw, err := json.Marshal(candidate)
	if err != nil {
		return nil
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil
	}
	return generic
}

func normalizeSchema(candidate any) (Schema, error) {
	root, ok := candidate.(map[string]any)
	if !ok {
		return Schema{}, errSchemaInvalid
	}
	items, ok := root["questions"].([]any)
	if !ok {
		return Schema{}, errSchemaInvalid
	}

	defaults := DefaultSchema()
	byID := make(map[string]Question, len(defaults.Questions))
	for _, q := range defaults.Questions {
		byID[q.ID] = q
	}

	accepted := make(map[string]Question, len(defaults.Questions))
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		id, _ := item["id"].(string)
		base, known := byID[id]
		if !known {
			continue
		}
		if _, dup := accepted[id]; dup {
			return Schema{}, errSchemaInvalid
		}
		if t, present := item["type"]; present {
			if ts, _ := t.(string); QuestionType(ts) != base.Type {
				continue
			}
		}
		accepted[id] = mergeQuestion(base, item)
	}

	if len(accepted) != len(defaults.Questions) {
		return Schema{}, errSchemaInvalid
	}

	out := Schema{Version: SchemaVersion, Questions: make([]Question, 0, len(CanonicalQuestionIDs))}
	for _, id := range CanonicalQuestionIDs {
		out.Questions = append(out.Questions, accepted[id])
	}
	return out, nil
}

func mergeQuestion(base Question, item map[string]any) Question {
	q := base
	q.Options = append([]Option(nil), base.Options...)

	if text, ok := item["text"].(string); ok && strings.TrimSpace(text) != "" {
		q.Text = strings.TrimSpace(text)
	}

	switch base.Type {
	case QuestionSingle:
		if opts := parseOptions(item["options"]); len(opts) >= minOptions {
			if len(opts) > maxOptions {
				opts = opts[:maxOptions]
			}
			q.Options = opts
		}
	case QuestionText:
		if placeholder, ok := item["placeholder"].(string); ok {
			q.Placeholder = strings.TrimSpace(placeholder)
		}
	}
	return q
}

func parseOptions(raw any) []Option {
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	var opts []Option
	for _, r := range list {
		m, ok := r.(map[string]any)
		if !ok {
			continue
		}
		value, vok := m["value"].(string)
		label, lok := m["label"].(string)
		if !vok || !lok {
			continue
		}
		value, label = strings.TrimSpace(value), strings.TrimSpace(label)
		if value == "" || label == "" {
			continue
		}
		opts = append(opts, Option{Value: value, Label: label})
	}
	return opts
}

// ExtractJSONObject pulls the outermost JSON object out of a model response,
// tolerating code fences and surrounding prose. It returns nil when nothing
// parseable is found.
func ExtractJSONObject(text string) map[string]any {
	stripped := strings.TrimSpace(text)
	if stripped == "" {
		return nil
	}
	if strings.HasPrefix(stripped, "```") {
		stripped = strings.Trim(stripped, "`")
		stripped = strings.TrimSpace(strings.TrimPrefix(stripped, "json"))
	}
	start := strings.Index(stripped, "{")
	end := strings.LastIndex(stripped, "}")
	if start == -1 || end <= start {
		return nil
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(stripped[start:end+1]), &parsed); err != nil {
		return nil
	}
	return parsed
}
