package planner

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"datenite/pkg/ai"
)

const (
	DefaultProviderTimeout = 30 * time.Second
	NoProviderReason       = "no AI key configured"
)

// Generator runs the provider chain and degrades to the local fallback.
// Providers are tried strictly in order, once each.
type Generator struct {
	providers []ai.Provider
	timeout   time.Duration
	log       *zap.Logger
}

func NewGenerator(providers []ai.Provider, timeout time.Duration, log *zap.Logger) *Generator {
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{
		providers: providers,
		timeout:   timeout,
		log:       log,
	}
}

func (g *Generator) Providers() []string {
	names := make([]string, 0, len(g.providers))
	for _, p := range g.providers {
		names = append(names, p.Name())
	}
	return names
}

// attempt makes a single bounded call and returns a classified
// *ai.ProviderError on failure.
func (g *Generator) attempt(ctx context.Context, p ai.Provider, prompt string) (string, *ai.ProviderError) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	text, err := p.Generate(callCtx, prompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = ai.ErrEmptyResponse
	}
	if err == nil {
		g.log.Debug("provider succeeded", zap.String("provider", p.Name()), zap.Duration("took", time.Since(start)))
		return text, nil
	}

	var perr *ai.ProviderError
	if !errors.As(err, &perr) {
		perr = &ai.ProviderError{Provider: p.Name(), Err: err}
	}
	perr.Reason = p.ClassifyError(err)
	g.log.Warn("provider attempt failed",
		zap.String("provider", p.Name()),
		zap.String("reason", string(perr.Reason)),
		zap.Duration("took", time.Since(start)),
		zap.Error(err),
	)
	return "", perr
}

// run tries every provider in order and hands each successful response to
// accept. It returns the first accepted result, or the list of failure
// annotations when none succeeded.
func (g *Generator) run(ctx context.Context, prompt string, accept func(string) bool) (string, []string) {
	var reasons []string
	for _, p := range g.providers {
		text, perr := g.attempt(ctx, p, prompt)
		if perr == nil {
			if accept(text) {
				return text, nil
			}
			reasons = append(reasons, p.Name()+" returned an unusable response")
			continue
		}
		reasons = append(reasons, ai.DescribeReason(p.Name(), perr.Reason))
	}
	return "", reasons
}

// GenerateDatePlan returns a cleaned provider plan or, when every provider
// fails or none is configured, the local fallback itinerary. It never fails.
func (g *Generator) GenerateDatePlan(ctx context.Context, plan PlanContext, locale, feedback, previousSummary string) string {
	schema := plan.schema()
	if VotedCount(plan.Participants) < 2 {
		return WaitingMessage
	}

	prompt := BuildPlanPrompt(PlanPromptInput{
		AnswerLines:     CollectAnswerLines(plan.Participants, schema),
		Locale:          locale,
		City:            plan.City,
		Feedback:        feedback,
		PreviousSummary: previousSummary,
	})

	text, reasons := g.run(ctx, prompt, func(s string) bool {
		return CleanGeneratedPlan(s) != ""
	})
	if text != "" {
		return CleanGeneratedPlan(text)
	}

	reason := NoProviderReason
	if len(reasons) > 0 {
		reason = strings.Join(reasons, "; ")
	}
	g.log.Info("using local fallback plan", zap.String("reason", reason))
	return BuildFallback(plan.Participants, schema, reason)
}

// GenerateVoteQuestions asks the provider chain for a personalized schema.
// Fewer than two ideal-date descriptions, no providers, or no usable
// response all yield the default schema.
func (g *Generator) GenerateVoteQuestions(ctx context.Context, participants []ParticipantAnswers, locale string) Schema {
	descriptions := describeIdealDates(participants)
	if len(descriptions) < 2 || len(g.providers) == 0 {
		return DefaultSchema()
	}

	prompt := BuildQuestionsPrompt(descriptions, locale)
	text, reasons := g.run(ctx, prompt, func(s string) bool {
		return ExtractJSONObject(s) != nil
	})
	if text == "" {
		g.log.Info("using default question schema", zap.Strings("reasons", reasons))
		return DefaultSchema()
	}
	return NormalizeSchema(ExtractJSONObject(text))
}
