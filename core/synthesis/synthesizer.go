// Package synthesis turns an assembled reasoning context into a natural
// language answer with an explicit chain of thought.
package synthesis

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fingraph/fingraph/model"
)

// Synthesizer produces grounded answers in two generation stages, first an
// explicit reasoning chain and then the final answer conditioned on it.
type Synthesizer struct {
	gen     Generator
	timeout time.Duration
	retries int
	log     *slog.Logger
}

func NewSynthesizer(gen Generator, cfg model.EngineConfig, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Synthesizer{
		gen:     gen,
		timeout: cfg.GenerationTimeout,
		retries: cfg.GenerationRetries,
		log:     logger,
	}
}

// Synthesize generates the answer text and the reasoning steps that led to
// it. A failure of the reasoning stage is logged and degraded to an empty
// chain. A failure of the answer stage is returned as a
// *model.GenerationError.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, rc *model.ReasoningContext, history []model.Turn, historyTurns int) (string, []string, error) {
	docSection, relSection := renderContext(rc)
	memory := renderHistory(history, historyTurns)

	var steps []string
	reasoning, err := s.generate(ctx, reasoningPrompt(query, docSection, relSection))
	if err != nil {
		s.log.Warn("reasoning stage failed, answering without chain of thought", slog.Any("error", err))
		reasoning = ""
	} else {
		steps = parseReasoningSteps(reasoning)
	}

	answer, err := s.generate(ctx, answerPrompt(query, docSection, relSection, reasoning, memory))
	if err != nil {
		return "", nil, err
	}

	return answer, steps, nil
}

// generate calls the generator with a per-attempt timeout and exponential
// backoff between attempts.
func (s *Synthesizer) generate(ctx context.Context, prompt string) (string, error) {
	attempts := 0
	operation := func() (string, error) {
		attempts++
		attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		text, err := s.gen.Generate(attemptCtx, prompt)
		if err != nil {
			if ctx.Err() != nil {
				return "", backoff.Permanent(err)
			}
			s.log.Debug("generation attempt failed", slog.Int("attempt", attempts), slog.Any("error", err))
			return "", err
		}
		return text, nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(s.retries)), ctx)
	text, err := backoff.RetryWithData(operation, policy)
	if err != nil {
		return "", &model.GenerationError{Attempts: attempts, Err: err}
	}

	return text, nil
}
