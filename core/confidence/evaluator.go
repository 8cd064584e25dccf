// Package confidence scores how well a generated answer is grounded in the
// evidence it was synthesized from.
package confidence

import (
	"strings"
	"unicode"

	"github.com/fingraph/fingraph/model"
)

// sourceCues are phrases that signal the answer is referring back to the
// provided evidence.
var sourceCues = []string{
	"according to",
	"based on",
	"the context",
	"the document",
	"the report",
	"the filing",
}

// Evaluator computes a deterministic confidence score for an answer given
// the reasoning context it was produced from.
type Evaluator struct {
	weights     model.ConfidenceWeights
	minWords    int
	maxWords    int
	aggregation model.PathAggregation
}

func NewEvaluator(cfg model.EngineConfig) *Evaluator {
	return &Evaluator{
		weights:     cfg.Confidence,
		minWords:    cfg.MinAnswerWords,
		maxWords:    cfg.MaxAnswerWords,
		aggregation: cfg.PathAggregation,
	}
}

// Evaluate returns a score in [0, 1] and its tier. The score is a weighted
// sum of evidence grounding, answer length, and path confidence. Scores of
// 0.5 and above map to the High tier, everything below to Medium.
func (e *Evaluator) Evaluate(answer string, rc *model.ReasoningContext) (float64, model.ConfidenceTier) {
	score := e.weights.Grounding*e.groundingScore(answer, rc) +
		e.weights.Length*e.lengthScore(answer) +
		e.weights.Path*e.pathScore(rc)

	score = clamp(score)
	tier := model.TierMedium
	if score >= 0.5 {
		tier = model.TierHigh
	}

	return score, tier
}

// groundingScore is the fraction of the answer's content words that appear
// in the evidence text, with a small bonus for explicit source cues and for
// quoting figures.
func (e *Evaluator) groundingScore(answer string, rc *model.ReasoningContext) float64 {
	if rc == nil || rc.Len() == 0 {
		return 0
	}

	var evidence strings.Builder
	for _, item := range rc.Items() {
		evidence.WriteString(strings.ToLower(item.ContextText()))
		evidence.WriteByte('\n')
	}
	evidenceText := evidence.String()

	words := contentWords(answer)
	if len(words) == 0 {
		return 0
	}
	matched := 0
	for _, w := range words {
		if strings.Contains(evidenceText, w) {
			matched++
		}
	}
	score := float64(matched) / float64(len(words))

	lower := strings.ToLower(answer)
	for _, cue := range sourceCues {
		if strings.Contains(lower, cue) {
			score += 0.05
			break
		}
	}
	if strings.ContainsAny(answer, "0123456789") && strings.ContainsAny(evidenceText, "0123456789") {
		score += 0.05
	}

	return clamp(score)
}

// lengthScore is 1 inside the configured word window and falls off linearly
// outside it.
func (e *Evaluator) lengthScore(answer string) float64 {
	n := len(strings.Fields(answer))
	if n == 0 {
		return 0
	}
	if n < e.minWords {
		return float64(n) / float64(e.minWords)
	}
	if n > e.maxWords {
		return clamp(float64(e.maxWords) / float64(n))
	}
	return 1
}

// pathScore aggregates the confidences of the path evidence in the context.
// With no paths it is a neutral 0.5 so factual queries are not penalized.
func (e *Evaluator) pathScore(rc *model.ReasoningContext) float64 {
	if rc == nil {
		return 0.5
	}
	paths := rc.Paths()
	if len(paths) == 0 {
		return 0.5
	}

	if e.aggregation == model.AggregationMin {
		min := paths[0].PathConfidence
		for _, p := range paths[1:] {
			if p.PathConfidence < min {
				min = p.PathConfidence
			}
		}
		return clamp(min)
	}

	sum := 0.0
	for _, p := range paths {
		sum += p.PathConfidence
	}
	return clamp(sum / float64(len(paths)))
}

func contentWords(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var words []string
	for _, f := range fields {
		if len(f) > 3 {
			words = append(words, f)
		}
	}
	return words
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
