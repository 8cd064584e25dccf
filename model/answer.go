package model

import "time"

// ConfidenceTier is a coarse bucket summarizing the confidence score.
// There is intentionally no Low tier.
type ConfidenceTier string

const (
	TierHigh   ConfidenceTier = "High"
	TierMedium ConfidenceTier = "Medium"
)

// AnswerResult is the final output of a query.
type AnswerResult struct {
	Text               string         `json:"text"`
	ChainOfThought     []string       `json:"chain_of_thought,omitempty"`
	SupportingEvidence []string       `json:"supporting_evidence"`
	Intent             IntentCategory `json:"intent"`
	ConfidenceScore    float64        `json:"confidence_score"`
	ConfidenceTier     ConfidenceTier `json:"confidence_tier"`
}

// Turn is one prior exchange of the conversation, supplied by the memory
// collaborator. Persistence of turns is not this engine's concern.
type Turn struct {
	Query     string    `json:"query"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}
