package model

import (
	"fmt"
	"time"
)

// PathAggregation selects how edge weights combine into a path confidence.
// Both options are monotone non-increasing with hop count for weights in [0,1].
type PathAggregation string

const (
	AggregationProduct PathAggregation = "product"
	AggregationMin     PathAggregation = "min"
)

// QueryConfig holds the per-query retrieval parameters. Callers may pass a
// modified copy to override the engine defaults for a single query.
type QueryConfig struct {
	// Vector search parameters
	TopK                int     `json:"top_k"`
	SimilarityThreshold float64 `json:"similarity_threshold"`

	// Graph traversal parameters
	MaxHops           int     `json:"max_hops"`
	MinEdgeConfidence float64 `json:"min_edge_confidence"`
	MaxPaths          int     `json:"max_paths"`
	MaxAnchors        int     `json:"max_anchors"`

	// Context parameters
	ContextBudget int `json:"context_budget"` // characters
	HistoryTurns  int `json:"history_turns"`
}

// DefaultQueryConfig returns a sensible default configuration.
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		TopK:                5,
		SimilarityThreshold: 0.3,
		MaxHops:             2,
		MinEdgeConfidence:   0.5,
		MaxPaths:            8,
		MaxAnchors:          5,
		ContextBudget:       4000,
		HistoryTurns:        2,
	}
}

// Validate rejects invalid query parameters.
func (c *QueryConfig) Validate() error {
	if c.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", c.TopK)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity_threshold must be in [0,1], got %v", c.SimilarityThreshold)
	}
	if c.MaxHops < 0 {
		return fmt.Errorf("max_hops must not be negative, got %d", c.MaxHops)
	}
	if c.MinEdgeConfidence < 0 || c.MinEdgeConfidence > 1 {
		return fmt.Errorf("min_edge_confidence must be in [0,1], got %v", c.MinEdgeConfidence)
	}
	if c.MaxPaths <= 0 {
		return fmt.Errorf("max_paths must be positive, got %d", c.MaxPaths)
	}
	if c.MaxAnchors <= 0 {
		return fmt.Errorf("max_anchors must be positive, got %d", c.MaxAnchors)
	}
	if c.ContextBudget <= 0 {
		return fmt.Errorf("context_budget must be positive, got %d", c.ContextBudget)
	}
	if c.HistoryTurns < 0 {
		return fmt.Errorf("history_turns must not be negative, got %d", c.HistoryTurns)
	}
	return nil
}

// ConfidenceWeights weights the components of the confidence score. The
// exact weighting is an open design point; only the 0.5 High/Medium
// threshold is a fixed contract.
type ConfidenceWeights struct {
	Grounding float64 `json:"grounding"`
	Length    float64 `json:"length"`
	Path      float64 `json:"path"`
}

// EngineConfig holds the construction-time configuration of the engine.
// All thresholds are validated before the first query is served.
type EngineConfig struct {
	Query QueryConfig `json:"query"`

	// Corpus parameters
	EmbeddingDim int `json:"embedding_dim"`

	// Ranking parameters
	VectorWeight float64 `json:"vector_weight"` // weight for similarity score
	EntityWeight float64 `json:"entity_weight"` // boost for anchor mentions

	// Assembly parameters
	DedupThreshold float64 `json:"dedup_threshold"` // near-duplicate cosine cutoff

	// Traversal parameters
	PathAggregation PathAggregation `json:"path_aggregation"`

	// Confidence parameters
	Confidence     ConfidenceWeights `json:"confidence"`
	MinAnswerWords int               `json:"min_answer_words"`
	MaxAnswerWords int               `json:"max_answer_words"`

	// Generation parameters
	GenerationTimeout time.Duration `json:"generation_timeout"`
	GenerationRetries int           `json:"generation_retries"` // retries after the first attempt
}

// DefaultEngineConfig returns the default engine configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Query:           DefaultQueryConfig(),
		EmbeddingDim:    384,
		VectorWeight:    1.0,
		EntityWeight:    0.5,
		DedupThreshold:  0.95,
		PathAggregation: AggregationProduct,
		Confidence: ConfidenceWeights{
			Grounding: 0.5,
			Length:    0.2,
			Path:      0.3,
		},
		MinAnswerWords:    20,
		MaxAnswerWords:    400,
		GenerationTimeout: 30 * time.Second,
		GenerationRetries: 2,
	}
}

// Validate rejects invalid engine configuration before the first query.
func (c *EngineConfig) Validate() error {
	if err := c.Query.Validate(); err != nil {
		return err
	}
	if c.EmbeddingDim <= 0 {
		return fmt.Errorf("embedding_dim must be positive, got %d", c.EmbeddingDim)
	}
	if c.VectorWeight <= 0 {
		return fmt.Errorf("vector_weight must be positive, got %v", c.VectorWeight)
	}
	if c.EntityWeight < 0 {
		return fmt.Errorf("entity_weight must not be negative, got %v", c.EntityWeight)
	}
	if c.DedupThreshold <= 0 || c.DedupThreshold > 1 {
		return fmt.Errorf("dedup_threshold must be in (0,1], got %v", c.DedupThreshold)
	}
	if c.PathAggregation != AggregationProduct && c.PathAggregation != AggregationMin {
		return fmt.Errorf("path_aggregation must be %q or %q, got %q", AggregationProduct, AggregationMin, c.PathAggregation)
	}
	sum := c.Confidence.Grounding + c.Confidence.Length + c.Confidence.Path
	if c.Confidence.Grounding < 0 || c.Confidence.Length < 0 || c.Confidence.Path < 0 || sum <= 0 {
		return fmt.Errorf("confidence weights must be non-negative and sum to a positive value")
	}
	if c.MinAnswerWords <= 0 || c.MaxAnswerWords <= c.MinAnswerWords {
		return fmt.Errorf("answer word range [%d,%d] is invalid", c.MinAnswerWords, c.MaxAnswerWords)
	}
	if c.GenerationTimeout <= 0 {
		return fmt.Errorf("generation_timeout must be positive, got %v", c.GenerationTimeout)
	}
	if c.GenerationRetries < 0 {
		return fmt.Errorf("generation_retries must not be negative, got %d", c.GenerationRetries)
	}
	return nil
}
