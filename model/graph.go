package model

// GraphNode represents a typed entity in the knowledge graph. Node identity
// is the extraction-produced label key; it is only stable across corpus
// rebuilds if extraction is deterministic, which is not guaranteed.
type GraphNode struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	EntityType string   `json:"entity_type"`
	Aliases    []string `json:"aliases,omitempty"`
	// Extraction-time signals used for anchor ranking.
	Importance float64 `json:"importance,omitempty"`
	Frequency  int     `json:"frequency,omitempty"`
}

// GraphEdge represents a weighted, directed relationship between two nodes.
// The weight is the extraction confidence in [0,1]. The graph may contain
// cycles, self-loops and duplicate edges since extraction is probabilistic.
type GraphEdge struct {
	SourceID     string  `json:"source_id"`
	TargetID     string  `json:"target_id"`
	RelationType string  `json:"relation_type"`
	Weight       float64 `json:"weight"`
}
