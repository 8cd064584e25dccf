package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// RetrievalMethod describes how a piece of chunk evidence was found.
type RetrievalMethod string

const (
	RetrievalMethodVector RetrievalMethod = "vector"
	RetrievalMethodAnchor RetrievalMethod = "anchor"
	RetrievalMethodHybrid RetrievalMethod = "hybrid"
)

// EvidenceItem is a single piece of grounding evidence, either a retrieved
// chunk or a traversed relationship path.
type EvidenceItem interface {
	// EvidenceID returns a stable identifier for deduplication and citation.
	EvidenceID() string
	// Confidence returns the ranking score of the item.
	Confidence() float64
	// ContextText renders the item with provenance tags for prompting.
	ContextText() string
}

// ChunkEvidence is a chunk selected by similarity or anchor mention.
type ChunkEvidence struct {
	ChunkID    uuid.UUID       `json:"chunk_id"`
	Chunk      *Chunk          `json:"chunk,omitempty"`
	Similarity float64         `json:"similarity_score"`
	Score      float64         `json:"score"`
	Method     RetrievalMethod `json:"retrieval_method"`

	// Rendered overrides the default rendering when the assembler cut the
	// context text to fit its budget.
	Rendered string `json:"-"`
}

// EvidenceID implements EvidenceItem.
func (c *ChunkEvidence) EvidenceID() string {
	return "chunk:" + c.ChunkID.String()
}

// Confidence implements EvidenceItem.
func (c *ChunkEvidence) Confidence() float64 {
	return c.Score
}

// ContextText renders the chunk with its origin tag.
func (c *ChunkEvidence) ContextText() string {
	if c.Rendered != "" {
		return c.Rendered
	}
	if c.Chunk == nil {
		return ""
	}
	return fmt.Sprintf("[%s]: %s", c.Chunk.Source.Origin, c.Chunk.Text)
}

// Hop is one step of a reasoning path: the node reached and the edge
// traversed to reach it. The edge is nil for the seed hop.
type Hop struct {
	Node *GraphNode `json:"node"`
	Edge *GraphEdge `json:"edge,omitempty"`
}

// PathEvidence is an ordered relationship chain surfaced by graph traversal.
// PathConfidence aggregates the constituent edge weights and is
// non-increasing with hop count.
type PathEvidence struct {
	Hops           []Hop   `json:"hops"`
	PathConfidence float64 `json:"path_confidence"`

	// Rendered overrides the default rendering when the assembler cut the
	// context text to fit its budget.
	Rendered string `json:"-"`
}

// EvidenceID implements EvidenceItem.
func (p *PathEvidence) EvidenceID() string {
	ids := make([]string, len(p.Hops))
	for i, hop := range p.Hops {
		ids[i] = hop.Node.ID
	}
	return "path:" + strings.Join(ids, ">")
}

// Confidence implements EvidenceItem.
func (p *PathEvidence) Confidence() float64 {
	return p.PathConfidence
}

// HopCount returns the number of edges in the path.
func (p *PathEvidence) HopCount() int {
	if len(p.Hops) == 0 {
		return 0
	}
	return len(p.Hops) - 1
}

// NodeLabels returns the labels of all nodes on the path in order.
func (p *PathEvidence) NodeLabels() []string {
	labels := make([]string, len(p.Hops))
	for i, hop := range p.Hops {
		labels[i] = hop.Node.Label
	}
	return labels
}

// ContextText renders the path as a relationship chain, e.g.
// "Company X --[affects]--> Sector S (confidence: 0.72)".
func (p *PathEvidence) ContextText() string {
	if p.Rendered != "" {
		return p.Rendered
	}
	if len(p.Hops) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(p.Hops[0].Node.Label)
	prev := p.Hops[0].Node.ID
	for _, hop := range p.Hops[1:] {
		if hop.Edge != nil && hop.Edge.TargetID == prev {
			b.WriteString(fmt.Sprintf(" <--[%s]-- ", hop.Edge.RelationType))
		} else if hop.Edge != nil {
			b.WriteString(fmt.Sprintf(" --[%s]--> ", hop.Edge.RelationType))
		} else {
			b.WriteString(" -- ")
		}
		b.WriteString(hop.Node.Label)
		prev = hop.Node.ID
	}
	b.WriteString(fmt.Sprintf(" (confidence: %.2f)", p.PathConfidence))

	return b.String()
}

// ReasoningContext is the bounded evidence payload handed to synthesis.
// Items are kept in insertion (descending rank) order and the total size
// of their rendered context never exceeds the budget.
type ReasoningContext struct {
	items  map[string]EvidenceItem
	order  []string
	budget int
	size   int
}

// NewReasoningContext creates an empty context with the given character budget.
func NewReasoningContext(budget int) *ReasoningContext {
	return &ReasoningContext{
		items:  make(map[string]EvidenceItem),
		budget: budget,
	}
}

// Add inserts an item accounting for size characters of rendered context.
// Items already present are ignored.
func (rc *ReasoningContext) Add(item EvidenceItem, size int) {
	id := item.EvidenceID()
	if _, exists := rc.items[id]; exists {
		return
	}
	rc.items[id] = item
	rc.order = append(rc.order, id)
	rc.size += size
}

// Get returns the item with the given evidence id.
func (rc *ReasoningContext) Get(id string) (EvidenceItem, bool) {
	item, ok := rc.items[id]
	return item, ok
}

// Items returns all items in insertion order.
func (rc *ReasoningContext) Items() []EvidenceItem {
	items := make([]EvidenceItem, 0, len(rc.order))
	for _, id := range rc.order {
		items = append(items, rc.items[id])
	}
	return items
}

// IDs returns the evidence ids in insertion order.
func (rc *ReasoningContext) IDs() []string {
	ids := make([]string, len(rc.order))
	copy(ids, rc.order)
	return ids
}

// Paths returns only the path evidence items in insertion order.
func (rc *ReasoningContext) Paths() []*PathEvidence {
	var paths []*PathEvidence
	for _, id := range rc.order {
		if p, ok := rc.items[id].(*PathEvidence); ok {
			paths = append(paths, p)
		}
	}
	return paths
}

// Len returns the number of items in the context.
func (rc *ReasoningContext) Len() int {
	return len(rc.order)
}

// Size returns the total rendered size in characters.
func (rc *ReasoningContext) Size() int {
	return rc.size
}

// Budget returns the configured character budget.
func (rc *ReasoningContext) Budget() int {
	return rc.budget
}
