// Package corpus holds the immutable corpus snapshot the engine queries.
// A snapshot bundles the embedded chunks and the knowledge graph of one
// corpus build; queries only ever see a complete snapshot, never a mix of
// two builds.
package corpus

import (
	"time"

	"github.com/google/uuid"

	"github.com/fingraph/fingraph/model"
)

// Snapshot is one complete, read-only corpus build.
type Snapshot struct {
	Version uuid.UUID
	BuiltAt time.Time

	chunks    []*model.Chunk
	chunkByID map[uuid.UUID]*model.Chunk

	nodes map[string]*model.GraphNode
	edges []*model.GraphEdge
	out   map[string][]*model.GraphEdge
	in    map[string][]*model.GraphEdge

	// node id -> ids of chunks mentioning the node
	mentions map[string][]uuid.UUID
}

// Stats summarizes a snapshot for callers that display corpus state.
type Stats struct {
	Chunks          int     `json:"chunks"`
	Nodes           int     `json:"nodes"`
	Edges           int     `json:"edges"`
	AverageDegree   float64 `json:"average_degree"`
	WeaklyConnected bool    `json:"weakly_connected"`
}

// NewSnapshot builds a snapshot with its lookup indexes from the corpus
// artifacts. The inputs must not be mutated afterwards.
func NewSnapshot(chunks []*model.Chunk, nodes []*model.GraphNode, edges []*model.GraphEdge, mentions map[string][]uuid.UUID) *Snapshot {
	s := &Snapshot{
		Version:   uuid.New(),
		BuiltAt:   time.Now(),
		chunks:    chunks,
		chunkByID: make(map[uuid.UUID]*model.Chunk, len(chunks)),
		nodes:     make(map[string]*model.GraphNode, len(nodes)),
		edges:     edges,
		out:       make(map[string][]*model.GraphEdge),
		in:        make(map[string][]*model.GraphEdge),
		mentions:  mentions,
	}

	for _, chunk := range chunks {
		s.chunkByID[chunk.ID] = chunk
	}
	for _, node := range nodes {
		s.nodes[node.ID] = node
	}
	for _, edge := range edges {
		s.out[edge.SourceID] = append(s.out[edge.SourceID], edge)
		s.in[edge.TargetID] = append(s.in[edge.TargetID], edge)
	}

	return s
}

// Chunks returns all chunks of the snapshot.
func (s *Snapshot) Chunks() []*model.Chunk {
	return s.chunks
}

// Chunk returns the chunk with the given id, or nil.
func (s *Snapshot) Chunk(id uuid.UUID) *model.Chunk {
	return s.chunkByID[id]
}

// Node returns the node with the given id, or nil.
func (s *Snapshot) Node(id string) *model.GraphNode {
	return s.nodes[id]
}

// Nodes returns all graph nodes.
func (s *Snapshot) Nodes() []*model.GraphNode {
	nodes := make([]*model.GraphNode, 0, len(s.nodes))
	for _, node := range s.nodes {
		nodes = append(nodes, node)
	}
	return nodes
}

// OutEdges returns the edges leaving the given node.
func (s *Snapshot) OutEdges(nodeID string) []*model.GraphEdge {
	return s.out[nodeID]
}

// InEdges returns the edges entering the given node.
func (s *Snapshot) InEdges(nodeID string) []*model.GraphEdge {
	return s.in[nodeID]
}

// MentionedChunks returns the chunks that mention the given node.
func (s *Snapshot) MentionedChunks(nodeID string) []*model.Chunk {
	ids := s.mentions[nodeID]
	chunks := make([]*model.Chunk, 0, len(ids))
	for _, id := range ids {
		if chunk := s.chunkByID[id]; chunk != nil {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

// Stats computes corpus statistics.
func (s *Snapshot) Stats() Stats {
	stats := Stats{
		Chunks: len(s.chunks),
		Nodes:  len(s.nodes),
		Edges:  len(s.edges),
	}
	if stats.Nodes > 0 {
		// Every edge contributes one out-degree and one in-degree.
		stats.AverageDegree = float64(2*stats.Edges) / float64(stats.Nodes)
		stats.WeaklyConnected = s.weaklyConnected()
	}
	return stats
}

// weaklyConnected reports whether all nodes are reachable from an arbitrary
// start node when edge direction is ignored.
func (s *Snapshot) weaklyConnected() bool {
	if len(s.nodes) == 0 {
		return false
	}

	var start string
	for id := range s.nodes {
		start = id
		break
	}

	visited := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, edge := range s.out[current] {
			if !visited[edge.TargetID] {
				visited[edge.TargetID] = true
				queue = append(queue, edge.TargetID)
			}
		}
		for _, edge := range s.in[current] {
			if !visited[edge.SourceID] {
				visited[edge.SourceID] = true
				queue = append(queue, edge.SourceID)
			}
		}
	}

	return len(visited) == len(s.nodes)
}
