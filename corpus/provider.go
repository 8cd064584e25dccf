package corpus

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/fingraph/fingraph/helper"
	"github.com/fingraph/fingraph/model"
)

// ChunkSource supplies the persisted chunk artifact wholesale.
type ChunkSource interface {
	SelectAllChunks() ([]*model.Chunk, error)
}

// GraphSource supplies the persisted graph artifact wholesale.
type GraphSource interface {
	SelectAllNodes() ([]*model.GraphNode, error)
	SelectAllEdges() ([]*model.GraphEdge, error)
	SelectAllMentions() (map[string][]uuid.UUID, error)
}

// Provider hands out the current corpus snapshot. Snapshots are swapped
// atomically on corpus rebuild, so a query observes either the old complete
// build or the new one, never a mix.
type Provider struct {
	current atomic.Pointer[Snapshot]
}

// NewProvider creates a provider with no snapshot installed.
func NewProvider() *Provider {
	return &Provider{}
}

// Swap installs a complete snapshot as the current one.
func (p *Provider) Swap(s *Snapshot) {
	p.current.Store(s)
}

// Current returns the current snapshot, or ErrCorpusUnavailable if no
// build has been installed yet.
func (p *Provider) Current() (*Snapshot, error) {
	s := p.current.Load()
	if s == nil {
		return nil, model.ErrCorpusUnavailable
	}
	return s, nil
}

// Reload loads a fresh snapshot from the persisted artifacts and swaps it
// in. The old snapshot stays visible until the new one is complete.
func (p *Provider) Reload(chunks ChunkSource, graph GraphSource) (*Snapshot, error) {
	allChunks, err := chunks.SelectAllChunks()
	if err != nil {
		return nil, helper.NewError("load chunk artifact", err)
	}

	nodes, err := graph.SelectAllNodes()
	if err != nil {
		return nil, helper.NewError("load graph nodes", err)
	}

	edges, err := graph.SelectAllEdges()
	if err != nil {
		return nil, helper.NewError("load graph edges", err)
	}

	mentions, err := graph.SelectAllMentions()
	if err != nil {
		return nil, helper.NewError("load graph mentions", err)
	}

	snapshot := NewSnapshot(allChunks, nodes, edges, mentions)
	p.Swap(snapshot)

	return snapshot, nil
}
