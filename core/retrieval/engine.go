// Package retrieval implements the hybrid retriever: an exhaustive cosine
// scan over the chunk snapshot merged with graph-anchor mentions into a
// single ranked evidence set.
package retrieval

import (
	"context"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/fingraph/fingraph/corpus"
	"github.com/fingraph/fingraph/model"
)

// Engine ranks chunk evidence against a corpus snapshot. It is a pure
// reader of the snapshot and safe for concurrent use.
type Engine struct {
	cfg model.EngineConfig
	log *slog.Logger
}

// NewEngine creates a new retrieval engine.
func NewEngine(cfg model.EngineConfig, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		cfg: cfg,
		log: logger,
	}
}

// Retrieve merges chunk-similarity results with anchor-mention results into
// an evidence list ordered by descending score, at most k items. Equal
// scores break toward the more recently sourced chunk.
func (e *Engine) Retrieve(ctx context.Context, snap *corpus.Snapshot, queryEmbedding []float32, anchors []Anchor, k int, threshold float64) []*model.ChunkEvidence {
	byID := make(map[uuid.UUID]*model.ChunkEvidence)

	// Similarity scan over every chunk in the snapshot. The corpus is
	// rebuilt, not streamed, so a full scan stays proportional to corpus
	// size and needs no index maintenance.
	if len(queryEmbedding) > 0 {
		for _, chunk := range snap.Chunks() {
			if ctx.Err() != nil {
				break
			}
			sim := cosineSimilarity(queryEmbedding, chunk.Embedding)
			if sim < threshold {
				continue
			}
			byID[chunk.ID] = &model.ChunkEvidence{
				ChunkID:    chunk.ID,
				Chunk:      chunk,
				Similarity: sim,
				Score:      sim * e.cfg.VectorWeight,
				Method:     model.RetrievalMethodVector,
			}
		}
	}

	// Merge chunks mentioned by query anchors. Anchor scores are
	// normalized so the entity boost stays comparable to similarity.
	if len(anchors) > 0 {
		maxScore := anchors[0].Score
		for _, anchor := range anchors {
			if anchor.Score > maxScore {
				maxScore = anchor.Score
			}
		}
		for _, anchor := range anchors {
			boost := e.cfg.EntityWeight
			if maxScore > 0 {
				boost = e.cfg.EntityWeight * (anchor.Score / maxScore)
			}
			for _, chunk := range snap.MentionedChunks(anchor.Node.ID) {
				if existing, ok := byID[chunk.ID]; ok {
					existing.Score += boost
					existing.Method = model.RetrievalMethodHybrid
					continue
				}
				byID[chunk.ID] = &model.ChunkEvidence{
					ChunkID:    chunk.ID,
					Chunk:      chunk,
					Similarity: cosineSimilarity(queryEmbedding, chunk.Embedding),
					Score:      boost,
					Method:     model.RetrievalMethodAnchor,
				}
			}
		}
	}

	results := make([]*model.ChunkEvidence, 0, len(byID))
	for _, result := range byID {
		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		ti := results[i].Chunk.Source.Timestamp
		tj := results[j].Chunk.Source.Timestamp
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return results[i].ChunkID.String() < results[j].ChunkID.String()
	})

	if k > 0 && len(results) > k {
		results = results[:k]
	}

	e.log.Debug("Hybrid retrieval complete",
		slog.Int("candidates", len(byID)),
		slog.Int("returned", len(results)),
		slog.Int("anchors", len(anchors)))

	return results
}
