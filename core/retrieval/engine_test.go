package retrieval

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fingraph/fingraph/corpus"
	"github.com/fingraph/fingraph/model"
)

func newTestEngine() *Engine {
	return NewEngine(model.DefaultEngineConfig(), nil)
}

func testChunk(text string, embedding []float32, ts time.Time) *model.Chunk {
	return &model.Chunk{
		ID:        uuid.New(),
		Text:      text,
		Embedding: embedding,
		Source:    model.SourceMetadata{Origin: "test", Type: "filing", Timestamp: ts},
	}
}

func TestRetrieve(t *testing.T) {
	engine := newTestEngine()
	now := time.Now()

	t.Run("Orders results by descending score", func(t *testing.T) {
		chunks := []*model.Chunk{
			testChunk("low", []float32{0.4, 0.9165151}, now),
			testChunk("high", []float32{1, 0}, now),
			testChunk("mid", []float32{0.8, 0.6}, now),
		}
		snap := corpus.NewSnapshot(chunks, nil, nil, nil)

		results := engine.Retrieve(context.Background(), snap, []float32{1, 0}, nil, 10, 0.0)
		require.Len(t, results, 3)
		assert.Equal(t, "high", results[0].Chunk.Text)
		assert.Equal(t, "mid", results[1].Chunk.Text)
		assert.Equal(t, "low", results[2].Chunk.Text)
		for i := 1; i < len(results); i++ {
			assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
		}
	})

	t.Run("Drops chunks below the similarity threshold", func(t *testing.T) {
		chunks := []*model.Chunk{
			testChunk("match", []float32{1, 0}, now),
			testChunk("orthogonal", []float32{0, 1}, now),
		}
		snap := corpus.NewSnapshot(chunks, nil, nil, nil)

		results := engine.Retrieve(context.Background(), snap, []float32{1, 0}, nil, 10, 0.5)
		require.Len(t, results, 1)
		assert.Equal(t, "match", results[0].Chunk.Text)
		assert.Equal(t, model.RetrievalMethodVector, results[0].Method)
	})

	t.Run("Truncates to k results", func(t *testing.T) {
		var chunks []*model.Chunk
		for i := 0; i < 10; i++ {
			chunks = append(chunks, testChunk("chunk", []float32{1, 0}, now))
		}
		snap := corpus.NewSnapshot(chunks, nil, nil, nil)

		results := engine.Retrieve(context.Background(), snap, []float32{1, 0}, nil, 3, 0.0)
		assert.Len(t, results, 3)
	})

	t.Run("Equal scores break toward the newer chunk", func(t *testing.T) {
		older := testChunk("older", []float32{1, 0}, now.Add(-24*time.Hour))
		newer := testChunk("newer", []float32{1, 0}, now)
		snap := corpus.NewSnapshot([]*model.Chunk{older, newer}, nil, nil, nil)

		results := engine.Retrieve(context.Background(), snap, []float32{1, 0}, nil, 10, 0.0)
		require.Len(t, results, 2)
		assert.Equal(t, "newer", results[0].Chunk.Text, "recency breaks score ties")
	})

	t.Run("Empty corpus yields empty result", func(t *testing.T) {
		snap := corpus.NewSnapshot(nil, nil, nil, nil)
		results := engine.Retrieve(context.Background(), snap, []float32{1, 0}, nil, 10, 0.0)
		assert.Empty(t, results)
	})

	t.Run("Nil query embedding retrieves by anchors only", func(t *testing.T) {
		chunk := testChunk("mentioned", []float32{0, 1}, now)
		node := &model.GraphNode{ID: "acme", Label: "Acme"}
		snap := corpus.NewSnapshot(
			[]*model.Chunk{chunk},
			[]*model.GraphNode{node},
			nil,
			map[string][]uuid.UUID{"acme": {chunk.ID}},
		)

		results := engine.Retrieve(context.Background(), snap, nil, []Anchor{{Node: node, Score: 2.0}}, 10, 0.3)
		require.Len(t, results, 1)
		assert.Equal(t, model.RetrievalMethodAnchor, results[0].Method)
	})

	t.Run("Anchor mention boosts a vector hit into hybrid", func(t *testing.T) {
		hit := testChunk("both", []float32{1, 0}, now)
		vectorOnly := testChunk("vector only", []float32{1, 0}, now)
		node := &model.GraphNode{ID: "acme", Label: "Acme"}
		snap := corpus.NewSnapshot(
			[]*model.Chunk{hit, vectorOnly},
			[]*model.GraphNode{node},
			nil,
			map[string][]uuid.UUID{"acme": {hit.ID}},
		)

		results := engine.Retrieve(context.Background(), snap, []float32{1, 0}, []Anchor{{Node: node, Score: 2.0}}, 10, 0.0)
		require.Len(t, results, 2)
		assert.Equal(t, "both", results[0].Chunk.Text, "the boosted chunk must rank first")
		assert.Equal(t, model.RetrievalMethodHybrid, results[0].Method)
		assert.Equal(t, model.RetrievalMethodVector, results[1].Method)
		assert.Greater(t, results[0].Score, results[1].Score)
	})
}

func TestCosineSimilarity(t *testing.T) {
	t.Run("Identical vectors score one", func(t *testing.T) {
		assert.InDelta(t, 1.0, cosineSimilarity([]float32{0.3, 0.4}, []float32{0.3, 0.4}), 1e-6)
	})

	t.Run("Orthogonal vectors score zero", func(t *testing.T) {
		assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	})

	t.Run("Mismatched dimensions score zero", func(t *testing.T) {
		assert.Zero(t, cosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}))
	})

	t.Run("Zero vector scores zero", func(t *testing.T) {
		assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 0}))
	})
}
