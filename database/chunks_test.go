package database

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fingraph/fingraph/model"
)

func initChunksHandler(t *testing.T) *ChunksDBHandler {
	db := initDB(t)
	handler, err := NewChunksDBHandler(db, 4, true)
	require.NoError(t, err)
	require.NoError(t, handler.DeleteAllChunks())
	return handler
}

func TestNewChunksDBHandler(t *testing.T) {
	t.Run("Create chunks handler", func(t *testing.T) {
		handler := initChunksHandler(t)
		assert.NotNil(t, handler)
	})

	t.Run("Nil database is rejected", func(t *testing.T) {
		_, err := NewChunksDBHandler(nil, 4, false)
		assert.Error(t, err)
	})
}

func TestInsertChunk(t *testing.T) {
	handler := initChunksHandler(t)

	t.Run("Insert assigns an id", func(t *testing.T) {
		chunk := &model.Chunk{
			Text:      "Revenue grew 12% year over year.",
			Embedding: []float32{0.1, 0.2, 0.3, 0.4},
			Source:    model.SourceMetadata{Origin: "acme-10k", Type: "filing", Timestamp: time.Now().UTC()},
		}

		err := handler.InsertChunk(chunk)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, chunk.ID)
	})

	t.Run("Insert keeps a caller-provided id", func(t *testing.T) {
		id := uuid.New()
		chunk := &model.Chunk{
			ID:        id,
			Text:      "Margins compressed.",
			Embedding: []float32{0.4, 0.3, 0.2, 0.1},
			Source:    model.SourceMetadata{Origin: "acme-10k", Type: "filing"},
		}

		err := handler.InsertChunk(chunk)
		require.NoError(t, err)
		assert.Equal(t, id, chunk.ID)
	})
}

func TestSelectChunk(t *testing.T) {
	handler := initChunksHandler(t)

	chunk := &model.Chunk{
		Text:      "Cloud segment revenue reached 2.1 billion.",
		Embedding: []float32{0.5, 0.5, 0.5, 0.5},
		Source:    model.SourceMetadata{Origin: "acme-q3", Type: "report"},
	}
	require.NoError(t, handler.InsertChunk(chunk))

	t.Run("Round-trips text, embedding and source", func(t *testing.T) {
		got, err := handler.SelectChunk(chunk.ID)
		require.NoError(t, err)

		assert.Equal(t, chunk.ID, got.ID)
		assert.Equal(t, chunk.Text, got.Text)
		assert.Equal(t, chunk.Embedding, got.Embedding)
		assert.Equal(t, chunk.Source.Origin, got.Source.Origin)
		assert.Equal(t, chunk.Source.Type, got.Source.Type)
	})

	t.Run("Unknown id errors", func(t *testing.T) {
		_, err := handler.SelectChunk(uuid.New())
		assert.Error(t, err)
	})
}

func TestSelectAllChunks(t *testing.T) {
	handler := initChunksHandler(t)

	for i := 0; i < 3; i++ {
		chunk := &model.Chunk{
			Text:      "chunk text",
			Embedding: []float32{0.1, 0.2, 0.3, float32(i)},
			Source:    model.SourceMetadata{Origin: "bulk", Type: "filing"},
		}
		require.NoError(t, handler.InsertChunk(chunk))
	}

	t.Run("Returns the whole artifact", func(t *testing.T) {
		chunks, err := handler.SelectAllChunks()
		require.NoError(t, err)
		assert.Len(t, chunks, 3)
		for _, chunk := range chunks {
			assert.Len(t, chunk.Embedding, 4)
		}
	})

	t.Run("Delete all empties the artifact", func(t *testing.T) {
		require.NoError(t, handler.DeleteAllChunks())

		chunks, err := handler.SelectAllChunks()
		require.NoError(t, err)
		assert.Empty(t, chunks)
	})
}
