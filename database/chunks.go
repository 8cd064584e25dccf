package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/fingraph/fingraph/helper"
	"github.com/fingraph/fingraph/model"
	loadSql "github.com/fingraph/fingraph/sql"
)

// ChunksDBHandlerFunctions defines the interface for the chunk artifact.
type ChunksDBHandlerFunctions interface {
	InsertChunk(chunk *model.Chunk) error
	SelectChunk(id uuid.UUID) (*model.Chunk, error)
	SelectAllChunks() ([]*model.Chunk, error)
	DeleteAllChunks() error
}

// ChunksDBHandler handles the persisted chunk artifact. The ingestion
// collaborator writes chunks through it; the engine reads them wholesale
// when building a corpus snapshot.
type ChunksDBHandler struct {
	db *helper.Database
}

// NewChunksDBHandler creates a new chunks database handler.
// It loads the chunk-related SQL functions and creates the table.
// If force is true, it reloads the SQL functions even if they already exist.
func NewChunksDBHandler(db *helper.Database, embeddingDim int, force bool) (*ChunksDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	chunksDbHandler := &ChunksDBHandler{
		db: db,
	}

	err := loadSql.LoadChunksSql(chunksDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load chunks sql", err)
	}

	err = chunksDbHandler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized ChunksDBHandler")

	return chunksDbHandler, nil
}

// CreateTable creates the 'chunks' table with its vector index if it does
// not exist yet.
func (h *ChunksDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_chunks($1);`, embeddingDim)
	if err != nil {
		return helper.NewError("initialize chunks table", err)
	}

	h.db.Logger.Info("Checked/created table chunks")

	return nil
}

// InsertChunk inserts a new chunk. A zero ID is assigned by the database.
func (h *ChunksDBHandler) InsertChunk(chunk *model.Chunk) error {
	var id interface{}
	if chunk.ID != uuid.Nil {
		id = chunk.ID
	}

	embeddingVector := pgvector.NewVector(chunk.Embedding)
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_chunk($1, $2, $3, $4)`,
		id,
		chunk.Text,
		embeddingVector,
		chunk.Source,
	)

	err := row.Scan(
		&chunk.ID,
		&chunk.Text,
		&chunk.Source,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectChunk retrieves a chunk by ID.
func (h *ChunksDBHandler) SelectChunk(id uuid.UUID) (*model.Chunk, error) {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_chunk($1)`,
		id,
	)

	chunk := &model.Chunk{}
	var embedding pgvector.Vector
	err := row.Scan(
		&chunk.ID,
		&chunk.Text,
		&embedding,
		&chunk.Source,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}
	chunk.Embedding = embedding.Slice()

	return chunk, nil
}

// SelectAllChunks retrieves the complete chunk artifact for a snapshot load.
func (h *ChunksDBHandler) SelectAllChunks() ([]*model.Chunk, error) {
	rows, err := h.db.Instance.Query(`SELECT * FROM select_all_chunks()`)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var chunks []*model.Chunk
	for rows.Next() {
		chunk := &model.Chunk{}
		var embedding pgvector.Vector
		err := rows.Scan(
			&chunk.ID,
			&chunk.Text,
			&embedding,
			&chunk.Source,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		chunk.Embedding = embedding.Slice()
		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, helper.NewError("iterate rows", err)
	}

	return chunks, nil
}

// DeleteAllChunks clears the chunk artifact before a corpus rebuild.
func (h *ChunksDBHandler) DeleteAllChunks() error {
	_, err := h.db.Instance.Exec(`SELECT delete_all_chunks()`)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}
