package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fingraph/fingraph/helper"
)

// Chunk represents an embedded span of source text. Chunks are produced by
// the ingestion collaborator and are immutable once stored.
type Chunk struct {
	ID        uuid.UUID      `json:"id"`
	Text      string         `json:"text"`
	Embedding []float32      `json:"embedding,omitempty"`
	Source    SourceMetadata `json:"source_metadata"`
}

// SourceMetadata describes where a chunk came from.
type SourceMetadata struct {
	Origin    string    `json:"origin"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// Value implements the driver.Valuer interface for JSONB storage.
func (m SourceMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface for JSONB retrieval.
func (m *SourceMetadata) Scan(value interface{}) error {
	if value == nil {
		*m = SourceMetadata{}
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return helper.NewError("byte assertion", errors.New("type assertion to []byte failed"))
	}

	return json.Unmarshal(b, m)
}
