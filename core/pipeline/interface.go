// Package pipeline provides the embedding capability the engine uses to
// turn a query into a vector. Corpus-side embedding happens in the
// ingestion collaborator with the same model.
package pipeline

// EmbedFunc is a function that generates an embedding for text.
type EmbedFunc func(text string) ([]float32, error)
