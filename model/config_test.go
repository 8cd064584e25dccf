package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryConfigValidate(t *testing.T) {
	t.Run("Default config is valid", func(t *testing.T) {
		config := DefaultQueryConfig()
		assert.NoError(t, config.Validate())
	})

	t.Run("Rejects non-positive top_k", func(t *testing.T) {
		config := DefaultQueryConfig()
		config.TopK = 0
		assert.Error(t, config.Validate())
	})

	t.Run("Rejects similarity threshold outside unit interval", func(t *testing.T) {
		config := DefaultQueryConfig()
		config.SimilarityThreshold = 1.2
		assert.Error(t, config.Validate())

		config.SimilarityThreshold = -0.1
		assert.Error(t, config.Validate())
	})

	t.Run("Rejects negative max_hops", func(t *testing.T) {
		config := DefaultQueryConfig()
		config.MaxHops = -1
		assert.Error(t, config.Validate())
	})

	t.Run("Allows zero max_hops", func(t *testing.T) {
		config := DefaultQueryConfig()
		config.MaxHops = 0
		assert.NoError(t, config.Validate(), "traversal may be disabled entirely")
	})

	t.Run("Rejects non-positive context budget", func(t *testing.T) {
		config := DefaultQueryConfig()
		config.ContextBudget = 0
		assert.Error(t, config.Validate())
	})
}

func TestEngineConfigValidate(t *testing.T) {
	t.Run("Default config is valid", func(t *testing.T) {
		config := DefaultEngineConfig()
		assert.NoError(t, config.Validate())
	})

	t.Run("Rejects invalid nested query config", func(t *testing.T) {
		config := DefaultEngineConfig()
		config.Query.TopK = -5
		assert.Error(t, config.Validate())
	})

	t.Run("Rejects unknown path aggregation", func(t *testing.T) {
		config := DefaultEngineConfig()
		config.PathAggregation = "average"
		assert.Error(t, config.Validate())
	})

	t.Run("Rejects dedup threshold outside (0,1]", func(t *testing.T) {
		config := DefaultEngineConfig()
		config.DedupThreshold = 0
		assert.Error(t, config.Validate())

		config.DedupThreshold = 1.01
		assert.Error(t, config.Validate())
	})

	t.Run("Rejects negative confidence weights", func(t *testing.T) {
		config := DefaultEngineConfig()
		config.Confidence.Grounding = -0.5
		assert.Error(t, config.Validate())
	})

	t.Run("Rejects inverted answer word range", func(t *testing.T) {
		config := DefaultEngineConfig()
		config.MinAnswerWords = 400
		config.MaxAnswerWords = 20
		assert.Error(t, config.Validate())
	})

	t.Run("Rejects non-positive generation timeout", func(t *testing.T) {
		config := DefaultEngineConfig()
		config.GenerationTimeout = 0
		require.Error(t, config.Validate())
	})
}
