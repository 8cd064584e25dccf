package synthesis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIGenerator(t *testing.T) {
	t.Run("Requires an api key", func(t *testing.T) {
		_, err := NewOpenAIGenerator(OpenAIOptions{Model: "gpt-4o-mini"})
		assert.Error(t, err)
	})

	t.Run("Requires a model", func(t *testing.T) {
		_, err := NewOpenAIGenerator(OpenAIOptions{APIKey: "test-key"})
		assert.Error(t, err)
	})

	t.Run("Creates a generator with key and model", func(t *testing.T) {
		gen, err := NewOpenAIGenerator(OpenAIOptions{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: "http://localhost:11434/v1"})
		require.NoError(t, err)
		assert.NotNil(t, gen)
	})
}
