package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fingraph/fingraph/model"
)

func TestClassify(t *testing.T) {
	t.Run("Relationship queries are multi-hop", func(t *testing.T) {
		queries := []string{
			"What is the relationship between interest rates and tech stocks?",
			"How do rising rates affect bank margins?",
			"Compare the debt load of Acme and Globex",
			"Why did the merger cause the share price to drop?",
		}
		for _, query := range queries {
			assert.Equal(t, model.IntentMultiHopReasoning, Classify(query), "query: %s", query)
		}
	})

	t.Run("Definition queries are explanatory", func(t *testing.T) {
		queries := []string{
			"Explain quantitative easing",
			"What is meant by working capital?",
			"Define EBITDA",
		}
		for _, query := range queries {
			assert.Equal(t, model.IntentExplanatoryQuery, Classify(query), "query: %s", query)
		}
	})

	t.Run("Plain lookups are factual", func(t *testing.T) {
		queries := []string{
			"Acme Corp revenue 2025",
			"Who is the CEO of Globex?",
			"",
		}
		for _, query := range queries {
			assert.Equal(t, model.IntentFactualQuery, Classify(query), "query: %s", query)
		}
	})

	t.Run("Multi-hop cues win over explanatory on equal score", func(t *testing.T) {
		// "how does ... affect" matches one cue in each table.
		assert.Equal(t, model.IntentMultiHopReasoning, Classify("how does inflation affect bonds"))
	})

	t.Run("Causal how-does questions are multi-hop", func(t *testing.T) {
		queries := []string{
			"How does inflation affect bonds?",
			"How does the rate hike impact housing starts?",
			"How does a weaker dollar influence exporters?",
		}
		for _, query := range queries {
			assert.Equal(t, model.IntentMultiHopReasoning, Classify(query), "query: %s", query)
		}
	})

	t.Run("No cue shadows another within a category", func(t *testing.T) {
		for category, cues := range cueTable {
			for i, outer := range cues {
				for j, inner := range cues {
					if i == j {
						continue
					}
					assert.NotContains(t, outer, inner,
						"cue %q for %s double-counts %q", outer, category, inner)
				}
			}
		}
	})

	t.Run("Classification is deterministic", func(t *testing.T) {
		query := "How are supply chains and chip prices connected?"
		first := Classify(query)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, Classify(query))
		}
	})
}

func TestPlanFor(t *testing.T) {
	cfg := model.DefaultQueryConfig()

	t.Run("Multi-hop plans traverse at least two hops", func(t *testing.T) {
		shallow := cfg
		shallow.MaxHops = 1

		plan := PlanFor(model.IntentMultiHopReasoning, shallow)
		assert.Equal(t, 2, plan.MaxDepth)
		assert.Equal(t, cfg.TopK, plan.TopK)
	})

	t.Run("Multi-hop keeps deeper configured bound", func(t *testing.T) {
		deep := cfg
		deep.MaxHops = 4

		plan := PlanFor(model.IntentMultiHopReasoning, deep)
		assert.Equal(t, 4, plan.MaxDepth)
	})

	t.Run("Explanatory plans skip traversal and widen retrieval", func(t *testing.T) {
		plan := PlanFor(model.IntentExplanatoryQuery, cfg)
		assert.Equal(t, 0, plan.MaxDepth)
		assert.Equal(t, cfg.TopK+2, plan.TopK)
	})

	t.Run("Factual plans cap traversal at one hop", func(t *testing.T) {
		plan := PlanFor(model.IntentFactualQuery, cfg)
		assert.Equal(t, 1, plan.MaxDepth)
		assert.Equal(t, cfg.TopK, plan.TopK)
	})
}
