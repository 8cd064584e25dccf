// Package intent maps a raw query to one of a fixed set of reasoning
// strategies. Classification is cue-based and deterministic; unmatched
// queries fall back to factual_query.
package intent

import (
	"strings"

	"github.com/fingraph/fingraph/model"
)

// cueTable holds the lexical cues per intent. Classification scores each
// intent by the number of cues present in the query; extending the engine
// with a new intent means adding a row here and a plan below. Within a
// category no cue may be a substring of another, otherwise one phrasing
// scores twice ("how do" already covers "how does", "cause" covers
// "caused" and "because").
var cueTable = map[model.IntentCategory][]string{
	model.IntentMultiHopReasoning: {
		"relationship", "between", "connected", "connection",
		"compare", "versus", " vs ",
		"affect", "impact", "influence", "cause", "lead to", "leads to",
		"why", "depend",
	},
	model.IntentExplanatoryQuery: {
		"explain", "how do", "how is", "describe",
		"definition", "define", "what does", "what is meant", "walk me through",
	},
}

// classificationOrder breaks score ties deterministically, most specific
// intent first.
var classificationOrder = []model.IntentCategory{
	model.IntentMultiHopReasoning,
	model.IntentExplanatoryQuery,
}

// Classify maps a query to its intent category. It never fails; queries
// matching no cues are factual queries.
func Classify(query string) model.IntentCategory {
	q := " " + strings.ToLower(strings.TrimSpace(query)) + " "

	best := model.IntentFactualQuery
	bestScore := 0
	for _, category := range classificationOrder {
		score := 0
		for _, cue := range cueTable[category] {
			if strings.Contains(q, cue) {
				score++
			}
		}
		if score > bestScore {
			best = category
			bestScore = score
		}
	}

	return best
}

// Plan describes the retrieval strategy combination an intent selects.
type Plan struct {
	Intent   model.IntentCategory
	TopK     int
	MaxDepth int
}

// PlanFor returns the retrieval plan for an intent, derived from the query
// configuration. Multi-hop reasoning mandates traversal depth of at least
// two; explanatory queries trade traversal for more chunks.
func PlanFor(category model.IntentCategory, cfg model.QueryConfig) Plan {
	plan := Plan{
		Intent:   category,
		TopK:     cfg.TopK,
		MaxDepth: cfg.MaxHops,
	}

	switch category {
	case model.IntentMultiHopReasoning:
		if plan.MaxDepth < 2 {
			plan.MaxDepth = 2
		}
	case model.IntentExplanatoryQuery:
		plan.MaxDepth = 0
		plan.TopK = cfg.TopK + 2
	default:
		if plan.MaxDepth > 1 {
			plan.MaxDepth = 1
		}
	}

	return plan
}
