package retrieval

import (
	"sort"
	"strings"

	"github.com/fingraph/fingraph/corpus"
	"github.com/fingraph/fingraph/model"
)

// Anchor is a graph node matched to the query with its lexical match score.
type Anchor struct {
	Node  *model.GraphNode
	Score float64
}

// Scoring constants for anchor ranking: keyword hits dominate, extraction
// importance and mention frequency break near-ties.
const (
	keywordWeight    = 2.0
	importanceWeight = 10.0
	frequencyWeight  = 0.1
)

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "do": true, "does": true, "for": true, "from": true,
	"how": true, "in": true, "is": true, "it": true, "of": true, "on": true,
	"or": true, "the": true, "to": true, "was": true, "what": true,
	"when": true, "where": true, "which": true, "who": true, "with": true,
}

// queryKeywords tokenizes a query into lowercase keywords, dropping
// stopwords and single characters.
func queryKeywords(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	var keywords []string
	for _, f := range fields {
		if len(f) < 2 || stopwords[f] {
			continue
		}
		keywords = append(keywords, f)
	}
	return keywords
}

// FindAnchors returns the graph nodes whose label or aliases lexically
// match the query terms, ranked by match score. An empty result is not an
// error; it just means the graph contributes no evidence.
func (e *Engine) FindAnchors(snap *corpus.Snapshot, query string, limit int) []Anchor {
	keywords := queryKeywords(query)
	if len(keywords) == 0 {
		return nil
	}

	var anchors []Anchor
	for _, node := range snap.Nodes() {
		matches := 0
		label := strings.ToLower(node.Label)
		for _, kw := range keywords {
			if strings.Contains(label, kw) {
				matches++
				continue
			}
			for _, alias := range node.Aliases {
				if strings.Contains(strings.ToLower(alias), kw) {
					matches++
					break
				}
			}
		}
		if matches == 0 {
			continue
		}

		score := keywordWeight*float64(matches) +
			importanceWeight*node.Importance +
			frequencyWeight*float64(node.Frequency)
		anchors = append(anchors, Anchor{Node: node, Score: score})
	}

	sort.Slice(anchors, func(i, j int) bool {
		if anchors[i].Score != anchors[j].Score {
			return anchors[i].Score > anchors[j].Score
		}
		return anchors[i].Node.ID < anchors[j].Node.ID
	})

	if limit > 0 && len(anchors) > limit {
		anchors = anchors[:limit]
	}

	return anchors
}
