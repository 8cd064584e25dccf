// Package graph implements bounded multi-hop traversal over the knowledge
// graph, producing relationship chains as path evidence.
package graph

import (
	"sort"
	"strings"

	"github.com/fingraph/fingraph/model"
)

// Graph is the read-only view traversal needs. corpus.Snapshot satisfies it.
type Graph interface {
	Node(id string) *model.GraphNode
	OutEdges(nodeID string) []*model.GraphEdge
	InEdges(nodeID string) []*model.GraphEdge
}

// Config bounds a traversal.
type Config struct {
	MaxDepth          int
	MinEdgeConfidence float64
	MaxPaths          int
	Aggregation       model.PathAggregation
}

// frontierCap bounds the number of partial paths kept per level so a dense
// graph cannot blow the traversal up; the lowest-confidence partials are
// dropped first.
const frontierCap = 4096

// partial is a path under construction with its own visited set, so the
// same node may still appear in other, independent paths.
type partial struct {
	hops    []model.Hop
	visited map[string]bool
	conf    float64
}

// Traverse expands from the seed nodes along outgoing and incoming edges up
// to cfg.MaxDepth hops, following only edges at or above the edge-confidence
// floor. A path never revisits one of its own nodes. Returned paths are
// maximal (not extendable within the bounds), ranked by path confidence and
// capped at cfg.MaxPaths. An empty seed set yields an empty result.
func Traverse(g Graph, seeds []*model.GraphNode, cfg Config) []*model.PathEvidence {
	if cfg.MaxDepth <= 0 || len(seeds) == 0 {
		return nil
	}

	frontier := make([]*partial, 0, len(seeds))
	seen := make(map[string]bool, len(seeds))
	for _, seed := range seeds {
		if seed == nil || seen[seed.ID] || g.Node(seed.ID) == nil {
			continue
		}
		seen[seed.ID] = true
		frontier = append(frontier, &partial{
			hops:    []model.Hop{{Node: g.Node(seed.ID)}},
			visited: map[string]bool{seed.ID: true},
			conf:    1,
		})
	}

	var finished []*partial
	for depth := 0; depth < cfg.MaxDepth && len(frontier) > 0; depth++ {
		var next []*partial
		for _, p := range frontier {
			extensions := extend(g, p, cfg)
			if len(extensions) == 0 {
				// Maximal path; seeds without a single eligible edge
				// contribute nothing.
				if len(p.hops) > 1 {
					finished = append(finished, p)
				}
				continue
			}
			next = append(next, extensions...)
		}
		if len(next) > frontierCap {
			sort.Slice(next, func(i, j int) bool { return next[i].conf > next[j].conf })
			next = next[:frontierCap]
		}
		frontier = next
	}
	for _, p := range frontier {
		if len(p.hops) > 1 {
			finished = append(finished, p)
		}
	}

	return rank(finished, cfg.MaxPaths)
}

// extend returns every one-hop extension of p along eligible edges in
// either direction.
func extend(g Graph, p *partial, cfg Config) []*partial {
	last := p.hops[len(p.hops)-1].Node.ID

	var extensions []*partial
	tryEdge := func(edge *model.GraphEdge, nextID string) {
		if edge.Weight < cfg.MinEdgeConfidence || p.visited[nextID] {
			return
		}
		node := g.Node(nextID)
		if node == nil {
			return
		}

		hops := make([]model.Hop, len(p.hops), len(p.hops)+1)
		copy(hops, p.hops)
		hops = append(hops, model.Hop{Node: node, Edge: edge})

		visited := make(map[string]bool, len(p.visited)+1)
		for id := range p.visited {
			visited[id] = true
		}
		visited[nextID] = true

		extensions = append(extensions, &partial{
			hops:    hops,
			visited: visited,
			conf:    aggregate(p.conf, edge.Weight, cfg.Aggregation, len(p.hops) == 1),
		})
	}

	for _, edge := range g.OutEdges(last) {
		tryEdge(edge, edge.TargetID)
	}
	for _, edge := range g.InEdges(last) {
		tryEdge(edge, edge.SourceID)
	}

	return extensions
}

// aggregate folds an edge weight into the running path confidence.
func aggregate(conf, weight float64, agg model.PathAggregation, first bool) float64 {
	if agg == model.AggregationMin {
		if first || weight < conf {
			return weight
		}
		return conf
	}
	return conf * weight
}

// rank deduplicates convergent paths (the same chain walked from either
// end), orders by descending confidence and applies the path cap.
func rank(finished []*partial, maxPaths int) []*model.PathEvidence {
	bySignature := make(map[string]*partial, len(finished))
	for _, p := range finished {
		sig := signature(p.hops)
		if existing, ok := bySignature[sig]; ok && existing.conf >= p.conf {
			continue
		}
		bySignature[sig] = p
	}

	paths := make([]*model.PathEvidence, 0, len(bySignature))
	for _, p := range bySignature {
		paths = append(paths, &model.PathEvidence{
			Hops:           p.hops,
			PathConfidence: p.conf,
		})
	}

	sort.Slice(paths, func(i, j int) bool {
		if paths[i].PathConfidence != paths[j].PathConfidence {
			return paths[i].PathConfidence > paths[j].PathConfidence
		}
		if len(paths[i].Hops) != len(paths[j].Hops) {
			return len(paths[i].Hops) < len(paths[j].Hops)
		}
		return paths[i].EvidenceID() < paths[j].EvidenceID()
	})

	if maxPaths > 0 && len(paths) > maxPaths {
		paths = paths[:maxPaths]
	}

	return paths
}

// signature canonicalizes the node sequence of a path so a chain and its
// reverse walk collapse to one key.
func signature(hops []model.Hop) string {
	ids := make([]string, len(hops))
	for i, hop := range hops {
		ids[i] = hop.Node.ID
	}
	forward := strings.Join(ids, ">")

	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	backward := strings.Join(ids, ">")

	if backward < forward {
		return backward
	}
	return forward
}
