// Package assembly builds the bounded reasoning context from retrieved
// chunks and traversed paths: near-duplicates are dropped, then the budget
// is filled greedily in rank order.
package assembly

import (
	"log/slog"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fingraph/fingraph/model"
)

// Assembler deduplicates and bounds evidence into a ReasoningContext.
type Assembler struct {
	dedupThreshold float64
	log            *slog.Logger
}

// NewAssembler creates an assembler with the given near-duplicate cutoff.
func NewAssembler(dedupThreshold float64, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Assembler{
		dedupThreshold: dedupThreshold,
		log:            logger,
	}
}

// Assemble merges chunk and path evidence into a context that never exceeds
// the character budget. If any evidence exists, at least the highest-ranked
// item is included, truncated if it alone exceeds the budget.
func (a *Assembler) Assemble(chunks []*model.ChunkEvidence, paths []*model.PathEvidence, budget int) *model.ReasoningContext {
	items := make([]model.EvidenceItem, 0, len(chunks)+len(paths))
	for _, c := range chunks {
		items = append(items, c)
	}
	for _, p := range paths {
		items = append(items, p)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Confidence() > items[j].Confidence()
	})

	rc := model.NewReasoningContext(budget)
	var kept []model.EvidenceItem
	dropped := 0

	for _, item := range items {
		if a.duplicateOfAny(item, kept) {
			dropped++
			continue
		}

		size := len(item.ContextText())
		if rc.Size()+size > budget {
			if rc.Len() > 0 {
				continue
			}
			// The single best item is always admitted; cut it to the budget.
			item = truncate(item, budget)
			size = len(item.ContextText())
		}

		rc.Add(item, size)
		kept = append(kept, item)
	}

	a.log.Debug("Assembled reasoning context",
		slog.Int("items", rc.Len()),
		slog.Int("size", rc.Size()),
		slog.Int("deduplicated", dropped))

	return rc
}

// duplicateOfAny reports whether item near-duplicates one of the
// already-kept items.
func (a *Assembler) duplicateOfAny(item model.EvidenceItem, kept []model.EvidenceItem) bool {
	for _, other := range kept {
		if a.duplicates(item, other) {
			return true
		}
	}
	return false
}

// duplicates applies the near-duplicate checks: embedding cosine between
// chunks (token overlap when embeddings are missing), and label containment
// between a chunk and a path.
func (a *Assembler) duplicates(item, other model.EvidenceItem) bool {
	switch it := item.(type) {
	case *model.ChunkEvidence:
		switch ot := other.(type) {
		case *model.ChunkEvidence:
			return a.chunksOverlap(it.Chunk, ot.Chunk)
		case *model.PathEvidence:
			return chunkImpliedByPath(it.Chunk, ot)
		}
	case *model.PathEvidence:
		if ot, ok := other.(*model.ChunkEvidence); ok {
			return chunkImpliedByPath(ot.Chunk, it)
		}
	}
	return false
}

func (a *Assembler) chunksOverlap(x, y *model.Chunk) bool {
	if x == nil || y == nil {
		return false
	}
	if len(x.Embedding) > 0 && len(x.Embedding) == len(y.Embedding) {
		return embeddingSimilarity(x.Embedding, y.Embedding) >= a.dedupThreshold
	}
	return tokenOverlap(x.Text, y.Text) >= a.dedupThreshold
}

// chunkImpliedByPath reports whether every node label of the path already
// occurs in the chunk text, i.e. the two carry the same relationship facts.
func chunkImpliedByPath(chunk *model.Chunk, path *model.PathEvidence) bool {
	if chunk == nil || len(path.Hops) == 0 {
		return false
	}
	text := strings.ToLower(chunk.Text)
	for _, label := range path.NodeLabels() {
		if label == "" || !strings.Contains(text, strings.ToLower(label)) {
			return false
		}
	}
	return true
}

// tokenOverlap computes the Jaccard overlap of lowercase token sets.
func tokenOverlap(x, y string) float64 {
	xs := tokenSet(x)
	ys := tokenSet(y)
	if len(xs) == 0 || len(ys) == 0 {
		return 0
	}

	intersection := 0
	for token := range xs {
		if ys[token] {
			intersection++
		}
	}
	union := len(xs) + len(ys) - intersection

	return float64(intersection) / float64(union)
}

func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, field := range strings.Fields(strings.ToLower(text)) {
		set[strings.Trim(field, ".,;:!?()[]\"'")] = true
	}
	delete(set, "")
	return set
}

// truncate returns a copy of the item whose rendered context fits budget,
// regardless of the evidence kind.
func truncate(item model.EvidenceItem, budget int) model.EvidenceItem {
	switch it := item.(type) {
	case *model.ChunkEvidence:
		copied := *it
		if it.Chunk != nil {
			// Cut the chunk text first so the provenance tag survives.
			overhead := len(it.ContextText()) - len(it.Chunk.Text)
			chunk := *it.Chunk
			chunk.Text = cutAtRune(chunk.Text, budget-overhead)
			copied.Chunk = &chunk
		}
		if len(copied.ContextText()) > budget {
			copied.Rendered = cutAtRune(copied.ContextText(), budget)
		}
		return &copied
	case *model.PathEvidence:
		copied := *it
		if len(copied.ContextText()) > budget {
			copied.Rendered = cutAtRune(copied.ContextText(), budget)
		}
		return &copied
	}
	return item
}

// cutAtRune trims s to at most n bytes without splitting a UTF-8 rune.
func cutAtRune(s string, n int) string {
	if n >= len(s) {
		return s
	}
	if n < 0 {
		n = 0
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// embeddingSimilarity is cosine similarity over float32 embeddings.
func embeddingSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
