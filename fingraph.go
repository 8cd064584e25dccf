// Package fingraph answers questions over a financial document corpus by
// combining vector retrieval with multi-hop traversal of a knowledge graph.
package fingraph

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/fingraph/fingraph/core/assembly"
	"github.com/fingraph/fingraph/core/confidence"
	"github.com/fingraph/fingraph/core/graph"
	"github.com/fingraph/fingraph/core/intent"
	"github.com/fingraph/fingraph/core/pipeline"
	"github.com/fingraph/fingraph/core/retrieval"
	"github.com/fingraph/fingraph/core/synthesis"
	"github.com/fingraph/fingraph/corpus"
	"github.com/fingraph/fingraph/database"
	"github.com/fingraph/fingraph/helper"
	"github.com/fingraph/fingraph/model"
	loadSql "github.com/fingraph/fingraph/sql"
)

// Agent answers queries against the current corpus snapshot. It classifies
// the query intent, runs hybrid retrieval and graph traversal, assembles a
// budgeted reasoning context, synthesizes an answer and scores it.
type Agent struct {
	Provider *corpus.Provider
	DB       *helper.Database // nil when the corpus is loaded in memory

	cfg       model.EngineConfig
	chunks    *database.ChunksDBHandler
	graph     *database.GraphDBHandler
	embed     pipeline.EmbedFunc
	retriever *retrieval.Engine
	assembler *assembly.Assembler
	synth     *synthesis.Synthesizer
	eval      *confidence.Evaluator
	log       *slog.Logger
}

// NewAgent creates an agent over an already populated corpus provider.
// The configuration is validated here; no invalid threshold reaches a query.
func NewAgent(cfg model.EngineConfig, provider *corpus.Provider, embedder pipeline.EmbedFunc, gen synthesis.Generator) (*Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, helper.NewError("validate engine configuration", err)
	}

	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	return &Agent{
		Provider:  provider,
		cfg:       cfg,
		embed:     embedder,
		retriever: retrieval.NewEngine(cfg, logger),
		assembler: assembly.NewAssembler(cfg.DedupThreshold, logger),
		synth:     synthesis.NewSynthesizer(gen, cfg, logger),
		eval:      confidence.NewEvaluator(cfg),
		log:       logger,
	}, nil
}

// NewDatabaseAgent creates an agent backed by postgres artifacts. The corpus
// is loaded wholesale into an immutable snapshot; ReloadCorpus swaps in a
// fresh one after a rebuild.
func NewDatabaseAgent(dbConfig *helper.DatabaseConfiguration, cfg model.EngineConfig, embedder pipeline.EmbedFunc, gen synthesis.Generator) (*Agent, error) {
	agent, err := NewAgent(cfg, corpus.NewProvider(), embedder, gen)
	if err != nil {
		return nil, err
	}

	db := helper.NewDatabase("fingraph", dbConfig, agent.log)
	if err := loadSql.Init(db.Instance); err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	chunks, err := database.NewChunksDBHandler(db, cfg.EmbeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create chunks handler", err)
	}

	graphHandler, err := database.NewGraphDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create graph handler", err)
	}

	agent.DB = db
	agent.chunks = chunks
	agent.graph = graphHandler

	if _, err := agent.Provider.Reload(chunks, graphHandler); err != nil {
		return nil, helper.NewError("load corpus snapshot", err)
	}

	return agent, nil
}

// Close closes the database connection, if any.
func (a *Agent) Close() error {
	if a.DB != nil && a.DB.Instance != nil {
		return a.DB.Instance.Close()
	}
	return nil
}

// ReloadCorpus re-reads the persisted artifacts and atomically swaps the
// snapshot. Queries in flight keep the snapshot they started with.
func (a *Agent) ReloadCorpus() (corpus.Stats, error) {
	if a.chunks == nil || a.graph == nil {
		return corpus.Stats{}, helper.NewError("reload corpus", model.ErrCorpusUnavailable)
	}

	snapshot, err := a.Provider.Reload(a.chunks, a.graph)
	if err != nil {
		return corpus.Stats{}, err
	}

	stats := snapshot.Stats()
	a.log.Info("Corpus snapshot reloaded",
		slog.Int("chunks", stats.Chunks),
		slog.Int("nodes", stats.Nodes),
		slog.Int("edges", stats.Edges))

	return stats, nil
}

// CorpusStats returns structural statistics of the current snapshot.
func (a *Agent) CorpusStats() (corpus.Stats, error) {
	snapshot, err := a.Provider.Current()
	if err != nil {
		return corpus.Stats{}, err
	}
	return snapshot.Stats(), nil
}

// Answer runs the full pipeline for one query. history holds prior turns of
// the conversation and may be nil. config overrides the default query
// parameters for this call only; pass nil to use the engine defaults.
//
// With no snapshot installed the call fails with model.ErrCorpusUnavailable.
// A corpus with no matching evidence still produces a result, never an error.
func (a *Agent) Answer(ctx context.Context, query string, history []model.Turn, config *model.QueryConfig) (*model.AnswerResult, error) {
	snapshot, err := a.Provider.Current()
	if err != nil {
		return nil, err
	}

	qc := a.cfg.Query
	if config != nil {
		if err := config.Validate(); err != nil {
			return nil, helper.NewError("validate query configuration", err)
		}
		qc = *config
	}

	category := intent.Classify(query)
	plan := intent.PlanFor(category, qc)
	a.log.Info("Classified query",
		slog.String("intent", string(plan.Intent)),
		slog.Int("top_k", plan.TopK),
		slog.Int("max_depth", plan.MaxDepth))

	// A missing or failed query embedding degrades to anchor-only retrieval.
	var embedding []float32
	if a.embed != nil {
		embedding, err = a.embed(query)
		if err != nil {
			a.log.Warn("Query embedding failed, retrieving by anchors only", slog.Any("error", err))
			embedding = nil
		}
	}

	anchors := a.retriever.FindAnchors(snapshot, query, qc.MaxAnchors)

	// Retrieval and traversal read the same immutable snapshot, so they run
	// concurrently.
	var (
		chunks []*model.ChunkEvidence
		paths  []*model.PathEvidence
		wg     sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		chunks = a.retriever.Retrieve(ctx, snapshot, embedding, anchors, plan.TopK, qc.SimilarityThreshold)
	}()
	if plan.MaxDepth > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seeds := make([]*model.GraphNode, 0, len(anchors))
			for _, anchor := range anchors {
				seeds = append(seeds, anchor.Node)
			}
			paths = graph.Traverse(snapshot, seeds, graph.Config{
				MaxDepth:          plan.MaxDepth,
				MinEdgeConfidence: qc.MinEdgeConfidence,
				MaxPaths:          qc.MaxPaths,
				Aggregation:       a.cfg.PathAggregation,
			})
		}()
	}
	wg.Wait()

	rc := a.assembler.Assemble(chunks, paths, qc.ContextBudget)

	answer, chain, err := a.synth.Synthesize(ctx, query, rc, history, qc.HistoryTurns)
	if err != nil {
		return nil, err
	}

	score, tier := a.eval.Evaluate(answer, rc)
	if gapErr := groundingGap(rc); gapErr != nil {
		// Without evidence the answer cannot be verified against anything,
		// so it never reaches the High tier.
		a.log.Warn("Answer lacks supporting evidence", slog.String("reason", gapErr.Error()))
		tier = model.TierMedium
		if score >= 0.5 {
			score = 0.49
		}
	}

	result := &model.AnswerResult{
		Text:               answer,
		ChainOfThought:     chain,
		SupportingEvidence: rc.IDs(),
		Intent:             plan.Intent,
		ConfidenceScore:    score,
		ConfidenceTier:     tier,
	}

	a.log.Info("Answered query",
		slog.String("intent", string(plan.Intent)),
		slog.Int("evidence_items", rc.Len()),
		slog.Float64("confidence", score),
		slog.String("tier", string(tier)))

	return result, nil
}

// groundingGap returns ErrEmptyEvidence when the assembled context holds
// nothing to verify an answer against.
func groundingGap(rc *model.ReasoningContext) error {
	if rc == nil || rc.Len() == 0 {
		return model.ErrEmptyEvidence
	}
	return nil
}
