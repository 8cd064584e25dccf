package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/fingraph/fingraph"
	"github.com/fingraph/fingraph/core/synthesis"
	"github.com/fingraph/fingraph/corpus"
	"github.com/fingraph/fingraph/model"
)

// The example runs against a small in-memory corpus with a scripted
// generator, so it needs neither a database nor an LLM endpoint. Swap in
// fingraph.NewDatabaseAgent and synthesis.NewOpenAIGenerator for a real
// deployment.
func main() {
	provider := corpus.NewProvider()
	provider.Swap(buildSampleSnapshot())

	gen := synthesis.GenerateFunc(func(ctx context.Context, prompt string) (string, error) {
		return "Based on the context, rising interest rates increase TechCorp's borrowing " +
			"costs through its variable rate credit facility, which reduces the margin " +
			"TechCorp earns on its cloud segment. The 10-K filing reports that a one " +
			"percent rate increase would cost roughly 12 million dollars annually.", nil
	})

	agent, err := fingraph.NewAgent(model.DefaultEngineConfig(), provider, nil, gen)
	if err != nil {
		log.Fatalf("Failed to create agent: %v", err)
	}

	query := "How do rising interest rates affect TechCorp's cloud margins?"
	fmt.Printf("Querying: %s\n\n", query)

	result, err := agent.Answer(context.Background(), query, nil, nil)
	if err != nil {
		log.Fatalf("Failed to answer: %v", err)
	}

	fmt.Printf("Intent: %s\n", result.Intent)
	fmt.Printf("Answer: %s\n", result.Text)
	fmt.Printf("Confidence: %.2f (%s)\n", result.ConfidenceScore, result.ConfidenceTier)
	fmt.Println("\nReasoning:")
	for i, step := range result.ChainOfThought {
		fmt.Printf("  %d. %s\n", i+1, step)
	}
	fmt.Println("\nSupporting evidence:")
	for _, id := range result.SupportingEvidence {
		fmt.Printf("  - %s\n", id)
	}
}

func buildSampleSnapshot() *corpus.Snapshot {
	chunkA := &model.Chunk{
		ID: uuid.New(),
		Text: "TechCorp's credit facility carries a variable interest rate. The 10-K " +
			"estimates that a one percent rate increase would add roughly 12 million " +
			"dollars of annual borrowing costs.",
		Source: model.SourceMetadata{Origin: "techcorp-10k-2025", Type: "filing", Timestamp: time.Now()},
	}
	chunkB := &model.Chunk{
		ID: uuid.New(),
		Text: "Cloud segment margins at TechCorp depend heavily on financing costs for " +
			"data center expansion, which is funded through the credit facility.",
		Source: model.SourceMetadata{Origin: "techcorp-10k-2025", Type: "filing", Timestamp: time.Now()},
	}

	nodes := []*model.GraphNode{
		{ID: "interest_rates", Label: "Interest Rates", EntityType: "concept", Importance: 0.08, Frequency: 4},
		{ID: "credit_facility", Label: "Credit Facility", EntityType: "instrument", Importance: 0.05, Frequency: 3},
		{ID: "techcorp_cloud", Label: "TechCorp Cloud", EntityType: "segment", Importance: 0.07, Frequency: 5},
	}
	edges := []*model.GraphEdge{
		{SourceID: "interest_rates", TargetID: "credit_facility", RelationType: "raises_cost_of", Weight: 0.9},
		{SourceID: "credit_facility", TargetID: "techcorp_cloud", RelationType: "funds", Weight: 0.8},
	}
	mentions := map[string][]uuid.UUID{
		"interest_rates":  {chunkA.ID},
		"credit_facility": {chunkA.ID, chunkB.ID},
		"techcorp_cloud":  {chunkB.ID},
	}

	return corpus.NewSnapshot([]*model.Chunk{chunkA, chunkB}, nodes, edges, mentions)
}
