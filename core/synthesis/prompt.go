package synthesis

import (
	"fmt"
	"strings"

	"github.com/fingraph/fingraph/model"
)

const (
	noDocumentContext = "No document context found for this query."
	noGraphContext    = "No direct graph relationships found for this query."
)

// renderContext splits the reasoning context into the document section and
// the graph-relationship section, each entry enumerated with its evidence
// id as a provenance tag.
func renderContext(rc *model.ReasoningContext) (string, string) {
	var docs, rels []string
	if rc != nil {
		for _, item := range rc.Items() {
			line := fmt.Sprintf("(%s) %s", item.EvidenceID(), item.ContextText())
			switch item.(type) {
			case *model.PathEvidence:
				rels = append(rels, "- "+line)
			default:
				docs = append(docs, fmt.Sprintf("%d. %s", len(docs)+1, line))
			}
		}
	}

	docSection := noDocumentContext
	if len(docs) > 0 {
		docSection = strings.Join(docs, "\n")
	}
	relSection := noGraphContext
	if len(rels) > 0 {
		relSection = strings.Join(rels, "\n")
	}

	return docSection, relSection
}

// renderHistory formats the most recent conversation turns, answers
// truncated, oldest first.
func renderHistory(history []model.Turn, turns int) string {
	if turns <= 0 || len(history) == 0 {
		return ""
	}
	if len(history) > turns {
		history = history[len(history)-turns:]
	}

	var lines []string
	for _, turn := range history {
		answer := turn.Answer
		if len(answer) > 100 {
			answer = answer[:100]
		}
		lines = append(lines, fmt.Sprintf("Previous Q: %s\nA: %s", turn.Query, answer))
	}

	return strings.Join(lines, "\n")
}

// reasoningPrompt elicits an explicit step-by-step reasoning chain.
func reasoningPrompt(query, docSection, relSection string) string {
	return fmt.Sprintf(`Think step by step about this query:

Query: %s

Context: %s

Graph relationships: %s

Break down your reasoning:
1. What is being asked?
2. What information is relevant?
3. How do the pieces connect?
4. What's the final answer?

Reasoning:`, query, docSection, relSection)
}

// answerPrompt asks for the final grounded answer.
func answerPrompt(query, docSection, relSection, reasoning, memory string) string {
	var b strings.Builder
	b.WriteString("You are a financial AI assistant. Use the provided context and graph relationships to answer accurately.\n\n")
	fmt.Fprintf(&b, "Question: %s\n\n", query)
	fmt.Fprintf(&b, "Context from documents:\n%s\n\n", docSection)
	fmt.Fprintf(&b, "Graph relationships:\n%s\n\n", relSection)
	if reasoning != "" {
		fmt.Fprintf(&b, "Internal reasoning:\n%s\n\n", reasoning)
	}
	if memory != "" {
		fmt.Fprintf(&b, "Previous conversation context:\n%s\n\n", memory)
	}
	b.WriteString("Provide a clear, accurate answer based on the information above. Cite the evidence tags when possible. Do not state facts that are not supported by the context.\n\nAnswer:")

	return b.String()
}

// parseReasoningSteps splits a generated reasoning chain into ordered steps,
// stripping list markers.
func parseReasoningSteps(reasoning string) []string {
	var steps []string
	for _, line := range strings.Split(reasoning, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*• \t")
		for i := 1; i <= 9; i++ {
			line = strings.TrimPrefix(line, fmt.Sprintf("%d.", i))
			line = strings.TrimPrefix(line, fmt.Sprintf("%d)", i))
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.EqualFold(line, "reasoning:") {
			continue
		}
		steps = append(steps, line)
	}
	return steps
}
