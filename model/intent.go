package model

// IntentCategory is the closed set of reasoning strategies a query maps to.
type IntentCategory string

const (
	IntentFactualQuery      IntentCategory = "factual_query"
	IntentMultiHopReasoning IntentCategory = "multi_hop_reasoning"
	IntentExplanatoryQuery  IntentCategory = "explanatory_query"
)
