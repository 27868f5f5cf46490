package core

// SupportingResult pairs a supporting handler with its result. The slice
// ordering in CollaborationOutcome preserves classification order regardless
// of invocation completion order.
type SupportingResult struct {
	Handler HandlerName   `json:"handler"`
	Result  HandlerResult `json:"result"`
}

// CollaborationOutcome is the full result of one coordinated request:
// the primary handler's answer, the supporting handlers' raw results in
// classification order, and the aggregated answer text. It is request-scoped:
// built once per request and consumed by aggregation and streaming.
type CollaborationOutcome struct {
	Primary       HandlerName        `json:"primary_handler"`
	PrimaryResult HandlerResult      `json:"primary_result"`
	Supporting    []SupportingResult `json:"supporting_results"`
	Message       string             `json:"message"`
	Data          map[string]any     `json:"data,omitempty"`
}
