package orchestrator

import (
	"fmt"
	"strings"

	"github.com/noeul-sumini/travel-agent/core"
)

// aggregate merges the primary answer with the supporting results in their
// fixed classification order. A supporting result contributes a labeled
// addendum only if it succeeded, is non-empty and its exact text is not
// already contained in the accumulated answer. The containment check is a
// textual de-duplication heuristic, not a semantic one.
func aggregate(primary core.HandlerResult, supporting []core.SupportingResult) string {
	var b strings.Builder
	b.WriteString(primary.Message)

	for _, sr := range supporting {
		msg := sr.Result.Message
		if sr.Result.IsError() || msg == "" {
			continue
		}
		if strings.Contains(b.String(), msg) {
			continue
		}
		fmt.Fprintf(&b, "\n\nAdditional information (%s):\n%s", sr.Handler, msg)
	}

	return b.String()
}
