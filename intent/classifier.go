// Package intent maps free-form request text onto the closed handler set:
// one primary handler that directly answers the request and an ordered list
// of supporting handlers that enrich the answer.
//
// Classification is a pure function over two fixed, versioned rule tables.
// It performs no I/O, holds no mutable state and is safe for concurrent use.
package intent

import (
	"fmt"
	"strings"

	"github.com/noeul-sumini/travel-agent/core"
)

// Rule binds a handler to the keyword set that selects it. Matching is
// case-insensitive substring containment.
type Rule struct {
	Handler  core.HandlerName
	Keywords []string
}

// primaryRules is evaluated top to bottom; the first matching rule wins.
// The ordering is a routing policy decision and must not be reordered
// without revisiting every test that pins it.
var primaryRules = []Rule{
	{Handler: core.Calendar, Keywords: []string{"calendar", "schedule", "event"}},
	{Handler: core.Maps, Keywords: []string{"map", "location", "place", "restaurant"}},
	{Handler: core.Weather, Keywords: []string{"weather", "forecast", "temperature"}},
	{Handler: core.Flights, Keywords: []string{"flight", "airplane", "airport"}},
	{Handler: core.Budget, Keywords: []string{"budget", "cost", "price", "expense"}},
}

// supportingRules is a fixed checklist evaluated in order; every matching
// rule contributes its handler, so the resulting list is ordered by rule
// position, not by match position in the text. Budget has no keywords: it
// is always included unless it is itself primary.
var supportingRules = []Rule{
	{Handler: core.Budget},
	{Handler: core.Weather, Keywords: []string{"outdoor", "weather", "forecast", "temperature"}},
	{Handler: core.Maps, Keywords: []string{"location", "directions", "map", "nearby"}},
	{Handler: core.Calendar, Keywords: []string{"schedule", "time", "when", "calendar"}},
}

// Classification is the routing decision for one request.
type Classification struct {
	// Primary directly answers the request; its failure is fatal.
	Primary core.HandlerName
	// Supporting enrich the answer in this exact order; failures are
	// non-fatal. Never contains Primary.
	Supporting []core.HandlerName
}

// Classifier routes request text to handlers using the fixed rule tables.
// The zero value is ready to use.
type Classifier struct{}

// NewClassifier returns a Classifier.
func NewClassifier() *Classifier { return &Classifier{} }

// Classify picks the primary and supporting handlers for the given text.
// It fails only on empty or all-whitespace input; text matching no primary
// rule falls back to the Planner handler.
func (c *Classifier) Classify(content string) (Classification, error) {
	if strings.TrimSpace(content) == "" {
		return Classification{}, fmt.Errorf("%w: empty message", core.ErrClassification)
	}

	lower := strings.ToLower(content)

	cls := Classification{Primary: core.Planner}
	for _, rule := range primaryRules {
		if containsAny(lower, rule.Keywords) {
			cls.Primary = rule.Handler
			break
		}
	}

	for _, rule := range supportingRules {
		if rule.Handler == cls.Primary {
			// No self-collaboration.
			continue
		}
		if len(rule.Keywords) == 0 || containsAny(lower, rule.Keywords) {
			cls.Supporting = append(cls.Supporting, rule.Handler)
		}
	}

	return cls, nil
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
