package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noeul-sumini/travel-agent/core"
)

func TestAggregate(t *testing.T) {
	primary := core.SuccessResult("Primary answer.", nil)

	tests := []struct {
		name       string
		supporting []core.SupportingResult
		want       string
	}{
		{
			name: "no supporting results",
			want: "Primary answer.",
		},
		{
			name: "labeled addenda in order",
			supporting: []core.SupportingResult{
				{Handler: core.Budget, Result: core.SuccessResult("About 50 USD.", nil)},
				{Handler: core.Weather, Result: core.SuccessResult("Sunny all week.", nil)},
			},
			want: "Primary answer." +
				"\n\nAdditional information (Budget):\nAbout 50 USD." +
				"\n\nAdditional information (Weather):\nSunny all week.",
		},
		{
			name: "failed and empty results are skipped",
			supporting: []core.SupportingResult{
				{Handler: core.Budget, Result: core.ErrorResult("budget service down")},
				{Handler: core.Maps, Result: core.SuccessResult("", nil)},
				{Handler: core.Weather, Result: core.SuccessResult("Sunny all week.", nil)},
			},
			want: "Primary answer.\n\nAdditional information (Weather):\nSunny all week.",
		},
		{
			name: "text already contained is not repeated",
			supporting: []core.SupportingResult{
				{Handler: core.Budget, Result: core.SuccessResult("Primary answer.", nil)},
			},
			want: "Primary answer.",
		},
		{
			name: "identical supporting texts land once",
			supporting: []core.SupportingResult{
				{Handler: core.Budget, Result: core.SuccessResult("Sunny all week.", nil)},
				{Handler: core.Weather, Result: core.SuccessResult("Sunny all week.", nil)},
			},
			want: "Primary answer.\n\nAdditional information (Budget):\nSunny all week.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, aggregate(primary, tt.supporting))
		})
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	primary := core.SuccessResult("Primary answer.", nil)
	supporting := []core.SupportingResult{
		{Handler: core.Budget, Result: core.SuccessResult("About 50 USD.", nil)},
	}

	once := aggregate(primary, supporting)
	// Feeding the aggregated text back through with the same supporting
	// results must not duplicate the addendum.
	again := aggregate(core.SuccessResult(once, nil), supporting)
	assert.Equal(t, once, again)
}
