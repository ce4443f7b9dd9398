package graph

import (
	"fmt"

	"github.com/pipegen/pipegen/internal/ir"
)

// Validate is a convenience wrapper that builds an Analyzer and runs a full
// validation pass over the tree.
func Validate(root ir.Node, strict bool) *Result {
	return NewAnalyzer(root).Validate(strict)
}

// Advisory thresholds. Exceeding one produces a warning, and in strict mode
// each warning is also promoted to an error.
const (
	maxRecommendedDepth       = 5
	maxRecommendedResources   = 20
	maxRecommendedConcurrent  = 10
	maxRecommendedConditional = 10
)

// Result aggregates the outcome of a full structural validation pass.
// Errors and warnings keep the order in which they were found.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Metrics  Metrics  `json:"metrics"`
}

// Validate runs both structural checks, collecting failures as strings
// instead of returning early, computes the metrics, and derives advisory
// warnings. In strict mode every warning is additionally appended to the
// error list with a "Strict mode: " prefix, flipping Valid to false, while
// the warnings list itself stays the same either way.
func (a *Analyzer) Validate(strict bool) *Result {
	res := &Result{}

	if err := a.CheckCycles(); err != nil {
		res.Errors = append(res.Errors, err.Error())
	}
	if err := a.CheckUnreachable(); err != nil {
		res.Errors = append(res.Errors, err.Error())
	}

	res.Metrics = a.Metrics()

	if res.Metrics.MaxDepth > maxRecommendedDepth {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("pipeline is deeply nested (depth %d, recommended max %d)",
				res.Metrics.MaxDepth, maxRecommendedDepth))
	}
	if res.Metrics.TotalResources > maxRecommendedResources {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("pipeline uses many resources (%d, recommended max %d)",
				res.Metrics.TotalResources, maxRecommendedResources))
	}
	if res.Metrics.ParallelSections > maxRecommendedConcurrent {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("pipeline has many concurrent sections (%d, recommended max %d)",
				res.Metrics.ParallelSections, maxRecommendedConcurrent))
	}
	if res.Metrics.ConditionalBranches > maxRecommendedConditional {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("pipeline has many conditional branches (%d, recommended max %d)",
				res.Metrics.ConditionalBranches, maxRecommendedConditional))
	}

	if strict {
		for _, warning := range res.Warnings {
			res.Errors = append(res.Errors, "Strict mode: "+warning)
		}
	}

	res.Valid = len(res.Errors) == 0
	return res
}
