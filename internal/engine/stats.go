package engine

import "github.com/krispya/graft/internal/engine/transform"

// Stats aggregates what a session did. Counters are observational; nothing
// here feeds back into transformation.
type Stats struct {
	SessionID string `json:"session_id"`

	// Collection
	FilesCollected     int `json:"files_collected"`
	FunctionsCollected int `json:"functions_collected"`

	// Transformation
	FilesTransformed     int                      `json:"files_transformed"`
	InlinedCalls         map[string]int           `json:"inlined_calls,omitempty"`
	TransformedFunctions []transform.FunctionStat `json:"transformed_functions,omitempty"`

	CollectMillis   int64 `json:"collect_ms"`
	TransformMillis int64 `json:"transform_ms"`
}

// TotalInlined sums inlined call counts across every transformed file
func (s *Stats) TotalInlined() int {
	total := 0
	for _, count := range s.InlinedCalls {
		total += count
	}
	return total
}
