package orchestrator

// WorkflowMode records which dispatch branch produced a Record.
type WorkflowMode string

const (
	ModeSequential WorkflowMode = "sequential"
	ModeParallel   WorkflowMode = "parallel"
)

// Record is the Optimization record described in §3: the original prompt, its
// category, every intermediate pipeline artifact (nullable via pointer/zero-value),
// the final quality score, the dispatch mode, and an accumulated error list. Per the
// Partial-completion invariant: Errors == nil implies every content field below is
// non-nil; any nil content field must be accompanied by at least one error string.
type Record struct {
	Original    string `json:"original"`
	Category    string `json:"category"`

	Deconstruction  *string `json:"deconstruction"`
	Diagnosis       *string `json:"diagnosis"`
	OptimizedPrompt *string `json:"optimized_prompt"`
	SampleOutput    *string `json:"sample_output"`
	Evaluation      *string `json:"evaluation"`
	QualityScore    *int    `json:"quality_score"`

	WorkflowMode WorkflowMode `json:"workflow_mode"`
	Errors       []string     `json:"errors"`
}

func ptr(s string) *string { return &s }
func intPtr(i int) *int    { return &i }
