package harness

import "github.com/roach88/stride/internal/record"

// TraceEvent is one executed probe as it appears in a scenario trace.
type TraceEvent struct {
	ID      string         `json:"id"`
	Seq     int64          `json:"seq"`
	Op      string         `json:"op"`
	Fixture string         `json:"fixture"`
	Tier    string         `json:"tier"`
	Args    map[string]any `json:"args"`
	Outcome string         `json:"outcome"`
	Result  any            `json:"result,omitempty"`
	Message string         `json:"message,omitempty"`
	Steps   int64          `json:"steps"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	RunID string `json:"run_id"`

	// Trace holds the executed probes in seq order.
	Trace []TraceEvent `json:"trace"`

	// Errors holds failure messages. Empty when Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result with no trace.
func NewResult(runID string) *Result {
	return &Result{
		Pass:   true,
		RunID:  runID,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a recorded probe to the trace.
func (r *Result) AddTrace(p record.Probe) {
	args, _ := record.ToGo(p.Args).(map[string]any)
	ev := TraceEvent{
		ID:      p.ID,
		Seq:     p.Seq,
		Op:      p.Op,
		Fixture: p.Fixture,
		Tier:    p.Tier,
		Args:    args,
		Outcome: p.Outcome,
		Message: p.Message,
		Steps:   p.Steps,
	}
	if p.Result != nil {
		ev.Result = record.ToGo(p.Result)
	}
	r.Trace = append(r.Trace, ev)
}
