package record

// Version constants stamped on every run.
const (
	// SchemaVersion is the record schema version.
	SchemaVersion = "1"

	// ToolVersion is the stride release.
	ToolVersion = "0.1.0"
)

// Run groups the probes of one scenario or CLI session.
type Run struct {
	ID       string `json:"id"`
	Scenario string `json:"scenario"`
	Seq      int64  `json:"seq"`
	Version  string `json:"version"`
}

// Probe is one executed operation and its outcome.
//
// Result is nil when the operation did not run (any outcome other than
// "ok").
type Probe struct {
	ID          string `json:"id"`
	RunID       string `json:"run_id"`
	Seq         int64  `json:"seq"`
	Fixture     string `json:"fixture"`
	FixtureHash string `json:"fixture_hash"`
	Kind        string `json:"kind"`
	Tier        string `json:"tier"`
	Op          string `json:"op"`
	Args        Object `json:"args"`
	Outcome     string `json:"outcome"`
	Result      Value  `json:"result,omitempty"`
	Message     string `json:"message,omitempty"`
	Steps       int64  `json:"steps"`
}

// Canonical returns the probe as an Object suitable for MarshalCanonical.
func (p Probe) Canonical() Object {
	args := p.Args
	if args == nil {
		args = Object{}
	}
	obj := Object{
		"id":           String(p.ID),
		"run_id":       String(p.RunID),
		"seq":          Int(p.Seq),
		"fixture":      String(p.Fixture),
		"fixture_hash": String(p.FixtureHash),
		"kind":         String(p.Kind),
		"tier":         String(p.Tier),
		"op":           String(p.Op),
		"args":         args,
		"outcome":      String(p.Outcome),
		"steps":        Int(p.Steps),
	}
	if p.Result != nil {
		obj["result"] = p.Result
	}
	if p.Message != "" {
		obj["message"] = String(p.Message)
	}
	return obj
}
