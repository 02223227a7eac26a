// Package harness runs probe scenarios as executable conformance tests.
//
// A scenario names one or more CUE fixture files, a list of probe steps, and
// assertions over the resulting trace and probe log.
//
// # Scenario Format
//
//	name: search_costs
//	description: "BinarySearch cost by tier"
//	fixtures:
//	  - fixtures/sorted.cue
//	run_id: "test-run-search"
//	steps:
//	  - op: search
//	    fixture: sorted_slice
//	    args: { value: 5 }
//	    expect:
//	      outcome: ok
//	      result: true
//	      steps: 2
//	  - op: distance
//	    fixture: sorted_stream
//	    expect:
//	      outcome: capability_mismatch
//	assertions:
//	  - type: trace_count
//	    op: search
//	    count: 1
//	  - type: final_state
//	    table: probes
//	    where: { op: "search", fixture: "sorted_slice" }
//	    expect: { steps: 2 }
//
// Fixture paths are resolved relative to the scenario file.
//
// # Assertion Types
//
//   - trace_contains: a probe with the given op, fixture, args and outcome ran
//   - trace_order: ops appear in the given order
//   - trace_count: an op ran exactly N times
//   - final_state: a row of a store table has the expected column values
//
// # Deterministic Testing
//
// Every scenario runs against a fresh in-memory store with a
// testutil.DeterministicClock and a fixed run ID, so probe IDs and traces are
// byte-identical across runs and can be compared against golden files with
// RunWithGolden.
package harness
