// Package record defines the persisted form of probe runs.
//
// Results and arguments are held as Values, a closed family of JSON types
// without floats or null. MarshalCanonical renders a Value as RFC 8785
// canonical JSON, which is the only serialization used to derive
// content-addressed IDs:
//
//	ProbeID     = SHA256("stride/probe/v1" + 0x00 + canonical(probe))
//	FixtureHash = SHA256("stride/fixture/v1" + 0x00 + canonical(fixture))
//
// Re-running the same scenario with the same run ID therefore yields the
// same probe IDs.
package record
