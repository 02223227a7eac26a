package record

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity. The version suffix allows
// the hashed shape to change without colliding with old IDs.
const (
	DomainProbe   = "stride/probe/v1"
	DomainFixture = "stride/fixture/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ProbeID computes the content-addressed ID of one probe: what was asked of
// which fixture, at which point of which run. The outcome is not part of the
// identity, so a replay that diverges still maps onto the same ID.
func ProbeID(runID string, seq int64, fixtureHash, op string, args Object) (string, error) {
	if args == nil {
		args = Object{}
	}
	canonical, err := MarshalCanonical(Object{
		"run_id":       String(runID),
		"seq":          Int(seq),
		"fixture_hash": String(fixtureHash),
		"op":           String(op),
		"args":         args,
	})
	if err != nil {
		return "", fmt.Errorf("ProbeID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainProbe, canonical), nil
}

// FixtureHash computes the content hash of a fixture's definition. Two
// fixtures with the same kind, element type and values hash equally
// whatever their names.
func FixtureHash(kind, elem string, values Array) (string, error) {
	if values == nil {
		values = Array{}
	}
	canonical, err := MarshalCanonical(Object{
		"kind":   String(kind),
		"elem":   String(elem),
		"values": values,
	})
	if err != nil {
		return "", fmt.Errorf("FixtureHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainFixture, canonical), nil
}

// MustProbeID is like ProbeID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustProbeID(runID string, seq int64, fixtureHash, op string, args Object) string {
	id, err := ProbeID(runID, seq, fixtureHash, op, args)
	if err != nil {
		panic(err)
	}
	return id
}
