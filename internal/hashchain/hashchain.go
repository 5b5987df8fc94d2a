// Package hashchain implements the digest primitive behind the tamper-evident
// audit log: a canonical JSON encoder whose output is stable for semantically
// identical input, and a SHA-256 link digest binding each audit event to its
// predecessor.
package hashchain

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// GenesisDigest is the prev-digest sentinel for the first event in the chain.
const GenesisDigest = ""

// Canonicalize encodes v as canonical JSON: object keys sorted, compact
// separators, numeric literals preserved verbatim. Two payloads that are
// semantically equal produce byte-identical output regardless of field
// insertion order, which is what makes the digest reproducible on replay.
//
// A payload that cannot be deterministically encoded (channels, funcs,
// NaN floats, cyclic values) is a programming error in the caller; it is
// reported, not recovered from.
func Canonicalize(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}

	// Round-trip through an untyped decode so maps re-marshal with sorted
	// keys. UseNumber keeps numeric literals intact across the round trip.
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}

	out, err := json.Marshal(decoded)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	return out, nil
}

// Digest computes the hex-encoded SHA-256 chain digest for an audit event.
// The four inputs are hashed in fixed order: previous digest (GenesisDigest
// for the first event), RFC 3339 timestamp string, action, canonical payload.
func Digest(prevDigest, timestamp, action string, payload []byte) string {
	h := sha256.New()
	h.Write([]byte(prevDigest))
	h.Write([]byte(timestamp))
	h.Write([]byte(action))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
