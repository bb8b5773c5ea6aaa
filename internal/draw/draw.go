// Copyright 2025 Granary Authors
// SPDX-License-Identifier: Apache-2.0

// Package draw derives the uniform random value a farming attempt is decided
// with. The draw comes from hashing the retrieval event id, never from a
// local RNG, so every node that knows the event id reconstructs the same
// draw and can replay the decision.
package draw

import (
	"crypto/sha256"
	"encoding/binary"
)

// FromEvent maps an event identifier to a uniform value in [0,1).
// The top 53 bits of the SHA-256 digest are used so the value is exactly
// representable as a float64.
func FromEvent(eventID []byte) float64 {
	sum := sha256.Sum256(eventID)
	v := binary.BigEndian.Uint64(sum[:8])
	return float64(v>>11) / float64(1<<53)
}

// FromEventString is FromEvent over a string id.
func FromEventString(eventID string) float64 {
	return FromEvent([]byte(eventID))
}
