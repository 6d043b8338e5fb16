// Package caseid generates the short identifiers that reference moderation records.
//
// A case id is 5 random bytes, hex encoded → 10 lowercase characters
// (e.g. "9f3a07c2b1"). The generator does not check uniqueness: the stores hold
// a unique index on case_id and a collision surfaces as a storage error.
package caseid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Size, number of random bytes in a case id.
const Size = 5

// Generator, produces case ids. Services depend on this instead of New
// so tests can force collisions.
type Generator func() (string, error)

// New, returns a fresh case id.
func New() (string, error) {
	b := make([]byte, Size)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate case id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Valid, reports whether s has the shape of a case id.
func Valid(s string) bool {
	if len(s) != Size*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
