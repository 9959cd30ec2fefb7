package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainCombination = "mapcover/combination/v1"
	DomainSchema      = "mapcover/schema/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CombinationID computes the content-addressed ID for a combination.
// The ID is stable across runs and processes given the same assignment,
// independent of map iteration order. Returns an error if the combination
// cannot be canonically marshaled.
func CombinationID(c Combination) (string, error) {
	canonical, err := MarshalCanonical(c)
	if err != nil {
		return "", fmt.Errorf("CombinationID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainCombination, canonical), nil
}

// SchemaDigest computes a fingerprint of a raw schema document, used to tie
// archived runs back to the exact input bytes they were generated from.
func SchemaDigest(data []byte) string {
	return hashWithDomain(DomainSchema, data)
}

// MustCombinationID is like CombinationID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustCombinationID(c Combination) string {
	id, err := CombinationID(c)
	if err != nil {
		panic(err)
	}
	return id
}
