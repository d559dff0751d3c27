package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// SumHex returns the lowercase-hex SHA-256 digest of data.
func SumHex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashValue canonically encodes v and returns the lowercase-hex SHA-256
// digest of the encoding. This is the digest that links ledger blocks:
// given the same value, every implementation of the canonical encoding
// produces the same hash.
func HashValue(v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", fmt.Errorf("hash value: %w", err)
	}
	return SumHex(data), nil
}

// HashWithDomain computes SHA-256 over domain + 0x00 + data.
// The null separator prevents domain/data boundary ambiguity. Block
// hashes deliberately do NOT use domain separation (their digest input
// is fixed by the chain format); commitments do.
func HashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
