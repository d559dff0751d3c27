// Package zkml models the placeholder commitment scheme: an opaque
// Commitment produced by hashing a canonical statement.
//
// This is NOT a proof system. A commitment here carries no soundness or
// zero-knowledge property; it only lets a caller check that a statement
// has not changed since the commitment was produced. Anything stronger
// belongs to a real cryptographic library.
package zkml

import (
	"fmt"

	"github.com/ringlabs/saturn/internal/canonical"
)

// commitmentDomain separates commitment digests from block hashes and
// any future digest uses.
const commitmentDomain = "saturn/commitment/v1"

// Commitment is an opaque digest of a canonical statement.
type Commitment string

// Commit hashes the canonical encoding of statement.
func Commit(statement map[string]any) (Commitment, error) {
	data, err := canonical.Marshal(statement)
	if err != nil {
		return "", fmt.Errorf("commit statement: %w", err)
	}
	return Commitment(canonical.HashWithDomain(commitmentDomain, data)), nil
}

// Verify recomputes the commitment for statement and compares it to c.
// A false result means the statement differs from the committed one;
// an error means the statement cannot be canonically encoded.
func Verify(statement map[string]any, c Commitment) (bool, error) {
	expected, err := Commit(statement)
	if err != nil {
		return false, err
	}
	return expected == c, nil
}
