// Package canonical provides deterministic JSON encoding and SHA-256
// content hashing for ledger blocks, graph snapshots, and commitment
// statements.
//
// The encoding is the ONLY serialization that may be used for hash
// computation. Two processes encoding the same value must produce the
// same bytes, so the rules are fixed:
//
//  1. Object keys sorted byte-lexicographically
//  2. Strings NFC normalized, no HTML escaping (< > & stay literal)
//  3. Floats formatted as shortest round-trip decimal (strconv 'f', -1)
//  4. NaN and infinities are rejected
//  5. Compact output: no insignificant whitespace
//
// Unlike stricter canonical-JSON profiles, floats are first-class here:
// the domain is numeric (timestamps, vector components, edge weights)
// and float formatting is pinned instead of forbidden.
package canonical
