// Package store provides a durable SQLite archive of sealed ledger
// blocks.
//
// The archive is append-only and idempotent: blocks are keyed by their
// content hash, so re-appending an already-archived block is a no-op.
// Reading the archive back yields the chain in index order, ready for
// ledger.ValidateBlocks.
//
// The archive is a cold copy of the chain, not the ledger's source of
// truth; the in-memory Ledger owns the hash-linking invariants.
package store
