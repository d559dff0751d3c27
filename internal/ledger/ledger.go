// Package ledger implements an append-only, hash-chained block log.
//
// A Ledger owns an ordered chain of Blocks and a FIFO queue of pending
// transactions. CreateBlock seals the queue into a new Block linked to
// the previous block by hash; ValidateChain re-walks the whole chain
// and reports integrity as a plain boolean so callers decide how to
// remediate rather than unwinding on an error.
//
// Policy decisions (the historical variants diverged here):
//   - A genesis block (index 0, prev hash "0", no transactions) is
//     mandatory and seeded by New.
//   - CreateBlock with an empty pending queue fails with ErrEmptyBatch;
//     the genesis block is the only empty-transaction block.
//
// A Ledger is safe for concurrent use: one exclusive writer, concurrent
// readers.
package ledger

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ringlabs/saturn/internal/canonical"
	"github.com/ringlabs/saturn/internal/vec"
)

// ErrEmptyBatch is returned by CreateBlock when the pending queue is
// empty.
var ErrEmptyBatch = errors.New("cannot create a block with no pending transactions")

// Clock supplies block timestamps as Unix seconds. Injected so tests
// can pin timestamps and reproduce hashes.
type Clock interface {
	Now() float64
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current Unix time in fractional seconds.
func (SystemClock) Now() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

// Ledger is an append-only hash-chained block log.
type Ledger struct {
	mu      sync.RWMutex
	chain   []Block
	pending []map[string]any
	clock   Clock
}

// Option configures a Ledger at construction.
type Option func(*Ledger)

// WithClock replaces the wall clock, primarily for tests.
func WithClock(c Clock) Option {
	return func(l *Ledger) { l.clock = c }
}

// New creates a ledger seeded with its genesis block.
func New(opts ...Option) (*Ledger, error) {
	l := &Ledger{clock: SystemClock{}}
	for _, opt := range opts {
		opt(l)
	}

	genesis := Block{
		Index:        0,
		Timestamp:    l.clock.Now(),
		Transactions: []map[string]any{},
		PrevHash:     GenesisPrevHash,
	}
	hash, err := HashBlock(genesis)
	if err != nil {
		return nil, fmt.Errorf("seed genesis block: %w", err)
	}
	genesis.Hash = hash
	l.chain = []Block{genesis}
	return l, nil
}

// AddTransaction deep-copies tx onto the pending queue.
//
// Payload shape is not validated, but the payload must canonically
// encode; a non-serializable payload is rejected here rather than
// poisoning a later CreateBlock.
func (l *Ledger) AddTransaction(tx map[string]any) error {
	// Canonical round-trip doubles as both the serializability check
	// and proof the payload is JSON-shaped enough to deep-copy.
	if _, err := canonical.Marshal(tx); err != nil {
		return fmt.Errorf("add transaction: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = append(l.pending, cloneMap(tx))
	return nil
}

// CreateBlock seals the pending queue into a new block and appends it.
// The queue is cleared atomically with the append. Returns a deep copy
// of the new block.
func (l *Ledger) CreateBlock() (Block, error) {
	return l.createBlock(nil)
}

// CreateBlockProjected is CreateBlock with a vector embedding attached.
// The projection participates in the block hash, so it is fixed at
// creation time like every other field.
func (l *Ledger) CreateBlockProjected(projection vec.Vector) (Block, error) {
	return l.createBlock(vec.Clone(projection))
}

func (l *Ledger) createBlock(projection vec.Vector) (Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.pending) == 0 {
		return Block{}, ErrEmptyBatch
	}

	last := l.chain[len(l.chain)-1]
	block := Block{
		Index:        uint64(len(l.chain)),
		Timestamp:    l.clock.Now(),
		Transactions: cloneTransactions(l.pending),
		PrevHash:     last.Hash,
		Projection:   projection,
	}

	hash, err := HashBlock(block)
	if err != nil {
		return Block{}, fmt.Errorf("create block %d: %w", block.Index, err)
	}
	block.Hash = hash

	l.chain = append(l.chain, block)
	l.pending = l.pending[:0]
	return block.Clone(), nil
}

// ValidateChain walks the whole chain and reports its integrity.
//
// It never returns an error: for every block it checks the index, the
// previous-hash link (the genesis sentinel at position 0), and the
// recomputed content hash, short-circuiting to false on the first
// violation. An empty chain is invalid; New makes that state
// unreachable, but a zero-value Ledger reports false rather than true.
func (l *Ledger) ValidateChain() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return ValidateBlocks(l.chain)
}

// ValidateBlocks applies the chain integrity rules to an ordered block
// sequence, e.g. one replayed from an archive. Same contract as
// ValidateChain.
func ValidateBlocks(blocks []Block) bool {
	if len(blocks) == 0 {
		return false
	}

	for i, block := range blocks {
		if block.Index != uint64(i) {
			return false
		}
		if i == 0 {
			if block.PrevHash != GenesisPrevHash {
				return false
			}
		} else if block.PrevHash != blocks[i-1].Hash {
			return false
		}

		expected, err := HashBlock(block)
		if err != nil || block.Hash != expected {
			return false
		}
	}
	return true
}

// Export is the serializable representation of a ledger.
type Export struct {
	Chain               []Block          `json:"chain"`
	PendingTransactions []map[string]any `json:"pending_transactions"`
}

// Export returns a deep copy of the chain and pending queue. Mutating
// the result cannot corrupt the ledger.
func (l *Ledger) Export() Export {
	l.mu.RLock()
	defer l.mu.RUnlock()

	chain := make([]Block, len(l.chain))
	for i, b := range l.chain {
		chain[i] = b.Clone()
	}
	pending := cloneTransactions(l.pending)
	if pending == nil {
		pending = []map[string]any{}
	}
	return Export{
		Chain:               chain,
		PendingTransactions: pending,
	}
}

// Len returns the number of blocks in the chain.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.chain)
}

// PendingCount returns the number of queued transactions.
func (l *Ledger) PendingCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.pending)
}

// Last returns a deep copy of the most recent block.
func (l *Ledger) Last() Block {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.chain[len(l.chain)-1].Clone()
}

// BlockAt returns a deep copy of the block at index i.
func (l *Ledger) BlockAt(i uint64) (Block, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i >= uint64(len(l.chain)) {
		return Block{}, fmt.Errorf("block index %d out of range (chain length %d)", i, len(l.chain))
	}
	return l.chain[i].Clone(), nil
}
