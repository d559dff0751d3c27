package ledger

import (
	"github.com/ringlabs/saturn/internal/canonical"
	"github.com/ringlabs/saturn/internal/vec"
)

// GenesisPrevHash is the sentinel previous-hash of the genesis block.
const GenesisPrevHash = "0"

// Block is one entry in the hash chain.
//
// Blocks are immutable once appended: Hash covers every other field, so
// any post-hoc mutation is caught by ValidateChain. Callers receive
// deep copies and can never alias chain state.
type Block struct {
	// Index is the zero-based position in the chain.
	Index uint64 `json:"index"`

	// Timestamp is wall-clock seconds since the Unix epoch.
	Timestamp float64 `json:"timestamp"`

	// Transactions is the ordered snapshot of the pending queue at
	// creation time. Payloads are opaque; the ledger only requires that
	// they canonically encode.
	Transactions []map[string]any `json:"transactions"`

	// PrevHash links to the previous block's Hash, or GenesisPrevHash
	// for index 0.
	PrevHash string `json:"prev_hash"`

	// Hash is the lowercase-hex SHA-256 of the canonical encoding of
	// all other fields.
	Hash string `json:"hash"`

	// Projection is the optional vector embedding of this block. When
	// present it participates in the hash.
	Projection vec.Vector `json:"projection,omitempty"`
}

// hashContent builds the canonical map hashed into Block.Hash: every
// field except Hash itself, keys in their wire names.
func (b Block) hashContent() map[string]any {
	content := map[string]any{
		"index":        b.Index,
		"timestamp":    b.Timestamp,
		"transactions": cloneTransactions(b.Transactions),
		"prev_hash":    b.PrevHash,
	}
	if b.Projection != nil {
		content["projection"] = []float64(b.Projection)
	}
	return content
}

// HashBlock computes the content hash of a block over the canonical
// encoding of all fields except Hash. The stored Hash is ignored, so
// this can both seal new blocks and re-verify appended ones.
func HashBlock(b Block) (string, error) {
	return canonical.HashValue(b.hashContent())
}

// Clone returns a deep copy of the block.
func (b Block) Clone() Block {
	out := b
	out.Transactions = cloneTransactions(b.Transactions)
	out.Projection = vec.Clone(b.Projection)
	return out
}

// cloneTransactions deep-copies transaction payloads. Payloads are
// JSON-shaped (maps, slices, scalars), so a structural walk suffices.
func cloneTransactions(txs []map[string]any) []map[string]any {
	if txs == nil {
		return nil
	}
	out := make([]map[string]any, len(txs))
	for i, tx := range txs {
		out[i] = cloneMap(tx)
	}
	return out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = cloneValue(elem)
		}
		return out
	case []float64:
		return vec.Clone(val)
	default:
		return val
	}
}
