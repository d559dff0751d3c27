package ledger

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ringlabs/saturn/internal/testutil"
	"github.com/ringlabs/saturn/internal/vec"
)

// tamper appends a raw payload to an appended block's transaction list,
// bypassing immutability, so integrity tests can break a sealed block
// in place.
func (l *Ledger) tamper(i uint64, tx map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.chain[i].Transactions = append(l.chain[i].Transactions, tx)
}

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := New(WithClock(testutil.NewFixedClock(1719847200, 1)))
	require.NoError(t, err)
	return l
}

func TestNewSeedsGenesis(t *testing.T) {
	l := newTestLedger(t)

	require.Equal(t, 1, l.Len())
	genesis := l.Last()
	assert.Equal(t, uint64(0), genesis.Index)
	assert.Equal(t, GenesisPrevHash, genesis.PrevHash)
	assert.Empty(t, genesis.Transactions)

	expected, err := HashBlock(genesis)
	require.NoError(t, err)
	assert.Equal(t, expected, genesis.Hash)
	assert.True(t, l.ValidateChain())
}

func TestAddTransactionDeepCopies(t *testing.T) {
	l := newTestLedger(t)

	tx := map[string]any{"from": "Alice", "to": "Bob", "amount": 10.0}
	require.NoError(t, l.AddTransaction(tx))
	assert.Equal(t, 1, l.PendingCount())

	// Mutating the caller's map must not reach the queue.
	tx["amount"] = 999.0

	block, err := l.CreateBlock()
	require.NoError(t, err)
	assert.Equal(t, 10.0, block.Transactions[0]["amount"])
}

func TestAddTransactionRejectsNonSerializable(t *testing.T) {
	l := newTestLedger(t)

	err := l.AddTransaction(map[string]any{"payload": make(chan int)})
	require.Error(t, err)
	assert.Equal(t, 0, l.PendingCount())

	err = l.AddTransaction(map[string]any{"value": math.NaN()})
	require.Error(t, err)
}

func TestCreateBlockEmptyQueue(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.CreateBlock()
	assert.ErrorIs(t, err, ErrEmptyBatch)
	assert.Equal(t, 1, l.Len())
}

func TestCreateBlockLinksAndClearsQueue(t *testing.T) {
	l := newTestLedger(t)
	genesis := l.Last()

	require.NoError(t, l.AddTransaction(map[string]any{"from": "Alice", "to": "Bob", "amount": 10.0}))
	require.NoError(t, l.AddTransaction(map[string]any{"from": "Eve", "to": "Carl", "amount": 5.0}))

	block, err := l.CreateBlock()
	require.NoError(t, err)

	assert.Equal(t, uint64(1), block.Index)
	assert.Equal(t, genesis.Hash, block.PrevHash)
	assert.Len(t, block.Transactions, 2)
	assert.Equal(t, "Alice", block.Transactions[0]["from"])
	assert.Equal(t, 0, l.PendingCount())
	assert.True(t, l.ValidateChain())
}

func TestCreateBlockProjectedHashCoversProjection(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.AddTransaction(map[string]any{"sensor": "a", "value": 1.0}))

	block, err := l.CreateBlockProjected(vec.Vector{1, 0, 0.5, 0, 0})
	require.NoError(t, err)
	require.NotNil(t, block.Projection)
	assert.True(t, l.ValidateChain())

	// Same content without the projection hashes differently.
	bare := block
	bare.Projection = nil
	bareHash, err := HashBlock(bare)
	require.NoError(t, err)
	assert.NotEqual(t, block.Hash, bareHash)
}

func TestValidateChainAfterEachBlock(t *testing.T) {
	l := newTestLedger(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, l.AddTransaction(map[string]any{"seq": int64(i)}))
		_, err := l.CreateBlock()
		require.NoError(t, err)
		assert.True(t, l.ValidateChain(), "chain invalid after block %d", i+1)
	}
}

func TestValidateChainDetectsTamper(t *testing.T) {
	l := newTestLedger(t)

	require.NoError(t, l.AddTransaction(map[string]any{"from": "Alice", "to": "Bob", "amount": 10.0}))
	require.NoError(t, l.AddTransaction(map[string]any{"from": "Eve", "to": "Carl", "amount": 5.0}))
	block, err := l.CreateBlock()
	require.NoError(t, err)
	require.True(t, l.ValidateChain())

	l.tamper(block.Index, map[string]any{"note": "tampered"})
	assert.False(t, l.ValidateChain())
}

func TestValidateChainDetectsBrokenLink(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.AddTransaction(map[string]any{"n": int64(1)}))
	_, err := l.CreateBlock()
	require.NoError(t, err)

	l.mu.Lock()
	l.chain[1].PrevHash = "deadbeef"
	l.mu.Unlock()
	assert.False(t, l.ValidateChain())
}

func TestValidateChainEmptyIsInvalid(t *testing.T) {
	var l Ledger
	assert.False(t, l.ValidateChain())
}

func TestHashBlockDeterministic(t *testing.T) {
	b := Block{
		Index:        2,
		Timestamp:    1719847200.5,
		Transactions: []map[string]any{{"from": "Alice", "amount": 10.0}},
		PrevHash:     "abc",
	}

	h1, err := HashBlock(b)
	require.NoError(t, err)
	h2, err := HashBlock(b)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	// The stored hash does not feed back into the computation.
	b.Hash = h1
	h3, err := HashBlock(b)
	require.NoError(t, err)
	assert.Equal(t, h1, h3)
}

func TestExportDoesNotAliasState(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.AddTransaction(map[string]any{"from": "Alice", "amount": 10.0}))
	_, err := l.CreateBlock()
	require.NoError(t, err)
	require.NoError(t, l.AddTransaction(map[string]any{"from": "Eve", "amount": 5.0}))

	export := l.Export()
	require.Len(t, export.Chain, 2)
	require.Len(t, export.PendingTransactions, 1)

	// Corrupt every corner of the export; the ledger must not notice.
	export.Chain[1].Transactions[0]["amount"] = -1.0
	export.Chain[1].Hash = "forged"
	export.PendingTransactions[0]["from"] = "Mallory"

	assert.True(t, l.ValidateChain())
	assert.Equal(t, 10.0, l.Last().Transactions[0]["amount"])
}

func TestExportGolden(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.AddTransaction(map[string]any{"from": "Alice", "to": "Bob", "amount": 10.0}))
	require.NoError(t, l.AddTransaction(map[string]any{"from": "Eve", "to": "Carl", "amount": 5.0}))
	_, err := l.CreateBlockProjected(vec.Vector{1, 0, 0.5, 0, 0})
	require.NoError(t, err)

	data, err := json.MarshalIndent(l.Export(), "", "  ")
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "ledger_export", data)
}
