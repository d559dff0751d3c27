// Package pipeline chains the core components: transactions enter the
// ledger's pending queue, Seal snapshots them into a hash-linked block,
// the block index is embedded into vector space via the spiral, the
// embedding becomes a resonance-graph node, and CondenseWindow reduces
// a window of recent embeddings to a single attractor.
//
// A Pipeline is an explicit context object constructed once and passed
// around; there are no package-level singletons. All mutating calls on
// a Pipeline are serialized by the owning components' locks.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ringlabs/saturn/internal/hdag"
	"github.com/ringlabs/saturn/internal/ledger"
	"github.com/ringlabs/saturn/internal/spiral"
	"github.com/ringlabs/saturn/internal/store"
	"github.com/ringlabs/saturn/internal/tic"
	"github.com/ringlabs/saturn/internal/vec"
)

// Validator constrains transaction payloads before they enter the
// pending queue. Optional; the ledger itself never validates shape.
type Validator interface {
	Validate(tx map[string]any) error
}

// Config assembles a Pipeline.
type Config struct {
	// Ledger is required.
	Ledger *ledger.Ledger
	// Graph is required.
	Graph *hdag.Graph
	// Condenser is required.
	Condenser *tic.Condenser
	// Archive, when set, receives every sealed block.
	Archive *store.Store
	// Validator, when set, gates Submit.
	Validator Validator
	// Spiral coefficients; zero value falls back to the defaults.
	Coefficients spiral.Coefficients
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Pipeline wires a ledger, a resonance graph, and a condenser into the
// block-to-attractor data flow.
type Pipeline struct {
	runID  string
	ledger *ledger.Ledger
	graph  *hdag.Graph
	cond   *tic.Condenser

	archive   *store.Store
	validator Validator
	coeffs    spiral.Coefficients
	log       *slog.Logger
}

// New builds a pipeline from cfg. The genesis block is projected and
// registered as the graph's first node so later blocks have a neighbor
// to link to.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Ledger == nil || cfg.Graph == nil || cfg.Condenser == nil {
		return nil, fmt.Errorf("pipeline requires a ledger, a graph, and a condenser")
	}

	coeffs := cfg.Coefficients
	if coeffs == (spiral.Coefficients{}) {
		coeffs = spiral.DefaultCoefficients
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	p := &Pipeline{
		runID:     uuid.NewString(),
		ledger:    cfg.Ledger,
		graph:     cfg.Graph,
		cond:      cfg.Condenser,
		archive:   cfg.Archive,
		validator: cfg.Validator,
		coeffs:    coeffs,
		log:       logger,
	}

	// Register a projection node for every existing block so Seal always
	// has a previous node to link to, including after a replay.
	for i := 0; i < p.ledger.Len(); i++ {
		block, err := p.ledger.BlockAt(uint64(i))
		if err != nil {
			return nil, fmt.Errorf("register block node %d: %w", i, err)
		}
		projection := block.Projection
		if projection == nil {
			projection = spiral.Map(float64(block.Index), coeffs)
		}
		if err := p.graph.AddNode(nodeName(block.Index), projection); err != nil {
			return nil, fmt.Errorf("register block node %d: %w", i, err)
		}
	}

	p.log.Info("pipeline ready", "run_id", p.runID, "chain_length", p.ledger.Len())
	return p, nil
}

// RunID identifies this pipeline instance in logs and diagnostics.
func (p *Pipeline) RunID() string {
	return p.runID
}

// Submit validates (if a validator is configured) and enqueues a
// transaction.
func (p *Pipeline) Submit(tx map[string]any) error {
	if p.validator != nil {
		if err := p.validator.Validate(tx); err != nil {
			return fmt.Errorf("submit: %w", err)
		}
	}
	if err := p.ledger.AddTransaction(tx); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	p.log.Debug("transaction queued", "run_id", p.runID, "pending", p.ledger.PendingCount())
	return nil
}

// Seal creates a block from the pending queue, projects its index onto
// the spiral, archives it, registers the projection as a graph node,
// and links it to the previous block's node with the resonance between
// the two projections as the edge weight.
func (p *Pipeline) Seal(ctx context.Context) (ledger.Block, error) {
	next := uint64(p.ledger.Len())
	projection := spiral.Map(float64(next), p.coeffs)

	block, err := p.ledger.CreateBlockProjected(projection)
	if err != nil {
		return ledger.Block{}, fmt.Errorf("seal: %w", err)
	}

	if p.archive != nil {
		if err := p.archive.AppendBlock(ctx, block); err != nil {
			return ledger.Block{}, fmt.Errorf("seal block %d: %w", block.Index, err)
		}
	}

	name := nodeName(block.Index)
	if err := p.graph.AddNode(name, block.Projection); err != nil {
		return ledger.Block{}, fmt.Errorf("seal block %d: %w", block.Index, err)
	}

	prev := nodeName(block.Index - 1)
	weight, err := p.graph.ResonanceByName(prev, name)
	if err != nil {
		return ledger.Block{}, fmt.Errorf("seal block %d: link weight: %w", block.Index, err)
	}
	if err := p.graph.AddEdge(prev, name, weight); err != nil {
		return ledger.Block{}, fmt.Errorf("seal block %d: %w", block.Index, err)
	}

	p.log.Info("block sealed",
		"run_id", p.runID,
		"index", block.Index,
		"hash", block.Hash,
		"transactions", len(block.Transactions),
		"link_weight", weight,
	)
	return block, nil
}

// CondenseWindow condenses the projections of the most recent n blocks
// (excluding none; the genesis projection participates when the window
// reaches it) into a single attractor.
func (p *Pipeline) CondenseWindow(n int) (vec.Vector, error) {
	if n <= 0 {
		return nil, fmt.Errorf("condense window: size must be positive, got %d", n)
	}

	length := p.ledger.Len()
	start := 0
	if length > n {
		start = length - n
	}

	var window []vec.Vector
	for i := start; i < length; i++ {
		block, err := p.ledger.BlockAt(uint64(i))
		if err != nil {
			return nil, fmt.Errorf("condense window: %w", err)
		}
		if block.Projection != nil {
			window = append(window, block.Projection)
		}
	}

	attractor, err := p.cond.Condense(window)
	if err != nil {
		return nil, fmt.Errorf("condense window: %w", err)
	}
	p.log.Info("window condensed", "run_id", p.runID, "window", len(window))
	return attractor, nil
}

// Validate reports chain integrity, a pass-through to the ledger.
func (p *Pipeline) Validate() bool {
	return p.ledger.ValidateChain()
}

// nodeName is the graph name of a block's projection node.
func nodeName(index uint64) string {
	return fmt.Sprintf("block-%d", index)
}
