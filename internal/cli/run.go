package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ringlabs/saturn/internal/hdag"
	"github.com/ringlabs/saturn/internal/ledger"
	"github.com/ringlabs/saturn/internal/pipeline"
	"github.com/ringlabs/saturn/internal/schema"
	"github.com/ringlabs/saturn/internal/store"
	"github.com/ringlabs/saturn/internal/tic"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	ConfigPath string
	TxsPath    string
	BatchSize  int
	Window     int
}

// NewRunCommand creates the run command: feed a YAML transaction list
// through the full pipeline and report the condensed attractor.
func NewRunCommand(root *RootOptions) *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run transactions through the ledger-to-attractor pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "pipeline config file (YAML)")
	cmd.Flags().StringVar(&opts.TxsPath, "txs", "", "transaction list file (YAML)")
	cmd.Flags().IntVar(&opts.BatchSize, "batch", 2, "transactions per block")
	cmd.Flags().IntVar(&opts.Window, "window", 0, "condensation window (0 = whole chain)")
	cmd.MarkFlagRequired("txs")

	return cmd
}

func runRun(cmd *cobra.Command, root *RootOptions, opts *RunOptions) error {
	if opts.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", opts.BatchSize)
	}

	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	txs, err := loadTransactions(opts.TxsPath)
	if err != nil {
		return err
	}
	if len(txs) == 0 {
		return fmt.Errorf("no transactions in %s", opts.TxsPath)
	}

	p, cleanup, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	sealed := 0
	queued := 0
	for _, tx := range txs {
		if err := p.Submit(tx); err != nil {
			return err
		}
		queued++
		if queued == opts.BatchSize {
			if _, err := p.Seal(cmd.Context()); err != nil {
				return err
			}
			sealed++
			queued = 0
		}
	}
	if queued > 0 {
		if _, err := p.Seal(cmd.Context()); err != nil {
			return err
		}
		sealed++
	}

	window := opts.Window
	if window <= 0 {
		window = sealed
	}
	attractor, err := p.CondenseWindow(window)
	if err != nil {
		return err
	}

	result := map[string]any{
		"run_id":    p.RunID(),
		"blocks":    sealed,
		"valid":     p.Validate(),
		"attractor": []float64(attractor),
	}
	text := fmt.Sprintf("sealed %d blocks (chain valid: %v)\nattractor: %v", sealed, p.Validate(), attractor)
	return printResult(cmd.OutOrStdout(), root.Format, result, text)
}

// buildPipeline assembles a pipeline from config, returning a cleanup
// function for any resources opened along the way.
func buildPipeline(cfg Config) (*pipeline.Pipeline, func(), error) {
	l, err := ledger.New()
	if err != nil {
		return nil, nil, err
	}

	var graphOpts []hdag.Option
	if cfg.SnapshotPath != "" {
		graphOpts = append(graphOpts, hdag.WithSnapshotPath(cfg.SnapshotPath))
	}

	pcfg := pipeline.Config{
		Ledger:       l,
		Graph:        hdag.New(graphOpts...),
		Condenser:    tic.New(),
		Coefficients: cfg.Coefficients(),
	}

	cleanup := func() {}
	if cfg.ArchivePath != "" {
		archive, err := store.Open(cfg.ArchivePath)
		if err != nil {
			return nil, nil, err
		}
		pcfg.Archive = archive
		cleanup = func() { archive.Close() }
	}
	if cfg.SchemaPath != "" {
		validator, err := schema.CompileFile(cfg.SchemaPath)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		pcfg.Validator = validator
	}

	p, err := pipeline.New(pcfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return p, cleanup, nil
}

// loadTransactions reads a YAML list of transaction payloads.
func loadTransactions(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transactions: %w", err)
	}

	var txs []map[string]any
	if err := yaml.Unmarshal(data, &txs); err != nil {
		return nil, fmt.Errorf("parse transactions: %w", err)
	}
	return txs, nil
}
