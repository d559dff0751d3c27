package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ringlabs/saturn/internal/hdag"
)

// GraphOptions holds flags shared by the graph subcommands.
type GraphOptions struct {
	SnapshotPath string
}

// NewGraphCommand creates the graph command group: queries over a
// persisted resonance-graph snapshot.
func NewGraphCommand(root *RootOptions) *cobra.Command {
	opts := &GraphOptions{}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Query a resonance graph snapshot",
	}

	cmd.PersistentFlags().StringVar(&opts.SnapshotPath, "snapshot", "", "graph snapshot file (JSON)")
	cmd.MarkPersistentFlagRequired("snapshot")

	cmd.AddCommand(newGraphNeighborsCommand(root, opts))
	cmd.AddCommand(newGraphResonanceCommand(root, opts))

	return cmd
}

func newGraphNeighborsCommand(root *RootOptions, opts *GraphOptions) *cobra.Command {
	var node string

	cmd := &cobra.Command{
		Use:   "neighbors",
		Short: "List a node's outgoing edges in insertion order",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(opts.SnapshotPath)
			if err != nil {
				return err
			}

			neighbors, err := g.Neighbors(node)
			if err != nil {
				return err
			}

			entries := make([]map[string]any, len(neighbors))
			text := fmt.Sprintf("%d neighbors of %s", len(neighbors), node)
			for i, n := range neighbors {
				entries[i] = map[string]any{"target": n.Target, "weight": n.Weight}
				text += fmt.Sprintf("\n  %s (weight %v)", n.Target, n.Weight)
			}
			return printResult(cmd.OutOrStdout(), root.Format, entries, text)
		},
	}

	cmd.Flags().StringVar(&node, "node", "", "source node name")
	cmd.MarkFlagRequired("node")
	return cmd
}

func newGraphResonanceCommand(root *RootOptions, opts *GraphOptions) *cobra.Command {
	var source, target string

	cmd := &cobra.Command{
		Use:   "resonance",
		Short: "Compute cosine similarity between two stored nodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(opts.SnapshotPath)
			if err != nil {
				return err
			}

			r, err := g.ResonanceByName(source, target)
			if err != nil {
				return err
			}

			result := map[string]any{"source": source, "target": target, "resonance": r}
			text := fmt.Sprintf("resonance(%s, %s) = %v", source, target, r)
			return printResult(cmd.OutOrStdout(), root.Format, result, text)
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "first node name")
	cmd.Flags().StringVar(&target, "target", "", "second node name")
	cmd.MarkFlagRequired("source")
	cmd.MarkFlagRequired("target")
	return cmd
}

func loadGraph(path string) (*hdag.Graph, error) {
	g := hdag.New()
	if err := g.Load(path); err != nil {
		return nil, err
	}
	return g, nil
}
