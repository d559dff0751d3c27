package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ringlabs/saturn/internal/tic"
	"github.com/ringlabs/saturn/internal/vec"
)

// CondenseOptions holds flags for the condense command.
type CondenseOptions struct {
	VectorsPath string
}

// NewCondenseCommand creates the condense command: select the
// attractor of a YAML vector list.
func NewCondenseCommand(root *RootOptions) *cobra.Command {
	opts := &CondenseOptions{}

	cmd := &cobra.Command{
		Use:   "condense",
		Short: "Select the attractor of a vector collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCondense(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.VectorsPath, "vectors", "", "vector list file (YAML)")
	cmd.MarkFlagRequired("vectors")

	return cmd
}

func runCondense(cmd *cobra.Command, root *RootOptions, opts *CondenseOptions) error {
	data, err := os.ReadFile(opts.VectorsPath)
	if err != nil {
		return fmt.Errorf("read vectors: %w", err)
	}

	var raw [][]float64
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse vectors: %w", err)
	}

	vectors := make([]vec.Vector, len(raw))
	for i, v := range raw {
		vectors[i] = vec.Vector(v)
	}

	attractor, err := tic.New().Condense(vectors)
	if err != nil {
		return err
	}

	result := map[string]any{"attractor": []float64(attractor)}
	text := fmt.Sprintf("attractor: %v", attractor)
	return printResult(cmd.OutOrStdout(), root.Format, result, text)
}
