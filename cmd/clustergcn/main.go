package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/sanonone/clustergcn/pkg/clustergcn"
	"github.com/sanonone/clustergcn/pkg/graph"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	dataPath   string
	configPath string
	epochs     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "clustergcn",
		Short:        "Partition graphs and inspect ClusterGCN mini-batches",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "Walk the batches of a dataset and report their shapes",
		Args:  cobra.NoArgs,
		RunE:  runInspect,
	}
	inspectCmd.Flags().StringVarP(&dataPath, "data", "d", "", "path to the YAML dataset")
	inspectCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the YAML generator config")
	inspectCmd.Flags().IntVarP(&epochs, "epochs", "e", 1, "number of epochs to walk")
	_ = inspectCmd.MarkFlagRequired("data")

	rootCmd.AddCommand(inspectCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := clustergcn.LoadConfig(configPath)
	if err != nil {
		return err
	}

	doc, err := graph.LoadDocument(dataPath)
	if err != nil {
		return err
	}
	g, err := doc.Build()
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}

	gen, err := clustergcn.NewGenerator(g, cfg)
	if err != nil {
		return err
	}

	ids, values := doc.Targets()
	if len(ids) == 0 {
		// Without declared targets every node is a prediction target.
		ids, values = g.Nodes(), nil
	}
	seq, err := gen.Flow(ids, values)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for epoch := 0; epoch < epochs; epoch++ {
		for i := 0; i < seq.Len(); i++ {
			batch, err := seq.Get(i)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "epoch=%d batch=%d nodes=%d targets=%d features=%v adjacency=%v\n",
				epoch, i, batch.NumNodes(), batch.NumTargets(), batch.Features.Shape, batch.Adjacency.Shape)
		}
		fmt.Fprintf(out, "epoch=%d node_order=%d\n", epoch, len(seq.NodeOrder()))
		seq.OnEpochEnd()
	}
	return nil
}
