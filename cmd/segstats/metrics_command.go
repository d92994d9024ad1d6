package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"segstats/internal/evaluation"
	"segstats/internal/logging"
	"segstats/internal/results"
)

func newMetricsCommand(ctx *commandContext) *cobra.Command {
	var predFolder string
	var dataset string
	var keepBinarized bool

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Score predicted lesion masks against ground truth",
		Long: `Score every predicted mask in a folder against its ground-truth
counterpart using the Anima segmentation performance analyzer, then
aggregate the per-subject metrics into mean and standard deviation.

The folder must contain *_pred.nii.gz and *_gt.nii.gz pairs, one per
subject directory. Reports and the aggregate log land in an anima_stats
subdirectory of the prediction folder.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			folder := strings.TrimSpace(predFolder)
			if folder == "" {
				return fmt.Errorf("--pred-folder is required")
			}

			name := strings.TrimSpace(dataset)
			if name == "" {
				name = cfg.Metrics.Dataset
			}
			if name == "" {
				return fmt.Errorf("dataset required (pass --dataset or set metrics.dataset in the config)")
			}

			if keepBinarized {
				cfg.Metrics.KeepBinarized = true
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			opts := []evaluation.Option{evaluation.WithConsole(cmd.OutOrStdout())}
			if cfg.Results.Enabled {
				store, err := results.Open(cfg.Results.Path)
				if err != nil {
					return fmt.Errorf("open results store: %w", err)
				}
				defer store.Close()
				opts = append(opts, evaluation.WithStore(store))
			}

			runner, err := evaluation.New(cfg, logger, opts...)
			if err != nil {
				return err
			}

			outcome, err := runner.Run(cmd.Context(), folder, name)
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			if shouldColorize(stdout) && len(outcome.Summaries) > 0 {
				rows := make([][]string, 0, len(outcome.Summaries))
				for _, s := range outcome.Summaries {
					rows = append(rows, []string{
						s.Metric,
						strconv.Itoa(s.Count),
						strconv.FormatFloat(s.Mean, 'f', 4, 64),
						strconv.FormatFloat(s.StdDev, 'f', 4, 64),
					})
				}
				fmt.Fprintln(stdout)
				fmt.Fprintln(stdout, renderTable(
					[]string{"Metric", "Subjects", "Mean", "Std"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
				))
			}

			fmt.Fprintln(stdout)
			fmt.Fprintf(stdout, "Scored %d subject(s), skipped %d\n", outcome.Scored, len(outcome.Skipped))
			if len(outcome.Skipped) > 0 {
				fmt.Fprintf(stdout, "Skipped (empty ground truth): %s\n", strings.Join(outcome.Skipped, ", "))
			}
			if outcome.PredVoxels > 0 || outcome.RefVoxels > 0 {
				printer := message.NewPrinter(language.English)
				printer.Fprintf(stdout, "Binarized foreground voxels: prediction=%d reference=%d\n", outcome.PredVoxels, outcome.RefVoxels)
			}
			fmt.Fprintf(stdout, "Run log: %s\n", outcome.LogPath)
			if cfg.Results.Enabled {
				fmt.Fprintf(stdout, "Recorded run %s\n", outcome.RunID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&predFolder, "pred-folder", "", "Folder containing *_pred.nii.gz and *_gt.nii.gz mask pairs")
	cmd.Flags().StringVar(&dataset, "dataset", "", "Dataset name (default: configured metrics.dataset)")
	cmd.Flags().BoolVar(&keepBinarized, "keep-binarized", false, "Keep the binarized mask files next to the inputs")
	return cmd
}
