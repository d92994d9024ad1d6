package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"segstats/internal/results"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded evaluation runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withResults(func(store *results.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs")
					return nil
				}

				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					status := "running"
					if run.Completed() {
						status = "completed"
					}
					rows = append(rows, []string{
						run.ID,
						run.Dataset,
						run.StartedAt.Local().Format("2006-01-02 15:04:05"),
						status,
						strconv.Itoa(run.Subjects),
						strconv.Itoa(run.Skipped),
					})
				}
				table := renderTable(
					[]string{"ID", "Dataset", "Started", "Status", "Subjects", "Skipped"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	runsCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	runsCmd.AddCommand(newRunsShowCommand(ctx))

	return runsCmd
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the per-subject measurements of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withResults(func(store *results.Store) error {
				measurements, err := store.Measurements(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if len(measurements) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No measurements recorded for run %s\n", args[0])
					return nil
				}

				rows := make([][]string, 0, len(measurements))
				for _, m := range measurements {
					rows = append(rows, []string{
						m.Subject,
						m.Metric,
						strconv.FormatFloat(m.Value, 'f', 4, 64),
					})
				}
				table := renderTable(
					[]string{"Subject", "Metric", "Value"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}
