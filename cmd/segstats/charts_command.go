package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"segstats/internal/charts"
)

func newChartsCommand(ctx *commandContext) *cobra.Command {
	var input string
	var outDir string
	var methods []string
	var contrasts []string
	var reference string
	var format string

	cmd := &cobra.Command{
		Use:   "charts",
		Short: "Render CSA comparison charts from a per-subject CSV",
		Long: `Render box charts comparing cross-sectional area measurements across
segmentation methods and MRI contrasts. The input CSV carries one row per
subject with a <method>_<contrast> column per measurement.

Charts land in a timestamped charts_<date>_<time> folder so repeated
invocations never overwrite earlier output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			csvPath := strings.TrimSpace(input)
			if csvPath == "" {
				return fmt.Errorf("--input is required")
			}

			opts := charts.Options{
				Methods:   methods,
				Contrasts: contrasts,
				Reference: strings.TrimSpace(reference),
				Format:    strings.TrimSpace(format),
			}
			if len(opts.Methods) == 0 {
				opts.Methods = cfg.Charts.Methods
			}
			if len(opts.Contrasts) == 0 {
				opts.Contrasts = cfg.Charts.Contrasts
			}
			if opts.Reference == "" {
				opts.Reference = cfg.Charts.ReferenceContrast
			}
			if opts.Format == "" {
				opts.Format = cfg.Charts.Format
			}

			ds, err := charts.ReadCSVFile(csvPath)
			if err != nil {
				return err
			}

			parent := strings.TrimSpace(outDir)
			if parent == "" {
				parent = filepath.Dir(csvPath)
			}
			folder, err := charts.ExperimentFolder(parent)
			if err != nil {
				return err
			}

			written, err := charts.RenderAll(ds, opts, folder)
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			fmt.Fprintf(stdout, "Wrote %d chart(s) to %s\n", len(written), folder)
			for _, path := range written {
				fmt.Fprintf(stdout, "  %s\n", filepath.Base(path))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "CSV file with per-subject CSA measurements")
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "Parent directory for the chart folder (default: alongside the CSV)")
	cmd.Flags().StringSliceVar(&methods, "methods", nil, "Segmentation methods to compare (default: configured charts.methods)")
	cmd.Flags().StringSliceVar(&contrasts, "contrasts", nil, "MRI contrasts including the reference (default: configured charts.contrasts)")
	cmd.Flags().StringVar(&reference, "reference", "", "Reference contrast for pairwise differences (default: configured charts.reference_contrast)")
	cmd.Flags().StringVar(&format, "format", "", "Image format: png, svg, or pdf (default: configured charts.format)")
	return cmd
}
