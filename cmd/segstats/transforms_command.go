package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"segstats/internal/transforms"
)

func newTransformsCommand(ctx *commandContext) *cobra.Command {
	transformsCmd := &cobra.Command{
		Use:         "transforms",
		Short:       "Inspect the model training pipelines",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}

	transformsCmd.AddCommand(newTransformsExportCommand())

	return transformsCmd
}

func newTransformsExportCommand() *cobra.Command {
	var split string
	var format string
	var output string
	var patchSize []int
	var samples int
	var labelKey string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a preprocessing pipeline as JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			var steps []transforms.Step
			splitName := strings.ToLower(strings.TrimSpace(split))
			switch splitName {
			case "train":
				if len(patchSize) != 3 {
					return fmt.Errorf("--patch-size requires three dimensions, e.g. --patch-size 64,128,64")
				}
				var err error
				steps, err = transforms.Train(transforms.TrainOptions{
					PatchSize:        [3]int{patchSize[0], patchSize[1], patchSize[2]},
					SamplesPerVolume: samples,
					LabelKey:         labelKey,
				})
				if err != nil {
					return err
				}
			case "val", "validation":
				splitName = "validation"
				steps = transforms.Validation(labelKey)
			default:
				return fmt.Errorf("unknown split %q (expected train or val)", split)
			}

			var w io.Writer = cmd.OutOrStdout()
			if target := strings.TrimSpace(output); target != "" {
				file, err := os.Create(target)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer file.Close()
				w = file
			}

			pipeline := transforms.Pipeline{Split: splitName, Steps: steps}
			switch strings.ToLower(strings.TrimSpace(format)) {
			case "", "json":
				return transforms.EncodeJSON(w, pipeline)
			case "yaml", "yml":
				return transforms.EncodeYAML(w, pipeline)
			default:
				return fmt.Errorf("unknown format %q (expected json or yaml)", format)
			}
		},
	}

	cmd.Flags().StringVar(&split, "split", "train", "Pipeline split to export: train or val")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().IntSliceVar(&patchSize, "patch-size", nil, "Training patch size in voxels, e.g. 64,128,64")
	cmd.Flags().IntVar(&samples, "samples", 0, "Patches sampled per volume (default 4)")
	cmd.Flags().StringVar(&labelKey, "label-key", "", "Data key holding the label volume (default \"label\")")
	return cmd
}
