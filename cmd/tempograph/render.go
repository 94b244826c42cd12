package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tempograph/tempograph/pkg/graph"
	"github.com/tempograph/tempograph/pkg/vis"
)

// settleBudget bounds the synchronous layout run for one-shot rendering.
const settleBudget = 600

func newRenderCommand() *cobra.Command {
	var (
		dataPath   string
		configPath string
		outPath    string
		atTime     float64
		hasTime    bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the payload to a static SVG or PNG image",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := vis.Options{}
			if configPath != "" {
				var err error
				opts, err = vis.LoadOptions(configPath)
				if err != nil {
					return err
				}
			}

			payload, err := graph.LoadPayload(dataPath)
			if err != nil {
				return fmt.Errorf("load data: %w", err)
			}

			viewer, err := vis.New(opts)
			if err != nil {
				return err
			}
			if err := viewer.Mount(payload); err != nil {
				return err
			}
			hasTime = cmd.Flags().Changed("time")
			if hasTime {
				if s := viewer.Slider(); s != nil {
					s.SetTime(atTime)
				}
			}
			viewer.SettleNow(settleBudget)

			out, err := os.Create(outPath)
			if err != nil {
				return err
			}
			defer out.Close()

			switch strings.ToLower(filepath.Ext(outPath)) {
			case ".svg":
				err = viewer.Widgets().SaveSVG(out)
			case ".png":
				err = viewer.Widgets().SavePNG(out)
			default:
				err = fmt.Errorf("unsupported output format %q (want .svg or .png)", filepath.Ext(outPath))
			}
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dataPath, "data", "d", "network.json", "payload JSON file")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringVarP(&outPath, "out", "o", "network.svg", "output image (.svg or .png)")
	cmd.Flags().Float64Var(&atTime, "time", 0, "render the temporal window at this time")
	return cmd
}
