package main

import (
	"fmt"
	"os"
	"strings"

	"Doodler/internal/export"

	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render <recording> <output>",
	Short: "Render a saved recording to PNG or PDF",
	Long: `Draws a saved recording in one pass and writes it to the output file.
The format follows the output extension: .png or .pdf.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		width, _ := cmd.Flags().GetInt("width")
		height, _ := cmd.Flags().GetInt("height")
		if width <= 0 {
			width = cfg.Canvas.Width
		}
		if height <= 0 {
			height = cfg.Canvas.Height
		}

		if err := renderFile(args[0], args[1], width, height); err != nil {
			return err
		}
		log.Info("rendered", "in", args[0], "out", args[1], "width", width, "height", height)
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[1])
		return nil
	},
}

func renderFile(in, out string, width, height int) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	if err := export.WriteFile(strings.TrimSpace(string(data)), out, width, height); err != nil {
		return fmt.Errorf("render %s: %w", in, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().Int("width", 0, "Output width in pixels (default from config)")
	renderCmd.Flags().Int("height", 0, "Output height in pixels (default from config)")
}
