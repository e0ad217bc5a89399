package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/interomap/interomap/pkg/drawing"
	"github.com/interomap/interomap/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string // output file path; derived from input when empty
	background string // panel background color
	labels     bool   // print surface keys under each panel
}

// renderCommand creates the render command converting a serialized drawing
// (the engine's host output) into an SVG.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		labels: true,
	}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a serialized drawing to SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output SVG file (default: input with .svg extension)")
	cmd.Flags().StringVar(&opts.background, "background", "", "panel background color, e.g. #ffffff")
	cmd.Flags().BoolVar(&opts.labels, "labels", opts.labels, "label each surface panel")

	return cmd
}

// runRender loads the drawing from input and writes the SVG.
func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	d, err := drawing.DecodeDrawing(string(data))
	if err != nil {
		return err
	}
	logger.Infof("Loaded drawing: %d surfaces, %d strokes", len(d), d.StrokeCount())

	var renderOpts []render.SVGOption
	if opts.background != "" {
		renderOpts = append(renderOpts, render.WithBackground(opts.background))
	}
	if opts.labels {
		renderOpts = append(renderOpts, render.WithLabels())
	}

	output := opts.output
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".svg"
	}
	if err := os.WriteFile(output, render.RenderSVG(d, renderOpts...), 0o644); err != nil {
		return err
	}

	logger.Infof("Generated %s", output)
	return nil
}
