package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kintreehq/kintree/pkg/layout"
	"github.com/kintreehq/kintree/pkg/render"
	"github.com/kintreehq/kintree/pkg/store"
	"github.com/kintreehq/kintree/pkg/tree"
)

const defaultPNGScale = 2.0

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path (or base path for multiple formats)
	formats  []string // output formats: "svg", "json", "dot", "png"
	grid     bool     // draw generation guide lines in SVG output
	images   bool     // include person photos in SVG output
	detailed bool     // include birth/death years in DOT labels
}

// renderCommand creates the render command for exporting tree diagrams.
//
// The tree is read from a population JSON file when one is given, otherwise
// from the configured store. Supported formats are svg (the generational
// diagram), json (the computed layout), dot (Graphviz node-link export), and
// png (rasterized via Graphviz).
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{images: true}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render the family tree to SVG, JSON, DOT, or PNG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runRender(cmd.Context(), input, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.grid, "grid", false, "draw generation guide lines (svg)")
	cmd.Flags().BoolVar(&opts.images, "images", opts.images, "include person photos (svg)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include birth/death years in labels (dot, png)")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{"svg"}
	}
	return strings.Split(s, ",")
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{"svg": true, "json": true, "dot": true, "png": true}

func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return fmt.Errorf("invalid format: %s (must be 'svg', 'json', 'dot', or 'png')", f)
		}
	}
	return nil
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input; with no input the
// base is "tree".
func basePath(output, input string) string {
	if output == "" {
		if input == "" {
			return "tree"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	pop, err := c.loadPopulation(ctx, input)
	if err != nil {
		return err
	}
	logger.Debug("population loaded", "people", pop.Len())

	for _, d := range pop.Diagnostics() {
		logger.Warn("data issue", "person", d.PersonID, "issue", d.Message)
	}

	if len(opts.formats) == 1 && opts.output != "" {
		return c.renderAndWrite(pop, opts.formats[0], opts.output, opts)
	}
	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		if err := c.renderAndWrite(pop, format, base+"."+format, opts); err != nil {
			return err
		}
	}
	return nil
}

// loadPopulation reads the tree from a JSON file, or from the configured
// store when no file is given.
func (c *CLI) loadPopulation(ctx context.Context, input string) (*tree.Population, error) {
	if input != "" {
		return tree.ReadPopulationFile(input)
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	spin := newSpinner(ctx, "Loading people")
	spin.Start()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		spin.StopWithError("Store unavailable")
		return nil, err
	}
	defer closeStore()

	pop, err := store.Population(ctx, st)
	if err != nil {
		spin.StopWithError("Load failed")
		return nil, err
	}
	spin.StopWithSuccess(fmt.Sprintf("Loaded %d people", pop.Len()))
	return pop, nil
}

func (c *CLI) renderAndWrite(pop *tree.Population, format, path string, opts *renderOpts) error {
	p := newProgress(c.Logger)

	data, err := c.renderFormat(pop, format, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	p.done(fmt.Sprintf("Generated %s", path))
	printFile(path)
	return nil
}

func (c *CLI) renderFormat(pop *tree.Population, format string, opts *renderOpts) ([]byte, error) {
	switch format {
	case "dot":
		return []byte(render.ToDOT(pop, render.DOTOptions{Detailed: opts.detailed})), nil
	case "png":
		dot := render.ToDOT(pop, render.DOTOptions{Detailed: opts.detailed})
		return render.RenderDOTPNG(dot, defaultPNGScale)
	}

	l, err := layout.Compute(pop, layout.Options{})
	if err != nil {
		return nil, err
	}
	switch format {
	case "svg":
		var svgOpts []render.SVGOption
		if opts.grid {
			svgOpts = append(svgOpts, render.WithGrid())
		}
		if opts.images {
			svgOpts = append(svgOpts, render.WithImages())
		}
		return render.RenderSVG(l, svgOpts...), nil
	case "json":
		return json.MarshalIndent(l, "", "  ")
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}
