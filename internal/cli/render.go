package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cardpress/cardpress/pkg/engine"
	"github.com/cardpress/cardpress/pkg/engine/sink"
	"github.com/cardpress/cardpress/pkg/errors"
	"github.com/cardpress/cardpress/pkg/fetch"
	"github.com/cardpress/cardpress/pkg/template"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string  // output file path; derived from input when empty
	content  string  // content variables JSON file
	format   string  // output format: "png" or "svg"
	selected string  // layer id forced to the top of the stack
	width    int     // canvas width override
	height   int     // canvas height override
	scale    float64 // raster scale factor (png only)
}

// newRenderCmd creates the render command for turning a template config
// into an image file.
//
// Default settings:
//   - format: png
//   - scale: 1.0
//   - output: input path with the format as extension
func newRenderCmd() *cobra.Command {
	opts := renderOpts{
		format: "png",
		scale:  1.0,
	}

	cmd := &cobra.Command{
		Use:   "render [config.json]",
		Short: "Render a template config to a PNG or SVG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: config path with format extension)")
	cmd.Flags().StringVarP(&opts.content, "content", "c", "", "content variables JSON file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: png (default), svg")
	cmd.Flags().StringVar(&opts.selected, "selected", "", "layer id to force on top of the stack")
	cmd.Flags().IntVar(&opts.width, "width", 0, "canvas width override")
	cmd.Flags().IntVar(&opts.height, "height", 0, "canvas height override")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "raster scale factor (png only)")

	return cmd
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{"png": true, "svg": true}

// validateFormat checks that the requested format is valid.
func validateFormat(format string) error {
	if !validFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be 'png' or 'svg')", format)
	}
	return nil
}

// runRender loads the config and content files, renders the scene, and
// writes the output file.
func runRender(ctx context.Context, configPath string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	content, err := loadContent(opts.content)
	if err != nil {
		return err
	}
	applyDimensionOverrides(&cfg, opts.width, opts.height)

	dims := cfg.EffectiveDimensions()
	logger.Debug("rendering", "layout", cfg.Layout, "width", dims.Width, "height", dims.Height, "format", opts.format)

	var engineOpts []engine.Option
	if opts.selected != "" {
		engineOpts = append(engineOpts, engine.WithSelected(opts.selected))
	}
	scene := engine.Render(&cfg, content, engineOpts...)

	var out []byte
	if opts.format == "svg" {
		out = sink.RenderSVG(scene)
	} else {
		fetcher, err := fetch.New()
		if err != nil {
			return err
		}
		out, err = sink.RenderPNG(ctx, scene, sink.WithScale(opts.scale), sink.WithImageFetcher(fetcher))
		if err != nil {
			return err
		}
	}

	outPath := opts.output
	if outPath == "" {
		outPath = strings.TrimSuffix(configPath, filepath.Ext(configPath)) + "." + opts.format
	}
	if err := os.WriteFile(outPath, out, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "writing %s", outPath)
	}

	prog.done(fmt.Sprintf("Rendered %dx%d %s", dims.Width, dims.Height, opts.format))
	printFile(outPath)
	return nil
}

// loadConfig reads and validates a template config file.
func loadConfig(path string) (template.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return template.Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "reading %s", path)
	}
	cfg, err := template.ParseConfig(data)
	if err != nil {
		return template.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return template.Config{}, err
	}
	return cfg, nil
}

// loadContent reads a content variables file. An empty path yields an
// empty bag.
func loadContent(path string) (template.ContentData, error) {
	if path == "" {
		return template.ContentData{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "reading %s", path)
	}
	return template.ParseContent(data)
}

// applyDimensionOverrides patches the canvas size from flags. Any
// explicit override forces the Custom label, matching the builder's
// custom-size semantics.
func applyDimensionOverrides(cfg *template.Config, width, height int) {
	if width <= 0 && height <= 0 {
		return
	}
	dims := cfg.EffectiveDimensions()
	if width > 0 {
		dims.Width = width
	}
	if height > 0 {
		dims.Height = height
	}
	dims.Label = template.LabelCustom
	cfg.Dimensions = &dims
}
