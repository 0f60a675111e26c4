package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	qrerrors "github.com/cristianadrielbraun/qrstyle/internal/errors"
	"github.com/cristianadrielbraun/qrstyle/internal/plugin/frame"
	"github.com/cristianadrielbraun/qrstyle/internal/render"
	"github.com/cristianadrielbraun/qrstyle/internal/style"
	"github.com/cristianadrielbraun/qrstyle/internal/styling"
)

// defaultFrameMargin is the margin given to --frame when the style file
// sets none.
const defaultFrameMargin = 16

// renderOpts holds the flags of the render command. Flags that are set win
// over the style file.
type renderOpts struct {
	config  string // TOML style file
	data    string
	format  string // png, jpeg, svg; inferred from output when empty
	output  string // "-" writes to stdout
	size    int
	dotType string
	color   string
	frame   string // frame pattern, empty for none
}

func newRenderCmd() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [data]",
		Short: "Render a styled QR code to a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.data = args[0]
			}
			return runRender(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.config, "config", "c", "", "TOML style file")
	f.StringVarP(&opts.data, "data", "d", "", "data to encode")
	f.StringVarP(&opts.format, "format", "f", "", "output format: png, jpeg, svg (default from output extension)")
	f.StringVarP(&opts.output, "output", "o", "qr.png", `output file, "-" for stdout`)
	f.IntVar(&opts.size, "size", 0, "width and height in pixels")
	f.StringVar(&opts.dotType, "dot-type", "", "data module type")
	f.StringVar(&opts.color, "color", "", "data module color")
	f.StringVar(&opts.frame, "frame", "", "frame pattern drawn in the margin")
	return cmd
}

func runRender(cmd *cobra.Command, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	start := time.Now()

	cfg, err := loadStyle(opts.config)
	if err != nil {
		return err
	}
	opts.apply(&cfg)
	if cfg.Data == "" {
		return fmt.Errorf("nothing to encode: pass data as an argument, with --data or in the style file")
	}

	ext, err := outputFormat(opts.format, opts.output)
	if err != nil {
		return err
	}
	if ext == render.SVG {
		cfg.Type = string(style.DrawSVG)
	}

	qr, err := styling.New(ctx, cfg, styling.WithLogger(logger))
	if err != nil {
		return err
	}
	defer qr.Close(ctx)
	if err := qr.PluginErrors(); err != nil {
		logger.Warn("plugin errors during render", "err", err)
	}

	art, err := qr.RawData(ext)
	if err != nil {
		return err
	}
	if opts.output == "-" {
		_, err = cmd.OutOrStdout().Write(art.Data)
		return err
	}
	if err := os.WriteFile(opts.output, art.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	elapsed(logger, start, "qr written", "file", opts.output, "bytes", len(art.Data))
	return nil
}

// loadStyle decodes the TOML style file at path. An empty path yields an
// empty configuration.
func loadStyle(path string) (style.Config, error) {
	var cfg style.Config
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, qrerrors.Wrap(qrerrors.ErrCodeConfiguration, err, "read style file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, qrerrors.New(qrerrors.ErrCodeConfiguration, "unknown style key %q in %s", undecoded[0].String(), path)
	}
	return cfg, nil
}

func (o renderOpts) apply(cfg *style.Config) {
	if o.data != "" {
		cfg.Data = o.data
	}
	if o.size > 0 {
		cfg.Width, cfg.Height = o.size, o.size
	}
	if o.dotType != "" {
		cfg.Dots.Type = o.dotType
	}
	if o.color != "" {
		cfg.Dots.Color = o.color
		cfg.Dots.Gradient = nil
	}
	if o.frame != "" {
		if cfg.Margin == nil {
			cfg.Margin = style.Int(defaultFrameMargin)
		}
		cfg.Plugins = append(cfg.Plugins, style.PluginConfig{
			Name:    frame.Name,
			Options: map[string]any{"pattern": o.frame},
		})
	}
}

func outputFormat(format, output string) (render.Extension, error) {
	if format == "" {
		format = "png"
		if output != "-" && filepath.Ext(output) != "" {
			format = filepath.Ext(output)
		}
	}
	ext, err := render.ParseExtension(format)
	if err != nil {
		return "", err
	}
	if ext == render.WebP {
		return "", qrerrors.New(qrerrors.ErrCodeRender, "webp output is not supported")
	}
	return ext, nil
}
