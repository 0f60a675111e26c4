// Package styling renders styled QR codes: it resolves the configuration,
// encodes the data, lays out the modules, draws them and runs plugins.
package styling

import (
	"context"
	"errors"
	"image"
	"image/draw"

	"github.com/charmbracelet/log"

	"github.com/cristianadrielbraun/qrstyle/internal/encoder"
	qrerrors "github.com/cristianadrielbraun/qrstyle/internal/errors"
	"github.com/cristianadrielbraun/qrstyle/internal/imageload"
	"github.com/cristianadrielbraun/qrstyle/internal/layout"
	"github.com/cristianadrielbraun/qrstyle/internal/plugin"
	"github.com/cristianadrielbraun/qrstyle/internal/plugin/frame"
	"github.com/cristianadrielbraun/qrstyle/internal/render"
	"github.com/cristianadrielbraun/qrstyle/internal/render/raster"
	"github.com/cristianadrielbraun/qrstyle/internal/render/svg"
	"github.com/cristianadrielbraun/qrstyle/internal/style"
)

// ImageLoader loads the logo named by the image option.
type ImageLoader interface {
	Load(ctx context.Context, src string) (image.Image, error)
}

// Extension edits the vector document after every render.
type Extension func(doc *svg.Document, opts style.Options)

// Option modifies a QRCode.
type Option func(*QRCode)

// WithLogger sets the logger of the QR code and its plugins.
func WithLogger(l *log.Logger) Option {
	return func(q *QRCode) {
		if l != nil {
			q.logger = l
		}
	}
}

// WithEncoder replaces the QR encoder.
func WithEncoder(e encoder.Encoder) Option {
	return func(q *QRCode) { q.encoder = e }
}

// WithImageLoader replaces the logo loader.
func WithImageLoader(l ImageLoader) Option {
	return func(q *QRCode) { q.loader = l }
}

// WithCanvas sets how raster surfaces are created. nil disables raster
// output.
func WithCanvas(fn raster.SurfaceFunc) Option {
	return func(q *QRCode) { q.newSurface = fn }
}

// WithDocument sets how vector documents are created. nil disables vector
// output.
func WithDocument(fn svg.DocumentFunc) Option {
	return func(q *QRCode) { q.newDocument = fn }
}

// WithPlugins registers plugins before the first render.
func WithPlugins(ps ...plugin.Plugin) Option {
	return func(q *QRCode) { q.pending = append(q.pending, ps...) }
}

// QRCode is one styled QR code and its rendered outputs. A QRCode is not
// safe for concurrent use.
type QRCode struct {
	config      style.Config
	opts        style.Options
	logger      *log.Logger
	encoder     encoder.Encoder
	loader      ImageLoader
	newSurface  raster.SurfaceFunc
	newDocument svg.DocumentFunc
	extension   Extension
	plugins     *plugin.Manager
	pending     []plugin.Plugin
	pluginErr   error

	matrix  *layout.Matrix
	scene   *layout.Scene
	surface draw.Image
	doc     *svg.Document
}

// New resolves cfg and renders it. The frame plugin is registered on every
// QR code; it runs when cfg names it.
func New(ctx context.Context, cfg style.Config, opts ...Option) (*QRCode, error) {
	q := &QRCode{
		logger:      log.Default(),
		encoder:     encoder.GoQRCode{},
		loader:      &imageload.Loader{},
		newSurface:  raster.NewSurface,
		newDocument: svg.NewDocument,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.plugins = plugin.NewManager(q, plugin.WithLogger(q.logger))
	for _, p := range append([]plugin.Plugin{frame.New(nil)}, q.pending...) {
		if err := q.plugins.Register(p); err != nil {
			return nil, err
		}
	}
	q.pending = nil
	if err := q.Update(ctx, cfg); err != nil {
		return nil, err
	}
	return q, nil
}

// Update merges cfg over the current configuration and renders again. A
// configuration error leaves the previous configuration in effect.
func (q *QRCode) Update(ctx context.Context, cfg style.Config) error {
	merged := q.config.Merge(cfg)
	opts, err := style.Resolve(merged)
	if err != nil {
		return err
	}
	q.config, q.opts = merged, opts
	return q.render(ctx)
}

func (q *QRCode) render(ctx context.Context) error {
	q.matrix, q.scene, q.surface, q.doc, q.pluginErr = nil, nil, nil, nil, nil
	if q.opts.Data == "" {
		return nil
	}
	if q.opts.Type == style.DrawCanvas && q.newSurface == nil {
		return qrerrors.New(qrerrors.ErrCodeRender, "canvas output needs a surface")
	}
	if q.opts.Type == style.DrawSVG && q.newDocument == nil {
		return qrerrors.New(qrerrors.ErrCodeRender, "svg output needs a document")
	}

	m, err := q.encoder.Encode(q.opts.Data, q.opts.QR)
	if err != nil {
		return err
	}
	logo, size, err := q.loadLogo(ctx)
	if err != nil {
		return err
	}
	scene, err := layout.Layout(m, q.opts, size)
	if err != nil {
		return err
	}

	var surface draw.Image
	if q.opts.Type == style.DrawCanvas {
		surface = q.newSurface(scene.Width, scene.Height)
		if err := raster.NewRenderer(surface).Render(scene, logo); err != nil {
			return err
		}
	}
	var doc *svg.Document
	if q.opts.Type == style.DrawSVG {
		doc = q.newDocument(scene.Width, scene.Height)
		if err := svg.NewRenderer(doc).Render(scene, logo); err != nil {
			return err
		}
		if q.extension != nil {
			q.extension(doc, q.opts)
		}
	}
	q.matrix, q.scene, q.surface, q.doc = m, scene, surface, doc
	q.logger.Debug("qr rendered", "type", q.opts.Type, "modules", m.Size(), "instructions", len(scene.Instructions))

	return q.runPlugins(ctx)
}

func (q *QRCode) loadLogo(ctx context.Context) (image.Image, *layout.ImageSize, error) {
	if q.opts.Image == "" {
		return nil, nil, nil
	}
	if q.loader == nil {
		return nil, nil, qrerrors.New(qrerrors.ErrCodeImage, "no image loader")
	}
	logo, err := q.loader.Load(ctx, q.opts.Image)
	if err != nil {
		return nil, nil, err
	}
	w, h := imageload.Size(logo)
	return logo, &layout.ImageSize{Width: w, Height: h}, nil
}

// runPlugins loads the plugins the options name and renders every loaded
// plugin. Only a critical plugin's failure fails the render; other failures
// are kept for PluginErrors.
func (q *QRCode) runPlugins(ctx context.Context) error {
	var errs []error
	for _, pc := range q.opts.Plugins {
		p, ok := q.plugins.Get(pc.Name)
		if !ok {
			err := qrerrors.New(qrerrors.ErrCodePlugin, "unknown plugin %q", pc.Name)
			q.logger.Warn("plugin not registered", "plugin", pc.Name)
			errs = append(errs, err)
			continue
		}
		p.UpdateConfig(pc.Options)
		if err := q.plugins.Load(ctx, p); err != nil {
			q.logger.Warn("plugin load failed", "plugin", pc.Name, "err", err)
			errs = append(errs, err)
		}
	}
	err := q.plugins.RenderAll(ctx)
	var fatal *plugin.FatalError
	if errors.As(err, &fatal) {
		return qrerrors.Wrap(qrerrors.ErrCodePlugin, fatal, "render aborted")
	}
	q.pluginErr = qrerrors.Join(append(errs, err)...)
	return nil
}

// Config returns the merged, unresolved configuration.
func (q *QRCode) Config() style.Config { return q.config }

// Options returns the resolved options of the last successful update.
func (q *QRCode) Options() style.Options { return q.opts }

// Matrix returns the encoded modules, or nil before anything was rendered.
func (q *QRCode) Matrix() *layout.Matrix { return q.matrix }

// Scene returns the laid out instructions, or nil before anything was
// rendered.
func (q *QRCode) Scene() *layout.Scene { return q.scene }

// Surface returns the raster output. It is nil unless the type is canvas.
func (q *QRCode) Surface() draw.Image { return q.surface }

// Document returns the vector output. It is nil unless the type is svg.
func (q *QRCode) Document() *svg.Document { return q.doc }

// PluginErrors returns the non-fatal plugin failures of the last render.
func (q *QRCode) PluginErrors() error { return q.pluginErr }

// RawData encodes the rendered QR code as ext. Raster formats come from the
// surface, or from the rasterized document when there is no surface.
func (q *QRCode) RawData(ext render.Extension) (render.Artifact, error) {
	if q.scene == nil {
		return render.Artifact{}, qrerrors.New(qrerrors.ErrCodeRender, "QR code is empty")
	}
	if ext == render.SVG {
		if q.doc == nil {
			return render.Artifact{}, qrerrors.New(qrerrors.ErrCodeRender, "svg output needs type svg")
		}
		return render.NewArtifact(ext, q.doc.Bytes()), nil
	}

	var img image.Image = q.surface
	if q.surface == nil {
		rgba, err := raster.RasterizeSVG(q.doc.Bytes(), q.scene.Width, q.scene.Height)
		if err != nil {
			return render.Artifact{}, err
		}
		img = rgba
	}
	data, err := render.EncodeImage(img, ext)
	if err != nil {
		return render.Artifact{}, err
	}
	return render.NewArtifact(ext, data), nil
}

// DataURL returns RawData(ext) as a data URL.
func (q *QRCode) DataURL(ext render.Extension) (string, error) {
	a, err := q.RawData(ext)
	if err != nil {
		return "", err
	}
	return a.DataURL(), nil
}

// ApplyExtension installs fn and renders again.
func (q *QRCode) ApplyExtension(ctx context.Context, fn Extension) error {
	q.extension = fn
	return q.render(ctx)
}

// DeleteExtension removes the extension and renders again.
func (q *QRCode) DeleteExtension(ctx context.Context) error {
	q.extension = nil
	return q.render(ctx)
}

// RegisterPlugin makes p available to the plugins option.
func (q *QRCode) RegisterPlugin(p plugin.Plugin) error {
	return q.plugins.Register(p)
}

// Plugins returns the registered plugins in registration order.
func (q *QRCode) Plugins() []plugin.Plugin { return q.plugins.Plugins() }

// Close unloads every loaded plugin.
func (q *QRCode) Close(ctx context.Context) error {
	return q.plugins.UnloadAll(ctx)
}
