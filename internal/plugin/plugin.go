// Package plugin manages optional render extensions and their lifecycle:
// register, load, render and unload.
package plugin

import (
	"context"
	"fmt"
	"image/draw"
	"maps"
	"math"
	"strconv"

	"github.com/cristianadrielbraun/qrstyle/internal/layout"
	"github.com/cristianadrielbraun/qrstyle/internal/render/svg"
	"github.com/cristianadrielbraun/qrstyle/internal/style"
)

// Host is the application a plugin is attached to. Surface is nil when no
// raster output was drawn and Document is nil when no vector output was.
type Host interface {
	Options() style.Options
	Scene() *layout.Scene
	Surface() draw.Image
	Document() *svg.Document
}

// Plugin is a named, stateful extension. Hooks are called one at a time and
// never concurrently.
type Plugin interface {
	Name() string
	// Load prepares the plugin for host.
	Load(ctx context.Context, host Host) error
	// Render runs after the main pipeline has drawn the host's outputs.
	Render(ctx context.Context, host Host) error
	Unload(ctx context.Context) error
	Config() Config
	UpdateConfig(Config)
}

// Critical is implemented by plugins whose render failure must fail the
// whole render.
type Critical interface {
	Critical() bool
}

func isCritical(p Plugin) bool {
	c, ok := p.(Critical)
	return ok && c.Critical()
}

// Config is plugin-defined, schema-less configuration.
type Config map[string]any

// String returns the string value of key, or def.
func (c Config) String(key, def string) string {
	switch v := c[key].(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return def
	}
}

// Float returns the numeric value of key, or def. Numbers given as strings
// are parsed.
func (c Config) Float(key string, def float64) float64 {
	switch v := c[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// Int returns the value of key rounded to an integer, or def.
func (c Config) Int(key string, def int) int {
	f := c.Float(key, math.NaN())
	if math.IsNaN(f) {
		return def
	}
	return int(math.Round(f))
}

// Bool returns the boolean value of key, or def.
func (c Config) Bool(key string, def bool) bool {
	switch v := c[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// Base implements naming and configuration. Plugins embed it and override
// the hooks they need.
type Base struct {
	name   string
	config Config
}

// NewBase returns a Base named name holding a copy of defaults.
func NewBase(name string, defaults Config) Base {
	return Base{name: name, config: maps.Clone(defaults)}
}

func (b *Base) Name() string { return b.name }

// Config returns a copy of the current configuration.
func (b *Base) Config() Config {
	if b.config == nil {
		return Config{}
	}
	return maps.Clone(b.config)
}

// UpdateConfig merges c over the current configuration. A nil c changes
// nothing.
func (b *Base) UpdateConfig(c Config) {
	if c == nil {
		return
	}
	if b.config == nil {
		b.config = Config{}
	}
	maps.Copy(b.config, c)
}

func (b *Base) Load(context.Context, Host) error   { return nil }
func (b *Base) Render(context.Context, Host) error { return nil }
func (b *Base) Unload(context.Context) error       { return nil }
