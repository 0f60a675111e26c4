package plugin

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	qrerrors "github.com/cristianadrielbraun/qrstyle/internal/errors"
)

// FatalError is returned by RenderAll when a critical plugin fails.
type FatalError struct {
	Plugin string
	Err    error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("critical plugin %q failed: %v", e.Plugin, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// Option modifies a Manager.
type Option func(*Manager)

// WithLogger sets the logger used to report plugin failures.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// Manager holds the plugins of one host. Registration order is the order
// hooks run in. A Manager is not safe for concurrent use.
type Manager struct {
	host    Host
	logger  *log.Logger
	plugins []Plugin
	byName  map[string]Plugin
	loaded  map[string]bool
}

// NewManager returns an empty manager for host.
func NewManager(host Host, opts ...Option) *Manager {
	m := &Manager{
		host:   host,
		logger: log.Default(),
		byName: make(map[string]Plugin),
		loaded: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register adds p. Names are unique; registering a second plugin under a
// taken name fails.
func (m *Manager) Register(p Plugin) error {
	if p == nil || p.Name() == "" {
		return qrerrors.New(qrerrors.ErrCodePlugin, "plugin must have a name")
	}
	if _, ok := m.byName[p.Name()]; ok {
		return qrerrors.New(qrerrors.ErrCodePlugin, "plugin %q is already registered", p.Name())
	}
	m.plugins = append(m.plugins, p)
	m.byName[p.Name()] = p
	return nil
}

// Get returns the plugin registered as name.
func (m *Manager) Get(name string) (Plugin, bool) {
	p, ok := m.byName[name]
	return p, ok
}

// Plugins returns the registered plugins in registration order.
func (m *Manager) Plugins() []Plugin {
	return append([]Plugin(nil), m.plugins...)
}

// Loaded reports whether the plugin named name is loaded.
func (m *Manager) Loaded(name string) bool {
	return m.loaded[name]
}

// Load runs p's load hook unless a plugin with the same name is already
// loaded. An unregistered plugin is registered first.
func (m *Manager) Load(ctx context.Context, p Plugin) error {
	if p == nil {
		return qrerrors.New(qrerrors.ErrCodePlugin, "cannot load a nil plugin")
	}
	name := p.Name()
	if m.loaded[name] {
		return nil
	}
	if _, ok := m.byName[name]; !ok {
		if err := m.Register(p); err != nil {
			return err
		}
	}
	if err := p.Load(ctx, m.host); err != nil {
		return qrerrors.Wrap(qrerrors.ErrCodePlugin, err, "load plugin %q", name)
	}
	m.loaded[name] = true
	m.logger.Debug("plugin loaded", "plugin", name)
	return nil
}

// RenderAll runs the render hook of every loaded plugin in registration
// order. Failures are logged and returned together; a failing critical
// plugin stops the pass and is returned as a *FatalError.
func (m *Manager) RenderAll(ctx context.Context) error {
	var errs []error
	for _, p := range m.plugins {
		if !m.loaded[p.Name()] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return qrerrors.Join(append(errs, err)...)
		}
		err := p.Render(ctx, m.host)
		if err == nil {
			continue
		}
		if isCritical(p) {
			return &FatalError{Plugin: p.Name(), Err: err}
		}
		m.logger.Warn("plugin render failed", "plugin", p.Name(), "err", err)
		errs = append(errs, qrerrors.Wrap(qrerrors.ErrCodePlugin, err, "render plugin %q", p.Name()))
	}
	return qrerrors.Join(errs...)
}

// UnloadAll runs the unload hook of every loaded plugin in registration
// order. A failing hook does not stop the others. The loaded set is empty
// afterwards whatever happened.
func (m *Manager) UnloadAll(ctx context.Context) error {
	var errs []error
	for _, p := range m.plugins {
		if !m.loaded[p.Name()] {
			continue
		}
		if err := p.Unload(ctx); err != nil {
			m.logger.Warn("plugin unload failed", "plugin", p.Name(), "err", err)
			errs = append(errs, qrerrors.Wrap(qrerrors.ErrCodePlugin, err, "unload plugin %q", p.Name()))
		}
	}
	clear(m.loaded)
	return qrerrors.Join(errs...)
}
