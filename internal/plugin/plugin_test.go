package plugin

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	qrerrors "github.com/cristianadrielbraun/qrstyle/internal/errors"
)

type recorder struct {
	Base
	calls     *[]string
	loadErr   error
	renderErr error
	unloadErr error
	critical  bool
}

func newRecorder(name string, calls *[]string) *recorder {
	return &recorder{Base: NewBase(name, nil), calls: calls}
}

func (r *recorder) Load(context.Context, Host) error {
	*r.calls = append(*r.calls, "load "+r.Name())
	return r.loadErr
}

func (r *recorder) Render(context.Context, Host) error {
	*r.calls = append(*r.calls, "render "+r.Name())
	return r.renderErr
}

func (r *recorder) Unload(context.Context) error {
	*r.calls = append(*r.calls, "unload "+r.Name())
	return r.unloadErr
}

func (r *recorder) Critical() bool { return r.critical }

func quietManager(buf *bytes.Buffer) *Manager {
	return NewManager(nil, WithLogger(log.New(buf)))
}

func TestLoadTwiceRunsHookOnce(t *testing.T) {
	var calls []string
	m := quietManager(&bytes.Buffer{})
	a := newRecorder("A", &calls)
	if err := m.Register(a); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := m.Load(ctx, a); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
	}
	if diff := cmp.Diff([]string{"load A"}, calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if !m.Loaded("A") {
		t.Errorf("Loaded(A) = false")
	}
}

func TestUnloadAllWithNothingLoaded(t *testing.T) {
	m := quietManager(&bytes.Buffer{})
	if err := m.UnloadAll(context.Background()); err != nil {
		t.Errorf("UnloadAll() error = %v", err)
	}
	if len(m.loaded) != 0 {
		t.Errorf("loaded set = %v, want empty", m.loaded)
	}
}

func TestRegisterRejectsDuplicateNames(t *testing.T) {
	var calls []string
	m := quietManager(&bytes.Buffer{})
	if err := m.Register(newRecorder("A", &calls)); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	err := m.Register(newRecorder("A", &calls))
	if !qrerrors.Is(err, qrerrors.ErrCodePlugin) {
		t.Errorf("Register(duplicate) error = %v, want plugin error", err)
	}
	if err := m.Register(newRecorder("", &calls)); err == nil {
		t.Errorf("Register(unnamed) error = nil")
	}
	if n := len(m.Plugins()); n != 1 {
		t.Errorf("Plugins() = %d, want 1", n)
	}
}

func TestLoadRegistersUnknownPlugin(t *testing.T) {
	var calls []string
	m := quietManager(&bytes.Buffer{})
	if err := m.Load(context.Background(), newRecorder("B", &calls)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := m.Get("B"); !ok {
		t.Errorf("Get(B) missing after Load")
	}
}

func TestFailedLoadStaysUnloaded(t *testing.T) {
	var calls []string
	m := quietManager(&bytes.Buffer{})
	p := newRecorder("A", &calls)
	p.loadErr = errors.New("boom")
	if err := m.Load(context.Background(), p); !qrerrors.Is(err, qrerrors.ErrCodePlugin) {
		t.Errorf("Load() error = %v, want plugin error", err)
	}
	if m.Loaded("A") {
		t.Errorf("Loaded(A) = true after failed load")
	}
}

func TestHooksRunInRegistrationOrder(t *testing.T) {
	var calls []string
	m := quietManager(&bytes.Buffer{})
	ctx := context.Background()
	for _, name := range []string{"first", "second", "third"} {
		if err := m.Register(newRecorder(name, &calls)); err != nil {
			t.Fatal(err)
		}
	}
	// Load out of order; render and unload still follow registration.
	for _, name := range []string{"third", "first", "second"} {
		p, _ := m.Get(name)
		if err := m.Load(ctx, p); err != nil {
			t.Fatal(err)
		}
	}
	calls = nil
	if err := m.RenderAll(ctx); err != nil {
		t.Fatalf("RenderAll() error = %v", err)
	}
	if err := m.UnloadAll(ctx); err != nil {
		t.Fatalf("UnloadAll() error = %v", err)
	}
	want := []string{
		"render first", "render second", "render third",
		"unload first", "unload second", "unload third",
	}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestUnloadFailureDoesNotStopOthers(t *testing.T) {
	var calls []string
	var logs bytes.Buffer
	m := quietManager(&logs)
	ctx := context.Background()
	bad := newRecorder("bad", &calls)
	bad.unloadErr = errors.New("stuck")
	good := newRecorder("good", &calls)
	for _, p := range []Plugin{bad, good} {
		if err := m.Load(ctx, p); err != nil {
			t.Fatal(err)
		}
	}
	calls = nil
	err := m.UnloadAll(ctx)
	if !qrerrors.Is(err, qrerrors.ErrCodePlugin) {
		t.Errorf("UnloadAll() error = %v, want plugin error", err)
	}
	if diff := cmp.Diff([]string{"unload bad", "unload good"}, calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if m.Loaded("bad") || m.Loaded("good") {
		t.Errorf("loaded set not cleared")
	}
	if !strings.Contains(logs.String(), "plugin unload failed") {
		t.Errorf("failure not logged: %q", logs.String())
	}
}

func TestRenderFailures(t *testing.T) {
	var calls []string
	m := quietManager(&bytes.Buffer{})
	ctx := context.Background()
	flaky := newRecorder("flaky", &calls)
	flaky.renderErr = errors.New("overlay failed")
	after := newRecorder("after", &calls)
	for _, p := range []Plugin{flaky, after} {
		if err := m.Load(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	calls = nil
	err := m.RenderAll(ctx)
	if !qrerrors.Is(err, qrerrors.ErrCodePlugin) {
		t.Errorf("RenderAll() error = %v, want batched plugin error", err)
	}
	var fatal *FatalError
	if errors.As(err, &fatal) {
		t.Errorf("non-critical failure reported as fatal")
	}
	if diff := cmp.Diff([]string{"render flaky", "render after"}, calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}

	flaky.critical = true
	calls = nil
	err = m.RenderAll(ctx)
	if !errors.As(err, &fatal) || fatal.Plugin != "flaky" {
		t.Fatalf("RenderAll() error = %v, want fatal error from flaky", err)
	}
	if diff := cmp.Diff([]string{"render flaky"}, calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestBaseConfig(t *testing.T) {
	b := NewBase("frame", Config{"width": 10, "color": "#000"})
	b.UpdateConfig(nil)
	b.UpdateConfig(Config{"color": "#fff"})
	got := b.Config()
	got["width"] = 99
	want := Config{"width": 10, "color": "#fff"}
	if diff := cmp.Diff(want, b.Config()); diff != "" {
		t.Errorf("Config() mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigAccessors(t *testing.T) {
	c := Config{"f": 2.6, "i": int64(3), "s": "4.5", "b": "true", "name": "dashed"}
	if got := c.Int("f", 0); got != 3 {
		t.Errorf("Int(f) = %d, want 3", got)
	}
	if got := c.Float("i", 0); got != 3 {
		t.Errorf("Float(i) = %v, want 3", got)
	}
	if got := c.Float("s", 0); got != 4.5 {
		t.Errorf("Float(s) = %v, want 4.5", got)
	}
	if got := c.Int("missing", 7); got != 7 {
		t.Errorf("Int(missing) = %d, want 7", got)
	}
	if !c.Bool("b", false) || c.Bool("missing", false) {
		t.Errorf("Bool() wrong")
	}
	if got := c.String("name", ""); got != "dashed" {
		t.Errorf("String(name) = %q", got)
	}
}
