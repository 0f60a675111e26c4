package cli

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	qrerrors "github.com/cristianadrielbraun/qrstyle/internal/errors"
	"github.com/cristianadrielbraun/qrstyle/internal/render"
	"github.com/cristianadrielbraun/qrstyle/internal/style"
)

const styleFile = `
data = "https://example.com"
width = 120
height = 120
margin = 10

[dotsOptions]
type = "rounded"
color = "#1a2b3c"

[backgroundOptions]
color = "#ffffff"

[[plugins]]
name = "frame"
[plugins.options]
pattern = "dashed"
color = "#ff0000"
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (stdout, stderr *bytes.Buffer, err error) {
	t.Helper()
	stdout, stderr = new(bytes.Buffer), new(bytes.Buffer)
	err = Execute(context.Background(), args, stdout, stderr)
	return stdout, stderr, err
}

func TestRenderFromStyleFile(t *testing.T) {
	cfgPath := writeFile(t, "style.toml", styleFile)
	out := filepath.Join(t.TempDir(), "qr.png")

	_, stderr, err := run(t, "render", "-c", cfgPath, "-o", out)
	if err != nil {
		t.Fatalf("render error = %v (log %s)", err, stderr)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 120 {
		t.Errorf("image is %v, want 120x120", b)
	}
	if !strings.Contains(stderr.String(), "qr written") {
		t.Errorf("log = %q, want completion line", stderr)
	}
}

func TestRenderSVGToStdout(t *testing.T) {
	stdout, _, err := run(t, "render", "hello", "-f", "svg", "-o", "-", "--dot-type", "dots", "--frame", "simple")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	if !strings.Contains(stdout.String(), "<svg") || !strings.Contains(stdout.String(), `data-region="frame"`) {
		t.Errorf("stdout = %.120s, want an svg with a frame", stdout)
	}
}

func TestVerboseLogsDebug(t *testing.T) {
	_, stderr, err := run(t, "render", "hello", "-o", "-", "-v")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	if !strings.Contains(stderr.String(), "qr rendered") {
		t.Errorf("log = %q, want debug output", stderr)
	}
}

func TestRenderErrors(t *testing.T) {
	badKey := writeFile(t, "bad.toml", "data = \"x\"\ncolour = \"red\"\n")
	broken := writeFile(t, "broken.toml", "data = \n")

	for _, tc := range []struct {
		name string
		args []string
		code qrerrors.Code
	}{
		{"no data", []string{"render", "-o", "-"}, ""},
		{"unknown key", []string{"render", "-c", badKey, "-o", "-"}, qrerrors.ErrCodeConfiguration},
		{"broken toml", []string{"render", "-c", broken, "-o", "-"}, qrerrors.ErrCodeConfiguration},
		{"missing file", []string{"render", "-c", filepath.Join(t.TempDir(), "none.toml"), "-o", "-"}, qrerrors.ErrCodeConfiguration},
		{"webp", []string{"render", "x", "-f", "webp", "-o", "-"}, qrerrors.ErrCodeRender},
		{"bad format", []string{"render", "x", "-o", "qr.bmp"}, qrerrors.ErrCodeRender},
		{"bad dot type", []string{"render", "x", "--dot-type", "blob", "-o", "-"}, qrerrors.ErrCodeConfiguration},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := run(t, tc.args...)
			if err == nil {
				t.Fatal("render succeeded, want error")
			}
			if got := qrerrors.GetCode(err); got != tc.code {
				t.Errorf("code = %q, want %q (err %v)", got, tc.code, err)
			}
		})
	}
}

func TestApplyFlags(t *testing.T) {
	cfg := style.Config{
		Data: "from file",
		Dots: style.DotsConfig{Gradient: &style.GradientConfig{Type: "linear"}},
	}
	renderOpts{data: "flag", size: 50, dotType: "dots", color: "#ff0000", frame: "grid"}.apply(&cfg)

	want := style.Config{
		Data:   "flag",
		Width:  50,
		Height: 50,
		Margin: style.Int(defaultFrameMargin),
		Dots:   style.DotsConfig{Type: "dots", Color: "#ff0000"},
		Plugins: []style.PluginConfig{
			{Name: "frame", Options: map[string]any{"pattern": "grid"}},
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestOutputFormat(t *testing.T) {
	for _, tc := range []struct {
		format, output string
		want           render.Extension
	}{
		{"", "qr.png", render.PNG},
		{"", "qr.JPG", render.JPEG},
		{"", "qr.svg", render.SVG},
		{"", "-", render.PNG},
		{"", "noext", render.PNG},
		{"svg", "qr.png", render.SVG},
	} {
		got, err := outputFormat(tc.format, tc.output)
		if err != nil || got != tc.want {
			t.Errorf("outputFormat(%q, %q) = %q, %v, want %q", tc.format, tc.output, got, err, tc.want)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	if got := loggerFromContext(context.Background()); got != log.Default() {
		t.Error("loggerFromContext() without a logger should return the default logger")
	}
	l := newLogger(new(bytes.Buffer), log.DebugLevel)
	if got := loggerFromContext(withLogger(context.Background(), l)); got != l {
		t.Error("loggerFromContext() did not return the attached logger")
	}
}
