package toast

import (
	"context"
	"strings"
	"testing"
)

func classSet(s string) map[string]bool {
	set := map[string]bool{}
	for _, c := range strings.Fields(s) {
		set[c] = true
	}
	return set
}

func TestClasses(t *testing.T) {
	got := classSet(Classes(Props{Variant: VariantInfo, Position: PositionTopLeft, Class: "p-2"}))
	for _, want := range []string{"border-blue-500", "top-4", "left-4", "p-2", "fixed"} {
		if !got[want] {
			t.Errorf("Classes() = %v, missing %q", got, want)
		}
	}
	for _, gone := range []string{"p-4", "bottom-4", "right-4", "border-border"} {
		if got[gone] {
			t.Errorf("Classes() = %v, should not contain %q", got, gone)
		}
	}
}

func TestToast(t *testing.T) {
	for _, tc := range []struct {
		name    string
		props   Props
		want    []string
		notWant []string
	}{
		{
			name:    "plain",
			props:   Props{Title: "Done", Variant: VariantSuccess},
			want:    []string{"Done", "border-green-500", "bottom-4", "right-4"},
			notWant: []string{"data-toast-dismiss", "toast-progress", "&#10003;"},
		},
		{
			name:  "everything",
			props: Props{ID: "t1", Title: "<b>", Description: "desc", Variant: VariantError, Duration: 500, Dismissible: true, ShowIndicator: true, Icon: true},
			want:  []string{`id="t1"`, "&lt;b&gt;", "desc", "data-toast-dismiss", "toast-progress 500ms", "&#10005;"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var b strings.Builder
			if err := Toast(tc.props).Render(context.Background(), &b); err != nil {
				t.Fatal(err)
			}
			for _, s := range tc.want {
				if !strings.Contains(b.String(), s) {
					t.Errorf("toast missing %q: %s", s, b.String())
				}
			}
			for _, s := range tc.notWant {
				if strings.Contains(b.String(), s) {
					t.Errorf("toast contains %q: %s", s, b.String())
				}
			}
		})
	}
}
