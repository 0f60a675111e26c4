package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/qrstyle/internal/handlers"
)

func TestRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := newRouter(handlers.New(handlers.WithLogger(log.New(new(bytes.Buffer)))))

	for _, tc := range []struct {
		method, path string
		status       int
		contains     string
	}{
		{http.MethodGet, "/", http.StatusOK, `id="qr-preview"`},
		{http.MethodGet, "/sitemap.xml", http.StatusOK, "<urlset"},
		{http.MethodGet, "/api/qr?data=hello&format=svg", http.StatusOK, "<svg"},
		{http.MethodGet, "/api/qr", http.StatusBadRequest, "URL parameter is required"},
		{http.MethodGet, "/missing", http.StatusNotFound, ""},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		if w.Code != tc.status {
			t.Errorf("%s %s: status = %d, want %d", tc.method, tc.path, w.Code, tc.status)
		}
		if !strings.Contains(w.Body.String(), tc.contains) {
			t.Errorf("%s %s: body %.100q missing %q", tc.method, tc.path, w.Body, tc.contains)
		}
	}
}

func TestGetAddr(t *testing.T) {
	t.Setenv("PORT", "")
	if got := getAddr(); got != ":8080" {
		t.Errorf("getAddr() = %q, want :8080", got)
	}
	t.Setenv("PORT", "9000")
	if got := getAddr(); got != ":9000" {
		t.Errorf("getAddr() = %q, want :9000", got)
	}
}
