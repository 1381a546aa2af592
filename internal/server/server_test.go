package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revdash/revdash/internal/config"
)

func testServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Output.Dir = dir
	return New(cfg), dir
}

func doRequest(s *Server, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	s, _ := testServer(t)
	w := doRequest(s, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestIndexEmpty(t *testing.T) {
	s, _ := testServer(t)
	w := doRequest(s, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Reports []reportEntry `json:"reports"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(t, body.Reports)
}

func TestIndexListsHTMLOnly(t *testing.T) {
	s, dir := testServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b-report.html"), []byte("<html></html>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a-report.html"), []byte("<html></html>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub.html"), 0755))

	w := doRequest(s, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Reports []reportEntry `json:"reports"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Reports, 2)
	assert.Equal(t, "a-report.html", body.Reports[0].Name)
	assert.Equal(t, "b-report.html", body.Reports[1].Name)
	assert.Equal(t, "/reports/a-report.html", body.Reports[0].URL)
}

func TestIndexMissingDir(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Dir = filepath.Join(t.TempDir(), "does-not-exist")
	s := New(cfg)

	w := doRequest(s, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"reports":[]`)
}

func TestServeReport(t *testing.T) {
	s, dir := testServer(t)
	content := "<!DOCTYPE html><html><body>report</body></html>"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "review-report.html"), []byte(content), 0644))

	w := doRequest(s, http.MethodGet, "/reports/review-report.html")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, content, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}

func TestServeReportNotFound(t *testing.T) {
	s, _ := testServer(t)
	w := doRequest(s, http.MethodGet, "/reports/missing.html")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServeReportRejectsTraversal(t *testing.T) {
	s, _ := testServer(t)

	for _, path := range []string{
		"/reports/..%2Fsecret.html",
		"/reports/.hidden.html",
		"/reports/notes.txt",
	} {
		w := doRequest(s, http.MethodGet, path)
		assert.Equal(t, http.StatusBadRequest, w.Code, "path %s", path)
	}
}

func TestRequestIDHeader(t *testing.T) {
	s, _ := testServer(t)

	w := doRequest(s, http.MethodGet, "/healthz")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	// A caller-supplied ID is echoed back.
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-123")
	s.Router().ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}
