package cli

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func withServeAddr(t *testing.T, addr string) {
	t.Helper()
	old := serveAddr
	serveAddr = addr
	t.Cleanup(func() { serveAddr = old })
}

func TestBuildServerDefaults(t *testing.T) {
	withServeAddr(t, "")
	c := testConfig(t, "data")
	withTestConfig(t, c)
	withBrowser(t, "")

	srv, addr, err := buildServer()
	if err != nil {
		t.Fatalf("buildServer: %v", err)
	}
	if addr != c.ListenAddr {
		t.Errorf("addr = %q, want %q", addr, c.ListenAddr)
	}
	if info, err := os.Stat(c.WorkDir); err != nil || !info.IsDir() {
		t.Errorf("expected work dir to be created: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET / = %d, want 200", rec.Code)
	}
}

func TestBuildServerAddrFlag(t *testing.T) {
	withServeAddr(t, "127.0.0.1:0")
	withTestConfig(t, testConfig(t, "data"))
	withBrowser(t, "/usr/bin/chromium")
	withConverter(t, &fakeConverter{})

	_, addr, err := buildServer()
	if err != nil {
		t.Fatalf("buildServer: %v", err)
	}
	if addr != "127.0.0.1:0" {
		t.Errorf("addr = %q, want flag value", addr)
	}
}

func TestBuildServerWorkDirIsFile(t *testing.T) {
	withServeAddr(t, "")
	c := testConfig(t, "data")
	dir := t.TempDir()
	writeFile(t, dir, "uploads", "not a dir")
	c.WorkDir = dir + "/uploads"
	withTestConfig(t, c)
	withBrowser(t, "")

	if _, _, err := buildServer(); err == nil {
		t.Error("expected error when work_dir is a file")
	}
}
