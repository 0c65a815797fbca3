package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/soon2moon/mindtools/internal/config"
)

func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		configPath, envFile, debug, httpAddr = "", config.DefaultEnvFile, false, ""
	})
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	versionCmd.Run(cmd, nil)
	if !strings.HasPrefix(out.String(), "mindtools v") {
		t.Errorf("version output = %q", out.String())
	}
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "mindtools.yaml")
	if err := os.WriteFile(path, []byte("max_todos: 9\nhttp_addr: \":1\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	configPath = path
	envFile = filepath.Join(dir, "missing.env")
	debug = true

	// Explicitly named env file that does not exist is an error.
	if _, err := loadConfig(serveCmd); err == nil {
		t.Fatal("expected error for missing explicit env file")
	}

	envFile = config.DefaultEnvFile
	if err := serveCmd.Flags().Set("http", "127.0.0.1:9000"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { serveCmd.Flags().Lookup("http").Changed = false })

	cfg, err := loadConfig(serveCmd)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.MaxTodos != 9 {
		t.Errorf("MaxTodos = %d, want 9", cfg.MaxTodos)
	}
	if !cfg.Debug {
		t.Error("--debug not applied")
	}
	if cfg.HTTPAddr != "127.0.0.1:9000" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
}

func TestNewLogger(t *testing.T) {
	cfg := config.DefaultConfig()
	l, err := newLogger(cfg)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	if l.Core().Enabled(zap.DebugLevel) {
		t.Error("debug enabled without Debug")
	}

	cfg.Debug = true
	l, err = newLogger(cfg)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	if !l.Core().Enabled(zap.DebugLevel) {
		t.Error("debug not enabled with Debug")
	}
}

// fakeHTTP blocks in Start until Shutdown is called.
type fakeHTTP struct {
	startErr error
	stopped  chan struct{}
	once     sync.Once
	addr     string
}

func newFakeHTTP(startErr error) *fakeHTTP {
	return &fakeHTTP{startErr: startErr, stopped: make(chan struct{})}
}

func (f *fakeHTTP) Start(addr string) error {
	f.addr = addr
	if f.startErr != nil {
		return f.startErr
	}
	<-f.stopped
	return http.ErrServerClosed
}

func (f *fakeHTTP) Shutdown(ctx context.Context) error {
	f.once.Do(func() { close(f.stopped) })
	return nil
}

func TestServeHTTP_ShutsDownOnCancel(t *testing.T) {
	logger = zap.NewNop()
	ctx, cancel := context.WithCancel(context.Background())
	srv := newFakeHTTP(nil)

	done := make(chan error, 1)
	go func() { done <- serveHTTP(ctx, srv, ":0") }()
	cancel()

	if err := <-done; err != nil {
		t.Fatalf("serveHTTP: %v", err)
	}
}

func TestServeHTTP_StartFailure(t *testing.T) {
	logger = zap.NewNop()
	srv := newFakeHTTP(errors.New("address in use"))

	err := serveHTTP(context.Background(), srv, ":1")
	if err == nil || !strings.Contains(err.Error(), "address in use") {
		t.Fatalf("err = %v, want start failure", err)
	}
	if srv.addr != ":1" {
		t.Errorf("addr = %q", srv.addr)
	}
}
