package obslog

import (
    "os"
    "path/filepath"
    "strings"
    "testing"

    "go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
    cases := map[string]zapcore.Level{
        "debug": zapcore.DebugLevel, "WARN": zapcore.WarnLevel, "warning": zapcore.WarnLevel,
        "error": zapcore.ErrorLevel, "": zapcore.InfoLevel, "bogus": zapcore.InfoLevel,
    }
    for in, want := range cases {
        if got := parseLevel(in); got != want {
            t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
        }
    }
}

func TestNewWritesJSONToFile(t *testing.T) {
    path := filepath.Join(t.TempDir(), "nested", "game.log")
    logger, err := New(Options{Level: "info", Format: "json", ToFile: true, File: path})
    if err != nil {
        t.Fatalf("New: %v", err)
    }
    logger.Info("game created")
    logger.Debug("hidden")
    _ = logger.Sync()

    raw, err := os.ReadFile(path)
    if err != nil {
        t.Fatalf("read log: %v", err)
    }
    out := string(raw)
    if !strings.Contains(out, `"msg":"game created"`) || !strings.Contains(out, `"level":"info"`) {
        t.Fatalf("unexpected log output: %q", out)
    }
    if strings.Contains(out, "hidden") {
        t.Fatalf("debug line written at info level")
    }
}

func TestInitWithoutOutputsIsNop(t *testing.T) {
    logger, err := Init(Options{})
    if err != nil {
        t.Fatalf("Init: %v", err)
    }
    if logger != L() {
        t.Fatalf("Init must install the global logger")
    }
    if logger.Core().Enabled(zapcore.ErrorLevel) {
        t.Fatalf("expected a no-op logger")
    }
}
