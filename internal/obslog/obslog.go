// Package obslog builds the zap logger shared by the server and the CLI.
package obslog

import (
    "fmt"
    "os"
    "path/filepath"
    "strings"

    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"
)

// Options select outputs and encoding. Format is one of legacy, json or console.
type Options struct {
    Level   string `yaml:"level"`
    Format  string `yaml:"format"`
    Console bool   `yaml:"console"`
    ToFile  bool   `yaml:"to_file"`
    File    string `yaml:"file"`
    Caller  bool   `yaml:"caller"`
}

// Defaults logs legacy format to stdout only.
func Defaults() Options {
    return Options{Level: "info", Format: "legacy", Console: true, File: filepath.Join("logs", "tictactoe.log")}
}

var globalLogger = zap.NewNop()

// L returns the logger installed by Init, or a no-op logger.
func L() *zap.Logger { return globalLogger }

// Init builds a logger from opts and installs it as the global logger.
func Init(opts Options) (*zap.Logger, error) {
    logger, err := New(opts)
    if err != nil {
        return nil, err
    }
    globalLogger = logger
    return logger, nil
}

// New builds a logger writing to every enabled output.
func New(opts Options) (*zap.Logger, error) {
    level := parseLevel(opts.Level)
    format := strings.ToLower(strings.TrimSpace(opts.Format))
    if format != "legacy" && format != "json" && format != "console" {
        format = "legacy"
    }

    var cores []zapcore.Core
    if opts.Console {
        cores = append(cores, zapcore.NewCore(encoder(format), zapcore.AddSync(os.Stdout), level))
    }
    if opts.ToFile {
        path := strings.TrimSpace(opts.File)
        if path == "" {
            path = Defaults().File
        }
        if err := ensureDir(filepath.Dir(path)); err != nil {
            return nil, err
        }
        f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
        if err != nil {
            return nil, fmt.Errorf("open log file: %w", err)
        }
        cores = append(cores, zapcore.NewCore(encoder(format), zapcore.AddSync(f), level))
    }
    if len(cores) == 0 {
        return zap.NewNop(), nil
    }

    logger := zap.New(zapcore.NewTee(cores...))
    if opts.Caller || format == "legacy" {
        logger = logger.WithOptions(zap.AddCaller())
    }
    return logger.WithOptions(zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

func encoder(format string) zapcore.Encoder {
    switch format {
    case "json":
        return zapcore.NewJSONEncoder(jsonEncoderConfig())
    case "console":
        return zapcore.NewConsoleEncoder(consoleEncoderConfig())
    default:
        return zapcore.NewConsoleEncoder(legacyEncoderConfig())
    }
}

func ensureDir(dir string) error {
    if strings.TrimSpace(dir) == "" || dir == "." {
        return nil
    }
    if _, err := os.Stat(dir); err == nil {
        return nil
    }
    return os.MkdirAll(dir, 0o755)
}

func parseLevel(s string) zapcore.Level {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "debug":
        return zapcore.DebugLevel
    case "warn", "warning":
        return zapcore.WarnLevel
    case "error":
        return zapcore.ErrorLevel
    default:
        return zapcore.InfoLevel
    }
}

func legacyEncoderConfig() zapcore.EncoderConfig {
    cfg := zap.NewProductionEncoderConfig()
    cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
    cfg.EncodeLevel = zapcore.CapitalLevelEncoder
    cfg.ConsoleSeparator = " | "
    return cfg
}

func consoleEncoderConfig() zapcore.EncoderConfig {
    cfg := zap.NewProductionEncoderConfig()
    cfg.EncodeTime = zapcore.ISO8601TimeEncoder
    cfg.EncodeLevel = zapcore.CapitalLevelEncoder
    return cfg
}

func jsonEncoderConfig() zapcore.EncoderConfig {
    cfg := zap.NewProductionEncoderConfig()
    cfg.EncodeTime = zapcore.ISO8601TimeEncoder
    cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
    return cfg
}
