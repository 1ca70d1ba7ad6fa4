// Package config loads server settings from an optional YAML file and the
// environment. Environment values win over the file.
package config

import (
    "errors"
    "fmt"
    "os"
    "strconv"
    "strings"
    "time"

    yaml "gopkg.in/yaml.v3"

    "github.com/jaminalder/tictactoe-minimax/internal/domain"
    "github.com/jaminalder/tictactoe-minimax/internal/obslog"
)

type AppConfig struct {
    Addr string `yaml:"addr"`

    // RedisURL selects the Redis session store; empty keeps sessions in memory.
    RedisURL   string        `yaml:"redis_url"`
    SessionTTL time.Duration `yaml:"session_ttl"`

    // Seed feeds the computer's random source; 0 seeds from the clock.
    Seed int64 `yaml:"seed"`

    DefaultMode       string `yaml:"default_mode"`
    DefaultDifficulty string `yaml:"default_difficulty"`

    MessagesDir string `yaml:"messages_dir"`

    Log obslog.Options `yaml:"log"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *AppConfig {
    return &AppConfig{
        Addr:              ":8080",
        SessionTTL:        time.Hour,
        DefaultMode:       "ai",
        DefaultDifficulty: "medium",
        Log:               obslog.Defaults(),
    }
}

// Load reads path (if not empty) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (*AppConfig, error) {
    cfg := Defaults()
    if strings.TrimSpace(path) != "" {
        raw, err := os.ReadFile(path)
        if err != nil {
            return nil, fmt.Errorf("read config: %w", err)
        }
        if err := yaml.Unmarshal(raw, cfg); err != nil {
            return nil, fmt.Errorf("parse config %s: %w", path, err)
        }
    }
    if err := cfg.applyEnv(); err != nil {
        return nil, err
    }
    if err := cfg.Validate(); err != nil {
        return nil, err
    }
    return cfg, nil
}

func (cfg *AppConfig) applyEnv() error {
    if v := env("TTT_ADDR"); v != "" {
        cfg.Addr = v
    }
    if v := env("TTT_REDIS_URL"); v != "" {
        cfg.RedisURL = v
    }
    if v := env("TTT_SESSION_TTL"); v != "" {
        d, err := time.ParseDuration(v)
        if err != nil {
            return fmt.Errorf("TTT_SESSION_TTL: %w", err)
        }
        cfg.SessionTTL = d
    }
    if v := env("TTT_SEED"); v != "" {
        n, err := strconv.ParseInt(v, 10, 64)
        if err != nil {
            return fmt.Errorf("TTT_SEED: %w", err)
        }
        cfg.Seed = n
    }
    if v := env("TTT_DEFAULT_MODE"); v != "" {
        cfg.DefaultMode = v
    }
    if v := env("TTT_DEFAULT_DIFFICULTY"); v != "" {
        cfg.DefaultDifficulty = v
    }
    if v := env("TTT_MESSAGES_DIR"); v != "" {
        cfg.MessagesDir = v
    }

    if v := env("LOG_LEVEL"); v != "" {
        cfg.Log.Level = v
    }
    if v := env("LOG_FORMAT"); v != "" {
        cfg.Log.Format = v
    }
    if v := env("LOG_FILE"); v != "" {
        cfg.Log.File = v
    }
    if v := env("LOG_TO_CONSOLE"); v != "" {
        if b, err := strconv.ParseBool(v); err == nil {
            cfg.Log.Console = b
        }
    }
    if v := env("LOG_TO_FILE"); v != "" {
        if b, err := strconv.ParseBool(v); err == nil {
            cfg.Log.ToFile = b
        }
    }
    return nil
}

// Validate rejects unknown mode or difficulty names and an empty address.
func (cfg *AppConfig) Validate() error {
    if strings.TrimSpace(cfg.Addr) == "" {
        return errors.New("addr is required")
    }
    if _, err := domain.ParseMode(cfg.DefaultMode); err != nil {
        return fmt.Errorf("default_mode: %w", err)
    }
    if _, err := domain.ParseDifficulty(cfg.DefaultDifficulty); err != nil {
        return fmt.Errorf("default_difficulty: %w", err)
    }
    return nil
}

// Mode returns the parsed default mode. Call after Validate.
func (cfg *AppConfig) Mode() domain.Mode {
    m, _ := domain.ParseMode(cfg.DefaultMode)
    return m
}

// Difficulty returns the parsed default difficulty. Call after Validate.
func (cfg *AppConfig) Difficulty() domain.Difficulty {
    d, _ := domain.ParseDifficulty(cfg.DefaultDifficulty)
    return d
}

func env(k string) string { return strings.TrimSpace(os.Getenv(k)) }
