// Package store keeps live game sessions between requests.
package store

import (
    "context"
    "time"

    "github.com/jaminalder/tictactoe-minimax/internal/domain"
)

// Record is the stored form of one session.
type Record struct {
    ID      string          `json:"id"`
    Game    domain.Snapshot `json:"game"`
    X       string          `json:"x,omitempty"`
    O       string          `json:"o,omitempty"`
    Created time.Time       `json:"created"`
    Updated time.Time       `json:"updated"`
}

// Store persists session records. Load returns nil, nil for unknown or
// expired ids.
type Store interface {
    Save(ctx context.Context, rec *Record) error
    Load(ctx context.Context, id string) (*Record, error)
    Delete(ctx context.Context, id string) error
    Close() error
}
