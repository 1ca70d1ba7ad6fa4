package domain

import (
    "fmt"
    "strings"
)

// Cell represents a board cell state. X and O double as the two players.
type Cell uint8

const (
    Empty Cell = iota
    X
    O
)

// Opponent returns the other player. Empty has no opponent.
func (c Cell) Opponent() Cell {
    switch c {
    case X:
        return O
    case O:
        return X
    default:
        return Empty
    }
}

func (c Cell) String() string {
    switch c {
    case X:
        return "X"
    case O:
        return "O"
    default:
        return ""
    }
}

// MarshalText encodes a cell as "X", "O" or "".
func (c Cell) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText accepts "X", "O" (any case) and "" or "-" for Empty.
func (c *Cell) UnmarshalText(b []byte) error {
    switch strings.ToUpper(strings.TrimSpace(string(b))) {
    case "X":
        *c = X
    case "O":
        *c = O
    case "", "-":
        *c = Empty
    default:
        return fmt.Errorf("unknown cell %q", string(b))
    }
    return nil
}

// Board is a fixed 3x3 board stored row-major.
type Board [9]Cell

// Count returns how many cells hold c.
func (b Board) Count(c Cell) int {
    n := 0
    for _, v := range b {
        if v == c {
            n++
        }
    }
    return n
}

// Full reports whether no Empty cell remains.
func (b Board) Full() bool { return b.Count(Empty) == 0 }

// Status is the coarse state of a Result.
type Status uint8

const (
    InProgress Status = iota
    Won
    Drawn
)

func (s Status) String() string {
    switch s {
    case Won:
        return "win"
    case Drawn:
        return "draw"
    default:
        return "in_progress"
    }
}

// MarshalText encodes a status using its String form.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
    switch string(b) {
    case "in_progress":
        *s = InProgress
    case "win":
        *s = Won
    case "draw":
        *s = Drawn
    default:
        return fmt.Errorf("unknown status %q", string(b))
    }
    return nil
}

// Result is derived from a Board and never stored alongside it.
// Winner is set only when Status is Won.
type Result struct {
    Status Status
    Winner Cell
}

// Over reports whether the result is terminal.
func (r Result) Over() bool { return r.Status != InProgress }

func (r Result) String() string {
    if r.Status == Won {
        return r.Winner.String() + " wins"
    }
    return r.Status.String()
}
