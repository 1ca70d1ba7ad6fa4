package domain

import (
    "fmt"
    "math/rand"
    "strings"
    "time"
)

// Difficulty selects how the computer picks its moves.
type Difficulty uint8

const (
    Easy Difficulty = iota
    Medium
    Hard
)

func (d Difficulty) String() string {
    switch d {
    case Easy:
        return "easy"
    case Hard:
        return "hard"
    default:
        return "medium"
    }
}

// ParseDifficulty accepts easy, medium or hard in any case.
func ParseDifficulty(s string) (Difficulty, error) {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "easy":
        return Easy, nil
    case "medium":
        return Medium, nil
    case "hard":
        return Hard, nil
    }
    return Medium, fmt.Errorf("unknown difficulty %q", s)
}

func (d Difficulty) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Difficulty) UnmarshalText(b []byte) error {
    v, err := ParseDifficulty(string(b))
    if err != nil {
        return err
    }
    *d = v
    return nil
}

// mediumRandomShare is the chance that Medium plays a random move.
const mediumRandomShare = 0.5

// Policy turns a Difficulty into a move. It owns its random source and is
// not safe for concurrent use.
type Policy struct {
    rng *rand.Rand
}

// NewPolicy returns a policy drawing from src.
func NewPolicy(src rand.Source) *Policy {
    return &Policy{rng: rand.New(src)}
}

// NewSeededPolicy returns a reproducible policy; seed 0 seeds from the clock.
func NewSeededPolicy(seed int64) *Policy {
    if seed == 0 {
        seed = time.Now().UnixNano()
    }
    return NewPolicy(rand.NewSource(seed))
}

// ChooseMove picks O's move on b at difficulty d.
func (p *Policy) ChooseMove(b Board, d Difficulty) (int, bool) {
    return p.ChooseMoveFor(b, O, d)
}

// ChooseMoveFor picks side's move on b. Easy samples LegalMoves uniformly,
// Hard plays BestMoveFor and Medium flips a fair coin between the two.
func (p *Policy) ChooseMoveFor(b Board, side Cell, d Difficulty) (int, bool) {
    if IsGameOver(b) {
        return -1, false
    }
    switch d {
    case Easy:
        return p.random(b)
    case Medium:
        if p.rng.Float64() < mediumRandomShare {
            return p.random(b)
        }
    }
    return BestMoveFor(b, side)
}

func (p *Policy) random(b Board) (int, bool) {
    moves := LegalMoves(b)
    if len(moves) == 0 {
        return -1, false
    }
    return moves[p.rng.Intn(len(moves))], true
}
