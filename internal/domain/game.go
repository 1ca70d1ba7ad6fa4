package domain

import (
    "fmt"
    "strings"
)

// Mode decides who supplies O's moves.
type Mode uint8

const (
    HumanVsHuman Mode = iota
    HumanVsAI
)

func (m Mode) String() string {
    if m == HumanVsAI {
        return "ai"
    }
    return "human"
}

// ParseMode accepts "ai" and "human" plus a few aliases.
func ParseMode(s string) (Mode, error) {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "ai", "computer", "hva":
        return HumanVsAI, nil
    case "human", "multiplayer", "hvh":
        return HumanVsHuman, nil
    }
    return HumanVsHuman, fmt.Errorf("unknown mode %q", s)
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
    v, err := ParseMode(string(b))
    if err != nil {
        return err
    }
    *m = v
    return nil
}

// Game holds the current state of a Tic-Tac-Toe match. It is the only
// mutator of its Board. The zero value is a human-vs-human game with X to
// move. In HumanVsAI mode the human is X and every accepted
// X move is answered by the policy before ApplyMove returns.
type Game struct {
    Board      Board
    Turn       Cell
    Mode       Mode
    Difficulty Difficulty
    Moves      int

    policy *Policy
}

// New returns a human-vs-human game with X to move.
func New() Game {
    return NewGame(HumanVsHuman, Medium, nil)
}

// NewGame returns a fresh game. A nil policy is replaced by a clock-seeded one.
func NewGame(mode Mode, d Difficulty, p *Policy) Game {
    if p == nil {
        p = NewSeededPolicy(0)
    }
    return Game{Turn: X, Mode: mode, Difficulty: d, policy: p}
}

// Result derives the GameResult from the board.
func (g *Game) Result() Result { return Outcome(g.Board) }

// Over reports whether the game reached a terminal state.
func (g *Game) Over() bool { return IsGameOver(g.Board) }

// Winner returns the winning side, or Empty.
func (g *Game) Winner() Cell { return g.Result().Winner }

// ApplyMove plays the side to move at cell i (0..8). On rejection the board
// is unchanged. In HumanVsAI mode one call may advance the game two plies.
func (g *Game) ApplyMove(i int) (Result, error) {
    g.init()
    if g.Over() {
        return Result{}, ErrGameOver
    }
    if i < 0 || i >= len(g.Board) {
        return Result{}, ErrOutOfBounds
    }
    if g.Board[i] != Empty {
        return Result{}, ErrOccupied
    }

    if g.advance(i) && g.Mode == HumanVsAI && g.Turn == O {
        if m, ok := g.policy.ChooseMove(g.Board, g.Difficulty); ok {
            g.advance(m)
        }
    }
    return g.Result(), nil
}

// Play attempts to play the current turn at row r, column c (0..2).
func (g *Game) Play(r, c int) error {
    if r < 0 || r > 2 || c < 0 || c > 2 {
        if g.Over() {
            return ErrGameOver
        }
        return ErrOutOfBounds
    }
    _, err := g.ApplyMove(r*3 + c)
    return err
}

// init makes a zero Game playable: the side to move follows from the mark
// counts and a missing policy is seeded from the clock.
func (g *Game) init() {
    if g.Turn == Empty {
        g.Moves = len(g.Board) - g.Board.Count(Empty)
        g.Turn = X
        if g.Moves%2 == 1 {
            g.Turn = O
        }
    }
    if g.policy == nil {
        g.policy = NewSeededPolicy(0)
    }
}

// advance marks cell i for the side to move and flips the turn unless the
// move ended the game. It reports whether play continues.
func (g *Game) advance(i int) bool {
    g.Board[i] = g.Turn
    g.Moves++
    if g.Over() {
        return false
    }
    g.Turn = g.Turn.Opponent()
    return true
}

// Reset discards the board and gives X the move. Mode, difficulty and the
// random source are kept.
func (g *Game) Reset() {
    *g = NewGame(g.Mode, g.Difficulty, g.policy)
}

// SetDifficulty changes the difficulty between games. It fails with
// ErrGameInProgress once a move has been played on an unfinished board.
func (g *Game) SetDifficulty(d Difficulty) error {
    if g.Moves > 0 && !g.Over() {
        return ErrGameInProgress
    }
    g.Difficulty = d
    return nil
}

// Snapshot is the serializable form of a Game.
type Snapshot struct {
    Board      Board      `json:"board"`
    Turn       Cell       `json:"turn"`
    Mode       Mode       `json:"mode"`
    Difficulty Difficulty `json:"difficulty"`
}

// Snapshot returns a copy of the game state without the random source.
func (g *Game) Snapshot() Snapshot {
    return Snapshot{Board: g.Board, Turn: g.Turn, Mode: g.Mode, Difficulty: g.Difficulty}
}

// Restore rebuilds a game from s, checking the board invariants and the side
// to move. It returns ErrInvalidBoard for anything alternating play could not
// have produced.
func Restore(s Snapshot, p *Policy) (Game, error) {
    if err := Validate(s.Board); err != nil {
        return Game{}, err
    }
    g := NewGame(s.Mode, s.Difficulty, p)
    g.Board = s.Board
    g.Moves = len(g.Board) - g.Board.Count(Empty)

    // X moves on even counts; after a terminal move Turn stays on the mover
    next := X
    if g.Moves%2 == 1 {
        next = O
    }
    if g.Over() && g.Moves > 0 {
        next = next.Opponent()
    }
    if s.Turn != next {
        return Game{}, fmt.Errorf("%w: turn %v, expected %v", ErrInvalidBoard, s.Turn, next)
    }
    if s.Mode == HumanVsAI && !g.Over() && next != X {
        return Game{}, fmt.Errorf("%w: computer to move", ErrInvalidBoard)
    }
    g.Turn = next
    return g, nil
}
