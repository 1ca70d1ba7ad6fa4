package domain

import (
    "encoding/json"
    "errors"
    "strings"
    "testing"
)

// helper to apply a sequence of moves
func playMoves(t *testing.T, g *Game, moves [][2]int) {
    t.Helper()
    for i, m := range moves {
        if err := g.Play(m[0], m[1]); err != nil {
            t.Fatalf("move %d (%v) failed: %v", i, m, err)
        }
    }
}

func TestNewGameInitialState(t *testing.T) {
    g := New()
    if g.Turn != X {
        t.Fatalf("expected initial turn X, got %v", g.Turn)
    }
    if g.Moves != 0 {
        t.Fatalf("expected 0 moves, got %d", g.Moves)
    }
    if g.Over() {
        t.Fatalf("expected game not over")
    }
    if g.Winner() != Empty {
        t.Fatalf("expected no winner, got %v", g.Winner())
    }
    for i, c := range g.Board {
        if c != Empty {
            t.Fatalf("expected empty board, cell %d = %v", i, c)
        }
    }
}

func TestPlayOutOfBounds(t *testing.T) {
    g := New()
    cases := [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {5, 5}}
    for _, m := range cases {
        if err := g.Play(m[0], m[1]); err == nil || err != ErrOutOfBounds {
            t.Fatalf("expected ErrOutOfBounds for %v, got %v", m, err)
        }
    }
}

func TestPlayOccupied(t *testing.T) {
    g := New()
    if err := g.Play(0, 0); err != nil {
        t.Fatalf("first move failed: %v", err)
    }
    if err := g.Play(0, 0); err == nil || err != ErrOccupied {
        t.Fatalf("expected ErrOccupied on same cell, got %v", err)
    }
}

func TestTurnFlipsAfterValidMove(t *testing.T) {
    g := New()
    if g.Turn != X {
        t.Fatalf("expected X to start")
    }
    if err := g.Play(1, 1); err != nil {
        t.Fatalf("move failed: %v", err)
    }
    if g.Turn != O {
        t.Fatalf("expected turn to flip to O, got %v", g.Turn)
    }
}

func TestWinConditionsForX(t *testing.T) {
    winningLines := [][][2]int{
        // rows
        {{0, 0}, {0, 1}, {0, 2}},
        {{1, 0}, {1, 1}, {1, 2}},
        {{2, 0}, {2, 1}, {2, 2}},
        // cols
        {{0, 0}, {1, 0}, {2, 0}},
        {{0, 1}, {1, 1}, {2, 1}},
        {{0, 2}, {1, 2}, {2, 2}},
        // diags
        {{0, 0}, {1, 1}, {2, 2}},
        {{0, 2}, {1, 1}, {2, 0}},
    }
    filler := [][2]int{{1, 2}, {2, 1}, {1, 0}, {2, 0}, {0, 2}, {0, 1}}
    for _, line := range winningLines {
        g := New()
        seq := make([][2]int, 0, 5)
        // X, O, X, O, X on the line
        seq = append(seq, line[0])
        // choose O filler not on the line
        for _, f := range filler {
            if (f != line[0]) && (f != line[1]) && (f != line[2]) {
                seq = append(seq, f)
                break
            }
        }
        seq = append(seq, line[1])
        // another O filler not on the line and not same as previous filler
        for _, f := range filler {
            if (f != line[0]) && (f != line[1]) && (f != line[2]) && (f != seq[1]) {
                seq = append(seq, f)
                break
            }
        }
        seq = append(seq, line[2])

        playMoves(t, &g, seq)
        if !g.Over() || g.Winner() != X {
            t.Fatalf("expected X to win on line %v; over=%v winner=%v", line, g.Over(), g.Winner())
        }
        if g.Moves != 5 {
            t.Fatalf("expected 5 moves to win, got %d", g.Moves)
        }
    }
}

func TestWinConditionsForO(t *testing.T) {
    winningLines := [][][2]int{
        // rows
        {{0, 0}, {0, 1}, {0, 2}},
        {{1, 0}, {1, 1}, {1, 2}},
        {{2, 0}, {2, 1}, {2, 2}},
        // cols
        {{0, 0}, {1, 0}, {2, 0}},
        {{0, 1}, {1, 1}, {2, 1}},
        {{0, 2}, {1, 2}, {2, 2}},
        // diags
        {{0, 0}, {1, 1}, {2, 2}},
        {{0, 2}, {1, 1}, {2, 0}},
    }
    // For O to win: X plays fillers, O plays the line cells.
    fillers := [][2]int{{1, 2}, {2, 1}, {1, 0}, {2, 0}, {0, 2}, {0, 1}, {2, 2}, {1, 1}}
    for _, line := range winningLines {
        g := New()
        seq := make([][2]int, 0, 6)
        // X filler not on line
        var f1, f2, f3 [2]int
        found := 0
        for _, f := range fillers {
            if (f != line[0]) && (f != line[1]) && (f != line[2]) {
                switch found {
                case 0:
                    f1 = f
                case 1:
                    if f != f1 {
                        f2 = f
                    }
                case 2:
                    if f != f1 && f != f2 {
                        f3 = f
                    }
                }
                found++
                if found == 3 {
                    break
                }
            }
        }
        seq = append(seq, f1)      // X
        seq = append(seq, line[0]) // O
        seq = append(seq, f2)      // X
        seq = append(seq, line[1]) // O
        seq = append(seq, f3)      // X
        seq = append(seq, line[2]) // O wins

        playMoves(t, &g, seq)
        if !g.Over() || g.Winner() != O {
            t.Fatalf("expected O to win on line %v; over=%v winner=%v", line, g.Over(), g.Winner())
        }
        if g.Moves != 6 {
            t.Fatalf("expected 6 moves to win for O, got %d", g.Moves)
        }
    }
}

func TestDrawNoWinner(t *testing.T) {
    g := New()
    // Draw pattern (no three in a row)
    seq := [][2]int{
        {0, 0}, {0, 1}, {0, 2},
        {1, 1}, {1, 0}, {1, 2},
        {2, 1}, {2, 0}, {2, 2},
    }
    playMoves(t, &g, seq)
    if !g.Over() {
        t.Fatalf("expected game over on draw")
    }
    if g.Winner() != Empty {
        t.Fatalf("expected no winner on draw, got %v", g.Winner())
    }
    if g.Moves != 9 {
        t.Fatalf("expected 9 moves on draw, got %d", g.Moves)
    }
}

func TestGameOverBlocksFurtherMoves(t *testing.T) {
    g := New()
    // X wins quickly on top row
    seq := [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}}
    playMoves(t, &g, seq)
    if !g.Over() || g.Winner() != X {
        t.Fatalf("expected X win before extra move")
    }
    // Further move should be blocked
    if err := g.Play(2, 2); err == nil || err != ErrGameOver {
        t.Fatalf("expected ErrGameOver, got %v", err)
    }
}


func TestApplyMoveRejectionsWrapIllegalMove(t *testing.T) {
    g := New()
    if _, err := g.ApplyMove(4); err != nil {
        t.Fatalf("first move failed: %v", err)
    }
    for _, i := range []int{-1, 9, 4} {
        before := g.Board
        if _, err := g.ApplyMove(i); !errors.Is(err, ErrIllegalMove) {
            t.Fatalf("index %d: expected ErrIllegalMove, got %v", i, err)
        }
        if g.Board != before {
            t.Fatalf("index %d: board changed on rejection", i)
        }
    }
    if g.Turn != O {
        t.Fatalf("rejections must not flip the turn, got %v", g.Turn)
    }
}

func TestApplyMoveOnTerminalIsIdempotent(t *testing.T) {
    g := New()
    for _, i := range []int{0, 3, 1, 4, 2} {
        if _, err := g.ApplyMove(i); err != nil {
            t.Fatalf("move %d failed: %v", i, err)
        }
    }
    want := g.Board
    for i := 0; i < 3; i++ {
        if _, err := g.ApplyMove(8); !errors.Is(err, ErrGameOver) || !errors.Is(err, ErrIllegalMove) {
            t.Fatalf("expected ErrGameOver wrapping ErrIllegalMove, got %v", err)
        }
        if g.Board != want {
            t.Fatalf("board changed after rejected move on terminal game")
        }
    }
    if got := g.Result(); got.Status != Won || got.Winner != X {
        t.Fatalf("expected X win, got %v", got)
    }
}

func TestHumanVsAIAnswersEveryMove(t *testing.T) {
    g := NewGame(HumanVsAI, Hard, NewSeededPolicy(1))
    res, err := g.ApplyMove(0)
    if err != nil {
        t.Fatalf("move failed: %v", err)
    }
    if res.Over() {
        t.Fatalf("game cannot end after two plies")
    }
    if g.Moves != 2 || g.Board.Count(X) != 1 || g.Board.Count(O) != 1 {
        t.Fatalf("expected one X and one O after a single call, board=%v", g.Board)
    }
    if g.Turn != X {
        t.Fatalf("expected X to move after the computer replied, got %v", g.Turn)
    }
}

func TestHumanVsAIHardNeverLoses(t *testing.T) {
    // X plays the first free cell every time; Hard O must win or draw
    g := NewGame(HumanVsAI, Hard, NewSeededPolicy(1))
    for !g.Over() {
        if _, err := g.ApplyMove(LegalMoves(g.Board)[0]); err != nil {
            t.Fatalf("move failed: %v", err)
        }
    }
    if g.Winner() == X {
        t.Fatalf("hard computer lost: %v", g.Board)
    }
}

func TestHumanVsAITerminalOnComputerMove(t *testing.T) {
    g, err := Restore(Snapshot{
        Board:      Board{O, O, Empty, X, Empty, Empty, Empty, X, Empty},
        Turn:       X,
        Mode:       HumanVsAI,
        Difficulty: Hard,
    }, NewSeededPolicy(1))
    if err != nil {
        t.Fatalf("restore: %v", err)
    }
    // X ignores the threat; the reply completes O's top row
    res, err := g.ApplyMove(8)
    if err != nil {
        t.Fatalf("move failed: %v", err)
    }
    if res.Status != Won || res.Winner != O || g.Board[2] != O {
        t.Fatalf("expected O to win at 2, got %v board=%v", res, g.Board)
    }
    if _, err := g.ApplyMove(5); !errors.Is(err, ErrGameOver) {
        t.Fatalf("expected ErrGameOver, got %v", err)
    }
}

func TestResetRoundTrip(t *testing.T) {
    g := NewGame(HumanVsAI, Easy, NewSeededPolicy(3))
    for !g.Over() {
        if _, err := g.ApplyMove(LegalMoves(g.Board)[0]); err != nil {
            t.Fatalf("move failed: %v", err)
        }
    }
    g.Reset()
    if g.Board != (Board{}) {
        t.Fatalf("expected empty board after reset, got %v", g.Board)
    }
    if res := g.Result(); res.Status != InProgress {
        t.Fatalf("expected InProgress after reset, got %v", res)
    }
    if g.Turn != X || g.Moves != 0 {
        t.Fatalf("expected X to move with no moves, got turn=%v moves=%d", g.Turn, g.Moves)
    }
    if g.Mode != HumanVsAI || g.Difficulty != Easy {
        t.Fatalf("reset must keep mode and difficulty, got %v %v", g.Mode, g.Difficulty)
    }
}

func TestSetDifficultyBetweenGames(t *testing.T) {
    g := NewGame(HumanVsHuman, Easy, nil)
    if err := g.SetDifficulty(Hard); err != nil {
        t.Fatalf("fresh game should accept difficulty: %v", err)
    }
    _ = g.Play(1, 1)
    if err := g.SetDifficulty(Easy); !errors.Is(err, ErrGameInProgress) {
        t.Fatalf("expected ErrGameInProgress, got %v", err)
    }
    if g.Difficulty != Hard {
        t.Fatalf("difficulty changed mid-game")
    }
}

func TestRestore(t *testing.T) {
    cases := []struct {
        name string
        snap Snapshot
        ok   bool
        turn Cell
    }{
        {"empty", Snapshot{Turn: X}, true, X},
        {"o to move", Snapshot{Board: Board{X}, Turn: O}, true, O},
        {"wrong turn", Snapshot{Board: Board{X}, Turn: X}, false, Empty},
        {"o ahead", Snapshot{Board: Board{O}, Turn: X}, false, Empty},
        {"x two ahead", Snapshot{Board: Board{X, X}, Turn: O}, false, Empty},
        {
            "two winners",
            Snapshot{Board: Board{X, X, X, O, O, O}, Turn: X},
            false, Empty,
        },
        {
            "x won keeps turn",
            Snapshot{Board: Board{X, X, X, O, O}, Turn: X},
            true, X,
        },
        {
            "ai waiting on computer",
            Snapshot{Board: Board{X}, Turn: O, Mode: HumanVsAI},
            false, Empty,
        },
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            g, err := Restore(tc.snap, NewSeededPolicy(1))
            if !tc.ok {
                if !errors.Is(err, ErrInvalidBoard) {
                    t.Fatalf("expected ErrInvalidBoard, got %v", err)
                }
                return
            }
            if err != nil {
                t.Fatalf("restore: %v", err)
            }
            if g.Turn != tc.turn {
                t.Fatalf("expected turn %v, got %v", tc.turn, g.Turn)
            }
            if g.Moves != 9-g.Board.Count(Empty) {
                t.Fatalf("moves %d do not match board", g.Moves)
            }
            if g.Snapshot() != tc.snap {
                t.Fatalf("snapshot round trip mismatch: %+v vs %+v", g.Snapshot(), tc.snap)
            }
        })
    }
}

func TestSnapshotJSON(t *testing.T) {
    g := NewGame(HumanVsAI, Hard, NewSeededPolicy(1))
    if _, err := g.ApplyMove(4); err != nil {
        t.Fatalf("move failed: %v", err)
    }
    raw, err := json.Marshal(g.Snapshot())
    if err != nil {
        t.Fatalf("marshal: %v", err)
    }
    if !strings.Contains(string(raw), `"mode":"ai"`) || !strings.Contains(string(raw), `"difficulty":"hard"`) {
        t.Fatalf("unexpected encoding: %s", raw)
    }
    var s Snapshot
    if err := json.Unmarshal(raw, &s); err != nil {
        t.Fatalf("unmarshal: %v", err)
    }
    back, err := Restore(s, NewSeededPolicy(1))
    if err != nil {
        t.Fatalf("restore: %v", err)
    }
    if back.Board != g.Board || back.Turn != g.Turn {
        t.Fatalf("restored game differs: %v vs %v", back.Board, g.Board)
    }
}

func TestZeroGameIsPlayable(t *testing.T) {
    var g Game
    if _, err := g.ApplyMove(0); err != nil {
        t.Fatalf("ApplyMove on zero game: %v", err)
    }
    if g.Board[0] != X || g.Turn != O || g.Moves != 1 {
        t.Fatalf("expected X at 0 and O to move, got board=%v turn=%v moves=%d", g.Board, g.Turn, g.Moves)
    }
    if got := len(g.Board) - g.Board.Count(Empty); got != g.Moves {
        t.Fatalf("moves %d do not match %d marks", g.Moves, got)
    }

    ai := Game{Mode: HumanVsAI, Difficulty: Hard}
    if _, err := ai.ApplyMove(0); err != nil {
        t.Fatalf("ApplyMove on zero AI game: %v", err)
    }
    if ai.Board[4] != O || ai.Turn != X {
        t.Fatalf("expected the computer to answer in the centre, board=%v", ai.Board)
    }
}
