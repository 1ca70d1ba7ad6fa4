package domain

import "testing"

func TestBestMoveCompletesWinningRow(t *testing.T) {
    b := Board{
        O, O, Empty,
        X, X, Empty,
        Empty, Empty, Empty,
    }
    got, ok := BestMove(b)
    if !ok || got != 2 {
        t.Fatalf("expected 2, got %d (ok=%v)", got, ok)
    }
}

func TestBestMoveBlocksImmediateLoss(t *testing.T) {
    b := Board{
        X, X, Empty,
        Empty, O, Empty,
        Empty, Empty, Empty,
    }
    if got, _ := BestMove(b); got != 2 {
        t.Fatalf("expected O to block at 2, got %d", got)
    }
}

func TestBestMoveTieBreakIsLowestIndex(t *testing.T) {
    // every opening draws, so index 0 takes the tie
    if got, _ := BestMoveFor(Board{}, X); got != 0 {
        t.Fatalf("expected 0 on empty board, got %d", got)
    }
    // against a corner opening only the centre holds the draw
    b := Board{X}
    if got, _ := BestMove(b); got != 4 {
        t.Fatalf("expected centre reply to corner opening, got %d", got)
    }
}

func TestBestMoveDoesNotMutate(t *testing.T) {
    b := Board{X, Empty, Empty, Empty, O}
    before := b
    BestMove(b)
    Minimax(b, O, false)
    if b != before {
        t.Fatalf("search mutated the board")
    }
}

func TestBestMoveOnDecidedBoard(t *testing.T) {
    if _, ok := BestMove(Board{X, X, X, O, O}); ok {
        t.Fatalf("expected no move on a won board")
    }
    if _, ok := BestMove(Board{X, O, X, X, O, O, O, X, X}); ok {
        t.Fatalf("expected no move on a drawn board")
    }
}

func TestMinimaxValues(t *testing.T) {
    tests := []struct {
        name       string
        board      Board
        maximizing bool
        want       int
    }{
        {"empty board draws", Board{}, false, 0},
        {"o has won", Board{O, O, O, X, X, Empty, X}, true, 1},
        {"x has won", Board{X, X, X, O, O}, true, -1},
        {"o wins next", Board{O, O, Empty, X, X, Empty, X}, true, 1},
        {"opposite corners hold", Board{X, Empty, Empty, Empty, O, Empty, Empty, Empty, X}, true, 0},
        {"x wins next", Board{X, X, Empty, O, O}, false, -1},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            if got := Minimax(tt.board, O, tt.maximizing); got != tt.want {
                t.Fatalf("expected %d, got %d", tt.want, got)
            }
        })
    }
}

func TestHardSelfPlayDraws(t *testing.T) {
    p := NewSeededPolicy(7)
    var b Board
    turn := X
    for !IsGameOver(b) {
        m, ok := p.ChooseMoveFor(b, turn, Hard)
        if !ok {
            t.Fatalf("no move on unfinished board %v", b)
        }
        b[m] = turn
        turn = turn.Opponent()
    }
    if res := Outcome(b); res.Status != Drawn {
        t.Fatalf("optimal play must draw, got %v on %v", res, b)
    }
}
