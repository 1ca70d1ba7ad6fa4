package web

import (
    "errors"

    "github.com/jaminalder/tictactoe-minimax/internal/app"
    "github.com/jaminalder/tictactoe-minimax/internal/domain"
    "github.com/jaminalder/tictactoe-minimax/internal/msgcat"
)

var difficulties = []string{domain.Easy.String(), domain.Medium.String(), domain.Hard.String()}

type cellView struct {
    Index int
    Mark  string
    Win   bool
}

type boardView struct {
    ID           string
    Rows         [3][3]cellView
    Status       string
    Error        string
    Over         bool
    AI           bool
    Difficulty   string
    Difficulties []string
}

type indexView struct {
    Mode         string
    Difficulty   string
    Difficulties []string
}

// stateView is the JSON form of a game as seen by one caller.
type stateView struct {
    ID         string            `json:"id"`
    Board      domain.Board      `json:"board"`
    Turn       domain.Cell       `json:"turn"`
    Status     domain.Status     `json:"status"`
    Winner     domain.Cell       `json:"winner"`
    Message    string            `json:"message"`
    Mode       domain.Mode       `json:"mode"`
    Difficulty domain.Difficulty `json:"difficulty"`
    Moves      int               `json:"moves"`
    Seat       domain.Cell       `json:"seat"`
    LegalMoves []int             `json:"legal_moves"`
}

func newBoardView(cat *msgcat.Catalog, gs *app.GameState, seat domain.Cell, errMsg string) boardView {
    g := &gs.Game
    res := g.Result()
    var wins [9]bool
    if res.Status == domain.Won {
        for _, ln := range domain.WinningLines(g.Board, res.Winner) {
            wins[ln[0]], wins[ln[1]], wins[ln[2]] = true, true, true
        }
    }
    v := boardView{
        ID:           gs.ID,
        Status:       statusLine(cat, gs, seat),
        Error:        errMsg,
        Over:         res.Over(),
        AI:           g.Mode == domain.HumanVsAI,
        Difficulty:   g.Difficulty.String(),
        Difficulties: difficulties,
    }
    for i, c := range g.Board {
        v.Rows[i/3][i%3] = cellView{Index: i, Mark: c.String(), Win: wins[i]}
    }
    return v
}

func newStateView(cat *msgcat.Catalog, gs *app.GameState, seat domain.Cell) stateView {
    g := &gs.Game
    res := g.Result()
    return stateView{
        ID:         gs.ID,
        Board:      g.Board,
        Turn:       g.Turn,
        Status:     res.Status,
        Winner:     res.Winner,
        Message:    statusLine(cat, gs, seat),
        Mode:       g.Mode,
        Difficulty: g.Difficulty,
        Moves:      g.Moves,
        Seat:       seat,
        LegalMoves: domain.LegalMoves(g.Board),
    }
}

// statusLine is the one-line summary shown above the board. seat is Empty
// for spectators and for broadcasts.
func statusLine(cat *msgcat.Catalog, gs *app.GameState, seat domain.Cell) string {
    res := gs.Game.Result()
    switch {
    case res.Status == domain.Won:
        return cat.Text("status.win", map[string]any{"Player": res.Winner.String()})
    case res.Status == domain.Drawn:
        return cat.Text("status.draw", nil)
    case seat != domain.Empty && seat == gs.Game.Turn:
        return cat.Text("status.your_turn", nil)
    }
    return cat.Text("status.player_turn", map[string]any{"Player": gs.Game.Turn.String()})
}

// errorKey maps service and domain errors to catalog keys.
func errorKey(err error) string {
    switch {
    case errors.Is(err, app.ErrNotFound):
        return "error.not_found"
    case errors.Is(err, app.ErrNotYourTurn):
        return "error.not_your_turn"
    case errors.Is(err, app.ErrNotAPlayer):
        return "error.spectator"
    case errors.Is(err, domain.ErrOccupied):
        return "error.occupied"
    case errors.Is(err, domain.ErrOutOfBounds):
        return "error.out_of_bounds"
    case errors.Is(err, domain.ErrGameOver):
        return "error.game_over"
    case errors.Is(err, domain.ErrGameInProgress):
        return "error.in_progress"
    }
    return "error.invalid_move"
}
