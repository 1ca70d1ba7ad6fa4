// Command tictactoe plays in the terminal, against the computer, against
// another person at the same keyboard, or computer against computer.
package main

import (
    "bufio"
    "errors"
    "flag"
    "fmt"
    "io"
    "os"
    "strconv"
    "strings"

    "go.uber.org/zap"

    "github.com/jaminalder/tictactoe-minimax/internal/domain"
    "github.com/jaminalder/tictactoe-minimax/internal/msgcat"
    "github.com/jaminalder/tictactoe-minimax/internal/obslog"
)

type options struct {
    mode     domain.Mode
    level    domain.Difficulty
    seed     int64
    selfPlay int
    xLevel   domain.Difficulty
    oLevel   domain.Difficulty
}

func main() {
    var (
        modeFlag     = flag.String("mode", "ai", "ai or human")
        levelFlag    = flag.String("difficulty", "medium", "easy, medium or hard")
        seed         = flag.Int64("seed", 0, "random seed, 0 for the clock")
        selfPlayFlag = flag.Int("selfplay", 0, "play N computer-vs-computer games and print the tally")
        xLevelFlag   = flag.String("x", "hard", "X difficulty for -selfplay")
        oLevelFlag   = flag.String("o", "hard", "O difficulty for -selfplay")
        messagesDir  = flag.String("messages", "", "directory with message overrides")
        logLevelFlag = flag.String("log-level", "", "log level (default error)")
    )
    flag.Parse()

    logger, err := newLogger(*logLevelFlag)
    if err != nil {
        fmt.Fprintln(os.Stderr, "logger init error:", err)
        os.Exit(1)
    }
    defer func() { _ = logger.Sync() }()

    opts, err := parseOptions(*modeFlag, *levelFlag, *xLevelFlag, *oLevelFlag)
    if err != nil {
        logger.Fatal("invalid flags", zap.Error(err))
    }
    opts.seed, opts.selfPlay = *seed, *selfPlayFlag

    cat, err := msgcat.New(*messagesDir)
    if err != nil {
        logger.Fatal("message catalog", zap.Error(err))
    }

    policy := domain.NewSeededPolicy(opts.seed)
    if opts.selfPlay > 0 {
        t := selfPlay(policy, opts.selfPlay, opts.xLevel, opts.oLevel, logger)
        fmt.Println(cat.Text("cli.tally", t))
        return
    }
    if err := play(os.Stdin, os.Stdout, cat, domain.NewGame(opts.mode, opts.level, policy)); err != nil {
        logger.Fatal("read input", zap.Error(err))
    }
}

// newLogger logs errors only unless level asks for more.
func newLogger(level string) (*zap.Logger, error) {
    lo := obslog.Defaults()
    lo.Level = "error"
    if level != "" {
        lo.Level = level
    }
    lo.Format = "console"
    return obslog.Init(lo)
}

func parseOptions(mode, level, xLevel, oLevel string) (options, error) {
    var opts options
    var err error
    if opts.mode, err = domain.ParseMode(mode); err != nil {
        return opts, fmt.Errorf("-mode: %w", err)
    }
    if opts.level, err = domain.ParseDifficulty(level); err != nil {
        return opts, fmt.Errorf("-difficulty: %w", err)
    }
    if opts.xLevel, err = domain.ParseDifficulty(xLevel); err != nil {
        return opts, fmt.Errorf("-x: %w", err)
    }
    if opts.oLevel, err = domain.ParseDifficulty(oLevel); err != nil {
        return opts, fmt.Errorf("-o: %w", err)
    }
    return opts, nil
}

// tally counts self-play results.
type tally struct {
    Games, X, O, Draws int
}

func selfPlay(p *domain.Policy, n int, xLevel, oLevel domain.Difficulty, logger *zap.Logger) tally {
    var t tally
    for k := 0; k < n; k++ {
        g := domain.NewGame(domain.HumanVsHuman, domain.Medium, p)
        for !g.Over() {
            level := xLevel
            if g.Turn == domain.O {
                level = oLevel
            }
            i, ok := p.ChooseMoveFor(g.Board, g.Turn, level)
            if !ok {
                break
            }
            if _, err := g.ApplyMove(i); err != nil {
                // policy only returns legal moves
                panic(err)
            }
        }
        t.Games++
        switch g.Winner() {
        case domain.X:
            t.X++
        case domain.O:
            t.O++
        default:
            t.Draws++
        }
        logger.Debug("self-play game", zap.Int("game", k+1), zap.Stringer("result", g.Result()))
    }
    return t
}

// play runs the interactive loop until the input ends or the player quits.
// Cells are numbered 1-9 row by row.
func play(in io.Reader, out io.Writer, cat *msgcat.Catalog, g domain.Game) error {
    sc := bufio.NewScanner(in)
    for {
        printBoard(out, g.Board)
        if res := g.Result(); res.Over() {
            fmt.Fprintln(out, resultLine(cat, res))
        }
        fmt.Fprint(out, cat.Text("cli.prompt", map[string]any{"Player": g.Turn.String()}))
        if !sc.Scan() {
            fmt.Fprintln(out)
            return sc.Err()
        }
        cmd := strings.ToLower(strings.TrimSpace(sc.Text()))
        switch cmd {
        case "":
            continue
        case "q", "quit", "exit":
            return nil
        case "r", "reset":
            g.Reset()
            continue
        }
        n, err := strconv.Atoi(cmd)
        if err != nil {
            fmt.Fprintln(out, cat.Text("error.invalid_move", nil))
            continue
        }
        before := g.Board
        if _, err := g.ApplyMove(n - 1); err != nil {
            fmt.Fprintln(out, cat.Text(errorKey(err), nil))
            continue
        }
        if g.Mode == domain.HumanVsAI {
            for i := range g.Board {
                if before[i] == domain.Empty && g.Board[i] == domain.O {
                    fmt.Fprintln(out, cat.Text("cli.computer_move", map[string]any{"Cell": i + 1}))
                }
            }
        }
    }
}

func errorKey(err error) string {
    switch {
    case errors.Is(err, domain.ErrOccupied):
        return "error.occupied"
    case errors.Is(err, domain.ErrOutOfBounds):
        return "error.out_of_bounds"
    case errors.Is(err, domain.ErrGameOver):
        return "error.game_over"
    }
    return "error.invalid_move"
}

func resultLine(cat *msgcat.Catalog, res domain.Result) string {
    if res.Status == domain.Won {
        return cat.Text("status.win", map[string]any{"Player": res.Winner.String()})
    }
    return cat.Text("status.draw", nil)
}

func printBoard(out io.Writer, b domain.Board) {
    for r := 0; r < 3; r++ {
        cells := make([]string, 3)
        for c := 0; c < 3; c++ {
            i := r*3 + c
            cells[c] = b[i].String()
            if b[i] == domain.Empty {
                cells[c] = strconv.Itoa(i + 1)
            }
        }
        fmt.Fprintf(out, " %s \n", strings.Join(cells, " | "))
        if r < 2 {
            fmt.Fprintln(out, "---+---+---")
        }
    }
}
