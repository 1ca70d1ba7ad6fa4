package domain

// lines are the 8 winning triples.
var lines = [8][3]int{
    // rows
    {0, 1, 2}, {3, 4, 5}, {6, 7, 8},
    // cols
    {0, 3, 6}, {1, 4, 7}, {2, 5, 8},
    // diags
    {0, 4, 8}, {2, 4, 6},
}

// IsWinner reports whether side occupies any full row, column or diagonal.
func IsWinner(b Board, side Cell) bool {
    if side == Empty {
        return false
    }
    for _, ln := range lines {
        if b[ln[0]] == side && b[ln[1]] == side && b[ln[2]] == side {
            return true
        }
    }
    return false
}

// IsDraw reports a full board on which nobody has won.
func IsDraw(b Board) bool {
    return b.Full() && !IsWinner(b, X) && !IsWinner(b, O)
}

// IsGameOver reports whether either side has won or the board is drawn.
func IsGameOver(b Board) bool {
    return IsWinner(b, X) || IsWinner(b, O) || IsDraw(b)
}

// Outcome computes the GameResult of b. It panics if both sides hold a line;
// Restore and the turn controller keep such boards unreachable.
func Outcome(b Board) Result {
    xWins, oWins := IsWinner(b, X), IsWinner(b, O)
    switch {
    case xWins && oWins:
        panic("domain: board has two winners")
    case xWins:
        return Result{Status: Won, Winner: X}
    case oWins:
        return Result{Status: Won, Winner: O}
    case b.Full():
        return Result{Status: Drawn}
    }
    return Result{Status: InProgress}
}

// Validate checks that b could have been produced by alternating play with X
// first: X leads O by zero or one mark and at most one side holds a line.
func Validate(b Board) error {
    diff := b.Count(X) - b.Count(O)
    if diff != 0 && diff != 1 {
        return ErrInvalidBoard
    }
    xWins, oWins := IsWinner(b, X), IsWinner(b, O)
    if xWins && oWins {
        return ErrInvalidBoard
    }
    // the winner must have made the last move
    if xWins && diff != 1 {
        return ErrInvalidBoard
    }
    if oWins && diff != 0 {
        return ErrInvalidBoard
    }
    return nil
}

// WinningLines returns every line fully held by side.
func WinningLines(b Board, side Cell) [][3]int {
    var out [][3]int
    for _, ln := range lines {
        if side != Empty && b[ln[0]] == side && b[ln[1]] == side && b[ln[2]] == side {
            out = append(out, ln)
        }
    }
    return out
}
