package domain

// Minimax returns the game-theoretic value of b for self under optimal play:
// 1 if self wins, -1 if its opponent wins, 0 for a draw. maximizing says
// whether self is the side to place the next mark. The search is exhaustive
// and works on its own copy of b.
func Minimax(b Board, self Cell, maximizing bool) int {
    return minimax(&b, self, maximizing)
}

// minimax places and clears marks on b in place; every placement is undone
// before the next sibling is tried, so b is unchanged on return.
func minimax(b *Board, self Cell, maximizing bool) int {
    opp := self.Opponent()
    switch {
    case IsWinner(*b, self):
        return 1
    case IsWinner(*b, opp):
        return -1
    case b.Full():
        return 0
    }

    mover, best := self, -2
    if !maximizing {
        mover, best = opp, 2
    }
    for i := range b {
        if b[i] != Empty {
            continue
        }
        b[i] = mover
        score := minimax(b, self, !maximizing)
        b[i] = Empty
        if maximizing && score > best {
            best = score
        } else if !maximizing && score < best {
            best = score
        }
    }
    return best
}

// BestMove returns O's optimal move on b. See BestMoveFor.
func BestMove(b Board) (int, bool) { return BestMoveFor(b, O) }

// BestMoveFor places side on every legal cell, scores the reply with
// Minimax and keeps the first move with the strictly highest score, so ties
// go to the lowest index. It returns false when b is already decided.
func BestMoveFor(b Board, side Cell) (int, bool) {
    if side == Empty || IsGameOver(b) {
        return -1, false
    }
    move, best := -1, -2
    for _, i := range LegalMoves(b) {
        b[i] = side
        score := minimax(&b, side, false)
        b[i] = Empty
        if score > best {
            best, move = score, i
        }
    }
    return move, move >= 0
}
