package domain

// LegalMoves lists the empty cell indices in ascending order. The order is
// the tie-break for the search and the sampling order for random play.
func LegalMoves(b Board) []int {
    moves := make([]int, 0, len(b))
    for i, c := range b {
        if c == Empty {
            moves = append(moves, i)
        }
    }
    return moves
}
