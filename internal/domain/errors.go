package domain

import (
    "errors"
    "fmt"
)

// ErrIllegalMove is the single rejection kind of the turn controller. The
// specific causes below wrap it.
var ErrIllegalMove = errors.New("illegal move")

// Errors returned by domain operations.
var (
    ErrOutOfBounds    = fmt.Errorf("%w: out of bounds", ErrIllegalMove)
    ErrOccupied       = fmt.Errorf("%w: cell occupied", ErrIllegalMove)
    ErrGameOver       = fmt.Errorf("%w: game over", ErrIllegalMove)
    ErrInvalidBoard   = errors.New("invalid board")
    ErrGameInProgress = errors.New("game in progress")
)
