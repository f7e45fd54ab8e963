package random

import (
	"math/rand"

	"github.com/they4kman/cleansweeper/game"
)

// Director opens hidden cells at random
type Director struct {
	// Falls back to the board's own generator when nil
	Rand *rand.Rand
}

func (director *Director) Next(board *game.Board) (game.Action, bool) {
	var hiddenCells []game.Pos
	for _, pos := range board.Positions() {
		if board.At(pos).IsHidden() {
			hiddenCells = append(hiddenCells, pos)
		}
	}
	if len(hiddenCells) == 0 {
		return game.Action{}, false
	}

	rnd := director.Rand
	if rnd == nil {
		rnd = board.Rand()
	}

	return game.Action{
		Kind: game.Open,
		Pos:  hiddenCells[rnd.Intn(len(hiddenCells))],
	}, true
}
